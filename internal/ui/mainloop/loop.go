// Package mainloop provides the single execution context on which content
// scripts and permission delegate events run.
package mainloop

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by Run after Quit.
var ErrStopped = errors.New("main loop stopped")

// Loop is a FIFO task queue drained by exactly one goroutine at a time.
// Post never blocks, so tasks may post further tasks.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
}

// New creates an idle loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post schedules fn on the loop. Tasks posted after Quit are dropped.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Drain runs queued tasks on the calling goroutine until the queue is empty,
// including tasks posted while draining. It returns how many tasks ran.
func (l *Loop) Drain() int {
	ran := 0
	for {
		fn := l.next()
		if fn == nil {
			return ran
		}
		fn()
		ran++
	}
}

// Run drains tasks until ctx is done or Quit is called.
func (l *Loop) Run(ctx context.Context) error {
	return l.RunUntilIdle(ctx, nil)
}

// RunUntilIdle drains tasks until the queue is empty and busy reports false.
// A nil busy keeps the loop running until ctx is done or Quit is called.
// busy is evaluated on the loop goroutine.
func (l *Loop) RunUntilIdle(ctx context.Context, busy func() bool) error {
	for {
		l.Drain()

		if l.isStopped() {
			return ErrStopped
		}
		if busy != nil && !busy() && l.Pending() == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// RunSync posts fn and waits for it to finish. It must not be called from
// the loop goroutine itself.
func (l *Loop) RunSync(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Quit stops the loop and drops queued tasks.
func (l *Loop) Quit() {
	l.mu.Lock()
	l.stopped = true
	l.queue = nil
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

func (l *Loop) isStopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// Immediate runs fn on the caller's goroutine. It satisfies the post
// signature for headless callers that are already confined to one goroutine.
func Immediate(fn func()) {
	if fn != nil {
		fn()
	}
}
