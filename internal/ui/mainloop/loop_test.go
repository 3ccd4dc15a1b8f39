package mainloop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_DrainRunsNestedPostsInOrder(t *testing.T) {
	l := New()

	var order []int
	l.Post(func() {
		order = append(order, 1)
		l.Post(func() { order = append(order, 3) })
	})
	l.Post(func() { order = append(order, 2) })

	assert.Equal(t, 2, l.Pending())
	assert.Equal(t, 3, l.Drain())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, l.Pending())
}

func TestLoop_RunSyncFromOtherGoroutine(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	var ran atomic.Bool
	require.NoError(t, l.RunSync(ctx, func() { ran.Store(true) }))
	assert.True(t, ran.Load())

	l.Quit()
	assert.ErrorIs(t, <-done, ErrStopped)
}

func TestLoop_RunUntilIdle(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	remaining := 3
	var tick func()
	tick = func() {
		remaining--
		if remaining > 0 {
			go l.Post(tick)
		}
	}
	l.Post(tick)

	err := l.RunUntilIdle(ctx, func() bool { return remaining > 0 })
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestLoop_RunStopsOnContextCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, l.Run(ctx), context.Canceled)
}

func TestLoop_PostAfterQuitIsDropped(t *testing.T) {
	l := New()
	l.Quit()

	ran := false
	l.Post(func() { ran = true })
	assert.Equal(t, 0, l.Drain())
	assert.False(t, ran)
}

func TestImmediate(t *testing.T) {
	ran := false
	Immediate(func() { ran = true })
	assert.True(t, ran)
	Immediate(nil)
}
