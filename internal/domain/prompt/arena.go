// Package prompt implements single-use permission callback tokens.
//
// Every pending permission request owns one slot in an Arena. A Callback is a
// handle to that slot (index plus generation). Settling the slot, either by a
// successful Invoke or by withdrawal, frees it for reuse and bumps the
// generation, so stale handles can never reach a newer request.
package prompt

import (
	"fmt"
	"sync"

	"github.com/bnema/geoprompt/internal/domain/entity"
)

// State is the lifecycle state of a callback.
type State uint8

const (
	// StatePending means the request is waiting for a decision.
	StatePending State = iota
	// StateResolved means Invoke succeeded.
	StateResolved
	// StateWithdrawn means the request was withdrawn or its surface was closed.
	StateWithdrawn
	// StateExpired means the slot was recycled for a newer request.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateWithdrawn:
		return "withdrawn"
	case StateExpired:
		return "expired"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// ResolveFunc receives the decision of a successfully invoked callback.
// It runs on the goroutine that called Invoke, after the arena lock is released.
type ResolveFunc func(decision entity.PermissionDecision)

// Token identifies one arena slot at one generation.
type Token struct {
	slot uint32
	gen  uint32
}

type slot struct {
	gen       uint32
	state     State
	origin    string
	onResolve ResolveFunc
}

// Arena owns the slots backing permission callbacks.
type Arena struct {
	mu    sync.Mutex
	slots []slot
	free  []uint32
	live  int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Acquire allocates a pending slot for origin and returns its callback.
func (a *Arena) Acquire(origin string, onResolve ResolveFunc) *Callback {
	a.mu.Lock()
	defer a.mu.Unlock()

	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		idx = uint32(len(a.slots) - 1)
	}

	s := &a.slots[idx]
	s.gen++
	s.state = StatePending
	s.origin = origin
	s.onResolve = onResolve
	a.live++

	return &Callback{
		arena:  a,
		token:  Token{slot: idx, gen: s.gen},
		origin: origin,
	}
}

// Withdraw invalidates the pending slot behind tok.
// It returns false if the slot was already settled.
func (a *Arena) Withdraw(tok Token) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.pendingSlot(tok)
	if !ok {
		return false
	}
	a.settle(tok.slot, s, StateWithdrawn)
	return true
}

// Pending returns the number of unresolved slots.
func (a *Arena) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// State returns the state of the slot behind tok.
func (a *Arena) State(tok Token) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	if int(tok.slot) >= len(a.slots) {
		return StateExpired
	}
	s := &a.slots[tok.slot]
	if s.gen != tok.gen {
		return StateExpired
	}
	return s.state
}

func (a *Arena) resolve(tok Token, origin string, decision entity.PermissionDecision) error {
	a.mu.Lock()
	s, ok := a.pendingSlot(tok)
	if !ok {
		a.mu.Unlock()
		return entity.ErrInvalidState
	}
	if s.origin != origin {
		want := s.origin
		a.mu.Unlock()
		return fmt.Errorf("%w: request was for %q, got %q", entity.ErrOriginMismatch, want, origin)
	}
	onResolve := s.onResolve
	a.settle(tok.slot, s, StateResolved)
	a.mu.Unlock()

	if onResolve != nil {
		onResolve(decision)
	}
	return nil
}

// pendingSlot must be called with a.mu held.
func (a *Arena) pendingSlot(tok Token) (*slot, bool) {
	if int(tok.slot) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[tok.slot]
	if s.gen != tok.gen || s.state != StatePending {
		return nil, false
	}
	return s, true
}

// settle must be called with a.mu held.
func (a *Arena) settle(idx uint32, s *slot, state State) {
	s.state = state
	s.onResolve = nil
	a.free = append(a.free, idx)
	a.live--
}
