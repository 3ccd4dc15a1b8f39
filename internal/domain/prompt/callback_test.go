package prompt_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/domain/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallback_InvokeOnce(t *testing.T) {
	arena := prompt.NewArena()

	var got []entity.PermissionDecision
	cb := arena.Acquire("https://example.com", func(d entity.PermissionDecision) {
		got = append(got, d)
	})
	require.Equal(t, prompt.StatePending, cb.State())
	assert.Equal(t, 1, arena.Pending())

	require.NoError(t, cb.Invoke("https://example.com", true, true))
	assert.Equal(t, []entity.PermissionDecision{{Allow: true, Retain: true}}, got)
	assert.Equal(t, prompt.StateResolved, cb.State())
	assert.Equal(t, 0, arena.Pending())

	err := cb.Invoke("https://example.com", false, false)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
	assert.Len(t, got, 1, "second invoke must not reach the resolver")
}

func TestCallback_EmptyOriginIsValid(t *testing.T) {
	arena := prompt.NewArena()

	resolved := 0
	cb := arena.Acquire("", func(entity.PermissionDecision) { resolved++ })
	assert.Equal(t, "", cb.Origin())

	require.NoError(t, cb.Invoke("", true, true))
	assert.Equal(t, 1, resolved)
}

func TestCallback_OriginMismatchKeepsRequestPending(t *testing.T) {
	arena := prompt.NewArena()

	resolved := 0
	cb := arena.Acquire("", func(entity.PermissionDecision) { resolved++ })

	err := cb.Invoke("https://evil.example", true, false)
	require.ErrorIs(t, err, entity.ErrOriginMismatch)
	assert.NotErrorIs(t, err, entity.ErrInvalidState)
	assert.Contains(t, err.Error(), `"https://evil.example"`)
	assert.Equal(t, prompt.StatePending, cb.State())
	assert.Equal(t, 0, resolved)

	require.NoError(t, cb.Invoke("", false, false))
	assert.Equal(t, 1, resolved)
}

func TestArena_WithdrawInvalidatesCallback(t *testing.T) {
	arena := prompt.NewArena()

	resolved := 0
	cb := arena.Acquire("https://example.com", func(entity.PermissionDecision) { resolved++ })

	assert.True(t, arena.Withdraw(cb.Token()))
	assert.Equal(t, prompt.StateWithdrawn, cb.State())
	assert.False(t, arena.Withdraw(cb.Token()), "withdrawing twice is a no-op")

	err := cb.Invoke("https://example.com", true, true)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
	assert.Equal(t, 0, resolved)
}

func TestArena_WithdrawAfterResolveFails(t *testing.T) {
	arena := prompt.NewArena()
	cb := arena.Acquire("https://example.com", nil)

	require.NoError(t, cb.Invoke("https://example.com", false, false))
	assert.False(t, arena.Withdraw(cb.Token()))
	assert.Equal(t, prompt.StateResolved, cb.State())
}

func TestArena_RecycledSlotRejectsStaleCallback(t *testing.T) {
	arena := prompt.NewArena()

	first := arena.Acquire("https://a.example", nil)
	require.NoError(t, first.Invoke("https://a.example", true, false))

	secondResolved := 0
	second := arena.Acquire("https://a.example", func(entity.PermissionDecision) { secondResolved++ })
	assert.Equal(t, prompt.StateExpired, first.State())

	err := first.Invoke("https://a.example", true, false)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
	assert.Equal(t, 0, secondResolved, "stale handle must not settle the newer request")
	assert.Equal(t, prompt.StatePending, second.State())
}

func TestCallback_NilIsInert(t *testing.T) {
	var cb *prompt.Callback
	assert.ErrorIs(t, cb.Invoke("", true, true), entity.ErrInvalidState)
	assert.Equal(t, prompt.StateExpired, cb.State())
	assert.Equal(t, "", cb.Origin())
}

func TestCallback_ConcurrentInvokeResolvesOnce(t *testing.T) {
	arena := prompt.NewArena()

	var resolved atomic.Int32
	cb := arena.Acquire("https://example.com", func(entity.PermissionDecision) { resolved.Add(1) })

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if cb.Invoke("https://example.com", true, false) == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(1), resolved.Load())
}

func TestCallback_InvokeRacesWithdraw(t *testing.T) {
	for i := 0; i < 50; i++ {
		arena := prompt.NewArena()
		var resolved atomic.Int32
		cb := arena.Acquire("", func(entity.PermissionDecision) { resolved.Add(1) })

		var (
			wg        sync.WaitGroup
			invokeErr error
			withdrawn bool
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			invokeErr = cb.Invoke("", true, true)
		}()
		go func() {
			defer wg.Done()
			withdrawn = arena.Withdraw(cb.Token())
		}()
		wg.Wait()

		// Exactly one side wins.
		if withdrawn {
			assert.ErrorIs(t, invokeErr, entity.ErrInvalidState)
			assert.Equal(t, int32(0), resolved.Load())
		} else {
			assert.NoError(t, invokeErr)
			assert.Equal(t, int32(1), resolved.Load())
		}
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "pending", prompt.StatePending.String())
	assert.Equal(t, "resolved", prompt.StateResolved.String())
	assert.Equal(t, "withdrawn", prompt.StateWithdrawn.String())
	assert.Equal(t, "expired", prompt.StateExpired.String())
	assert.Equal(t, "State(9)", prompt.State(9).String())
}
