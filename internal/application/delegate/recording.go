package delegate

import (
	"context"
	"sync"

	"github.com/bnema/geoprompt/internal/application/port"
	"github.com/bnema/geoprompt/internal/domain/prompt"
	"github.com/bnema/geoprompt/internal/logging"
)

// Recording wraps another delegate and keeps a log of what it was asked.
// Dispatch to the inner delegate is unchanged.
type Recording struct {
	inner port.PermissionDelegate

	mu        sync.Mutex
	requested int
	withdrawn int
	origins   []string
	last      *prompt.Callback
}

// NewRecording wraps inner. A nil inner records calls and leaves callbacks pending.
func NewRecording(inner port.PermissionDelegate) *Recording {
	return &Recording{inner: inner}
}

// OnPermissionRequested implements port.PermissionDelegate.
func (r *Recording) OnPermissionRequested(ctx context.Context, origin string, callback *prompt.Callback) {
	r.mu.Lock()
	r.requested++
	r.origins = append(r.origins, origin)
	r.last = callback
	n := r.requested
	r.mu.Unlock()

	logging.FromContext(logging.WithComponent(ctx, "delegate")).
		Info().
		Int("count", n).
		Msg("permission requested")

	if r.inner != nil {
		r.inner.OnPermissionRequested(ctx, origin, callback)
	}
}

// OnPermissionRequestWithdrawn implements port.PermissionDelegate.
func (r *Recording) OnPermissionRequestWithdrawn(ctx context.Context) {
	r.mu.Lock()
	r.withdrawn++
	r.mu.Unlock()

	logging.FromContext(logging.WithComponent(ctx, "delegate")).Info().Msg("permission request withdrawn")

	if r.inner != nil {
		r.inner.OnPermissionRequestWithdrawn(ctx)
	}
}

// CalledCount returns how many requests were raised.
func (r *Recording) CalledCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requested
}

// WithdrawnCount returns how many withdrawals were raised.
func (r *Recording) WithdrawnCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.withdrawn
}

// Origins returns the requesting origins in arrival order.
func (r *Recording) Origins() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.origins))
	copy(out, r.origins)
	return out
}

// Last returns the most recent callback, which may already be settled.
func (r *Recording) Last() *prompt.Callback {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

var _ port.PermissionDelegate = (*Recording)(nil)
