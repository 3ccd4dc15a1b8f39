package mainloop

import (
	"context"

	"github.com/bnema/geoprompt/internal/application/port"
	"github.com/bnema/geoprompt/internal/domain/entity"
)

// CoalescingObserver forwards permission changes to inner, keeping only the
// latest state per origin when several settle before the loop runs.
type CoalescingObserver struct {
	inner     port.PermissionObserver
	coalescer *Coalescer
}

// NewCoalescingObserver wraps inner; notifications are delivered through post.
func NewCoalescingObserver(inner port.PermissionObserver, post func(func())) *CoalescingObserver {
	return &CoalescingObserver{
		inner:     inner,
		coalescer: NewCoalescer(post),
	}
}

// PermissionChanged schedules a notification for origin.
func (o *CoalescingObserver) PermissionChanged(ctx context.Context, origin string, state entity.PermissionState) {
	// The coalescer ignores empty keys; opaque origins are "".
	o.coalescer.Post("origin:"+origin, func() {
		o.inner.PermissionChanged(ctx, origin, state)
	})
}

// Stop drops notifications that have not been delivered yet.
func (o *CoalescingObserver) Stop() {
	o.coalescer.Destroy()
}

var _ port.PermissionObserver = (*CoalescingObserver)(nil)
