// Package usecase contains application use cases that orchestrate domain logic.
package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/geoprompt/internal/application/port"
	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/domain/prompt"
	"github.com/bnema/geoprompt/internal/domain/repository"
	"github.com/bnema/geoprompt/internal/logging"
)

// HostOptions configures a GeolocationHost.
type HostOptions struct {
	// GeolocationEnabled false denies every request without prompting.
	// SetGeolocationEnabled changes it later.
	GeolocationEnabled bool

	// Observer, if set, is notified on the main loop after each request settles.
	Observer port.PermissionObserver

	// Now overrides the clock used for record timestamps.
	Now func() time.Time
}

// HostStats are observability counters for one host.
type HostStats struct {
	Dispatched int64 // OnPermissionRequested events raised
	Granted    int64 // requests settled with access
	Denied     int64 // requests settled without access
	Withdrawn  int64 // OnPermissionRequestWithdrawn events raised
	StoreHits  int64 // requests settled from a retained decision
}

// pendingRequest is the one unresolved request a host may have.
// cb is nil while the store lookup for it is still running.
type pendingRequest struct {
	ctx     context.Context
	origin  string
	cb      *prompt.Callback
	resolve func(allowed bool)

	// delegate received OnPermissionRequested and gets the withdrawal, if any.
	// Main loop only; nil until the request is raised.
	delegate port.PermissionDelegate
}

// GeolocationHost is the content-host side of the geolocation permission
// protocol for one content surface:
// - geolocation disabled: deny immediately
// - retained decision in the store: apply it without a prompt
// - otherwise: raise OnPermissionRequested and wait for the callback
type GeolocationHost struct {
	permRepo repository.PermissionRepository
	post     func(func())
	arena    *prompt.Arena
	opts     HostOptions

	delegate   port.PermissionDelegate
	delegateMu sync.RWMutex

	mu      sync.Mutex
	pending *pendingRequest
	closed  bool

	enabled atomic.Bool

	dispatched atomic.Int64
	granted    atomic.Int64
	denied     atomic.Int64
	withdrawn  atomic.Int64
	storeHits  atomic.Int64
}

// NewGeolocationHost creates a host for one content surface.
// post marshals work onto the main loop; permRepo may be nil to disable retention.
func NewGeolocationHost(
	permRepo repository.PermissionRepository,
	delegate port.PermissionDelegate,
	post func(func()),
	opts HostOptions,
) *GeolocationHost {
	if post == nil {
		panic("usecase.NewGeolocationHost: post function cannot be nil")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &GeolocationHost{
		permRepo: permRepo,
		delegate: delegate,
		post:     post,
		arena:    prompt.NewArena(),
		opts:     opts,
	}
	h.enabled.Store(opts.GeolocationEnabled)
	return h
}

// SetGeolocationEnabled turns geolocation on or off for later requests.
// A request that is already pending is not affected.
func (h *GeolocationHost) SetGeolocationEnabled(enabled bool) {
	h.enabled.Store(enabled)
}

// SetDelegate replaces the delegate. This can be called after initialization
// when the UI is available; a pending request keeps its original delegate.
func (h *GeolocationHost) SetDelegate(delegate port.PermissionDelegate) {
	h.delegateMu.Lock()
	defer h.delegateMu.Unlock()
	h.delegate = delegate
}

func (h *GeolocationHost) getDelegate() port.PermissionDelegate {
	h.delegateMu.RLock()
	defer h.delegateMu.RUnlock()
	return h.delegate
}

// RequestPermission is called by content when it uses the geolocation API.
//
// resolve is called exactly once with the outcome, unless the request is
// withdrawn first, in which case it is never called. Retained decisions call
// resolve before RequestPermission returns; prompted decisions call it on the
// main loop.
//
// It returns entity.ErrRequestPending if a request is already unresolved and
// entity.ErrSurfaceClosed after Close.
func (h *GeolocationHost) RequestPermission(ctx context.Context, origin string, resolve func(allowed bool)) error {
	ctx = logging.WithOrigin(logging.WithComponent(ctx, "host"), origin)
	log := logging.FromContext(ctx)

	if resolve == nil {
		resolve = func(bool) {}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return entity.ErrSurfaceClosed
	}
	if h.pending != nil {
		h.mu.Unlock()
		log.Debug().Msg("geolocation request while another is pending")
		return entity.ErrRequestPending
	}
	if !h.enabled.Load() {
		h.mu.Unlock()
		log.Debug().Msg("geolocation disabled, denying")
		h.finish(ctx, origin, entity.PermissionDecision{}, resolve)
		return nil
	}
	req := &pendingRequest{ctx: ctx, origin: origin, resolve: resolve}
	h.pending = req
	h.mu.Unlock()

	if record := h.lookupRetained(ctx, origin); record != nil {
		if !h.clearPending(req) {
			log.Debug().Msg("request withdrawn during store lookup")
			return nil
		}
		h.storeHits.Add(1)
		log.Debug().Str("state", string(record.State)).Msg("using retained permission")
		h.finish(ctx, origin, record.Decision(), resolve)
		return nil
	}

	cb := h.arena.Acquire(origin, func(decision entity.PermissionDecision) {
		h.onDecision(req, decision)
	})

	h.mu.Lock()
	if h.pending != req {
		h.mu.Unlock()
		h.arena.Withdraw(cb.Token())
		log.Debug().Msg("request withdrawn during store lookup")
		return nil
	}
	req.cb = cb
	h.mu.Unlock()

	delegate := h.getDelegate()
	if delegate == nil {
		log.Warn().Msg("no permission delegate available, denying")
		if err := cb.Invoke(origin, false, false); err != nil {
			log.Debug().Err(err).Msg("deny without delegate lost to withdrawal")
		}
		return nil
	}

	h.post(func() {
		if cb.State() != prompt.StatePending {
			log.Debug().Msg("request settled before dispatch, skipping delegate")
			return
		}
		req.delegate = delegate
		h.dispatched.Add(1)
		log.Debug().Msg("raising permission request")
		delegate.OnPermissionRequested(ctx, origin, cb)
	})
	return nil
}

// WithdrawPermissionRequest invalidates the pending request, if any, and
// raises OnPermissionRequestWithdrawn. It returns false if nothing was pending
// or the pending request was resolved first.
func (h *GeolocationHost) WithdrawPermissionRequest(ctx context.Context) bool {
	ctx = logging.WithComponent(ctx, "host")

	h.mu.Lock()
	req := h.pending
	h.pending = nil
	h.mu.Unlock()

	return h.withdraw(ctx, req)
}

// Close tears the surface down. The pending request, if any, is withdrawn and
// every later request fails with entity.ErrSurfaceClosed.
func (h *GeolocationHost) Close(ctx context.Context) {
	ctx = logging.WithComponent(ctx, "host")

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	req := h.pending
	h.pending = nil
	h.mu.Unlock()

	h.withdraw(ctx, req)
	logging.FromContext(ctx).Debug().Msg("content surface closed")
}

// HasPending reports whether a request is waiting for a decision.
func (h *GeolocationHost) HasPending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending != nil
}

// Stats returns a snapshot of the host counters.
func (h *GeolocationHost) Stats() HostStats {
	return HostStats{
		Dispatched: h.dispatched.Load(),
		Granted:    h.granted.Load(),
		Denied:     h.denied.Load(),
		Withdrawn:  h.withdrawn.Load(),
		StoreHits:  h.storeHits.Load(),
	}
}

func (h *GeolocationHost) withdraw(ctx context.Context, req *pendingRequest) bool {
	log := logging.FromContext(ctx)

	if req == nil {
		return false
	}
	// Still in the store lookup: the delegate never saw it.
	if req.cb == nil {
		log.Debug().Msg("withdrawing request before dispatch")
		return true
	}
	if !h.arena.Withdraw(req.cb.Token()) {
		log.Debug().Msg("withdrawal lost to a concurrent decision")
		return false
	}

	h.post(func() {
		if req.delegate == nil {
			return
		}
		h.withdrawn.Add(1)
		log.Debug().Msg("raising permission request withdrawal")
		req.delegate.OnPermissionRequestWithdrawn(ctx)
	})
	return true
}

// onDecision runs on the goroutine that invoked the callback. A retained
// decision is stored before the request stops being pending, so the next
// request for the origin is answered from the store.
func (h *GeolocationHost) onDecision(req *pendingRequest, decision entity.PermissionDecision) {
	if decision.Retain {
		h.persist(req.ctx, req.origin, decision)
	}
	h.clearPending(req)
	h.post(func() {
		h.finish(req.ctx, req.origin, decision, req.resolve)
	})
}

// finish counts the outcome, applies it to content, and notifies the observer.
func (h *GeolocationHost) finish(
	ctx context.Context,
	origin string,
	decision entity.PermissionDecision,
	resolve func(allowed bool),
) {
	if decision.Allow {
		h.granted.Add(1)
	} else {
		h.denied.Add(1)
	}
	logging.FromContext(ctx).Debug().
		Bool("allowed", decision.Allow).
		Bool("retain", decision.Retain).
		Msg("geolocation permission settled")

	resolve(decision.Allow)

	if obs := h.opts.Observer; obs != nil {
		obs.PermissionChanged(ctx, origin, decision.State())
	}
}

func (h *GeolocationHost) clearPending(req *pendingRequest) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending != req {
		return false
	}
	h.pending = nil
	return true
}

// lookupRetained returns a retained record or nil. Store errors degrade to prompting.
func (h *GeolocationHost) lookupRetained(ctx context.Context, origin string) *entity.PermissionRecord {
	if h.permRepo == nil {
		return nil
	}
	record, err := h.permRepo.Get(ctx, origin, entity.PermissionTypeGeolocation)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to get stored permission, prompting")
		return nil
	}
	if !record.IsRetained() {
		return nil
	}
	return record
}

// persist saves a retained decision. Failures are logged; the decision still applies.
func (h *GeolocationHost) persist(ctx context.Context, origin string, decision entity.PermissionDecision) {
	log := logging.FromContext(ctx)

	if h.permRepo == nil {
		return
	}

	record := &entity.PermissionRecord{
		Origin:    origin,
		Type:      entity.PermissionTypeGeolocation,
		State:     decision.State(),
		UpdatedAt: h.opts.Now().Unix(),
	}
	if err := h.permRepo.Set(ctx, record); err != nil {
		log.Warn().
			Err(err).
			Str("state", string(record.State)).
			Msg("failed to persist permission")
	}
}
