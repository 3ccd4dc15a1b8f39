package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/logging"
	"github.com/grafana/sobek"
)

// Geolocation error codes as exposed to scripts.
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// ErrNoPage is returned by Reload before anything was loaded.
var ErrNoPage = errors.New("no page loaded")

// PermissionRequester is the content-host side a Runtime asks for access.
// *usecase.GeolocationHost implements it.
type PermissionRequester interface {
	RequestPermission(ctx context.Context, origin string, resolve func(allowed bool)) error
	WithdrawPermissionRequest(ctx context.Context) bool
}

// Position is the fix reported to scripts once access is granted.
type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // meters
}

// Options configures a Runtime.
type Options struct {
	Position Position

	// Console receives console.log output. Nil discards it.
	Console io.Writer

	// Now overrides the clock used for position timestamps.
	Now func() time.Time
}

// Stats counts what scripts observed.
type Stats struct {
	Successes    int // success callbacks delivered
	Failures     int // error callbacks delivered
	ScriptErrors int // uncaught exceptions
}

type jsCoords struct {
	Latitude  float64 `js:"latitude"`
	Longitude float64 `js:"longitude"`
	Accuracy  float64 `js:"accuracy"`
}

type jsPosition struct {
	Coords    jsCoords `js:"coords"`
	Timestamp int64    `js:"timestamp"`
}

type jsPositionError struct {
	Code                int    `js:"code"`
	Message             string `js:"message"`
	PermissionDenied    int    `js:"PERMISSION_DENIED"`
	PositionUnavailable int    `js:"POSITION_UNAVAILABLE"`
	Timeout             int    `js:"TIMEOUT"`
}

// waiter is one getCurrentPosition or watchPosition call awaiting permission.
type waiter struct {
	success sobek.Callable
	failure sobek.Callable
	watchID int64 // 0 for getCurrentPosition
}

// Runtime evaluates one content surface's scripts.
// Every method must run on the main loop, and post must feed that loop.
type Runtime struct {
	host PermissionRequester
	post func(func())
	opts Options

	vm      *sobek.Runtime
	page    *Page
	gen     uint64
	waiters []*waiter
	watches map[int64]struct{}
	nextID  int64

	requesting bool
	allowed    *bool // outcome for the current page once settled

	timersMu sync.Mutex
	timers   map[int64]*time.Timer

	stats Stats
}

// NewRuntime creates a runtime with no page loaded.
func NewRuntime(host PermissionRequester, post func(func()), opts Options) *Runtime {
	if host == nil {
		panic("content.NewRuntime: host cannot be nil")
	}
	if post == nil {
		panic("content.NewRuntime: post function cannot be nil")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Console == nil {
		opts.Console = io.Discard
	}
	return &Runtime{
		host:   host,
		post:   post,
		opts:   opts,
		timers: make(map[int64]*time.Timer),
	}
}

// Load navigates to page: the previous document's pending permission request
// is withdrawn, its timers are cancelled and its callbacks are dropped. The
// page's scripts then run in order. An uncaught exception aborts only the
// script that threw; Load returns all of them joined.
func (r *Runtime) Load(ctx context.Context, page *Page) error {
	ctx = logging.WithOrigin(logging.WithComponent(ctx, "content"), page.Origin)
	log := logging.FromContext(ctx)

	r.unload(ctx)

	r.gen++
	r.page = page
	r.watches = make(map[int64]struct{})
	r.vm = sobek.New()
	r.vm.SetFieldNameMapper(sobek.TagFieldNameMapper("js", true))
	if err := r.install(ctx); err != nil {
		return fmt.Errorf("install globals: %w", err)
	}

	log.Info().
		Str("title", page.Title).
		Int("scripts", len(page.Scripts)).
		Int("skipped", page.Skipped).
		Msg("page loaded")

	vm := r.vm
	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	var errs []error
	for _, s := range page.Scripts {
		if _, err := vm.RunScript(s.Name, s.Source); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("run %s: %w", s.Name, ctx.Err())
			}
			r.stats.ScriptErrors++
			log.Warn().Err(err).Str("script", s.Name).Msg("uncaught script error")
			errs = append(errs, fmt.Errorf("run %s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Reload runs the current page again as a fresh document.
func (r *Runtime) Reload(ctx context.Context) error {
	if r.page == nil {
		return ErrNoPage
	}
	return r.Load(ctx, r.page)
}

// Close unloads the current page. The runtime can load another page afterwards.
func (r *Runtime) Close(ctx context.Context) {
	r.unload(logging.WithComponent(ctx, "content"))
	r.gen++
	r.page = nil
	r.vm = nil
}

// Busy reports whether the page is still waiting on a permission decision or a timer.
func (r *Runtime) Busy() bool {
	if r.requesting && len(r.waiters) > 0 {
		return true
	}
	r.timersMu.Lock()
	defer r.timersMu.Unlock()
	return len(r.timers) > 0
}

// Page returns the loaded page, or nil.
func (r *Runtime) Page() *Page {
	return r.page
}

// Stats returns what scripts observed so far.
func (r *Runtime) Stats() Stats {
	return r.stats
}

func (r *Runtime) unload(ctx context.Context) {
	if r.requesting {
		r.host.WithdrawPermissionRequest(ctx)
	}
	r.requesting = false
	r.allowed = nil
	r.waiters = nil

	r.timersMu.Lock()
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
	r.timersMu.Unlock()
}

func (r *Runtime) install(ctx context.Context) error {
	vm := r.vm

	geo := vm.NewObject()
	if err := geo.Set("getCurrentPosition", func(call sobek.FunctionCall) sobek.Value {
		r.enqueue(ctx, r.waiterFrom(call, 0))
		return sobek.Undefined()
	}); err != nil {
		return err
	}
	if err := geo.Set("watchPosition", func(call sobek.FunctionCall) sobek.Value {
		r.nextID++
		id := r.nextID
		r.watches[id] = struct{}{}
		r.enqueue(ctx, r.waiterFrom(call, id))
		return vm.ToValue(id)
	}); err != nil {
		return err
	}
	if err := geo.Set("clearWatch", func(call sobek.FunctionCall) sobek.Value {
		r.clearWatch(call.Argument(0).ToInteger())
		return sobek.Undefined()
	}); err != nil {
		return err
	}

	navigator := vm.NewObject()
	if err := navigator.Set("geolocation", geo); err != nil {
		return err
	}
	if err := vm.Set("navigator", navigator); err != nil {
		return err
	}

	location := vm.NewObject()
	if err := location.Set("href", r.page.URL); err != nil {
		return err
	}
	if err := location.Set("origin", originForScript(r.page.Origin)); err != nil {
		return err
	}
	if err := vm.Set("location", location); err != nil {
		return err
	}

	console := vm.NewObject()
	for _, name := range []string{"log", "info", "warn", "error"} {
		if err := console.Set(name, r.consoleFunc(ctx, name)); err != nil {
			return err
		}
	}
	if err := vm.Set("console", console); err != nil {
		return err
	}

	if err := vm.Set("setTimeout", func(call sobek.FunctionCall) sobek.Value {
		fn, ok := sobek.AssertFunction(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("setTimeout: callback is not a function"))
		}
		delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond
		return vm.ToValue(r.setTimeout(ctx, fn, delay))
	}); err != nil {
		return err
	}
	if err := vm.Set("clearTimeout", func(call sobek.FunctionCall) sobek.Value {
		r.clearTimeout(call.Argument(0).ToInteger())
		return sobek.Undefined()
	}); err != nil {
		return err
	}

	return vm.Set("window", vm.GlobalObject())
}

func (r *Runtime) waiterFrom(call sobek.FunctionCall, watchID int64) *waiter {
	success, ok := sobek.AssertFunction(call.Argument(0))
	if !ok {
		panic(r.vm.NewTypeError("geolocation: success callback is not a function"))
	}
	w := &waiter{success: success, watchID: watchID}
	if failure, ok := sobek.AssertFunction(call.Argument(1)); ok {
		w.failure = failure
	}
	return w
}

// enqueue asks the host once per page; calls made while that request is
// unresolved share its outcome.
func (r *Runtime) enqueue(ctx context.Context, w *waiter) {
	if r.allowed != nil {
		r.deliverLater(ctx, []*waiter{w}, *r.allowed)
		return
	}

	r.waiters = append(r.waiters, w)
	if r.requesting {
		return
	}
	r.requesting = true

	gen := r.gen
	err := r.host.RequestPermission(ctx, r.page.Origin, func(allowed bool) {
		if gen != r.gen {
			return
		}
		r.requesting = false
		r.allowed = &allowed
		waiters := r.waiters
		r.waiters = nil
		r.deliverLater(ctx, waiters, allowed)
	})
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("geolocation request rejected")
		r.requesting = false
		waiters := r.waiters
		r.waiters = nil
		r.failLater(ctx, waiters, CodePositionUnavailable, err.Error())
	}
}

// deliverLater always reports asynchronously, even for retained decisions.
func (r *Runtime) deliverLater(ctx context.Context, waiters []*waiter, allowed bool) {
	if !allowed {
		r.failLater(ctx, waiters, CodePermissionDenied, "User denied Geolocation")
		return
	}
	gen := r.gen
	r.post(func() {
		if gen != r.gen {
			return
		}
		for _, w := range waiters {
			if !r.live(w) {
				continue
			}
			r.stats.Successes++
			r.call(ctx, w.success, r.vm.ToValue(r.position()))
		}
	})
}

func (r *Runtime) failLater(ctx context.Context, waiters []*waiter, code int, message string) {
	gen := r.gen
	r.post(func() {
		if gen != r.gen {
			return
		}
		for _, w := range waiters {
			if !r.live(w) {
				continue
			}
			r.stats.Failures++
			if w.failure == nil {
				continue
			}
			r.call(ctx, w.failure, r.vm.ToValue(&jsPositionError{
				Code:                code,
				Message:             message,
				PermissionDenied:    CodePermissionDenied,
				PositionUnavailable: CodePositionUnavailable,
				Timeout:             CodeTimeout,
			}))
		}
	})
}

// live reports whether w still wants a result; cleared watches do not.
func (r *Runtime) live(w *waiter) bool {
	if w.watchID == 0 {
		return true
	}
	_, ok := r.watches[w.watchID]
	return ok
}

func (r *Runtime) clearWatch(id int64) {
	delete(r.watches, id)
	kept := r.waiters[:0]
	for _, w := range r.waiters {
		if w.watchID != id {
			kept = append(kept, w)
		}
	}
	r.waiters = kept
}

func (r *Runtime) position() *jsPosition {
	p := r.opts.Position
	return &jsPosition{
		Coords: jsCoords{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Accuracy:  p.Accuracy,
		},
		Timestamp: r.opts.Now().UnixMilli(),
	}
}

func (r *Runtime) call(ctx context.Context, fn sobek.Callable, args ...sobek.Value) {
	if _, err := fn(sobek.Undefined(), args...); err != nil {
		r.stats.ScriptErrors++
		logging.FromContext(ctx).Warn().Err(err).Msg("uncaught error in callback")
	}
}

func (r *Runtime) consoleFunc(ctx context.Context, level string) func(sobek.FunctionCall) sobek.Value {
	return func(call sobek.FunctionCall) sobek.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		line := strings.Join(parts, " ")
		logging.FromContext(ctx).Debug().Str("level", level).Msg(line)
		_, _ = fmt.Fprintln(r.opts.Console, line)
		return sobek.Undefined()
	}
}

func (r *Runtime) setTimeout(ctx context.Context, fn sobek.Callable, delay time.Duration) int64 {
	r.nextID++
	id := r.nextID
	gen := r.gen

	r.timersMu.Lock()
	defer r.timersMu.Unlock()
	r.timers[id] = time.AfterFunc(delay, func() {
		r.post(func() {
			r.timersMu.Lock()
			_, ok := r.timers[id]
			delete(r.timers, id)
			r.timersMu.Unlock()
			if !ok || gen != r.gen {
				return
			}
			r.call(ctx, fn)
		})
	})
	return id
}

func (r *Runtime) clearTimeout(id int64) {
	r.timersMu.Lock()
	defer r.timersMu.Unlock()
	if t, ok := r.timers[id]; ok {
		t.Stop()
		delete(r.timers, id)
	}
}

func originForScript(origin string) string {
	if entity.IsOpaqueOrigin(origin) {
		return "null"
	}
	return origin
}
