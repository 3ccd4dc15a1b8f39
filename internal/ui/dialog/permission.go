// Package dialog provides UI dialog implementations for the application layer.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/geoprompt/internal/application/port"
	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/domain/prompt"
	"github.com/bnema/geoprompt/internal/logging"
)

type permissionDialogRequest struct {
	ctx      context.Context
	origin   string
	callback *prompt.Callback
}

// PermissionDialog implements port.PermissionDelegate by asking the user.
// One prompt is visible at a time; requests from other surfaces wait in a queue.
type PermissionDialog struct {
	prompter port.PermissionPrompter

	mu     sync.Mutex
	active *permissionDialogRequest
	queue  []permissionDialogRequest
}

// NewPermissionDialog creates a dialog delegate backed by prompter.
// A nil prompter denies every request.
func NewPermissionDialog(prompter port.PermissionPrompter) *PermissionDialog {
	return &PermissionDialog{
		prompter: prompter,
	}
}

// OnPermissionRequested queues the request and shows it when the prompter is free.
func (d *PermissionDialog) OnPermissionRequested(ctx context.Context, origin string, callback *prompt.Callback) {
	req := permissionDialogRequest{
		ctx:      ctx,
		origin:   origin,
		callback: callback,
	}

	if !d.enqueueOrStart(req) {
		logging.FromContext(ctx).Debug().Int("queued", d.Queued()).Msg("permission prompt queued")
		return
	}

	d.showRequest(req)
}

// OnPermissionRequestWithdrawn drops every request whose callback is no longer
// pending. If the visible prompt is among them it is dismissed and the next
// queued request is shown.
func (d *PermissionDialog) OnPermissionRequestWithdrawn(ctx context.Context) {
	log := logging.FromContext(ctx)

	d.mu.Lock()
	kept := d.queue[:0]
	for _, req := range d.queue {
		if req.callback.State() == prompt.StatePending {
			kept = append(kept, req)
		}
	}
	dropped := len(d.queue) - len(kept)
	d.queue = kept

	dismissActive := d.active != nil && d.active.callback.State() != prompt.StatePending
	d.mu.Unlock()

	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("dropped withdrawn queued prompts")
	}
	if !dismissActive {
		return
	}

	log.Debug().Msg("dismissing withdrawn permission prompt")
	if d.prompter != nil {
		d.prompter.Dismiss(ctx)
	}
	d.showNextQueuedRequest()
}

// Queued returns the number of requests waiting behind the visible prompt.
func (d *PermissionDialog) Queued() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

func (d *PermissionDialog) enqueueOrStart(req permissionDialogRequest) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active != nil {
		d.queue = append(d.queue, req)
		return false
	}

	d.active = &req
	return true
}

func (d *PermissionDialog) showRequest(req permissionDialogRequest) {
	ctx := req.ctx
	log := logging.FromContext(ctx)

	if d.prompter == nil {
		log.Error().Msg("permission prompter not available")
		d.answer(req, port.PermissionDialogResult{})
		d.showNextQueuedRequest()
		return
	}

	heading := d.buildHeading()
	body := d.buildBody(req.origin)

	d.prompter.Show(ctx, heading, body, func(result port.PermissionDialogResult) {
		log.Debug().
			Bool("allowed", result.Allowed).
			Bool("persistent", result.Persistent).
			Msg("permission prompt response")

		d.mu.Lock()
		current := d.active != nil && d.active.callback == req.callback
		d.mu.Unlock()
		if !current {
			return
		}

		d.answer(req, result)
		d.showNextQueuedRequest()
	})

	log.Debug().Msg("showing permission prompt")
}

func (d *PermissionDialog) answer(req permissionDialogRequest, result port.PermissionDialogResult) {
	err := req.callback.Invoke(req.origin, result.Allowed, result.Persistent)
	if err == nil {
		return
	}

	log := logging.FromContext(req.ctx)
	if errors.Is(err, entity.ErrInvalidState) {
		log.Debug().Msg("permission answered after withdrawal")
		return
	}
	log.Error().Err(err).Msg("failed to answer permission request")
}

func (d *PermissionDialog) showNextQueuedRequest() {
	d.mu.Lock()
	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue = d.queue[1:]
		if next.callback.State() != prompt.StatePending {
			continue
		}
		d.active = &next
		d.mu.Unlock()

		d.showRequest(next)
		return
	}
	d.active = nil
	d.mu.Unlock()
}

// buildHeading creates the dialog heading.
func (d *PermissionDialog) buildHeading() string {
	return "Allow Location Access?"
}

// buildBody creates the dialog body text.
func (d *PermissionDialog) buildBody(origin string) string {
	who := origin
	if entity.IsOpaqueOrigin(origin) {
		who = "This page"
	}
	return fmt.Sprintf("%s wants to use your location.", who)
}

// Ensure PermissionDialog implements the interface.
var _ port.PermissionDelegate = (*PermissionDialog)(nil)
