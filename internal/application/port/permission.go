// Package port defines the interfaces the application layer needs from the
// outside world (UI, content runtime, notification sinks).
package port

import (
	"context"

	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/domain/prompt"
)

// PermissionDelegate is implemented by the embedding application to answer
// geolocation permission prompts.
//
// Both methods are called on the main loop.
type PermissionDelegate interface {
	// OnPermissionRequested is raised once per pending request. The delegate must
	// eventually call callback.Invoke exactly once with the same origin, either
	// before returning or later from any goroutine.
	//
	// Parameters:
	//   - ctx: context carrying the request logger
	//   - origin: the requesting security origin; empty for inline/data content
	//   - callback: single-use response handle
	OnPermissionRequested(ctx context.Context, origin string, callback *prompt.Callback)

	// OnPermissionRequestWithdrawn is raised when the pending request became moot
	// (navigation, teardown). The callback from the matching request is already
	// invalid and must not be invoked.
	OnPermissionRequestWithdrawn(ctx context.Context)
}

// PermissionObserver is notified after a request for an origin settles.
type PermissionObserver interface {
	PermissionChanged(ctx context.Context, origin string, state entity.PermissionState)
}

// PermissionDialogResult represents the user's response from a permission dialog.
type PermissionDialogResult struct {
	// Allowed is true if the user clicked "Allow" or "Always Allow".
	Allowed bool

	// Persistent is true if the user picked an "Always" variant (save this decision).
	Persistent bool
}

// PermissionPrompter displays a single prompt at a time.
// It is implemented by the presentation layer (terminal, popup overlay).
type PermissionPrompter interface {
	// Show displays heading and body and calls callback once with the answer.
	Show(ctx context.Context, heading, body string, callback func(result PermissionDialogResult))

	// Dismiss hides the visible prompt without answering it. An answer that was
	// already on its way may still reach the callback; callers ignore it.
	Dismiss(ctx context.Context)
}
