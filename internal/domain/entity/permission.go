package entity

import "errors"

var (
	// ErrInvalidState is returned when a permission callback is invoked after it
	// was already resolved, withdrawn, or its surface was torn down.
	ErrInvalidState = errors.New("permission callback is no longer valid")

	// ErrOriginMismatch is returned when a delegate answers a request with an
	// origin different from the one it was asked about.
	ErrOriginMismatch = errors.New("permission origin mismatch")

	// ErrRequestPending is returned when content asks again while a prompt for
	// the same surface is still unresolved.
	ErrRequestPending = errors.New("permission request already pending")

	// ErrSurfaceClosed is returned for requests made after the surface was torn down.
	ErrSurfaceClosed = errors.New("content surface closed")
)

// PermissionType represents the type of permission being requested.
type PermissionType string

const (
	// PermissionTypeGeolocation represents geolocation permission.
	PermissionTypeGeolocation PermissionType = "geolocation"

	// PermissionTypeNotification represents notification permission.
	PermissionTypeNotification PermissionType = "notification"

	// PermissionTypeDisplay represents screen sharing/display capture permission.
	PermissionTypeDisplay PermissionType = "display"
)

// PermissionState is the stored answer for an origin.
type PermissionState string

const (
	// PermissionGranted means the permission was allowed.
	PermissionGranted PermissionState = "granted"

	// PermissionDenied means the permission was denied.
	PermissionDenied PermissionState = "denied"

	// PermissionPrompt means no decision has been made yet (default state).
	PermissionPrompt PermissionState = "prompt"
)

// ParsePermissionState converts a stored string into a state.
// Unknown values map to PermissionPrompt.
func ParsePermissionState(s string) PermissionState {
	switch PermissionState(s) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionPrompt
	}
}

// PermissionDecision is the answer a delegate gives to one request.
type PermissionDecision struct {
	Allow  bool // Access is granted for this request
	Retain bool // Remember the answer for the origin without prompting again
}

// State returns the stored state this decision maps to.
func (d PermissionDecision) State() PermissionState {
	if d.Allow {
		return PermissionGranted
	}
	return PermissionDenied
}

// PermissionRecord stores a permission decision for a specific origin and type.
type PermissionRecord struct {
	Origin    string          // The security origin; empty for opaque content
	Type      PermissionType  // The type of permission
	State     PermissionState // granted, denied, or prompt
	UpdatedAt int64           // Unix timestamp in seconds when this record was last updated
}

// IsGranted returns true if the permission is granted.
func (p *PermissionRecord) IsGranted() bool {
	return p.State == PermissionGranted
}

// IsDenied returns true if the permission is denied.
func (p *PermissionRecord) IsDenied() bool {
	return p.State == PermissionDenied
}

// IsRetained reports whether the record settles a request without a prompt.
func (p *PermissionRecord) IsRetained() bool {
	return p != nil && (p.IsGranted() || p.IsDenied())
}

// Decision converts a retained record back into the decision it came from.
func (p *PermissionRecord) Decision() PermissionDecision {
	return PermissionDecision{Allow: p.IsGranted(), Retain: true}
}

// CanPersist returns true if this permission type can be persisted.
// Display capture decisions are never persisted.
func CanPersist(permType PermissionType) bool {
	switch permType {
	case PermissionTypeDisplay:
		return false
	default:
		return true
	}
}
