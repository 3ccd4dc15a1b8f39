package prompt

import "github.com/bnema/geoprompt/internal/domain/entity"

// Callback is the response handle handed to a permission delegate.
// Invoke succeeds at most once; every later call returns entity.ErrInvalidState.
type Callback struct {
	arena  *Arena
	token  Token
	origin string
}

// Origin returns the origin the request was raised for.
func (c *Callback) Origin() string {
	if c == nil {
		return ""
	}
	return c.origin
}

// Token returns the arena token backing this callback.
func (c *Callback) Token() Token {
	return c.token
}

// State returns the current lifecycle state.
func (c *Callback) State() State {
	if c == nil || c.arena == nil {
		return StateExpired
	}
	return c.arena.State(c.token)
}

// Invoke answers the request.
//
// origin must equal the origin the request was raised for; a mismatch returns
// an error wrapping entity.ErrOriginMismatch and leaves the request pending.
// Calling Invoke on a resolved or withdrawn request returns
// entity.ErrInvalidState and has no side effect.
func (c *Callback) Invoke(origin string, allow, retain bool) error {
	if c == nil || c.arena == nil {
		return entity.ErrInvalidState
	}
	return c.arena.resolve(c.token, origin, entity.PermissionDecision{Allow: allow, Retain: retain})
}
