// Package delegate provides non-interactive permission delegates.
package delegate

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/geoprompt/internal/application/port"
	"github.com/bnema/geoprompt/internal/domain/prompt"
	"github.com/bnema/geoprompt/internal/logging"
)

// Decision is a fixed answer for every request.
type Decision string

const (
	DecisionAsk   Decision = "ask"
	DecisionAllow Decision = "allow"
	DecisionDeny  Decision = "deny"
)

// ParseDecision accepts "ask", "allow" or "deny", case-insensitively.
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionAsk, DecisionAllow, DecisionDeny:
		return d, nil
	default:
		return "", fmt.Errorf("unknown permission policy %q (want ask, allow or deny)", s)
	}
}

// Policy answers every request synchronously with the same decision.
type Policy struct {
	allow  bool
	retain bool
}

// NewPolicy returns a delegate that always allows or always denies.
// With retain set the host stores the answer and stops asking.
func NewPolicy(allow, retain bool) *Policy {
	return &Policy{allow: allow, retain: retain}
}

// OnPermissionRequested implements port.PermissionDelegate.
func (p *Policy) OnPermissionRequested(ctx context.Context, origin string, callback *prompt.Callback) {
	log := logging.FromContext(logging.WithComponent(ctx, "delegate"))

	if err := callback.Invoke(origin, p.allow, p.retain); err != nil {
		log.Debug().Err(err).Msg("policy answer rejected")
		return
	}
	log.Debug().Bool("allowed", p.allow).Bool("retain", p.retain).Msg("answered by policy")
}

// OnPermissionRequestWithdrawn implements port.PermissionDelegate.
// Policy never holds a callback, so there is nothing to clean up.
func (p *Policy) OnPermissionRequestWithdrawn(context.Context) {}

var _ port.PermissionDelegate = (*Policy)(nil)
