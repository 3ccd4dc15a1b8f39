package cli

import (
	"context"

	"github.com/bnema/geoprompt/internal/application/port"
	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/logging"
)

// LogObserver logs every settled permission request.
type LogObserver struct{}

// PermissionChanged implements port.PermissionObserver.
func (LogObserver) PermissionChanged(ctx context.Context, origin string, state entity.PermissionState) {
	logging.FromContext(logging.WithOrigin(ctx, origin)).Info().
		Str("state", string(state)).
		Msg("geolocation permission settled")
}

var _ port.PermissionObserver = LogObserver{}
