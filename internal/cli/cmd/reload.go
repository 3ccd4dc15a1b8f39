package cmd

import (
	"context"

	"github.com/bnema/geoprompt/internal/application/delegate"
	"github.com/bnema/geoprompt/internal/application/usecase"
	"github.com/bnema/geoprompt/internal/cli"
	"github.com/bnema/geoprompt/internal/infrastructure/config"
	"github.com/bnema/geoprompt/internal/logging"
)

// liveSettings applies an edited config file to the surfaces of a running
// `run`. geolocation.enabled takes effect for the next request. A changed
// permissions.default_policy or permissions.retain replaces the delegate
// unless a flag pinned it. Pending requests keep the delegate that saw them.
type liveSettings struct {
	opts    cli.DelegateOptions
	hosts   []*usecase.GeolocationHost
	current *config.Config // main loop only
}

// apply must run on the main loop.
func (l *liveSettings) apply(ctx context.Context, cfg *config.Config) {
	log := logging.FromContext(logging.WithComponent(ctx, "config"))

	if cfg.Geolocation.Enabled != l.current.Geolocation.Enabled {
		for _, h := range l.hosts {
			h.SetGeolocationEnabled(cfg.Geolocation.Enabled)
		}
		log.Info().Bool("enabled", cfg.Geolocation.Enabled).Msg("geolocation setting reloaded")
	}

	if l.delegateChanged(cfg) {
		d, err := cli.NewDelegate(cfg, l.opts)
		if err != nil {
			log.Warn().
				Err(err).
				Str("policy", string(cfg.Permissions.DefaultPolicy)).
				Msg("keeping current permission delegate")
		} else {
			recorder := delegate.NewRecording(d)
			for _, h := range l.hosts {
				h.SetDelegate(recorder)
			}
			log.Info().
				Str("policy", string(cfg.Permissions.DefaultPolicy)).
				Bool("retain", cfg.Permissions.Retain).
				Msg("permission delegate reloaded")
		}
	}

	l.current = cfg
}

func (l *liveSettings) delegateChanged(cfg *config.Config) bool {
	if l.opts.Decision != "" {
		return false
	}
	if cfg.Permissions.DefaultPolicy != l.current.Permissions.DefaultPolicy {
		return true
	}
	return l.opts.Retain == nil && cfg.Permissions.Retain != l.current.Permissions.Retain
}
