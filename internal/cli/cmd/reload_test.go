package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/geoprompt/internal/application/delegate"
	"github.com/bnema/geoprompt/internal/application/usecase"
	"github.com/bnema/geoprompt/internal/cli"
	"github.com/bnema/geoprompt/internal/infrastructure/config"
	"github.com/bnema/geoprompt/internal/ui/mainloop"
)

func liveHost(t *testing.T, cfg *config.Config, opts cli.DelegateOptions) (*usecase.GeolocationHost, *liveSettings) {
	t.Helper()
	d, err := cli.NewDelegate(cfg, opts)
	require.NoError(t, err)
	host := usecase.NewGeolocationHost(nil, d, mainloop.Immediate, usecase.HostOptions{
		GeolocationEnabled: cfg.Geolocation.Enabled,
	})
	return host, &liveSettings{opts: opts, hosts: []*usecase.GeolocationHost{host}, current: cfg}
}

func request(t *testing.T, host *usecase.GeolocationHost) bool {
	t.Helper()
	var got []bool
	require.NoError(t, host.RequestPermission(context.Background(), "https://example.com", func(allowed bool) {
		got = append(got, allowed)
	}))
	require.Len(t, got, 1)
	return got[0]
}

func withPolicy(cfg *config.Config, policy config.DefaultPolicy) *config.Config {
	cp := *cfg
	cp.Permissions.DefaultPolicy = policy
	return &cp
}

func TestLiveSettings_PolicyAndEnabledReload(t *testing.T) {
	ctx := context.Background()
	base := withPolicy(config.DefaultConfig(), config.PolicyDeny)
	host, live := liveHost(t, base, cli.DelegateOptions{})

	assert.False(t, request(t, host))

	allow := withPolicy(base, config.PolicyAllow)
	live.apply(ctx, allow)
	assert.True(t, request(t, host))

	off := *allow
	off.Geolocation.Enabled = false
	live.apply(ctx, &off)
	assert.False(t, request(t, host))
	assert.Equal(t, int64(2), host.Stats().Dispatched, "disabled requests never reach the delegate")
}

func TestLiveSettings_FlagPinsDecision(t *testing.T) {
	base := withPolicy(config.DefaultConfig(), config.PolicyDeny)
	host, live := liveHost(t, base, cli.DelegateOptions{Decision: delegate.DecisionDeny})

	live.apply(context.Background(), withPolicy(base, config.PolicyAllow))
	assert.False(t, request(t, host))
}

func TestLiveSettings_AskWithoutTerminalKeepsDelegate(t *testing.T) {
	base := withPolicy(config.DefaultConfig(), config.PolicyAllow)
	host, live := liveHost(t, base, cli.DelegateOptions{})

	live.apply(context.Background(), withPolicy(base, config.PolicyAsk))
	assert.True(t, request(t, host))
	assert.Equal(t, config.PolicyAsk, live.current.Permissions.DefaultPolicy)
}
