// Package cli wires configuration, storage and the terminal UI for the
// geoprompt commands.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/geoprompt/internal/application/delegate"
	"github.com/bnema/geoprompt/internal/application/port"
	"github.com/bnema/geoprompt/internal/application/usecase"
	"github.com/bnema/geoprompt/internal/cli/styles"
	"github.com/bnema/geoprompt/internal/domain/build"
	"github.com/bnema/geoprompt/internal/domain/repository"
	"github.com/bnema/geoprompt/internal/infrastructure/cache"
	"github.com/bnema/geoprompt/internal/infrastructure/config"
	"github.com/bnema/geoprompt/internal/infrastructure/persistence/memory"
	"github.com/bnema/geoprompt/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/geoprompt/internal/logging"
	"github.com/bnema/geoprompt/internal/ui/dialog"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	// Permissions is the retained decision store, cached when enabled.
	Permissions repository.PermissionRepository

	ManagePermissionsUC *usecase.ManagePermissionsUseCase

	db    *sqlite.LazyDB
	cache *cache.CachedPermissionRepository
	ctx   context.Context
}

// NewApp loads the configuration from the XDG directories and builds the app.
func NewApp() (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	return NewAppWithManager(mgr)
}

// NewAppWithManager builds the app from an existing config manager.
func NewAppWithManager(mgr *config.Manager) (*App, error) {
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)
	mgr.SetLogger(*logging.FromContext(logging.WithComponent(ctx, "config")))
	if created := mgr.CreatedFile(); created != "" {
		logger.Info().Str("path", created).Msg("created default config")
	}

	app := &App{
		Config:  cfg,
		Manager: mgr,
		Theme:   styles.NewTheme(),
		ctx:     ctx,
	}

	var store repository.PermissionRepository
	switch cfg.Permissions.Store {
	case config.StoreMemory:
		store = memory.NewPermissionRepository()
	default:
		app.db = sqlite.NewLazyDB(cfg.Database.Path)
		store = sqlite.NewLazyPermissionRepository(app.db)
	}
	if cfg.Permissions.CacheSize > 0 {
		app.cache = cache.NewCachedPermissionRepository(store, cfg.Permissions.CacheSize)
		store = app.cache
	}
	app.Permissions = store
	app.ManagePermissionsUC = usecase.NewManagePermissionsUseCase(store)

	logger.Debug().
		Str("store", string(cfg.Permissions.Store)).
		Int("cache_size", cfg.Permissions.CacheSize).
		Msg("permission store configured")

	return app, nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// CacheStats returns the store cache counters, if the cache is enabled.
func (a *App) CacheStats() (cache.CacheStats, bool) {
	if a.cache == nil {
		return cache.CacheStats{}, false
	}
	return a.cache.Stats(), true
}

// ErrNoTerminal is returned when an interactive prompt is requested without a TTY.
var ErrNoTerminal = errors.New("interactive prompt needs a terminal")

// DelegateOptions selects how permission requests are answered.
type DelegateOptions struct {
	// Decision overrides permissions.default_policy when set.
	Decision delegate.Decision
	// Retain overrides permissions.retain when non-nil.
	Retain *bool
	// Prompter answers "ask" requests; nil means no terminal is available.
	Prompter port.PermissionPrompter
}

// NewDelegate builds the permission delegate for a run. An "ask" policy needs
// a prompter; without one it fails with ErrNoTerminal.
func (a *App) NewDelegate(opts DelegateOptions) (port.PermissionDelegate, error) {
	return NewDelegate(a.Config, opts)
}

// NewDelegate builds a delegate from cfg, with opts taking precedence.
func NewDelegate(cfg *config.Config, opts DelegateOptions) (port.PermissionDelegate, error) {
	decision := opts.Decision
	if decision == "" {
		parsed, err := delegate.ParseDecision(string(cfg.Permissions.DefaultPolicy))
		if err != nil {
			return nil, err
		}
		decision = parsed
	}
	retain := cfg.Permissions.Retain
	if opts.Retain != nil {
		retain = *opts.Retain
	}

	switch decision {
	case delegate.DecisionAllow:
		return delegate.NewPolicy(true, retain), nil
	case delegate.DecisionDeny:
		return delegate.NewPolicy(false, retain), nil
	default:
		if opts.Prompter == nil {
			return nil, ErrNoTerminal
		}
		return dialog.NewPermissionDialog(opts.Prompter), nil
	}
}
