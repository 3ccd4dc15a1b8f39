package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/geoprompt/internal/application/delegate"
	"github.com/bnema/geoprompt/internal/application/usecase"
	"github.com/bnema/geoprompt/internal/cli"
	"github.com/bnema/geoprompt/internal/cli/styles"
	"github.com/bnema/geoprompt/internal/infrastructure/config"
	"github.com/bnema/geoprompt/internal/infrastructure/content"
	"github.com/bnema/geoprompt/internal/logging"
	"github.com/bnema/geoprompt/internal/ui/mainloop"
)

const maxParallelLoads = 4

var (
	runAllow       bool
	runDeny        bool
	runRetain      bool
	runInteractive bool
	runBaseURL     string
	runTimeout     time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run <page>...",
	Short: "Load pages and answer their geolocation requests",
	Long: `Load one or more pages (HTML files or data: URLs), run their inline
scripts and answer navigator.geolocation requests.

Each page is its own content surface with at most one pending request.
Requests are answered by permissions.default_policy unless --allow,
--deny or --interactive is given. Files run as inline content with an
empty origin; pass --base-url to give them a network origin.

The command returns once no page waits on a decision or a timer.
Edits to geolocation.enabled, permissions.default_policy and
permissions.retain in the config file apply to later requests.

Examples:
  geoprompt run page.html --allow --retain
  geoprompt run page.html --base-url https://maps.example/ --interactive
  geoprompt run 'data:text/html;base64,...' --deny`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runAllow, "allow", false, "grant every request")
	runCmd.Flags().BoolVar(&runDeny, "deny", false, "deny every request")
	runCmd.Flags().BoolVar(&runRetain, "retain", false, "remember policy answers per origin")
	runCmd.Flags().BoolVarP(&runInteractive, "interactive", "i", false, "ask in the terminal")
	runCmd.Flags().StringVar(&runBaseURL, "base-url", "", "document URL for file pages")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "give up and withdraw pending requests after this long")
	runCmd.MarkFlagsMutuallyExclusive("allow", "deny", "interactive")
}

// surface is one loaded page with its own host.
type surface struct {
	page *content.Page
	host *usecase.GeolocationHost
	rt   *content.Runtime
}

func runRun(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	cfg := app.Config

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}
	log := logging.FromContext(ctx)

	pages, err := openPages(ctx, args)
	if err != nil {
		return err
	}

	loop := mainloop.New()

	opts := cli.DelegateOptions{}
	switch {
	case runAllow:
		opts.Decision = delegate.DecisionAllow
	case runDeny:
		opts.Decision = delegate.DecisionDeny
	case runInteractive:
		opts.Decision = delegate.DecisionAsk
	}
	if cmd.Flags().Changed("retain") {
		opts.Retain = &runRetain
	}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		prompter := cli.NewTerminalPrompter(app.Theme, loop.Post)
		defer prompter.Close()
		opts.Prompter = prompter
	}

	d, err := app.NewDelegate(opts)
	if errors.Is(err, cli.ErrNoTerminal) {
		return fmt.Errorf("%w: pass --allow or --deny", err)
	}
	if err != nil {
		return err
	}
	recorder := delegate.NewRecording(d)

	observer := mainloop.NewCoalescingObserver(cli.LogObserver{}, loop.Post)
	defer observer.Stop()

	position := content.Position{
		Latitude:  cfg.Geolocation.Latitude,
		Longitude: cfg.Geolocation.Longitude,
		Accuracy:  cfg.Geolocation.Accuracy,
	}

	surfaces := make([]*surface, 0, len(pages))
	hosts := make([]*usecase.GeolocationHost, 0, len(pages))
	for _, page := range pages {
		host := usecase.NewGeolocationHost(app.Permissions, recorder, loop.Post, usecase.HostOptions{
			GeolocationEnabled: cfg.Geolocation.Enabled,
			Observer:           observer,
		})
		rt := content.NewRuntime(host, loop.Post, content.Options{
			Position: position,
			Console:  cmd.OutOrStdout(),
		})
		surfaces = append(surfaces, &surface{page: page, host: host, rt: rt})
		hosts = append(hosts, host)
	}

	live := &liveSettings{opts: opts, hosts: hosts, current: cfg}
	app.Manager.OnConfigChange(func(c *config.Config) {
		loop.Post(func() { live.apply(ctx, c) })
	})
	if err := app.Manager.Watch(); err != nil {
		log.Warn().Err(err).Msg("config hot reload unavailable")
	}

	loop.Post(func() {
		for i, s := range surfaces {
			sctx := logging.WithSurface(ctx, strconv.Itoa(i))
			if err := s.rt.Load(sctx, s.page); err != nil {
				logging.FromContext(sctx).Warn().Err(err).Str("title", s.page.Title).Msg("page finished loading with errors")
			}
		}
	})

	runErr := loop.RunUntilIdle(ctx, func() bool {
		for _, s := range surfaces {
			if s.rt.Busy() {
				return true
			}
		}
		return false
	})

	// The loop is idle or stopped; this goroutine owns it again.
	for _, s := range surfaces {
		s.rt.Close(ctx)
		s.host.Close(ctx)
	}
	loop.Drain()

	out := cmd.OutOrStdout()
	for _, s := range surfaces {
		fmt.Fprintln(out, styles.RenderRunSummary(app.Theme, summarize(s)))
	}
	if stats, ok := app.CacheStats(); ok {
		log.Debug().
			Int64("hits", stats.Hits).
			Int64("misses", stats.Misses).
			Int64("evictions", stats.Evictions).
			Msg("permission cache")
	}

	switch {
	case runErr == nil:
		return nil
	case errors.Is(runErr, context.DeadlineExceeded):
		log.Warn().Dur("timeout", runTimeout).Msg("timed out, pending requests withdrawn")
		return nil
	default:
		return runErr
	}
}

// openPages reads and parses every page concurrently, keeping argument order.
func openPages(ctx context.Context, refs []string) ([]*content.Page, error) {
	pages := make([]*content.Page, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, err := content.Open(ref, content.LoadOptions{BaseURL: runBaseURL})
			if err != nil {
				return fmt.Errorf("open %s: %w", ref, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func summarize(s *surface) styles.RunSummary {
	hs := s.host.Stats()
	rs := s.rt.Stats()
	return styles.RunSummary{
		Origin:       s.page.Origin,
		Dispatched:   hs.Dispatched,
		Granted:      hs.Granted,
		Denied:       hs.Denied,
		Withdrawn:    hs.Withdrawn,
		StoreHits:    hs.StoreHits,
		Successes:    rs.Successes,
		Failures:     rs.Failures,
		ScriptErrors: rs.ScriptErrors,
	}
}
