// Package cmd provides Cobra CLI commands for geoprompt.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/geoprompt/internal/cli"
	"github.com/bnema/geoprompt/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "geoprompt",
		Short: "Run pages against a geolocation permission prompt",
		Long: `geoprompt loads HTML pages, runs their scripts and answers their
navigator.geolocation requests through a permission prompt.

Answers can be given interactively in the terminal or by policy, and
"always" answers are remembered per origin. Inline and data: pages have
an empty origin and share one remembered answer.

Use 'geoprompt run <page>' to load a page, or 'geoprompt permissions' to
inspect and edit remembered answers.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version", "schema":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
