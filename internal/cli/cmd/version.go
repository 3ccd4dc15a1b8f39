package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/geoprompt/internal/domain/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, buildInfo.String())
		fmt.Fprintln(out, build.RepoURL())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
