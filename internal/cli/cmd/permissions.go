package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/geoprompt/internal/cli/styles"
	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/infrastructure/export"
)

var (
	permissionsClearYes bool
	permissionsOutput   string
)

var permissionsCmd = &cobra.Command{
	Use:     "permissions",
	Aliases: []string{"perms"},
	Short:   "Inspect and edit remembered permission answers",
	Long: `Remembered answers settle later requests from the same origin without
a prompt. Inline content is listed as "(inline content)"; pass "" as
the origin to address it.`,
}

var permissionsListCmd = &cobra.Command{
	Use:   "list [origin]",
	Short: "List remembered answers",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPermissionsList,
}

var permissionsRevokeCmd = &cobra.Command{
	Use:   "revoke <origin|url>",
	Short: "Forget the geolocation answer for an origin",
	Args:  cobra.ExactArgs(1),
	RunE:  runPermissionsRevoke,
}

var permissionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every remembered answer",
	RunE:  runPermissionsClear,
}

var permissionsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write remembered answers as YAML",
	Args:  cobra.NoArgs,
	RunE:  runPermissionsExport,
}

var permissionsImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Load remembered answers from YAML",
	Long: `Load answers written by 'permissions export'. Existing answers for the
same origin are replaced; entries in the "prompt" state forget them.
Nothing is written if any entry is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: runPermissionsImport,
}

func init() {
	rootCmd.AddCommand(permissionsCmd)
	permissionsCmd.AddCommand(permissionsListCmd)
	permissionsCmd.AddCommand(permissionsRevokeCmd)
	permissionsCmd.AddCommand(permissionsClearCmd)
	permissionsCmd.AddCommand(permissionsExportCmd)
	permissionsCmd.AddCommand(permissionsImportCmd)

	permissionsClearCmd.Flags().BoolVarP(&permissionsClearYes, "yes", "y", false, "confirm removal")
	permissionsExportCmd.Flags().StringVarP(&permissionsOutput, "output", "o", "", "write to file instead of stdout")
}

// originArg accepts either a serialized origin or any URL of that origin.
func originArg(arg string) string {
	if strings.Contains(arg, "://") || strings.HasPrefix(arg, "data:") {
		return entity.OriginFromURL(arg)
	}
	return arg
}

func runPermissionsList(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	filter := len(args) == 1
	origin := ""
	if filter {
		origin = originArg(args[0])
	}

	records, err := app.ManagePermissionsUC.List(app.Ctx(), origin, filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, app.Theme.Subtle.Render("No remembered answers."))
		return nil
	}
	fmt.Fprintln(out, styles.RenderPermissionTable(app.Theme, records))
	return nil
}

func runPermissionsRevoke(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	theme := app.Theme
	origin := originArg(args[0])

	label := origin
	if entity.IsOpaqueOrigin(origin) {
		label = styles.OpaqueOriginLabel
	}

	removed, err := app.ManagePermissionsUC.Revoke(app.Ctx(), origin)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !removed {
		fmt.Fprintf(out, "%s Nothing remembered for %s\n", theme.WarningStyle.Render(styles.IconWarning), label)
		return nil
	}
	fmt.Fprintf(out, "%s Revoked %s\n", theme.SuccessStyle.Render(styles.IconCheck), label)
	return nil
}

func runPermissionsClear(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	if !permissionsClearYes {
		return fmt.Errorf("refusing to clear remembered answers without --yes")
	}

	n, err := app.ManagePermissionsUC.Clear(app.Ctx())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %d remembered answer(s)\n",
		app.Theme.SuccessStyle.Render(styles.IconTrash), n)
	return nil
}

func runPermissionsExport(cmd *cobra.Command, _ []string) (err error) {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	records, err := app.ManagePermissionsUC.List(app.Ctx(), "", false)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if permissionsOutput != "" {
		f, createErr := os.Create(permissionsOutput)
		if createErr != nil {
			return fmt.Errorf("create export file: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close export file: %w", closeErr)
			}
		}()
		w = f
	}

	return export.Encode(w, records, time.Now())
}

func runPermissionsImport(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	records, err := export.Decode(r)
	if err != nil {
		return err
	}
	n, err := app.ManagePermissionsUC.Import(app.Ctx(), records)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d answer(s)\n",
		app.Theme.SuccessStyle.Render(styles.IconDatabase), n)
	return nil
}
