package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const geolocationPage = "../../infrastructure/content/testdata/geolocation.html"

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("GEOPROMPT_LOG_LEVEL", "disabled")
	return dir
}

func TestOriginArg(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{arg: "", want: ""},
		{arg: "https://example.com", want: "https://example.com"},
		{arg: "https://Example.com:443/maps?q=1", want: "https://example.com"},
		{arg: "data:text/html,hello", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			assert.Equal(t, tt.want, originArg(tt.arg))
		})
	}
}

func TestOpenPages_KeepsOrder(t *testing.T) {
	pages, err := openPages(context.Background(), []string{
		geolocationPage,
		"../../infrastructure/content/testdata/watch.html",
	})
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "Geolocation", pages[0].Title)
	assert.Equal(t, "Watch position", pages[1].Title)
}

func TestOpenPages_FailsOnMissingPage(t *testing.T) {
	_, err := openPages(context.Background(), []string{geolocationPage, "missing.html"})
	assert.ErrorContains(t, err, "open missing.html")
}

func TestRunAndManagePermissions(t *testing.T) {
	dir := isolate(t)
	t.Cleanup(func() {
		runAllow, runRetain = false, false
		permissionsClearYes = false
		permissionsOutput = ""
	})

	out := execute(t, "run", geolocationPage, "--allow", "--retain")
	assert.Contains(t, out, "position 51.4779 -0.0015")
	assert.Contains(t, out, "(inline content)")

	out = execute(t, "permissions", "list")
	assert.Contains(t, out, "(inline content)")
	assert.Contains(t, out, "granted")

	exported := filepath.Join(dir, "perms.yaml")
	execute(t, "permissions", "export", "--output", exported)
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(data), `origin: ""`)

	out = execute(t, "permissions", "clear", "--yes")
	assert.Contains(t, out, "Removed 1")

	out = execute(t, "permissions", "import", exported)
	assert.Contains(t, out, "Imported 1")

	out = execute(t, "permissions", "revoke", "")
	assert.Contains(t, out, "Revoked (inline content)")
}
