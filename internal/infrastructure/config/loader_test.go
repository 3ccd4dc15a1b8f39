package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	root := t.TempDir()
	mgr, err := NewManagerWithDirs(&XDGDirs{
		ConfigHome: filepath.Join(root, "config"),
		DataHome:   filepath.Join(root, "data"),
	})
	require.NoError(t, err)
	return mgr
}

func writeConfig(t *testing.T, mgr *Manager, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(mgr.dirs.ConfigHome, dirPerm))
	require.NoError(t, os.WriteFile(mgr.dirs.ConfigFile(), []byte(body), filePerm))
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, "sqlite", mgr.viper.GetString("permissions.store"))
	assert.Equal(t, "ask", mgr.viper.GetString("permissions.default_policy"))
	assert.True(t, mgr.viper.GetBool("geolocation.enabled"))
	assert.Equal(t, 256, mgr.viper.GetInt("permissions.cache_size"))
}

func TestLoad_CreatesDefaultConfig(t *testing.T) {
	mgr := testManager(t)

	require.NoError(t, mgr.Load())

	assert.Equal(t, mgr.dirs.ConfigFile(), mgr.CreatedFile())
	assert.FileExists(t, mgr.dirs.ConfigFile())
	assert.FileExists(t, filepath.Join(mgr.dirs.ConfigHome, schemaFileName))

	cfg := mgr.Get()
	assert.Equal(t, StoreSQLite, cfg.Permissions.Store)
	assert.Equal(t, PolicyAsk, cfg.Permissions.DefaultPolicy)
	assert.Equal(t, filepath.Join(mgr.dirs.DataHome, "geoprompt.sqlite"), cfg.Database.Path)
	assert.InDelta(t, defaultLatitude, cfg.Geolocation.Latitude, 1e-9)

	// Second load reads the file it wrote
	again := testManagerAt(t, mgr.dirs)
	require.NoError(t, again.Load())
	assert.Empty(t, again.CreatedFile())
	assert.Equal(t, cfg, again.Get())
}

func testManagerAt(t *testing.T, dirs *XDGDirs) *Manager {
	t.Helper()
	mgr, err := NewManagerWithDirs(dirs)
	require.NoError(t, err)
	return mgr
}

func TestLoad_ReadsFileAndNormalizes(t *testing.T) {
	mgr := testManager(t)
	writeConfig(t, mgr, `
[logging]
level = "WARNING"
format = "json"

[permissions]
store = "Memory"
default_policy = "ALLOW"
retain = true
cache_size = 0

[geolocation]
enabled = false
latitude = -33.8568
longitude = 151.2153
accuracy = 5.0
`)

	require.NoError(t, mgr.Load())
	cfg := mgr.Get()

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, StoreMemory, cfg.Permissions.Store)
	assert.Equal(t, PolicyAllow, cfg.Permissions.DefaultPolicy)
	assert.True(t, cfg.Permissions.Retain)
	assert.Zero(t, cfg.Permissions.CacheSize)
	assert.False(t, cfg.Geolocation.Enabled)
	assert.InDelta(t, 151.2153, cfg.Geolocation.Longitude, 1e-9)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	mgr := testManager(t)
	writeConfig(t, mgr, "[permissions]\nstore = \"sqlite\"\n")

	t.Setenv("GEOPROMPT_PERMISSIONS_STORE", "memory")
	t.Setenv("GEOPROMPT_LOG_LEVEL", "debug")
	t.Setenv("GEOPROMPT_DATABASE_PATH", "/tmp/elsewhere.sqlite")

	require.NoError(t, mgr.Load())
	cfg := mgr.Get()

	assert.Equal(t, StoreMemory, cfg.Permissions.Store)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/elsewhere.sqlite", cfg.Database.Path)
}

func TestLoad_InvalidFile(t *testing.T) {
	mgr := testManager(t)
	writeConfig(t, mgr, "[permissions\nstore = ")

	err := mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be valid TOML")
}

func TestLoad_InvalidValues(t *testing.T) {
	mgr := testManager(t)
	writeConfig(t, mgr, "[geolocation]\nlatitude = 123.0\n")

	err := mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geolocation.latitude")
}

func TestGet_ReturnsCopy(t *testing.T) {
	mgr := testManager(t)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Permissions.Retain = true

	assert.False(t, mgr.Get().Permissions.Retain)
}

func TestGet_BeforeLoadReturnsDefaults(t *testing.T) {
	mgr := testManager(t)
	assert.Equal(t, DefaultConfig(), mgr.Get())
}

func TestReload_NotifiesCallbacks(t *testing.T) {
	mgr := testManager(t)
	writeConfig(t, mgr, "[permissions]\ndefault_policy = \"ask\"\n")
	require.NoError(t, mgr.Load())

	var seen []*Config
	mgr.OnConfigChange(func(cfg *Config) { seen = append(seen, cfg) })

	writeConfig(t, mgr, "[permissions]\ndefault_policy = \"deny\"\n")
	mgr.handleChange(fsnotify.Event{Name: mgr.dirs.ConfigFile(), Op: fsnotify.Write})

	require.Len(t, seen, 1)
	assert.Equal(t, PolicyDeny, seen[0].Permissions.DefaultPolicy)
	assert.Equal(t, PolicyDeny, mgr.Get().Permissions.DefaultPolicy)
}

func TestReload_InvalidEditKeepsPreviousConfig(t *testing.T) {
	mgr := testManager(t)
	writeConfig(t, mgr, "[permissions]\ndefault_policy = \"allow\"\n")
	require.NoError(t, mgr.Load())

	called := false
	mgr.OnConfigChange(func(*Config) { called = true })

	writeConfig(t, mgr, "[permissions]\ndefault_policy = \"sometimes\"\n")
	mgr.handleChange(fsnotify.Event{Name: mgr.dirs.ConfigFile(), Op: fsnotify.Write})

	assert.False(t, called)
	assert.Equal(t, PolicyAllow, mgr.Get().Permissions.DefaultPolicy)
}

func TestReload_LogsThroughConfiguredLogger(t *testing.T) {
	mgr := testManager(t)
	require.NoError(t, mgr.Load())

	var buf bytes.Buffer
	mgr.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	writeConfig(t, mgr, "[logging]\nlevel = \"loud\"\n")
	mgr.handleChange(fsnotify.Event{Name: mgr.dirs.ConfigFile(), Op: fsnotify.Write})

	assert.Contains(t, buf.String(), "fsnotify config change detected")
	assert.Contains(t, buf.String(), "failed to reload config")
	assert.Contains(t, buf.String(), "logging.level")
}

func TestWatch_Idempotent(t *testing.T) {
	mgr := testManager(t)
	require.NoError(t, mgr.Load())

	require.NoError(t, mgr.Watch())
	require.NoError(t, mgr.Watch())
	assert.True(t, mgr.watching)
}

func TestSchemaJSON(t *testing.T) {
	data, err := SchemaJSON()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "geoprompt configuration", doc["title"])
	assert.Contains(t, string(data), "default_policy")
	assert.Contains(t, string(data), "cache_size")
}
