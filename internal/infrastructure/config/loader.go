package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	dirs      *XDGDirs
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
	created   string
	logger    *zerolog.Logger
}

// NewManager creates a configuration manager rooted in the XDG directories.
func NewManager() (*Manager, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return NewManagerWithDirs(dirs)
}

// NewManagerWithDirs creates a configuration manager reading from dirs.ConfigHome
// and defaulting the database into dirs.DataHome.
func NewManagerWithDirs(dirs *XDGDirs) (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dirs.ConfigHome)

	// GEOPROMPT_DATABASE_PATH, GEOPROMPT_PERMISSIONS_STORE, ...
	v.SetEnvPrefix("GEOPROMPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short names shared with logging.NewFromEnv
	if err := v.BindEnv("logging.level", "GEOPROMPT_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind GEOPROMPT_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "GEOPROMPT_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind GEOPROMPT_LOG_FORMAT: %w", err)
	}

	return &Manager{
		dirs:      dirs,
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A missing config file is created from the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.dirs.Ensure(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	return m.decode()
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var configFileNotFoundError viper.ConfigFileNotFoundError
	if !errors.As(err, &configFileNotFoundError) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions",
			m.dirs.ConfigFile(), err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			m.dirs.ConfigHome,
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

// decode unmarshals, normalizes and validates viper's current state.
// Must be called with m.mu held for write.
func (m *Manager) decode() error {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}

	if config.Database.Path == "" {
		config.Database.Path = m.dirs.DatabaseFile()
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	switch config.Logging.Level {
	case "":
		config.Logging.Level = "info"
	case "warning":
		config.Logging.Level = "warn"
	case "off":
		config.Logging.Level = "disabled"
	}

	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "" {
		config.Logging.Format = "console"
	}

	config.Permissions.Store = StoreKind(strings.ToLower(strings.TrimSpace(string(config.Permissions.Store))))
	if config.Permissions.Store == "" {
		config.Permissions.Store = StoreSQLite
	}

	config.Permissions.DefaultPolicy = DefaultPolicy(strings.ToLower(strings.TrimSpace(string(config.Permissions.DefaultPolicy))))
	if config.Permissions.DefaultPolicy == "" {
		config.Permissions.DefaultPolicy = PolicyAsk
	}
}

// Get returns a copy of the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// ConfigFile returns the path of the configuration file.
func (m *Manager) ConfigFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return m.dirs.ConfigFile()
}

// SetLogger sets the logger used for reload events. Until it is called the
// manager logs through logging.NewFromEnv.
func (m *Manager) SetLogger(logger zerolog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = &logger
}

// Dirs returns the directories the manager reads from.
func (m *Manager) Dirs() XDGDirs {
	return *m.dirs
}

// CreatedFile returns the path of the default config written by Load, or ""
// if the file already existed.
func (m *Manager) CreatedFile() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.created
}

// createDefaultConfig writes the defaults and the JSON schema.
func (m *Manager) createDefaultConfig() error {
	configFile := m.dirs.ConfigFile()

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if _, err := writeSchemaFile(m.dirs.ConfigHome); err != nil {
		return err
	}

	m.created = configFile
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)

	// database.path is resolved in decode so the written file stays portable
	m.viper.SetDefault("database.path", "")

	m.viper.SetDefault("permissions.store", string(defaults.Permissions.Store))
	m.viper.SetDefault("permissions.cache_size", defaults.Permissions.CacheSize)
	m.viper.SetDefault("permissions.default_policy", string(defaults.Permissions.DefaultPolicy))
	m.viper.SetDefault("permissions.retain", defaults.Permissions.Retain)

	m.viper.SetDefault("geolocation.enabled", defaults.Geolocation.Enabled)
	m.viper.SetDefault("geolocation.latitude", defaults.Geolocation.Latitude)
	m.viper.SetDefault("geolocation.longitude", defaults.Geolocation.Longitude)
	m.viper.SetDefault("geolocation.accuracy", defaults.Geolocation.Accuracy)
}
