// Package config loads geoprompt settings from TOML, environment variables and
// defaults, and keeps them current while the config file changes.
package config

// File permission constants
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// StoreKind selects where retained permission decisions live.
type StoreKind string

const (
	StoreSQLite StoreKind = "sqlite"
	StoreMemory StoreKind = "memory"
)

// DefaultPolicy is the answer given when no prompt UI is attached.
type DefaultPolicy string

const (
	PolicyAsk   DefaultPolicy = "ask"
	PolicyAllow DefaultPolicy = "allow"
	PolicyDeny  DefaultPolicy = "deny"
)

// Config represents the complete configuration for geoprompt.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging" toml:"logging" json:"logging"`
	Database    DatabaseConfig    `mapstructure:"database" toml:"database" json:"database"`
	Permissions PermissionsConfig `mapstructure:"permissions" toml:"permissions" json:"permissions"`
	Geolocation GeolocationConfig `mapstructure:"geolocation" toml:"geolocation" json:"geolocation"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled,default=info"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json,default=console"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	// Path defaults to $XDG_DATA_HOME/geoprompt/geoprompt.sqlite when empty.
	Path string `mapstructure:"path" toml:"path" json:"path" jsonschema:"description=SQLite file for retained permission decisions"`
}

// PermissionsConfig controls how requests are answered and remembered.
type PermissionsConfig struct {
	Store         StoreKind     `mapstructure:"store" toml:"store" json:"store" jsonschema:"enum=sqlite,enum=memory,default=sqlite"`
	CacheSize     int           `mapstructure:"cache_size" toml:"cache_size" json:"cache_size" jsonschema:"minimum=0,default=256,description=LRU entries in front of the store; 0 disables the cache"`
	DefaultPolicy DefaultPolicy `mapstructure:"default_policy" toml:"default_policy" json:"default_policy" jsonschema:"enum=ask,enum=allow,enum=deny,default=ask"`
	Retain        bool          `mapstructure:"retain" toml:"retain" json:"retain" jsonschema:"description=Remember allow/deny policy answers per origin"`
}

// GeolocationConfig is the fixed position reported to content.
type GeolocationConfig struct {
	Enabled   bool    `mapstructure:"enabled" toml:"enabled" json:"enabled" jsonschema:"default=true"`
	Latitude  float64 `mapstructure:"latitude" toml:"latitude" json:"latitude" jsonschema:"minimum=-90,maximum=90"`
	Longitude float64 `mapstructure:"longitude" toml:"longitude" json:"longitude" jsonschema:"minimum=-180,maximum=180"`
	Accuracy  float64 `mapstructure:"accuracy" toml:"accuracy" json:"accuracy" jsonschema:"exclusiveMinimum=0,description=Accuracy radius in meters"`
}
