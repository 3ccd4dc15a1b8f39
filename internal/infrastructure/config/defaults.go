package config

import "github.com/bnema/geoprompt/internal/infrastructure/cache"

// Default position: the Royal Observatory, Greenwich.
const (
	defaultLatitude  = 51.4779
	defaultLongitude = -0.0015
	defaultAccuracy  = 20.0 // meters
)

// DefaultConfig returns the default configuration values for geoprompt.
// Database.Path is resolved from the XDG data directory in Load.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Permissions: PermissionsConfig{
			Store:         StoreSQLite,
			CacheSize:     cache.DefaultPermissionCacheSize,
			DefaultPolicy: PolicyAsk,
			Retain:        false,
		},
		Geolocation: GeolocationConfig{
			Enabled:   true,
			Latitude:  defaultLatitude,
			Longitude: defaultLongitude,
			Accuracy:  defaultAccuracy,
		},
	}
}
