package config

import (
	"fmt"
	"strings"
)

// validateConfig reports every invalid value at once.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validatePermissions(config)...)
	validationErrors = append(validationErrors, validateGeolocation(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string

	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error, disabled (got: %s)", config.Logging.Level))
	}

	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be one of: console, json (got: %s)", config.Logging.Format))
	}
	return validationErrors
}

func validatePermissions(config *Config) []string {
	var validationErrors []string

	switch config.Permissions.Store {
	case StoreSQLite, StoreMemory:
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("permissions.store must be one of: sqlite, memory (got: %s)", config.Permissions.Store))
	}

	if config.Permissions.CacheSize < 0 {
		validationErrors = append(validationErrors, "permissions.cache_size must be non-negative")
	}

	switch config.Permissions.DefaultPolicy {
	case PolicyAsk, PolicyAllow, PolicyDeny:
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("permissions.default_policy must be one of: ask, allow, deny (got: %s)", config.Permissions.DefaultPolicy))
	}

	if config.Permissions.Store == StoreSQLite && config.Database.Path == "" {
		validationErrors = append(validationErrors, "database.path cannot be empty when permissions.store is sqlite")
	}
	return validationErrors
}

func validateGeolocation(config *Config) []string {
	var validationErrors []string
	geo := config.Geolocation

	if geo.Latitude < -90 || geo.Latitude > 90 {
		validationErrors = append(validationErrors, "geolocation.latitude must be between -90 and 90")
	}
	if geo.Longitude < -180 || geo.Longitude > 180 {
		validationErrors = append(validationErrors, "geolocation.longitude must be between -180 and 180")
	}
	if geo.Accuracy <= 0 {
		validationErrors = append(validationErrors, "geolocation.accuracy must be positive")
	}
	return validationErrors
}
