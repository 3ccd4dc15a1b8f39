package config

import (
	"os"
	"path/filepath"
)

const (
	appName      = "geoprompt"
	configName   = "config.toml"
	databaseName = "geoprompt.sqlite"
)

// XDGDirs holds the XDG Base Directory paths for the application.
type XDGDirs struct {
	ConfigHome string
	DataHome   string
}

// GetXDGDirs returns the XDG Base Directory paths for geoprompt:
// - $XDG_CONFIG_HOME/geoprompt (default: ~/.config/geoprompt)
// - $XDG_DATA_HOME/geoprompt (default: ~/.local/share/geoprompt)
func GetXDGDirs() (*XDGDirs, error) {
	// Development mode: use .dev directory in current working directory
	if os.Getenv("ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		devDir := filepath.Join(cwd, ".dev", appName)
		return &XDGDirs{ConfigHome: devDir, DataHome: devDir}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(homeDir, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(homeDir, ".local", "share")
	}

	return &XDGDirs{
		ConfigHome: filepath.Join(configHome, appName),
		DataHome:   filepath.Join(dataHome, appName),
	}, nil
}

// ConfigFile returns the path to the main configuration file.
func (d *XDGDirs) ConfigFile() string {
	return filepath.Join(d.ConfigHome, configName)
}

// DatabaseFile returns the default database path. Retained decisions are user
// data, so they live under XDG_DATA_HOME.
func (d *XDGDirs) DatabaseFile() string {
	return filepath.Join(d.DataHome, databaseName)
}

// Ensure creates the directories if they don't exist.
func (d *XDGDirs) Ensure() error {
	for _, dir := range []string{d.ConfigHome, d.DataHome} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return err
		}
	}
	return nil
}
