// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "racecal", "config.toml")
}

// DefaultSQLitePath returns the default path for the SQLite store.
func DefaultSQLitePath() string {
	return filepath.Join(XDGDataHome(), "racecal", "racecal.db")
}

// DefaultPacesDir returns the directory scanned for per-profile paces files.
func DefaultPacesDir() string {
	return filepath.Join(XDGDataHome(), "racecal")
}

// DefaultBadgerDir returns the default directory for the Badger store.
func DefaultBadgerDir() string {
	return filepath.Join(XDGDataHome(), "racecal", "badger")
}
