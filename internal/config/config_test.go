package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.Calendar.Plan != nil || cfg.Storage.Backend != nil {
		t.Fatal("missing config should decode to zero values")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[calendar]
plan = "marathon-18wk"
units = "km"
week-starts-on = "sunday"
profile = "kristin"
profiles = ["aaron", "kristin"]

[storage]
backend = "badger"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Calendar.Plan == nil || *cfg.Calendar.Plan != "marathon-18wk" {
		t.Fatalf("plan not decoded: %+v", cfg.Calendar)
	}
	if cfg.Calendar.WeekStartsOn == nil || *cfg.Calendar.WeekStartsOn != "sunday" {
		t.Fatalf("week-starts-on not decoded: %+v", cfg.Calendar)
	}
	if len(cfg.Calendar.Profiles) != 2 {
		t.Fatalf("profiles not decoded: %+v", cfg.Calendar.Profiles)
	}
	if cfg.Storage.Backend == nil || *cfg.Storage.Backend != "badger" {
		t.Fatalf("backend not decoded: %+v", cfg.Storage)
	}
}

func TestLoadConfigInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[calendar\nplan="), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected decode error")
	}
}
