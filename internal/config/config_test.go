package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") unexpected error: %v", err)
	}

	if cfg.Server != "https://posteo.de:8443" {
		t.Errorf("Server = %q, want default", cfg.Server)
	}
	if cfg.Calendar != "Dynamo" {
		t.Errorf("Calendar = %q, want Dynamo", cfg.Calendar)
	}
	if cfg.EventDuration() != 105*time.Minute {
		t.Errorf("EventDuration = %v, want 105m", cfg.EventDuration())
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout())
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server: https://dav.example.org
calendar: Fixtures
source: dynamo
event_duration_minutes: 120
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server != "https://dav.example.org" {
		t.Errorf("Server = %q", cfg.Server)
	}
	if cfg.Calendar != "Fixtures" {
		t.Errorf("Calendar = %q", cfg.Calendar)
	}
	if cfg.Source != "dynamo" {
		t.Errorf("Source = %q", cfg.Source)
	}
	if cfg.EventDuration() != 2*time.Hour {
		t.Errorf("EventDuration = %v", cfg.EventDuration())
	}

	// unset values fall back to defaults
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want normalized default", cfg.RequestTimeout())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for invalid YAML")
	}
}
