// Package config loads the optional YAML configuration file. Flags and
// environment variables layered on top by the CLI always win; credentials
// never live in the file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Server is the CalDAV endpoint, e.g. "https://posteo.de:8443".
	Server string `yaml:"server"`

	// Calendar is the display name of the target calendar collection.
	Calendar string `yaml:"calendar"`

	// Source selects the fixture source: "dynamo" or "kicker".
	Source string `yaml:"source"`

	// SourceURL overrides the source's default schedule page URL.
	SourceURL string `yaml:"source_url"`

	// EventDurationMinutes is the published length of a game event.
	EventDurationMinutes int `yaml:"event_duration_minutes"`

	// RequestTimeoutSeconds bounds every single CalDAV request.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// Default returns an in-memory default configuration.
func Default() *Config {
	return &Config{
		Server:                "https://posteo.de:8443",
		Calendar:              "Dynamo",
		Source:                "kicker",
		EventDurationMinutes:  105,
		RequestTimeoutSeconds: 30,
	}
}

// Normalize fills in missing/zero values so partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	def := Default()
	if c.Server == "" {
		c.Server = def.Server
	}
	if c.Calendar == "" {
		c.Calendar = def.Calendar
	}
	if c.Source == "" {
		c.Source = def.Source
	}
	if c.EventDurationMinutes <= 0 {
		c.EventDurationMinutes = def.EventDurationMinutes
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = def.RequestTimeoutSeconds
	}
}

// Load reads the configuration from a YAML file. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Normalize()
	return &cfg, nil
}

// EventDuration returns the configured event length.
func (c *Config) EventDuration() time.Duration {
	return time.Duration(c.EventDurationMinutes) * time.Minute
}

// RequestTimeout returns the configured per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
