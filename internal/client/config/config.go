// Package config holds the runtime settings of the client and loads them
// from defaults, an optional JSON file and command-line flags, in that
// order; later sources win.
package config

import "time"

// Config holds runtime settings for the Dinostories CLI.
type Config struct {
	// APIBaseURL is the base URL of the story API, including the version
	// prefix.
	APIBaseURL string

	// DatabaseDSN is the sqlite DSN of the local offline store.
	DatabaseDSN string

	// OnlineCheckInterval is how often the client probes server reachability
	// for the status banner.
	OnlineCheckInterval time.Duration

	// SyncInterval is how often the pending-story queue is drained.
	SyncInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://story-api.dicoding.dev/v1"
	c.DatabaseDSN = "dinostories.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.SyncInterval = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
