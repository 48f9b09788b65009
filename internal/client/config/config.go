package config

import "time"

// Config holds runtime settings for the Campus Connect CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend HTTP API.
//   - RequestTimeout: per-request deadline for API calls.
//   - DatabasePath: location of the local SQLite session store.
//   - AllowDegraded: when true, an unreachable backend yields a local
//     demo session instead of a login failure.
type Config struct {
	ServerBaseURL  string
	DatabasePath   string
	RequestTimeout time.Duration
	AllowDegraded  bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:5000"
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "campus.db"
	c.AllowDegraded = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
