package config

import "time"

// Config holds runtime settings for the console.
//
// Fields:
//   - ServerURL: base URL of the cluster backend (scheme://host:port).
//   - DatabasePath: sqlite file holding the durable client state.
//   - SessionSecret: HMAC key for signing and introspecting session tokens.
//   - HealthCheckInterval: how often the console probes backend liveness.
type Config struct {
	ServerURL           string
	DatabasePath        string
	SessionSecret       string
	HealthCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "console.db"
	c.SessionSecret = "dev-only-insecure-secret"
	c.HealthCheckInterval = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including a .env file, if present), a JSON file
// (if given via -c/-config), and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
