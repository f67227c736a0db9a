package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment,
// loading a .env file first when one exists. Unset variables leave the
// current value untouched.
//
// Recognized variables:
//
//	MPC_SERVER_URL        backend base URL
//	MPC_DATABASE_PATH     sqlite state file
//	MPC_SESSION_SECRET    token signing key
//	MPC_HEALTH_INTERVAL   liveness probe period (Go duration, e.g. "10s")
func parseEnv(cfg *Config) {
	_ = godotenv.Load() // missing .env is fine

	if v := os.Getenv("MPC_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("MPC_DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("MPC_SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("MPC_HEALTH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HealthCheckInterval = d
		}
	}
}
