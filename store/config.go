package store

import (
	"os"
	"strconv"
)

// Config holds store's tunables, loaded from the environment the way the
// teacher's internal/config.Config does (env var → typed default).
type Config struct {
	Driver        string // "sqlite" (default, embedded), "libsql" (Turso), "postgres"
	DSN           string
	Debug         bool
	RetentionRuns int
}

// LoadConfig loads store configuration from the environment, defaulting to
// an embedded SQLite database when nothing is set.
func LoadConfig() *Config {
	cfg := &Config{
		Driver:        os.Getenv("SMARTDIFF_STORE_DRIVER"),
		DSN:           os.Getenv("SMARTDIFF_STORE_DSN"),
		RetentionRuns: 20,
	}

	if cfg.Driver == "" {
		cfg.Driver = "sqlite"
	}
	if cfg.DSN == "" {
		cfg.DSN = "smartdiff.db"
	}

	if debugStr := os.Getenv("SMARTDIFF_STORE_DEBUG"); debugStr != "" {
		if debug, err := strconv.ParseBool(debugStr); err == nil {
			cfg.Debug = debug
		}
	}

	if retentionStr := os.Getenv("SMARTDIFF_STORE_RETENTION_RUNS"); retentionStr != "" {
		if retention, err := strconv.Atoi(retentionStr); err == nil && retention >= 0 {
			cfg.RetentionRuns = retention
		}
	}

	return cfg
}
