// Package config holds environment-backed configuration for the server.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Storage backend names selectable via STORAGE_BACKEND.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds the runtime configuration read from the environment.
type Config struct {
	// StorageBackend selects the store variant: sqlite, postgres or memory.
	StorageBackend string

	// DatabaseURL is the Postgres connection string (postgres backend only).
	DatabaseURL string

	// ResendAPIKey enables email notifications when set.
	ResendAPIKey string

	// AdminEmail receives application notifications and the daily digest.
	AdminEmail string

	// EmailFrom is the sender address for outgoing notifications.
	EmailFrom string

	// DigestSchedule is the cron expression for the daily rental digest.
	DigestSchedule string
}

// FromEnv reads configuration from environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendSQLite)),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ResendAPIKey:   strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		AdminEmail:     getEnv("ADMIN_EMAIL", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "Camping Heater <onboarding@resend.dev>"),
		DigestSchedule: getEnv("DIGEST_SCHEDULE", "0 8 * * *"),
	}

	switch cfg.StorageBackend {
	case BackendSQLite, BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return cfg, fmt.Errorf("unknown STORAGE_BACKEND %q (want sqlite, postgres or memory)", cfg.StorageBackend)
	}

	return cfg, nil
}

// EmailEnabled reports whether outgoing email is configured.
func (c Config) EmailEnabled() bool {
	return c.ResendAPIKey != "" && c.AdminEmail != ""
}

// getEnv returns an environment variable value or a default if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
