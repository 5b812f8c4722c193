package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("RESEND_API_KEY", "")
	t.Setenv("ADMIN_EMAIL", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.StorageBackend != BackendSQLite {
		t.Errorf("default backend: got %s, want sqlite", cfg.StorageBackend)
	}
	if cfg.EmailEnabled() {
		t.Error("email should be disabled without an API key")
	}
	if cfg.DigestSchedule == "" {
		t.Error("expected a default digest schedule")
	}
}

func TestFromEnvRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestFromEnvPostgresRequiresURL(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/rental")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.StorageBackend != BackendPostgres {
		t.Errorf("got backend %s", cfg.StorageBackend)
	}
}

func TestEmailEnabled(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "key")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if !cfg.EmailEnabled() {
		t.Error("email should be enabled with key and admin address")
	}
}
