package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "prod" {
		t.Fatalf("expected App.Env to be prod, got %q", cfg.App.Env)
	}

	if cfg.DB.BusyTimeout != 30*time.Second {
		t.Fatalf("expected default busy timeout 30s, got %v", cfg.DB.BusyTimeout)
	}

	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.BaseDelay != 500*time.Millisecond {
		t.Fatalf("unexpected CRUD retry defaults: %+v", cfg.Retry)
	}

	if cfg.Sale.MaxAttempts != 5 || cfg.Sale.BaseDelay != time.Second {
		t.Fatalf("unexpected sale retry defaults: %+v", cfg.Sale)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestDSNCarriesLockSettings(t *testing.T) {
	db := DBConfig{
		Path:        "pos_system.db",
		BusyTimeout: 30 * time.Second,
		JournalMode: "WAL",
		ForeignKeys: true,
	}

	dsn := db.DSN()
	for _, want := range []string{
		"file:pos_system.db?",
		"_busy_timeout=30000",
		"_journal_mode=WAL",
		"_txlock=immediate",
		"_foreign_keys=on",
	} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("expected DSN to contain %q, got %q", want, dsn)
		}
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvDBPath, "pos_system.db")
}
