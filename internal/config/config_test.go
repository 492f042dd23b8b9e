package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TANKWATCH_POSTGRES_DSN", "postgres://localhost/tankwatch")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTPAddress() != ":8080" {
		t.Fatalf("HTTPAddress = %q, want :8080", cfg.HTTPAddress())
	}
	if cfg.Alerting.LowThreshold != 30 {
		t.Fatalf("LowThreshold = %v, want 30", cfg.Alerting.LowThreshold)
	}
	if cfg.CooldownWindow() != 300*time.Second {
		t.Fatalf("CooldownWindow = %v, want 5m", cfg.CooldownWindow())
	}
	if cfg.Alerting.Tracker != TrackerMemory {
		t.Fatalf("Tracker = %q, want %q", cfg.Alerting.Tracker, TrackerMemory)
	}
	if cfg.Alerting.CountryCode != "+91" {
		t.Fatalf("CountryCode = %q, want +91", cfg.Alerting.CountryCode)
	}
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("TANKWATCH_POSTGRES_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when dsn is missing")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TANKWATCH_POSTGRES_DSN", "postgres://localhost/tankwatch")
	t.Setenv("TANKWATCH_HTTP_PORT", "9090")
	t.Setenv("TANKWATCH_COOLDOWN_SECONDS", "60")
	t.Setenv("TANKWATCH_LOW_THRESHOLD", "25.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTPAddress() != ":9090" {
		t.Fatalf("HTTPAddress = %q, want :9090", cfg.HTTPAddress())
	}
	if cfg.CooldownWindow() != time.Minute {
		t.Fatalf("CooldownWindow = %v, want 1m", cfg.CooldownWindow())
	}
	if cfg.Alerting.LowThreshold != 25.5 {
		t.Fatalf("LowThreshold = %v, want 25.5", cfg.Alerting.LowThreshold)
	}
}

func TestLoadRejectsUnknownTracker(t *testing.T) {
	t.Setenv("TANKWATCH_POSTGRES_DSN", "postgres://localhost/tankwatch")
	t.Setenv("TANKWATCH_COOLDOWN_TRACKER", "zookeeper")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown tracker backend")
	}
}

func TestLoadRedisTrackerRequiresAddr(t *testing.T) {
	t.Setenv("TANKWATCH_POSTGRES_DSN", "postgres://localhost/tankwatch")
	t.Setenv("TANKWATCH_COOLDOWN_TRACKER", TrackerRedis)

	if _, err := Load(); err == nil {
		t.Fatal("expected error when redis tracker has no addr")
	}
}
