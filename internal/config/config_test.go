package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.RateLimit.MaxCallsPerSecond != 1 || cfg.RateLimit.MaxCallsPerMinute != 10 {
		t.Fatalf("unexpected rate ceilings: %+v", cfg.RateLimit)
	}
	if cfg.RateLimit.BaseBackoff != 2*time.Second {
		t.Fatalf("expected 2s base backoff, got %s", cfg.RateLimit.BaseBackoff)
	}
	if cfg.CacheTTL.GameData != time.Minute || cfg.CacheTTL.ConnectionTest != 5*time.Minute || cfg.CacheTTL.DailySchedule != time.Hour {
		t.Fatalf("unexpected TTL classes: %+v", cfg.CacheTTL)
	}
	// With no env configured the service boots in mock mode.
	if !cfg.ForceMock {
		t.Fatalf("expected mock mode by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envAPIKey, "real-key")
	t.Setenv(envUseMockData, "false")
	t.Setenv(envCallsPerSecond, "3")
	t.Setenv(envBackoffBase, "500ms")
	t.Setenv(envGameDataTTL, "30s")

	cfg := Load()

	if !cfg.Sportradar.Configured() {
		t.Fatalf("expected credential to be considered configured")
	}
	if cfg.ForceMock {
		t.Fatalf("expected mock mode disabled")
	}
	if cfg.RateLimit.MaxCallsPerSecond != 3 {
		t.Fatalf("expected per-second override, got %d", cfg.RateLimit.MaxCallsPerSecond)
	}
	if cfg.RateLimit.BaseBackoff != 500*time.Millisecond {
		t.Fatalf("expected backoff override, got %s", cfg.RateLimit.BaseBackoff)
	}
	if cfg.CacheTTL.GameData != 30*time.Second {
		t.Fatalf("expected TTL override, got %s", cfg.CacheTTL.GameData)
	}
}

func TestPlaceholderCredentialNotConfigured(t *testing.T) {
	t.Setenv(envAPIKey, PlaceholderAPIKey)
	cfg := Load()
	if cfg.Sportradar.Configured() {
		t.Fatalf("placeholder key must not count as configured")
	}
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv(envCallsPerMinute, "not-a-number")
	t.Setenv(envBackoffBase, "-4s")
	t.Setenv(envUseMockData, "maybe")

	cfg := Load()
	if cfg.RateLimit.MaxCallsPerMinute != defaultCallsPerMinute {
		t.Fatalf("expected default per-minute ceiling, got %d", cfg.RateLimit.MaxCallsPerMinute)
	}
	if cfg.RateLimit.BaseBackoff != defaultBackoffBase {
		t.Fatalf("expected default backoff, got %s", cfg.RateLimit.BaseBackoff)
	}
	if !cfg.ForceMock {
		t.Fatalf("unparseable bool should keep default")
	}
}
