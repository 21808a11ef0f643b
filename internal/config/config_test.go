package config

import (
	"strings"
	"testing"
	"time"
)

func validConfigForTest() *Config {
	return &Config{
		Env:              "test",
		HTTPPort:         "8080",
		DatabaseURL:      "postgres://localhost/mailbox_test",
		JWTSecret:        strings.Repeat("s", 32),
		JWTAccessTTL:     time.Hour,
		VerificationTTL:  24 * time.Hour,
		AuthRateLimitRPM: 30,
		APIRateLimitRPM:  120,
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/mailbox_test")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "development" || cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected defaults: env=%q port=%q", cfg.Env, cfg.HTTPPort)
	}
	if cfg.JWTAccessTTL != time.Hour {
		t.Fatalf("expected 60m access ttl, got %v", cfg.JWTAccessTTL)
	}
	if cfg.VerificationTTL != 24*time.Hour {
		t.Fatalf("expected 24h verification ttl, got %v", cfg.VerificationTTL)
	}
	if cfg.AuthRateLimitRPM != 30 || cfg.APIRateLimitRPM != 120 {
		t.Fatalf("unexpected rate limits: %d/%d", cfg.AuthRateLimitRPM, cfg.APIRateLimitRPM)
	}
	if !strings.Contains(cfg.VerifyEmailBase, "/auth/verify-email") {
		t.Fatalf("unexpected verify base %q", cfg.VerifyEmailBase)
	}
}

func TestLoadRejectsMalformedDurations(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/mailbox_test")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("JWT_ACCESS_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed JWT_ACCESS_TTL")
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		if err := validConfigForTest().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing database url", func(t *testing.T) {
		cfg := validConfigForTest()
		cfg.DatabaseURL = ""
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
			t.Fatalf("expected DATABASE_URL error, got %v", err)
		}
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := validConfigForTest()
		cfg.JWTSecret = "too-short"
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
			t.Fatalf("expected JWT_SECRET error, got %v", err)
		}
	})

	t.Run("access ttl out of range", func(t *testing.T) {
		cfg := validConfigForTest()
		cfg.JWTAccessTTL = 48 * time.Hour
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "JWT_ACCESS_TTL") {
			t.Fatalf("expected JWT_ACCESS_TTL error, got %v", err)
		}
	})

	t.Run("redis url required when enabled", func(t *testing.T) {
		cfg := validConfigForTest()
		cfg.RedisRateLimiting = true
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "REDIS_URL") {
			t.Fatalf("expected REDIS_URL error, got %v", err)
		}
	})

	t.Run("collects multiple failures", func(t *testing.T) {
		cfg := validConfigForTest()
		cfg.DatabaseURL = ""
		cfg.JWTSecret = ""
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "DATABASE_URL") || !strings.Contains(err.Error(), "JWT_SECRET") {
			t.Fatalf("expected both failures reported, got %v", err)
		}
	})
}
