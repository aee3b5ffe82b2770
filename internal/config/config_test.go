package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/fintrack")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, expected 8080", cfg.Port)
	}
	if cfg.CORSOrigin != "*" {
		t.Errorf("CORSOrigin = %q, expected *", cfg.CORSOrigin)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, expected 24h", cfg.TokenTTL)
	}
	if cfg.AuthRateMax != 10 || cfg.WriteRateMax != 60 {
		t.Errorf("rate limits = %d/%d, expected 10/60", cfg.AuthRateMax, cfg.WriteRateMax)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/fintrack")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9999")
	t.Setenv("TOKEN_TTL_HOURS", "1")
	t.Setenv("RATE_LIMIT_WRITE_MAX", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("Port = %q, expected 9999", cfg.Port)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, expected 1h", cfg.TokenTTL)
	}
	if cfg.WriteRateMax != 5 {
		t.Errorf("WriteRateMax = %d, expected 5", cfg.WriteRateMax)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "x")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/fintrack")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}
