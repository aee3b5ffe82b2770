package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port       string
	CORSOrigin string
	Env        string

	// Database
	DatabaseURL string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Rate limiting
	AuthRateMax  int
	WriteRateMax int
}

// Load reads configuration from the environment. DATABASE_URL and
// JWT_SECRET are required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		CORSOrigin:   getEnv("CORS_ORIGIN", "*"),
		Env:          strings.ToLower(getEnv("ENV", "dev")),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:     getDuration("TOKEN_TTL_HOURS", 24) * time.Hour,
		AuthRateMax:  getInt("RATE_LIMIT_AUTH_MAX", 10),
		WriteRateMax: getInt("RATE_LIMIT_WRITE_MAX", 60),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback int) time.Duration {
	return time.Duration(getInt(key, fallback))
}
