package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	ServerAddr    string
	DatabaseURL   string
	MigrationsDir string
	JWTSecret     string
	TokenTTL      time.Duration
}

// Load reads configuration from the environment. DatabaseURL stays empty
// when neither DATABASE_URL nor POSTGRES_HOST is set; callers fall back
// to the in-memory store in that case.
func Load() *Config {
	cfg := &Config{
		ServerAddr:    getenv("SERVER_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MigrationsDir: getenv("MIGRATIONS_DIR", "internal/migrations"),
		JWTSecret:     getenv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
	}

	if cfg.DatabaseURL == "" {
		if host := os.Getenv("POSTGRES_HOST"); host != "" {
			cfg.DatabaseURL = fmt.Sprintf(
				"postgres://%s:%s@%s:%s/%s?sslmode=%s",
				getenv("POSTGRES_USER", "postgres"),
				getenv("POSTGRES_PASSWORD", "postgres"),
				host,
				getenv("POSTGRES_PORT", "5432"),
				getenv("POSTGRES_DB", "slotswap"),
				getenv("POSTGRES_SSLMODE", "disable"),
			)
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
