package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port       string
	Env        string
	CORSOrigin string

	DatabaseURL string
	ValkeyAddr  string

	JWTSecret  string
	SessionTTL time.Duration

	// External image host used for photo uploads.
	ImageHostURL string
	ImageHostKey string
}

// Load reads configuration from environment variables. In development a
// .env file is loaded if present; in production the required variables
// must be set or Load returns an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		CORSOrigin:   getEnv("CORS_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		ValkeyAddr:   getEnv("VALKEY_ADDR", "127.0.0.1:6379"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret"),
		SessionTTL:   getDuration("SESSION_TTL", 24*time.Hour),
		ImageHostURL: os.Getenv("IMAGE_HOST_URL"),
		ImageHostKey: os.Getenv("IMAGE_HOST_KEY"),
	}

	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required in production")
		}
		if cfg.JWTSecret == "dev-secret" {
			return nil, errors.New("JWT_SECRET is required in production")
		}
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
