package config

import (
	"fmt"
	"os"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

type JWTConfig struct {
	SecretKey string
	TokenTTL  time.Duration
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type SiteConfig struct {
	// BaseURL is the externally visible origin, used to build Stripe
	// success/cancel and Connect return URLs.
	BaseURL string
}

type Config struct {
	Repositories RepositoriesConfig
	JWT          JWTConfig
	Stripe       StripeConfig
	Site         SiteConfig
	ServerPort   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "servomart"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		JWT: JWTConfig{
			SecretKey: getEnvOrDefault("JWT_SECRET_KEY", ""),
			TokenTTL:  24 * time.Hour,
		},
		Stripe: StripeConfig{
			SecretKey:     getEnvOrDefault("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnvOrDefault("STRIPE_WEBHOOK_SECRET", ""),
		},
		Site: SiteConfig{
			BaseURL: getEnvOrDefault("SITE_BASE_URL", "http://localhost:8091"),
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "8091"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
