package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"7001"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Auth
	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer    string        `envconfig:"JWT_ISSUER" default:"audit-dashboard"`
	JWTExpiresIn time.Duration `envconfig:"JWT_EXPIRES_IN" default:"8h"`

	// Bootstrap admin account, seeded on startup when missing
	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin123"`

	// Background monitoring
	CollectionInterval time.Duration `envconfig:"COLLECTION_INTERVAL" default:"5m"`
	EvaluationInterval time.Duration `envconfig:"EVALUATION_INTERVAL" default:"1m"`

	// Alert notifications (optional outbound webhook)
	NotifyWebhookURL    string `envconfig:"NOTIFY_WEBHOOK_URL" default:""`
	NotifyWebhookSecret string `envconfig:"NOTIFY_WEBHOOK_SECRET" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
