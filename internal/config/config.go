package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string
	Environment          string
	Database             DatabaseConfig
	Shopify              ShopifyConfig
	Processor            ProcessorConfig
	LogLevel             string
	ShopifyWebhookSecret string // SHOPIFY_WEBHOOK_SECRET: verify incoming webhooks (X-Shopify-Hmac-Sha256)
	AdminAPIKeyHash      string // ADMIN_API_KEY_HASH: bcrypt hash guarding /v1/admin routes
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ShopifyConfig holds the Admin API version. Access tokens are per-shop and
// live in the shops table, not in config.
type ShopifyConfig struct {
	APIVersion string
}

// ProcessorConfig controls the webhook event poll loop
type ProcessorConfig struct {
	PollIntervalSeconds int
	BatchSize           int
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("EVENT_POLL_INTERVAL_SECONDS", "15")
	viper.SetDefault("EVENT_BATCH_SIZE", "10")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "ordersplitter"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Shopify: ShopifyConfig{
			APIVersion: getEnvOrViper("SHOPIFY_API_VERSION", "2025-07"),
		},
		Processor: ProcessorConfig{
			PollIntervalSeconds: viper.GetInt("EVENT_POLL_INTERVAL_SECONDS"),
			BatchSize:           viper.GetInt("EVENT_BATCH_SIZE"),
		},
		LogLevel:             getEnvOrViper("LOG_LEVEL", "info"),
		ShopifyWebhookSecret: strings.TrimSpace(getEnvOrViper("SHOPIFY_WEBHOOK_SECRET", "")),
		AdminAPIKeyHash:      strings.TrimSpace(getEnvOrViper("ADMIN_API_KEY_HASH", "")),
	}

	if cfg.Processor.PollIntervalSeconds <= 0 {
		cfg.Processor.PollIntervalSeconds = 15
	}
	if cfg.Processor.BatchSize <= 0 {
		cfg.Processor.BatchSize = 10
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
