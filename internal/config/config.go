package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront service.
// Following 12-factor app principles, all config is loaded from
// environment variables; a local .env file is honoured in development.
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Cart     CartConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for cart mutation endpoints
}

type CatalogConfig struct {
	// URL of the catalog endpoint. Empty means the embedded demo dataset.
	URL string
	// FetchTimeout bounds one catalog fetch, in seconds.
	FetchTimeout int
}

type CartConfig struct {
	// MinCheckoutTotal is the minimum order value (in Rand) below which
	// checkout is advised against. Advisory only.
	MinCheckoutTotal float64
	// FreeDeliveryTotal is the order value at which the free delivery
	// promotion applies.
	FreeDeliveryTotal float64
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine; real env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", []string{"apitest"}),
		},
		Catalog: CatalogConfig{
			URL:          getEnv("CATALOG_URL", ""),
			FetchTimeout: getEnvAsInt("CATALOG_FETCH_TIMEOUT", 10),
		},
		Cart: CartConfig{
			MinCheckoutTotal:  getEnvAsFloat("CART_MIN_CHECKOUT_TOTAL", 5),
			FreeDeliveryTotal: getEnvAsFloat("CART_FREE_DELIVERY_TOTAL", 10),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	if c.Catalog.FetchTimeout <= 0 {
		return fmt.Errorf("CATALOG_FETCH_TIMEOUT must be positive")
	}

	if c.Cart.MinCheckoutTotal < 0 || c.Cart.FreeDeliveryTotal < 0 {
		return fmt.Errorf("cart thresholds must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
