package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// loaded from environment variables, no magic defaults for required fields.
type Config struct {
	Database  DatabaseConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Warehouse WarehouseConfig
	Notifier  NotifierConfig
}

// DatabaseConfig contains database connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Schema   string
}

// AuthConfig contains authentication configuration.
type AuthConfig struct {
	// JWTSecret is the HMAC secret for token validation
	JWTSecret string
}

// RedisConfig contains cache configuration.
// redis is optional: an empty URL disables the offer board cache.
type RedisConfig struct {
	URL string
}

// WarehouseConfig contains blob storage settings for warehouse exports.
// export is optional: an empty bucket disables the export worker.
type WarehouseConfig struct {
	Bucket   string
	Region   string
	Prefix   string
	Interval time.Duration
}

// NotifierConfig contains webhook notification settings.
// notifications are optional: an empty URL disables the dispatcher.
type NotifierConfig struct {
	URL    string
	Secret string
}

// ConnectionString returns the postgres connection string.
func (c DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&search_path=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
		c.Schema,
	)
}

// Load reads configuration from environment variables.
// loads .env file if present, but doesn't fail if it's missing.
func Load() (*Config, error) {
	// try to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}

	authConfig, err := loadAuthConfig()
	if err != nil {
		return nil, fmt.Errorf("auth config: %w", err)
	}

	warehouseConfig, err := loadWarehouseConfig()
	if err != nil {
		return nil, fmt.Errorf("warehouse config: %w", err)
	}

	return &Config{
		Database:  dbConfig,
		Auth:      authConfig,
		Redis:     RedisConfig{URL: os.Getenv("REDIS_URL")},
		Warehouse: warehouseConfig,
		Notifier: NotifierConfig{
			URL:    os.Getenv("NOTIFIER_URL"),
			Secret: os.Getenv("NOTIFIER_SECRET"),
		},
	}, nil
}

func loadAuthConfig() (AuthConfig, error) {
	config := AuthConfig{
		JWTSecret: os.Getenv("JWT_SECRET"),
	}

	if config.JWTSecret == "" {
		return config, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	config := DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		SSLMode:  getEnvOrDefault("DB_SSL_MODE", "require"),
		Schema:   getEnvOrDefault("DB_SCHEMA", "hiredesk"),
	}

	// required fields must be set
	if config.User == "" {
		return config, errors.New("DB_USER is required")
	}
	if config.Password == "" {
		return config, errors.New("DB_PASSWORD is required")
	}
	if config.Name == "" {
		return config, errors.New("DB_NAME is required")
	}

	return config, nil
}

func loadWarehouseConfig() (WarehouseConfig, error) {
	config := WarehouseConfig{
		Bucket:   os.Getenv("WAREHOUSE_BUCKET"),
		Region:   getEnvOrDefault("WAREHOUSE_REGION", "us-east-1"),
		Prefix:   getEnvOrDefault("WAREHOUSE_PREFIX", "exports"),
		Interval: 24 * time.Hour,
	}

	if raw := os.Getenv("WAREHOUSE_INTERVAL_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return config, fmt.Errorf("WAREHOUSE_INTERVAL_HOURS must be a positive integer, got %q", raw)
		}
		config.Interval = time.Duration(hours) * time.Hour
	}

	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
