// Package config loads catalog-service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	DBDriver          string
	DBDSN             string
	DBDebug           bool
	NATSPort          int
	HTTPAddr          string
	ShutdownTimeout   time.Duration
	HardDeleteEnabled bool
	AdminSecret       string
	AdminIssuer       string
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: .env not loaded: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment alone.
func FromEnv() Config {
	return Config{
		DBDriver:          strings.ToLower(getEnv("CATALOG_DB_DRIVER", "sqlite")),
		DBDSN:             getEnv("CATALOG_DB_DSN", getEnv("DATABASE_URL", "products.db")),
		DBDebug:           getEnvBool("DB_DEBUG", false),
		NATSPort:          getEnvInt("NATS_PORT", 4222),
		HTTPAddr:          getEnvRaw("HTTP_ADDR", ":3000"),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		HardDeleteEnabled: getEnvBool("CATALOG_HARD_DELETE_ENABLED", false),
		AdminSecret:       getEnv("CATALOG_ADMIN_SECRET", ""),
		AdminIssuer:       getEnv("CATALOG_ADMIN_ISSUER", "catalog-service"),
	}
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("unsupported CATALOG_DB_DRIVER %q (want sqlite, postgres or memory)", c.DBDriver)
	}
	if c.DBDriver != "memory" && c.DBDSN == "" {
		return fmt.Errorf("CATALOG_DB_DSN is required for driver %s", c.DBDriver)
	}
	if c.NATSPort <= 0 || c.NATSPort > 65535 {
		return fmt.Errorf("invalid NATS_PORT %d", c.NATSPort)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.HardDeleteEnabled && c.AdminSecret == "" {
		return fmt.Errorf("CATALOG_ADMIN_SECRET is required when CATALOG_HARD_DELETE_ENABLED is true")
	}
	return nil
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRaw is like getEnv but honors an explicitly empty value.
func getEnvRaw(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as a duration ("30s", "1m") or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
