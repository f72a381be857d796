package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	// Database
	DBPath string

	// Telegram delivery
	APIToken      string
	AllowedUserID int64

	// Artifacts
	ReportDir string

	// Transaction table variant: "v1", "v2" or "full"
	TxSchema string

	// Delivery
	DeliveryTimeout time.Duration

	// Weekly trend threshold line
	WeeklyThreshold decimal.Decimal

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		DBPath:          getEnv("DB_PATH", ""),
		APIToken:        getEnv("API_TOKEN", ""),
		AllowedUserID:   getEnvInt64("ALLOWED_USER_ID", 0),
		ReportDir:       getEnv("REPORT_DIR", "."),
		TxSchema:        getEnv("TX_SCHEMA", "full"),
		DeliveryTimeout: getEnvDuration("DELIVERY_TIMEOUT", 30*time.Second),
		WeeklyThreshold: getEnvDecimal("WEEKLY_THRESHOLD", decimal.NewFromInt(30000)),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found. It runs before any I/O so that a missing credential
// fails the run up front instead of at first use.
func (c *Config) Validate() error {
	var errors []string

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH is required")
	} else if _, err := os.Stat(c.DBPath); os.IsNotExist(err) {
		errors = append(errors, fmt.Sprintf("database file does not exist: %s", c.DBPath))
	}

	if c.APIToken == "" {
		errors = append(errors, "API_TOKEN is required")
	}

	if c.AllowedUserID == 0 {
		errors = append(errors, "ALLOWED_USER_ID is required and must be a non-zero integer")
	}

	if c.ReportDir == "" {
		errors = append(errors, "report directory cannot be empty")
	} else {
		dir := filepath.Clean(c.ReportDir)
		if info, err := os.Stat(dir); err != nil {
			errors = append(errors, fmt.Sprintf("report directory is not accessible: %s", dir))
		} else if !info.IsDir() {
			errors = append(errors, fmt.Sprintf("report directory is not a directory: %s", dir))
		}
	}

	switch c.TxSchema {
	case "v1", "v2", "full":
	default:
		errors = append(errors, fmt.Sprintf("invalid transaction schema '%s': must be one of [v1 v2 full]", c.TxSchema))
	}

	if c.DeliveryTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid delivery timeout %v: must be at least 1 second", c.DeliveryTimeout))
	} else if c.DeliveryTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid delivery timeout %v: must be at most 5 minutes", c.DeliveryTimeout))
	}

	if c.WeeklyThreshold.IsNegative() {
		errors = append(errors, fmt.Sprintf("invalid weekly threshold %s: must not be negative", c.WeeklyThreshold))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
