package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"ttestcalc/domain/hypothesis"
	"ttestcalc/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	TTest    TTestConfig
	LogLevel string
}

// DatabaseConfig holds database connection settings. An empty URL keeps run
// history in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Enabled reports whether a PostgreSQL history store is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string
	GinMode      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// TTestConfig holds computation defaults
type TTestConfig struct {
	Alpha            float64
	BatchConcurrency int
	HistoryLimit     int
	// MemoryMaxRuns bounds the in-memory history when no database is configured
	MemoryMaxRuns int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: loadDatabaseConfig(),
		Server:   loadServerConfig(),
		TTest:    loadTTestConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:             os.Getenv("DATABASE_URL"),
		MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:         getEnvOrDefault("PORT", "8080"),
		GinMode:      getEnvOrDefault("GIN_MODE", "release"),
		ReadTimeout:  getEnvDurationOrDefault("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDurationOrDefault("WRITE_TIMEOUT", 30*time.Second),
	}
}

func loadTTestConfig() TTestConfig {
	return TTestConfig{
		Alpha:            getEnvFloatOrDefault("ALPHA", hypothesis.DefaultAlpha),
		BatchConcurrency: getEnvIntOrDefault("BATCH_CONCURRENCY", 4),
		HistoryLimit:     getEnvIntOrDefault("HISTORY_LIMIT", 50),
		MemoryMaxRuns:    getEnvIntOrDefault("MEMORY_MAX_RUNS", 1000),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.TTest.Alpha <= 0 || config.TTest.Alpha >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("ALPHA must lie in (0,1), got %v", config.TTest.Alpha))
	}
	if config.TTest.BatchConcurrency < 1 {
		return errors.ConfigInvalid("BATCH_CONCURRENCY must be at least 1")
	}
	if config.TTest.HistoryLimit < 1 {
		return errors.ConfigInvalid("HISTORY_LIMIT must be at least 1")
	}
	if config.TTest.MemoryMaxRuns < config.TTest.HistoryLimit {
		return errors.ConfigInvalid(fmt.Sprintf("MEMORY_MAX_RUNS must be at least HISTORY_LIMIT (%d), got %d",
			config.TTest.HistoryLimit, config.TTest.MemoryMaxRuns))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
