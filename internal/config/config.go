// Package config loads application configuration from the environment,
// with optional runtime-tunable limits from a watched file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Supabase configuration
	SupabaseURL string
	SupabaseKey string

	// Table names. The link tables are one per taxonomy kind.
	EntitiesTable   string
	EntitiesView    string
	MacrosTable     string
	MicrosTable     string
	MacroLinksTable string
	MicroLinksTable string

	// Sync and import tuning
	SyncMinInterval time.Duration
	ImportBatchSize int

	// Path to the optional runtime limits file (yaml). Empty disables the watcher.
	LimitsFile string

	// Logging
	LogLevel string

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		SupabaseURL: getEnv("SUPABASE_URL", ""),
		SupabaseKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),

		EntitiesTable:   getEnv("ENTITIES_TABLE", "entities"),
		EntitiesView:    getEnv("ENTITIES_VIEW", "entities_context"),
		MacrosTable:     getEnv("MACROS_TABLE", "macros"),
		MicrosTable:     getEnv("MICROS_TABLE", "micros"),
		MacroLinksTable: getEnv("MACRO_LINKS_TABLE", "buyer_macro_context"),
		MicroLinksTable: getEnv("MICRO_LINKS_TABLE", "buyer_micro_context"),

		SyncMinInterval: getEnvDuration("SYNC_MIN_INTERVAL", time.Second),
		ImportBatchSize: getEnvInt("IMPORT_BATCH_SIZE", 500),
		LimitsFile:      getEnv("LIMITS_FILE", ""),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL must be set")
	}
	if c.SupabaseKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY must be set")
	}
	if c.SyncMinInterval < 0 {
		return fmt.Errorf("SYNC_MIN_INTERVAL must not be negative")
	}
	if c.ImportBatchSize < 1 {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
