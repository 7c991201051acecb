// Package config provides configuration for the session engine.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the engine configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Persistence
	DatabasePath   string
	RemoteStoreURL string
	RemoteTimeout  time.Duration

	// Completion gateway
	CompletionURL     string
	CompletionAPIKey  string
	CompletionModel   string
	CompletionTimeout time.Duration

	// Engine tuning
	OwnerID           string
	AutoSaveInterval  time.Duration
	IntroductionDwell time.Duration
	RetentionAge      time.Duration
	CleanupInterval   time.Duration
	Seed              int64

	// Optional YAML companion catalog overlay
	CatalogPath string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		DatabasePath:      getEnv("DATABASE_PATH", "file:questengine.db?cache=shared&mode=rwc"),
		RemoteStoreURL:    getEnv("REMOTE_STORE_URL", ""),
		RemoteTimeout:     time.Duration(getEnvInt("REMOTE_TIMEOUT_MS", 10000)) * time.Millisecond,
		CompletionURL:     getEnv("COMPLETION_URL", "http://localhost:4000"),
		CompletionAPIKey:  getEnv("COMPLETION_API_KEY", ""),
		CompletionModel:   getEnv("COMPLETION_MODEL", "gpt-4o-mini"),
		CompletionTimeout: time.Duration(getEnvInt("COMPLETION_TIMEOUT_MS", 30000)) * time.Millisecond,
		OwnerID:           getEnv("OWNER_ID", "local"),
		AutoSaveInterval:  time.Duration(getEnvInt("AUTOSAVE_INTERVAL_MS", 30000)) * time.Millisecond,
		IntroductionDwell: time.Duration(getEnvInt("INTRO_DWELL_MS", 30000)) * time.Millisecond,
		RetentionAge:      time.Duration(getEnvInt("RETENTION_HOURS", 168)) * time.Hour,
		CleanupInterval:   time.Duration(getEnvInt("CLEANUP_INTERVAL_MS", 3600000)) * time.Millisecond,
		Seed:              int64(getEnvInt("RNG_SEED", 0)),
		CatalogPath:       getEnv("CATALOG_PATH", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
