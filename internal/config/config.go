package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Default model names used when the corresponding env vars are unset.
const (
	DefaultModel         = "gemini-2.5-flash"
	DefaultFallbackModel = "gemini-2.0-flash"
)

// Config holds all runtime configuration for the assistant.
type Config struct {
	// DatabaseURL is the Postgres connection string for the ledger store.
	DatabaseURL string

	// GeminiAPIKey authenticates both completion providers.
	GeminiAPIKey string

	// Model is the primary completion model.
	Model string

	// FallbackModel is the secondary completion model used on failover.
	FallbackModel string

	// Port is the HTTP port the webhook server listens on.
	Port string
}

// Load reads configuration from a .env file (if present) and the environment.
// A missing .env file is not an error; missing mandatory variables are.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:         os.Getenv("GEMINI_MODEL"),
		FallbackModel: os.Getenv("GEMINI_FALLBACK_MODEL"),
		Port:          os.Getenv("PORT"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("config: DATABASE_URL is required")
	}
	if cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("config: GEMINI_API_KEY is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.FallbackModel == "" {
		cfg.FallbackModel = DefaultFallbackModel
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	return cfg, nil
}
