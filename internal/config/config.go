// ABOUTME: Centralized configuration for the translation dispatch engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/harper/translate-standalone/internal/models"
	"github.com/harper/translate-standalone/internal/storage"
)

// Config holds all configuration for the translation tool.
type Config struct {
	// Provider settings
	Provider string
	Model    string
	APIKey   string
	Endpoint string

	// Engine settings
	MaxChunkLength int
	MaxAttempts    int
	RetryDelay     time.Duration
	ChunkPause     time.Duration
	TargetLanguage string

	// Request settings
	Temperature float64
	Timeout     time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		Provider:       getEnv("TRANSLATE_PROVIDER", models.ProviderOpenAI),
		Model:          getEnv("TRANSLATE_MODEL", "gpt-4o-mini"),
		APIKey:         firstEnv("TRANSLATE_API_KEY", "OPENAI_API_KEY"),
		Endpoint:       os.Getenv("TRANSLATE_ENDPOINT"),
		MaxChunkLength: getEnvInt("TRANSLATE_CHUNK_LENGTH", 3500),
		MaxAttempts:    getEnvInt("TRANSLATE_MAX_ATTEMPTS", 3),
		RetryDelay:     getEnvDuration("TRANSLATE_RETRY_DELAY", time.Second),
		ChunkPause:     getEnvDuration("TRANSLATE_CHUNK_PAUSE", 500*time.Millisecond),
		TargetLanguage: getEnv("TRANSLATE_TARGET_LANGUAGE", "English"),
		Temperature:    getEnvFloat("TRANSLATE_TEMPERATURE", 0.7),
		Timeout:        getEnvDuration("TRANSLATE_TIMEOUT", 5*time.Minute),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxChunkLength < 200 {
		return fmt.Errorf("TRANSLATE_CHUNK_LENGTH must be at least 200, got %d", c.MaxChunkLength)
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("TRANSLATE_MAX_ATTEMPTS must be 1-10, got %d", c.MaxAttempts)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("TRANSLATE_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	return nil
}

// ProviderConfig resolves the immutable per-request provider selection.
func (c *Config) ProviderConfig() models.ProviderConfig {
	return models.ProviderConfig{
		Provider: c.Provider,
		Model:    c.Model,
		APIKey:   c.APIKey,
		Endpoint: c.Endpoint,
		Timeout:  c.Timeout,
	}
}

// SettingsReader is the read side of the settings store.
type SettingsReader interface {
	Get(key string) (string, error)
}

// ResolveProvider merges stored settings into the provider selection.
// Environment variables win; stored values fill anything the environment
// left unset. Read errors are ignored so a missing settings table never
// blocks a dispatch.
func (c *Config) ResolveProvider(settings SettingsReader) models.ProviderConfig {
	pc := c.ProviderConfig()
	if settings == nil {
		return pc
	}
	if os.Getenv("TRANSLATE_PROVIDER") == "" {
		if v, err := settings.Get(storage.KeyActiveProvider); err == nil && v != "" {
			pc.Provider = v
		}
	}
	if pc.APIKey == "" {
		if v, err := settings.Get(storage.APIKeyFor(pc.Provider)); err == nil && v != "" {
			pc.APIKey = v
		}
	}
	if os.Getenv("TRANSLATE_MODEL") == "" {
		if v, err := settings.Get(storage.ModelFor(pc.Provider)); err == nil && v != "" {
			pc.Model = v
		}
	}
	if pc.Endpoint == "" {
		if v, err := settings.Get(storage.EndpointFor(pc.Provider)); err == nil && v != "" {
			pc.Endpoint = v
		}
	}
	return pc
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
