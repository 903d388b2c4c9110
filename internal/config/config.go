package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Persistence
	StoreDriver string // sqlite | memory
	StorePath   string

	// Gemini
	GeminiAPIKey   string
	AIModel        string
	AIUseVertex    bool
	GoogleProject  string
	GoogleLocation string
	AITimeout      time.Duration

	// Resilience (AI call)
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Domain
	NotificationTTL time.Duration
	UrgentWindow    time.Duration

	// Observability
	OTLPEndpoint   string
	TracingEnabled bool
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
		StorePath:   getEnv("STORE_PATH", "data/crm.db"),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		AIModel:        getEnv("AI_MODEL", "gemini-2.5-flash"),
		AIUseVertex:    getEnvBool("AI_USE_VERTEX", false),
		GoogleProject:  getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleLocation: getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		AITimeout:      getEnvDuration("AI_TIMEOUT", 60*time.Second),

		// zero retries: one round trip per AI operation
		MaxRetries:     getEnvInt("AI_MAX_RETRIES", 0),
		InitialBackoff: getEnvDuration("AI_INITIAL_BACKOFF", 500*time.Millisecond),
		MaxConcurrency: getEnvInt("AI_MAX_CONCURRENCY", 1),

		NotificationTTL: getEnvDuration("NOTIFICATION_TTL", 5*time.Second),
		UrgentWindow:    getEnvDuration("URGENT_WINDOW", 7*24*time.Hour),

		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
	}
}

// AIConfigured reports whether a credential for the AI backend exists.
// Vertex AI in project mode uses application default credentials.
func (c *Config) AIConfigured() bool {
	return c.GeminiAPIKey != "" || (c.AIUseVertex && c.GoogleProject != "")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
