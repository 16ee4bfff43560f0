package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amityadav/stratreport/internal/logger"
)

// DevSessionSecret signs session cookies when SESSION_SECRET is unset and
// cookies are not marked secure.
const DevSessionSecret = "dev-session-secret"

// Config holds all application configuration
type Config struct {
	HTTPAddr string

	// Search provider
	SerpAPIKey          string
	SearchMaxResults    int
	SearchRatePerMinute int
	FilterMode          string // "substring" or "host"

	// Completion provider
	CompletionProvider string // "azure", "openai", "groq", "cerebras"
	CompletionAPIKey   string
	CompletionModel    string
	CompletionBaseURL  string
	AzureEndpoint      string
	AzureAPIVersion    string

	// Sessions
	SessionSecret          string
	SessionIdleTimeout     time.Duration
	SessionSweepCron       string
	SecureCookies          bool
	ReportsPerMinute       int
	ClientReportsPerMinute int

	// Browser origins allowed to call the API with credentials
	CORSAllowedOrigins []string

	// Optional report archive
	DatabaseURL string

	LogLevel string
	LogFile  string
}

// Load loads configuration from environment variables.
// It panics when a required variable is missing, which aborts startup.
func Load() Config {
	cfg := Config{
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		SerpAPIKey:             getEnvOrPanic("SERPAPI_API_KEY"),
		SearchMaxResults:       getEnvInt("SEARCH_MAX_RESULTS", 50),
		SearchRatePerMinute:    getEnvInt("SEARCH_RATE_PER_MINUTE", 60),
		FilterMode:             strings.ToLower(getEnv("FILTER_MODE", "substring")),
		CompletionProvider:     strings.ToLower(getEnv("COMPLETION_PROVIDER", "azure")),
		CompletionAPIKey:       getEnvOrPanic("COMPLETION_API_KEY"),
		CompletionModel:        getEnv("COMPLETION_MODEL", "gpt-4o"),
		CompletionBaseURL:      os.Getenv("COMPLETION_BASE_URL"),
		AzureEndpoint:          os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureAPIVersion:        getEnv("AZURE_OPENAI_API_VERSION", "2024-08-01-preview"),
		SessionSecret:          os.Getenv("SESSION_SECRET"),
		SessionIdleTimeout:     getEnvDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		SessionSweepCron:       getEnv("SESSION_SWEEP_CRON", "@every 5m"),
		SecureCookies:          getEnvBool("SECURE_COOKIES", false),
		ReportsPerMinute:       getEnvInt("REPORTS_PER_MINUTE", 10),
		ClientReportsPerMinute: getEnvInt("CLIENT_REPORTS_PER_MINUTE", 30),
		CORSAllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFile:                os.Getenv("LOG_FILE"),
	}

	if cfg.SessionSecret == "" {
		if cfg.SecureCookies {
			panic("Missing required environment variable: SESSION_SECRET (required when SECURE_COOKIES is set)")
		}
		logger.Log.Warn("[Config] SESSION_SECRET is not set, signing session cookies with the development secret")
		cfg.SessionSecret = DevSessionSecret
	}

	if cfg.CompletionProvider == "azure" && cfg.AzureEndpoint == "" {
		panic("Missing required environment variable: AZURE_OPENAI_ENDPOINT")
	}
	if cfg.SearchMaxResults <= 0 {
		panic("SEARCH_MAX_RESULTS must be positive")
	}
	if cfg.FilterMode != "substring" && cfg.FilterMode != "host" {
		panic("Invalid FILTER_MODE: " + cfg.FilterMode + " (supported: substring, host)")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvOrPanic(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic("Missing required environment variable: " + key)
	}
	return value
}
