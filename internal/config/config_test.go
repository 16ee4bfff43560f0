package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amityadav/stratreport/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SERPAPI_API_KEY", "serp-key")
	t.Setenv("COMPLETION_API_KEY", "completion-key")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("COMPLETION_PROVIDER", "")
	t.Setenv("COMPLETION_MODEL", "")
	t.Setenv("AZURE_OPENAI_API_VERSION", "")
	t.Setenv("SEARCH_MAX_RESULTS", "")
	t.Setenv("FILTER_MODE", "")
	t.Setenv("SESSION_IDLE_TIMEOUT", "")
	t.Setenv("REPORTS_PER_MINUTE", "")
	t.Setenv("CLIENT_REPORTS_PER_MINUTE", "")
	t.Setenv("SEARCH_RATE_PER_MINUTE", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("SECURE_COOKIES", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := config.Load()

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "serp-key", cfg.SerpAPIKey)
	require.Equal(t, "azure", cfg.CompletionProvider)
	require.Equal(t, "gpt-4o", cfg.CompletionModel)
	require.Equal(t, "2024-08-01-preview", cfg.AzureAPIVersion)
	require.Equal(t, 50, cfg.SearchMaxResults)
	require.Equal(t, "substring", cfg.FilterMode)
	require.Equal(t, 2*time.Hour, cfg.SessionIdleTimeout)
	require.Equal(t, 10, cfg.ReportsPerMinute)
	require.Equal(t, 30, cfg.ClientReportsPerMinute)
	require.Equal(t, 60, cfg.SearchRatePerMinute)
	require.Equal(t, config.DevSessionSecret, cfg.SessionSecret)
	require.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("COMPLETION_PROVIDER", "Groq")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "")
	t.Setenv("SEARCH_MAX_RESULTS", "20")
	t.Setenv("FILTER_MODE", "HOST")
	t.Setenv("SESSION_IDLE_TIMEOUT", "30m")
	t.Setenv("SEARCH_RATE_PER_MINUTE", "not-a-number")
	t.Setenv("SECURE_COOKIES", "true")
	t.Setenv("SESSION_SECRET", "prod-secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.example.com, ,http://localhost:3000")

	cfg := config.Load()

	require.Equal(t, "groq", cfg.CompletionProvider)
	require.Equal(t, 20, cfg.SearchMaxResults)
	require.Equal(t, "host", cfg.FilterMode)
	require.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	require.Equal(t, 60, cfg.SearchRatePerMinute)
	require.True(t, cfg.SecureCookies)
	require.Equal(t, "prod-secret", cfg.SessionSecret)
	require.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadSecureCookiesRequireSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("SECURE_COOKIES", "true")
	t.Setenv("SESSION_SECRET", "")

	require.PanicsWithValue(t,
		"Missing required environment variable: SESSION_SECRET (required when SECURE_COOKIES is set)",
		func() { config.Load() })
}

func TestLoadMissingSearchKeyPanics(t *testing.T) {
	setRequired(t)
	t.Setenv("SERPAPI_API_KEY", "")

	require.PanicsWithValue(t, "Missing required environment variable: SERPAPI_API_KEY", func() {
		config.Load()
	})
}

func TestLoadAzureRequiresEndpoint(t *testing.T) {
	setRequired(t)
	t.Setenv("COMPLETION_PROVIDER", "azure")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "")

	require.Panics(t, func() { config.Load() })
}

func TestLoadRejectsUnknownFilterMode(t *testing.T) {
	setRequired(t)
	t.Setenv("FILTER_MODE", "regex")

	require.Panics(t, func() { config.Load() })
}
