package ai

import "context"

// Provider defines the interface for chat-completion providers
type Provider interface {
	Name() string
	// Complete sends one system and one user message and returns the first choice verbatim.
	Complete(ctx context.Context, system, user string) (string, error)
}

// ProviderConfig holds configuration for a provider
type ProviderConfig struct {
	Name       string
	BaseURL    string // Azure resource endpoint or OpenAI-compatible base URL
	APIKey     string
	Model      string
	APIVersion string // Azure only
	Azure      bool
}
