package ai

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/amityadav/stratreport/internal/ai/models"
)

// NewLLMProvider creates a provider instance based on the provider name.
// Panics if the provider is unsupported.
// Supported providers: "azure", "openai", "groq", "cerebras"
func NewLLMProvider(providerName string, config ProviderConfig, hc *http.Client) *BaseProvider {
	if config.Model == "" {
		config.Model = models.TaskReportModel
	}

	switch strings.ToLower(providerName) {
	case "azure":
		config.Name = "AzureOpenAI"
		config.Azure = true
		if config.APIVersion == "" {
			config.APIVersion = models.AzureAPIVersion
		}
	case "openai":
		config.Name = "OpenAI"
	case "groq":
		config.Name = "Groq"
		if config.BaseURL == "" {
			config.BaseURL = "https://api.groq.com/openai/v1"
		}
	case "cerebras":
		config.Name = "Cerebras"
		if config.BaseURL == "" {
			config.BaseURL = "https://api.cerebras.ai/v1"
		}
	default:
		// Fail fast: don't silently default to an unknown provider
		panic(fmt.Sprintf("unsupported AI provider: %s (supported: azure, openai, groq, cerebras)", providerName))
	}

	return NewBaseProvider(config, hc)
}
