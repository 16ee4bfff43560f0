package models

const (
	// === OpenAI / Azure OpenAI Models ===
	ModelGPT4o     = "gpt-4o"
	ModelGPT4oMini = "gpt-4o-mini"

	// === Groq Models ===
	ModelGroqLlama3_3_70b = "llama-3.3-70b-versatile"
	ModelGroqGptOss120b   = "openai/gpt-oss-120b"

	// === Cerebras Models ===
	ModelCerebrasLlama3_3_70b = "llama-3.3-70b"
	ModelCerebrasGptOss120b   = "gpt-oss-120b"
)

const (
	// TaskReportModel: executive summary over a list of sources.
	TaskReportModel = ModelGPT4o

	// AzureAPIVersion is the Azure OpenAI REST version used for chat completions.
	AzureAPIVersion = "2024-08-01-preview"
)
