package llm

import (
	"fmt"
	"os"
	"strings"
)

// NewProvider creates a provider from configuration.
// An empty provider name disables AI and returns (nil, nil).
func NewProvider(config Config) (Provider, error) {
	config = WithEnv(config)

	switch strings.ToLower(config.Provider) {
	case "gemini", "google":
		return NewGeminiProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, openai, anthropic, ollama)", config.Provider)
	}
}

// envKeys maps providers to the variable holding their credential
var envKeys = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"google":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"claude":    "ANTHROPIC_API_KEY",
}

// WithEnv fills an empty API key (or Ollama URL) from the provider's
// conventional environment variable.
func WithEnv(config Config) Config {
	name := strings.ToLower(config.Provider)
	if config.APIKey == "" {
		if key, ok := envKeys[name]; ok {
			config.APIKey = os.Getenv(key)
		}
	}
	if name == "ollama" && config.BaseURL == "" {
		config.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	return config
}

// EnvKey returns the API key variable for a provider, or ""
func EnvKey(provider string) string {
	return envKeys[strings.ToLower(provider)]
}
