// Package llm runs the AI-augmented analysis: it formats transcripts into a
// prompt, sends it to a hosted or local model and parses the JSON analysis
// that comes back.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ppiankov/qualcode/internal/model"
	"github.com/ppiankov/qualcode/internal/util"
)

// Provider is a chat/completion backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one system+user exchange and returns the model's text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is a single-turn request
type CompletionRequest struct {
	System      string
	Prompt      string
	Model       string // Empty means the provider's configured model
	MaxTokens   int
	Temperature float32
	JSON        bool // Ask the backend for a JSON object when it supports that
}

// CompletionResponse is the model output
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "anthropic", "ollama"; "" disables AI
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL overrides the provider endpoint
	BaseURL string

	// Timeout for one request, in seconds
	Timeout int

	MaxTokens   int
	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the AI defaults: Gemini at temperature 0.3
func DefaultConfig() Config {
	return Config{
		Provider:    "gemini",
		Timeout:     60,
		MaxTokens:   8192,
		Temperature: 0.3,
	}
}

// ConfigFromModel merges the llm and http config sections
func ConfigFromModel(llmCfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:    llmCfg.Provider,
		Model:       llmCfg.Model,
		APIKey:      llmCfg.APIKey,
		BaseURL:     llmCfg.BaseURL,
		Timeout:     llmCfg.Timeout,
		MaxTokens:   llmCfg.MaxTokens,
		Temperature: llmCfg.Temperature,
		HTTPProxy:   httpCfg.HTTPProxy,
		HTTPSProxy:  httpCfg.HTTPSProxy,
		NoProxy:     httpCfg.NoProxy,
	}
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout > 0 {
		return time.Duration(c.Timeout) * time.Second
	}
	return fallback
}

func (c Config) httpClient(fallback time.Duration) *http.Client {
	return util.NewHTTPClient(c.timeout(fallback), c.HTTPProxy, c.HTTPSProxy, c.NoProxy)
}

// resolve fills request defaults from the provider config
func (c Config) resolve(req CompletionRequest, defaultModel string) CompletionRequest {
	if req.Model == "" {
		req.Model = c.Model
	}
	if req.Model == "" {
		req.Model = defaultModel
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.MaxTokens
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 4096
	}
	if req.Temperature == 0 {
		req.Temperature = c.Temperature
	}
	return req
}

// StatusError is a non-2xx reply from a provider's HTTP API
type StatusError struct {
	Provider   string
	StatusCode int
	Type       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s API error (%d): %s - %s", e.Provider, e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
}
