package llm

import (
	"testing"

	"github.com/ppiankov/qualcode/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantErr  bool
	}{
		{name: "gemini", config: Config{Provider: "gemini", APIKey: "k"}, wantName: "gemini"},
		{name: "openai", config: Config{Provider: "OpenAI", APIKey: "k"}, wantName: "openai"},
		{name: "claude alias", config: Config{Provider: "claude", APIKey: "k"}, wantName: "anthropic"},
		{name: "ollama without key", config: Config{Provider: "ollama"}, wantName: "ollama"},
		{name: "unknown", config: Config{Provider: "watson"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(Config{})
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestNewProvider_MissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := NewProvider(Config{Provider: "gemini"})
	assert.Error(t, err)
}

func TestWithEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("ANTHROPIC_API_KEY", "ant-key")
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	assert.Equal(t, "gem-key", WithEnv(Config{Provider: "gemini"}).APIKey)
	assert.Equal(t, "ant-key", WithEnv(Config{Provider: "claude"}).APIKey)
	assert.Equal(t, "explicit", WithEnv(Config{Provider: "gemini", APIKey: "explicit"}).APIKey)
	assert.Equal(t, "http://gpu-box:11434", WithEnv(Config{Provider: "ollama"}).BaseURL)
	assert.Equal(t, "", WithEnv(Config{Provider: "ollama"}).APIKey)

	assert.Equal(t, "OPENAI_API_KEY", EnvKey("openai"))
	assert.Equal(t, "", EnvKey("ollama"))
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(
		model.LLMConfig{Provider: "openai", Model: "gpt-4o", Timeout: 30, MaxTokens: 1000, Temperature: 0.2},
		model.HTTPConfig{HTTPSProxy: "http://proxy:3128", NoProxy: "localhost"},
	)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 30, cfg.Timeout)
	assert.Equal(t, 1000, cfg.MaxTokens)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-6)
	assert.Equal(t, "http://proxy:3128", cfg.HTTPSProxy)
	assert.Equal(t, "localhost", cfg.NoProxy)
}

func TestConfig_Resolve(t *testing.T) {
	cfg := Config{Model: "configured", MaxTokens: 500, Temperature: 0.3}

	req := cfg.resolve(CompletionRequest{}, "fallback")
	assert.Equal(t, "configured", req.Model)
	assert.Equal(t, 500, req.MaxTokens)
	assert.InDelta(t, 0.3, req.Temperature, 1e-6)

	req = Config{}.resolve(CompletionRequest{Model: "explicit", MaxTokens: 10}, "fallback")
	assert.Equal(t, "explicit", req.Model)
	assert.Equal(t, 10, req.MaxTokens)

	assert.Equal(t, "fallback", Config{}.resolve(CompletionRequest{}, "fallback").Model)
}
