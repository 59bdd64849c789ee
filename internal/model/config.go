package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the full qualcode configuration.
// Precedence: flags > QUALCODE_* env > config file > DefaultConfig.
type Config struct {
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// AnalysisConfig tunes the heuristic pipeline
type AnalysisConfig struct {
	ExcerptBefore    int      `yaml:"excerpt_before" mapstructure:"excerpt_before"`         // Runes kept before a match
	ExcerptAfter     int      `yaml:"excerpt_after" mapstructure:"excerpt_after"`           // Runes kept after a match
	ExcerptMaxLength int      `yaml:"excerpt_max_length" mapstructure:"excerpt_max_length"` // Hard cap, "..." appended past it
	ExtraStopwords   []string `yaml:"extra_stopwords,omitempty" mapstructure:"extra_stopwords"`
}

// LLMConfig configures the optional AI analysis path
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // gemini, openai, anthropic, ollama
	Model             string  `yaml:"model,omitempty" mapstructure:"model"`
	APIKey            string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout           int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature       float32 `yaml:"temperature" mapstructure:"temperature"`
	RequestsPerMinute float64 `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// CacheConfig configures the AI response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// HTTPConfig configures transcript fetching from URLs
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RatePerSecond float64       `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// StoreConfig controls run history persistence
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	home := HomeDir()

	return &Config{
		Analysis: AnalysisConfig{
			ExcerptBefore:    50,
			ExcerptAfter:     100,
			ExcerptMaxLength: 180,
		},
		LLM: LLMConfig{
			Provider:          "gemini",
			Timeout:           60,
			MaxTokens:         8192,
			Temperature:       0.3,
			RequestsPerMinute: 15, // Gemini free tier
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(home, "cache"),
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "qualcode/0.3 (+https://github.com/ppiankov/qualcode)",
			MaxBodyBytes:  5_000_000,
			RespectRobots: true,
			RatePerSecond: 2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Store: StoreConfig{
			Path: filepath.Join(home, "runs.db"),
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

// HomeDir returns the qualcode state directory (~/.qualcode).
// Falls back to ./.qualcode when the user home cannot be resolved.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".qualcode"
	}
	return filepath.Join(home, ".qualcode")
}
