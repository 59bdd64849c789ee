package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/ppiankov/qualcode/internal/apperr"
	"github.com/ppiankov/qualcode/internal/cache"
	"github.com/ppiankov/qualcode/internal/logger"
	"github.com/ppiankov/qualcode/internal/model"
	"github.com/sashabaranov/go-openai"
)

const defaultTemperature = 0.3

// Limiter throttles provider calls; worker.Limiter satisfies it
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// Analyst runs AI thematic analysis over a transcript corpus
type Analyst struct {
	provider    Provider
	cache       cache.Cache
	limiter     Limiter
	model       string
	maxTokens   int
	temperature float32
	grounding   string
}

// Option configures an Analyst
type Option func(*Analyst)

// WithCache stores parsed analyses keyed by provider, model, question and transcripts
func WithCache(c cache.Cache) Option {
	return func(a *Analyst) { a.cache = c }
}

// WithLimiter waits on l before every provider call
func WithLimiter(l Limiter) Option {
	return func(a *Analyst) { a.limiter = l }
}

// WithModel overrides the provider's default model
func WithModel(name string) Option {
	return func(a *Analyst) { a.model = name }
}

// WithMaxTokens caps the response length
func WithMaxTokens(n int) Option {
	return func(a *Analyst) { a.maxTokens = n }
}

// WithTemperature sets the sampling temperature
func WithTemperature(t float32) Option {
	return func(a *Analyst) { a.temperature = t }
}

// NewAnalyst creates an analyst over provider
func NewAnalyst(provider Provider, opts ...Option) *Analyst {
	a := &Analyst{
		provider:    provider,
		cache:       cache.Noop{},
		temperature: defaultTemperature,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithGrounding returns a copy of the analyst whose prompts include a
// summary of the heuristic result
func (a *Analyst) WithGrounding(result *model.AnalysisResult) *Analyst {
	c := *a
	c.grounding = GroundingContext(result)
	return &c
}

// Analyze runs the AI analysis
func (a *Analyst) Analyze(ctx context.Context, transcripts []string, question string) (*model.AIAnalysis, error) {
	summary, err := a.Summarize(ctx, transcripts, question)
	if err != nil {
		return nil, err
	}
	return &summary.Analysis, nil
}

// Summarize runs the AI analysis and records which provider produced it
func (a *Analyst) Summarize(ctx context.Context, transcripts []string, question string) (*model.AISummary, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperr.ErrResearchQuestionRequired
	}
	docs := cleanTranscripts(transcripts)
	if len(docs) == 0 {
		return nil, apperr.ErrNoDocuments
	}

	summary := &model.AISummary{
		Provider:         a.provider.Name(),
		Model:            a.model,
		ResearchQuestion: question,
	}

	keyQuestion := question
	if a.grounding != "" {
		keyQuestion += "\x00grounded"
	}
	key := cache.AnalysisKey(summary.Provider, a.model, keyQuestion, docs)
	if cache.GetJSON(a.cache, key, &summary.Analysis) {
		logger.Debug("AI analysis cache hit (%s)", summary.Provider)
		summary.Cached = true
		return summary, nil
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, summary.Provider); err != nil {
			return nil, classifyError(err)
		}
	}

	system, user := BuildPrompt(docs, question)
	if a.grounding != "" {
		user += "\n\n" + a.grounding
	}

	logger.Info("Sending %d transcript(s) to %s", len(docs), summary.Provider)
	resp, err := a.provider.Complete(ctx, CompletionRequest{
		System:      system,
		Prompt:      user,
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
		JSON:        true,
	})
	if err != nil {
		return nil, classifyError(err)
	}
	logger.Debug("AI response received (%d tokens), parsing JSON", resp.TokensUsed)

	analysis, err := ParseAnalysis(resp.Text)
	if err != nil {
		return nil, err
	}
	summary.Analysis = *analysis
	if resp.Model != "" {
		summary.Model = resp.Model
	}

	if err := cache.SetJSON(a.cache, key, analysis, 0); err != nil {
		logger.Warn("failed to cache AI analysis: %v", err)
	}
	return summary, nil
}

// ParseAnalysis decodes a model reply, tolerating markdown code fences
// and prose around the JSON object
func ParseAnalysis(text string) (*model.AIAnalysis, error) {
	body := stripFences(text)

	var analysis model.AIAnalysis
	if err := json.Unmarshal([]byte(body), &analysis); err != nil {
		start := strings.Index(body, "{")
		end := strings.LastIndex(body, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidAIResponse, err)
		}
		analysis = model.AIAnalysis{}
		if err := json.Unmarshal([]byte(body[start:end+1]), &analysis); err != nil {
			return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidAIResponse, err)
		}
	}
	return &analysis, nil
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func cleanTranscripts(transcripts []string) []string {
	docs := make([]string, 0, len(transcripts))
	for _, t := range transcripts {
		if t = strings.TrimSpace(t); t != "" {
			docs = append(docs, t)
		}
	}
	return docs
}

// classifyError maps provider failures onto the boundary sentinels
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && isAuthStatus(apiErr.HTTPStatusCode) {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidAPIKey, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && isAuthStatus(reqErr.HTTPStatusCode) {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidAPIKey, err)
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && isAuthStatus(statusErr.StatusCode) {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidAPIKey, err)
	}

	// Gemini rejects bad keys with 400 INVALID_ARGUMENT
	msg := err.Error()
	if strings.Contains(msg, "API_KEY_INVALID") || strings.Contains(msg, "API key not valid") {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidAPIKey, err)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", apperr.ErrProviderNetwork, err)
	}

	return fmt.Errorf("AI analysis failed: %w", err)
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
