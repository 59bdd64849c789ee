// Package pipeline wires loading, heuristic analysis, the optional AI pass,
// report rendering and run history into one flow.
package pipeline

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ppiankov/qualcode/internal/analysis"
	"github.com/ppiankov/qualcode/internal/apperr"
	"github.com/ppiankov/qualcode/internal/llm"
	"github.com/ppiankov/qualcode/internal/logger"
	"github.com/ppiankov/qualcode/internal/model"
	"github.com/ppiankov/qualcode/internal/report"
)

// ErrAIDisabled is returned when an AI step runs without a provider
var ErrAIDisabled = errors.New("AI provider not configured")

// RunStore persists runs
type RunStore interface {
	SaveRun(ctx context.Context, run *model.Run) error
}

// Pipeline orchestrates a complete analysis
type Pipeline struct {
	loader   *Loader
	analyzer *analysis.Analyzer
	analyst  *llm.Analyst // nil when AI is disabled
	store    RunStore     // nil when history is disabled
	renderer *report.Renderer

	question string // research question for AI passes in Process
	grounded bool

	now     func() time.Time
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithAnalyst enables the AI pass
func WithAnalyst(a *llm.Analyst) Option {
	return func(p *Pipeline) { p.analyst = a }
}

// WithStore saves every processed run
func WithStore(s RunStore) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithLoader replaces the default loader
func WithLoader(l *Loader) Option {
	return func(p *Pipeline) { p.loader = l }
}

// WithQuestion makes Process run the AI pass with this research question.
// grounded adds the heuristic summary to the prompt.
func WithQuestion(question string, grounded bool) Option {
	return func(p *Pipeline) {
		p.question = strings.TrimSpace(question)
		p.grounded = grounded
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline from configuration
func New(cfg *model.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:   NewLoader(NewFetcher(cfg.HTTP)),
		analyzer: analysis.NewAnalyzer(analysis.OptionsFromConfig(cfg.Analysis)),
		renderer: report.NewRenderer(cfg.Output.IncludeFooter),
		now:      time.Now,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Renderer returns the output renderer
func (p *Pipeline) Renderer() *report.Renderer {
	return p.renderer
}

// HasAI reports whether an AI provider is configured
func (p *Pipeline) HasAI() bool {
	return p.analyst != nil
}

// Analyze loads inputs and runs the heuristic analysis
func (p *Pipeline) Analyze(ctx context.Context, inputs []string) (*model.Run, error) {
	corpus, err := p.loader.Load(ctx, inputs)
	if err != nil {
		return nil, err
	}
	return p.AnalyzeTexts(corpus.Documents, corpus.Sources)
}

// AnalyzeTexts runs the heuristic analysis over in-memory transcripts
func (p *Pipeline) AnalyzeTexts(texts []string, sources []string) (*model.Run, error) {
	docs := cleanDocuments(texts)
	if len(docs) == 0 {
		return nil, apperr.ErrNoDocuments
	}

	start := time.Now()
	result := p.analyzer.Analyze(docs)
	logger.Info("Analyzed %d document(s) in %s: %d keywords, %d codes, %d themes",
		len(docs), time.Since(start).Round(time.Millisecond), len(result.Keywords), len(result.Codes), len(result.Themes))

	return &model.Run{
		ID:        p.newID(),
		Sources:   sources,
		CreatedAt: p.now().UTC(),
		Result:    *result,
	}, nil
}

// AIAnalyze runs the AI pass over the run's documents and attaches the
// result. The heuristic result is left untouched.
func (p *Pipeline) AIAnalyze(ctx context.Context, run *model.Run, question string, grounded bool) error {
	if p.analyst == nil {
		return ErrAIDisabled
	}

	texts := make([]string, len(run.Result.Documents))
	for i, d := range run.Result.Documents {
		texts[i] = d.Text
	}

	analyst := p.analyst
	if grounded {
		analyst = analyst.WithGrounding(&run.Result)
	}

	summary, err := analyst.Summarize(ctx, texts, question)
	if err != nil {
		return err
	}
	if summary.Cached {
		logger.Info("Using cached AI analysis")
	}
	run.AI = summary
	return nil
}

// Process analyzes one input for batch runs: heuristic analysis, the AI
// pass when a question is set, then save
func (p *Pipeline) Process(ctx context.Context, input string) (*model.Run, error) {
	run, err := p.Analyze(ctx, []string{input})
	if err != nil {
		return nil, err
	}
	run.Title = input

	if p.question != "" && p.analyst != nil {
		if err := p.AIAnalyze(ctx, run, p.question, p.grounded); err != nil {
			return nil, fmt.Errorf("AI analysis of %s: %w", input, err)
		}
	}

	if err := p.Save(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// Save stores the run when history is enabled
func (p *Pipeline) Save(ctx context.Context, run *model.Run) error {
	if p.store == nil {
		return nil
	}
	if err := p.store.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	logger.Debug("Saved run %s", run.ID)
	return nil
}

// Outputs names where a run is written; empty paths are skipped
type Outputs struct {
	JSON       string
	Markdown   string
	AIMarkdown string
}

// Render writes the run's JSON, heuristic report and AI report
func (p *Pipeline) Render(run *model.Run, meta report.Meta, publication bool, out Outputs) error {
	builder := report.NewBuilder(publication)

	if out.JSON != "" {
		if err := p.renderer.WriteJSON(out.JSON, run); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		logger.Info("Wrote JSON: %s", out.JSON)
	}

	if out.Markdown != "" {
		if err := p.renderer.WriteMarkdown(out.Markdown, builder.Build(meta, &run.Result)); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		logger.Info("Wrote report: %s", out.Markdown)
	}

	if out.AIMarkdown != "" {
		if run.AI == nil {
			return fmt.Errorf("render AI report: run %s has no AI analysis", run.ID)
		}
		aiMeta := meta
		if aiMeta.ResearchQuestion == "" {
			aiMeta.ResearchQuestion = run.AI.ResearchQuestion
		}
		md := builder.RenderAI(aiMeta, &run.AI.Analysis, len(run.Result.Documents))
		if err := p.renderer.WriteMarkdown(out.AIMarkdown, md); err != nil {
			return fmt.Errorf("render AI report: %w", err)
		}
		logger.Info("Wrote AI report: %s", out.AIMarkdown)
	}
	return nil
}

func (p *Pipeline) newID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(p.now()), p.entropy).String()
}

func cleanDocuments(texts []string) []string {
	docs := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			docs = append(docs, t)
		}
	}
	return docs
}
