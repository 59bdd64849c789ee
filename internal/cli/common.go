package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/qualcode/internal/cache"
	"github.com/ppiankov/qualcode/internal/llm"
	"github.com/ppiankov/qualcode/internal/logger"
	"github.com/ppiankov/qualcode/internal/model"
	"github.com/ppiankov/qualcode/internal/pipeline"
	"github.com/ppiankov/qualcode/internal/report"
	"github.com/ppiankov/qualcode/internal/store"
	"github.com/ppiankov/qualcode/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// addMetaFlags registers the report front-matter flags
func addMetaFlags(flags *pflag.FlagSet, meta *report.Meta) {
	flags.StringVar(&meta.Title, "title", "", "report title")
	flags.StringVar(&meta.Author, "author", "", "report author (default \"Research Team\")")
	flags.StringVar(&meta.Institution, "institution", "", "author institution")
	flags.StringVar(&meta.CorrespondingAuthor, "corresponding-author", "", "corresponding author (publication format)")
	flags.StringVar(&meta.Email, "email", "", "corresponding author email (publication format)")
	flags.StringVar(&meta.Methodology, "methodology", "", "methodology description")
	flags.StringVar(&meta.MethodologyVariations, "methodology-variations", "", "deviations from the standard methodology")
	flags.StringVar(&meta.ParticipantDemographics, "demographics", "", "participant demographics")
	flags.StringVar(&meta.AdditionalNotes, "notes", "", "additional notes")
}

// analysisFlags are shared by the commands that analyze transcripts
type analysisFlags struct {
	perFile   bool
	stopwords string
	noHistory bool
	provider  string
	model     string
}

func (f *analysisFlags) register(flags *pflag.FlagSet, withAI bool) {
	flags.BoolVar(&f.perFile, "per-file", false, "treat each text file as one transcript instead of splitting on blank lines")
	flags.StringVar(&f.stopwords, "stopwords", "", "YAML file with extra stopwords (terms: [...])")
	flags.BoolVar(&f.noHistory, "no-history", false, "do not save the run to history")
	if withAI {
		flags.StringVar(&f.provider, "provider", "", "AI provider: gemini, openai, anthropic, ollama (default from config)")
		flags.StringVar(&f.model, "model", "", "AI model name (default: provider default)")
	}
}

// apply folds the flags into cfg
func (f *analysisFlags) apply(cfg *model.Config) error {
	if f.stopwords != "" {
		terms, err := LoadStopwords(f.stopwords)
		if err != nil {
			return fmt.Errorf("load stopwords: %w", err)
		}
		cfg.Analysis.ExtraStopwords = append(cfg.Analysis.ExtraStopwords, terms...)
	}
	if f.provider != "" {
		cfg.LLM.Provider = f.provider
		cfg.LLM.APIKey = ""
	}
	if f.model != "" {
		cfg.LLM.Model = f.model
	}
	return nil
}

// stoplist is the custom stopword file format
type stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStopwords reads a YAML stoplist; terms are lowercased and trimmed
func LoadStopwords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	terms := make([]string, 0, len(sl.Terms))
	for _, t := range sl.Terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			terms = append(terms, t)
		}
	}
	return terms, nil
}

// session holds what a command opened; Close releases it
type session struct {
	cfg      *model.Config
	pipeline *pipeline.Pipeline
	store    *store.Store
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logger.Warn("close history: %v", err)
		}
	}
}

// openSession builds the pipeline for cfg. AI is wired only when withAI is
// set; history is opened unless disabled.
func openSession(cmd *cobra.Command, cfg *model.Config, flags *analysisFlags, withAI bool, extra ...pipeline.Option) (*session, error) {
	ctx := cmd.Context()
	s := &session{cfg: cfg}
	opts := append([]pipeline.Option(nil), extra...)

	if !flags.noHistory {
		st, err := store.Open(ctx, cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		s.store = st
		opts = append(opts, pipeline.WithStore(st))
	}

	if withAI {
		analyst, err := newAnalyst(cfg)
		if err != nil {
			s.Close()
			return nil, err
		}
		opts = append(opts, pipeline.WithAnalyst(analyst))
	}

	loader := pipeline.NewLoader(pipeline.NewFetcher(cfg.HTTP))
	loader.SetPerFile(flags.perFile)
	opts = append(opts, pipeline.WithLoader(loader))

	s.pipeline = pipeline.New(cfg, opts...)
	s.pipeline.Renderer().SetOutput(cmd.OutOrStdout())
	return s, nil
}

// newAnalyst builds the AI analyst with cache and rate limit from cfg
func newAnalyst(cfg *model.Config) (*llm.Analyst, error) {
	llmCfg := llm.ConfigFromModel(cfg.LLM, cfg.HTTP)
	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		if key := llm.EnvKey(llmCfg.Provider); key != "" && llm.WithEnv(llmCfg).APIKey == "" {
			return nil, fmt.Errorf("%w (set %s or llm.api_key in config)", err, key)
		}
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("no AI provider configured (set llm.provider or --provider)")
	}
	logger.Debug("AI provider: %s", provider.Name())

	opts := []llm.Option{
		llm.WithCache(cache.New(cfg.Cache)),
		llm.WithModel(cfg.LLM.Model),
		llm.WithMaxTokens(cfg.LLM.MaxTokens),
	}
	if cfg.LLM.Temperature > 0 {
		opts = append(opts, llm.WithTemperature(cfg.LLM.Temperature))
	}
	if cfg.LLM.RequestsPerMinute > 0 {
		opts = append(opts, llm.WithLimiter(worker.PerMinute(cfg.LLM.RequestsPerMinute)))
	}
	return llm.NewAnalyst(provider, opts...), nil
}

// expandArgs resolves directories into their corpus files
func expandArgs(args []string) ([]string, error) {
	inputs, err := worker.ExpandInputs(args)
	if err != nil {
		return nil, fmt.Errorf("expand inputs: %w", err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no transcript files found in %v", args)
	}
	return inputs, nil
}

// openStore opens run history for the read-only commands
func openStore(ctx context.Context) (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return st, nil
}

// printSummary writes the run digest to stderr so stdout stays clean for
// reports written to "-"
func printSummary(cmd *cobra.Command, p *pipeline.Pipeline, run *model.Run) {
	p.Renderer().RenderSummary(cmd.ErrOrStderr(), run)
}

// sanitizeFilename turns an input path or URL into a safe file stem.
// Local paths keep their base name without extension; URLs keep host and path.
func sanitizeFilename(s string) string {
	if isURL(s) {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
		s = strings.TrimSuffix(s, "/")
	} else {
		s = filepath.Base(s)
		s = strings.TrimSuffix(s, filepath.Ext(s))
		if s == "." || s == string(filepath.Separator) {
			s = ""
		}
	}

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "corpus"
	}
	return s
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
