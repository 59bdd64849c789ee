// Package analysis implements the heuristic qualitative-coding pipeline:
// tokenization, TF-IDF keywords, phrase auto-coding, code co-occurrence,
// lexicon sentiment and stem-based theme grouping.
//
// The pipeline is deterministic and free of I/O. Each call builds its own
// working maps, so an Analyzer can be shared between goroutines.
package analysis

import (
	"fmt"

	"github.com/ppiankov/qualcode/internal/model"
)

// Options tunes an Analyzer
type Options struct {
	Excerpt        Excerpter
	ExtraStopwords []string
}

// DefaultOptions returns the standard excerpt window and no extra stopwords
func DefaultOptions() Options {
	return Options{Excerpt: DefaultExcerpter()}
}

// OptionsFromConfig builds Options from the analysis config section.
// Non-positive values fall back to defaults.
func OptionsFromConfig(cfg model.AnalysisConfig) Options {
	opts := DefaultOptions()
	if cfg.ExcerptBefore > 0 {
		opts.Excerpt.Before = cfg.ExcerptBefore
	}
	if cfg.ExcerptAfter > 0 {
		opts.Excerpt.After = cfg.ExcerptAfter
	}
	if cfg.ExcerptMaxLength > 0 {
		opts.Excerpt.MaxLength = cfg.ExcerptMaxLength
	}
	opts.ExtraStopwords = cfg.ExtraStopwords
	return opts
}

// Analyzer runs the corpus pipeline
type Analyzer struct {
	tokenizer *Tokenizer
	excerpter Excerpter
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(opts Options) *Analyzer {
	if opts.Excerpt.MaxLength <= 0 {
		opts.Excerpt = DefaultExcerpter()
	}
	return &Analyzer{
		tokenizer: NewTokenizer(opts.ExtraStopwords...),
		excerpter: opts.Excerpt,
	}
}

// Tokenizer returns the analyzer's tokenizer
func (a *Analyzer) Tokenizer() *Tokenizer {
	return a.tokenizer
}

// Documents assigns doc_<n> ids in corpus order
func Documents(texts []string) []model.Document {
	docs := make([]model.Document, len(texts))
	for i, t := range texts {
		docs[i] = model.Document{ID: fmt.Sprintf("doc_%d", i+1), Text: t}
	}
	return docs
}

// Analyze runs every stage over the corpus. Callers drop empty documents
// beforehand; an empty corpus yields empty collections.
func (a *Analyzer) Analyze(texts []string) *model.AnalysisResult {
	docs := Documents(texts)

	keywords := a.KeywordScores(docs)
	result := &model.AnalysisResult{
		Documents: docs,
		Keywords:  keywords,
		Codes:     a.AutoCodes(docs, keywords),
		Sentiment: make([]model.SentimentEntry, len(docs)),
		Themes:    Themes(keywords),
	}
	result.Cooccurrence = Cooccurrence(docs, result.CodeLabels())

	for i, d := range docs {
		result.Sentiment[i] = model.SentimentEntry{DocumentID: d.ID, Score: a.Sentiment(d.Text)}
	}
	return result
}
