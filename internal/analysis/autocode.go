package analysis

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/qualcode/internal/model"
)

const (
	maxPhraseCodes      = 40 // Phrase codes kept after ranking
	minPhraseCodes      = 10 // Below this the keyword fallback is used
	fallbackCodes       = 20 // Keyword codes in fallback mode
	maxPhraseExamples   = 5
	maxFallbackExamples = 3
	minPhraseWordLen    = 3
)

// phraseStats accumulates one candidate code
type phraseStats struct {
	count    int
	examples []string
	seen     map[string]struct{} // lowercase examples
}

func (p *phraseStats) addExample(quote string, limit int) {
	if quote == "" || len(p.examples) >= limit {
		return
	}
	key := strings.ToLower(quote)
	if _, dup := p.seen[key]; dup {
		return
	}
	p.seen[key] = struct{}{}
	p.examples = append(p.examples, quote)
}

func newPhraseStats() *phraseStats {
	return &phraseStats{
		examples: make([]string, 0, 1),
		seen:     make(map[string]struct{}),
	}
}

// AutoCodes mines recurring 2- and 3-word phrases into codes with example excerpts.
// When fewer than 10 phrases recur, the top keywords become the codes instead.
func (a *Analyzer) AutoCodes(docs []model.Document, keywords []model.KeywordScore) []model.Code {
	stats := make(map[string]*phraseStats)
	var order []string

	for _, doc := range docs {
		tokens := a.tokenizer.Tokenize(doc.Text)
		phrases := append(NGrams(tokens, 2), NGrams(tokens, 3)...)

		for _, phrase := range phrases {
			if hasShortWord(phrase, minPhraseWordLen) {
				continue
			}
			entry, ok := stats[phrase]
			if !ok {
				entry = newPhraseStats()
				stats[phrase] = entry
				order = append(order, phrase)
			}
			entry.count++
			if len(entry.examples) < maxPhraseExamples {
				entry.addExample(a.excerpter.Extract(doc.Text, phrase), maxPhraseExamples)
			}
		}
	}

	codes := make([]model.Code, 0)
	for _, phrase := range order {
		entry := stats[phrase]
		if entry.count <= 1 || len(entry.examples) == 0 {
			continue
		}
		codes = append(codes, model.Code{
			Code:      phrase,
			Frequency: entry.count,
			Examples:  entry.examples,
		})
	}

	sort.SliceStable(codes, func(i, j int) bool {
		return codes[i].Frequency > codes[j].Frequency
	})
	if len(codes) > maxPhraseCodes {
		codes = codes[:maxPhraseCodes]
	}

	if len(codes) < minPhraseCodes {
		return a.keywordCodes(docs, keywords)
	}
	return codes
}

// keywordCodes turns the top keywords into codes for sparse corpora
func (a *Analyzer) keywordCodes(docs []model.Document, keywords []model.KeywordScore) []model.Code {
	top := keywords[:min(len(keywords), fallbackCodes)]

	lowered := make([]string, len(docs))
	for i, doc := range docs {
		lowered[i] = strings.ToLower(doc.Text)
	}

	codes := make([]model.Code, 0, len(top))
	for _, kw := range top {
		entry := newPhraseStats()
		term := strings.ToLower(kw.Term)
		for i, doc := range docs {
			if !strings.Contains(lowered[i], term) {
				continue
			}
			entry.addExample(a.excerpter.Extract(doc.Text, kw.Term), maxFallbackExamples)
			if len(entry.examples) >= maxFallbackExamples {
				break
			}
		}
		codes = append(codes, model.Code{
			Code:      kw.Term,
			Frequency: int(math.Round(kw.Score)),
			Examples:  entry.examples,
		})
	}
	return codes
}

// hasShortWord reports whether any space-separated word is shorter than n runes
func hasShortWord(phrase string, n int) bool {
	for _, w := range strings.Split(phrase, " ") {
		if utf8.RuneCountInString(w) < n {
			return true
		}
	}
	return false
}
