package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer normalizes raw text into lowercase word tokens.
// It is immutable after construction and safe for concurrent use.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a tokenizer using the built-in English stopwords
// plus any extra words supplied by the caller
func NewTokenizer(extraStopwords ...string) *Tokenizer {
	stops := make(map[string]struct{}, len(englishStopwords)+len(extraStopwords))
	for _, w := range englishStopwords {
		stops[w] = struct{}{}
	}
	for _, w := range extraStopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			stops[w] = struct{}{}
		}
	}
	return &Tokenizer{stopwords: stops}
}

var defaultTokenizer = NewTokenizer()

// Tokenize splits text with the default tokenizer
func Tokenize(text string) []string {
	return defaultTokenizer.Tokenize(text)
}

// Tokenize lowercases text, blanks out every rune that is not a letter, digit or
// whitespace, splits on whitespace runs and drops single-rune tokens and stopwords.
func (t *Tokenizer) Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= 1 || t.IsStopword(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// IsStopword reports whether the lowercase word is filtered
func (t *Tokenizer) IsStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// NGrams returns every contiguous window of n tokens joined by a space,
// ordered by starting index
func NGrams(tokens []string, n int) []string {
	if n <= 0 || len(tokens) < n {
		return nil
	}
	grams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+n], " "))
	}
	return grams
}
