package analysis

import (
	"strings"

	"github.com/ppiankov/qualcode/internal/model"
)

type codePair struct {
	a, b string
}

// newCodePair orders the pair so a < b
func newCodePair(x, y string) codePair {
	if y < x {
		x, y = y, x
	}
	return codePair{a: x, b: y}
}

// PresentCodes returns the codes whose lowercase form occurs verbatim in the
// lowercased text, in code order
func PresentCodes(codes []string, text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{}, len(codes))
	var present []string
	for _, c := range codes {
		if _, dup := seen[c]; dup {
			continue
		}
		if strings.Contains(lower, strings.ToLower(c)) {
			seen[c] = struct{}{}
			present = append(present, c)
		}
	}
	return present
}

// Cooccurrence counts, for every unordered pair of codes, the documents that
// contain both. Only pairs with a nonzero count are returned.
func Cooccurrence(docs []model.Document, codes []string) []model.CooccurrencePair {
	counts := make(map[codePair]int)
	var order []codePair

	for _, doc := range docs {
		present := PresentCodes(codes, doc.Text)
		for i := 0; i < len(present); i++ {
			for j := i + 1; j < len(present); j++ {
				key := newCodePair(present[i], present[j])
				if _, ok := counts[key]; !ok {
					order = append(order, key)
				}
				counts[key]++
			}
		}
	}

	pairs := make([]model.CooccurrencePair, 0, len(order))
	for _, key := range order {
		pairs = append(pairs, model.CooccurrencePair{A: key.a, B: key.b, Count: counts[key]})
	}
	return pairs
}
