package analysis

import (
	"math"
	"sort"

	"github.com/ppiankov/qualcode/internal/model"
)

// MaxKeywords caps the keyword list
const MaxKeywords = 200

// KeywordScores scores every term across the corpus:
//
//	idf   = ln((N+1)/(df+1)) + 1
//	score = count * idf
//
// Results are sorted by descending score (ties keep first-seen order)
// and truncated to MaxKeywords.
func (a *Analyzer) KeywordScores(docs []model.Document) []model.KeywordScore {
	counts := make(map[string]int)
	docFreq := make(map[string]int)
	var order []string

	for _, doc := range docs {
		tokens := a.tokenizer.Tokenize(doc.Text)
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := counts[tok]; !ok {
				order = append(order, tok)
			}
			counts[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
	}

	n := float64(len(docs))
	scored := make([]model.KeywordScore, 0, len(order))
	for _, term := range order {
		idf := math.Log((n+1)/(float64(docFreq[term])+1)) + 1
		scored = append(scored, model.KeywordScore{
			Term:  term,
			Score: float64(counts[term]) * idf,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > MaxKeywords {
		scored = scored[:MaxKeywords]
	}
	return scored
}
