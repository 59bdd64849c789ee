package report

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/qualcode/internal/extract"
	"github.com/ppiankov/qualcode/internal/model"
)

const (
	quotesPerTheme   = 3
	quoteKeywordPool = 30
	idealQuoteLength = 120
)

var docIDPattern = regexp.MustCompile(`doc_(\d+)`)

// Quote is a sentence lifted from a document
type Quote struct {
	Text       string `json:"text"`
	DocumentID string `json:"documentId"`
}

// Respondent returns the display label of the quote's document
func (q Quote) Respondent() string {
	return RespondentLabel(q.DocumentID)
}

// RespondentLabel maps doc_<n> to "Respondent <n>"; other ids pass through
func RespondentLabel(docID string) string {
	if m := docIDPattern.FindStringSubmatch(docID); m != nil {
		return "Respondent " + m[1]
	}
	return docID
}

type scoredSentence struct {
	text  string
	docID string
	score float64
}

// quoteSentences splits each document into whitespace-normalized sentences
func quoteSentences(docs []model.Document) [][]string {
	out := make([][]string, len(docs))
	for i, d := range docs {
		normalized := strings.Join(strings.Fields(d.Text), " ")
		out[i] = extract.SplitSentences(normalized)
	}
	return out
}

// lengthBonus peaks at idealQuoteLength and fades to 0 at 0 or 240 runes
func lengthBonus(sentence string) float64 {
	n := min(utf8.RuneCountInString(sentence), 2*idealQuoteLength)
	diff := n - idealQuoteLength
	if diff < 0 {
		diff = -diff
	}
	return 1 - min(1, float64(diff)/idealQuoteLength)
}

// ThemeQuotes picks up to perTheme quotable sentences per theme. A sentence
// qualifies when it mentions a theme term; it scores 2 per theme term, 1 per
// top keyword and up to 1 for length. The result is aligned with themes.
func ThemeQuotes(result *model.AnalysisResult, themes []model.Theme, perTheme int) [][]Quote {
	topKeywords := make([]string, 0, quoteKeywordPool)
	for _, kw := range result.Keywords[:min(len(result.Keywords), quoteKeywordPool)] {
		topKeywords = append(topKeywords, strings.ToLower(kw.Term))
	}
	sentences := quoteSentences(result.Documents)

	out := make([][]Quote, len(themes))
	for ti, theme := range themes {
		terms := lowerAll(theme.Terms)

		var candidates []scoredSentence
		for di, doc := range result.Documents {
			for _, s := range sentences[di] {
				lower := strings.ToLower(s)
				if !containsAny(lower, terms) {
					continue
				}
				score := 0.0
				for _, t := range terms {
					if strings.Contains(lower, t) {
						score += 2
					}
				}
				for _, kw := range topKeywords {
					if strings.Contains(lower, kw) {
						score++
					}
				}
				score += lengthBonus(s)
				candidates = append(candidates, scoredSentence{text: s, docID: doc.ID, score: score})
			}
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].score > candidates[j].score
		})

		seen := make(map[string]struct{})
		quotes := make([]Quote, 0, perTheme)
		for _, c := range candidates {
			if len(quotes) >= perTheme {
				break
			}
			key := strings.ToLower(c.text)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			quotes = append(quotes, Quote{Text: c.text, DocumentID: c.docID})
		}
		out[ti] = quotes
	}
	return out
}

func lowerAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}

// containsAny expects lower to be lowercased already
func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
