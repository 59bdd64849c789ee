package analysis

import "math"

// Sentiment sums lexicon polarity over the document's tokens and divides by
// the square root of the token count, so long documents are not automatically
// more extreme. Documents without tokens score exactly 0.
func (a *Analyzer) Sentiment(text string) float64 {
	tokens := a.tokenizer.Tokenize(text)
	if len(tokens) == 0 {
		return 0
	}
	sum := 0
	for _, tok := range tokens {
		sum += sentimentLexicon[tok]
	}
	return float64(sum) / math.Sqrt(float64(len(tokens)))
}
