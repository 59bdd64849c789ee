package model

// Document is one transcript in an analysed corpus
type Document struct {
	ID   string `json:"id"`   // doc_<n>, 1-based in corpus order
	Text string `json:"text"` // Trimmed transcript text
}

// KeywordScore is the corpus-global TF-IDF relevance of a single term
type KeywordScore struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Code is an auto-generated qualitative code with supporting excerpts
type Code struct {
	Code      string   `json:"code"`      // 2-3 word phrase, or a single keyword in fallback mode
	Frequency int      `json:"frequency"` // Occurrence count (phrase) or rounded keyword score (fallback)
	Examples  []string `json:"examples"`  // Excerpts, unique under case-insensitive comparison
}

// CooccurrencePair counts documents in which both codes appear.
// A is always lexicographically smaller than B.
type CooccurrencePair struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}

// SentimentEntry holds the lexicon sentiment of one document
type SentimentEntry struct {
	DocumentID string  `json:"documentId"`
	Score      float64 `json:"score"`
}

// Theme groups keyword surface forms that share a naive stem
type Theme struct {
	Theme string   `json:"theme"` // Capitalized stem root
	Terms []string `json:"terms"` // Ordered by descending keyword score
}

// AnalysisResult is the complete output of one heuristic corpus analysis.
// Downstream formatters treat it as read-only.
type AnalysisResult struct {
	Documents    []Document         `json:"documents"`
	Keywords     []KeywordScore     `json:"keywords"`
	Codes        []Code             `json:"codes"`
	Cooccurrence []CooccurrencePair `json:"cooccurrence"`
	Sentiment    []SentimentEntry   `json:"sentiment"`
	Themes       []Theme            `json:"themes"`
}

// CodeLabels returns the code strings in result order
func (r *AnalysisResult) CodeLabels() []string {
	labels := make([]string, len(r.Codes))
	for i, c := range r.Codes {
		labels[i] = c.Code
	}
	return labels
}

// AverageSentiment returns the mean document sentiment (0 for an empty corpus)
func (r *AnalysisResult) AverageSentiment() float64 {
	if len(r.Sentiment) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range r.Sentiment {
		sum += s.Score
	}
	return sum / float64(len(r.Sentiment))
}

// TotalChars returns the summed character length of all documents
func (r *AnalysisResult) TotalChars() int {
	total := 0
	for _, d := range r.Documents {
		total += len([]rune(d.Text))
	}
	return total
}
