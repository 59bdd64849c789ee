// Package report renders analysis results as Markdown research reports.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/ppiankov/qualcode/internal/model"
)

const (
	reportThemes     = 8
	reportCodes      = 12
	reportKeywords   = 25
	reportPairs      = 15
	summaryThemes    = 3
	publicationTerms = 6
	codebookExamples = 3
	themeTermsListed = 6
	dateLayout       = "2006-01-02"
)

// template renders one report layout from the prepared data
type template interface {
	Render(d *reportData) string
}

// Builder renders heuristic analysis results. Publication switches from the
// standard report to the fuller paper layout.
type Builder struct {
	Publication bool
	Now         func() time.Time
}

// NewBuilder creates a builder using the wall clock
func NewBuilder(publication bool) *Builder {
	return &Builder{Publication: publication, Now: time.Now}
}

func (b *Builder) date() string {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	return now().UTC().Format(dateLayout)
}

func (b *Builder) template() template {
	if b.Publication {
		return publicationTemplate{}
	}
	return standardTemplate{}
}

// Build renders the Markdown report for result
func (b *Builder) Build(meta Meta, result *model.AnalysisResult) string {
	return b.template().Render(newReportData(meta, result, b.date()))
}

// themeSection is one rendered theme with its derived narrative
type themeSection struct {
	Theme          model.Theme
	Description    string
	Subthemes      []string
	Quotes         []Quote
	Interpretation string
}

// reportData holds everything both layouts draw from
type reportData struct {
	Meta         Meta
	Methodology  string
	Result       *model.AnalysisResult
	Date         string
	Themes       []themeSection
	Abstract     string
	AvgSentiment float64
	AvgLength    int
	TotalChars   int
	TopPairs     []model.CooccurrencePair
}

func newReportData(meta Meta, result *model.AnalysisResult, date string) *reportData {
	meta = meta.normalized(DefaultTitle)
	methodology := meta.Methodology
	if methodology == "" {
		methodology = DefaultMethodology
	}

	top := result.Themes[:min(len(result.Themes), reportThemes)]
	quotes := ThemeQuotes(result, top, quotesPerTheme)
	sections := make([]themeSection, len(top))
	for i, theme := range top {
		sections[i] = themeSection{
			Theme:          theme,
			Description:    themeDescription(theme, result),
			Subthemes:      Subthemes(theme, result.Codes),
			Quotes:         quotes[i],
			Interpretation: themeInterpretation(theme, quotes[i], result),
		}
	}

	total := result.TotalChars()
	return &reportData{
		Meta:         meta,
		Methodology:  methodology,
		Result:       result,
		Date:         date,
		Themes:       sections,
		Abstract:     abstractSummary(result),
		AvgSentiment: result.AverageSentiment(),
		AvgLength:    int(math.Round(float64(total) / float64(max(1, len(result.Documents))))),
		TotalChars:   total,
		TopPairs:     topPairs(result.Cooccurrence, reportPairs),
	}
}

// topPairs sorts a copy of the pairs by descending count
func topPairs(pairs []model.CooccurrencePair, n int) []model.CooccurrencePair {
	sorted := append([]model.CooccurrencePair(nil), pairs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted[:min(len(sorted), n)]
}
