package report

import (
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/qualcode/internal/analysis"
	"github.com/ppiankov/qualcode/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedBuilder(publication bool) *Builder {
	return &Builder{
		Publication: publication,
		Now: func() time.Time {
			return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
		},
	}
}

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		Documents: []model.Document{
			{ID: "doc_1", Text: "Billing was slow. Support fixed my billing problem quickly."},
			{ID: "doc_2", Text: "The support team was great. Bills arrived late."},
		},
		Keywords: []model.KeywordScore{
			{Term: "billing", Score: 6},
			{Term: "support", Score: 5.5},
			{Term: "bills", Score: 4},
		},
		Codes: []model.Code{
			{Code: "billing problem", Frequency: 2, Examples: []string{"Support fixed my billing problem quickly."}},
			{Code: "support team", Frequency: 3, Examples: []string{"The support team was great."}},
		},
		Cooccurrence: []model.CooccurrencePair{
			{A: "billing problem", B: "late bills", Count: 1},
			{A: "billing problem", B: "support team", Count: 2},
		},
		Sentiment: []model.SentimentEntry{
			{DocumentID: "doc_1", Score: 0.25},
			{DocumentID: "doc_2", Score: 0.75},
		},
		Themes: []model.Theme{
			{Theme: "Bill", Terms: []string{"billing", "bills"}},
			{Theme: "Support", Terms: []string{"support"}},
		},
	}
}

// assertInOrder checks that every marker appears, each after the previous one
func assertInOrder(t *testing.T, md string, markers ...string) {
	t.Helper()
	pos := 0
	for _, m := range markers {
		idx := strings.Index(md[pos:], m)
		if !assert.GreaterOrEqual(t, idx, 0, "missing or out of order: %q", m) {
			return
		}
		pos += idx + len(m)
	}
}

func TestBuild_StandardLayout(t *testing.T) {
	md := fixedBuilder(false).Build(Meta{}, sampleResult())

	assertInOrder(t, md,
		"# Qualitative Analysis Report",
		"**Author**: Research Team\\",
		"**Date**: 2026-03-01\\",
		"**Corpus size**: 2 documents",
		"## Executive summary",
		"- Average sentiment: 0.50 (lexicon-based scale)",
		"- Top themes suggest focus around: Bill, Support",
		"## Abstract",
		"## THEMATIC ANALYSIS",
		"### Theme 1: Bill",
		"**Subthemes:** billing problem",
		"**Respondent Quotes:**",
		"**Interpretation:**",
		"### Theme 2: Support",
		"## Methodology",
		DefaultMethodology,
		"## Dataset description",
		"## Summary of themes",
		"1. Bill: billing, bills",
		"## Code frequency table",
		"| support team | 3 |",
		"## Keyword list (top)",
		"- billing",
		"## Code co-occurrence (top pairs)",
		"## Sentiment (per document)",
		"- doc_1: 0.25",
		"## Limitations",
	)

	assert.NotContains(t, md, "## Methodology variations")
	assert.NotContains(t, md, "## Participant demographics")
	assert.NotContains(t, md, "## Additional notes")
}

func TestBuild_OptionalSections(t *testing.T) {
	meta := Meta{
		Title:                   "  Billing Study ",
		Author:                  "A. Researcher",
		Methodology:             "Semi-structured interviews.",
		MethodologyVariations:   "Two interviews were conducted by phone.",
		ParticipantDemographics: "Small business owners.",
		AdditionalNotes:         "Pilot round.",
	}
	md := fixedBuilder(false).Build(meta, sampleResult())

	assertInOrder(t, md,
		"# Billing Study\n",
		"**Author**: A. Researcher",
		"## Methodology\n\nSemi-structured interviews.",
		"## Methodology variations\n\nTwo interviews were conducted by phone.",
		"## Participant demographics\n\nSmall business owners.",
		"## Additional notes\n\nPilot round.",
	)
	assert.NotContains(t, md, DefaultMethodology)
}

func TestBuild_CooccurrenceSortedOnCopy(t *testing.T) {
	result := sampleResult()
	original := append([]model.CooccurrencePair(nil), result.Cooccurrence...)

	md := fixedBuilder(false).Build(Meta{}, result)

	assertInOrder(t, md,
		"- billing problem × support team: 2",
		"- billing problem × late bills: 1",
	)
	assert.Equal(t, original, result.Cooccurrence)
}

func TestBuild_EmptyCollections(t *testing.T) {
	result := &model.AnalysisResult{
		Documents:    []model.Document{{ID: "doc_1", Text: "ok"}},
		Keywords:     []model.KeywordScore{},
		Codes:        []model.Code{},
		Cooccurrence: []model.CooccurrencePair{},
		Sentiment:    []model.SentimentEntry{{DocumentID: "doc_1", Score: 0}},
		Themes:       []model.Theme{},
	}
	md := fixedBuilder(false).Build(Meta{}, result)

	assert.Contains(t, md, "| (none) | 0 |")
	assert.Contains(t, md, "(no co-occurrence detected)")
	assert.Contains(t, md, "## Keyword list (top)\n\n(none)")
	assert.Contains(t, md, "The following 0 themes were identified")
}

func TestBuild_PublicationLayout(t *testing.T) {
	meta := Meta{
		Author:              "A. Researcher",
		Institution:         "Example University",
		CorrespondingAuthor: "A. Researcher",
		Email:               "a@example.org",
		ResearchQuestion:    "How do customers experience billing?",
	}
	md := fixedBuilder(true).Build(meta, sampleResult())

	assertInOrder(t, md,
		"# Qualitative Analysis Report",
		"*Example University*",
		"**Corresponding author**: A. Researcher (a@example.org)",
		"**Date**: 2026-03-01",
		"## Abstract",
		"**Keywords**: billing, support, bills",
		"## 1. Introduction",
		"How do customers experience billing?",
		"## 2. Methods",
		"### 2.1 Design",
		"### 2.2 Participants",
		"### 2.3 Analysis procedure",
		"## 3. Results",
		"#### 3.1.1 Bill",
		"### 3.2 Code frequencies",
		"### 3.3 Code co-occurrence",
		"### 3.4 Sentiment",
		"| Respondent 1 | 0.25 | positive |",
		"## 4. Discussion",
		"### 4.1 Limitations",
		"## 5. Conclusions",
		"## References",
		"Braun, V., & Clarke, V. (2006)",
		"## Appendix A: Code book",
		"**support team** (frequency 3)",
		"## Appendix B: Keyword list",
		"| billing | 6.00 |",
	)
	assert.NotContains(t, md, "## Executive summary")
}

func TestBuild_FromAnalyzer(t *testing.T) {
	res := analysis.NewAnalyzer(analysis.DefaultOptions()).Analyze([]string{
		"I loved the onboarding but struggled with billing.",
		"Billing was confusing; support helped, though onboarding was smooth.",
	})

	md := fixedBuilder(false).Build(Meta{}, res)
	assert.Contains(t, md, "- billing × onboarding: 2")
	assert.Contains(t, md, "- doc_1: 0.50")
	assert.Contains(t, md, "| onboarding | 2 |")
}

func TestBuilder_DefaultClock(t *testing.T) {
	b := &Builder{}
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), b.date())
}

func TestSubthemes(t *testing.T) {
	codes := []model.Code{
		{Code: "billing page", Frequency: 2},
		{Code: "support team", Frequency: 5},
		{Code: "billing issue", Frequency: 4},
		{Code: "bill pay", Frequency: 1},
		{Code: "billing cycle", Frequency: 3},
	}
	theme := model.Theme{Theme: "Bill", Terms: []string{"billing", "bill"}}

	assert.Equal(t, []string{"billing issue", "billing cycle", "billing page"}, Subthemes(theme, codes))
	assert.Empty(t, Subthemes(model.Theme{Terms: []string{"refund"}}, codes))
}

func TestSentimentLabel(t *testing.T) {
	assert.Equal(t, "positive", SentimentLabel(0.21))
	assert.Equal(t, "mixed", SentimentLabel(0.2))
	assert.Equal(t, "mixed", SentimentLabel(-0.2))
	assert.Equal(t, "negative", SentimentLabel(-0.21))
}

func TestThemeInterpretation_SentimentContext(t *testing.T) {
	result := sampleResult()
	text := themeInterpretation(result.Themes[1], nil, result)
	assert.Contains(t, text, "participants expressed positive associations with Support")
	assert.Contains(t, text, "articulated by 0 respondent(s)")

	result.Sentiment[0].Score = -1
	result.Sentiment[1].Score = -1
	text = themeInterpretation(result.Themes[1], nil, result)
	assert.Contains(t, text, "negative associations with Support")
}

func TestThemeDescription(t *testing.T) {
	result := sampleResult()
	desc := themeDescription(result.Themes[0], result)
	assert.Contains(t, desc, "The theme of Bill emerged across 2 participant(s).")
	assert.Contains(t, desc, "concepts related to billing, bills.")
	assert.Contains(t, desc, "Associated codes include: billing problem.")
	require.True(t, strings.HasSuffix(desc, "verbatim quotes below."))
}
