package llm

import (
	"strings"
	"testing"

	"github.com/ppiankov/qualcode/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatTranscripts(t *testing.T) {
	got := FormatTranscripts([]string{"first answer", "second answer"})
	assert.Equal(t, "### Respondent 1\nfirst answer\n\n---\n\n### Respondent 2\nsecond answer", got)
	assert.Equal(t, "", FormatTranscripts(nil))
}

func TestBuildPrompt(t *testing.T) {
	system, user := BuildPrompt([]string{"a", "b"}, "How do teams plan?")

	assert.Equal(t, SystemPrompt, system)
	assert.True(t, strings.HasPrefix(user, "Research Question: How do teams plan?\n\n"))
	assert.Contains(t, user, "Interview Transcripts:\n\n### Respondent 1\na")

	// Schema follows the transcripts and names every field of the analysis
	schemaAt := strings.Index(user, "Please structure your response as a JSON object")
	assert.Greater(t, schemaAt, strings.Index(user, "### Respondent 2"))
	for _, field := range []string{`"themes"`, `"respondentId"`, `"keyFindings"`, `"patterns"`, `"interpretations"`, `"recommendations"`, `"methodologyNotes"`} {
		assert.Contains(t, user[schemaAt:], field)
	}
}

func TestGroundingContext(t *testing.T) {
	assert.Equal(t, "", GroundingContext(nil))
	assert.Equal(t, "", GroundingContext(&model.AnalysisResult{}))

	result := &model.AnalysisResult{
		Sentiment: []model.SentimentEntry{{DocumentID: "doc_1", Score: 0.5}, {DocumentID: "doc_2", Score: -0.1}},
	}
	for i := 0; i < 12; i++ {
		term := string(rune('a' + i))
		result.Keywords = append(result.Keywords, model.KeywordScore{Term: term, Score: float64(12 - i)})
		result.Codes = append(result.Codes, model.Code{Code: term + " code", Frequency: 12 - i})
	}

	got := GroundingContext(result)
	assert.Contains(t, got, "- a code (12)\n")
	assert.Contains(t, got, "- j code (3)\n")
	assert.NotContains(t, got, "k code")
	assert.Contains(t, got, "Top keywords: a, b, c, d, e, f, g, h, i, j\n")
	assert.Contains(t, got, "Average sentiment: 0.20")
}
