package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/qualcode/internal/model"
)

const (
	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// SentimentLabel classifies a score as positive, negative or mixed
func SentimentLabel(score float64) string {
	switch {
	case score > positiveThreshold:
		return "positive"
	case score < negativeThreshold:
		return "negative"
	default:
		return "mixed"
	}
}

// themeDocuments returns the documents mentioning any of the theme's terms
func themeDocuments(theme model.Theme, docs []model.Document) []model.Document {
	terms := lowerAll(theme.Terms)
	var out []model.Document
	for _, d := range docs {
		if containsAny(strings.ToLower(d.Text), terms) {
			out = append(out, d)
		}
	}
	return out
}

// relevantCodes returns codes whose label contains a theme term, in code order
func relevantCodes(theme model.Theme, codes []model.Code) []model.Code {
	terms := lowerAll(theme.Terms)
	var out []model.Code
	for _, c := range codes {
		if containsAny(strings.ToLower(c.Code), terms) {
			out = append(out, c)
		}
	}
	return out
}

// Subthemes returns the three most frequent codes related to the theme
func Subthemes(theme model.Theme, codes []model.Code) []string {
	related := relevantCodes(theme, codes)
	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Frequency > related[j].Frequency
	})
	related = related[:min(len(related), 3)]

	out := make([]string, len(related))
	for i, c := range related {
		out[i] = c.Code
	}
	return out
}

func themeDescription(theme model.Theme, result *model.AnalysisResult) string {
	docs := themeDocuments(theme, result.Documents)
	codes := relevantCodes(theme, result.Codes)

	var codeNames []string
	for _, c := range codes[:min(len(codes), 3)] {
		codeNames = append(codeNames, c.Code)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The theme of %s emerged across %d participant(s). ", theme.Theme, len(docs))
	fmt.Fprintf(&b, "This theme encompasses concepts related to %s. ", strings.Join(firstN(theme.Terms, 5), ", "))
	if len(codeNames) > 0 {
		fmt.Fprintf(&b, "Associated codes include: %s. ", strings.Join(codeNames, ", "))
	}
	b.WriteString("Participants' narratives reveal various dimensions of this theme, as illustrated in the verbatim quotes below.")
	return b.String()
}

// themeSentiment averages document sentiment over the documents mentioning the theme
func themeSentiment(theme model.Theme, result *model.AnalysisResult) float64 {
	docs := themeDocuments(theme, result.Documents)
	if len(docs) == 0 {
		return 0
	}
	ids := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		ids[d.ID] = struct{}{}
	}
	sum := 0.0
	for _, s := range result.Sentiment {
		if _, ok := ids[s.DocumentID]; ok {
			sum += s.Score
		}
	}
	return sum / float64(len(docs))
}

func themeInterpretation(theme model.Theme, quotes []Quote, result *model.AnalysisResult) string {
	var context string
	switch SentimentLabel(themeSentiment(theme, result)) {
	case "positive":
		context = "participants expressed positive associations with"
	case "negative":
		context = "participants expressed negative associations with"
	default:
		context = "participants expressed mixed experiences regarding"
	}

	respondents := make(map[string]struct{})
	for _, q := range quotes {
		respondents[q.DocumentID] = struct{}{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The analysis reveals that %s %s. ", context, theme.Theme)
	fmt.Fprintf(&b, "These experiences were articulated by %d respondent(s) in this sample. ", len(respondents))
	fmt.Fprintf(&b, "The verbatim statements demonstrate how %s manifests in participants' lived experiences. ", theme.Theme)
	fmt.Fprintf(&b, "These findings suggest that %s represents a significant dimension of the phenomenon under investigation. ", theme.Theme)
	fmt.Fprintf(&b, "The recurrent mention of related terms (e.g., %s) across multiple transcripts indicates this theme's salience. ", strings.Join(firstN(theme.Terms, 3), ", "))
	fmt.Fprintf(&b, "Further analysis may benefit from exploring how %s interacts with other emergent themes and contextual factors.", theme.Theme)
	return b.String()
}

func abstractSummary(result *model.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This thematic analysis (n=%d) identified several key themes: %s. ",
		len(result.Documents), strings.Join(themeNames(result.Themes, 3), ", "))
	fmt.Fprintf(&b, "Prominent conceptual terms emerging from the data include %s. ",
		strings.Join(keywordTerms(result.Keywords, 5), ", "))

	label := SentimentLabel(result.AverageSentiment())
	if label != "mixed" {
		label = "overall " + label
	}
	fmt.Fprintf(&b, "The overall sentiment analysis indicates %s experiences across the sample. ", label)
	b.WriteString("The following sections provide detailed thematic analysis with descriptive summaries, " +
		"representative verbatim quotes, and interpretive discussion for each identified theme.")
	return b.String()
}

func firstN(list []string, n int) []string {
	return list[:min(len(list), n)]
}

func themeNames(themes []model.Theme, n int) []string {
	var out []string
	for _, t := range themes[:min(len(themes), n)] {
		out = append(out, t.Theme)
	}
	return out
}

func keywordTerms(keywords []model.KeywordScore, n int) []string {
	var out []string
	for _, k := range keywords[:min(len(keywords), n)] {
		out = append(out, k.Term)
	}
	return out
}
