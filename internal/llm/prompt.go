package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/qualcode/internal/model"
)

// SystemPrompt frames the model as a qualitative researcher
const SystemPrompt = `You are an expert qualitative researcher specializing in thematic analysis, grounded theory, and interpretative phenomenological analysis (IPA). Your task is to conduct a rigorous, systematic analysis of interview transcripts.

Your analysis should:
1. Identify major themes and subthemes that directly address the research question
2. Extract verbatim quotes that exemplify each theme with proper context
3. Provide prevalence information (how many respondents mentioned each theme)
4. Offer deep interpretations grounded in the data
5. Identify patterns, relationships, and insights
6. Follow established qualitative research standards (Braun & Clarke, Charmaz, Smith)

Be thorough, systematic, and academically rigorous. Ground all interpretations in the data.`

const instructions = `Please conduct a comprehensive thematic analysis of the following interview transcripts. For each theme you identify:
1. Provide a clear name and comprehensive description
2. Identify subthemes
3. Extract 2-4 representative verbatim quotes with respondent IDs
4. Note prevalence (how many/which respondents discussed this)
5. Explain the significance of the theme in relation to the research question

After identifying themes, provide:
- Key findings that answer the research question
- Patterns and relationships between themes
- Deep interpretations of what the data reveals
- Methodological notes about the analysis
- Recommendations for future research`

const responseSchema = `Please structure your response as a JSON object with the following format:
{
  "themes": [
    {
      "name": "Theme Name",
      "description": "Detailed description",
      "subthemes": ["Subtheme 1", "Subtheme 2"],
      "quotes": [
        {
          "text": "Exact verbatim quote",
          "respondentId": "Respondent X",
          "context": "Brief context explanation"
        }
      ],
      "prevalence": "X out of Y respondents mentioned this",
      "significance": "Why this theme matters for the research question"
    }
  ],
  "keyFindings": ["Finding 1", "Finding 2"],
  "patterns": [
    {
      "name": "Pattern name",
      "description": "Pattern description",
      "examples": ["Example 1", "Example 2"]
    }
  ],
  "interpretations": "Deep interpretation paragraph(s)",
  "recommendations": ["Recommendation 1", "Recommendation 2"],
  "methodologyNotes": "Notes about the analytical approach used"
}`

// groundingLimit caps how many heuristic codes and keywords are listed
const groundingLimit = 10

// FormatTranscripts labels each transcript "Respondent n" (1-based) and
// joins them with horizontal rules
func FormatTranscripts(transcripts []string) string {
	parts := make([]string, len(transcripts))
	for i, t := range transcripts {
		parts[i] = fmt.Sprintf("### Respondent %d\n%s", i+1, t)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// BuildPrompt returns the system and user prompts for one analysis
func BuildPrompt(transcripts []string, question string) (system, user string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Research Question: %s\n\n", question)
	b.WriteString(instructions)
	b.WriteString("\n\nInterview Transcripts:\n\n")
	b.WriteString(FormatTranscripts(transcripts))
	b.WriteString("\n\n")
	b.WriteString(responseSchema)
	return SystemPrompt, b.String()
}

// GroundingContext summarises a heuristic run so the model can check its
// themes against the automatic codes. Returns "" for a nil or empty result.
func GroundingContext(result *model.AnalysisResult) string {
	if result == nil || (len(result.Codes) == 0 && len(result.Keywords) == 0) {
		return ""
	}

	var b strings.Builder
	b.WriteString("Automatic coding of the same transcripts produced the following signals. Use them as hints only and ground every theme in the transcripts themselves.\n")

	if len(result.Codes) > 0 {
		b.WriteString("\nFrequent codes:\n")
		for i, c := range result.Codes {
			if i == groundingLimit {
				break
			}
			fmt.Fprintf(&b, "- %s (%d)\n", c.Code, c.Frequency)
		}
	}
	if len(result.Keywords) > 0 {
		terms := make([]string, 0, groundingLimit)
		for i, k := range result.Keywords {
			if i == groundingLimit {
				break
			}
			terms = append(terms, k.Term)
		}
		fmt.Fprintf(&b, "\nTop keywords: %s\n", strings.Join(terms, ", "))
	}
	fmt.Fprintf(&b, "\nAverage sentiment: %.2f\n", result.AverageSentiment())
	return b.String()
}
