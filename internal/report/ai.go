package report

import (
	"fmt"
	"strings"

	"github.com/ppiankov/qualcode/internal/model"
)

const defaultAIMethodology = "This analysis employed AI-assisted thematic analysis following established " +
	"qualitative research principles (Braun & Clarke, 2006). Transcripts were systematically analyzed to " +
	"identify patterns, themes, and insights relevant to the research question. The analysis process " +
	"involved iterative coding, theme development, and interpretation grounded in the data."

const aiReferences = "Braun, V., & Clarke, V. (2006). Using thematic analysis in psychology. " +
	"*Qualitative Research in Psychology*, 3(2), 77-101.\n\n" +
	"Charmaz, K. (2006). *Constructing grounded theory: A practical guide through qualitative analysis*. Sage.\n\n" +
	"Smith, J. A., Flowers, P., & Larkin, M. (2009). *Interpretative phenomenological analysis: " +
	"Theory, method and research*. Sage.\n\n"

func plural(n int, word string) string {
	if n > 1 {
		return word + "s"
	}
	return word
}

// RenderAI renders the report for a model-produced analysis. The research
// question is taken from meta.
func (b *Builder) RenderAI(meta Meta, analysis *model.AIAnalysis, transcriptCount int) string {
	m := meta.normalized(DefaultAITitle)
	var s strings.Builder

	fmt.Fprintf(&s, "# %s\n\n", m.Title)
	fmt.Fprintf(&s, "**Author**: %s\n", m.Author)
	if m.Institution != "" {
		fmt.Fprintf(&s, "**Institution**: %s\n", m.Institution)
	}
	fmt.Fprintf(&s, "**Date**: %s\n", b.date())
	fmt.Fprintf(&s, "**Number of Transcripts**: %d\n\n", transcriptCount)
	s.WriteString("---\n\n")

	s.WriteString("## Abstract\n\n")
	fmt.Fprintf(&s, "This qualitative study examined %d interview %s using AI-assisted thematic analysis to explore the research question: \"%s\". ",
		transcriptCount, plural(transcriptCount, "transcript"), m.ResearchQuestion)
	fmt.Fprintf(&s, "Analysis identified %d major %s with associated subthemes. ",
		len(analysis.Themes), plural(len(analysis.Themes), "theme"))
	fmt.Fprintf(&s, "Key findings reveal important insights about %s. ", strings.ToLower(m.ResearchQuestion))
	s.WriteString("This report presents comprehensive thematic analysis with verbatim quotes, interpretations, and recommendations for future research.\n\n")

	s.WriteString("## Research Question\n\n")
	fmt.Fprintf(&s, "**%s**\n\n", m.ResearchQuestion)

	if m.ParticipantDemographics != "" {
		fmt.Fprintf(&s, "## Participant Information\n\n%s\n\n", m.ParticipantDemographics)
	}

	s.WriteString("## Methodology\n\n")
	if m.Methodology != "" {
		s.WriteString(m.Methodology + "\n\n")
	} else {
		s.WriteString(defaultAIMethodology + "\n\n")
	}
	if analysis.MethodologyNotes != "" {
		fmt.Fprintf(&s, "**Analytical Notes**: %s\n\n", analysis.MethodologyNotes)
	}

	s.WriteString("## Key Findings\n\n")
	for i, f := range analysis.KeyFindings {
		fmt.Fprintf(&s, "%d. %s\n", i+1, f)
	}
	s.WriteString("\n")

	s.WriteString("## Thematic Analysis\n\n")
	s.WriteString("The following themes emerged from systematic analysis of the interview transcripts:\n\n")
	for i, t := range analysis.Themes {
		fmt.Fprintf(&s, "### Theme %d: %s\n\n", i+1, t.Name)
		fmt.Fprintf(&s, "**Description**: %s\n\n", t.Description)
		if len(t.Subthemes) > 0 {
			s.WriteString("**Subthemes**:\n")
			for _, sub := range t.Subthemes {
				fmt.Fprintf(&s, "- %s\n", sub)
			}
			s.WriteString("\n")
		}
		fmt.Fprintf(&s, "**Prevalence**: %s\n\n", t.Prevalence)
		fmt.Fprintf(&s, "**Significance**: %s\n\n", t.Significance)
		if len(t.Quotes) > 0 {
			s.WriteString("**Representative Quotes**:\n\n")
			for _, q := range t.Quotes {
				fmt.Fprintf(&s, "> *%s*: \"%s\"\n", q.RespondentID, q.Text)
				if q.Context != "" {
					fmt.Fprintf(&s, ">\n> *Context*: %s\n", q.Context)
				}
				s.WriteString("\n")
			}
		}
		s.WriteString("---\n\n")
	}

	if len(analysis.Patterns) > 0 {
		s.WriteString("## Patterns and Relationships\n\n")
		for i, p := range analysis.Patterns {
			fmt.Fprintf(&s, "### %d. %s\n\n", i+1, p.Name)
			s.WriteString(p.Description + "\n\n")
			if len(p.Examples) > 0 {
				s.WriteString("**Examples**:\n")
				for _, ex := range p.Examples {
					fmt.Fprintf(&s, "- %s\n", ex)
				}
				s.WriteString("\n")
			}
		}
	}

	s.WriteString("## Interpretations and Discussion\n\n")
	s.WriteString(analysis.Interpretations + "\n\n")

	if len(analysis.Recommendations) > 0 {
		s.WriteString("## Recommendations\n\n")
		for i, rec := range analysis.Recommendations {
			fmt.Fprintf(&s, "%d. %s\n", i+1, rec)
		}
		s.WriteString("\n")
	}

	if m.AdditionalNotes != "" {
		fmt.Fprintf(&s, "## Additional Notes\n\n%s\n\n", m.AdditionalNotes)
	}

	s.WriteString("## Limitations\n\n")
	s.WriteString("This analysis should be interpreted within the following limitations:\n\n")
	fmt.Fprintf(&s, "1. **Sample Size**: Analysis is based on %d %s, which may limit generalizability.\n",
		transcriptCount, plural(transcriptCount, "transcript"))
	s.WriteString("2. **AI-Assisted Analysis**: While AI tools can enhance systematic analysis, human researcher judgment and reflexivity remain essential for interpretation.\n")
	s.WriteString("3. **Context**: Findings should be considered within the specific context of the study participants and research setting.\n")
	s.WriteString("4. **Validation**: Future research should validate these findings with additional data sources and populations.\n\n")

	s.WriteString("## References\n\n")
	s.WriteString(aiReferences)
	return s.String()
}
