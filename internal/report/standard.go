package report

import (
	"fmt"
	"strings"
)

// standardTemplate is the working report: summary first, tables last
type standardTemplate struct{}

func (standardTemplate) Render(d *reportData) string {
	r := d.Result
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", d.Meta.Title)
	fmt.Fprintf(&b, "**Author**: %s\\\n", d.Meta.Author)
	fmt.Fprintf(&b, "**Date**: %s\\\n", d.Date)
	fmt.Fprintf(&b, "**Corpus size**: %d documents\n\n", len(r.Documents))

	b.WriteString("## Executive summary\n\n")
	fmt.Fprintf(&b, "- Average sentiment: %.2f (lexicon-based scale)\n", d.AvgSentiment)
	fmt.Fprintf(&b, "- Top themes suggest focus around: %s\n", orNone(strings.Join(themeNames(r.Themes, summaryThemes), ", ")))
	b.WriteString("- Most frequent codes indicate salient concepts; see table below.\n\n")

	b.WriteString("## Abstract\n\n")
	b.WriteString(d.Abstract + "\n\n")

	b.WriteString("## THEMATIC ANALYSIS\n\n")
	for i, s := range d.Themes {
		fmt.Fprintf(&b, "### Theme %d: %s\n\n", i+1, s.Theme.Theme)
		b.WriteString(s.Description + "\n\n")
		if len(s.Subthemes) > 0 {
			fmt.Fprintf(&b, "**Subthemes:** %s\n\n", strings.Join(s.Subthemes, ", "))
		}
		if len(s.Quotes) > 0 {
			b.WriteString("**Respondent Quotes:**\n\n")
			for _, q := range s.Quotes {
				fmt.Fprintf(&b, "%s: \"%s\"\n\n", q.Respondent(), q.Text)
			}
		}
		fmt.Fprintf(&b, "**Interpretation:**\n\n%s\n\n", s.Interpretation)
		b.WriteString("---\n\n")
	}

	b.WriteString("## Methodology\n\n")
	b.WriteString(d.Methodology + "\n\n")
	if d.Meta.MethodologyVariations != "" {
		fmt.Fprintf(&b, "## Methodology variations\n\n%s\n\n", d.Meta.MethodologyVariations)
	}

	b.WriteString("## Dataset description\n\n")
	fmt.Fprintf(&b, "- Number of documents: %d\n", len(r.Documents))
	fmt.Fprintf(&b, "- Average document length: %d characters\n", d.AvgLength)
	fmt.Fprintf(&b, "- Total corpus size: %d characters\n\n", d.TotalChars)

	if d.Meta.ParticipantDemographics != "" {
		fmt.Fprintf(&b, "## Participant demographics\n\n%s\n\n", d.Meta.ParticipantDemographics)
	}

	b.WriteString("## Summary of themes\n\n")
	fmt.Fprintf(&b, "The following %d themes were identified through the analysis:\n\n", len(d.Themes))
	for i, s := range d.Themes {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, s.Theme.Theme, strings.Join(firstN(s.Theme.Terms, themeTermsListed), ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Code frequency table\n\n")
	b.WriteString(codeTable(d))
	b.WriteString("\n")

	b.WriteString("## Keyword list (top)\n\n")
	b.WriteString(orNone(keywordList(d)) + "\n\n")

	b.WriteString("## Code co-occurrence (top pairs)\n\n")
	b.WriteString(pairList(d) + "\n\n")

	b.WriteString("## Sentiment (per document)\n\n")
	for _, s := range r.Sentiment {
		fmt.Fprintf(&b, "- %s: %.2f\n", s.DocumentID, s.Score)
	}
	b.WriteString("\n")

	if d.Meta.AdditionalNotes != "" {
		fmt.Fprintf(&b, "## Additional notes\n\n%s\n\n", d.Meta.AdditionalNotes)
	}

	b.WriteString("## Limitations\n\n")
	b.WriteString(heuristicLimitations)
	return b.String()
}

const heuristicLimitations = "This is an automated, heuristic analysis intended to accelerate initial synthesis. " +
	"Manual coding, inter-rater reliability checks, and triangulation with additional data sources " +
	"are recommended for publication-grade studies."

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func codeTable(d *reportData) string {
	var b strings.Builder
	b.WriteString("| Code | Frequency |\n|---|---|\n")
	codes := d.Result.Codes[:min(len(d.Result.Codes), reportCodes)]
	if len(codes) == 0 {
		b.WriteString("| (none) | 0 |\n")
	}
	for _, c := range codes {
		fmt.Fprintf(&b, "| %s | %d |\n", c.Code, c.Frequency)
	}
	return b.String()
}

func keywordList(d *reportData) string {
	var lines []string
	for _, term := range keywordTerms(d.Result.Keywords, reportKeywords) {
		lines = append(lines, "- "+term)
	}
	return strings.Join(lines, "\n")
}

func pairList(d *reportData) string {
	if len(d.TopPairs) == 0 {
		return "(no co-occurrence detected)"
	}
	lines := make([]string, len(d.TopPairs))
	for i, p := range d.TopPairs {
		lines[i] = fmt.Sprintf("- %s × %s: %d", p.A, p.B, p.Count)
	}
	return strings.Join(lines, "\n")
}
