package report

import (
	"fmt"
	"strings"
)

// publicationTemplate lays the results out as a journal-style paper with
// numbered sections, references and appendices
type publicationTemplate struct{}

func (publicationTemplate) Render(d *reportData) string {
	r := d.Result
	m := d.Meta
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", m.Title)
	fmt.Fprintf(&b, "**%s**", m.Author)
	if m.Institution != "" {
		fmt.Fprintf(&b, "\\\n*%s*", m.Institution)
	}
	b.WriteString("\n\n")
	if m.CorrespondingAuthor != "" || m.Email != "" {
		contact := m.CorrespondingAuthor
		if contact == "" {
			contact = m.Author
		}
		if m.Email != "" {
			contact += " (" + m.Email + ")"
		}
		fmt.Fprintf(&b, "**Corresponding author**: %s\\\n", contact)
	}
	fmt.Fprintf(&b, "**Date**: %s\n\n", d.Date)

	b.WriteString("## Abstract\n\n")
	b.WriteString(d.Abstract + "\n\n")
	fmt.Fprintf(&b, "**Keywords**: %s\n\n", orNone(strings.Join(keywordTerms(r.Keywords, publicationTerms), ", ")))

	b.WriteString("## 1. Introduction\n\n")
	fmt.Fprintf(&b, "This paper reports a thematic analysis of %d interview transcript(s). ", len(r.Documents))
	if m.ResearchQuestion != "" {
		fmt.Fprintf(&b, "The analysis was guided by the research question: \"%s\". ", m.ResearchQuestion)
	}
	b.WriteString("The aim is to surface recurring concepts, coded phrases and affective tone across participants, " +
		"and to ground each theme in verbatim respondent statements.\n\n")

	b.WriteString("## 2. Methods\n\n")
	b.WriteString("### 2.1 Design\n\n")
	b.WriteString(d.Methodology + "\n\n")
	if m.MethodologyVariations != "" {
		b.WriteString(m.MethodologyVariations + "\n\n")
	}
	b.WriteString("### 2.2 Participants\n\n")
	if m.ParticipantDemographics != "" {
		b.WriteString(m.ParticipantDemographics + "\n\n")
	} else {
		fmt.Fprintf(&b, "Transcripts from %d participant(s) were analysed. Demographic details were not reported.\n\n", len(r.Documents))
	}
	b.WriteString("### 2.3 Analysis procedure\n\n")
	b.WriteString("Each transcript was tokenized, case-folded and filtered against an English stopword list. " +
		"Keywords were ranked by a TF-IDF weighting (Salton & Buckley, 1988). " +
		"Recurring two- and three-word phrases were promoted to codes with supporting excerpts, " +
		"falling back to top keywords when few phrases recurred. " +
		"Code co-occurrence was counted per document, sentiment was scored with a static polarity lexicon (Nielsen, 2011), " +
		"and keywords sharing a suffix-stripped root were grouped into themes (Braun & Clarke, 2006).\n\n")
	fmt.Fprintf(&b, "The corpus comprised %d documents totalling %d characters (mean %d characters per document).\n\n",
		len(r.Documents), d.TotalChars, d.AvgLength)

	b.WriteString("## 3. Results\n\n")
	b.WriteString("### 3.1 Themes\n\n")
	if len(d.Themes) == 0 {
		b.WriteString("No themes met the grouping threshold.\n\n")
	}
	for i, s := range d.Themes {
		fmt.Fprintf(&b, "#### 3.1.%d %s\n\n", i+1, s.Theme.Theme)
		b.WriteString(s.Description + "\n\n")
		if len(s.Subthemes) > 0 {
			fmt.Fprintf(&b, "*Subthemes*: %s\n\n", strings.Join(s.Subthemes, ", "))
		}
		for _, q := range s.Quotes {
			fmt.Fprintf(&b, "> \"%s\" (%s)\n\n", q.Text, q.Respondent())
		}
	}
	b.WriteString("### 3.2 Code frequencies\n\n")
	fmt.Fprintf(&b, "Table 1. Most frequent codes.\n\n%s\n", codeTable(d))
	b.WriteString("### 3.3 Code co-occurrence\n\n")
	b.WriteString(pairList(d) + "\n\n")
	b.WriteString("### 3.4 Sentiment\n\n")
	fmt.Fprintf(&b, "Mean document sentiment was %.2f (%s).\n\n", d.AvgSentiment, SentimentLabel(d.AvgSentiment))
	b.WriteString("| Respondent | Score | Tone |\n|---|---|---|\n")
	for _, s := range r.Sentiment {
		fmt.Fprintf(&b, "| %s | %.2f | %s |\n", RespondentLabel(s.DocumentID), s.Score, SentimentLabel(s.Score))
	}
	b.WriteString("\n")

	b.WriteString("## 4. Discussion\n\n")
	for _, s := range d.Themes {
		b.WriteString(s.Interpretation + "\n\n")
	}
	b.WriteString("### 4.1 Limitations\n\n")
	b.WriteString(heuristicLimitations + " Stemming is a fixed suffix strip and sentiment a static lexicon; " +
		"neither captures negation, irony or context.\n\n")
	if m.AdditionalNotes != "" {
		fmt.Fprintf(&b, "### 4.2 Additional notes\n\n%s\n\n", m.AdditionalNotes)
	}

	b.WriteString("## 5. Conclusions\n\n")
	fmt.Fprintf(&b, "The analysis identified %d theme(s)", len(r.Themes))
	if names := themeNames(r.Themes, summaryThemes); len(names) > 0 {
		fmt.Fprintf(&b, ", led by %s", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, ". Overall tone across the sample was %s. ", SentimentLabel(d.AvgSentiment))
	b.WriteString("These heuristic findings are a starting point for interpretive coding rather than a substitute for it.\n\n")

	b.WriteString("## References\n\n")
	b.WriteString(heuristicReferences)

	b.WriteString("## Appendix A: Code book\n\n")
	if len(r.Codes) == 0 {
		b.WriteString("(none)\n\n")
	}
	for _, c := range r.Codes {
		fmt.Fprintf(&b, "**%s** (frequency %d)\n\n", c.Code, c.Frequency)
		for _, ex := range c.Examples[:min(len(c.Examples), codebookExamples)] {
			fmt.Fprintf(&b, "- \"%s\"\n", ex)
		}
		if len(c.Examples) > 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString("## Appendix B: Keyword list\n\n")
	b.WriteString("| Term | Score |\n|---|---|\n")
	for _, k := range r.Keywords[:min(len(r.Keywords), reportKeywords)] {
		fmt.Fprintf(&b, "| %s | %.2f |\n", k.Term, k.Score)
	}
	return b.String()
}

const heuristicReferences = "Braun, V., & Clarke, V. (2006). Using thematic analysis in psychology. " +
	"*Qualitative Research in Psychology*, 3(2), 77-101.\n\n" +
	"Nielsen, F. Å. (2011). A new ANEW: Evaluation of a word list for sentiment analysis in microblogs. " +
	"*Proceedings of the ESWC2011 Workshop on Making Sense of Microposts*, 93-98.\n\n" +
	"Salton, G., & Buckley, C. (1988). Term-weighting approaches in automatic text retrieval. " +
	"*Information Processing & Management*, 24(5), 513-523.\n\n"
