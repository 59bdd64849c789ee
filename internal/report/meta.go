package report

import "strings"

const (
	DefaultTitle   = "Qualitative Analysis Report"
	DefaultAITitle = "AI-Powered Qualitative Analysis Report"
	DefaultAuthor  = "Research Team"

	DefaultMethodology = "Automated heuristic analysis approximating NVivo-style workflows " +
		"(TF-IDF keyword extraction, phrase-based auto-coding, code co-occurrence, " +
		"lexicon-based sentiment, naive theme grouping)."
)

// Meta is the user-supplied front matter of a report. Blank fields are
// omitted or replaced by defaults.
type Meta struct {
	Title                   string `json:"title,omitempty" yaml:"title"`
	Author                  string `json:"author,omitempty" yaml:"author"`
	Methodology             string `json:"methodology,omitempty" yaml:"methodology"`
	MethodologyVariations   string `json:"methodologyVariations,omitempty" yaml:"methodology_variations"`
	ParticipantDemographics string `json:"participantDemographics,omitempty" yaml:"participant_demographics"`
	AdditionalNotes         string `json:"additionalNotes,omitempty" yaml:"additional_notes"`
	Institution             string `json:"institution,omitempty" yaml:"institution"`
	CorrespondingAuthor     string `json:"correspondingAuthor,omitempty" yaml:"corresponding_author"`
	Email                   string `json:"email,omitempty" yaml:"email"`
	ResearchQuestion        string `json:"researchQuestion,omitempty" yaml:"research_question"`
}

// normalized trims every field and fills in the title and author
func (m Meta) normalized(defaultTitle string) Meta {
	out := Meta{
		Title:                   strings.TrimSpace(m.Title),
		Author:                  strings.TrimSpace(m.Author),
		Methodology:             strings.TrimSpace(m.Methodology),
		MethodologyVariations:   strings.TrimSpace(m.MethodologyVariations),
		ParticipantDemographics: strings.TrimSpace(m.ParticipantDemographics),
		AdditionalNotes:         strings.TrimSpace(m.AdditionalNotes),
		Institution:             strings.TrimSpace(m.Institution),
		CorrespondingAuthor:     strings.TrimSpace(m.CorrespondingAuthor),
		Email:                   strings.TrimSpace(m.Email),
		ResearchQuestion:        strings.TrimSpace(m.ResearchQuestion),
	}
	if out.Title == "" {
		out.Title = defaultTitle
	}
	if out.Author == "" {
		out.Author = DefaultAuthor
	}
	return out
}
