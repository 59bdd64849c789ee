package model

// AIAnalysis is the structured result returned by the hosted model.
// Field names follow the JSON schema requested in the prompt.
type AIAnalysis struct {
	Themes           []AITheme   `json:"themes"`
	KeyFindings      []string    `json:"keyFindings"`
	Patterns         []AIPattern `json:"patterns"`
	Interpretations  string      `json:"interpretations"`
	Recommendations  []string    `json:"recommendations"`
	MethodologyNotes string      `json:"methodologyNotes"`
}

// AITheme is a model-identified theme with supporting quotes
type AITheme struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Subthemes    []string  `json:"subthemes"`
	Quotes       []AIQuote `json:"quotes"`
	Prevalence   string    `json:"prevalence"`
	Significance string    `json:"significance"`
}

// AIQuote is a verbatim excerpt attributed to a respondent
type AIQuote struct {
	Text         string `json:"text"`
	RespondentID string `json:"respondentId"`
	Context      string `json:"context"`
}

// AIPattern describes a relationship observed across themes
type AIPattern struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
}
