package model

import "time"

// Run is one persisted analysis, as stored in run history
type Run struct {
	ID        string         `json:"id"`                // ULID
	Title     string         `json:"title,omitempty"`   // Report title, if one was given
	Sources   []string       `json:"sources,omitempty"` // Files or URLs the corpus was loaded from
	CreatedAt time.Time      `json:"created_at"`
	Result    AnalysisResult `json:"result"`

	AI *AISummary `json:"ai,omitempty"` // Optional AI analysis (never alters Result)
}

// AISummary records an AI analysis alongside the provider that produced it
type AISummary struct {
	Provider         string     `json:"provider"`
	Model            string     `json:"model,omitempty"`
	ResearchQuestion string     `json:"research_question"`
	Analysis         AIAnalysis `json:"analysis"`
	Cached           bool       `json:"cached,omitempty"`
}

// RunInfo is the lightweight listing form of a Run
type RunInfo struct {
	ID            string    `json:"id"`
	Title         string    `json:"title,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	DocumentCount int       `json:"document_count"`
	HasAI         bool      `json:"has_ai"`
}
