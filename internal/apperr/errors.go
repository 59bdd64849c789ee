// Package apperr holds the sentinel errors surfaced at the qualcode boundary.
// Messages are user-facing and stable; match with errors.Is.
package apperr

import "errors"

var (
	ErrNoDocuments              = errors.New("no documents provided")
	ErrResearchQuestionRequired = errors.New("research question required")
	ErrInvalidAPIKey            = errors.New("invalid API key")
	ErrProviderNetwork          = errors.New("network error contacting AI provider")
	ErrInvalidAIResponse        = errors.New("AI response was not valid JSON")
	ErrRunNotFound              = errors.New("run not found")
)
