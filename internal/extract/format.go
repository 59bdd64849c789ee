package extract

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// Format turns the raw bytes of one input into transcript documents
type Format interface {
	// Name returns the format name
	Name() string

	// CanHandle reports whether the format reads the given path/content type
	CanHandle(path string, contentType string) bool

	// Documents splits the input into documents
	Documents(raw []byte) ([]string, error)
}

// Registry picks a Format for an input
type Registry struct {
	formats  []Format
	fallback Format
}

// NewRegistry creates a registry with the built-in formats. Plain text is
// the fallback.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(HTMLFormat{})
	r.Register(JSONFormat{})
	r.Register(SubtitleFormat{})
	r.fallback = TextFormat{}
	return r
}

// Register adds a format ahead of the fallback
func (r *Registry) Register(f Format) {
	r.formats = append(r.formats, f)
}

// Find returns the first format that can handle the input
func (r *Registry) Find(path string, contentType string) Format {
	for _, f := range r.formats {
		if f.CanHandle(path, contentType) {
			return f
		}
	}
	return r.fallback
}

// Documents reads raw input with the matching format
func (r *Registry) Documents(path, contentType string, raw []byte) ([]string, error) {
	f := r.Find(path, contentType)
	docs, err := f.Documents(raw)
	if err != nil {
		return nil, fmt.Errorf("%s input %s: %w", f.Name(), path, err)
	}
	return docs, nil
}

func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// TextFormat is pasted text with blank lines between documents
type TextFormat struct{}

func (TextFormat) Name() string { return "text" }

func (TextFormat) CanHandle(path, contentType string) bool {
	return hasExt(path, ".txt", ".md") || strings.HasPrefix(contentType, "text/plain")
}

func (TextFormat) Documents(raw []byte) ([]string, error) {
	return SplitDocuments(string(raw)), nil
}

// HTMLFormat is a transcript page; each paragraph is a document
type HTMLFormat struct{}

func (HTMLFormat) Name() string { return "html" }

func (HTMLFormat) CanHandle(path, contentType string) bool {
	return hasExt(path, ".html", ".htm") || strings.Contains(contentType, "html")
}

func (HTMLFormat) Documents(raw []byte) ([]string, error) {
	text, err := HTMLText(string(raw))
	if err != nil {
		return nil, err
	}
	return SplitDocuments(text), nil
}

// JSONFormat accepts an array of strings, an array of {"text": ...}
// objects, or an object with a "documents" field holding either.
type JSONFormat struct{}

func (JSONFormat) Name() string { return "json" }

func (JSONFormat) CanHandle(path, contentType string) bool {
	return hasExt(path, ".json") || strings.Contains(contentType, "json")
}

func (JSONFormat) Documents(raw []byte) ([]string, error) {
	var wrapped struct {
		Documents json.RawMessage `json:"documents"`
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, err
		}
		if len(wrapped.Documents) == 0 {
			return nil, fmt.Errorf("missing \"documents\" field")
		}
		raw = wrapped.Documents
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	docs := make([]string, 0, len(items))
	for i, item := range items {
		var text string
		if err := json.Unmarshal(item, &text); err != nil {
			var obj struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(item, &obj); err != nil {
				return nil, fmt.Errorf("document %d: expected string or {\"text\": ...}", i+1)
			}
			text = obj.Text
		}
		if text = strings.TrimSpace(text); text != "" {
			docs = append(docs, text)
		}
	}
	return docs, nil
}

// SubtitleFormat reads WebVTT and SRT captions. The whole file is one
// interview: cue numbers, timings and NOTE blocks are dropped.
type SubtitleFormat struct{}

func (SubtitleFormat) Name() string { return "subtitle" }

func (SubtitleFormat) CanHandle(path, contentType string) bool {
	return hasExt(path, ".vtt", ".srt") || contentType == "text/vtt"
}

func (SubtitleFormat) Documents(raw []byte) ([]string, error) {
	var words []string
	skipBlock := false
	for _, line := range strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			skipBlock = false
			continue
		case skipBlock:
			continue
		case strings.HasPrefix(line, "WEBVTT"):
			continue
		case strings.HasPrefix(line, "NOTE"), strings.HasPrefix(line, "STYLE"):
			skipBlock = true
			continue
		case strings.Contains(line, "-->"):
			continue
		case isCueNumber(line):
			continue
		}
		words = append(words, line)
	}

	if len(words) == 0 {
		return []string{}, nil
	}
	return []string{strings.Join(words, " ")}, nil
}

func isCueNumber(line string) bool {
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
