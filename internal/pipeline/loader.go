package pipeline

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"strings"

	"github.com/ppiankov/qualcode/internal/extract"
	"github.com/ppiankov/qualcode/internal/logger"
)

// Stdin is the input name that reads standard input
const Stdin = "-"

// Corpus is the transcript set of one analysis
type Corpus struct {
	Documents []string
	Sources   []string
}

// Loader turns input names (files, "-", http(s) URLs) into transcripts
type Loader struct {
	fetcher *Fetcher
	formats *extract.Registry
	stdin   io.Reader
	perFile bool
}

// NewLoader creates a loader; fetcher may be nil when URLs are not allowed
func NewLoader(fetcher *Fetcher) *Loader {
	return &Loader{
		fetcher: fetcher,
		formats: extract.NewRegistry(),
		stdin:   os.Stdin,
	}
}

// SetStdin replaces the reader used for "-"
func (l *Loader) SetStdin(r io.Reader) {
	l.stdin = r
}

// SetPerFile treats every plain-text input as a single transcript instead
// of splitting it on blank lines
func (l *Loader) SetPerFile(perFile bool) {
	l.perFile = perFile
}

// Load reads all inputs in order into one corpus
func (l *Loader) Load(ctx context.Context, inputs []string) (*Corpus, error) {
	corpus := &Corpus{Documents: []string{}, Sources: []string{}}
	for _, input := range inputs {
		docs, err := l.loadOne(ctx, input)
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded %d document(s) from %s", len(docs), input)
		corpus.Documents = append(corpus.Documents, docs...)
		corpus.Sources = append(corpus.Sources, input)
	}
	return corpus, nil
}

func (l *Loader) loadOne(ctx context.Context, input string) ([]string, error) {
	switch {
	case input == Stdin:
		raw, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return l.documents(input, "", raw)

	case isURL(input):
		if l.fetcher == nil {
			return nil, fmt.Errorf("cannot load %s: URL inputs are disabled", input)
		}
		result, err := l.fetcher.FetchWithRetry(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", input, err)
		}
		path := input
		if u, err := url.Parse(result.FinalURL); err == nil {
			path = u.Path
		}
		return l.documents(path, mediaType(result.ContentType), result.Body)

	default:
		raw, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", input, err)
		}
		return l.documents(input, "", raw)
	}
}

func (l *Loader) documents(path, contentType string, raw []byte) ([]string, error) {
	format := l.formats.Find(path, contentType)
	if l.perFile && format.Name() == "text" {
		text := strings.TrimSpace(strings.ReplaceAll(string(raw), "\r\n", "\n"))
		if text == "" {
			return []string{}, nil
		}
		return []string{text}, nil
	}
	return l.formats.Documents(path, contentType, raw)
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
