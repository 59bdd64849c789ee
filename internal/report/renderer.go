package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/qualcode/internal/model"
)

// Stdout is the path that writes to standard output instead of a file
const Stdout = "-"

const footer = "\n\n---\n\n*Generated by qualcode. Heuristic output: verify codes and quotes against the transcripts before citing.*\n"

// Renderer writes reports to files or stdout
type Renderer struct {
	includeFooter bool
	out           io.Writer
}

// NewRenderer creates a renderer writing "-" paths to os.Stdout
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter, out: os.Stdout}
}

// SetOutput redirects "-" paths
func (r *Renderer) SetOutput(w io.Writer) {
	r.out = w
}

// WriteJSON writes v as indented JSON
func (r *Renderer) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return r.write(path, append(data, '\n'))
}

// WriteMarkdown writes md, appending the footer when enabled
func (r *Renderer) WriteMarkdown(path string, md string) error {
	if r.includeFooter {
		md = strings.TrimRight(md, "\n") + footer
	}
	return r.write(path, []byte(md))
}

func (r *Renderer) write(path string, data []byte) error {
	if path == Stdout {
		_, err := r.out.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints a short digest of a run
func (r *Renderer) RenderSummary(w io.Writer, run *model.Run) {
	res := run.Result
	title := run.Title
	if title == "" {
		title = DefaultTitle
	}
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintf(w, "  Run:        %s\n", run.ID)
	fmt.Fprintf(w, "  Documents:  %d\n", len(res.Documents))
	fmt.Fprintf(w, "  Keywords:   %s\n", orNone(strings.Join(keywordTerms(res.Keywords, 5), ", ")))

	codes := res.CodeLabels()
	fmt.Fprintf(w, "  Codes:      %d (%s)\n", len(codes), orNone(strings.Join(firstN(codes, 5), ", ")))
	fmt.Fprintf(w, "  Themes:     %s\n", orNone(strings.Join(themeNames(res.Themes, 5), ", ")))
	avg := res.AverageSentiment()
	fmt.Fprintf(w, "  Sentiment:  %.2f (%s)\n", avg, SentimentLabel(avg))
	if run.AI != nil {
		fmt.Fprintf(w, "  AI themes:  %d via %s/%s\n", len(run.AI.Analysis.Themes), run.AI.Provider, run.AI.Model)
	}
}
