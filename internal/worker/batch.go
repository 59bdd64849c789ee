package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/qualcode/internal/model"
)

// Processor analyses one corpus input (file, directory entry or URL)
type Processor interface {
	Process(ctx context.Context, input string) (*model.Run, error)
}

// BatchResult is the outcome of one input
type BatchResult struct {
	Input    string
	Run      *model.Run
	Error    error
	Duration time.Duration
}

// BatchProcessor analyses many corpora concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{processor: processor, concurrency: concurrency}
}

// ProcessInputs runs every input and returns results in input order. Inputs
// skipped because ctx ended carry the context error.
func (b *BatchProcessor) ProcessInputs(ctx context.Context, inputs []string) []*BatchResult {
	pool := NewPool(b.concurrency, func(ctx context.Context, input string) *BatchResult {
		start := time.Now()
		run, err := b.processor.Process(ctx, input)
		return &BatchResult{Input: input, Run: run, Error: err, Duration: time.Since(start)}
	})

	results, skipped := pool.Run(ctx, inputs)
	for _, i := range skipped {
		results[i] = &BatchResult{Input: inputs[i], Error: fmt.Errorf("skipped: %w", context.Cause(ctx))}
	}
	return results
}

// ProcessManifest reads inputs from a manifest file and processes them
func (b *BatchProcessor) ProcessManifest(ctx context.Context, manifest string) ([]*BatchResult, error) {
	inputs, err := ReadManifest(manifest)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return b.ProcessInputs(ctx, inputs), nil
}

// ReadManifest reads one input per line, skipping blanks and # comments and
// dropping duplicates
func ReadManifest(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var inputs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			inputs = append(inputs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return inputs, nil
}

// CorpusExtensions are the file types picked up when a directory is expanded
var CorpusExtensions = []string{".txt", ".md", ".html", ".htm", ".json", ".vtt", ".srt"}

// ExpandInputs replaces directories with the corpus files directly inside
// them, sorted by name. URLs and plain files pass through unchanged.
func ExpandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if isURL(arg) || arg == "-" {
			out = append(out, arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() && hasCorpusExt(e.Name()) {
				files = append(files, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	return out, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func hasCorpusExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range CorpusExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Summary counts successes and failures
func Summary(results []*BatchResult) (succeeded, failed int) {
	for _, r := range results {
		if r.Error != nil {
			failed++
		} else {
			succeeded++
		}
	}
	return succeeded, failed
}
