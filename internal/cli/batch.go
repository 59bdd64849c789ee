package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/qualcode/internal/logger"
	"github.com/ppiankov/qualcode/internal/model"
	"github.com/ppiankov/qualcode/internal/pipeline"
	"github.com/ppiankov/qualcode/internal/report"
	"github.com/ppiankov/qualcode/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
	batchManifest    string
	batchQuestion    string
	batchGrounded    bool
	batchPublication bool
	batchOpts        analysisFlags
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [file|dir|url ...]",
	Short: "Analyze many corpora in parallel, one run per input",
	Long: `Batch treats every input as its own corpus:
- Inputs come from arguments (directories expand to their transcript files)
  and/or a manifest file with one input per line
- Inputs are analyzed in parallel with a bounded worker pool
- With --question each corpus also gets an AI analysis (rate limited)
- A JSON run and Markdown report are written per input to --output-dir

Example:
  qualcode batch studies/*.txt
  qualcode batch --manifest corpora.txt --concurrency 8 --output-dir ./reports
  qualcode batch interviews/ -q "What frustrates users?" --timeout 30m`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./qualcode-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchManifest, "manifest", "", "file listing one input per line (# comments allowed)")
	batchCmd.Flags().StringVarP(&batchQuestion, "question", "q", "", "research question; enables the AI pass per input")
	batchCmd.Flags().BoolVar(&batchGrounded, "grounded", false, "include heuristic results in AI prompts")
	batchCmd.Flags().BoolVar(&batchPublication, "publication", false, "use the publication layout")
	batchOpts.register(batchCmd.Flags(), true)
}

// batchInputs merges manifest entries and expanded arguments
func batchInputs(args []string, manifest string) ([]string, error) {
	var inputs []string
	if manifest != "" {
		listed, err := worker.ReadManifest(manifest)
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}
		inputs = append(inputs, listed...)
	}
	if len(args) > 0 {
		expanded, err := expandArgs(args)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, expanded...)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no inputs: pass files, directories, URLs or --manifest")
	}
	return inputs, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputs, err := batchInputs(args, batchManifest)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := batchOpts.apply(cfg); err != nil {
		return err
	}
	if batchConcurrency > 0 {
		cfg.Concurrency.Workers = batchConcurrency
	}
	question := strings.TrimSpace(batchQuestion)

	s, err := openSession(cmd, cfg, &batchOpts, question != "", pipeline.WithQuestion(question, batchGrounded))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := os.MkdirAll(batchOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n  Inputs:       %d\n", len(inputs))
	fmt.Fprintf(stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(stderr, "  Output dir:   %s\n", batchOutputDir)
	if question != "" {
		fmt.Fprintf(stderr, "  AI provider:  %s\n", cfg.LLM.Provider)
	}
	fmt.Fprintln(stderr)

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	results := worker.NewBatchProcessor(s.pipeline, cfg.Concurrency.Workers).ProcessInputs(ctx, inputs)

	written := writeBatchResults(cmd, s.pipeline, results)
	succeeded, failed := worker.Summary(results)

	fmt.Fprintf(stderr, "\n  Total:     %d\n", len(results))
	fmt.Fprintf(stderr, "  Success:   %d\n", succeeded)
	fmt.Fprintf(stderr, "  Failures:  %d\n", failed)
	fmt.Fprintf(stderr, "  Reports:   %d in %s\n\n", written, batchOutputDir)

	if succeeded == 0 {
		return fmt.Errorf("all %d inputs failed", len(results))
	}
	return nil
}

// writeBatchResults renders each successful run; returns how many were written
func writeBatchResults(cmd *cobra.Command, p *pipeline.Pipeline, results []*worker.BatchResult) int {
	stderr := cmd.ErrOrStderr()
	written := 0
	used := make(map[string]int)

	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(stderr, "✗ %s: %v\n", r.Input, r.Error)
			continue
		}

		stem := sanitizeFilename(r.Input)
		if n := used[stem]; n > 0 {
			used[stem] = n + 1
			stem = fmt.Sprintf("%s-%d", stem, n+1)
		} else {
			used[stem] = 1
		}

		out := pipeline.Outputs{
			JSON:     filepath.Join(batchOutputDir, stem+".json"),
			Markdown: filepath.Join(batchOutputDir, stem+".md"),
		}
		if r.Run.AI != nil {
			out.AIMarkdown = filepath.Join(batchOutputDir, stem+".ai.md")
		}
		if err := p.Render(r.Run, batchMeta(r.Run), batchPublication, out); err != nil {
			fmt.Fprintf(stderr, "✗ %s: %v\n", r.Input, err)
			continue
		}

		written++
		fmt.Fprintf(stderr, "✓ %s (%d docs, %d codes, %s)\n",
			r.Input, len(r.Run.Result.Documents), len(r.Run.Result.Codes), r.Duration.Round(time.Millisecond))
		logger.Debug("run %s -> %s", r.Run.ID, out.Markdown)
	}
	return written
}

func batchMeta(run *model.Run) report.Meta {
	return report.Meta{Title: run.Title}
}
