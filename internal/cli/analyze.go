package cli

import (
	"context"
	"fmt"

	"github.com/ppiankov/qualcode/internal/logger"
	"github.com/ppiankov/qualcode/internal/model"
	"github.com/ppiankov/qualcode/internal/pipeline"
	"github.com/ppiankov/qualcode/internal/report"
	"github.com/spf13/cobra"
)

// outputFlags select where a run is written
type outputFlags struct {
	json        string
	markdown    string
	publication bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.json, "json", "", "write the run as JSON to this path (- for stdout)")
	cmd.Flags().StringVar(&f.markdown, "md", "", "write the Markdown report to this path (- for stdout, the default)")
	cmd.Flags().BoolVar(&f.publication, "publication", false, "use the journal-style publication layout")
}

// outputs defaults to the Markdown report on stdout
func (f *outputFlags) outputs() pipeline.Outputs {
	out := pipeline.Outputs{JSON: f.json, Markdown: f.markdown}
	if out.JSON == "" && out.Markdown == "" {
		out.Markdown = report.Stdout
	}
	return out
}

var (
	analyzeOut  outputFlags
	analyzeOpts analysisFlags
	analyzeMeta report.Meta
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|dir|url|-> [...]",
	Short: "Code a set of interview transcripts",
	Long: `Analyze runs the heuristic pipeline over one or more transcripts:
- Load .txt, .md, .html, .json, .vtt and .srt files, directories, URLs or stdin (-)
- Split text files into transcripts on blank lines (or --per-file)
- Extract TF-IDF keywords, auto-codes, co-occurrence, sentiment and themes
- Render a Markdown research report and/or the raw JSON result
- Save the run to history (disable with --no-history)

Example:
  qualcode analyze interviews/
  qualcode analyze a.txt b.txt --md report.md --json run.json
  pbpaste | qualcode analyze - --publication --title "Onboarding Study"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeOut.register(analyzeCmd)
	analyzeOpts.register(analyzeCmd.Flags(), false)
	addMetaFlags(analyzeCmd.Flags(), &analyzeMeta)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := analyzeOpts.apply(cfg); err != nil {
		return err
	}

	s, err := openSession(cmd, cfg, &analyzeOpts, false)
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := analyzeInputs(ctx, s, args, analyzeMeta)
	if err != nil {
		return err
	}

	if err := s.pipeline.Render(run, analyzeMeta, analyzeOut.publication, analyzeOut.outputs()); err != nil {
		return err
	}
	printSummary(cmd, s.pipeline, run)
	return nil
}

// analyzeInputs expands inputs, runs the heuristic pass and saves the run
func analyzeInputs(ctx context.Context, s *session, args []string, meta report.Meta) (*model.Run, error) {
	inputs, err := expandArgs(args)
	if err != nil {
		return nil, err
	}
	logger.Section("Analysis")
	logger.Debug("Inputs: %v", inputs)

	run, err := s.pipeline.Analyze(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	run.Title = meta.Title

	if err := s.pipeline.Save(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}
