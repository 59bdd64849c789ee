package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/qualcode/internal/apperr"
	"github.com/ppiankov/qualcode/internal/logger"
	"github.com/ppiankov/qualcode/internal/pipeline"
	"github.com/ppiankov/qualcode/internal/report"
	"github.com/spf13/cobra"
)

var (
	aiQuestion string
	aiGrounded bool
	aiOut      outputFlags
	aiOpts     analysisFlags
	aiMeta     report.Meta
	aiRunID    string
)

// aiCmd groups the AI-augmented commands
var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "AI-augmented thematic analysis",
	Long: `AI commands send transcripts to an LLM provider and render a full thematic
analysis answering a research question.

Providers: gemini (default, GEMINI_API_KEY), openai (OPENAI_API_KEY),
anthropic (ANTHROPIC_API_KEY), ollama (local, OLLAMA_BASE_URL).

Responses are cached by provider, model, question and transcripts.`,
}

var aiAnalyzeCmd = &cobra.Command{
	Use:   "analyze <file|dir|url|-> [...]",
	Short: "Run heuristic and AI analysis over transcripts",
	Long: `Analyze transcripts with the heuristic pipeline, then ask the AI provider for a
thematic analysis answering --question. The AI report goes to --md (stdout by
default); --heuristic-md also writes the heuristic report.

Example:
  qualcode ai analyze interviews/ -q "How do new users experience onboarding?"
  qualcode ai analyze a.txt --provider ollama --model llama3.1:8b -q "..." --grounded`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAIAnalyze,
}

var aiReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the AI pass over a saved run",
	Long: `Load a run from history, run (or reuse) its AI analysis and render the AI report.
Without --question the run's existing AI analysis is rendered.`,
	Args: cobra.NoArgs,
	RunE: runAIReport,
}

var aiHeuristicMarkdown string

func init() {
	rootCmd.AddCommand(aiCmd)
	aiCmd.AddCommand(aiAnalyzeCmd)
	aiCmd.AddCommand(aiReportCmd)

	for _, c := range []*cobra.Command{aiAnalyzeCmd, aiReportCmd} {
		c.Flags().StringVarP(&aiQuestion, "question", "q", "", "research question the analysis should answer")
		c.Flags().BoolVar(&aiGrounded, "grounded", false, "include the heuristic keywords and codes in the prompt")
		c.Flags().StringVar(&aiOut.markdown, "md", "", "write the AI report to this path (- for stdout, the default)")
		c.Flags().StringVar(&aiOut.json, "json", "", "write the run, including the AI analysis, as JSON")
		c.Flags().BoolVar(&aiOut.publication, "publication", false, "use the publication layout for --heuristic-md")
		addMetaFlags(c.Flags(), &aiMeta)
	}
	aiAnalyzeCmd.Flags().StringVar(&aiHeuristicMarkdown, "heuristic-md", "", "also write the heuristic report to this path")
	aiOpts.register(aiAnalyzeCmd.Flags(), true)
	aiReportCmd.Flags().StringVar(&aiRunID, "run", "", "run ID from history (required)")
	aiReportCmd.Flags().StringVar(&aiOpts.provider, "provider", "", "AI provider (default from config)")
	aiReportCmd.Flags().StringVar(&aiOpts.model, "model", "", "AI model name")
	_ = aiReportCmd.MarkFlagRequired("run")
}

// aiOutputs sends the AI report to stdout unless told otherwise
func aiOutputs() pipeline.Outputs {
	return pipeline.Outputs{
		JSON:       aiOut.json,
		Markdown:   aiHeuristicMarkdown,
		AIMarkdown: orStdout(aiOut.markdown),
	}
}

func runAIAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := strings.TrimSpace(aiQuestion)
	if question == "" {
		return fmt.Errorf("%w: pass --question", apperr.ErrResearchQuestionRequired)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := aiOpts.apply(cfg); err != nil {
		return err
	}

	s, err := openSession(cmd, cfg, &aiOpts, true)
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := analyzeInputs(ctx, s, args, aiMeta)
	if err != nil {
		return err
	}

	logger.Section("AI analysis")
	if err := s.pipeline.AIAnalyze(ctx, run, question, aiGrounded); err != nil {
		return explainAIError(err)
	}
	if err := s.pipeline.Save(ctx, run); err != nil {
		return err
	}

	if err := s.pipeline.Render(run, aiMeta, aiOut.publication, aiOutputs()); err != nil {
		return err
	}
	printSummary(cmd, s.pipeline, run)
	return nil
}

func runAIReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := aiOpts.apply(cfg); err != nil {
		return err
	}

	question := strings.TrimSpace(aiQuestion)
	s, err := openSession(cmd, cfg, &analysisFlags{}, question != "")
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := s.store.GetRun(ctx, aiRunID)
	if err != nil {
		return err
	}

	if question != "" {
		logger.Section("AI analysis")
		if err := s.pipeline.AIAnalyze(ctx, run, question, aiGrounded); err != nil {
			return explainAIError(err)
		}
		if err := s.pipeline.Save(ctx, run); err != nil {
			return err
		}
	} else if run.AI == nil {
		return fmt.Errorf("run %s has no AI analysis yet: pass --question to create one", run.ID)
	}

	if aiMeta.Title == "" {
		aiMeta.Title = run.Title
	}
	return s.pipeline.Render(run, aiMeta, aiOut.publication, pipeline.Outputs{
		JSON:       aiOut.json,
		AIMarkdown: orStdout(aiOut.markdown),
	})
}

// explainAIError adds a hint for the failures a user can fix
func explainAIError(err error) error {
	switch {
	case errors.Is(err, apperr.ErrInvalidAPIKey):
		return fmt.Errorf("%w (check the provider's API key variable or llm.api_key)", err)
	case errors.Is(err, apperr.ErrProviderNetwork):
		return fmt.Errorf("%w (is the provider reachable? for ollama, is the server running?)", err)
	default:
		return err
	}
}

func orStdout(path string) string {
	if path == "" {
		return report.Stdout
	}
	return path
}
