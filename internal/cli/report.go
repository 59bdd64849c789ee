package cli

import (
	"github.com/ppiankov/qualcode/internal/report"
	"github.com/spf13/cobra"
)

var (
	reportRunID string
	reportOut   outputFlags
	reportMeta  report.Meta
)

// reportCmd re-renders a saved run
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the report for a saved run",
	Long: `Render the heuristic report of a run from history, for example in the
publication layout or with different metadata.

Example:
  qualcode history list
  qualcode report --run 01HZX... --publication --md paper.md --author "A. Researcher"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := openSession(cmd, cfg, &analysisFlags{}, false)
		if err != nil {
			return err
		}
		defer s.Close()

		run, err := s.store.GetRun(ctx, reportRunID)
		if err != nil {
			return err
		}
		if reportMeta.Title == "" {
			reportMeta.Title = run.Title
		}
		return s.pipeline.Render(run, reportMeta, reportOut.publication, reportOut.outputs())
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportRunID, "run", "", "run ID from history (required)")
	_ = reportCmd.MarkFlagRequired("run")
	reportOut.register(reportCmd)
	addMetaFlags(reportCmd.Flags(), &reportMeta)
}
