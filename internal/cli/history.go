package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ppiankov/qualcode/internal/logger"
	"github.com/ppiankov/qualcode/internal/report"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd manages saved runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show and delete saved runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(); err != nil {
				logger.Warn("close history: %v", err)
			}
		}()

		runs, err := st.ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No saved runs")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tDOCS\tAI\tTITLE")
		for _, r := range runs {
			ai := "-"
			if r.HasAI {
				ai = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.DocumentCount, ai, r.Title)
		}
		return tw.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a saved run as JSON",
	Args:  cobra.ExactArgs(1),
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

		run, err := s.store.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		printSummary(cmd, s.pipeline, run)
		return s.pipeline.Renderer().WriteJSON(report.Stdout, run)
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(); err != nil {
				logger.Warn("close history: %v", err)
			}
		}()

		if err := st.DeleteRun(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted run %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list (0 for all)")
}
