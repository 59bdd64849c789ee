package cli

import (
	"fmt"

	"github.com/ppiankov/qualcode/internal/cache"
	"github.com/spf13/cobra"
)

// cacheCmd manages the AI response cache
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the AI response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached AI response",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cache.New(cfg.Cache).Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared cache at %s\n", cfg.Cache.Dir)
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired cache entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		pruner, ok := cache.New(cfg.Cache).(interface{ Prune() (int, error) })
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cache is disabled, nothing to prune")
			return nil
		}
		n, err := pruner.Prune()
		if err != nil {
			return fmt.Errorf("prune cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d expired entries\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
}
