package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dshills/pyreview/internal/cache"
	"github.com/dshills/pyreview/internal/config"
	"github.com/dshills/pyreview/internal/output"
	"github.com/dshills/pyreview/internal/pysyntax"
)

var flagCacheStale bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached review verdicts",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached verdicts",
	Long: `Remove cached verdicts. With --stale only entries that can no longer be
served are removed: expired ones, unreadable ones and ones recorded by another
parser version.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		c, err := cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		if flagCacheStale {
			n, err := c.Prune()
			if err != nil {
				return fmt.Errorf("pruning cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale entries.\n", n)
			return nil
		}
		n, err := c.Clear()
		if err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared (%d entries removed).\n", n)
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarize cached verdicts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		if !c.Enabled() {
			fmt.Fprintln(cmd.OutOrStdout(), "Cache is disabled.")
			return nil
		}
		stats, err := c.GetStats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}

		table := output.Table(cmd.OutOrStdout(), []string{"Field", "Value"})
		rows := [][]string{
			{"Directory", stats.Dir},
			{"Parser", pysyntax.Version},
			{"Entries", strconv.Itoa(stats.Entries)},
			{"Approved", strconv.Itoa(stats.Approved)},
			{"Changes requested", strconv.Itoa(stats.ChangesRequested)},
			{"Expired", strconv.Itoa(stats.Expired)},
			{"Other parser", strconv.Itoa(stats.OtherParser)},
			{"Unreadable", strconv.Itoa(stats.Unreadable)},
			{"Size (bytes)", strconv.FormatInt(stats.TotalBytes, 10)},
		}
		for _, row := range rows {
			if err := table.Append(row); err != nil {
				return err
			}
		}
		return table.Render()
	},
}

func init() {
	cacheClearCmd.Flags().BoolVar(&flagCacheStale, "stale", false, "Only remove expired, unreadable and old-parser entries")

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheShowCmd)
}
