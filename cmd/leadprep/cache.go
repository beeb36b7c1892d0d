package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/leadprep/internal/cache"
	"github.com/jonathan/leadprep/internal/observability"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the leader cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show leader cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached leader list",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// openCache opens the configured cache without wiring the other backends.
func openCache() (*cache.Cache, bool, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, false, err
	}
	c := cache.New(cfg.CachePath(), cache.WithMaxAge(cfg.CacheMaxAge()), cache.WithLogger(newLogger(cfg.Verbose)))
	return c, cfg.Verbose, nil
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	c, isVerbose, err := openCache()
	if err != nil {
		return err
	}
	stats := c.Stats()
	if isVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintCacheStats(stats)
	}
	return writeJSON(cmd.OutOrStdout(), "", stats)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	c, _, err := openCache()
	if err != nil {
		return err
	}
	before := c.Stats()
	if err := c.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached companies from %s\n", before.EntryCount, c.Path())
	return nil
}
