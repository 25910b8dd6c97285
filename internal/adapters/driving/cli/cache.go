package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the similarity cache",
	Long: `Show or reset the similarity memoisation cache of this process.
The cache lives in memory; use the HTTP API to inspect a running server.`,
	RunE: runCacheStats,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache counters",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the cache",
	Args:  cobra.NoArgs,
	RunE:  runCacheReset,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheResetCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if engineService == nil {
		return errors.New("engine service not configured")
	}

	stats := engineService.CacheStats()
	cmd.Println("Cache")
	cmd.Printf("  Size:     %d / %d\n", stats.Size, stats.Capacity)
	cmd.Printf("  Hits:     %d\n", stats.Hits)
	cmd.Printf("  Misses:   %d\n", stats.Misses)
	cmd.Printf("  Hit rate: %s\n", percent(stats.HitRate))
	return nil
}

func runCacheReset(cmd *cobra.Command, _ []string) error {
	if engineService == nil {
		return errors.New("engine service not configured")
	}

	engineService.ResetCache()
	cmd.Println("Cache cleared.")
	return nil
}
