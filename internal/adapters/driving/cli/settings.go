package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change engine, cache, server and storage settings.

Settings are stored in config.toml under the overlap config directory.
OVERLAP_STORAGE_BACKEND, OVERLAP_DATA_DIR, OVERLAP_CORPUS_DIR and
OVERLAP_ADDR override the stored values.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting and save it.

Keys:
  engine.default_ngram     n-gram size used when a request omits n (2-5)
  engine.chain_threshold   edge cutoff for relationship chains (0-1)
  engine.max_chain_depth   longest chain to report (0 = unbounded)
  engine.top_matches       matches returned by a check
  engine.batch_size        documents per statistics batch
  engine.quick_limit       quick-check results
  engine.alert_threshold   similarity that raises an alert (0-1)
  cache.capacity           cache entries across all shards
  cache.shards             cache partitions
  server.addr              HTTP listen address
  server.allowed_origins   comma-separated CORS origins
  server.rate_limit        API requests per second (0 = unlimited)
  server.shutdown_timeout  graceful shutdown bound, e.g. 10s
  storage.backend          sqlite, memory or filesystem
  storage.data_dir         SQLite directory
  corpus.dir               directory read by the filesystem backend`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	e := settings.Engine
	cmd.Println("[Engine]")
	cmd.Printf("  Default n-gram: %d\n", e.DefaultNGram)
	cmd.Printf("  Chain threshold: %.2f\n", e.ChainThreshold)
	if e.MaxChainDepth > 0 {
		cmd.Printf("  Max chain depth: %d\n", e.MaxChainDepth)
	} else {
		cmd.Printf("  Max chain depth: unbounded\n")
	}
	cmd.Printf("  Top matches: %d\n", e.TopMatches)
	cmd.Printf("  Batch size: %d\n", e.BatchSize)
	cmd.Printf("  Quick-check limit: %d\n", e.QuickLimit)
	cmd.Printf("  Alert threshold: %.2f\n", e.AlertThreshold)
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Capacity: %d\n", settings.Cache.Capacity)
	cmd.Printf("  Shards: %d\n", settings.Cache.Shards)
	cmd.Println()

	s := settings.Server
	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", s.Addr)
	cmd.Printf("  Allowed origins: %s\n", strings.Join(s.AllowedOrigins, ", "))
	if s.RateLimit > 0 {
		cmd.Printf("  Rate limit: %d/s\n", s.RateLimit)
	} else {
		cmd.Printf("  Rate limit: off\n")
	}
	cmd.Printf("  Shutdown timeout: %s\n", s.ShutdownTimeout)
	cmd.Println()

	st := settings.Storage
	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", st.Backend.Description())
	if st.DataDir != "" {
		cmd.Printf("  Data directory: %s\n", st.DataDir)
	}
	if st.CorpusDir != "" {
		cmd.Printf("  Corpus directory: %s\n", st.CorpusDir)
	}
	cmd.Println()

	if path := settingsService.Path(); path != "" {
		cmd.Printf("Config file: %s\n", path)
	}
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}
