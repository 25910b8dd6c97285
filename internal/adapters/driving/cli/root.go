// Package cli provides the overlap command-line interface built on cobra.
// It is a driving adapter: commands call the core through driving ports
// injected with SetServices.
package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
	"github.com/custodia-labs/overlap/internal/core/ports/driving"
	"github.com/custodia-labs/overlap/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// WatchableCorpus is a document source that reports changes.
// Each value sent is the source's new document count.
type WatchableCorpus interface {
	driven.Corpus
	Watch(ctx context.Context) (<-chan int, error)
}

// Services holds the ports the commands run against.
type Services struct {
	Engine   driving.EngineService
	Document driving.DocumentService
	Settings driving.SettingsService
	Activity driving.ActivityService

	// Gatherer backs the /metrics endpoint of serve.
	Gatherer prometheus.Gatherer

	// OpenCorpus opens a directory of documents for import.
	OpenCorpus func(dir string) WatchableCorpus

	// AppSettings are the settings the services were built with.
	AppSettings domain.Settings
}

var (
	engineService   driving.EngineService
	documentService driving.DocumentService
	settingsService driving.SettingsService
	activityService driving.ActivityService
	metricsGatherer prometheus.Gatherer
	openCorpus      func(dir string) WatchableCorpus
	appSettings     = domain.DefaultSettings()
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "overlap",
	Short: "N-gram plagiarism detection",
	Long: `overlap scores texts against a corpus of documents by n-gram overlap.

It checks submissions synchronously or with streamed progress, analyses
relationship chains across the corpus and serves the same operations over
HTTP and MCP.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the ports used by every command.
func SetServices(s *Services) {
	engineService = s.Engine
	documentService = s.Document
	settingsService = s.Settings
	activityService = s.Activity
	metricsGatherer = s.Gatherer
	openCorpus = s.OpenCorpus
	appSettings = s.AppSettings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// defaultNGram returns the configured n-gram size.
func defaultNGram() int {
	if n := appSettings.Engine.DefaultNGram; n != 0 {
		return n
	}
	return domain.DefaultSettings().Engine.DefaultNGram
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
