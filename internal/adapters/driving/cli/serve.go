package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	httpapi "github.com/custodia-labs/overlap/internal/adapters/driving/http"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the JSON and server-sent events API.

Endpoints include synchronous and streamed checks under /api/plagiarism,
document management under /api/documents, corpus analysis, cache
statistics, activity monitoring and Prometheus metrics at /metrics.

The server shuts down gracefully on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if engineService == nil {
		return errors.New("engine service not configured")
	}

	settings := appSettings.Server
	if serveAddr != "" {
		settings.Addr = serveAddr
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Engine:       engineService,
		Document:     documentService,
		Activity:     activityService,
		Gatherer:     metricsGatherer,
		DefaultNGram: defaultNGram(),
	}, settings)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	cmd.Printf("overlap API listening on %s\n", settings.Addr)
	return server.Run(commandContext(cmd))
}
