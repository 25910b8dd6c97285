// Command overlap is an n-gram plagiarism-detection engine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/overlap/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// EnvConfigDir overrides the configuration directory.
const EnvConfigDir = "OVERLAP_CONFIG_DIR"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is normal.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(os.Getenv(EnvConfigDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "overlap: %v\n", err)
		return 1
	}
	defer app.Close()

	cli.SetVersion(version)
	cli.SetServices(app.services)
	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
