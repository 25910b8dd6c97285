package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/overlap/internal/adapters/driving/tui"
	"github.com/custodia-labs/overlap/internal/core/domain"
)

// runCheckTUI follows a progressive check in the terminal. The final view
// stays on screen after the program exits.
func runCheckTUI(cmd *cobra.Command, text string, n int, threshold float64) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(&tui.Ports{Engine: engineService}, tui.Request{
		Text:      text,
		N:         n,
		Threshold: threshold,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	p := tea.NewProgram(app, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if err := app.Err(); err != nil && !errors.Is(err, domain.ErrStreamInterrupted) {
		return err
	}
	return nil
}
