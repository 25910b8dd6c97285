package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrNoInput is returned when no text was given and stdin is an interactive
// terminal.
var ErrNoInput = errors.New("no text given: pass it as arguments, use --file, or pipe it on stdin (\"-\" reads the terminal)")

// isTerminal reports whether fd is an interactive terminal.
var isTerminal = func(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// readText returns the text to check: the file when path is set, the joined
// arguments otherwise, and stdin when neither is given or the only argument
// is "-". Without arguments an interactive stdin is refused instead of
// waiting for input the user did not know to type.
func readText(cmd *cobra.Command, args []string, path string) (string, error) {
	if len(args) == 0 && path == "" && interactive(cmd.InOrStdin()) {
		return "", ErrNoInput
	}

	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), nil
	case len(args) == 0 || (len(args) == 1 && args[0] == "-"):
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		return strings.Join(args, " "), nil
	}
}

// interactive reports whether r is a terminal.
func interactive(r io.Reader) bool {
	f, ok := r.(interface{ Fd() uintptr })
	return ok && isTerminal(f.Fd())
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// percent formats a similarity as a percentage.
func percent(similarity float64) string {
	return fmt.Sprintf("%.1f%%", similarity*100)
}
