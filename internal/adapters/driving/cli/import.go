package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
	"github.com/custodia-labs/overlap/internal/logger"
)

var importWatch bool

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import a directory of documents",
	Long: `Imports every text, markdown and PDF file under a directory into the
corpus. Hidden files and directories are skipped, as are files outside
the accepted length range.

With --watch the directory is monitored and new files are imported as
they appear, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "keep importing new files until interrupted")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	if openCorpus == nil {
		return errors.New("directory import not configured")
	}

	dir := args[0]
	ctx := commandContext(cmd)
	src := openCorpus(dir)
	pending := newUnseenCorpus(src)

	n, err := documentService.Import(ctx, pending)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	cmd.Printf("Imported %d documents from %s\n", n, dir)

	if !importWatch {
		return nil
	}

	changes, err := src.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", dir)

	for range changes {
		n, err := documentService.Import(ctx, pending)
		if err != nil {
			logger.Warn("Re-import of %s failed: %v", dir, err)
			continue
		}
		if n > 0 {
			cmd.Printf("Imported %d new documents\n", n)
		}
	}
	return nil
}

// unseenCorpus yields each source document once, so repeated imports only
// pick up files that appeared since the last one.
type unseenCorpus struct {
	src  driven.Corpus
	mu   sync.Mutex
	seen map[string]bool
}

func newUnseenCorpus(src driven.Corpus) *unseenCorpus {
	return &unseenCorpus{src: src, seen: make(map[string]bool)}
}

func (c *unseenCorpus) Documents(ctx context.Context) ([]domain.Document, error) {
	docs, err := c.src.Documents(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if c.seen[d.ID] {
			continue
		}
		c.seen[d.ID] = true
		out = append(out, d)
	}
	return out, nil
}
