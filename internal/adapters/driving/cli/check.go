package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

var (
	checkFile      string
	checkNGram     int
	checkThreshold float64
	checkDocID     string
	checkJSON      bool
	checkTUI       bool

	historyLimit int
	historyJSON  bool
)

var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Check a text against the corpus",
	Long: `Scores a text against every document in the corpus and reports the best
matches. The text is taken from the arguments, from --file, or from stdin.

Use --doc to check a stored document against the rest of the corpus; the
result is recorded in the check history. Use --tui to follow the check
with a live progress view.`,
	RunE: runCheck,
}

var historyCmd = &cobra.Command{
	Use:   "history [doc-id]",
	Short: "Show recorded document checks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "read the text from a file")
	checkCmd.Flags().IntVarP(&checkNGram, "ngram", "n", 0, "n-gram size (0 = configured default)")
	checkCmd.Flags().Float64VarP(&checkThreshold, "threshold", "t", 0, "only report matches above this similarity")
	checkCmd.Flags().StringVar(&checkDocID, "doc", "", "check a stored document by id")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output the report as JSON")
	checkCmd.Flags().BoolVar(&checkTUI, "tui", false, "show live progress in the terminal")
	rootCmd.AddCommand(checkCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 50, "maximum number of records")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if engineService == nil {
		return errors.New("engine service not configured")
	}

	n := checkNGram
	if n == 0 {
		n = defaultNGram()
	}
	ctx := commandContext(cmd)

	if checkDocID != "" {
		if len(args) > 0 || checkFile != "" || checkTUI {
			return errors.New("--doc cannot be combined with text, --file or --tui")
		}
		report, err := engineService.ScoreDocument(ctx, checkDocID, n, checkThreshold)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		return outputReport(cmd, report)
	}

	text, err := readText(cmd, args, checkFile)
	if err != nil {
		return err
	}

	if checkTUI {
		return runCheckTUI(cmd, text, n, checkThreshold)
	}

	report, err := engineService.Score(ctx, text, n, checkThreshold)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	return outputReport(cmd, report)
}

func outputReport(cmd *cobra.Command, report *domain.ScoreReport) error {
	if checkJSON {
		return printJSON(cmd, report)
	}

	cmd.Printf("Score: %s\n", percent(report.Score))
	if report.FilteredByThreshold > 0 {
		cmd.Printf("Threshold: %s\n", percent(report.FilteredByThreshold))
	}
	cmd.Println()

	if len(report.Matches) == 0 {
		cmd.Println("No matches found.")
	} else {
		cmd.Println("Matches:")
		for i, m := range report.Matches {
			title := m.DocTitle
			if title == "" {
				title = m.DocID
			}
			cmd.Printf("  [%d] %s (%s)\n", i+1, title, percent(m.Similarity))
			if m.DocAuthor != "" {
				cmd.Printf("      Author: %s\n", m.DocAuthor)
			}
			cmd.Printf("      ID: %s\n", m.DocID)
		}
	}
	cmd.Println()

	s := report.Stats
	cmd.Printf("Checked %d documents (%d tokens, %d n-grams, cache hits %d, misses %d)\n",
		s.DocumentsChecked, s.Tokens, s.NGrams, s.Hits, s.Misses)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if engineService == nil {
		return errors.New("engine service not configured")
	}

	docID := ""
	if len(args) == 1 {
		docID = args[0]
	}

	records, err := engineService.History(commandContext(cmd), docID, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if historyJSON {
		return printJSON(cmd, records)
	}
	if len(records) == 0 {
		cmd.Println("No checks recorded.")
		return nil
	}

	for _, r := range records {
		cmd.Printf("  %s  %-36s %s", r.CheckedAt.Format("2006-01-02 15:04:05"), r.DocumentID, percent(r.Score))
		if r.MatchedDocID != "" {
			cmd.Printf("  (best match %s)", r.MatchedDocID)
		}
		cmd.Println()
	}
	cmd.Printf("\nTotal: %d checks\n", len(records))
	return nil
}
