package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	quickFile string
	quickJSON bool

	analyzeJSON bool
	batchesJSON bool
)

var quickCmd = &cobra.Command{
	Use:   "quick [text]",
	Short: "Run the approximate quick check",
	Long: `Compares a text against the corpus with a cheap heuristic: shared
vocabulary, length ratio and matching opening words. Results are
approximate and are never full n-gram scores.`,
	RunE: runQuick,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse relationships across the corpus",
	Long: `Scores every pair of documents and reports each document's highest
similarity together with the longest chain of similarity-linked documents.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "Show corpus statistics in batches",
	Args:  cobra.NoArgs,
	RunE:  runBatches,
}

func init() {
	quickCmd.Flags().StringVarP(&quickFile, "file", "f", "", "read the text from a file")
	quickCmd.Flags().BoolVar(&quickJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(quickCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)

	batchesCmd.Flags().BoolVar(&batchesJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(batchesCmd)
}

func runQuick(cmd *cobra.Command, args []string) error {
	if engineService == nil {
		return errors.New("engine service not configured")
	}

	text, err := readText(cmd, args, quickFile)
	if err != nil {
		return err
	}

	report, err := engineService.QuickScore(commandContext(cmd), text)
	if err != nil {
		return fmt.Errorf("quick check failed: %w", err)
	}

	if quickJSON {
		return printJSON(cmd, report)
	}

	if len(report.Results) == 0 {
		cmd.Printf("No likely matches among %d documents.\n", report.TotalChecked)
		return nil
	}

	cmd.Println("Likely matches (approximate):")
	cmd.Println()
	for i, r := range report.Results {
		cmd.Printf("  [%d] %s (~%s)\n", i+1, r.DocTitle, percent(r.Similarity))
		if len(r.Reasons) > 0 {
			cmd.Printf("      %s\n", strings.Join(r.Reasons, "; "))
		}
	}
	cmd.Printf("\nChecked %d documents\n", report.TotalChecked)
	return nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if engineService == nil {
		return errors.New("engine service not configured")
	}

	analysis, err := engineService.RecursiveAnalysis(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		return printJSON(cmd, analysis)
	}

	if len(analysis.DocumentTree) == 0 {
		cmd.Println("The corpus is empty.")
		return nil
	}

	cmd.Println("Longest chain:")
	for i, node := range analysis.TreeWithTitles {
		prefix := "  "
		if i > 0 {
			prefix = "  -> "
		}
		cmd.Printf("%s%s (%s)\n", prefix, node.Title, node.ID)
	}
	cmd.Println()

	cmd.Println("Highest similarity per document:")
	for i, sim := range analysis.Similarities {
		cmd.Printf("  %3d. %s\n", i+1, percent(sim))
	}
	return nil
}

func runBatches(cmd *cobra.Command, _ []string) error {
	if engineService == nil {
		return errors.New("engine service not configured")
	}

	report, err := engineService.BatchStats(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("batch statistics failed: %w", err)
	}

	if batchesJSON {
		return printJSON(cmd, report)
	}

	cmd.Printf("Documents: %d, characters: %d, average length: %d\n\n",
		report.TotalDocuments, report.TotalCharacters, report.AverageLength)
	for _, b := range report.Batches {
		cmd.Printf("  Batch %d: %d documents, %d chars (avg %d)\n", b.Index, b.Documents, b.TotalChars, b.AvgChars)
		if len(b.Authors) > 0 {
			cmd.Printf("    Authors: %s\n", strings.Join(b.Authors, ", "))
		}
	}
	return nil
}
