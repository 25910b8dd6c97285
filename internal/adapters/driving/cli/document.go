package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driving"
	"github.com/custodia-labs/overlap/internal/core/services"
)

var (
	addTitle  string
	addAuthor string
	addFile   string

	listAuthor    string
	listTitle     string
	listMinLength int
	listFrom      string
	listTo        string
	listJSON      bool
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage corpus documents",
	Long:  `Add, list, view, or delete the documents submissions are checked against.`,
}

var documentAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a document to the corpus",
	Long: `Stores a new document. The text is taken from the arguments, from --file,
or from stdin. Texts must be between 50 and 100000 characters.`,
	RunE: runDocumentAdd,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentAddCmd.Flags().StringVar(&addTitle, "title", "", "document title (required)")
	documentAddCmd.Flags().StringVar(&addAuthor, "author", "", "document author")
	documentAddCmd.Flags().StringVarP(&addFile, "file", "f", "", "read the text from a file")

	documentListCmd.Flags().StringVar(&listAuthor, "author", "", "only documents by this author")
	documentListCmd.Flags().StringVar(&listTitle, "title", "", "only titles containing this text")
	documentListCmd.Flags().IntVar(&listMinLength, "min-length", 0, "only documents at least this many characters long")
	documentListCmd.Flags().StringVar(&listFrom, "from", "", "only documents created on or after this date (YYYY-MM-DD)")
	documentListCmd.Flags().StringVar(&listTo, "to", "", "only documents created on or before this date (YYYY-MM-DD)")
	documentListCmd.Flags().BoolVar(&listJSON, "json", false, "output documents as JSON")

	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentAdd(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	text, err := readText(cmd, args, addFile)
	if err != nil {
		return err
	}

	doc, err := documentService.Upload(commandContext(cmd), driving.UploadRequest{
		Author: addAuthor,
		Title:  addTitle,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	cmd.Printf("Added document %s (%d characters)\n", doc.ID, doc.Length())
	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	filters, err := listFilters()
	if err != nil {
		return err
	}

	docs, err := documentService.List(commandContext(cmd), filters...)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if listJSON {
		return printJSON(cmd, docs)
	}
	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		if docs[i].Author != "" {
			cmd.Printf("    Author: %s\n", docs[i].Author)
		}
		cmd.Printf("    Length: %d\n", docs[i].Length())
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func listFilters() ([]domain.DocumentFilter, error) {
	var filters []domain.DocumentFilter
	if listAuthor != "" {
		filters = append(filters, services.ByAuthor(listAuthor))
	}
	if listTitle != "" {
		filters = append(filters, services.ByTitle(listTitle))
	}
	if listMinLength > 0 {
		filters = append(filters, services.ByMinLength(listMinLength))
	}

	var from, to time.Time
	var err error
	if listFrom != "" {
		if from, err = time.Parse(time.DateOnly, listFrom); err != nil {
			return nil, fmt.Errorf("invalid --from date %q", listFrom)
		}
	}
	if listTo != "" {
		if to, err = time.Parse(time.DateOnly, listTo); err != nil {
			return nil, fmt.Errorf("invalid --to date %q", listTo)
		}
		// Include the whole day.
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	if !from.IsZero() || !to.IsZero() {
		filters = append(filters, services.ByDateRange(from, to))
	}
	return filters, nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  Author:   %s\n", doc.Author)
	cmd.Printf("  Length:   %d\n", doc.Length())
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Println()
	cmd.Println(doc.Text)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}
