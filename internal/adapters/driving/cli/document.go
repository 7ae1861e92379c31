package cli

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driving"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Read indexed documents",
	Long:  `List and view documents published to the local SQLite index store.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list [index]",
	Short: "List primary keys in an index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [index] [primary-key]",
	Short: "Show a document",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentGet,
}

// documentJSON prints the raw document instead of the summary.
var documentJSON bool

func init() {
	documentGetCmd.Flags().BoolVar(&documentJSON, "json", false, "Print the document as JSON")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	rootCmd.AddCommand(documentCmd)
}

// openDocuments opens the document service over the configured data dir.
func openDocuments() (driving.DocumentService, func() error, error) {
	if deps.Documents == nil {
		return nil, nil, fmt.Errorf("document service %w", errNotConfigured)
	}
	settings, err := currentSettings()
	if err != nil {
		return nil, nil, err
	}
	return deps.Documents(settings.DataDir)
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	docs, closeFn, err := openDocuments()
	if err != nil {
		return err
	}
	defer closeFn() //nolint:errcheck

	index := args[0]
	keys, err := docs.List(cmd.Context(), index)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(keys) == 0 {
		cmd.Printf("No documents found in index: %s\n", index)
		return nil
	}

	cmd.Printf("Documents in %s:\n\n", index)
	for _, key := range keys {
		cmd.Printf("  %s\n", key)
	}
	cmd.Printf("\nTotal: %s documents\n", humanize.Comma(int64(len(keys))))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	docs, closeFn, err := openDocuments()
	if err != nil {
		return err
	}
	defer closeFn() //nolint:errcheck

	index, key := args[0], args[1]
	ctx := cmd.Context()

	if documentJSON {
		doc, err := docs.Get(ctx, index, key)
		if err != nil {
			return fmt.Errorf("failed to get document: %w", err)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	details, err := docs.GetDetails(ctx, index, key)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	doc, err := docs.Get(ctx, index, key)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", details.PrimaryKey)
	cmd.Printf("  Index:  %s\n", details.Index)
	cmd.Printf("  Files:  %d\n", details.FileCount)

	categories := make([]domain.FileCategory, 0, len(doc.Files))
	for category := range doc.Files {
		categories = append(categories, category)
	}
	slices.Sort(categories)

	for _, category := range categories {
		cmd.Printf("\n  [%s] %d\n", category, details.Categories[category])
		for _, path := range doc.Files[category] {
			cmd.Printf("    %s\n", path)
		}
	}
	return nil
}
