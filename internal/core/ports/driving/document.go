package driving

import (
	"context"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
)

// DocumentService reads documents published by earlier runs.
type DocumentService interface {
	// List returns the primary keys stored in an index.
	List(ctx context.Context, index string) ([]string, error)

	// Get retrieves the document for a primary key.
	Get(ctx context.Context, index, primaryKey string) (*domain.Document, error)

	// GetDetails returns a display summary of a document.
	GetDetails(ctx context.Context, index, primaryKey string) (*DocumentDetails, error)
}

// DocumentDetails is a display view of one document.
type DocumentDetails struct {
	// Index is the index the document lives in.
	Index string

	// PrimaryKey is the document identifier.
	PrimaryKey string

	// FileCount is the total number of paths across categories.
	FileCount int

	// Categories maps each category to its path count.
	Categories map[domain.FileCategory]int
}
