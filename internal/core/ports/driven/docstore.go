package driven

import (
	"context"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
)

// IndexReader reads back published documents.
// Backed by SQLite or memory; Elasticsearch indexes are queried directly.
type IndexReader interface {
	// GetDocument retrieves a document by index and primary key.
	// Returns domain.ErrNotFound when either is unknown.
	GetDocument(ctx context.Context, index, primaryKey string) (*domain.Document, error)

	// ListKeys returns the primary keys stored in an index, sorted.
	ListKeys(ctx context.Context, index string) ([]string, error)
}
