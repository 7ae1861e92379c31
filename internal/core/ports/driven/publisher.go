package driven

import (
	"context"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
)

// IndexPublisher persists document sets into a named index.
// Backed by Elasticsearch, SQLite, or memory.
type IndexPublisher interface {
	// EnsureIndex creates the index if it does not exist yet.
	EnsureIndex(ctx context.Context, index string) error

	// Publish writes every document in docs, overwriting any existing
	// document with the same primary key. An empty set is a no-op write.
	Publish(ctx context.Context, index string, docs *domain.DocumentSet) error
}
