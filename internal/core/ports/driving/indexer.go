package driving

import (
	"context"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
)

// Indexer runs the batch: list, match, classify, aggregate, publish.
type Indexer interface {
	// Run processes every pattern in cfg sequentially.
	Run(ctx context.Context, cfg RunConfig) (*RunReport, error)
}

// RunConfig holds the explicit inputs of one indexing run.
type RunConfig struct {
	// IndexName is the target index shared by all patterns.
	IndexName string

	// Patterns are the path templates to scan, in order.
	Patterns []string

	// Categories is the ordered classification list.
	// Empty means domain.DefaultCategories.
	Categories []domain.FileCategory
}

// RunReport summarises a finished (or aborted) run.
type RunReport struct {
	// RunID identifies the run in logs and metrics.
	RunID string

	// Published lists the patterns whose documents were written.
	Published []string

	// Documents is the total number of documents published.
	Documents int

	// Failed lists patterns skipped because they could not be parsed.
	Failed []string
}
