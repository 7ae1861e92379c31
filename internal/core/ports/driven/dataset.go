package driven

import "github.com/custodia-labs/gcs-indexer/internal/core/domain"

// DatasetLoader reads a dataset configuration directory.
type DatasetLoader interface {
	// Load reads the dataset name and path patterns from dir.
	Load(dir string) (*domain.Dataset, error)
}
