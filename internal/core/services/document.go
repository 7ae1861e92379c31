package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService reads published documents from an index store.
type DocumentService struct {
	reader driven.IndexReader
}

// NewDocumentService creates a new document service.
func NewDocumentService(reader driven.IndexReader) *DocumentService {
	return &DocumentService{reader: reader}
}

// List returns the primary keys stored in an index.
func (s *DocumentService) List(ctx context.Context, index string) ([]string, error) {
	if index == "" {
		return nil, fmt.Errorf("%w: index name is required", domain.ErrInvalidInput)
	}
	if s.reader == nil {
		return nil, domain.ErrUnsupportedType
	}
	return s.reader.ListKeys(ctx, index)
}

// Get retrieves the document for a primary key.
func (s *DocumentService) Get(ctx context.Context, index, primaryKey string) (*domain.Document, error) {
	if index == "" || primaryKey == "" {
		return nil, fmt.Errorf("%w: index name and primary key are required", domain.ErrInvalidInput)
	}
	if s.reader == nil {
		return nil, domain.ErrUnsupportedType
	}
	return s.reader.GetDocument(ctx, index, primaryKey)
}

// GetDetails returns a display summary of a document.
func (s *DocumentService) GetDetails(ctx context.Context, index, primaryKey string) (*driving.DocumentDetails, error) {
	doc, err := s.Get(ctx, index, primaryKey)
	if err != nil {
		return nil, err
	}

	details := &driving.DocumentDetails{
		Index:      index,
		PrimaryKey: primaryKey,
		Categories: make(map[domain.FileCategory]int, len(doc.Files)),
	}
	for category, paths := range doc.Files {
		details.Categories[category] = len(paths)
		details.FileCount += len(paths)
	}
	return details, nil
}
