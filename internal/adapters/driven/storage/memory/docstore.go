package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var (
	_ driven.IndexPublisher = (*IndexStore)(nil)
	_ driven.IndexReader    = (*IndexStore)(nil)
)

// IndexStore is an in-memory implementation of driven.IndexPublisher.
// Documents are stored per index and overwritten by primary key.
type IndexStore struct {
	mu        sync.RWMutex
	indexes   map[string]map[string]domain.Document
	publishes int
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		indexes: make(map[string]map[string]domain.Document),
	}
}

// EnsureIndex creates the index if missing.
func (s *IndexStore) EnsureIndex(_ context.Context, index string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[index]; !ok {
		s.indexes[index] = make(map[string]domain.Document)
	}
	return nil
}

// Publish stores every document in docs under index.
func (s *IndexStore) Publish(_ context.Context, index string, docs *domain.DocumentSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishes++

	stored, ok := s.indexes[index]
	if !ok {
		stored = make(map[string]domain.Document)
		s.indexes[index] = stored
	}
	for key, doc := range docs.All() {
		stored[key] = copyDocument(doc)
	}
	return nil
}

// GetDocument retrieves a document by index and primary key.
func (s *IndexStore) GetDocument(_ context.Context, index, primaryKey string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.indexes[index][primaryKey]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyDocument(&doc)
	return &out, nil
}

// ListKeys returns the primary keys stored in an index, sorted.
func (s *IndexStore) ListKeys(_ context.Context, index string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.indexes[index]
	if !ok {
		return nil, domain.ErrNotFound
	}
	keys := make([]string, 0, len(stored))
	for key := range stored {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// PublishCount returns how many times Publish has been called.
func (s *IndexStore) PublishCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.publishes
}

func copyDocument(doc *domain.Document) domain.Document {
	files := make(map[domain.FileCategory][]string, len(doc.Files))
	for category, paths := range doc.Files {
		files[category] = append([]string(nil), paths...)
	}
	return domain.Document{Files: files}
}
