package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
)

// Ensure ObjectStore implements the interface.
var _ driven.ObjectLister = (*ObjectStore)(nil)

// ObjectStore is an in-memory implementation of driven.ObjectLister.
// Names are listed in insertion order.
type ObjectStore struct {
	mu      sync.RWMutex
	buckets map[string][]string
}

// NewObjectStore creates a new in-memory object store.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{buckets: make(map[string][]string)}
}

// Put adds object names to a bucket.
func (s *ObjectStore) Put(bucket string, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[bucket] = append(s.buckets[bucket], names...)
}

// Buckets returns the known bucket names, sorted.
func (s *ObjectStore) Buckets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListObjects visits every name in bucket starting with prefix.
// A missing bucket lists nothing.
func (s *ObjectStore) ListObjects(ctx context.Context, bucket, prefix string, visit func(name string) error) error {
	s.mu.RLock()
	names := append([]string(nil), s.buckets[bucket]...)
	s.mu.RUnlock()

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
