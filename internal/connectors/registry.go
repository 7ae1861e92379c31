package connectors

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
)

// ListerBuilder creates the lister for one scheme.
type ListerBuilder func() (driven.ObjectLister, error)

// Ensure Registry implements the interface.
var _ driven.ListerFactory = (*Registry)(nil)

// Registry maps URL schemes to listers. Listers are built on first use,
// so credentials for a scheme are only looked up when a pattern needs them.
type Registry struct {
	mu       sync.Mutex
	builders map[string]ListerBuilder
	built    map[string]driven.ObjectLister
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]ListerBuilder),
		built:    make(map[string]driven.ObjectLister),
	}
}

// Register adds or replaces the builder for scheme.
func (r *Registry) Register(scheme string, builder ListerBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[scheme] = builder
	delete(r.built, scheme)
}

// Lister returns the lister for scheme, building it if needed.
func (r *Registry) Lister(scheme string) (driven.ObjectLister, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lister, ok := r.built[scheme]; ok {
		return lister, nil
	}
	builder, ok := r.builders[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: no lister for scheme %q", domain.ErrUnsupportedType, scheme)
	}
	lister, err := builder()
	if err != nil {
		return nil, fmt.Errorf("create %s lister: %w", scheme, err)
	}
	r.built[scheme] = lister
	return lister, nil
}

// Schemes returns the registered schemes, sorted.
func (r *Registry) Schemes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	schemes := make([]string, 0, len(r.builders))
	for scheme := range r.builders {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)
	return schemes
}
