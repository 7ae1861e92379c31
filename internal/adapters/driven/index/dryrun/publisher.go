// Package dryrun provides a publisher that prints document sets instead of
// writing them anywhere.
package dryrun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
)

// Ensure Publisher implements the interface.
var _ driven.IndexPublisher = (*Publisher)(nil)

// Publisher writes each published set to w as an indented JSON object:
//
//	{"index": "samples", "documents": {"A1": {"files": {"bam": [...]}}}}
type Publisher struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPublisher creates a dry-run publisher writing to w.
func NewPublisher(w io.Writer) *Publisher {
	return &Publisher{w: w}
}

// EnsureIndex does nothing; there is no index to create.
func (p *Publisher) EnsureIndex(context.Context, string) error {
	return nil
}

type publication struct {
	Index     string              `json:"index"`
	Documents *domain.DocumentSet `json:"documents"`
}

// Publish prints docs, including empty sets.
func (p *Publisher) Publish(ctx context.Context, index string, docs *domain.DocumentSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(publication{Index: index, Documents: docs}); err != nil {
		return fmt.Errorf("write dry-run output: %w", err)
	}
	return nil
}
