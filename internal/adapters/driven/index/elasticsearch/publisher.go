// Package elasticsearch publishes document sets with the Elasticsearch bulk API.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
)

// DefaultTimeout bounds every request made by the publisher.
const DefaultTimeout = 20 * time.Second

// DefaultBatchSize is the number of documents sent per bulk request.
const DefaultBatchSize = 500

// Config holds publisher settings.
type Config struct {
	// URL is the cluster address, e.g. http://localhost:9200.
	URL string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// BatchSize is the number of documents per bulk request.
	// Zero means DefaultBatchSize.
	BatchSize int

	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

// Ensure Publisher implements the interface.
var _ driven.IndexPublisher = (*Publisher)(nil)

// Publisher writes documents into an Elasticsearch index, using the
// primary key as the document _id so reruns overwrite.
type Publisher struct {
	es        *elasticsearch.Client
	timeout   time.Duration
	batchSize int
}

// NewPublisher creates a publisher for the cluster at cfg.URL.
func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: elasticsearch url is required", domain.ErrInvalidInput)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Publisher{es: es, timeout: cfg.Timeout, batchSize: cfg.BatchSize}, nil
}

// EnsureIndex creates the index when it does not exist.
func (p *Publisher) EnsureIndex(ctx context.Context, index string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res, err := p.es.Indices.Exists([]string{index}, p.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	drain(res)
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("check index %s: unexpected status %s", index, res.Status())
	}

	res, err = p.es.Indices.Create(index, p.es.Indices.Create.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index "+index, res)
	}
	return nil
}

// Publish bulk-indexes docs in batches. An empty set sends nothing.
func (p *Publisher) Publish(ctx context.Context, index string, docs *domain.DocumentSet) error {
	var (
		buf   bytes.Buffer
		count int
	)
	for key, doc := range docs.All() {
		if err := encodeAction(&buf, key, doc); err != nil {
			return err
		}
		count++
		if count == p.batchSize {
			if err := p.bulk(ctx, index, &buf, count); err != nil {
				return err
			}
			buf.Reset()
			count = 0
		}
	}
	if count == 0 {
		return nil
	}
	return p.bulk(ctx, index, &buf, count)
}

func encodeAction(buf *bytes.Buffer, key string, doc *domain.Document) error {
	meta := map[string]map[string]string{"index": {"_id": key}}
	enc := json.NewEncoder(buf)
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("encode action for %s: %w", key, err)
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode document %s: %w", key, err)
	}
	return nil
}

// bulkResponse is the subset of the bulk API response we inspect.
type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

func (p *Publisher) bulk(ctx context.Context, index string, body *bytes.Buffer, count int) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res, err := p.es.Bulk(bytes.NewReader(body.Bytes()),
		p.es.Bulk.WithIndex(index),
		p.es.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk index %d documents: %w", count, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("bulk index", res)
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if !parsed.Errors {
		return nil
	}

	failed := 0
	var first string
	for _, item := range parsed.Items {
		for _, result := range item {
			if result.Error == nil {
				continue
			}
			failed++
			if first == "" {
				first = fmt.Sprintf("%s: %s: %s", result.ID, result.Error.Type, result.Error.Reason)
			}
		}
	}
	return fmt.Errorf("bulk index: %d of %d documents failed (first: %s)", failed, count, first)
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("%s: %s: %s", op, res.Status(), bytes.TrimSpace(body))
}

func drain(res *esapi.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()
}
