// Package gcs lists Cloud Storage objects for gs:// patterns.
package gcs

import (
	"context"
	"time"

	"google.golang.org/api/storage/v1"

	"github.com/custodia-labs/gcs-indexer/internal/connectors/google"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
)

// Scheme is the URL scheme served by this lister.
const Scheme = "gs"

// DefaultPageSize is the number of objects requested per listing page.
const DefaultPageSize = 1000

// MaxRateLimitRetries bounds how often one page is retried after a 429.
const MaxRateLimitRetries = 3

// Ensure Lister implements the interface.
var _ driven.ObjectLister = (*Lister)(nil)

// Lister pages through objects.list for a bucket and prefix.
type Lister struct {
	svc      *storage.Service
	limiter  *google.RateLimiter
	pageSize int64
	backoff  time.Duration
}

// NewLister creates a lister. A nil limiter uses google.NewRateLimiter.
func NewLister(svc *storage.Service, limiter *google.RateLimiter) *Lister {
	if limiter == nil {
		limiter = google.NewRateLimiter()
	}
	return &Lister{svc: svc, limiter: limiter, pageSize: DefaultPageSize}
}

// WithPageSize overrides the page size.
func (l *Lister) WithPageSize(n int64) *Lister {
	if n > 0 {
		l.pageSize = n
	}
	return l
}

// WithBackoff sets the pause after a 429 without Retry-After. Zero uses
// google.DefaultBackoff.
func (l *Lister) WithBackoff(d time.Duration) *Lister {
	l.backoff = d
	return l
}

// ListObjects visits every object name under prefix, one page at a time.
// Only object names are requested from the API.
func (l *Lister) ListObjects(ctx context.Context, bucket, prefix string, visit func(name string) error) error {
	call := l.svc.Objects.List(bucket).
		Prefix(prefix).
		MaxResults(l.pageSize).
		Fields("nextPageToken", "items(name)")

	for {
		page, err := l.fetch(ctx, call)
		if err != nil {
			return err
		}

		for _, obj := range page.Items {
			if err := visit(obj.Name); err != nil {
				return err
			}
		}

		if page.NextPageToken == "" {
			return nil
		}
		call.PageToken(page.NextPageToken)
	}
}

// fetch requests one page, backing off and retrying while the API answers
// 429.
func (l *Lister) fetch(ctx context.Context, call *storage.ObjectsListCall) (*storage.Objects, error) {
	for attempt := 0; ; attempt++ {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := call.Context(ctx).Do()
		if err == nil {
			return page, nil
		}
		if !google.IsRateLimited(err) || attempt == MaxRateLimitRetries {
			return nil, google.WrapError(err)
		}

		retryAfter := google.RetryAfter(err)
		if retryAfter == 0 {
			retryAfter = l.backoff
		}
		l.limiter.RecordRateLimitError(retryAfter)
	}
}
