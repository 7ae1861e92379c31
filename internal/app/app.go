// Package app wires adapters into the core services for the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/gcs-indexer/internal/adapters/driven/config/dataset"
	"github.com/custodia-labs/gcs-indexer/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gcs-indexer/internal/adapters/driven/index/dryrun"
	"github.com/custodia-labs/gcs-indexer/internal/adapters/driven/index/elasticsearch"
	"github.com/custodia-labs/gcs-indexer/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/gcs-indexer/internal/connectors"
	"github.com/custodia-labs/gcs-indexer/internal/connectors/google"
	"github.com/custodia-labs/gcs-indexer/internal/connectors/google/gcs"
	"github.com/custodia-labs/gcs-indexer/internal/connectors/s3"
	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driving"
	"github.com/custodia-labs/gcs-indexer/internal/core/services"
	"github.com/custodia-labs/gcs-indexer/internal/logger"
	"github.com/custodia-labs/gcs-indexer/internal/observability/metrics"
)

// NewSettingsService opens the TOML settings in configDir
// (~/.gcs-indexer when empty).
func NewSettingsService(configDir string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	return services.NewSettingsService(store), nil
}

// NewListerRegistry registers the gs and s3 listers. Clients are built on
// first use, so credentials are only needed for schemes a run touches.
func NewListerRegistry(ctx context.Context, settings domain.AppSettings) *connectors.Registry {
	registry := connectors.NewRegistry()

	registry.Register(gcs.Scheme, func() (driven.ObjectLister, error) {
		opts := google.StorageOptions{Endpoint: settings.GCS.Endpoint}
		if !settings.GCS.Anonymous {
			ts, err := google.DefaultTokenSource(ctx)
			if err != nil {
				return nil, err
			}
			opts.TokenSource = ts
		}
		svc, err := google.NewStorageService(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("create storage service: %w", err)
		}
		limiter := google.NewRateLimiterWithConfig(google.RateLimitConfig{
			RequestsPerSecond: settings.Listing.RequestsPerSecond,
			BurstSize:         settings.Listing.Burst,
		})
		return gcs.NewLister(svc, limiter), nil
	})

	registry.Register(s3.Scheme, func() (driven.ObjectLister, error) {
		return s3.NewLister(s3.Config{
			Endpoint:  settings.S3.Endpoint,
			AccessKey: settings.S3.AccessKey,
			SecretKey: settings.S3.SecretKey,
			Region:    settings.S3.Region,
			UseSSL:    settings.S3.UseSSL,
		})
	})

	return registry
}

// NewPatternService builds the dataset loader and pattern linter.
func NewPatternService(ctx context.Context, settings domain.AppSettings) driving.PatternService {
	return services.NewPatternService(dataset.NewLoader(), NewListerRegistry(ctx, settings))
}

// Session is one configured index run.
type Session struct {
	driving.Indexer

	metrics     *metrics.RunMetrics
	pushgateway string
	closers     []func() error
	log         *logger.Logger
}

// Close flushes run metrics and releases the sink.
func (s *Session) Close(ctx context.Context) error {
	var errs []error
	if s.pushgateway != "" {
		if err := s.metrics.Push(ctx, s.pushgateway); err != nil {
			// Metrics are best effort; the documents are already published.
			s.log.Warn("%v", err)
		}
	}
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewSession builds the sink chosen by settings and an index service over
// the lister registry. Dry-run output goes to out.
func NewSession(
	ctx context.Context,
	settings domain.AppSettings,
	index string,
	out io.Writer,
	log *logger.Logger,
) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Default
	}

	session := &Session{
		metrics:     metrics.NewRunMetrics(index),
		pushgateway: settings.PushgatewayURL,
		log:         log,
	}

	var publisher driven.IndexPublisher
	switch settings.Sink {
	case domain.SinkElasticsearch:
		p, err := elasticsearch.NewPublisher(elasticsearch.Config{
			URL:     settings.Elasticsearch.URL,
			Timeout: settings.Elasticsearch.Timeout,
		})
		if err != nil {
			return nil, err
		}
		publisher = p
	case domain.SinkSQLite:
		store, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open index store: %w", err)
		}
		session.closers = append(session.closers, store.Close)
		publisher = store
	case domain.SinkDryRun:
		publisher = dryrun.NewPublisher(out)
	default:
		return nil, fmt.Errorf("%w: unknown sink %q", domain.ErrUnsupportedType, settings.Sink)
	}

	session.Indexer = services.NewIndexService(NewListerRegistry(ctx, settings), publisher, session.metrics, log)
	return session, nil
}

// NewDocumentService opens the SQLite index store for reading. The returned
// function closes it.
func NewDocumentService(dataDir string) (driving.DocumentService, func() error, error) {
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open index store: %w", err)
	}
	return services.NewDocumentService(store), store.Close, nil
}
