package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driving"
	"github.com/custodia-labs/gcs-indexer/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.Indexer = (*IndexService)(nil)

// IndexService turns object listings into per-primary-key documents and
// publishes them, one pattern at a time.
type IndexService struct {
	listers   driven.ListerFactory
	publisher driven.IndexPublisher
	recorder  driven.RunRecorder
	log       *logger.Logger
	now       func() time.Time
}

// NewIndexService creates an index service. The recorder may be nil; a nil
// log falls back to logger.Default.
func NewIndexService(
	listers driven.ListerFactory,
	publisher driven.IndexPublisher,
	recorder driven.RunRecorder,
	log *logger.Logger,
) *IndexService {
	if log == nil {
		log = logger.Default
	}
	return &IndexService{
		listers:   listers,
		publisher: publisher,
		recorder:  recorder,
		log:       log,
		now:       time.Now,
	}
}

// Run scans every pattern in order and publishes one DocumentSet per pattern
// under cfg.IndexName.
//
// A pattern that cannot be parsed, or whose scheme has no lister, is logged
// and skipped; the run carries on and reports those failures as a joined
// error at the end. A listing or publish failure, including a lister that
// cannot be built, stops the run immediately.
// Patterns published before a failure stay published.
func (s *IndexService) Run(ctx context.Context, cfg driving.RunConfig) (*driving.RunReport, error) {
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("%w: index name is required", domain.ErrInvalidInput)
	}
	if s.listers == nil || s.publisher == nil {
		return nil, errors.New("index service not configured")
	}

	report := &driving.RunReport{RunID: uuid.NewString()}
	log := s.log.With("run", report.RunID)
	classifier := domain.NewClassifier(cfg.Categories)

	log.Section("Index " + cfg.IndexName)
	log.Info("Indexing %d patterns into %s (categories %v)", len(cfg.Patterns), cfg.IndexName, classifier.Categories())

	if err := s.publisher.EnsureIndex(ctx, cfg.IndexName); err != nil {
		return report, fmt.Errorf("%w: ensure index %s: %w", domain.ErrPublish, cfg.IndexName, err)
	}

	var skipped []error
	for _, template := range cfg.Patterns {
		pattern, err := domain.ParsePattern(template)
		if err != nil {
			log.Error("Skipping pattern: %v", err)
			s.recordFailure(template, "malformed")
			report.Failed = append(report.Failed, template)
			skipped = append(skipped, err)
			continue
		}
		lister, err := s.listers.Lister(pattern.Scheme())
		if errors.Is(err, domain.ErrUnsupportedType) {
			err = fmt.Errorf("%s: %w", template, err)
			log.Error("Skipping pattern: %v", err)
			s.recordFailure(template, "unsupported")
			report.Failed = append(report.Failed, template)
			skipped = append(skipped, err)
			continue
		}
		if err != nil {
			// Credentials or client setup failed; later patterns would fail the same way.
			s.recordFailure(template, "listing")
			return report, fmt.Errorf("%w: %s: %w", domain.ErrListing, template, err)
		}
		if n := pattern.PlaceholderCount(); n != 1 {
			log.Warn("Pattern %s has %d %s placeholders; matching uses the first one only",
				template, n, domain.PrimaryKeyPlaceholder)
		}

		count, err := s.indexPattern(ctx, log.With("pattern", template), lister, cfg.IndexName, pattern, classifier)
		if err != nil {
			return report, err
		}
		report.Published = append(report.Published, template)
		report.Documents += count
	}

	log.Info("Run complete: %d patterns published, %d documents, %d skipped",
		len(report.Published), report.Documents, len(report.Failed))

	if len(skipped) > 0 {
		return report, errors.Join(skipped...)
	}
	return report, nil
}

// indexPattern lists, matches, classifies and aggregates one pattern, then
// publishes the result. Publish is called even for an empty set.
func (s *IndexService) indexPattern(
	ctx context.Context,
	log *logger.Logger,
	lister driven.ObjectLister,
	index string,
	pattern *domain.PathPattern,
	classifier *domain.Classifier,
) (int, error) {
	start := s.now()
	stats := driven.PatternStats{Pattern: pattern.Template()}

	log.Info("Listing bucket %s with prefix %q", pattern.Bucket(), pattern.ListingPrefix())

	var entries []domain.Entry
	err := lister.ListObjects(ctx, pattern.Bucket(), pattern.ListingPrefix(), func(name string) error {
		stats.Listed++
		path := pattern.ObjectPath(name)

		match, ok := pattern.Match(path)
		if !ok {
			stats.Skipped++
			log.Debug("No match: %s", path)
			return nil
		}
		category, ok := classifier.Classify(path)
		if !ok {
			stats.Skipped++
			log.Debug("Unclassified: %s", path)
			return nil
		}

		stats.Matched++
		entries = append(entries, domain.Entry{PrimaryKey: match.PrimaryKey, Category: category, Path: path})
		return nil
	})
	if err != nil {
		s.recordFailure(pattern.Template(), "listing")
		return 0, fmt.Errorf("%w: %s: %w", domain.ErrListing, pattern.Template(), err)
	}

	docs := domain.Aggregate(entries)
	stats.Documents = docs.Len()

	log.Info("Publishing %d documents (%d listed, %d matched, %d skipped)",
		stats.Documents, stats.Listed, stats.Matched, stats.Skipped)

	if err := s.publisher.Publish(ctx, index, docs); err != nil {
		s.recordFailure(pattern.Template(), "publish")
		return 0, fmt.Errorf("%w: %s: %w", domain.ErrPublish, pattern.Template(), err)
	}

	stats.Duration = s.now().Sub(start)
	if s.recorder != nil {
		s.recorder.RecordPattern(stats)
	}
	return stats.Documents, nil
}

func (s *IndexService) recordFailure(pattern, kind string) {
	if s.recorder != nil {
		s.recorder.RecordFailure(pattern, kind)
	}
}
