package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gcs-indexer/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driving"
	"github.com/custodia-labs/gcs-indexer/internal/logger"
)

// --- Mock implementations for index testing ---

// failingLister yields names then fails, like a dropped connection mid-listing.
type failingLister struct {
	names []string
	err   error
}

func (l *failingLister) ListObjects(_ context.Context, _, _ string, visit func(string) error) error {
	for _, name := range l.names {
		if err := visit(name); err != nil {
			return err
		}
	}
	return l.err
}

// staticListers serves one lister for every scheme.
type staticListers struct {
	lister driven.ObjectLister
}

func (f staticListers) Lister(string) (driven.ObjectLister, error) { return f.lister, nil }
func (f staticListers) Schemes() []string                         { return []string{"gs"} }

// recordingPublisher captures every publish call.
type recordingPublisher struct {
	ensured    []string
	published  []*domain.DocumentSet
	ensureErr  error
	publishErr error
}

func (p *recordingPublisher) EnsureIndex(_ context.Context, index string) error {
	p.ensured = append(p.ensured, index)
	return p.ensureErr
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, docs *domain.DocumentSet) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.published = append(p.published, docs)
	return nil
}

// mockRecorder implements driven.RunRecorder.
type mockRecorder struct {
	stats    []driven.PatternStats
	failures map[string]string
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{failures: make(map[string]string)}
}

func (r *mockRecorder) RecordPattern(stats driven.PatternStats) {
	r.stats = append(r.stats, stats)
}

func (r *mockRecorder) RecordFailure(pattern, kind string) {
	r.failures[pattern] = kind
}

func scenarioStore() *memory.ObjectStore {
	store := memory.NewObjectStore()
	store.Put("bucket",
		"ds/bam/A1.bam",
		"ds/bam/A1.vcf",
		"ds/bam/A2.bam",
		"ds/other/ignored.txt",
	)
	return store
}

// The template ends at "." rather than ".bam": an escaped ".bam" suffix could
// never match A1.vcf, which the scenario expects in A1's document.
func TestIndexService_Scenario(t *testing.T) {
	index := memory.NewIndexStore()
	svc := NewIndexService(staticListers{scenarioStore()}, index, nil, logger.Discard())
	ctx := context.Background()

	report, err := svc.Run(ctx, driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"gs://bucket/ds/bam/PRIMARY_KEY."},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, []string{"gs://bucket/ds/bam/PRIMARY_KEY."}, report.Published)
	assert.NotEmpty(t, report.RunID)

	keys, err := index.ListKeys(ctx, "genomes")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, keys)

	a1, err := index.GetDocument(ctx, "genomes", "A1")
	require.NoError(t, err)
	assert.Equal(t, map[domain.FileCategory][]string{
		domain.CategoryBAM: {"gs://bucket/ds/bam/A1.bam"},
		domain.CategoryVCF: {"gs://bucket/ds/bam/A1.vcf"},
	}, a1.Files)

	a2, err := index.GetDocument(ctx, "genomes", "A2")
	require.NoError(t, err)
	assert.Equal(t, map[domain.FileCategory][]string{
		domain.CategoryBAM: {"gs://bucket/ds/bam/A2.bam"},
	}, a2.Files)
}

func TestIndexService_SuffixInTemplateFiltersOtherFormats(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := NewIndexService(staticListers{scenarioStore()}, publisher, nil, logger.Discard())

	_, err := svc.Run(context.Background(), driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"gs://bucket/ds/bam/PRIMARY_KEY.bam"},
	})

	require.NoError(t, err)
	require.Len(t, publisher.published, 1)
	docs := publisher.published[0]
	assert.Equal(t, []string{"A1", "A2"}, docs.Keys())

	a1, _ := docs.Get("A1")
	assert.Equal(t, map[domain.FileCategory][]string{
		domain.CategoryBAM: {"gs://bucket/ds/bam/A1.bam"},
	}, a1.Files)
}

func TestIndexService_EmptyListingStillPublishes(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := NewIndexService(staticListers{memory.NewObjectStore()}, publisher, nil, logger.Discard())

	report, err := svc.Run(context.Background(), driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"gs://empty/ds/PRIMARY_KEY.bam"},
	})

	require.NoError(t, err)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, 0, publisher.published[0].Len())
	assert.Equal(t, 0, report.Documents)
	assert.Equal(t, []string{"genomes"}, publisher.ensured)
}

func TestIndexService_ListingErrorAbortsWithoutPublishing(t *testing.T) {
	publisher := &recordingPublisher{}
	recorder := newMockRecorder()
	lister := &failingLister{
		names: []string{"ds/A1.bam", "ds/A2.bam"},
		err:   errors.New("connection reset by peer"),
	}
	svc := NewIndexService(staticListers{lister}, publisher, recorder, logger.Discard())

	report, err := svc.Run(context.Background(), driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"gs://bucket/ds/PRIMARY_KEY.bam", "gs://bucket/other/PRIMARY_KEY.vcf"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrListing))
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.Empty(t, publisher.published)
	assert.Empty(t, report.Published)
	assert.Equal(t, "listing", recorder.failures["gs://bucket/ds/PRIMARY_KEY.bam"])
	assert.NotContains(t, recorder.failures, "gs://bucket/other/PRIMARY_KEY.vcf")
}

func TestIndexService_EarlierPatternsStayPublished(t *testing.T) {
	store := memory.NewObjectStore()
	store.Put("good", "ds/A1.bam")
	index := memory.NewIndexStore()
	svc := NewIndexService(staticListers{&routeLister{
		routes: map[string]driven.ObjectLister{
			"good": store,
			"bad":  &failingLister{err: errors.New("forbidden")},
		},
	}}, index, nil, logger.Discard())
	ctx := context.Background()

	report, err := svc.Run(ctx, driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"gs://good/ds/PRIMARY_KEY.bam", "gs://bad/ds/PRIMARY_KEY.bam"},
	})

	assert.ErrorIs(t, err, domain.ErrListing)
	assert.Equal(t, []string{"gs://good/ds/PRIMARY_KEY.bam"}, report.Published)
	_, getErr := index.GetDocument(ctx, "genomes", "A1")
	assert.NoError(t, getErr)
}

func TestIndexService_PublishErrorAborts(t *testing.T) {
	publisher := &recordingPublisher{publishErr: errors.New("timeout")}
	recorder := newMockRecorder()
	svc := NewIndexService(staticListers{scenarioStore()}, publisher, recorder, logger.Discard())

	_, err := svc.Run(context.Background(), driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"gs://bucket/ds/bam/PRIMARY_KEY.", "gs://bucket/ds/other/PRIMARY_KEY."},
	})

	assert.ErrorIs(t, err, domain.ErrPublish)
	assert.Equal(t, "publish", recorder.failures["gs://bucket/ds/bam/PRIMARY_KEY."])
	assert.Empty(t, recorder.stats)
}

func TestIndexService_EnsureIndexError(t *testing.T) {
	publisher := &recordingPublisher{ensureErr: errors.New("cluster red")}
	svc := NewIndexService(staticListers{scenarioStore()}, publisher, nil, logger.Discard())

	_, err := svc.Run(context.Background(), driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"gs://bucket/ds/bam/PRIMARY_KEY."},
	})

	assert.ErrorIs(t, err, domain.ErrPublish)
	assert.Empty(t, publisher.published)
}

func TestIndexService_MalformedPatternSkipped(t *testing.T) {
	publisher := &recordingPublisher{}
	recorder := newMockRecorder()
	svc := NewIndexService(staticListers{scenarioStore()}, publisher, recorder, logger.Discard())

	report, err := svc.Run(context.Background(), driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"not-a-url/PRIMARY_KEY", "gs://bucket/ds/bam/PRIMARY_KEY."},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedPattern)
	assert.Equal(t, []string{"not-a-url/PRIMARY_KEY"}, report.Failed)
	assert.Equal(t, []string{"gs://bucket/ds/bam/PRIMARY_KEY."}, report.Published)
	assert.Len(t, publisher.published, 1)
	assert.Equal(t, "malformed", recorder.failures["not-a-url/PRIMARY_KEY"])
}

func TestIndexService_UnsupportedSchemeSkipped(t *testing.T) {
	publisher := &recordingPublisher{}
	recorder := newMockRecorder()
	svc := NewIndexService(gsOnly{scenarioStore()}, publisher, recorder, logger.Discard())

	report, err := svc.Run(context.Background(), driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"ftp://bucket/ds/PRIMARY_KEY.bam", "gs://bucket/ds/bam/PRIMARY_KEY."},
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Equal(t, []string{"ftp://bucket/ds/PRIMARY_KEY.bam"}, report.Failed)
	assert.Len(t, publisher.published, 1)
	assert.Equal(t, "unsupported", recorder.failures["ftp://bucket/ds/PRIMARY_KEY.bam"])
}

func TestIndexService_ListerSetupErrorAborts(t *testing.T) {
	publisher := &recordingPublisher{}
	recorder := newMockRecorder()
	listers := brokenScheme{
		scheme: "gs",
		err:    errors.New("could not find default credentials"),
		lister: scenarioStore(),
	}
	svc := NewIndexService(listers, publisher, recorder, logger.Discard())

	report, err := svc.Run(context.Background(), driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"gs://bucket/ds/bam/PRIMARY_KEY.", "s3://bucket/ds/bam/PRIMARY_KEY."},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrListing)
	assert.NotErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "could not find default credentials")
	assert.Empty(t, publisher.published)
	assert.Empty(t, report.Published)
	assert.Empty(t, report.Failed)
	assert.Equal(t, "listing", recorder.failures["gs://bucket/ds/bam/PRIMARY_KEY."])
}

func TestIndexService_FreshSetPerPattern(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := NewIndexService(staticListers{scenarioStore()}, publisher, nil, logger.Discard())

	_, err := svc.Run(context.Background(), driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"gs://bucket/ds/bam/PRIMARY_KEY.bam", "gs://bucket/ds/bam/PRIMARY_KEY.vcf"},
	})

	require.NoError(t, err)
	require.Len(t, publisher.published, 2)
	assert.Equal(t, []string{"A1", "A2"}, publisher.published[0].Keys())
	assert.Equal(t, []string{"A1"}, publisher.published[1].Keys())

	a1, _ := publisher.published[1].Get("A1")
	assert.Equal(t, map[domain.FileCategory][]string{
		domain.CategoryVCF: {"gs://bucket/ds/bam/A1.vcf"},
	}, a1.Files)
}

func TestIndexService_CustomCategories(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := NewIndexService(staticListers{scenarioStore()}, publisher, nil, logger.Discard())

	_, err := svc.Run(context.Background(), driving.RunConfig{
		IndexName:  "genomes",
		Patterns:   []string{"gs://bucket/ds/bam/PRIMARY_KEY."},
		Categories: []domain.FileCategory{domain.CategoryVCF, domain.CategoryBAM},
	})

	require.NoError(t, err)
	a1, _ := publisher.published[0].Get("A1")
	assert.Equal(t, []string{"gs://bucket/ds/bam/A1.bam", "gs://bucket/ds/bam/A1.vcf"}, a1.Files[domain.CategoryBAM])
	assert.NotContains(t, a1.Files, domain.CategoryVCF)
}

func TestIndexService_RecordsStats(t *testing.T) {
	recorder := newMockRecorder()
	svc := NewIndexService(staticListers{scenarioStore()}, memory.NewIndexStore(), recorder, logger.Discard())

	_, err := svc.Run(context.Background(), driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"gs://bucket/ds/PRIMARY_KEY.bam"},
	})

	require.NoError(t, err)
	require.Len(t, recorder.stats, 1)
	stats := recorder.stats[0]
	assert.Equal(t, "gs://bucket/ds/PRIMARY_KEY.bam", stats.Pattern)
	assert.Equal(t, 4, stats.Listed)
	assert.Equal(t, 0, stats.Matched)
	assert.Equal(t, 4, stats.Skipped)
	assert.Equal(t, 0, stats.Documents)
}

func TestIndexService_WarnsOnPlaceholderCount(t *testing.T) {
	var buf bytes.Buffer
	svc := NewIndexService(staticListers{scenarioStore()}, memory.NewIndexStore(), nil, logger.New(&buf, false))

	_, err := svc.Run(context.Background(), driving.RunConfig{
		IndexName: "genomes",
		Patterns:  []string{"gs://bucket/ds/bam/A1.bam"},
	})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[WARN] Pattern gs://bucket/ds/bam/A1.bam has 0 PRIMARY_KEY placeholders")
}

func TestIndexService_RequiresIndexName(t *testing.T) {
	svc := NewIndexService(staticListers{scenarioStore()}, memory.NewIndexStore(), nil, logger.Discard())

	_, err := svc.Run(context.Background(), driving.RunConfig{Patterns: []string{"gs://b/PRIMARY_KEY"}})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndexService_NotConfigured(t *testing.T) {
	svc := NewIndexService(nil, nil, nil, nil)

	_, err := svc.Run(context.Background(), driving.RunConfig{IndexName: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

// routeLister dispatches by bucket name.
type routeLister struct {
	routes map[string]driven.ObjectLister
}

func (r *routeLister) ListObjects(ctx context.Context, bucket, prefix string, visit func(string) error) error {
	return r.routes[bucket].ListObjects(ctx, bucket, prefix, visit)
}

// gsOnly rejects every scheme but gs.
type gsOnly struct {
	lister driven.ObjectLister
}

func (f gsOnly) Lister(scheme string) (driven.ObjectLister, error) {
	if scheme != "gs" {
		return nil, domain.ErrUnsupportedType
	}
	return f.lister, nil
}

func (f gsOnly) Schemes() []string { return []string{"gs"} }

// brokenScheme fails to build the lister for one scheme and serves lister
// for the rest.
type brokenScheme struct {
	scheme string
	err    error
	lister driven.ObjectLister
}

func (f brokenScheme) Lister(scheme string) (driven.ObjectLister, error) {
	if scheme == f.scheme {
		return nil, f.err
	}
	return f.lister, nil
}

func (f brokenScheme) Schemes() []string { return []string{"gs", "s3"} }
