package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
)

type staticLoader struct {
	ds  *domain.Dataset
	err error
}

func (l staticLoader) Load(string) (*domain.Dataset, error) { return l.ds, l.err }

func TestPatternService_LoadDataset(t *testing.T) {
	svc := NewPatternService(staticLoader{ds: &domain.Dataset{
		Name:     "Platinum Genomes",
		Patterns: []string{"gs://b/PRIMARY_KEY.bam"},
	}}, nil)

	info, err := svc.LoadDataset("/cfg")

	require.NoError(t, err)
	assert.Equal(t, "Platinum Genomes", info.Name)
	assert.Equal(t, "platinum_genomes", info.IndexName)
	assert.Equal(t, []string{"gs://b/PRIMARY_KEY.bam"}, info.Patterns)
}

func TestPatternService_LoadDatasetError(t *testing.T) {
	svc := NewPatternService(staticLoader{err: domain.ErrNotFound}, nil)

	_, err := svc.LoadDataset("/cfg")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatternService_LoadDatasetNoLoader(t *testing.T) {
	_, err := NewPatternService(nil, nil).LoadDataset("/cfg")

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestPatternService_Lint(t *testing.T) {
	svc := NewPatternService(nil, gsOnly{})

	reports := svc.Lint([]string{
		"gs://genomics-public-data/platinum-genomes/bam/PRIMARY_KEY_S1.bam",
		"gs://bucket/ds/static.bam",
		"gs://bucket/PRIMARY_KEY/PRIMARY_KEY.bam",
		"s3://bucket/ds/PRIMARY_KEY",
		"no-scheme",
	})
	require.Len(t, reports, 5)

	ok := reports[0]
	assert.True(t, ok.OK(), ok.Problems)
	assert.Equal(t, "gs", ok.Scheme)
	assert.Equal(t, "genomics-public-data", ok.Bucket)
	assert.Equal(t, "platinum-genomes/bam/", ok.ListingPrefix)
	assert.Equal(t, 1, ok.Placeholders)
	assert.Contains(t, ok.Expression, "(?P<primary_key>")

	assert.False(t, reports[1].OK())
	assert.Contains(t, reports[1].Problems[0], "no PRIMARY_KEY placeholder")

	assert.Equal(t, 2, reports[2].Placeholders)
	assert.Contains(t, reports[2].Problems, "2 PRIMARY_KEY placeholders: only the first captures the key")
	assert.Contains(t, reports[2].Problems, "empty listing prefix: the whole bucket will be listed")

	require.Len(t, reports[3].Problems, 1)
	assert.Contains(t, reports[3].Problems[0], `scheme "s3" has no lister`)

	assert.False(t, reports[4].OK())
	assert.Empty(t, reports[4].Bucket)
}

func TestPatternService_LintWithoutListers(t *testing.T) {
	reports := NewPatternService(nil, nil).Lint([]string{"ftp://bucket/ds/PRIMARY_KEY"})

	require.Len(t, reports, 1)
	assert.True(t, reports[0].OK())
}
