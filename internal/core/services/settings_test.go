package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gcs-indexer/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, service.GetDefaults(), *settings)
}

func TestSettingsService_Get_NilStore(t *testing.T) {
	service := NewSettingsService(nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.SinkElasticsearch, settings.Sink)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("sink", "sqlite")
	_ = store.Set("elasticsearch.url", "http://es:9200")
	_ = store.Set("publish.timeout_seconds", int64(45))
	_ = store.Set("listing.requests_per_second", 2.5)
	_ = store.Set("listing.burst", 3)
	_ = store.Set("categories", []string{"cram", " ", "bam"})
	_ = store.Set("s3.endpoint", "minio:9000")
	_ = store.Set("s3.use_ssl", false)
	_ = store.Set("metrics.pushgateway_url", "http://push:9091")

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.SinkSQLite, settings.Sink)
	assert.Equal(t, "http://es:9200", settings.Elasticsearch.URL)
	assert.Equal(t, 45*time.Second, settings.Elasticsearch.Timeout)
	assert.InDelta(t, 2.5, settings.Listing.RequestsPerSecond, 0.0001)
	assert.Equal(t, 3, settings.Listing.Burst)
	assert.Equal(t, []domain.FileCategory{domain.CategoryCRAM, domain.CategoryBAM}, settings.Categories)
	assert.Equal(t, "minio:9000", settings.S3.Endpoint)
	assert.False(t, settings.S3.UseSSL)
	assert.Equal(t, "http://push:9091", settings.PushgatewayURL)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	want := service.GetDefaults()
	want.Sink = domain.SinkDryRun
	want.Elasticsearch.URL = "http://es:9200"
	want.Elasticsearch.Timeout = 5 * time.Second
	want.S3.AccessKey = "key"
	want.S3.SecretKey = "secret"
	want.Categories = []domain.FileCategory{domain.CategoryVCF}
	want.DataDir = "/var/lib/gcs-indexer"
	want.GCS.Anonymous = true

	require.NoError(t, service.Save(&want))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestSettingsService_SaveSkipsEmptySecrets(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	settings := service.GetDefaults()

	require.NoError(t, service.Save(&settings))

	_, ok := store.Get("s3.secret_key")
	assert.False(t, ok)
}

func TestSettingsService_SaveRejectsUnknownSink(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	settings := service.GetDefaults()
	settings.Sink = "solr"

	err := service.Save(&settings)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SetSink(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetSink(domain.SinkSQLite))
	assert.Equal(t, "sqlite", store.GetString("sink"))

	assert.ErrorIs(t, service.SetSink("solr"), domain.ErrInvalidInput)
}

func TestSettingsService_SetElasticsearchURL(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetElasticsearchURL("http://es:9200"))

	assert.Equal(t, "http://es:9200", store.GetString("elasticsearch.url"))
}
