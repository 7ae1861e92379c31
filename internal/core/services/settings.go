package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySink           = "sink"
	keyCategories     = "categories"
	keyESURL          = "elasticsearch.url"
	keyPublishTimeout = "publish.timeout_seconds"
	keyListingRPS     = "listing.requests_per_second"
	keyListingBurst   = "listing.burst"
	keyGCSEndpoint    = "gcs.endpoint"
	keyGCSAnonymous   = "gcs.anonymous"
	keyS3Endpoint     = "s3.endpoint"
	keyS3AccessKey    = "s3.access_key"
	keyS3SecretKey    = "s3.secret_key"
	keyS3Region       = "s3.region"
	keyS3UseSSL       = "s3.use_ssl"
	keyPushgateway    = "metrics.pushgateway_url"
	keyDataDir        = "storage.data_dir"
)

// SettingsService reads and writes run defaults through a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Unset keys take their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	if s.configStore == nil {
		return &defaults, nil
	}

	settings := &domain.AppSettings{
		Sink: domain.Sink(s.getString(keySink, defaults.Sink.String())),
		Elasticsearch: domain.ElasticsearchSettings{
			URL:     s.configStore.GetString(keyESURL),
			Timeout: s.getSeconds(keyPublishTimeout, defaults.Elasticsearch.Timeout),
		},
		Listing: domain.ListingSettings{
			RequestsPerSecond: s.getFloat(keyListingRPS, defaults.Listing.RequestsPerSecond),
			Burst:             s.getInt(keyListingBurst, defaults.Listing.Burst),
		},
		GCS: domain.GCSSettings{
			Endpoint:  s.configStore.GetString(keyGCSEndpoint),
			Anonymous: s.configStore.GetBool(keyGCSAnonymous),
		},
		S3: domain.S3Settings{
			Endpoint:  s.getString(keyS3Endpoint, defaults.S3.Endpoint),
			AccessKey: s.configStore.GetString(keyS3AccessKey),
			SecretKey: s.configStore.GetString(keyS3SecretKey),
			Region:    s.configStore.GetString(keyS3Region),
			UseSSL:    s.getBool(keyS3UseSSL, defaults.S3.UseSSL),
		},
		Categories:     defaults.Categories,
		PushgatewayURL: s.configStore.GetString(keyPushgateway),
		DataDir:        s.configStore.GetString(keyDataDir),
	}

	if tags := s.configStore.GetStringSlice(keyCategories); len(tags) > 0 {
		settings.Categories = domain.ParseCategories(tags)
	}

	return settings, nil
}

// Save persists settings. Secrets are only written when set.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrUnsupportedType
	}
	if !settings.Sink.IsValid() {
		return fmt.Errorf("%w: unknown sink %q", domain.ErrInvalidInput, settings.Sink)
	}

	categories := make([]string, len(settings.Categories))
	for i, c := range settings.Categories {
		categories[i] = string(c)
	}

	values := []struct {
		key   string
		value any
	}{
		{keySink, settings.Sink.String()},
		{keyCategories, categories},
		{keyESURL, settings.Elasticsearch.URL},
		{keyPublishTimeout, int(settings.Elasticsearch.Timeout / time.Second)},
		{keyListingRPS, settings.Listing.RequestsPerSecond},
		{keyListingBurst, settings.Listing.Burst},
		{keyGCSEndpoint, settings.GCS.Endpoint},
		{keyGCSAnonymous, settings.GCS.Anonymous},
		{keyS3Endpoint, settings.S3.Endpoint},
		{keyS3Region, settings.S3.Region},
		{keyS3UseSSL, settings.S3.UseSSL},
		{keyPushgateway, settings.PushgatewayURL},
		{keyDataDir, settings.DataDir},
	}
	if settings.S3.AccessKey != "" {
		values = append(values, struct {
			key   string
			value any
		}{keyS3AccessKey, settings.S3.AccessKey})
	}
	if settings.S3.SecretKey != "" {
		values = append(values, struct {
			key   string
			value any
		}{keyS3SecretKey, settings.S3.SecretKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetSink updates the default sink.
func (s *SettingsService) SetSink(sink domain.Sink) error {
	if !sink.IsValid() {
		return fmt.Errorf("%w: unknown sink %q", domain.ErrInvalidInput, sink)
	}
	if s.configStore == nil {
		return domain.ErrUnsupportedType
	}
	return s.configStore.Set(keySink, sink.String())
}

// SetElasticsearchURL updates the default cluster address.
func (s *SettingsService) SetElasticsearchURL(url string) error {
	if s.configStore == nil {
		return domain.ErrUnsupportedType
	}
	return s.configStore.Set(keyESURL, url)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, def bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSeconds(key string, def time.Duration) time.Duration {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Second
}
