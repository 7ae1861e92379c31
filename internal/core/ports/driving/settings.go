package driving

import "github.com/custodia-labs/gcs-indexer/internal/core/domain"

// SettingsService manages persisted run defaults.
type SettingsService interface {
	// Get retrieves current settings, filling gaps with defaults.
	Get() (*domain.AppSettings, error)

	// Save persists settings.
	Save(settings *domain.AppSettings) error

	// SetSink updates the default sink.
	SetSink(sink domain.Sink) error

	// SetElasticsearchURL updates the default cluster address.
	SetElasticsearchURL(url string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
