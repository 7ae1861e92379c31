package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// Sink identifies where index runs publish documents.
type Sink string

// Available sinks.
const (
	// SinkElasticsearch bulk-indexes into an Elasticsearch cluster.
	SinkElasticsearch Sink = "elasticsearch"

	// SinkSQLite writes into the local SQLite index store.
	SinkSQLite Sink = "sqlite"

	// SinkDryRun prints each document set as JSON and writes nothing.
	SinkDryRun Sink = "dry-run"
)

// Sinks lists every supported sink.
func Sinks() []Sink {
	return []Sink{SinkElasticsearch, SinkSQLite, SinkDryRun}
}

// IsValid returns true if the sink is recognised.
func (s Sink) IsValid() bool {
	switch s {
	case SinkElasticsearch, SinkSQLite, SinkDryRun:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Sink) String() string {
	return string(s)
}

// Description returns a human-readable description of the sink.
func (s Sink) Description() string {
	switch s {
	case SinkElasticsearch:
		return "Elasticsearch (bulk API)"
	case SinkSQLite:
		return "SQLite (local index store)"
	case SinkDryRun:
		return "Dry run (print JSON)"
	default:
		return unknownDescription
	}
}

// DefaultPublishTimeout bounds each publish request.
const DefaultPublishTimeout = 20 * time.Second

// ElasticsearchSettings configures the Elasticsearch sink.
type ElasticsearchSettings struct {
	URL     string
	Timeout time.Duration
}

// ListingSettings throttles object listing.
type ListingSettings struct {
	RequestsPerSecond float64
	Burst             int
}

// GCSSettings configures listing for gs:// patterns.
type GCSSettings struct {
	// Endpoint overrides the Cloud Storage API URL (emulators).
	Endpoint string

	// Anonymous skips application default credentials; public buckets only.
	Anonymous bool
}

// S3Settings configures listing for s3:// patterns.
type S3Settings struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// AppSettings holds the persisted defaults for index runs.
// Command-line flags override these per invocation.
type AppSettings struct {
	Sink           Sink
	Elasticsearch  ElasticsearchSettings
	Listing        ListingSettings
	GCS            GCSSettings
	S3             S3Settings
	Categories     []FileCategory
	PushgatewayURL string

	// DataDir holds the SQLite index store. Empty means ~/.gcs-indexer/data.
	DataDir string
}

// DefaultAppSettings returns settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Sink: SinkElasticsearch,
		Elasticsearch: ElasticsearchSettings{
			Timeout: DefaultPublishTimeout,
		},
		Listing: ListingSettings{
			RequestsPerSecond: 10,
			Burst:             10,
		},
		S3: S3Settings{
			Endpoint: "s3.amazonaws.com",
			UseSSL:   true,
		},
		Categories: append([]FileCategory(nil), DefaultCategories...),
	}
}

// Validate checks that the settings can drive a run.
func (s *AppSettings) Validate() error {
	if !s.Sink.IsValid() {
		return fmt.Errorf("%w: unknown sink %q", ErrInvalidInput, s.Sink)
	}
	if s.Sink == SinkElasticsearch && s.Elasticsearch.URL == "" {
		return fmt.Errorf("%w: elasticsearch sink requires a URL", ErrInvalidInput)
	}
	if s.Elasticsearch.Timeout <= 0 {
		return fmt.Errorf("%w: publish timeout must be positive", ErrInvalidInput)
	}
	if s.Listing.RequestsPerSecond <= 0 || s.Listing.Burst <= 0 {
		return fmt.Errorf("%w: listing rate must be positive", ErrInvalidInput)
	}
	return nil
}
