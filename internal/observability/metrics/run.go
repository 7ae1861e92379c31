// Package metrics records index run statistics with Prometheus.
//
// An index run is a batch job, so the collected series are pushed to a
// Pushgateway at the end of the run instead of being scraped.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driven"
)

// JobName is the Pushgateway job the run metrics are grouped under.
const JobName = "gcs_indexer"

// Ensure RunMetrics implements the interface.
var _ driven.RunRecorder = (*RunMetrics)(nil)

// RunMetrics collects the series of one index run in its own registry.
// The index name is not a label; Push supplies it as the grouping key.
type RunMetrics struct {
	registry *prometheus.Registry
	index    string

	objectsTotal    *prometheus.CounterVec
	documentsTotal  *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	patternDuration prometheus.Histogram
	lastSuccess     prometheus.Gauge
}

// NewRunMetrics creates a recorder for a run publishing to index.
func NewRunMetrics(index string) *RunMetrics {
	registry := prometheus.NewRegistry()

	objectsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gcs_indexer",
			Subsystem: "pattern",
			Name:      "objects_total",
			Help:      "Objects listed for a pattern by outcome.",
		},
		[]string{"pattern", "outcome"},
	)
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gcs_indexer",
			Subsystem: "pattern",
			Name:      "documents_total",
			Help:      "Documents published for a pattern.",
		},
		[]string{"pattern"},
	)
	failuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gcs_indexer",
			Subsystem: "pattern",
			Name:      "failures_total",
			Help:      "Patterns that failed by kind.",
		},
		[]string{"kind"},
	)
	patternDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gcs_indexer",
			Subsystem: "pattern",
			Name:      "duration_seconds",
			Help:      "Time to list, aggregate and publish one pattern.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
	)
	lastSuccess := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gcs_indexer",
			Name:      "last_pattern_success_timestamp_seconds",
			Help:      "Unix time of the last successfully published pattern.",
		},
	)

	registry.MustRegister(objectsTotal, documentsTotal, failuresTotal, patternDuration, lastSuccess)

	return &RunMetrics{
		registry:        registry,
		index:           index,
		objectsTotal:    objectsTotal,
		documentsTotal:  documentsTotal,
		failuresTotal:   failuresTotal,
		patternDuration: patternDuration,
		lastSuccess:     lastSuccess,
	}
}

// Registry exposes the underlying registry.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordPattern records the counts of one published pattern.
func (m *RunMetrics) RecordPattern(stats driven.PatternStats) {
	m.objectsTotal.WithLabelValues(stats.Pattern, "matched").Add(float64(stats.Matched))
	m.objectsTotal.WithLabelValues(stats.Pattern, "skipped").Add(float64(stats.Skipped))
	m.documentsTotal.WithLabelValues(stats.Pattern).Add(float64(stats.Documents))
	m.patternDuration.Observe(stats.Duration.Seconds())
	m.lastSuccess.SetToCurrentTime()
}

// RecordFailure counts a pattern that was skipped or aborted the run.
func (m *RunMetrics) RecordFailure(_ string, kind string) {
	m.failuresTotal.WithLabelValues(kind).Inc()
}

// Push sends the collected series to the Pushgateway at url, replacing the
// previous push for this job and index.
func (m *RunMetrics) Push(ctx context.Context, url string) error {
	err := push.New(url, JobName).
		Gatherer(m.registry).
		Grouping("index", m.index).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
