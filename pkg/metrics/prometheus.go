// Package metrics provides Prometheus metrics for scorecard ingestion runs.
//
// Ingestion is a batch job, so nothing scrapes it while it runs. The registry is
// written to a node-exporter textfile at the end of a run instead.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Record outcome label values.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// recordDurationBuckets covers one scorecard (a few hundred deliveries) in milliseconds.
var recordDurationBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// Manager owns the ingestion metrics.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Per-record outcomes
	records        *prometheus.CounterVec
	errorsByKind   *prometheus.CounterVec
	recordDuration prometheus.Histogram

	// Rows written
	matchesWritten    prometheus.Counter
	inningsWritten    prometheus.Counter
	deliveriesWritten prometheus.Counter
	rosterEntries     prometheus.Counter

	// Run level
	runDuration  prometheus.Gauge
	runCompleted prometheus.Gauge
	runAttempted prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out of the textfile

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scorecard",
		subsystem:        "ingest",
		histogramBuckets: recordDurationBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.records = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_total",
		Help:        "Scorecards processed by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.errorsByKind = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Failed scorecards by error kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.recordDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "record_duration_milliseconds",
		Help:        "Time to extract and persist one scorecard",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.matchesWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matches_written_total",
		Help:        "Match rows committed",
		ConstLabels: m.constLabels,
	})

	m.inningsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "innings_written_total",
		Help:        "Innings rows committed",
		ConstLabels: m.constLabels,
	})

	m.deliveriesWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "deliveries_written_total",
		Help:        "Ball-by-ball rows committed",
		ConstLabels: m.constLabels,
	})

	m.rosterEntries = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "roster_entries_total",
		Help:        "Roster (player, team) pairs submitted, duplicates included",
		ConstLabels: m.constLabels,
	})

	m.runDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_seconds",
		Help:        "Wall time of the last ingestion run",
		ConstLabels: m.constLabels,
	})

	m.runCompleted = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_last_completed_unix",
		Help:        "Unix time the last ingestion run completed",
		ConstLabels: m.constLabels,
	})

	m.runAttempted = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_records_attempted",
		Help:        "Scorecards attempted by the last run",
		ConstLabels: m.constLabels,
	})
}

// Registry returns the registry the manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// RecordOutcome counts one scorecard outcome and its processing time.
func (m *Manager) RecordOutcome(outcome string, d time.Duration) {
	m.records.WithLabelValues(outcome).Inc()
	m.recordDuration.Observe(float64(d.Microseconds()) / 1000)
}

// RecordError counts a failed scorecard by error kind.
func (m *Manager) RecordError(kind string) {
	m.errorsByKind.WithLabelValues(kind).Inc()
}

// RecordWritten counts the rows of one committed scorecard.
func (m *Manager) RecordWritten(innings, deliveries, roster int) {
	m.matchesWritten.Inc()
	m.inningsWritten.Add(float64(innings))
	m.deliveriesWritten.Add(float64(deliveries))
	m.rosterEntries.Add(float64(roster))
}

// RecordRun sets the run-level gauges.
func (m *Manager) RecordRun(attempted int, d time.Duration, completed time.Time) {
	m.runAttempted.Set(float64(attempted))
	m.runDuration.Set(d.Seconds())
	m.runCompleted.Set(float64(completed.Unix()))
}

// WriteTextfile writes the registry in the text exposition format, atomically.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteTextfile, path, err)
	}
	return nil
}

// RecordOutcome counts one scorecard outcome on the global manager.
func RecordOutcome(outcome string, d time.Duration) {
	globalManager.RecordOutcome(outcome, d)
}

// RecordError counts a failed scorecard by kind on the global manager.
func RecordError(kind string) {
	globalManager.RecordError(kind)
}

// RecordWritten counts committed rows on the global manager.
func RecordWritten(innings, deliveries, roster int) {
	globalManager.RecordWritten(innings, deliveries, roster)
}

// RecordRun sets the run-level gauges on the global manager.
func RecordRun(attempted int, d time.Duration, completed time.Time) {
	globalManager.RecordRun(attempted, d, completed)
}

// WriteTextfile writes the global registry to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
