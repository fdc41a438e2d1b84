// Package metrics provides Prometheus metrics for hockey-pbp batch runs.
//
// A CLI run has no scrape endpoint, so the registry is written once at the end
// of a batch as a node-exporter textfile. Every Manager method is safe on a nil
// receiver, which lets the pipeline run without metrics.
package metrics

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pfrederiksen/hockey-pbp/internal/event"
)

// Manager owns the batch metrics.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	games         *prometheus.CounterVec
	gameDuration  prometheus.Histogram
	coordEvents   *prometheus.CounterVec
	fetchRetries  prometheus.Counter
	onIceOverflow prometheus.Counter
	lastRun       prometheus.Gauge
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for the per-game duration histogram.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry registers the metrics on r instead of a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// NewManager creates a manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hockey_pbp",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.games = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "games_total",
		Help:      "Games processed, by outcome status and error kind",
	}, []string{"status", "kind"})
	m.gameDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "game_duration_seconds",
		Help:      "Wall time of one game's pipeline",
		Buckets:   m.histogramBuckets,
	})
	m.coordEvents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_total",
		Help:      "Assembled events, by coordinate source",
	}, []string{"coordinate_source"})
	m.fetchRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "fetch_retries_total",
		Help:      "Retries of transient fetch failures",
	})
	m.onIceOverflow = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "on_ice_overflow_rows_total",
		Help:      "Rows where a team had more players on ice than slots",
	})
	m.lastRun = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last batch finished",
	})
	return m
}

// Registry returns the registry holding the metrics.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordGame counts one finished game.
func (m *Manager) RecordGame(status, kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.games.WithLabelValues(status, kind).Inc()
	m.gameDuration.Observe(d.Seconds())
}

// RecordCoordSources adds per-source event counts of one assembled game.
func (m *Manager) RecordCoordSources(counts map[event.CoordSource]int) {
	if m == nil {
		return
	}
	for src, n := range counts {
		if src == "" {
			continue
		}
		m.coordEvents.WithLabelValues(string(src)).Add(float64(n))
	}
}

// RecordRetry counts one retried fetch.
func (m *Manager) RecordRetry() {
	if m == nil {
		return
	}
	m.fetchRetries.Inc()
}

// RecordOnIceOverflow adds overflowing rows of one game.
func (m *Manager) RecordOnIceOverflow(rows int) {
	if m == nil || rows <= 0 {
		return
	}
	m.onIceOverflow.Add(float64(rows))
}

// WriteTextfile stamps the run time and writes the registry to path in the
// text exposition format.
func (m *Manager) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	m.lastRun.SetToCurrentTime()
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}
