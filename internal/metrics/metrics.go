// Package metrics records per-run export metrics and writes them in the
// Prometheus text format for node_exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Game outcome labels
const (
	StatusExported = "exported"
	StatusFailed   = "failed"
)

// Recorder holds the exporter's metrics on its own registry
type Recorder struct {
	namespace string
	registry  *prometheus.Registry

	gamesTotal    *prometheus.CounterVec
	eventsTotal   *prometheus.CounterVec
	dataWarnings  prometheus.Counter
	fetchDuration prometheus.Histogram
	lastRunUnix   prometheus.Gauge
}

// Option applies a configuration option to the Recorder
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// NewRecorder creates a recorder with a fresh registry
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "chronos",
		registry:  prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(r)
	}

	auto := promauto.With(r.registry)

	r.gamesTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "games_total",
		Help:      "Games processed, by outcome",
	}, []string{"status"})

	r.eventsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "events_total",
		Help:      "Ledger events exported, by kind",
	}, []string{"kind"})

	r.dataWarnings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "data_warnings_total",
		Help:      "Non-fatal data quality problems found while reconciling",
	})

	r.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching one box score",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	r.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last export finished",
	})

	return r
}

// GameProcessed counts one game with the given status
func (r *Recorder) GameProcessed(status string) {
	if r == nil {
		return
	}
	r.gamesTotal.WithLabelValues(status).Inc()
}

// EventsExported counts n exported events of a kind
func (r *Recorder) EventsExported(kind string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.eventsTotal.WithLabelValues(kind).Add(float64(n))
}

// DataWarnings counts n data quality warnings
func (r *Recorder) DataWarnings(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.dataWarnings.Add(float64(n))
}

// ObserveFetch records how long a box score fetch took
func (r *Recorder) ObserveFetch(d time.Duration) {
	if r == nil {
		return
	}
	r.fetchDuration.Observe(d.Seconds())
}

// RunFinished stamps the time the run ended
func (r *Recorder) RunFinished(at time.Time) {
	if r == nil {
		return
	}
	r.lastRunUnix.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %s", path)
	}
	return nil
}
