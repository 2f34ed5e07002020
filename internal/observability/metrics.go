// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the pipeline. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Ingestion
	EventsIngested   *prometheus.CounterVec
	StreamReconnects prometheus.Counter
	PollErrors       *prometheus.CounterVec

	// Dispatch
	QueueDepth       *prometheus.GaugeVec
	EventsDispatched *prometheus.CounterVec
	DispatchErrors   *prometheus.CounterVec

	// Resolution
	ResolutionsTotal    prometheus.Counter
	ResolutionDuration  prometheus.Histogram
	ProviderUnavailable *prometheus.CounterVec

	// Persistence
	SnapshotsSaved     prometheus.Counter
	SnapshotSaveErrors prometheus.Counter
}

// NewMetrics creates a Metrics instance backed by its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "mintwatch"
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		EventsIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "events_total",
			Help:      "Total number of identifiers ingested, by origin",
		}, []string{"origin"}),
		StreamReconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "stream_reconnects_total",
			Help:      "Total number of streaming-feed reconnect attempts",
		}),
		PollErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "poll_errors_total",
			Help:      "Total number of failed polling-feed fetches, by origin",
		}, []string{"origin"}),

		QueueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "queue_depth",
			Help:      "Current number of events waiting in the queue, by origin",
		}, []string{"origin"}),
		EventsDispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "events_total",
			Help:      "Total number of events dispatched to the sink, by origin",
		}, []string{"origin"}),
		DispatchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "errors_total",
			Help:      "Total number of sink dispatch failures, by origin",
		}, []string{"origin"}),

		ResolutionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolve",
			Name:      "resolutions_total",
			Help:      "Total number of snapshot resolutions",
		}),
		ResolutionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "resolve",
			Name:      "duration_seconds",
			Help:      "Snapshot resolution latency",
			Buckets:   prometheus.DefBuckets,
		}),
		ProviderUnavailable: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolve",
			Name:      "provider_unavailable_total",
			Help:      "Total number of provider calls that resolved unavailable",
		}, []string{"provider"}),

		SnapshotsSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "snapshots_saved_total",
			Help:      "Total number of snapshots persisted",
		}),
		SnapshotSaveErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "snapshot_save_errors_total",
			Help:      "Total number of swallowed persistence failures",
		}),
	}
}

// Handler returns the /metrics HTTP handler for this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IngestEvent records one ingested identifier.
func (m *Metrics) IngestEvent(origin string) {
	if m == nil {
		return
	}
	m.EventsIngested.WithLabelValues(origin).Inc()
}

// Reconnect records one streaming reconnect attempt.
func (m *Metrics) Reconnect() {
	if m == nil {
		return
	}
	m.StreamReconnects.Inc()
}

// PollError records one failed polling fetch.
func (m *Metrics) PollError(origin string) {
	if m == nil {
		return
	}
	m.PollErrors.WithLabelValues(origin).Inc()
}

// SetQueueDepth records the current queue depth.
func (m *Metrics) SetQueueDepth(origin string, depth int) {
	if m == nil {
		return
	}
	m.QueueDepth.WithLabelValues(origin).Set(float64(depth))
}

// Dispatched records one dispatched event, failed or not.
func (m *Metrics) Dispatched(origin string, err error) {
	if m == nil {
		return
	}
	m.EventsDispatched.WithLabelValues(origin).Inc()
	if err != nil {
		m.DispatchErrors.WithLabelValues(origin).Inc()
	}
}

// Resolution records one completed resolution.
func (m *Metrics) Resolution(seconds float64) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.Inc()
	m.ResolutionDuration.Observe(seconds)
}

// Unavailable records one provider call that yielded no data.
func (m *Metrics) Unavailable(provider string) {
	if m == nil {
		return
	}
	m.ProviderUnavailable.WithLabelValues(provider).Inc()
}

// SnapshotSaved records one persistence attempt.
func (m *Metrics) SnapshotSaved(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.SnapshotSaveErrors.Inc()
		return
	}
	m.SnapshotsSaved.Inc()
}
