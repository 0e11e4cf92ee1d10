package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	eventsTotal     *prometheus.CounterVec
	eventLag        *prometheus.HistogramVec
	cleanupRuns     *prometheus.CounterVec
	cleanupRemovals *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	eventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legallens",
			Subsystem: "worker",
			Name:      "events_total",
			Help:      "Total processed-document events consumed by status.",
		},
		[]string{"service", "status"},
	)
	eventLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legallens",
			Subsystem: "worker",
			Name:      "event_lag_seconds",
			Help:      "Delay between document processing and event consumption.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	cleanupRuns := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legallens",
			Subsystem: "worker",
			Name:      "cleanup_runs_total",
			Help:      "Total retention sweeps by status.",
		},
		[]string{"service", "status"},
	)
	cleanupRemovals := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legallens",
			Subsystem: "worker",
			Name:      "cleanup_removed_total",
			Help:      "Total documents removed by retention sweeps.",
		},
		[]string{"service"},
	)

	registry.MustRegister(eventsTotal, eventLag, cleanupRuns, cleanupRemovals)

	return &WorkerMetrics{
		registry:        registry,
		eventsTotal:     eventsTotal,
		eventLag:        eventLag,
		cleanupRuns:     cleanupRuns,
		cleanupRemovals: cleanupRemovals,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) EventConsumed(service, status string) {
	if status == "" {
		status = "unknown"
	}
	m.eventsTotal.WithLabelValues(service, status).Inc()
}

func (m *WorkerMetrics) ObserveEventLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.eventLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) CleanupRun(service, status string, removed int) {
	if status == "" {
		status = "unknown"
	}
	m.cleanupRuns.WithLabelValues(service, status).Inc()
	if removed > 0 {
		m.cleanupRemovals.WithLabelValues(service).Add(float64(removed))
	}
}
