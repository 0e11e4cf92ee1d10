package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	documentsTotal *prometheus.CounterVec
	dedupeTotal    *prometheus.CounterVec
	parseTierTotal *prometheus.CounterVec
	riskScores     *prometheus.HistogramVec
	chatTotal      *prometheus.CounterVec
	chatConfidence *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legallens",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legallens",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "legallens",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legallens",
			Subsystem: "pipeline",
			Name:      "documents_total",
			Help:      "Total document pipeline runs by status.",
		},
		[]string{"service", "status"},
	)
	dedupeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legallens",
			Subsystem: "pipeline",
			Name:      "dedupe_hits_total",
			Help:      "Total uploads served from an existing record.",
		},
		[]string{"service"},
	)
	parseTierTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legallens",
			Subsystem: "analysis",
			Name:      "parse_tier_total",
			Help:      "Model output parse outcomes by recovery tier.",
		},
		[]string{"service", "tier"},
	)
	riskScores := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legallens",
			Subsystem: "analysis",
			Name:      "risk_score",
			Help:      "Distribution of computed document risk scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"service"},
	)
	chatTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legallens",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total chat requests by outcome.",
		},
		[]string{"service", "status"},
	)
	chatConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legallens",
			Subsystem: "chat",
			Name:      "confidence",
			Help:      "Distribution of chat answer confidence.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		documentsTotal,
		dedupeTotal,
		parseTierTotal,
		riskScores,
		chatTotal,
		chatConfidence,
	)

	return &HTTPServerMetrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestInFlight: requestInFlight,
		documentsTotal:  documentsTotal,
		dedupeTotal:     dedupeTotal,
		parseTierTotal:  parseTierTotal,
		riskScores:      riskScores,
		chatTotal:       chatTotal,
		chatConfidence:  chatConfidence,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

// PipelineRecorder adapts the registry to the pipeline observer interface.
type PipelineRecorder struct {
	service string
	metrics *HTTPServerMetrics
}

func (m *HTTPServerMetrics) Pipeline(service string) *PipelineRecorder {
	return &PipelineRecorder{service: service, metrics: m}
}

func (r *PipelineRecorder) DocumentProcessed(status string) {
	if status == "" {
		status = "unknown"
	}
	r.metrics.documentsTotal.WithLabelValues(r.service, status).Inc()
}

func (r *PipelineRecorder) DedupeHit() {
	r.metrics.dedupeTotal.WithLabelValues(r.service).Inc()
}

func (m *HTTPServerMetrics) RecordParseTier(service, tier string) {
	if tier == "" {
		tier = "unknown"
	}
	m.parseTierTotal.WithLabelValues(service, tier).Inc()
}

func (m *HTTPServerMetrics) RecordRiskScore(service string, score int) {
	m.riskScores.WithLabelValues(service).Observe(float64(score))
}

func (m *HTTPServerMetrics) RecordChat(service, status string, confidence float64) {
	if status == "" {
		status = "unknown"
	}
	m.chatTotal.WithLabelValues(service, status).Inc()
	if status == "success" {
		m.chatConfidence.WithLabelValues(service).Observe(confidence)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
