package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

// Metrics is the service-wide registry: HTTP server metrics plus pipeline
// observations. It implements the pipeline's Observer contract.
type Metrics struct {
	service  string
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	documentsTotal     *prometheus.CounterVec
	fieldSourceTotal   *prometheus.CounterVec
	overallConfidence  prometheus.Histogram
	uploadBytes        prometheus.Histogram
	validationFailures prometheus.Counter
}

func New(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invex",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "invex",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "invex",
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
			Namespace: "invex",
			Subsystem: "pipeline",
			Name:      "documents_total",
			Help:      "Total documents by pipeline outcome.",
		},
		[]string{"service", "outcome"},
	)
	fieldSourceTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invex",
			Subsystem: "pipeline",
			Name:      "field_source_total",
			Help:      "Resolved field values by extraction strategy.",
		},
		[]string{"service", "field", "source"},
	)
	overallConfidence := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "invex",
			Subsystem: "pipeline",
			Name:      "overall_confidence",
			Help:      "Distribution of overall record confidence.",
			Buckets:   []float64{0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadBytes := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "invex",
			Subsystem: "pipeline",
			Name:      "upload_bytes",
			Help:      "Distribution of uploaded document sizes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	validationFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "invex",
			Subsystem: "pipeline",
			Name:      "validation_failures_total",
			Help:      "Records that failed reconciliation invariants.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		documentsTotal,
		fieldSourceTotal,
		overallConfidence,
		uploadBytes,
		validationFailures,
	)

	return &Metrics{
		service:            service,
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		documentsTotal:     documentsTotal,
		fieldSourceTotal:   fieldSourceTotal,
		overallConfidence:  overallConfidence,
		uploadBytes:        uploadBytes,
		validationFailures: validationFailures,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			m.service,
			r.Method,
			r.URL.Path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(m.service, r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) ObserveProcessed(outcome string, overallConfidence float64, sizeBytes int64) {
	m.documentsTotal.WithLabelValues(m.service, outcome).Inc()
	if outcome == "processed" {
		m.overallConfidence.Observe(overallConfidence)
	}
	if sizeBytes > 0 {
		m.uploadBytes.Observe(float64(sizeBytes))
	}
}

func (m *Metrics) ObserveFieldSource(field string, source domain.SourceKind) {
	m.fieldSourceTotal.WithLabelValues(m.service, field, string(source)).Inc()
}

func (m *Metrics) ObserveValidationFailure() {
	m.validationFailures.Inc()
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

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
