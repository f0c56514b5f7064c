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

	stageRunsTotal      *prometheus.CounterVec
	stageDuration       *prometheus.HistogramVec
	classificationTotal *prometheus.CounterVec
	fallbackTotal       *prometheus.CounterVec
	probeResultsTotal   *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aiact",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aiact",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "aiact",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	stageRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aiact",
			Subsystem: "pipeline",
			Name:      "stage_runs_total",
			Help:      "Total pipeline stage executions by status.",
		},
		[]string{"service", "stage", "status"},
	)
	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aiact",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "stage"},
	)
	classificationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aiact",
			Subsystem: "pipeline",
			Name:      "classifications_total",
			Help:      "Total system classifications by risk tier.",
		},
		[]string{"service", "tier"},
	)
	fallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aiact",
			Subsystem: "pipeline",
			Name:      "fallback_total",
			Help:      "Total discovery runs served from fallback data.",
		},
		[]string{"service", "stage"},
	)
	probeResultsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aiact",
			Subsystem: "extraction",
			Name:      "probe_results_total",
			Help:      "Profile extraction probe outcomes by field.",
		},
		[]string{"service", "field", "matched"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		stageRunsTotal,
		stageDuration,
		classificationTotal,
		fallbackTotal,
		probeResultsTotal,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		stageRunsTotal:      stageRunsTotal,
		stageDuration:       stageDuration,
		classificationTotal: classificationTotal,
		fallbackTotal:       fallbackTotal,
		probeResultsTotal:   probeResultsTotal,
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
	case strings.HasPrefix(path, "/v1/reports/"):
		return "/v1/reports/{report_key}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordStageRun(service, stage string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.stageRunsTotal.WithLabelValues(service, stage, status).Inc()
	m.stageDuration.WithLabelValues(service, stage).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordClassification(service, tier string) {
	if tier == "" {
		tier = "unknown"
	}
	m.classificationTotal.WithLabelValues(service, tier).Inc()
}

func (m *HTTPServerMetrics) RecordFallback(service, stage string) {
	m.fallbackTotal.WithLabelValues(service, stage).Inc()
}

// ProbeCounter satisfies the extraction probe-observer contract and feeds
// probe outcomes into the registry.
type ProbeCounter struct {
	service string
	counter *prometheus.CounterVec
}

func (m *HTTPServerMetrics) NewProbeCounter(service string) *ProbeCounter {
	return &ProbeCounter{service: service, counter: m.probeResultsTotal}
}

func (p *ProbeCounter) ProbeResult(field string, matched bool) {
	p.counter.WithLabelValues(p.service, field, strconv.FormatBool(matched)).Inc()
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
