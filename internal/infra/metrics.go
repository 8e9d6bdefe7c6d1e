package infra

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/media"
)

const metricsNamespace = "storefront"

// Metrics owns a private Prometheus registry with the media pipeline, job
// and HTTP collectors. It satisfies media.Observer.
type Metrics struct {
	registry *prometheus.Registry

	Variants        *prometheus.CounterVec
	GenerationTime  *prometheus.HistogramVec
	Jobs            *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPRequestTime *prometheus.HistogramVec
}

// NewMetrics registers every collector, plus Go runtime and process stats.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Variants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "media",
			Name:      "variants_total",
			Help:      "Image variant outcomes by profile, format and status.",
		}, []string{"profile", "format", "status"}),
		GenerationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "media",
			Name:      "generation_seconds",
			Help:      "Wall time of one Generate call.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"profile"}),
		Jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "media",
			Name:      "jobs_total",
			Help:      "Variant jobs finished by the worker, by status.",
		}, []string{"status"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		HTTPRequestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(
		m.Variants,
		m.GenerationTime,
		m.Jobs,
		m.HTTPRequests,
		m.HTTPRequestTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveVariant implements media.Observer.
func (m *Metrics) ObserveVariant(profile string, format media.Format, status media.Status) {
	m.Variants.WithLabelValues(profile, string(format), string(status)).Inc()
}

// ObserveGeneration implements media.Observer.
func (m *Metrics) ObserveGeneration(profile string, elapsed time.Duration) {
	m.GenerationTime.WithLabelValues(profile).Observe(elapsed.Seconds())
}

// RecordJob counts a finished variant job.
func (m *Metrics) RecordJob(status string) {
	m.Jobs.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method string, statusCode int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestTime.WithLabelValues(method).Observe(elapsed.Seconds())
}

var _ media.Observer = (*Metrics)(nil)
