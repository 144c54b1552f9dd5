// Package metrics exposes Prometheus instrumentation for the gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "videogen"

// Collector owns a private registry so independent instances never collide.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	generationResults    *prometheus.CounterVec
	providerAttempts     *prometheus.CounterVec
	providerAttemptTimes *prometheus.HistogramVec
	validationRejections *prometheus.CounterVec
}

// NewCollector registers all gateway metrics plus Go runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		generationResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_results_total",
				Help:      "Generation responses by source (provider or fallback)",
			},
			[]string{"source"},
		),
		providerAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_attempts_total",
				Help:      "Upstream provider attempts by model and outcome",
			},
			[]string{"model", "outcome"},
		),
		providerAttemptTimes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_attempt_duration_seconds",
				Help:      "Upstream provider attempt duration in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90},
			},
			[]string{"model"},
		),
		validationRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_rejections_total",
				Help:      "Prompts rejected before any upstream call",
			},
			[]string{"reason"},
		),
	}
}

// ObserveAttempt records one upstream attempt.
func (c *Collector) ObserveAttempt(model, outcome string, elapsed time.Duration) {
	c.providerAttempts.WithLabelValues(model, outcome).Inc()
	c.providerAttemptTimes.WithLabelValues(model).Observe(elapsed.Seconds())
}

// ObserveResult records which path answered a generation request.
func (c *Collector) ObserveResult(source string) {
	c.generationResults.WithLabelValues(source).Inc()
}

// ObserveRejection records a prompt that failed validation.
func (c *Collector) ObserveRejection(reason string) {
	c.validationRejections.WithLabelValues(reason).Inc()
}

// ObserveHTTPRequest records a served request. path should be the route
// pattern, not the raw URI, to keep label cardinality bounded.
func (c *Collector) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
