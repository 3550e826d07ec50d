// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/application/matching"
	"github.com/alchemorsel/recipebox/internal/application/parsing"
)

// Metrics collects the service's Prometheus metrics on a private registry
type Metrics struct {
	registry *prometheus.Registry
	logger   *zap.Logger

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Parsing metrics
	parsesTotal      *prometheus.CounterVec
	aiFallbacksTotal *prometheus.CounterVec

	// Catalog cache metrics
	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal prometheus.Counter
}

var (
	_ parsing.Observer       = (*Metrics)(nil)
	_ matching.CacheObserver = (*Metrics)(nil)
)

// NewMetrics creates and registers the collectors. namespace prefixes every
// metric name.
func NewMetrics(namespace string, logger *zap.Logger) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logger:   logger.Named("metrics"),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		parsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipe_parses_total",
				Help:      "Recipe text parses by parser source and outcome",
			},
			[]string{"source", "outcome"},
		),
		aiFallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_parse_fallbacks_total",
				Help:      "AI parses that fell back to the rule-based parser",
			},
			[]string{"reason"},
		),
		cacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_cache_hits_total",
				Help:      "Catalog cache hits by layer",
			},
			[]string{"layer"},
		),
		cacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_cache_misses_total",
				Help:      "Catalog loads that had to go to the database",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.parsesTotal,
		m.aiFallbacksTotal,
		m.cacheHitsTotal,
		m.cacheMissesTotal,
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(m.logger),
	})
}

// ObserveRequest records one served HTTP request. route is the matched route
// pattern, not the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveParse implements parsing.Observer
func (m *Metrics) ObserveParse(source, outcome string) {
	m.parsesTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveAIFallback implements parsing.Observer
func (m *Metrics) ObserveAIFallback(reason string) {
	m.aiFallbacksTotal.WithLabelValues(reason).Inc()
}

// CacheHit implements matching.CacheObserver
func (m *Metrics) CacheHit(layer string) {
	m.cacheHitsTotal.WithLabelValues(layer).Inc()
}

// CacheMiss implements matching.CacheObserver
func (m *Metrics) CacheMiss() {
	m.cacheMissesTotal.Inc()
}
