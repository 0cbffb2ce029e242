package akhttp

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request pipeline:
// dispatch outcomes, retries, auth transitions and token cache activity.
// All methods are safe on a nil receiver so instrumentation can be turned
// off by simply not configuring a collector.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal *prometheus.CounterVec

	authFailuresTotal *prometheus.CounterVec
	signOutsTotal     prometheus.Counter

	tokenCacheHits   prometheus.Counter
	tokenCacheMisses prometheus.Counter

	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "akhttp_requests_total",
				Help: "Total number of requests dispatched, by terminal status",
			},
			[]string{"method", "service", "status_code"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "akhttp_request_duration_seconds",
				Help:    "End to end request duration including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "service", "status_code"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "akhttp_requests_in_flight",
				Help: "Number of requests currently in flight",
			},
			[]string{"method", "service"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "akhttp_retries_total",
				Help: "Total number of 5xx retry attempts",
			},
			[]string{"method", "service", "attempt"},
		),
		authFailuresTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "akhttp_auth_failures_total",
				Help: "Total number of 401 responses",
			},
			[]string{"service"},
		),
		signOutsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "akhttp_sign_outs_total",
				Help: "Total number of sign-out handler invocations",
			},
		),
		tokenCacheHits: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "akhttp_token_cache_hits_total",
				Help: "Requests served with an already cached token",
			},
		),
		tokenCacheMisses: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "akhttp_token_cache_misses_total",
				Help: "Requests that had to consult the session provider",
			},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "akhttp_errors_total",
				Help: "Total number of terminal errors by type",
			},
			[]string{"type", "method", "service"},
		),
	}
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, service string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, service).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, service string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, service).Dec()
}

// RecordRequest records a finished request with its terminal status code
// (0 when no response was received).
func (mc *MetricsCollector) RecordRequest(method, service string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}
	code := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, service, code).Inc()
	mc.requestDuration.WithLabelValues(method, service, code).Observe(duration.Seconds())
}

// RecordRetry records one 5xx re-dispatch.
func (mc *MetricsCollector) RecordRetry(method, service string, attempt int) {
	if mc == nil {
		return
	}
	mc.retriesTotal.WithLabelValues(method, service, strconv.Itoa(attempt)).Inc()
}

// RecordAuthFailure records a 401 response.
func (mc *MetricsCollector) RecordAuthFailure(service string) {
	if mc == nil {
		return
	}
	mc.authFailuresTotal.WithLabelValues(service).Inc()
}

// RecordSignOut records one sign-out handler invocation.
func (mc *MetricsCollector) RecordSignOut() {
	if mc == nil {
		return
	}
	mc.signOutsTotal.Inc()
}

// RecordTokenCacheHit records a request that reused the cached token.
func (mc *MetricsCollector) RecordTokenCacheHit() {
	if mc == nil {
		return
	}
	mc.tokenCacheHits.Inc()
}

// RecordTokenCacheMiss records a request that consulted the session provider.
func (mc *MetricsCollector) RecordTokenCacheMiss() {
	if mc == nil {
		return
	}
	mc.tokenCacheMisses.Inc()
}

// RecordError records a terminal error by taxonomy type.
func (mc *MetricsCollector) RecordError(errorType, method, service string) {
	if mc == nil {
		return
	}
	mc.errorsTotal.WithLabelValues(errorType, method, service).Inc()
}
