package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetricsCollector covers the outbound side: Agmarknet, OpenWeather,
// Open-Meteo and Nominatim calls, limiter waits and breaker state
type APIMetricsCollector struct {
	apiRequestsTotal   *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	apiRateLimitWait   *prometheus.HistogramVec
	breakerState       *prometheus.GaugeVec
}

// NewAPIMetricsCollector creates a new API metrics collector
func NewAPIMetricsCollector() *APIMetricsCollector {
	return &APIMetricsCollector{
		apiRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_requests_total",
				Help:      "Total number of upstream API requests by upstream, endpoint, and status code",
			},
			[]string{"upstream", "endpoint", "status_code"},
		),

		apiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_request_duration_seconds",
				Help:      "Upstream API request duration distribution",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 20.0},
			},
			[]string{"upstream", "endpoint"},
		),

		apiRateLimitWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_rate_limit_wait_seconds",
				Help:      "Time spent waiting for the outbound rate limiter",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"upstream", "endpoint"},
		),

		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_circuit_state",
				Help:      "Circuit breaker state per upstream (0=closed, 1=open, 2=half_open)",
			},
			[]string{"upstream"},
		),
	}
}

// Register adds the upstream metrics to the shared registry
func (c *APIMetricsCollector) Register() error {
	return register(c.apiRequestsTotal, c.apiRequestDuration, c.apiRateLimitWait, c.breakerState)
}

// RecordAPIRequest counts a finished upstream call; status 0 means no response
func (c *APIMetricsCollector) RecordAPIRequest(upstream, endpoint string, statusCode int, duration float64) {
	c.apiRequestsTotal.WithLabelValues(upstream, endpoint, strconv.Itoa(statusCode)).Inc()
	c.apiRequestDuration.WithLabelValues(upstream, endpoint).Observe(duration)
}

// SetCircuitState exports the breaker state of an upstream
func (c *APIMetricsCollector) SetCircuitState(upstream string, state int) {
	c.breakerState.WithLabelValues(upstream).Set(float64(state))
}

// RecordRateLimitWait records time spent waiting for the outbound limiter
func (c *APIMetricsCollector) RecordRateLimitWait(upstream, endpoint string, duration float64) {
	c.apiRateLimitWait.WithLabelValues(upstream, endpoint).Observe(duration)
}
