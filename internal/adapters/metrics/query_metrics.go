package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// QueryMetricsCollector times every query that passes through the mediator
type QueryMetricsCollector struct {
	queryDuration *prometheus.HistogramVec
	queriesTotal  *prometheus.CounterVec
}

// NewQueryMetricsCollector creates a new query metrics collector
func NewQueryMetricsCollector() *QueryMetricsCollector {
	return &QueryMetricsCollector{
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "query_duration_seconds",
				Help:      "Query execution duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"query", "status"},
		),

		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "queries_total",
				Help:      "Total number of queries executed by type and status",
			},
			[]string{"query", "status"},
		),
	}
}

// Register registers all query metrics with the Prometheus registry
func (c *QueryMetricsCollector) Register() error {
	return register(c.queryDuration, c.queriesTotal)
}

// Query outcome labels
const (
	QueryStatusSuccess  = "success"
	QueryStatusRejected = "rejected"
	QueryStatusError    = "error"
)

// RecordQueryExecution records one dispatched query under its outcome label
func (c *QueryMetricsCollector) RecordQueryExecution(queryName string, duration float64, status string) {
	c.queryDuration.WithLabelValues(queryName, status).Observe(duration)
	c.queriesTotal.WithLabelValues(queryName, status).Inc()
}

// QueriesTotal exposes the counter for scraping in tests
func (c *QueryMetricsCollector) QueriesTotal() *prometheus.CounterVec {
	return c.queriesTotal
}
