package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AggregationMetricsCollector records market fan-out statistics
type AggregationMetricsCollector struct {
	fanoutCalls     *prometheus.CounterVec
	fanoutFailures  *prometheus.CounterVec
	marketsPriced   *prometheus.HistogramVec
	outcomes        *prometheus.CounterVec
	marketBestPrice *prometheus.GaugeVec
}

// NewAggregationMetricsCollector creates a new aggregation metrics collector
func NewAggregationMetricsCollector() *AggregationMetricsCollector {
	return &AggregationMetricsCollector{
		fanoutCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fanout_calls_total",
				Help:      "Fan-out lookups issued by stage (markets, prices)",
			},
			[]string{"stage"},
		),

		fanoutFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fanout_failures_total",
				Help:      "Fan-out lookups that failed and were omitted, by stage",
			},
			[]string{"stage"},
		),

		marketsPriced: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "markets_priced",
				Help:      "Valid price records per aggregation",
				Buckets:   []float64{0, 1, 5, 10, 20, 30, 40, 50},
			},
			[]string{"commodity"},
		),

		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "aggregation_outcomes_total",
				Help:      "Price pipeline outcomes by status",
			},
			[]string{"status"},
		),

		marketBestPrice: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "market_best_modal_price",
				Help:      "Highest modal price seen in the last aggregation per commodity",
			},
			[]string{"commodity"},
		),
	}
}

// Register registers all aggregation metrics with the Prometheus registry
func (c *AggregationMetricsCollector) Register() error {
	return register(c.fanoutCalls, c.fanoutFailures, c.marketsPriced, c.outcomes, c.marketBestPrice)
}

// RecordFanout records calls and failures of one fan-out stage
func (c *AggregationMetricsCollector) RecordFanout(stage string, calls, failures int) {
	c.fanoutCalls.WithLabelValues(stage).Add(float64(calls))
	c.fanoutFailures.WithLabelValues(stage).Add(float64(failures))
}

// RecordMarketsPriced observes the size of an aggregation result
func (c *AggregationMetricsCollector) RecordMarketsPriced(commodity string, count int) {
	c.marketsPriced.WithLabelValues(commodity).Observe(float64(count))
}

// RecordOutcome counts a pipeline outcome
func (c *AggregationMetricsCollector) RecordOutcome(status string) {
	c.outcomes.WithLabelValues(status).Inc()
}

// RecordBestPrice sets the best-price gauge
func (c *AggregationMetricsCollector) RecordBestPrice(commodity string, price float64) {
	c.marketBestPrice.WithLabelValues(commodity).Set(price)
}
