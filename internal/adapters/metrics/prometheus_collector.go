package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all metrics
	namespace = "agroinsight"
	// Subsystem for the core service
	subsystem = "core"
)

var (
	// Registry is the global Prometheus registry for all metrics.
	// nil means metrics are disabled.
	Registry *prometheus.Registry
)

// InitRegistry initializes the Prometheus registry with the Go runtime and
// process collectors. Call once at startup when metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Collectors bundles every collector the service records into
type Collectors struct {
	API         *APIMetricsCollector
	Cache       *CacheMetricsCollector
	Aggregation *AggregationMetricsCollector
	Query       *QueryMetricsCollector
}

// NewCollectors creates and registers all collectors. When metrics are
// disabled the collectors are still usable, they are just never scraped.
func NewCollectors() (*Collectors, error) {
	c := &Collectors{
		API:         NewAPIMetricsCollector(),
		Cache:       NewCacheMetricsCollector(),
		Aggregation: NewAggregationMetricsCollector(),
		Query:       NewQueryMetricsCollector(),
	}
	for _, r := range []interface{ Register() error }{c.API, c.Cache, c.Aggregation, c.Query} {
		if err := r.Register(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func register(metrics ...prometheus.Collector) error {
	if Registry == nil {
		return nil // Metrics not enabled
	}
	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}
