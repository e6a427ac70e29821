package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetricsCollector counts response cache events per cache
type CacheMetricsCollector struct {
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEvictions *prometheus.CounterVec
}

// NewCacheMetricsCollector creates a new cache metrics collector
func NewCacheMetricsCollector() *CacheMetricsCollector {
	newCounter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      name,
				Help:      help,
			},
			[]string{"cache"},
		)
	}
	return &CacheMetricsCollector{
		cacheHits:      newCounter("cache_hits_total", "Response cache hits by cache"),
		cacheMisses:    newCounter("cache_misses_total", "Response cache misses by cache"),
		cacheEvictions: newCounter("cache_evictions_total", "Entries evicted on read for expiry or version change"),
	}
}

// Register registers all cache metrics with the Prometheus registry
func (c *CacheMetricsCollector) Register() error {
	return register(c.cacheHits, c.cacheMisses, c.cacheEvictions)
}

// RecordCacheHit increments the hit counter
func (c *CacheMetricsCollector) RecordCacheHit(cache string) {
	c.cacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss increments the miss counter
func (c *CacheMetricsCollector) RecordCacheMiss(cache string) {
	c.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordCacheEviction increments the eviction counter
func (c *CacheMetricsCollector) RecordCacheEviction(cache string) {
	c.cacheEvictions.WithLabelValues(cache).Inc()
}
