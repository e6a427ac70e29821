package config

// MetricsConfig controls the Prometheus registry and its scrape endpoint
type MetricsConfig struct {
	// Off by default; collectors still record but nothing is exposed
	Enabled bool `mapstructure:"enabled"`

	// Scrape path on the API server, outside /api/ (default: /metrics)
	Path string `mapstructure:"path"`
}
