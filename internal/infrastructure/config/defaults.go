package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 20 * time.Second
	}

	// Catalog API defaults
	if cfg.Agmarknet.BaseURL == "" {
		cfg.Agmarknet.BaseURL = "https://api.ceda.ashoka.edu.in/v1/agmarknet"
	}
	if cfg.Agmarknet.Timeout == 0 {
		cfg.Agmarknet.Timeout = 20 * time.Second
	}
	if cfg.Agmarknet.RateLimit.Requests == 0 {
		cfg.Agmarknet.RateLimit.Requests = 5
	}
	if cfg.Agmarknet.RateLimit.Burst == 0 {
		cfg.Agmarknet.RateLimit.Burst = 10
	}

	// Weather defaults
	if cfg.Weather.BaseURL == "" {
		cfg.Weather.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if cfg.Weather.Timeout == 0 {
		cfg.Weather.Timeout = 10 * time.Second
	}
	if cfg.Weather.Units == "" {
		cfg.Weather.Units = "metric"
	}

	// Soil proxy defaults
	if cfg.SoilAPI.BaseURL == "" {
		cfg.SoilAPI.BaseURL = "https://api.open-meteo.com/v1"
	}
	if cfg.SoilAPI.Timeout == 0 {
		cfg.SoilAPI.Timeout = 10 * time.Second
	}
	if cfg.SoilAPI.CircuitBreaker.MaxFailures == 0 {
		cfg.SoilAPI.CircuitBreaker.MaxFailures = 5
	}
	if cfg.SoilAPI.CircuitBreaker.Cooldown == 0 {
		cfg.SoilAPI.CircuitBreaker.Cooldown = time.Minute
	}

	// Geocoding defaults
	if cfg.Geocoding.BaseURL == "" {
		cfg.Geocoding.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Geocoding.UserAgent == "" {
		cfg.Geocoding.UserAgent = "agroinsight/1.0 (crop price and advisory service)"
	}
	if cfg.Geocoding.Timeout == 0 {
		cfg.Geocoding.Timeout = 10 * time.Second
	}

	// Cache defaults
	if cfg.Cache.CatalogTTL == 0 {
		cfg.Cache.CatalogTTL = 600 * time.Second
	}
	if cfg.Cache.SoilTTL == 0 {
		cfg.Cache.SoilTTL = 6 * time.Hour
	}
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = "localhost:6379"
	}
	if cfg.Cache.Redis.Prefix == "" {
		cfg.Cache.Redis.Prefix = "agroinsight:"
	}

	// Aggregation defaults
	if cfg.Aggregation.MaxGeographies == 0 {
		cfg.Aggregation.MaxGeographies = 20
	}
	if cfg.Aggregation.MaxMarkets == 0 {
		cfg.Aggregation.MaxMarkets = 50
	}
	if cfg.Aggregation.WindowDays == 0 {
		cfg.Aggregation.WindowDays = 7
	}
	if cfg.Aggregation.Concurrency == 0 {
		cfg.Aggregation.Concurrency = 10
	}
	if cfg.Aggregation.RequestTimeout == 0 {
		cfg.Aggregation.RequestTimeout = 20 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
