package config

import "time"

// AgmarknetConfig holds the crop price catalog API client configuration
type AgmarknetConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Bearer token. Not required at startup: requests fail with
	// "API key not configured" until it is set.
	APIKey string `mapstructure:"api_key"`

	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds outbound rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// WeatherConfig holds the OpenWeather client configuration
type WeatherConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
	Units   string        `mapstructure:"units" validate:"oneof=metric imperial standard"`
}

// SoilAPIConfig holds the Open-Meteo soil proxy configuration
type SoilAPIConfig struct {
	BaseURL        string               `mapstructure:"base_url" validate:"required,url"`
	Timeout        time.Duration        `mapstructure:"timeout" validate:"required"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// CircuitBreakerConfig holds breaker thresholds
type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures" validate:"min=1"`
	Cooldown    time.Duration `mapstructure:"cooldown" validate:"required"`
}

// GeocodingConfig holds the Nominatim client configuration
type GeocodingConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Nominatim's usage policy requires an identifying User-Agent
	UserAgent string `mapstructure:"user_agent" validate:"required"`

	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
}
