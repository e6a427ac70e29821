package config

import "time"

// AggregationConfig holds the market fan-out bounds. The caps trade result
// completeness for fewer upstream calls against the catalog rate limit.
type AggregationConfig struct {
	MaxGeographies int           `mapstructure:"max_geographies" validate:"min=1"`
	MaxMarkets     int           `mapstructure:"max_markets" validate:"min=1"`
	WindowDays     int           `mapstructure:"window_days" validate:"min=1,max=31"`
	Concurrency    int           `mapstructure:"concurrency" validate:"min=1"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required"`
}
