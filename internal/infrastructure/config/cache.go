package config

import "time"

// CacheConfig holds response cache configuration
type CacheConfig struct {
	// TTL for commodity/geography/market/price lookups
	CatalogTTL time.Duration `mapstructure:"catalog_ttl" validate:"required"`

	// TTL for coordinate-keyed soil profiles
	SoilTTL time.Duration `mapstructure:"soil_ttl" validate:"required"`

	// Incremented by hand when the soil profile shape changes
	SoilVersion int `mapstructure:"soil_version" validate:"min=0"`

	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds the optional shared cache tier configuration
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
	Prefix   string `mapstructure:"prefix"`
}
