package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Agmarknet   AgmarknetConfig   `mapstructure:"agmarknet"`
	Weather     WeatherConfig     `mapstructure:"weather"`
	SoilAPI     SoilAPIConfig     `mapstructure:"soil_api"`
	Geocoding   GeocodingConfig   `mapstructure:"geocoding"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Aggregation AggregationConfig `mapstructure:"aggregation"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/agroinsight")
	}

	v.SetEnvPrefix("AGRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we'll use env vars and defaults
	}

	// The upstream API keys are conventionally provided without the AGRO_ prefix
	if key := os.Getenv("AGMARKNET_API_KEY"); key != "" && v.GetString("agmarknet.api_key") == "" {
		v.Set("agmarknet.api_key", key)
	}
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" && v.GetString("weather.api_key") == "" {
		v.Set("weather.api_key", key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys makes AutomaticEnv see keys that have no file or default value,
// otherwise Unmarshal never asks viper for them
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.address", "server.mode", "server.read_timeout", "server.write_timeout", "server.shutdown_timeout", "server.pid_file",
		"agmarknet.base_url", "agmarknet.api_key", "agmarknet.timeout",
		"agmarknet.rate_limit.requests", "agmarknet.rate_limit.burst",
		"weather.base_url", "weather.api_key", "weather.timeout", "weather.units",
		"soil_api.base_url", "soil_api.timeout",
		"soil_api.circuit_breaker.max_failures", "soil_api.circuit_breaker.cooldown",
		"geocoding.base_url", "geocoding.user_agent", "geocoding.timeout",
		"cache.catalog_ttl", "cache.soil_ttl", "cache.soil_version",
		"cache.redis.enabled", "cache.redis.addr", "cache.redis.password", "cache.redis.db", "cache.redis.prefix",
		"aggregation.max_geographies", "aggregation.max_markets", "aggregation.window_days",
		"aggregation.concurrency", "aggregation.request_timeout",
		"logging.level", "logging.format", "logging.output", "logging.file_path",
		"metrics.enabled", "metrics.path",
	} {
		_ = v.BindEnv(key)
	}
}

// LoadConfigOrDefault loads configuration or returns a default config on error
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		defaultCfg := &Config{}
		SetDefaults(defaultCfg)
		return defaultCfg
	}
	return cfg
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
