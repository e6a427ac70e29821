package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/api"
	"github.com/andrescamacho/agroinsight-go/internal/adapters/cache"
	"github.com/andrescamacho/agroinsight-go/internal/adapters/metrics"
	"github.com/andrescamacho/agroinsight-go/internal/application/catalog"
	"github.com/andrescamacho/agroinsight-go/internal/application/logging"
	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/application/pricing"
	"github.com/andrescamacho/agroinsight-go/internal/application/setup"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/infrastructure/config"
	infraLogging "github.com/andrescamacho/agroinsight-go/internal/infrastructure/logging"
)

// application is everything a command needs after wiring
type application struct {
	cfg        *config.Config
	logger     *infraLogging.StdLogger
	mediator   mediator.Mediator
	caches     []*cache.ResponseCache
	redis      *cache.RedisStore
	collectors *metrics.Collectors
}

// loadConfig loads the system config honouring the --config flag
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newCommandLogger logs to stderr so query output on stdout stays clean.
// Only warnings show unless --verbose is set.
func newCommandLogger() *infraLogging.StdLogger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return infraLogging.NewWriterLogger(os.Stderr, level, "text")
}

// newApplication wires adapters, services and the mediator from config.
// withMetrics registers collectors on the Prometheus registry; one-shot
// commands leave it off and the collectors record into nothing.
func newApplication(ctx context.Context, cfg *config.Config, logger *infraLogging.StdLogger, withMetrics bool) (*application, error) {
	clock := shared.NewRealClock()

	if withMetrics && cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}
	collectors, err := metrics.NewCollectors()
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	app := &application{
		cfg:        cfg,
		logger:     logger,
		collectors: collectors,
	}

	// Optional shared second tier; the service runs without it
	var remote cache.RemoteStore
	if cfg.Cache.Redis.Enabled {
		store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			logger.Log(logging.LevelWarning, "Redis unavailable, continuing with in-memory cache only", map[string]interface{}{
				"addr":  cfg.Cache.Redis.Addr,
				"error": err.Error(),
			})
		} else {
			app.redis = store
			remote = store
		}
	}

	catalogCache := cache.New(cache.Options{
		Name:       "catalog",
		DefaultTTL: cfg.Cache.CatalogTTL,
		Clock:      clock,
		Remote:     remote,
		Recorder:   collectors.Cache,
	})
	soilCache := cache.New(cache.Options{
		Name:       "soil",
		DefaultTTL: cfg.Cache.SoilTTL,
		Version:    cfg.Cache.SoilVersion,
		Clock:      clock,
		Remote:     remote,
		Recorder:   collectors.Cache,
	})
	app.caches = []*cache.ResponseCache{catalogCache, soilCache}

	agmarknet := api.NewAgmarknetClient(api.AgmarknetConfig{
		BaseURL:           cfg.Agmarknet.BaseURL,
		APIKey:            cfg.Agmarknet.APIKey,
		Timeout:           cfg.Agmarknet.Timeout,
		RequestsPerSecond: cfg.Agmarknet.RateLimit.Requests,
		Burst:             cfg.Agmarknet.RateLimit.Burst,
	}, collectors.API, clock)

	openWeather := api.NewOpenWeatherClient(api.OpenWeatherConfig{
		BaseURL: cfg.Weather.BaseURL,
		APIKey:  cfg.Weather.APIKey,
		Timeout: cfg.Weather.Timeout,
		Units:   cfg.Weather.Units,
	}, collectors.API, clock)

	breaker := api.NewCircuitBreaker(cfg.SoilAPI.CircuitBreaker.MaxFailures, cfg.SoilAPI.CircuitBreaker.Cooldown, clock)
	breaker.OnStateChange(func(from, to api.CircuitState) {
		collectors.API.SetCircuitState("openmeteo", int(to))
		level := logging.LevelInfo
		if to == api.CircuitOpen {
			level = logging.LevelWarning
		}
		logger.Log(level, "Soil API circuit breaker changed state", map[string]interface{}{
			"from": from.String(),
			"to":   to.String(),
		})
	})
	openMeteo := api.NewOpenMeteoClient(api.OpenMeteoConfig{
		BaseURL: cfg.SoilAPI.BaseURL,
		Timeout: cfg.SoilAPI.Timeout,
	}, breaker, collectors.API, clock)

	nominatim := api.NewNominatimClient(api.NominatimConfig{
		BaseURL:   cfg.Geocoding.BaseURL,
		UserAgent: cfg.Geocoding.UserAgent,
		Timeout:   cfg.Geocoding.Timeout,
	}, collectors.API, clock)

	catalogService := catalog.NewService(agmarknet, catalogCache, cfg.Cache.CatalogTTL)
	aggregator := pricing.NewAggregator(catalogService, clock, pricing.Limits{
		MaxGeographies: cfg.Aggregation.MaxGeographies,
		MaxMarkets:     cfg.Aggregation.MaxMarkets,
		WindowDays:     cfg.Aggregation.WindowDays,
		Concurrency:    cfg.Aggregation.Concurrency,
		RequestTimeout: cfg.Aggregation.RequestTimeout,
	}, collectors.Aggregation)

	registry := setup.NewHandlerRegistry(setup.Dependencies{
		Catalog:    catalogService,
		Aggregator: aggregator,
		Outcomes:   collectors.Aggregation,
		Weather:    openWeather,
		Geocoder:   nominatim,
		SoilSource: openMeteo,
		SoilCache:  soilCache,
		SoilTTL:    cfg.Cache.SoilTTL,
		Clock:      clock,
	})

	m, err := registry.CreateConfiguredMediator(metrics.PrometheusMiddleware(collectors.Query))
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}
	app.mediator = m

	return app, nil
}

// send dispatches a request with the logger attached to the context
func (a *application) send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return a.mediator.Send(logging.WithLogger(ctx, a.logger), request)
}

// Close releases the Redis connection and the log file, if any
func (a *application) Close() error {
	var firstErr error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			firstErr = err
		}
	}
	if a.logger != nil {
		if err := a.logger.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
