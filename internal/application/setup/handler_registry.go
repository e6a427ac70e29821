package setup

import (
	"reflect"
	"time"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/cache"
	"github.com/andrescamacho/agroinsight-go/internal/application/catalog"
	"github.com/andrescamacho/agroinsight-go/internal/application/common"
	irrigationQueries "github.com/andrescamacho/agroinsight-go/internal/application/irrigation/queries"
	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/application/pricing"
	soilQueries "github.com/andrescamacho/agroinsight-go/internal/application/soil/queries"
	weatherQueries "github.com/andrescamacho/agroinsight-go/internal/application/weather/queries"
	"github.com/andrescamacho/agroinsight-go/internal/domain/geo"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/soil"
	"github.com/andrescamacho/agroinsight-go/internal/domain/weather"
)

// Dependencies are the adapters and services handlers are built from
type Dependencies struct {
	Catalog    *catalog.Service
	Aggregator *pricing.Aggregator
	Outcomes   pricing.OutcomeRecorder
	Weather    weather.Provider
	Geocoder   geo.Geocoder
	SoilSource soil.ReadingSource
	SoilCache  *cache.ResponseCache
	SoilTTL    time.Duration
	Clock      shared.Clock
}

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	deps Dependencies
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(deps Dependencies) *HandlerRegistry {
	// Default to real clock if not provided
	if deps.Clock == nil {
		deps.Clock = shared.NewRealClock()
	}
	return &HandlerRegistry{deps: deps}
}

// RegisterCatalogHandlers registers the catalog passthrough queries
//
// This method registers:
//   - ListCommoditiesQuery, ListGeographiesQuery → catalog.QueryHandler
//   - ListMarketsQuery, ListPricesQuery → catalog.QueryHandler
func (r *HandlerRegistry) RegisterCatalogHandlers(m mediator.Mediator) error {
	handler := catalog.NewQueryHandler(r.deps.Catalog)
	for _, request := range []mediator.Request{
		&catalog.ListCommoditiesQuery{},
		&catalog.ListGeographiesQuery{},
		&catalog.ListMarketsQuery{},
		&catalog.ListPricesQuery{},
	} {
		if err := m.Register(reflect.TypeOf(request), handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterPricingHandlers registers GetCurrentPricesQuery
func (r *HandlerRegistry) RegisterPricingHandlers(m mediator.Mediator) error {
	pricesHandler := pricing.NewGetCurrentPricesHandler(
		catalog.NewResolver(r.deps.Catalog),
		r.deps.Aggregator,
		r.deps.Outcomes,
	)
	return m.Register(reflect.TypeOf(&pricing.GetCurrentPricesQuery{}), pricesHandler)
}

// RegisterAdvisoryHandlers registers the soil, weather and irrigation queries
func (r *HandlerRegistry) RegisterAdvisoryHandlers(m mediator.Mediator) error {
	// Register GetSoilProfileQuery handler
	soilHandler := soilQueries.NewGetSoilProfileHandler(r.deps.SoilSource, r.deps.SoilCache, r.deps.SoilTTL)
	if err := m.Register(
		reflect.TypeOf(&soilQueries.GetSoilProfileQuery{}),
		soilHandler,
	); err != nil {
		return err
	}

	// Register GetWeatherQuery handler
	weatherHandler := weatherQueries.NewGetWeatherHandler(r.deps.Weather)
	if err := m.Register(
		reflect.TypeOf(&weatherQueries.GetWeatherQuery{}),
		weatherHandler,
	); err != nil {
		return err
	}

	// Register GetIrrigationTipsQuery handler
	tipsHandler := irrigationQueries.NewGetIrrigationTipsHandler(r.deps.Weather, r.deps.Geocoder, r.deps.Clock)
	if err := m.Register(
		reflect.TypeOf(&irrigationQueries.GetIrrigationTipsQuery{}),
		tipsHandler,
	); err != nil {
		return err
	}

	return nil
}

// CreateConfiguredMediator creates a mediator with every handler registered.
// The logging middleware always runs first; extra middlewares (metrics) follow
// in the order given.
func (r *HandlerRegistry) CreateConfiguredMediator(middlewares ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator()
	m.Use(common.LoggingMiddleware(r.deps.Clock))
	for _, mw := range middlewares {
		m.Use(mw)
	}

	if err := r.RegisterCatalogHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterPricingHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterAdvisoryHandlers(m); err != nil {
		return nil, err
	}
	return m, nil
}
