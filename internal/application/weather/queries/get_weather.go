package queries

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/weather"
)

// GetWeatherQuery - Query for current weather and the daily forecast
type GetWeatherQuery struct {
	Location weather.Location
}

// GetWeatherResponse - Current observation plus the forecast grouped by day
type GetWeatherResponse struct {
	Current     *weather.CurrentWeather
	Daily       []weather.DailyForecast
	Rainfall24h float64
}

// GetWeatherHandler - Handles weather queries
type GetWeatherHandler struct {
	provider weather.Provider
}

// NewGetWeatherHandler creates a new weather query handler
func NewGetWeatherHandler(provider weather.Provider) *GetWeatherHandler {
	return &GetWeatherHandler{provider: provider}
}

// Handle executes the weather query. Both upstream calls run concurrently and
// either failing fails the query.
func (h *GetWeatherHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetWeatherQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if !query.Location.Valid() {
		return nil, shared.NewValidationError("location", "lat/lon or city is required")
	}

	var (
		current  *weather.CurrentWeather
		forecast *weather.Forecast
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := h.provider.Current(gctx, query.Location)
		if err != nil {
			return fmt.Errorf("failed to fetch current weather: %w", err)
		}
		current = c
		return nil
	})
	g.Go(func() error {
		f, err := h.provider.Forecast(gctx, query.Location)
		if err != nil {
			return fmt.Errorf("failed to fetch forecast: %w", err)
		}
		forecast = f
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &GetWeatherResponse{
		Current:     current,
		Daily:       weather.GroupByDay(*forecast),
		Rainfall24h: weather.RainfallNext24h(forecast.Entries),
	}, nil
}
