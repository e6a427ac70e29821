package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/api"
	"github.com/andrescamacho/agroinsight-go/internal/application/logging"
	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/domain/geo"
	"github.com/andrescamacho/agroinsight-go/internal/domain/irrigation"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/weather"
)

// DefaultLocale is used when a query names no locale
const DefaultLocale = "en"

// GetIrrigationTipsQuery - Query for weather-driven irrigation tips. Either a
// coordinate or a city is required; Season defaults to the current month's.
type GetIrrigationTipsQuery struct {
	Lat      *float64
	Lon      *float64
	City     string
	District string
	State    string
	Season   string
	Locale   string
}

// GetIrrigationTipsResponse - One tip per seasonal crop
type GetIrrigationTipsResponse struct {
	Tips         []irrigation.Tip
	Season       irrigation.Season
	Locale       string
	Location     irrigation.Location
	Conditions   irrigation.Conditions
	WeatherBased bool
}

// GetIrrigationTipsHandler - Handles irrigation tip queries
type GetIrrigationTipsHandler struct {
	weather  weather.Provider
	geocoder geo.Geocoder
	clock    shared.Clock
}

// NewGetIrrigationTipsHandler creates a new irrigation tips query handler
func NewGetIrrigationTipsHandler(provider weather.Provider, geocoder geo.Geocoder, clock shared.Clock) *GetIrrigationTipsHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GetIrrigationTipsHandler{
		weather:  provider,
		geocoder: geocoder,
		clock:    clock,
	}
}

// Handle executes the irrigation tips query: geocode -> weather -> rules -> tips.
// Weather failures degrade to seasonal normals; a missing weather API key does not.
func (h *GetIrrigationTipsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetIrrigationTipsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	season, err := h.season(query.Season)
	if err != nil {
		return nil, err
	}

	loc, coord, err := h.locate(ctx, query)
	if err != nil {
		return nil, err
	}

	conditions, weatherBased, err := h.conditions(ctx, season, loc, coord)
	if err != nil {
		return nil, err
	}

	locale := strings.TrimSpace(query.Locale)
	if locale == "" {
		locale = DefaultLocale
	}

	return &GetIrrigationTipsResponse{
		Tips:         irrigation.GenerateTips(season, loc, conditions, weatherBased),
		Season:       season,
		Locale:       locale,
		Location:     loc,
		Conditions:   conditions,
		WeatherBased: weatherBased,
	}, nil
}

func (h *GetIrrigationTipsHandler) season(requested string) (irrigation.Season, error) {
	if strings.TrimSpace(requested) == "" {
		return irrigation.SeasonForMonth(shared.Today(h.clock).Month()), nil
	}
	season, err := irrigation.ParseSeason(requested)
	if err != nil {
		return "", shared.NewValidationError("season", err.Error())
	}
	return season, nil
}

// locate resolves the tip location. A coordinate is reverse geocoded only to
// fill missing names; a bare city is forward geocoded to get a coordinate.
// Geocoding is best-effort throughout.
func (h *GetIrrigationTipsHandler) locate(ctx context.Context, query *GetIrrigationTipsQuery) (irrigation.Location, *shared.Coordinate, error) {
	logger := logging.FromContext(ctx)
	loc := irrigation.Location{
		City:     strings.TrimSpace(query.City),
		District: strings.TrimSpace(query.District),
		State:    strings.TrimSpace(query.State),
	}

	if query.Lat != nil && query.Lon != nil {
		coord, err := shared.NewCoordinate(*query.Lat, *query.Lon)
		if err != nil {
			return loc, nil, err
		}
		loc.Lat, loc.Lon = coord.Lat, coord.Lon

		if loc.City == "" && loc.District == "" && loc.State == "" && h.geocoder != nil {
			place, err := h.geocoder.Reverse(ctx, coord)
			if err != nil {
				logger.Log(logging.LevelWarning, "Reverse geocoding failed", map[string]interface{}{
					"coordinate": coord.Key(),
					"error":      err.Error(),
				})
			} else {
				loc.City, loc.District, loc.State = place.City, place.District, place.State
			}
		}
		return loc, &coord, nil
	}

	if loc.City == "" {
		return loc, nil, shared.NewValidationError("location", "lat/lon or city is required")
	}

	if h.geocoder != nil {
		place, err := h.geocoder.Search(ctx, loc.City)
		if err != nil {
			logger.Log(logging.LevelWarning, "Forward geocoding failed", map[string]interface{}{
				"city":  loc.City,
				"error": err.Error(),
			})
			return loc, nil, nil
		}
		coord := place.Coordinate
		loc.Lat, loc.Lon = coord.Lat, coord.Lon
		if loc.District == "" {
			loc.District = place.District
		}
		if loc.State == "" {
			loc.State = place.State
		}
		return loc, &coord, nil
	}
	return loc, nil, nil
}

func (h *GetIrrigationTipsHandler) conditions(ctx context.Context, season irrigation.Season, loc irrigation.Location, coord *shared.Coordinate) (irrigation.Conditions, bool, error) {
	logger := logging.FromContext(ctx)

	lookup := weather.ByCity(loc.City)
	if coord != nil {
		lookup = weather.ByCoordinate(*coord)
	}

	current, err := h.weather.Current(ctx, lookup)
	if err != nil {
		if api.IsConfigurationError(err) {
			return irrigation.Conditions{}, false, err
		}
		logger.Log(logging.LevelWarning, "Weather unavailable, using seasonal normals", map[string]interface{}{
			"season": string(season),
			"error":  err.Error(),
		})
		return irrigation.SeasonalNormals(season), false, nil
	}

	conditions := irrigation.Conditions{
		Temperature: current.Temperature,
		Humidity:    current.Humidity,
	}
	forecast, err := h.weather.Forecast(ctx, lookup)
	if err != nil {
		logger.Log(logging.LevelWarning, "Forecast unavailable, assuming no rain", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		conditions.Rainfall = weather.RainfallNext24h(forecast.Entries)
	}
	return conditions, true, nil
}
