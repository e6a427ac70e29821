package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/weather"
)

const (
	upstreamOpenWeather   = "openweather"
	defaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5"
)

// OpenWeatherConfig configures the weather client
type OpenWeatherConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Units   string
}

// OpenWeatherClient implements weather.Provider
type OpenWeatherClient struct {
	req    *requester
	apiKey string
	units  string
}

// NewOpenWeatherClient builds a weather client
func NewOpenWeatherClient(cfg OpenWeatherConfig, recorder RequestRecorder, clock shared.Clock) *OpenWeatherClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenWeatherURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultUpstreamTimeout
	}
	if cfg.Units == "" {
		cfg.Units = "metric"
	}
	return &OpenWeatherClient{
		req: newRequester(requesterOptions{
			upstream: upstreamOpenWeather,
			baseURL:  cfg.BaseURL,
			timeout:  cfg.Timeout,
			recorder: recorder,
			clock:    clock,
		}),
		apiKey: cfg.APIKey,
		units:  cfg.Units,
	}
}

func (c *OpenWeatherClient) params(loc weather.Location) (url.Values, error) {
	if c.apiKey == "" {
		return nil, &ConfigurationError{Setting: "OPENWEATHER_API_KEY"}
	}
	if !loc.Valid() {
		return nil, shared.NewValidationError("location", "lat/lon or city is required")
	}
	q := url.Values{}
	if loc.Coordinate != nil {
		q.Set("lat", strconv.FormatFloat(loc.Coordinate.Lat, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(loc.Coordinate.Lon, 'f', -1, 64))
	} else {
		q.Set("q", loc.City)
	}
	q.Set("units", c.units)
	q.Set("appid", c.apiKey)
	return q, nil
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	Name  string `json:"name"`
	Dt    int64  `json:"dt"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []owmCondition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current fetches the current observation
func (c *OpenWeatherClient) Current(ctx context.Context, loc weather.Location) (*weather.CurrentWeather, error) {
	q, err := c.params(loc)
	if err != nil {
		return nil, err
	}

	var resp currentResponse
	if err := c.req.do(ctx, call{method: http.MethodGet, path: "/weather", query: q}, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	current := &weather.CurrentWeather{
		City:        resp.Name,
		Lat:         resp.Coord.Lat,
		Lon:         resp.Coord.Lon,
		Temperature: resp.Main.Temp,
		FeelsLike:   resp.Main.FeelsLike,
		Humidity:    resp.Main.Humidity,
		Pressure:    resp.Main.Pressure,
		WindSpeed:   resp.Wind.Speed,
		ObservedAt:  time.Unix(resp.Dt, 0).UTC(),
	}
	if len(resp.Weather) > 0 {
		current.Condition = resp.Weather[0].Main
		current.Description = resp.Weather[0].Description
		current.Icon = resp.Weather[0].Icon
	}
	return current, nil
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []owmCondition `json:"weather"`
		Rain    struct {
			ThreeHour float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

// Forecast fetches the 5-day/3-hour forecast
func (c *OpenWeatherClient) Forecast(ctx context.Context, loc weather.Location) (*weather.Forecast, error) {
	q, err := c.params(loc)
	if err != nil {
		return nil, err
	}

	var resp forecastResponse
	if err := c.req.do(ctx, call{method: http.MethodGet, path: "/forecast", query: q}, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	entries := make([]weather.ForecastEntry, 0, len(resp.List))
	for _, item := range resp.List {
		entry := weather.ForecastEntry{
			Time:        time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
			TempMin:     item.Main.TempMin,
			TempMax:     item.Main.TempMax,
			Humidity:    item.Main.Humidity,
			Rain3h:      item.Rain.ThreeHour,
		}
		if len(item.Weather) > 0 {
			entry.Condition = item.Weather[0].Main
		}
		entries = append(entries, entry)
	}

	return &weather.Forecast{
		City:     resp.City.Name,
		Timezone: resp.City.Timezone,
		Entries:  entries,
	}, nil
}
