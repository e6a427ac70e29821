package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/soil"
)

const (
	upstreamOpenMeteo   = "open-meteo"
	defaultOpenMeteoURL = "https://api.open-meteo.com/v1"
)

// ErrNoSoilData is returned when the proxy response carries no usable hourly values
var ErrNoSoilData = errors.New("no soil data in response")

// OpenMeteoConfig configures the soil proxy client
type OpenMeteoConfig struct {
	BaseURL string
	Timeout time.Duration
}

// OpenMeteoClient implements soil.ReadingSource. Calls go through a circuit
// breaker when one is supplied.
type OpenMeteoClient struct {
	req     *requester
	breaker *CircuitBreaker
}

// NewOpenMeteoClient builds a soil proxy client; breaker may be nil
func NewOpenMeteoClient(cfg OpenMeteoConfig, breaker *CircuitBreaker, recorder RequestRecorder, clock shared.Clock) *OpenMeteoClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenMeteoURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultUpstreamTimeout
	}
	return &OpenMeteoClient{
		req: newRequester(requesterOptions{
			upstream: upstreamOpenMeteo,
			baseURL:  cfg.BaseURL,
			timeout:  cfg.Timeout,
			recorder: recorder,
			clock:    clock,
		}),
		breaker: breaker,
	}
}

type soilResponse struct {
	Hourly struct {
		Time            []string   `json:"time"`
		SoilMoisture    []*float64 `json:"soil_moisture_0_to_1cm"`
		SoilTemperature []*float64 `json:"soil_temperature_0cm"`
	} `json:"hourly"`
}

// FetchReading averages one day of hourly surface moisture and temperature
func (c *OpenMeteoClient) FetchReading(ctx context.Context, coord shared.Coordinate) (soil.Reading, error) {
	var reading soil.Reading
	fetch := func(ctx context.Context) error {
		r, err := c.fetch(ctx, coord)
		if err != nil {
			return err
		}
		reading = r
		return nil
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Call(ctx, fetch)
	} else {
		err = fetch(ctx)
	}
	if err != nil {
		return soil.Reading{}, fmt.Errorf("failed to fetch soil reading: %w", err)
	}
	return reading, nil
}

func (c *OpenMeteoClient) fetch(ctx context.Context, coord shared.Coordinate) (soil.Reading, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	q.Set("hourly", "soil_moisture_0_to_1cm,soil_temperature_0cm")
	q.Set("forecast_days", "1")

	var resp soilResponse
	if err := c.req.do(ctx, call{method: http.MethodGet, path: "/forecast", query: q}, &resp); err != nil {
		return soil.Reading{}, err
	}

	moisture, ok := mean(resp.Hourly.SoilMoisture)
	if !ok {
		return soil.Reading{}, ErrNoSoilData
	}
	reading := soil.Reading{Moisture: moisture}
	if temperature, ok := mean(resp.Hourly.SoilTemperature); ok {
		reading.Temperature = &temperature
	}
	return reading, nil
}

// mean averages the non-null values
func mean(values []*float64) (float64, bool) {
	sum := 0.0
	n := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
