package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/api"
	"github.com/andrescamacho/agroinsight-go/internal/application/weather/queries"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/weather"
	"github.com/andrescamacho/agroinsight-go/test/helpers"
)

func forecastFixture() *weather.Forecast {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	entries := make([]weather.ForecastEntry, 0, 16)
	for i := 0; i < 16; i++ {
		entries = append(entries, weather.ForecastEntry{
			Time:        start.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: 25 + float64(i%8),
			TempMin:     24 + float64(i%8),
			TempMax:     26 + float64(i%8),
			Humidity:    70,
			Rain3h:      1,
			Condition:   "Rain",
		})
	}
	return &weather.Forecast{City: "Pune", Entries: entries}
}

func TestGetWeather_GroupsForecastByDay(t *testing.T) {
	// Arrange
	provider := helpers.NewMockWeatherProvider(&weather.CurrentWeather{City: "Pune", Temperature: 27}, forecastFixture())
	handler := queries.NewGetWeatherHandler(provider)

	// Act
	resp, err := handler.Handle(context.Background(), &queries.GetWeatherQuery{Location: weather.ByCity("Pune")})

	// Assert
	require.NoError(t, err)
	result := resp.(*queries.GetWeatherResponse)
	assert.Equal(t, "Pune", result.Current.City)
	require.Len(t, result.Daily, 2)
	assert.Equal(t, "2024-07-01", result.Daily[0].Date)
	assert.Equal(t, 8.0, result.Daily[0].TotalRain)
	assert.Equal(t, 8.0, result.Rainfall24h)
	assert.Equal(t, []weather.Location{weather.ByCity("Pune")}, provider.CurrentCalls())
}

func TestGetWeather_RequiresLocation(t *testing.T) {
	handler := queries.NewGetWeatherHandler(helpers.NewMockWeatherProvider(&weather.CurrentWeather{}, nil))

	_, err := handler.Handle(context.Background(), &queries.GetWeatherQuery{})

	var ve *shared.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestGetWeather_PropagatesConfigurationError(t *testing.T) {
	provider := helpers.NewMockWeatherProvider(&weather.CurrentWeather{}, nil)
	provider.SetError(&api.ConfigurationError{Setting: "OPENWEATHER_API_KEY"})
	handler := queries.NewGetWeatherHandler(provider)

	coord, err := shared.NewCoordinate(18.52, 73.856)
	require.NoError(t, err)
	_, err = handler.Handle(context.Background(), &queries.GetWeatherQuery{Location: weather.ByCoordinate(coord)})

	assert.True(t, api.IsConfigurationError(err))
}
