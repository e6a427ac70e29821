package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/api"
	"github.com/andrescamacho/agroinsight-go/internal/application/irrigation/queries"
	"github.com/andrescamacho/agroinsight-go/internal/domain/geo"
	"github.com/andrescamacho/agroinsight-go/internal/domain/irrigation"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/weather"
	"github.com/andrescamacho/agroinsight-go/test/helpers"
)

var pune = geo.Place{
	Coordinate: shared.Coordinate{Lat: 18.52, Lon: 73.856},
	City:       "Pune",
	District:   "Pune",
	State:      "Maharashtra",
}

func rainyForecast(mmPerSlot float64) *weather.Forecast {
	entries := make([]weather.ForecastEntry, 8)
	for i := range entries {
		entries[i] = weather.ForecastEntry{Rain3h: mmPerSlot}
	}
	return &weather.Forecast{Entries: entries}
}

func float(v float64) *float64 { return &v }

func tipsFor(t *testing.T, h *queries.GetIrrigationTipsHandler, q *queries.GetIrrigationTipsQuery) *queries.GetIrrigationTipsResponse {
	t.Helper()
	resp, err := h.Handle(context.Background(), q)
	require.NoError(t, err)
	return resp.(*queries.GetIrrigationTipsResponse)
}

func TestGetIrrigationTips_KharifProducesFiveCrops(t *testing.T) {
	// Arrange
	provider := helpers.NewMockWeatherProvider(&weather.CurrentWeather{Temperature: 31, Humidity: 50}, rainyForecast(0))
	handler := queries.NewGetIrrigationTipsHandler(provider, helpers.NewMockGeocoder(pune), nil)

	// Act
	resp := tipsFor(t, handler, &queries.GetIrrigationTipsQuery{City: "Pune", Season: "kharif", Locale: "hi"})

	// Assert
	require.Len(t, resp.Tips, 5)
	crops := make([]string, len(resp.Tips))
	for i, tip := range resp.Tips {
		crops[i] = tip.Crop
		assert.NotEmpty(t, tip.Title)
		assert.NotEmpty(t, tip.Description)
		assert.True(t, tip.WeatherBased)
		assert.Equal(t, irrigation.BucketHotModerate, tip.Bucket)
	}
	assert.Equal(t, []string{"Rice", "Cotton", "Maize", "Soybean", "Groundnut"}, crops)
	assert.Equal(t, irrigation.Kharif, resp.Season)
	assert.Equal(t, "hi", resp.Locale)
	assert.Equal(t, "Maharashtra", resp.Location.State)
}

func TestGetIrrigationTips_ForwardGeocodesCityToCoordinate(t *testing.T) {
	provider := helpers.NewMockWeatherProvider(&weather.CurrentWeather{Temperature: 25, Humidity: 60}, rainyForecast(1))
	geocoder := helpers.NewMockGeocoder(pune)
	handler := queries.NewGetIrrigationTipsHandler(provider, geocoder, nil)

	resp := tipsFor(t, handler, &queries.GetIrrigationTipsQuery{City: "pune", Season: "Rabi"})

	assert.Equal(t, 1, geocoder.SearchCalls())
	calls := provider.CurrentCalls()
	require.Len(t, calls, 1)
	require.NotNil(t, calls[0].Coordinate)
	assert.Equal(t, pune.Coordinate, *calls[0].Coordinate)
	assert.Equal(t, 8.0, resp.Conditions.Rainfall)
	assert.Equal(t, irrigation.BucketModerateRain, resp.Tips[0].Bucket)
}

func TestGetIrrigationTips_ReverseGeocodesBareCoordinate(t *testing.T) {
	provider := helpers.NewMockWeatherProvider(&weather.CurrentWeather{Temperature: 25, Humidity: 60}, nil)
	geocoder := helpers.NewMockGeocoder(pune)
	handler := queries.NewGetIrrigationTipsHandler(provider, geocoder, nil)

	resp := tipsFor(t, handler, &queries.GetIrrigationTipsQuery{Lat: float(18.5201), Lon: float(73.8561), Season: "Rabi"})

	assert.Equal(t, 1, geocoder.ReverseCalls())
	assert.Equal(t, "Pune", resp.Location.City)
	assert.Equal(t, 18.5201, resp.Location.Lat)
}

func TestGetIrrigationTips_GeocodingFailureIsTolerated(t *testing.T) {
	provider := helpers.NewMockWeatherProvider(&weather.CurrentWeather{Temperature: 25, Humidity: 60}, nil)
	geocoder := helpers.NewMockGeocoder()
	geocoder.SetError(errors.New("nominatim down"))
	handler := queries.NewGetIrrigationTipsHandler(provider, geocoder, nil)

	resp := tipsFor(t, handler, &queries.GetIrrigationTipsQuery{City: "Nagpur", Season: "Rabi"})

	assert.Len(t, resp.Tips, 5)
	assert.Equal(t, []weather.Location{weather.ByCity("Nagpur")}, provider.CurrentCalls())
}

func TestGetIrrigationTips_WeatherFailureUsesSeasonalNormals(t *testing.T) {
	provider := helpers.NewMockWeatherProvider(&weather.CurrentWeather{}, nil)
	provider.SetError(errors.New("503"))
	handler := queries.NewGetIrrigationTipsHandler(provider, helpers.NewMockGeocoder(pune), nil)

	resp := tipsFor(t, handler, &queries.GetIrrigationTipsQuery{City: "Pune", Season: "Summer"})

	assert.False(t, resp.WeatherBased)
	assert.Equal(t, irrigation.SeasonalNormals(irrigation.Summer), resp.Conditions)
	for _, tip := range resp.Tips {
		assert.False(t, tip.WeatherBased)
		assert.Equal(t, irrigation.BucketHotDry, tip.Bucket)
	}
}

func TestGetIrrigationTips_MissingWeatherKeyFails(t *testing.T) {
	provider := helpers.NewMockWeatherProvider(&weather.CurrentWeather{}, nil)
	provider.SetError(&api.ConfigurationError{Setting: "OPENWEATHER_API_KEY"})
	handler := queries.NewGetIrrigationTipsHandler(provider, helpers.NewMockGeocoder(pune), nil)

	_, err := handler.Handle(context.Background(), &queries.GetIrrigationTipsQuery{City: "Pune"})

	assert.True(t, api.IsConfigurationError(err))
}

func TestGetIrrigationTips_SeasonDefaultsToCurrentMonth(t *testing.T) {
	provider := helpers.NewMockWeatherProvider(&weather.CurrentWeather{Temperature: 25, Humidity: 60}, nil)
	clock := shared.NewMockClock(time.Date(2024, 12, 5, 8, 0, 0, 0, time.UTC))
	handler := queries.NewGetIrrigationTipsHandler(provider, helpers.NewMockGeocoder(pune), clock)

	resp := tipsFor(t, handler, &queries.GetIrrigationTipsQuery{City: "Pune"})

	assert.Equal(t, irrigation.Rabi, resp.Season)
	assert.Equal(t, "en", resp.Locale)
}

func TestGetIrrigationTips_Validation(t *testing.T) {
	handler := queries.NewGetIrrigationTipsHandler(helpers.NewMockWeatherProvider(&weather.CurrentWeather{}, nil), nil, nil)

	_, err := handler.Handle(context.Background(), &queries.GetIrrigationTipsQuery{Season: "Kharif"})
	var ve *shared.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "location", ve.Field)

	_, err = handler.Handle(context.Background(), &queries.GetIrrigationTipsQuery{City: "Pune", Season: "Monsoon"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "season", ve.Field)
}
