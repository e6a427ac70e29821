package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/agroinsight-go/internal/domain/weather"
)

// MockWeatherProvider is a test double for weather.Provider
type MockWeatherProvider struct {
	mu sync.Mutex

	current  *weather.CurrentWeather
	forecast *weather.Forecast
	err      error

	currentCalls  []weather.Location
	forecastCalls []weather.Location
}

// NewMockWeatherProvider creates a provider returning the given observation
func NewMockWeatherProvider(current *weather.CurrentWeather, forecast *weather.Forecast) *MockWeatherProvider {
	return &MockWeatherProvider{current: current, forecast: forecast}
}

// SetError makes every call fail
func (m *MockWeatherProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Current implements weather.Provider
func (m *MockWeatherProvider) Current(ctx context.Context, loc weather.Location) (*weather.CurrentWeather, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentCalls = append(m.currentCalls, loc)
	if m.err != nil {
		return nil, m.err
	}
	c := *m.current
	return &c, nil
}

// Forecast implements weather.Provider
func (m *MockWeatherProvider) Forecast(ctx context.Context, loc weather.Location) (*weather.Forecast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forecastCalls = append(m.forecastCalls, loc)
	if m.err != nil {
		return nil, m.err
	}
	if m.forecast == nil {
		return &weather.Forecast{}, nil
	}
	f := *m.forecast
	return &f, nil
}

// CurrentCalls returns the locations Current was called with
func (m *MockWeatherProvider) CurrentCalls() []weather.Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]weather.Location{}, m.currentCalls...)
}

// ForecastCalls returns the locations Forecast was called with
func (m *MockWeatherProvider) ForecastCalls() []weather.Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]weather.Location{}, m.forecastCalls...)
}
