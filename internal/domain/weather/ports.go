package weather

import (
	"context"
	"strings"

	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// Location selects a weather lookup by coordinate or by city name
type Location struct {
	Coordinate *shared.Coordinate
	City       string
}

// ByCoordinate builds a coordinate lookup
func ByCoordinate(c shared.Coordinate) Location {
	return Location{Coordinate: &c}
}

// ByCity builds a city-name lookup
func ByCity(city string) Location {
	return Location{City: strings.TrimSpace(city)}
}

// Valid reports whether either selector is set
func (l Location) Valid() bool {
	return l.Coordinate != nil || l.City != ""
}

// Provider is the weather upstream
type Provider interface {
	Current(ctx context.Context, loc Location) (*CurrentWeather, error)
	Forecast(ctx context.Context, loc Location) (*Forecast, error)
}
