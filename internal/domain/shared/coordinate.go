package shared

import (
	"fmt"
	"math"
)

// Coordinate is a WGS84 latitude/longitude pair
type Coordinate struct {
	Lat float64
	Lon float64
}

// NewCoordinate validates the ranges and builds a Coordinate
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Coordinate{}, NewValidationError("lat", fmt.Sprintf("latitude %v out of range [-90, 90]", lat))
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Coordinate{}, NewValidationError("lon", fmt.Sprintf("longitude %v out of range [-180, 180]", lon))
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// Rounded returns the coordinate rounded to 3 decimal places (~100 m).
func (c Coordinate) Rounded() Coordinate {
	return Coordinate{Lat: round3(c.Lat), Lon: round3(c.Lon)}
}

// Key renders the rounded coordinate as a stable cache key fragment
func (c Coordinate) Key() string {
	r := c.Rounded()
	return fmt.Sprintf("%.3f,%.3f", r.Lat, r.Lon)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
