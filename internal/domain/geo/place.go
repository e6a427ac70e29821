package geo

import (
	"context"
	"errors"

	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// ErrPlaceNotFound is returned when a geocoding lookup has no result
var ErrPlaceNotFound = errors.New("place not found")

// Place is a geocoded address
type Place struct {
	Coordinate  shared.Coordinate
	City        string
	District    string
	State       string
	DisplayName string
}

// Geocoder resolves between coordinates and addresses
type Geocoder interface {
	Reverse(ctx context.Context, coord shared.Coordinate) (*Place, error)
	Search(ctx context.Context, query string) (*Place, error)
}
