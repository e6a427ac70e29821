package helpers

import (
	"context"
	"strings"
	"sync"

	"github.com/andrescamacho/agroinsight-go/internal/domain/geo"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// MockGeocoder is a test double for geo.Geocoder backed by a list of places
type MockGeocoder struct {
	mu           sync.Mutex
	places       []geo.Place
	err          error
	reverseCalls int
	searchCalls  int
}

// NewMockGeocoder creates a geocoder that knows the given places
func NewMockGeocoder(places ...geo.Place) *MockGeocoder {
	return &MockGeocoder{places: places}
}

// SetError makes every call fail
func (m *MockGeocoder) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Reverse returns the known place with the same rounded coordinate
func (m *MockGeocoder) Reverse(ctx context.Context, coord shared.Coordinate) (*geo.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reverseCalls++
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.places {
		if p.Coordinate.Key() == coord.Key() {
			place := p
			return &place, nil
		}
	}
	return nil, geo.ErrPlaceNotFound
}

// Search returns the known place whose city matches query
func (m *MockGeocoder) Search(ctx context.Context, query string) (*geo.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.places {
		if strings.EqualFold(p.City, strings.TrimSpace(query)) {
			place := p
			return &place, nil
		}
	}
	return nil, geo.ErrPlaceNotFound
}

// ReverseCalls returns the number of Reverse calls
func (m *MockGeocoder) ReverseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reverseCalls
}

// SearchCalls returns the number of Search calls
func (m *MockGeocoder) SearchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchCalls
}
