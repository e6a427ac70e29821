package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/soil"
)

// MockSoilSource is a test double for soil.ReadingSource
type MockSoilSource struct {
	mu      sync.Mutex
	reading soil.Reading
	err     error
	calls   []shared.Coordinate
}

// NewMockSoilSource returns reading for every coordinate
func NewMockSoilSource(reading soil.Reading) *MockSoilSource {
	return &MockSoilSource{reading: reading}
}

// SetError makes every call fail
func (m *MockSoilSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// FetchReading implements soil.ReadingSource
func (m *MockSoilSource) FetchReading(ctx context.Context, coord shared.Coordinate) (soil.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, coord)
	if m.err != nil {
		return soil.Reading{}, m.err
	}
	return m.reading, nil
}

// CallCount returns the number of upstream calls made
func (m *MockSoilSource) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
