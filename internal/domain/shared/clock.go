package shared

import (
	"sync"
	"time"
)

// IST is the zone Agmarknet arrival dates and Indian crop seasons are reckoned in
var IST = time.FixedZone("IST", 5*60*60+30*60)

// Clock supplies the current instant; cache expiry, breaker cooldowns and
// price windows all read time through it so tests can pin it
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// NewRealClock returns the system clock
func NewRealClock() Clock {
	return RealClock{}
}

// Today returns the current calendar day in India, at midnight IST
func Today(c Clock) time.Time {
	y, m, d := c.Now().In(IST).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, IST)
}

// MockClock is a settable clock for tests. Fan-out goroutines may read it
// while the test moves it.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewMockClock starts at start, or at the real time when start is zero
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the clock forward by d
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// SetTime jumps to t
func (m *MockClock) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
