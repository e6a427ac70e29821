package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// CircuitState is the breaker state guarding an upstream
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	// CircuitHalfOpen lets exactly one probe through after the cooldown
	CircuitHalfOpen
)

// ErrCircuitOpen is returned without calling the upstream while the breaker is open
var ErrCircuitOpen = errors.New("circuit breaker open")

// StateChangeFunc observes breaker transitions, e.g. to log them or export a gauge.
// It is called with the breaker lock released.
type StateChangeFunc func(from, to CircuitState)

// CircuitBreaker stops calling the soil upstream after maxFailures consecutive
// failures. Once cooldown has elapsed a single probe decides whether the
// breaker closes again or stays open for another cooldown.
type CircuitBreaker struct {
	maxFailures int
	cooldown    time.Duration
	clock       shared.Clock

	mu       sync.Mutex
	state    CircuitState
	failures int
	openedAt time.Time
	probing  bool
	onChange StateChangeFunc
}

// NewCircuitBreaker creates a closed breaker. A nil clock means RealClock.
func NewCircuitBreaker(maxFailures int, cooldown time.Duration, clock shared.Clock) *CircuitBreaker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CircuitBreaker{
		maxFailures: max(maxFailures, 1),
		cooldown:    cooldown,
		clock:       clock,
	}
}

// OnStateChange installs the transition observer
func (cb *CircuitBreaker) OnStateChange(fn StateChangeFunc) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onChange = fn
}

// Call runs fn unless the breaker is open. Context cancellation is not
// counted against the upstream.
func (cb *CircuitBreaker) Call(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := cb.admit(); err != nil {
		return err
	}

	err := fn(ctx)
	cb.settle(err == nil, err != nil && ctx.Err() != nil)
	return err
}

// admit decides whether a call may reach the upstream
func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	from := cb.state
	switch cb.state {
	case CircuitOpen:
		if cb.clock.Now().Sub(cb.openedAt) < cb.cooldown {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = CircuitHalfOpen
		cb.probing = true
	case CircuitHalfOpen:
		if cb.probing {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.probing = true
	}
	to, notify := cb.state, cb.onChange
	cb.mu.Unlock()

	if notify != nil && from != to {
		notify(from, to)
	}
	return nil
}

// settle records the outcome of an admitted call
func (cb *CircuitBreaker) settle(ok, cancelled bool) {
	cb.mu.Lock()
	from := cb.state
	wasProbe := cb.probing
	cb.probing = false

	switch {
	case ok:
		cb.failures = 0
		cb.state = CircuitClosed
	case cancelled:
		// a cancelled probe proves nothing; let the next caller try
	default:
		cb.failures++
		if wasProbe || cb.failures >= cb.maxFailures {
			cb.state = CircuitOpen
			cb.openedAt = cb.clock.Now()
		}
	}
	to, notify := cb.state, cb.onChange
	cb.mu.Unlock()

	if notify != nil && from != to {
		notify(from, to)
	}
}

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	}
	return "closed"
}

// GetState returns the current state
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// GetFailureCount returns the consecutive failure count
func (cb *CircuitBreaker) GetFailureCount() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}
