// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package musicbrainz

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ManuGH/mbzfeed/internal/metrics"
)

// State represents the circuit breaker state.
type State int

const (
	StateClosed   State = iota // Normal operation, requests allowed
	StateOpen                  // Circuit open, requests blocked
	StateHalfOpen              // Testing if service recovered
)

var ErrCircuitOpen = errors.New("musicbrainz: circuit breaker is open")

const breakerComponent = "musicbrainz"

// CircuitBreaker stops hammering MusicBrainz after repeated failures.
// Not-found responses and caller cancellations are not counted as failures.
type CircuitBreaker struct {
	mu               sync.RWMutex
	state            State
	failures         int
	failureThreshold int
	resetTimeout     time.Duration
	lastFailure      time.Time
	now              func() time.Time
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(threshold int, resetTimeout time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	cb := &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: threshold,
		resetTimeout:     resetTimeout,
		now:              time.Now,
	}
	metrics.SetCircuitBreakerState(breakerComponent, stateLabel(cb.state))
	return cb
}

// Execute runs fn if the circuit is closed or half-open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allowRequest() {
		return ErrCircuitOpen
	}

	err := fn()
	if countsAsFailure(err) {
		cb.recordFailure()
		return err
	}

	cb.recordSuccess()
	return err
}

func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, context.Canceled)
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Sub(cb.lastFailure) > cb.resetTimeout {
			cb.transition(StateHalfOpen)
			return true
		}
		return false
	default:
		// Half-open: let requests through until one succeeds or fails.
		return true
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = cb.now()

	if cb.state == StateHalfOpen || cb.failures >= cb.failureThreshold {
		if cb.state != StateOpen {
			metrics.RecordCircuitBreakerTrip(breakerComponent)
		}
		cb.transition(StateOpen)
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.transition(StateClosed)
}

// transition must be called with mu held.
func (cb *CircuitBreaker) transition(state State) {
	if cb.state == state {
		return
	}
	cb.state = state
	metrics.SetCircuitBreakerState(breakerComponent, stateLabel(state))
}

// State returns the current state (thread-safe).
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

func (s State) String() string {
	return stateLabel(s)
}

func stateLabel(state State) string {
	switch state {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}
