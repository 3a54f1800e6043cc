// Package circuitbreaker wraps sony/gobreaker with project defaults.
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Config aliases gobreaker.Settings so callers tune breakers without
// importing gobreaker directly.
type Config = gobreaker.Settings

// CircuitBreaker is a typed breaker over results of type T.
type CircuitBreaker[T any] = gobreaker.CircuitBreaker[T]

// DefaultConfig returns settings tuned for flaky upstream APIs: trip
// after 5 consecutive failures, probe again after 30 seconds.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

// New creates a typed circuit breaker from a config.
func New[T any](cfg Config) *CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](cfg)
}

// IsOpen reports whether err came from a breaker rejecting the call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
