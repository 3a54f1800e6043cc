// Package ratelimit provides a fixed-window request counter.
//
// Each provider adapter owns exactly one Limiter; the window state is
// never shared across adapters. This is a coarse, provider-local
// best-effort limiter: real protection against provider bans comes
// from the tier staggering in the compare service.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/quotemesh/bridgequote/internal/apperror"
)

// Limiter counts requests inside a fixed time window.
type Limiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	windowStart time.Time
	count       int
	now         func() time.Time
}

// New creates a limiter allowing maxRequests per window.
func New(maxRequests int, window time.Duration) *Limiter {
	return NewWithClock(maxRequests, window, time.Now)
}

// NewWithClock creates a limiter with an injectable clock for tests.
func NewWithClock(maxRequests int, window time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		windowStart: now(),
		now:         now,
	}
}

// Allow consumes one request slot from the current window. It returns
// a CodeRateLimitExceeded error carrying the remaining wait when the
// window budget is exhausted.
func (l *Limiter) Allow() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	elapsed := now.Sub(l.windowStart)
	if elapsed > l.window {
		l.windowStart = now
		l.count = 0
		elapsed = 0
	}

	if l.count >= l.maxRequests {
		wait := l.window - elapsed
		return apperror.New(apperror.CodeRateLimitExceeded,
			apperror.WithContext(fmt.Sprintf("retry in %s", wait.Round(time.Second))))
	}

	l.count++
	return nil
}

// Remaining returns the unused budget of the current window.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.now().Sub(l.windowStart) > l.window {
		return l.maxRequests
	}
	if rem := l.maxRequests - l.count; rem > 0 {
		return rem
	}
	return 0
}
