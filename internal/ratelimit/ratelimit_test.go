package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotemesh/bridgequote/internal/apperror"
)

func TestLimiterExhaustsWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewWithClock(3, time.Minute, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(), "call %d should be within budget", i)
	}
	assert.Equal(t, 0, l.Remaining())

	err := l.Allow()
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeRateLimitExceeded))
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewWithClock(1, time.Minute, func() time.Time { return now })

	require.NoError(t, l.Allow())
	require.Error(t, l.Allow())

	// Still inside the window: budget stays spent.
	now = now.Add(59 * time.Second)
	require.Error(t, l.Allow())

	// Past the window: fresh budget.
	now = now.Add(2 * time.Second)
	assert.Equal(t, 1, l.Remaining())
	require.NoError(t, l.Allow())
}

func TestRemainingBeforeAnyCall(t *testing.T) {
	l := New(5, time.Minute)
	assert.Equal(t, 5, l.Remaining())
}
