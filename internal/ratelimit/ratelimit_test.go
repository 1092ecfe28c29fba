package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterBlocksFourthRequest(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiterWithClock(3, time.Minute, func() time.Time { return current })

	for i := 0; i < 3; i++ {
		ok, wait := l.Allow("user-1")
		assert.True(t, ok, "request %d should be admitted", i+1)
		assert.Zero(t, wait)
		current = current.Add(5 * time.Second)
	}

	// fourth inside the window is blocked with a positive wait estimate
	ok, wait := l.Allow("user-1")
	require.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))
	// oldest hit was 15s ago, so it leaves the window in 45s
	assert.Equal(t, 45*time.Second, wait)
}

func TestLimiterReadmitsAfterWindow(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiterWithClock(3, time.Minute, func() time.Time { return current })

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("user-1")
		require.True(t, ok)
	}
	ok, _ := l.Allow("user-1")
	require.False(t, ok)

	// once the window has fully elapsed the user is admitted again
	current = current.Add(time.Minute + time.Second)
	ok, wait := l.Allow("user-1")
	assert.True(t, ok)
	assert.Zero(t, wait)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiterWithClock(3, time.Minute, func() time.Time { return current })

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("user-1")
		require.True(t, ok)
	}
	ok, _ := l.Allow("user-1")
	require.False(t, ok)

	// a different user is not affected
	ok, _ = l.Allow("user-2")
	assert.True(t, ok)
}

func TestPurgeDropsIdleKeys(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiterWithClock(3, time.Minute, func() time.Time { return current })

	l.Allow("user-1")
	current = current.Add(2 * time.Minute)
	l.Purge()

	assert.Empty(t, l.hits)
}
