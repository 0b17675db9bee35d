package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsUpToBudget(t *testing.T) {
	rl := newRateLimiter(time.Hour, 3)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, rl.allow(now))
	assert.True(t, rl.allow(now))
	assert.True(t, rl.allow(now))
	assert.False(t, rl.allow(now), "Fourth request in the window should be rejected")
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := newRateLimiter(time.Hour, 2)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	require.True(t, rl.allow(now))
	require.True(t, rl.allow(now.Add(30*time.Minute)))
	require.False(t, rl.allow(now.Add(45*time.Minute)))

	// The first stamp falls out after an hour, freeing one slot
	assert.True(t, rl.allow(now.Add(61*time.Minute)))
	assert.False(t, rl.allow(now.Add(62*time.Minute)))
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := newRateLimiter(0, 0)
	status := rl.status(time.Now())
	assert.Equal(t, 3600, status.WindowSeconds)
	assert.Equal(t, 4000, status.MaxRequests)
	assert.Equal(t, 0, status.Used)
	assert.Equal(t, 4000, status.Remaining)
}

func TestRateLimiterStatusCountsUsage(t *testing.T) {
	rl := newRateLimiter(time.Hour, 5)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	require.True(t, rl.allow(now))
	require.True(t, rl.allow(now))

	status := rl.status(now.Add(time.Minute))
	assert.Equal(t, 2, status.Used)
	assert.Equal(t, 3, status.Remaining)

	// After the window passes, usage resets
	status = rl.status(now.Add(2 * time.Hour))
	assert.Equal(t, 0, status.Used)
	assert.Equal(t, 5, status.Remaining)
}
