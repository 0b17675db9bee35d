package core

import (
	"sync"
	"time"

	"github.com/devpulse/devpulse/schema"
)

// rateLimiter is a sliding-window counter. A request consumes its slot at
// the moment of the check.
type rateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	stamps []time.Time
}

func newRateLimiter(window time.Duration, max int) *rateLimiter {
	if window <= 0 {
		window = schema.RateWindowSeconds * time.Second
	}
	if max <= 0 {
		max = schema.RateMaxRequests
	}
	return &rateLimiter{window: window, max: max}
}

// allow reports whether a request fits the budget, recording it if so.
func (rl *rateLimiter) allow(now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.prune(now)
	if len(rl.stamps) >= rl.max {
		return false
	}
	rl.stamps = append(rl.stamps, now)
	return true
}

// prune drops stamps that fell out of the window. Callers hold rl.mu.
func (rl *rateLimiter) prune(now time.Time) {
	cutoff := now.Add(-rl.window)
	keep := rl.stamps[:0]
	for _, s := range rl.stamps {
		if s.After(cutoff) {
			keep = append(keep, s)
		}
	}
	rl.stamps = keep
}

func (rl *rateLimiter) status(now time.Time) schema.RateStatus {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.prune(now)
	return schema.RateStatus{
		WindowSeconds: int(rl.window.Seconds()),
		MaxRequests:   rl.max,
		Used:          len(rl.stamps),
		Remaining:     rl.max - len(rl.stamps),
	}
}
