package ratelimit

import (
	"sync"
	"time"
)

// Limiter is an in-memory sliding window limiter keyed per user. A request is
// admitted while fewer than limit requests happened inside the trailing window.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
	hits   map[string][]time.Time
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// NewLimiterWithClock lets tests drive the window deterministically.
func NewLimiterWithClock(limit int, window time.Duration, now func() time.Time) *Limiter {
	l := NewLimiter(limit, window)
	l.now = now
	return l
}

// Allow records a hit for key if it is admitted. When blocked it returns the
// time until the oldest hit falls out of the window.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// drop hits that left the window
	recent := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.hits[key] = recent
		retryAfter := recent[0].Add(l.window).Sub(now)
		return false, retryAfter
	}

	l.hits[key] = append(recent, now)
	return true, 0
}

// Purge drops keys with no hits left in the window, so the map does not grow
// with every user that ever chatted.
func (l *Limiter) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	for key, hits := range l.hits {
		alive := false
		for _, t := range hits {
			if t.After(cutoff) {
				alive = true
				break
			}
		}
		if !alive {
			delete(l.hits, key)
		}
	}
}
