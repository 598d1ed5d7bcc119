package autocar

import (
	"sync"
	"time"
)

// RateLimiter limits actions per IP address over a sliding window.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	stop     chan struct{}
	once     sync.Once
}

// NewRateLimiter creates a RateLimiter that allows max actions per window.
// Close stops its cleanup goroutine.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	l := &RateLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *RateLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for ip, hits := range l.attempts {
			kept := prune(hits, cutoff)
			if len(kept) == 0 {
				delete(l.attempts, ip)
			} else {
				l.attempts[ip] = kept
			}
		}
		l.mu.Unlock()
	}
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow checks the limit and records the action when it is allowed. Both
// steps happen under one lock, so concurrent callers cannot overshoot max.
func (l *RateLimiter) Allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.pruneLocked(ip, now)
	if len(kept) >= l.max {
		return false
	}
	l.attempts[ip] = append(kept, now)
	return true
}

// Check returns true if the IP has not exceeded the rate limit.
// It does not record anything.
func (l *RateLimiter) Check(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.pruneLocked(ip, time.Now())) < l.max
}

// pruneLocked drops the expired hits of ip and returns the remaining ones.
// l.mu must be held.
func (l *RateLimiter) pruneLocked(ip string, now time.Time) []time.Time {
	kept := prune(l.attempts[ip], now.Add(-l.window))
	if len(kept) == 0 {
		delete(l.attempts, ip)
	} else {
		l.attempts[ip] = kept
	}
	return kept
}

// Record registers an action for the given IP.
func (l *RateLimiter) Record(ip string) {
	l.mu.Lock()
	l.attempts[ip] = append(l.attempts[ip], time.Now())
	l.mu.Unlock()
}

// Close stops the cleanup goroutine.
func (l *RateLimiter) Close() error {
	l.once.Do(func() { close(l.stop) })
	return nil
}
