package http

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	requestsPerMinute = 60
	staleAfter        = 10 * time.Minute
	cleanupEvery      = 5 * time.Minute
)

// rateLimiter caps mutating requests per client IP. Counters live in memory;
// a restart resets them, which is acceptable for a single-instance deployment.
type rateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	windowStart time.Time
	count       int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// allow records a request for the IP and reports whether it stays within the
// per-minute budget.
func (rl *rateLimiter) allow(clientIP string, metrics *appMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[clientIP]
	if !ok || now.Sub(b.windowStart) > time.Minute {
		rl.buckets[clientIP] = &bucket{windowStart: now, count: 1}
		return true
	}

	b.count++
	if b.count > requestsPerMinute {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimited, 1)
		}
		return false
	}
	return true
}

func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropStale()
		case <-rl.stop:
			return
		}
	}
}

func (rl *rateLimiter) dropStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	for ip, b := range rl.buckets {
		if b.windowStart.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
}

func (rl *rateLimiter) shutdown() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}
