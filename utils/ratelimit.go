package utils

import (
	"sync"
	"time"
)

// RateLimiter enforces a minimum interval between requests. The per-key Lot
// queries run sequentially but still need pacing against the Deep Lynx API.
type RateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a RateLimiter with the given interval in milliseconds.
func NewRateLimiter(intervalMs int) *RateLimiter {
	return &RateLimiter{
		minInterval: time.Duration(intervalMs) * time.Millisecond,
	}
}

// Wait blocks until the minimum interval since the previous request has
// elapsed, then records the current request time.
func (rl *RateLimiter) Wait() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if !rl.lastRequest.IsZero() {
		elapsed := time.Since(rl.lastRequest)
		if elapsed < rl.minInterval {
			time.Sleep(rl.minInterval - elapsed)
		}
	}
	rl.lastRequest = time.Now()
}
