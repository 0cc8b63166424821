// pkg/validation/rate_limiter.go
package validation

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimited is returned by callers that refuse a command RateLimiter denied.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiter implements a token bucket per input command, so a held key
// cannot, for example, rebuild the game on every repeat event.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	buckets     map[string]*bucket
	now         func() time.Time
	mu          sync.Mutex
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewRateLimiter allows maxRequests per window for each command
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	if maxRequests < 1 {
		maxRequests = 1
	}
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		buckets:     make(map[string]*bucket),
		now:         time.Now,
	}
}

// Allow consumes a token for command and reports whether it was available
func (rl *RateLimiter) Allow(command string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[command]
	if !ok {
		b = &bucket{tokens: rl.maxRequests, lastRefill: now}
		rl.buckets[command] = b
	}

	// Refill in proportion to the elapsed fraction of the window
	if elapsed := now.Sub(b.lastRefill); elapsed > 0 && b.tokens < rl.maxRequests {
		refill := int(float64(rl.maxRequests) * float64(elapsed) / float64(rl.window))
		if refill > 0 {
			b.tokens += refill
			if b.tokens > rl.maxRequests {
				b.tokens = rl.maxRequests
			}
			b.lastRefill = now
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// Reset forgets all buckets
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.buckets = make(map[string]*bucket)
}
