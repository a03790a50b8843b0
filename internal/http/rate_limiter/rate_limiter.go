package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultIdleTTL         = 5 * time.Minute
	defaultCleanupInterval = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Visitors keeps one token bucket per client key (usually the client IP).
type Visitors struct {
	mu       sync.Mutex
	visitors map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

func NewVisitors(rps float64, burst int) *Visitors {
	return &Visitors{
		visitors: make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  defaultIdleTTL,
		now:      time.Now,
	}
}

// GetVisitor returns the limiter for key, creating it on first use.
func (v *Visitors) GetVisitor(key string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, exists := v.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(v.rps, v.burst)
		v.visitors[key] = &clientLimiter{limiter, v.now()}
		return limiter
	}

	c.lastSeen = v.now()
	return c.limiter
}

// Allow reports whether key may make a request now.
func (v *Visitors) Allow(key string) bool {
	return v.GetVisitor(key).Allow()
}

// Cleanup forgets visitors idle for longer than the idle TTL and returns how many were removed.
func (v *Visitors) Cleanup() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	removed := 0
	cutoff := v.now().Add(-v.idleTTL)
	for key, c := range v.visitors {
		if c.lastSeen.Before(cutoff) {
			delete(v.visitors, key)
			removed++
		}
	}
	return removed
}

// StartCleanupLoop runs Cleanup every interval until ctx is done.
func (v *Visitors) StartCleanupLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.Cleanup()
		}
	}
}

func (v *Visitors) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visitors)
}

func (v *Visitors) CleanupAllVisitors() {
	v.mu.Lock()
	v.visitors = make(map[string]*clientLimiter)
	v.mu.Unlock()
}
