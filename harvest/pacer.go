package harvest

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fwojciec/jobsift"
	"golang.org/x/time/rate"
)

// Default politeness delays between requests to the same host.
const (
	DefaultMinDelay = 3 * time.Second
	DefaultMaxDelay = 20 * time.Second
)

var _ jobsift.HostLimiter = (*Pacer)(nil)

// Pacer spaces requests to each host by a random delay drawn from
// [MinDelay, MaxDelay]. Each host gets its own token bucket with a burst of 1,
// so the first request to a host proceeds immediately and requests to
// different hosts do not wait on each other.
type Pacer struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	minDelay time.Duration
	maxDelay time.Duration

	// randDelay is replaced in tests.
	randDelay func(lo, hi time.Duration) time.Duration
}

// NewPacer creates a Pacer. If maxDelay is below minDelay it is raised to minDelay.
// A zero minDelay and maxDelay disable pacing.
func NewPacer(minDelay, maxDelay time.Duration) *Pacer {
	if minDelay < 0 {
		minDelay = 0
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Pacer{
		limiters:  make(map[string]*rate.Limiter),
		minDelay:  minDelay,
		maxDelay:  maxDelay,
		randDelay: uniformDelay,
	}
}

// Wait blocks until a request to host may proceed.
// Returns an error if the context is canceled before the wait completes.
func (p *Pacer) Wait(ctx context.Context, host string) error {
	if p.maxDelay == 0 {
		return ctx.Err()
	}

	delay := p.randDelay(p.minDelay, p.maxDelay)

	p.mu.Lock()
	limiter, ok := p.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
		p.limiters[host] = limiter
	} else {
		limiter.SetLimit(rate.Every(delay))
	}
	p.mu.Unlock()

	return limiter.Wait(ctx)
}

func uniformDelay(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}
