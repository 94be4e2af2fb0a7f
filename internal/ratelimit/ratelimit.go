package ratelimit

import (
	"context"
	"sync"
	"time"
)

type RateLimiter interface {
	Wait(ctx context.Context) error
}

// IntervalLimiter spaces all callers at least minInterval apart. The mutex
// covers the whole read-wait-update sequence, so two callers can never exit
// Wait less than minInterval apart regardless of interleaving.
type IntervalLimiter struct {
	minInterval time.Duration
	lastRequest time.Time
	mu          sync.Mutex
}

func NewIntervalLimiter(minInterval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{
		minInterval: minInterval,
	}
}

func (l *IntervalLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	elapsed := time.Since(l.lastRequest)
	if elapsed < l.minInterval {
		timer := time.NewTimer(l.minInterval - elapsed)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	// lastRequest only ever moves forward.
	l.lastRequest = time.Now()
	return nil
}
