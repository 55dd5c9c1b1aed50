// Package ratelimit implements a fixed-window request ceiling per key.
//
// Counters live either in process memory (go-cache, item expiry as the
// window) or in Redis (INCR + EXPIRE) so several instances share them.
package ratelimit

import (
	"context"
	"time"
)

// Counter increments the hit count of key inside the current window.
type Counter interface {
	// Hit records one request and returns the count so far and when the
	// window resets.
	Hit(ctx context.Context, key string) (count int, reset time.Time, err error)
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter allows at most max requests per key inside each window.
type Limiter struct {
	counter Counter
	max     int
}

// New builds a Limiter over counter.
func New(counter Counter, limit int) *Limiter {
	return &Limiter{counter: counter, max: limit}
}

// Allow records a request for key and reports whether it fits the ceiling.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	n, reset, err := l.counter.Hit(ctx, key)
	if err != nil {
		return Decision{Allowed: true, Limit: l.max, Remaining: l.max}, err
	}
	return Decision{
		Allowed:   n <= l.max,
		Limit:     l.max,
		Remaining: max(l.max-n, 0),
		Reset:     reset,
	}, nil
}
