package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles batch throughput. A zero or negative rate means
// unlimited; Wait then returns immediately.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing recordsPerSecond sustained
// throughput with the given burst
func NewLimiter(recordsPerSecond float64, burst int) *Limiter {
	if recordsPerSecond <= 0 {
		return &Limiter{}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(recordsPerSecond), burst)}
}

// Wait blocks until the next record may proceed or the context ends
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Allow reports whether a record may proceed without waiting
func (l *Limiter) Allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}
