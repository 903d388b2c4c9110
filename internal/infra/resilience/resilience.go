// Package resilience provides fault-tolerance patterns for the outbound AI
// call: retry with exponential backoff, circuit breaker, and bulkhead.
package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Config tunes the outbound call.
//
// MaxRetries is the number of extra attempts after the first one, so the
// zero value performs a single round trip.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxConcurrency int
}

// permanentError marks a failure that retrying cannot fix.
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so RetryWithBackoff returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// RetryWithBackoff calls fn up to cfg.MaxRetries+1 times, sleeping an
// exponentially growing, jittered delay between attempts. A Permanent error
// ends the loop at once and its cause is returned.
func RetryWithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn()
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt >= cfg.MaxRetries {
			return err
		}

		timer := time.NewTimer(backoff(cfg, attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}

func backoff(cfg Config, attempt int) time.Duration {
	base := time.Duration(math.Pow(2, float64(attempt))) * cfg.InitialBackoff
	if cfg.MaxBackoff > 0 && base > cfg.MaxBackoff {
		base = cfg.MaxBackoff
	}
	if base < 2 {
		return base
	}
	return base + time.Duration(rand.Int63n(int64(base/2)))
}

// NewCircuitBreaker creates a circuit breaker for the named dependency.
// State transitions are logged.
func NewCircuitBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,                // half-open: one trial request
		Interval:    60 * time.Second, // closed: reset counters every minute
		Timeout:     30 * time.Second, // open -> half-open after 30s
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// caller cancellations say nothing about the remote side
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Bulkhead caps the number of calls in flight to one dependency.
type Bulkhead struct {
	slots chan struct{}
}

// NewBulkhead allows up to maxConcurrency concurrent holders, never fewer
// than one.
func NewBulkhead(maxConcurrency int) *Bulkhead {
	return &Bulkhead{slots: make(chan struct{}, max(maxConcurrency, 1))}
}

// Acquire takes a slot, waiting while all are busy. It gives up with the
// context error.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot taken by Acquire.
func (b *Bulkhead) Release() { <-b.slots }

// InFlight reports how many slots are taken.
func (b *Bulkhead) InFlight() int { return len(b.slots) }
