package slack

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultAttempts = 5
	defaultBase     = time.Second
	defaultCap      = 60 * time.Second
)

// Telemetry receives call-level counters and terminal failures from the
// retrier. The exporter's run telemetry implements it.
type Telemetry interface {
	IncCalls()
	IncRateLimitWaits()
	RecordError(unit string, err error)
}

// NopTelemetry discards everything. Useful for callers that do not keep run
// counters.
type NopTelemetry struct{}

func (NopTelemetry) IncCalls()                 {}
func (NopTelemetry) IncRateLimitWaits()        {}
func (NopTelemetry) RecordError(string, error) {}

// Retrier wraps a single remote call with rate-limit and transient-failure
// recovery. Rate-limit refusals sleep the server-stated delay and are
// retried without consuming the attempt budget; transient failures back off
// exponentially with jitter up to the budget; every other failure is
// terminal on the first attempt.
type Retrier struct {
	Attempts  int
	Base      time.Duration
	Cap       time.Duration
	Sleep     func(ctx context.Context, d time.Duration) error
	Telemetry Telemetry
	Log       *zap.Logger
}

// NewRetrier creates a Retrier with the default budget and backoff policy.
func NewRetrier(tel Telemetry, log *zap.Logger) *Retrier {
	if tel == nil {
		tel = NopTelemetry{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Retrier{
		Attempts:  defaultAttempts,
		Base:      defaultBase,
		Cap:       defaultCap,
		Sleep:     sleepContext,
		Telemetry: tel,
		Log:       log,
	}
}

// Do runs call until it succeeds, fails terminally, or the budget is
// exhausted. label identifies the unit of work in logs and telemetry; it
// must not contain credentials or message text.
func (r *Retrier) Do(ctx context.Context, label string, call func() error) error {
	attempt := 0
	for {
		attempt++
		r.Telemetry.IncCalls()

		err := call()
		if err == nil {
			return nil
		}

		if IsRateLimited(err) {
			wait := retryAfter(err)
			r.Telemetry.IncRateLimitWaits()
			r.Log.Debug("rate limited, waiting",
				zap.String("unit", label),
				zap.Duration("wait", wait))
			if serr := r.Sleep(ctx, wait); serr != nil {
				r.Telemetry.RecordError(label, serr)
				return serr
			}
			// Rate-limit waits do not consume the attempt budget.
			attempt--
			continue
		}

		if !isTransient(err) || attempt >= r.Attempts {
			r.Telemetry.RecordError(label, err)
			if !isTransient(err) {
				return errors.Wrap(err, label)
			}
			return errors.Wrapf(err, "%s: giving up after %d attempts", label, attempt)
		}

		wait := r.backoff(attempt)
		r.Log.Debug("transient failure, backing off",
			zap.String("unit", label),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait))
		if serr := r.Sleep(ctx, wait); serr != nil {
			r.Telemetry.RecordError(label, serr)
			return serr
		}
	}
}

// backoff returns min(base*2^(attempt-1), cap) plus up to 30% random jitter.
func (r *Retrier) backoff(attempt int) time.Duration {
	d := r.Base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= r.Cap {
			d = r.Cap
			break
		}
	}
	if d > r.Cap {
		d = r.Cap
	}
	return d + time.Duration(rand.Float64()*0.3*float64(d))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
