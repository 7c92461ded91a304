// Package retry runs an operation against a fixed attempt budget with a fixed
// pause between attempts, on top of sethvargo/go-retry.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

// ErrExhausted is returned when every attempt in the budget was used without
// the operation reporting completion.
var ErrExhausted = errors.New("retry budget exhausted")

var errPending = errors.New("operation still pending")

// Policy bounds a retry loop. Worst-case wall clock is roughly
// (Attempts-1) * Interval plus the time spent in the attempts themselves.
type Policy struct {
	Attempts int
	Interval time.Duration
}

// Backoff returns a constant backoff that allows Attempts-1 pauses, so there
// is no pause after the final attempt.
func (p Policy) Backoff() goretry.Backoff {
	return goretry.WithMaxRetries(uint64(p.Attempts-1), goretry.NewConstant(p.Interval))
}

// Wait is the worst-case time spent pausing between attempts.
func (p Policy) Wait() time.Duration {
	if p.Attempts < 2 {
		return 0
	}
	return time.Duration(p.Attempts-1) * p.Interval
}

func (p Policy) validate() error {
	if p.Attempts < 1 {
		return fmt.Errorf("retry: invalid attempt budget %d", p.Attempts)
	}
	if p.Interval <= 0 {
		return fmt.Errorf("retry: invalid interval %s", p.Interval)
	}
	return nil
}

// Observer is told about each pause before it starts.
type Observer func(ctx context.Context, d time.Duration)

// Func is a single attempt. attempt is 1-based. Returning done=true stops the
// loop and Do returns err as-is; done=false schedules another attempt, with
// err kept as the most recent failure.
type Func func(ctx context.Context, attempt int) (done bool, err error)

// Do calls fn until it reports done or the policy's attempts are used up.
// observe may be nil. Context cancellation is returned as ctx.Err().
func Do(ctx context.Context, p Policy, observe Observer, fn Func) error {
	if err := p.validate(); err != nil {
		return err
	}

	b := p.Backoff()
	if observe != nil {
		b = observed(ctx, b, observe)
	}

	var (
		attempt int
		pending bool
		last    error
	)
	err := goretry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		done, err := fn(ctx, attempt)
		pending = !done
		if done {
			return err
		}
		last = err
		if err == nil {
			err = errPending
		}
		return goretry.RetryableError(err)
	})
	if err == nil || !pending {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if last != nil {
		return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, last)
	}
	return fmt.Errorf("%w after %d attempts", ErrExhausted, attempt)
}

func observed(ctx context.Context, b goretry.Backoff, observe Observer) goretry.Backoff {
	return goretry.BackoffFunc(func() (time.Duration, bool) {
		d, stop := b.Next()
		if !stop {
			observe(ctx, d)
		}
		return d, stop
	})
}
