// Package retry runs an operation under a bounded attempt policy with
// exponential backoff and a terminal-error predicate, on top of
// cenkalti/backoff.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy describes how many times an operation may run and how long to wait
// between runs. The zero value runs the operation once.
type Policy struct {
	// MaxAttempts bounds the total number of runs, including the first.
	MaxAttempts int
	// Unit is the base delay; the wait after attempt index i (0-based) is
	// Unit * 2^i.
	Unit time.Duration
	// Terminal reports errors that must not be retried.
	Terminal func(error) bool
	// Sleep waits for d or until ctx is done. Nil leaves waiting to backoff's
	// own timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// maxInterval caps a single wait.
const maxInterval = 10 * time.Minute

// Backoff returns the wait after the attempt with the given 0-based index.
func (p Policy) Backoff(attemptIndex int) time.Duration {
	if attemptIndex < 0 || p.Unit <= 0 {
		return 0
	}
	b := p.exponential()
	var d time.Duration
	for i := 0; i <= attemptIndex; i++ {
		d = b.NextBackOff()
	}
	return d
}

// exponential is the doubling schedule without jitter.
func (p Policy) exponential() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.Unit,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         maxInterval,
	}
	b.Reset()
	return b
}

// Do runs op until it succeeds, fails terminally, the attempts run out or ctx
// is cancelled. op receives the 1-based attempt number. Do returns the number
// of attempts made and the last error op returned.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	max := p.MaxAttempts
	if max < 1 {
		max = 1
	}

	var bo backoff.BackOff = p.exponential()
	if p.Sleep != nil {
		bo = &sleeper{ctx: ctx, next: bo, sleep: p.Sleep}
	}

	attempts := 0
	var last error
	run := func() (struct{}, error) {
		attempts++
		last = op(ctx, attempts)
		if last != nil && p.Terminal != nil && p.Terminal(last) {
			return struct{}{}, backoff.Permanent(last)
		}
		return struct{}{}, last
	}

	_, err := backoff.Retry(ctx, run,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(max)),
		backoff.WithMaxElapsedTime(0),
	)
	if err == nil {
		return attempts, nil
	}
	// Report op's own error rather than backoff's wrapper or the context cause.
	if last != nil {
		return attempts, last
	}
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return attempts, perm.Err
	}
	return attempts, err
}

// sleeper performs the wait through a caller-supplied function and hands
// backoff a zero delay.
type sleeper struct {
	ctx   context.Context
	next  backoff.BackOff
	sleep func(context.Context, time.Duration) error
}

func (s *sleeper) Reset() { s.next.Reset() }

func (s *sleeper) NextBackOff() time.Duration {
	d := s.next.NextBackOff()
	if d == backoff.Stop {
		return backoff.Stop
	}
	if err := s.sleep(s.ctx, d); err != nil {
		return backoff.Stop
	}
	return 0
}
