package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")
var errFatal = errors.New("fatal")

func recordingSleep(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return ctx.Err()
	}
}

func TestBackoff_Doubles(t *testing.T) {
	p := Policy{Unit: time.Second}
	assert.Equal(t, time.Second, p.Backoff(0))
	assert.Equal(t, 2*time.Second, p.Backoff(1))
	assert.Equal(t, 4*time.Second, p.Backoff(2))
	assert.Zero(t, Policy{}.Backoff(3))
	assert.Zero(t, p.Backoff(-1))
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	var waits []time.Duration
	p := Policy{MaxAttempts: 3, Unit: time.Second, Sleep: recordingSleep(&waits)}

	n, err := p.Do(context.Background(), func(context.Context, int) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, waits)
}

func TestDo_RetriesTransientWithBackoff(t *testing.T) {
	var waits []time.Duration
	p := Policy{MaxAttempts: 3, Unit: time.Second, Sleep: recordingSleep(&waits)}

	var seen []int
	n, err := p.Do(context.Background(), func(_ context.Context, attempt int) error {
		seen = append(seen, attempt)
		return errFlaky
	})
	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, waits)
}

func TestDo_SucceedsAfterRetry(t *testing.T) {
	var waits []time.Duration
	p := Policy{MaxAttempts: 3, Unit: time.Millisecond, Sleep: recordingSleep(&waits)}

	n, err := p.Do(context.Background(), func(_ context.Context, attempt int) error {
		if attempt < 2 {
			return errFlaky
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, waits, 1)
}

func TestDo_TerminalStopsImmediately(t *testing.T) {
	var waits []time.Duration
	p := Policy{
		MaxAttempts: 3,
		Unit:        time.Second,
		Terminal:    func(err error) bool { return errors.Is(err, errFatal) },
		Sleep:       recordingSleep(&waits),
	}

	calls := 0
	n, err := p.Do(context.Background(), func(context.Context, int) error {
		calls++
		return errFatal
	})
	require.ErrorIs(t, err, errFatal)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, calls)
	assert.Empty(t, waits)
}

func TestDo_ZeroPolicyRunsOnce(t *testing.T) {
	calls := 0
	n, err := Policy{}.Do(context.Background(), func(context.Context, int) error {
		calls++
		return errFlaky
	})
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, calls)
}

func TestDo_CancelledContextStopsBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 5, Unit: time.Hour}

	calls := 0
	done := make(chan struct{})
	var n int
	var err error
	go func() {
		defer close(done)
		n, err = p.Do(ctx, func(context.Context, int) error {
			calls++
			return errFlaky
		})
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	require.Error(t, err)
	assert.LessOrEqual(t, n, 1)
	assert.LessOrEqual(t, calls, 1)
}

func TestDo_DefaultTimerWaitsBetweenAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 3, Unit: 5 * time.Millisecond}

	start := time.Now()
	n, err := p.Do(context.Background(), func(context.Context, int) error { return errFlaky })
	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, n)
	// 5ms then 10ms.
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestDo_SleepErrorStopsRetrying(t *testing.T) {
	p := Policy{
		MaxAttempts: 5,
		Unit:        time.Second,
		Sleep:       func(context.Context, time.Duration) error { return context.Canceled },
	}
	calls := 0
	n, err := p.Do(context.Background(), func(context.Context, int) error {
		calls++
		return errFlaky
	})
	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, calls)
}
