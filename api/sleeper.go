package api

import (
	"context"
	"time"
)

// Sleeper is the timed-suspension primitive used for rate-limit backoff.
// Sleep returns nil after d elapses, or ctx.Err() if the context is done
// first. A non-positive d returns immediately. Injectable so tests can make
// the quota wait deterministic.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type timerSleeper struct {
}

var _ Sleeper = &timerSleeper{}

// NewSleeper returns the default timer-backed Sleeper.
func NewSleeper() Sleeper {
	return &timerSleeper{}
}

func (s *timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
