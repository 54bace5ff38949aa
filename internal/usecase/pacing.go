package usecase

import (
	"context"
	"math/rand"
	"time"
)

const (
	DefaultMinDelay = 15 * time.Second
	DefaultMaxDelay = 45 * time.Second
)

// Pacer decides how long to wait after the given send attempt (1-based).
type Pacer interface {
	Delay(attempt int) time.Duration
}

type PacerFunc func(attempt int) time.Duration

func (f PacerFunc) Delay(attempt int) time.Duration { return f(attempt) }

// NoPacer never waits.
var NoPacer Pacer = PacerFunc(func(int) time.Duration { return 0 })

// RandomPacer samples a delay uniformly from [Min, Max].
type RandomPacer struct {
	Min time.Duration
	Max time.Duration
}

func NewRandomPacer(min, max time.Duration) RandomPacer {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return RandomPacer{Min: min, Max: max}
}

func (p RandomPacer) Delay(int) time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + time.Duration(rand.Int63n(int64(p.Max-p.Min)+1))
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
