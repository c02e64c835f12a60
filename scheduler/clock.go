package scheduler

import (
	"sync/atomic"
	"time"
)

// Clock reports monotonic time elapsed since some fixed origin.
type Clock interface {
	Now() time.Duration
}

type systemClock struct {
	anchor time.Time
}

func SystemClock() Clock {
	return &systemClock{anchor: time.Now()}
}

func (c *systemClock) Now() time.Duration {
	return time.Since(c.anchor)
}

// ManualClock only moves when told to. Tests use it to make yields
// deterministic; a component may call Advance while it renders.
type ManualClock struct {
	now atomic.Int64
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) Now() time.Duration {
	return time.Duration(c.now.Load())
}

func (c *ManualClock) Advance(d time.Duration) {
	c.now.Add(int64(d))
}
