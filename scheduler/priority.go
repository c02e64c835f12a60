package scheduler

import (
	"math"
	"time"
)

type Priority int

const (
	NoPriority Priority = iota
	ImmediatePriority
	UserBlockingPriority
	NormalPriority
	LowPriority
	IdlePriority
)

func (p Priority) String() string {
	switch p {
	case ImmediatePriority:
		return "immediate"
	case UserBlockingPriority:
		return "user-blocking"
	case NormalPriority:
		return "normal"
	case LowPriority:
		return "low"
	case IdlePriority:
		return "idle"
	default:
		return "none"
	}
}

// timeout is how long a task may wait before it is considered expired and
// runs without yielding.
func (p Priority) timeout() time.Duration {
	switch p {
	case ImmediatePriority:
		return -time.Millisecond
	case UserBlockingPriority:
		return 250 * time.Millisecond
	case LowPriority:
		return 10 * time.Second
	case IdlePriority:
		return time.Duration(math.MaxInt64 / 2)
	default:
		return 5 * time.Second
	}
}
