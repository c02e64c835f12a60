// Package lane implements the bitset priority model used to tag pending
// updates. Each urgency class owns one bit; a lower bit is more urgent.
package lane

import (
	"strings"

	"github.com/delaneyj/fiberparty/scheduler"
)

type Lane uint32

// Lanes is a set of Lane bits.
type Lanes = Lane

const (
	SyncLane Lane = 1 << iota
	InputContinuousLane
	DefaultLane
	TransitionLane
	IdleLane

	NoLane  Lane = 0
	NoLanes      = NoLane
)

func (l Lane) String() string {
	if l == NoLane {
		return "none"
	}
	names := make([]string, 0, 5)
	for _, c := range []struct {
		lane Lane
		name string
	}{
		{SyncLane, "sync"},
		{InputContinuousLane, "input-continuous"},
		{DefaultLane, "default"},
		{TransitionLane, "transition"},
		{IdleLane, "idle"},
	} {
		if l&c.lane != 0 {
			names = append(names, c.name)
		}
	}
	return strings.Join(names, "|")
}

func Merge(a, b Lanes) Lanes {
	return a | b
}

// Highest extracts the most urgent lane, the lowest set bit.
func Highest(lanes Lanes) Lane {
	return lanes & -lanes
}

func IsSubset(set Lanes, subset Lane) bool {
	return set&subset == subset
}

func Remove(set Lanes, l Lanes) Lanes {
	return set &^ l
}

// ToSchedulerPriority maps the most urgent lane in lanes to the host
// scheduler priority its callback should run at.
func ToSchedulerPriority(lanes Lanes) scheduler.Priority {
	switch Highest(lanes) {
	case SyncLane:
		return scheduler.ImmediatePriority
	case InputContinuousLane:
		return scheduler.UserBlockingPriority
	case DefaultLane:
		return scheduler.NormalPriority
	case TransitionLane:
		return scheduler.LowPriority
	default:
		return scheduler.IdlePriority
	}
}

func FromSchedulerPriority(p scheduler.Priority) Lane {
	switch p {
	case scheduler.ImmediatePriority:
		return SyncLane
	case scheduler.UserBlockingPriority:
		return InputContinuousLane
	case scheduler.NormalPriority, scheduler.NoPriority:
		return DefaultLane
	case scheduler.LowPriority:
		return TransitionLane
	default:
		return IdleLane
	}
}

// Request derives the lane for a new update from context: transitions win,
// otherwise the scheduler's current priority decides.
func Request(inTransition bool, current scheduler.Priority) Lane {
	if inTransition {
		return TransitionLane
	}
	return FromSchedulerPriority(current)
}
