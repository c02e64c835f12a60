package lane_test

import (
	"testing"

	"github.com/delaneyj/fiberparty/lane"
	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/stretchr/testify/assert"
)

func TestHighestPicksMostUrgent(t *testing.T) {
	assert.Equal(t, lane.NoLane, lane.Highest(lane.NoLanes))
	assert.Equal(t, lane.SyncLane, lane.Highest(lane.SyncLane|lane.IdleLane))
	assert.Equal(t, lane.DefaultLane, lane.Highest(lane.TransitionLane|lane.DefaultLane))
	assert.Equal(t, lane.IdleLane, lane.Highest(lane.IdleLane))
}

func TestMergeAndRemove(t *testing.T) {
	set := lane.Merge(lane.NoLanes, lane.DefaultLane)
	set = lane.Merge(set, lane.SyncLane)
	assert.True(t, lane.IsSubset(set, lane.SyncLane))
	assert.True(t, lane.IsSubset(set, lane.DefaultLane))
	assert.False(t, lane.IsSubset(set, lane.TransitionLane))
	assert.True(t, lane.IsSubset(set, lane.NoLane))

	set = lane.Remove(set, lane.SyncLane)
	assert.Equal(t, lane.DefaultLane, set)
	assert.Equal(t, "sync|default", (lane.SyncLane | lane.DefaultLane).String())
}

func TestSchedulerPriorityMapping(t *testing.T) {
	cases := []struct {
		lane     lane.Lane
		priority scheduler.Priority
	}{
		{lane.SyncLane, scheduler.ImmediatePriority},
		{lane.InputContinuousLane, scheduler.UserBlockingPriority},
		{lane.DefaultLane, scheduler.NormalPriority},
		{lane.TransitionLane, scheduler.LowPriority},
		{lane.IdleLane, scheduler.IdlePriority},
	}
	for _, c := range cases {
		t.Run(c.lane.String(), func(t *testing.T) {
			assert.Equal(t, c.priority, lane.ToSchedulerPriority(c.lane))
			assert.Equal(t, c.lane, lane.FromSchedulerPriority(c.priority))
		})
	}

	assert.Equal(t, scheduler.ImmediatePriority, lane.ToSchedulerPriority(lane.SyncLane|lane.IdleLane))
	assert.Equal(t, lane.SyncLane, lane.FromSchedulerPriority(scheduler.ImmediatePriority))
	assert.Equal(t, lane.DefaultLane, lane.FromSchedulerPriority(scheduler.NormalPriority))
	assert.Equal(t, lane.DefaultLane, lane.FromSchedulerPriority(scheduler.NoPriority))
}

func TestRequest(t *testing.T) {
	assert.Equal(t, lane.TransitionLane, lane.Request(true, scheduler.ImmediatePriority))
	assert.Equal(t, lane.InputContinuousLane, lane.Request(false, scheduler.UserBlockingPriority))
	assert.Equal(t, lane.TransitionLane, lane.Request(false, scheduler.LowPriority))
}
