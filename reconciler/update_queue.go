package reconciler

import (
	"github.com/delaneyj/fiberparty/lane"
	"github.com/delaneyj/fiberparty/ui"
)

// update is one requested state transition. Queues are circular singly
// linked lists addressed by their last element, so last.next is the first.
type update struct {
	action any
	lane   lane.Lane
	next   *update
}

type sharedQueue struct {
	pending *update
}

type updateQueue struct {
	shared   sharedQueue
	dispatch ui.Dispatch
}

func createUpdate(action any, l lane.Lane) *update {
	return &update{action: action, lane: l}
}

func createUpdateQueue() *updateQueue {
	return &updateQueue{}
}

func enqueueUpdate(q *updateQueue, u *update) {
	pending := q.shared.pending
	if pending == nil {
		u.next = u
	} else {
		u.next = pending.next
		pending.next = u
	}
	q.shared.pending = u
}

// mergeQueues appends the circular list pending after baseQueue and returns
// the combined list.
func mergeQueues(baseQueue, pending *update) *update {
	if pending == nil {
		return baseQueue
	}
	if baseQueue != nil {
		baseFirst := baseQueue.next
		pendingFirst := pending.next
		baseQueue.next = pendingFirst
		pending.next = baseFirst
	}
	return pending
}

func applyAction(state, action any) any {
	if fn, ok := action.(ui.Updater); ok {
		return fn(state)
	}
	return action
}

type processedQueue struct {
	memoizedState any
	baseState     any
	baseQueue     *update
}

// processUpdateQueue folds the updates whose lane is part of renderLane over
// baseState in arrival order. The first skipped update freezes the base
// state; it and every update after it are kept in the returned base queue so
// a later pass replays them in the same order. Updates replayed only for
// ordering are cloned with NoLane so any pass applies them.
func processUpdateQueue(baseState any, pending *update, renderLane lane.Lane) processedQueue {
	result := processedQueue{
		memoizedState: baseState,
		baseState:     baseState,
	}
	if pending == nil {
		return result
	}

	first := pending.next
	u := first
	newState := baseState
	newBaseState := baseState
	var newBaseFirst, newBaseLast *update

	for {
		if !lane.IsSubset(renderLane, u.lane) {
			clone := createUpdate(u.action, u.lane)
			if newBaseLast == nil {
				newBaseFirst = clone
				newBaseState = newState
			} else {
				newBaseLast.next = clone
			}
			newBaseLast = clone
		} else {
			if newBaseLast != nil {
				clone := createUpdate(u.action, lane.NoLane)
				newBaseLast.next = clone
				newBaseLast = clone
			}
			newState = applyAction(newState, u.action)
		}
		u = u.next
		if u == first {
			break
		}
	}

	if newBaseLast == nil {
		newBaseState = newState
	} else {
		newBaseLast.next = newBaseFirst
	}

	result.memoizedState = newState
	result.baseState = newBaseState
	result.baseQueue = newBaseLast
	return result
}

// queueLanes reports the union of lanes still queued in a circular list.
func queueLanes(last *update) lane.Lanes {
	if last == nil {
		return lane.NoLanes
	}
	lanes := lane.NoLanes
	u := last.next
	for {
		lanes = lane.Merge(lanes, u.lane)
		if u == last {
			return lanes
		}
		u = u.next
	}
}
