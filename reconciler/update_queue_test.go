package reconciler

import (
	"testing"

	"github.com/delaneyj/fiberparty/lane"
	"github.com/delaneyj/fiberparty/ui"
	"github.com/stretchr/testify/assert"
)

func add(n int) ui.Updater {
	return func(prev any) any {
		return prev.(int) + n
	}
}

func queueOf(updates ...*update) *updateQueue {
	q := createUpdateQueue()
	for _, u := range updates {
		enqueueUpdate(q, u)
	}
	return q
}

func TestEnqueueKeepsArrivalOrder(t *testing.T) {
	q := queueOf(
		createUpdate(1, lane.DefaultLane),
		createUpdate(2, lane.DefaultLane),
		createUpdate(3, lane.DefaultLane),
	)

	var got []any
	for u := q.shared.pending.next; ; u = u.next {
		got = append(got, u.action)
		if u == q.shared.pending {
			break
		}
	}
	assert.Equal(t, []any{1, 2, 3}, got)
	assert.Equal(t, lane.DefaultLane, queueLanes(q.shared.pending))
}

func TestProcessUpdateQueue(t *testing.T) {
	t.Run("folds values and updaters in order", func(t *testing.T) {
		q := queueOf(
			createUpdate(add(1), lane.SyncLane),
			createUpdate(10, lane.SyncLane),
			createUpdate(add(5), lane.SyncLane),
		)
		res := processUpdateQueue(0, q.shared.pending, lane.SyncLane)
		assert.Equal(t, 15, res.memoizedState)
		assert.Equal(t, 15, res.baseState)
		assert.Nil(t, res.baseQueue)
	})

	t.Run("skips other lanes and keeps them queued", func(t *testing.T) {
		q := queueOf(
			createUpdate(add(1), lane.SyncLane),
			createUpdate(add(10), lane.DefaultLane),
			createUpdate(add(100), lane.SyncLane),
		)

		sync := processUpdateQueue(0, q.shared.pending, lane.SyncLane)
		assert.Equal(t, 101, sync.memoizedState)
		// base state freezes before the first skipped update
		assert.Equal(t, 1, sync.baseState)
		if assert.NotNil(t, sync.baseQueue) {
			assert.Equal(t, lane.DefaultLane, queueLanes(sync.baseQueue))
		}

		// the later pass replays from the frozen base in arrival order
		def := processUpdateQueue(sync.baseState, sync.baseQueue, lane.DefaultLane)
		assert.Equal(t, 111, def.memoizedState)
		assert.Equal(t, 111, def.baseState)
		assert.Nil(t, def.baseQueue)
	})

	t.Run("empty queue keeps the base state", func(t *testing.T) {
		res := processUpdateQueue("x", nil, lane.DefaultLane)
		assert.Equal(t, "x", res.memoizedState)
		assert.Nil(t, res.baseQueue)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		q := queueOf(
			createUpdate(add(1), lane.DefaultLane),
			createUpdate(add(2), lane.TransitionLane),
		)
		processUpdateQueue(0, q.shared.pending, lane.DefaultLane)
		res := processUpdateQueue(0, q.shared.pending, lane.Merge(lane.DefaultLane, lane.TransitionLane))
		assert.Equal(t, 3, res.memoizedState)
	})
}

func TestMergeQueues(t *testing.T) {
	base := queueOf(createUpdate("a", lane.DefaultLane), createUpdate("b", lane.DefaultLane)).shared.pending
	pending := queueOf(createUpdate("c", lane.SyncLane)).shared.pending

	merged := mergeQueues(base, pending)
	res := processUpdateQueue("", merged, lane.Merge(lane.DefaultLane, lane.SyncLane))
	assert.Equal(t, "c", res.memoizedState)
	assert.Equal(t, lane.Merge(lane.DefaultLane, lane.SyncLane), queueLanes(merged))
	assert.Same(t, base, mergeQueues(base, nil))
}
