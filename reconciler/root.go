package reconciler

import (
	"github.com/delaneyj/fiberparty/lane"
	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/delaneyj/fiberparty/ui"
)

type Status uint8

const (
	StatusIdle Status = iota
	StatusPending
	StatusRendering
	StatusIncomplete
	StatusCompleted
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusRendering:
		return "rendering"
	case StatusIncomplete:
		return "incomplete"
	case StatusCompleted:
		return "completed"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

type Stats struct {
	RenderPasses int
	Commits      int
}

type passiveEffects struct {
	unmount []*effect
	update  []*effect
}

// Root is a mounted container. It owns the committed fiber tree and the
// bookkeeping of work that has not been committed yet.
type Root struct {
	r         *Reconciler
	container any
	current   *Fiber

	finishedWork *Fiber
	finishedLane lane.Lane
	pendingLanes lane.Lanes

	// lanes updated while a pass for them was already underway
	updatedDuringRender lane.Lanes

	callbackNode     *scheduler.Task
	callbackPriority lane.Lane

	pendingPassive   passiveEffects
	passiveScheduled bool

	status Status
	stats  Stats
}

type hostRootState struct {
	element   any
	baseState any
	baseQueue *update
}

func (root *Root) Container() any           { return root.container }
func (root *Root) PendingLanes() lane.Lanes { return root.pendingLanes }
func (root *Root) Status() Status           { return root.status }
func (root *Root) Stats() Stats             { return root.stats }
func (root *Root) Current() *Fiber          { return root.current }

// Render schedules element as the new content of the container at the lane
// derived from the calling context.
func (root *Root) Render(element any) {
	r := root.r
	l := r.requestUpdateLane()
	enqueueUpdate(root.current.updateQueue.(*updateQueue), createUpdate(element, l))
	r.scheduleUpdateOnFiber(root.current, l)
}

// RenderSync renders element at SyncLane and commits before returning.
func (root *Root) RenderSync(element any) error {
	return root.r.FlushSync(func() {
		root.Render(element)
	})
}

// Unmount renders nothing into the container, removing every host instance
// and running every effect's destroy.
func (root *Root) Unmount() error {
	if err := root.RenderSync(nil); err != nil {
		return err
	}
	root.r.flushPassiveEffects()
	return nil
}

// FlushPassiveEffects runs the deferred effects of the last commits now.
func (root *Root) FlushPassiveEffects() bool {
	return root.r.flushPassiveEffects()
}

func (root *Root) markUpdated(l lane.Lane) {
	root.pendingLanes = lane.Merge(root.pendingLanes, l)
	if s := root.r.session; s != nil && s.root == root && lane.IsSubset(s.lane, l) {
		root.updatedDuringRender = lane.Merge(root.updatedDuringRender, l)
	}
	if root.status != StatusRendering && root.status != StatusIncomplete {
		root.status = StatusPending
	}
}

// markFinished clears the committed lane, keeping lanes whose updates arrived
// too late to be part of the committed pass.
func (root *Root) markFinished(l lane.Lane) {
	root.pendingLanes = lane.Merge(lane.Remove(root.pendingLanes, l), root.updatedDuringRender)
	root.updatedDuringRender = lane.NoLanes
}

func (r *Reconciler) CreateContainer(container any) *Root {
	root := &Root{r: r, container: container}
	hostRoot := newFiber(HostRoot, ui.Props{}, "")
	hostRoot.stateNode = root
	hostRoot.updateQueue = createUpdateQueue()
	hostRoot.memoizedState = &hostRootState{}
	root.current = hostRoot
	return root
}
