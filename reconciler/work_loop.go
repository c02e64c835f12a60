package reconciler

import (
	"github.com/delaneyj/fiberparty/lane"
	"github.com/delaneyj/fiberparty/scheduler"
)

// ensureRootIsScheduled makes sure exactly one callback is pending for the
// most urgent lane of root. SyncLane work goes to the sync queue, flushed in
// a microtask so updates of one tick share a pass.
func (r *Reconciler) ensureRootIsScheduled(root *Root) {
	next := lane.Highest(root.pendingLanes)
	existing := root.callbackNode

	if next == lane.NoLane {
		if existing != nil {
			r.sched.CancelCallback(existing)
		}
		root.callbackNode = nil
		root.callbackPriority = lane.NoLane
		return
	}
	if next == root.callbackPriority {
		return
	}
	if existing != nil {
		r.sched.CancelCallback(existing)
	}

	var node *scheduler.Task
	if next == lane.SyncLane {
		r.logger.Debug("scheduling sync render", "lane", next.String())
		r.scheduleSyncCallback(func() error {
			return r.performSyncWorkOnRoot(root)
		})
		r.sched.ScheduleMicrotask(func() {
			_ = r.flushSyncCallbacks()
		})
	} else {
		p := lane.ToSchedulerPriority(next)
		r.logger.Debug("scheduling concurrent render", "lane", next.String(), "priority", p.String())
		node = r.sched.ScheduleCallback(p, r.concurrentCallback(root))
	}
	root.callbackNode = node
	root.callbackPriority = next
}

func (r *Reconciler) concurrentCallback(root *Root) scheduler.Callback {
	return func(didTimeout bool) scheduler.Callback {
		return r.performConcurrentWorkOnRoot(root, didTimeout)
	}
}

func (r *Reconciler) performSyncWorkOnRoot(root *Root) error {
	r.flushPassiveEffects()

	next := lane.Highest(root.pendingLanes)
	if next != lane.SyncLane {
		// already committed by an earlier callback in this batch
		if root.callbackPriority == lane.SyncLane {
			root.callbackPriority = lane.NoLane
		}
		r.ensureRootIsScheduled(root)
		return nil
	}

	if err := r.renderRoot(root, next, false); err != nil {
		r.handleFatal(root, next, err)
		return err
	}
	r.commitRoot(root)
	return nil
}

func (r *Reconciler) performConcurrentWorkOnRoot(root *Root, didTimeout bool) scheduler.Callback {
	original := root.callbackNode
	if r.flushPassiveEffects() && root.callbackNode != original {
		return nil
	}

	next := lane.Highest(root.pendingLanes)
	if next == lane.NoLane {
		if root.callbackNode == original {
			root.callbackNode = nil
			root.callbackPriority = lane.NoLane
		}
		return nil
	}

	if err := r.renderRoot(root, next, !didTimeout); err != nil {
		r.handleFatal(root, next, err)
		return nil
	}

	if root.status == StatusIncomplete {
		r.ensureRootIsScheduled(root)
		if root.callbackNode == original {
			return r.concurrentCallback(root)
		}
		return nil
	}
	r.commitRoot(root)
	return nil
}

// renderRoot renders l on root. It resumes the in-flight pass when that pass
// is for the same root and lane, otherwise it starts over from the root.
func (r *Reconciler) renderRoot(root *Root, l lane.Lane, timeSlice bool) error {
	if s := r.session; s == nil || s.root != root || s.lane != l {
		if s != nil {
			r.logger.Debug("discarding in-flight render", "lane", s.lane.String(), "next", l.String())
		}
		r.prepareFreshStack(root, l)
	}

	root.status = StatusRendering
	if err := r.workLoop(timeSlice); err != nil {
		r.session = nil
		root.status = StatusFatal
		return err
	}

	if r.session.wip != nil {
		root.status = StatusIncomplete
		return nil
	}

	root.finishedWork = root.current.alternate
	root.finishedLane = l
	root.status = StatusCompleted
	r.session = nil
	return nil
}

func (r *Reconciler) prepareFreshStack(root *Root, l lane.Lane) {
	root.finishedWork = nil
	root.finishedLane = lane.NoLane
	root.updatedDuringRender = lane.NoLanes
	root.stats.RenderPasses++
	r.session = &renderSession{
		root: root,
		wip:  createWorkInProgress(root.current, nil),
		lane: l,
	}
	r.logger.Debug("render pass started", "lane", l.String(), "pass", root.stats.RenderPasses)
}

func (r *Reconciler) workLoop(timeSlice bool) (err error) {
	s := r.session
	defer func() {
		if rec := recover(); rec != nil {
			err = s.fail(recovered(rec))
		}
	}()

	for s.wip != nil {
		if timeSlice && r.sched.ShouldYield() {
			return nil
		}
		if err := r.performUnitOfWork(s, s.wip); err != nil {
			return s.fail(err)
		}
	}
	return nil
}

func (s *renderSession) fail(err error) error {
	at := "root"
	if s.wip != nil {
		at = s.wip.String()
	}
	return &RenderError{Lane: s.lane, Fiber: at, Err: err}
}

func (r *Reconciler) performUnitOfWork(s *renderSession, f *Fiber) error {
	next, err := r.beginWork(f, s.lane)
	if err != nil {
		return err
	}
	f.memoizedProps = f.pendingProps
	if next == nil {
		r.completeUnitOfWork(s, f)
		return nil
	}
	s.wip = next
	return nil
}

func (r *Reconciler) completeUnitOfWork(s *renderSession, f *Fiber) {
	node := f
	for node != nil {
		r.completeWork(node)
		if node.sibling != nil {
			s.wip = node.sibling
			return
		}
		node = node.parent
		s.wip = node
	}
}

// handleFatal abandons a failed pass. The lane leaves the pending set
// without a commit; its updates stay queued for the next update to replay.
func (r *Reconciler) handleFatal(root *Root, l lane.Lane, err error) {
	root.pendingLanes = lane.Remove(root.pendingLanes, l)
	root.updatedDuringRender = lane.NoLanes
	root.finishedWork = nil
	root.finishedLane = lane.NoLane
	root.callbackNode = nil
	root.callbackPriority = lane.NoLane
	root.status = StatusFatal

	r.logger.Error("render pass failed", "lane", l.String(), "error", err)
	r.reportError(root, err)
	r.ensureRootIsScheduled(root)
}
