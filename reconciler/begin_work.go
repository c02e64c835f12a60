package reconciler

import (
	"github.com/delaneyj/fiberparty/lane"
)

// beginWork computes the children of wip and returns the first of them, or
// nil when the branch has nothing further to render.
func (r *Reconciler) beginWork(wip *Fiber, l lane.Lane) (*Fiber, error) {
	switch wip.tag {
	case HostRoot:
		return r.updateHostRoot(wip, l), nil
	case HostComponent:
		return r.updateHostComponent(wip), nil
	case HostText:
		return nil, nil
	case FunctionComponent:
		return r.updateFunctionComponent(wip, l)
	case Fragment:
		return r.updateFragment(wip), nil
	default:
		r.logger.Warn("unimplemented fiber kind in begin", "tag", wip.tag.String(), "fiber", wip.String())
		return nil, nil
	}
}

func (r *Reconciler) updateHostRoot(wip *Fiber, l lane.Lane) *Fiber {
	prev := wip.memoizedState.(*hostRootState)
	queue := wip.updateQueue.(*updateQueue)

	// Pending updates move to the current side before processing so an
	// abandoned pass can replay them.
	baseQueue := prev.baseQueue
	if pending := queue.shared.pending; pending != nil {
		baseQueue = mergeQueues(baseQueue, pending)
		prev.baseQueue = baseQueue
		queue.shared.pending = nil
	}

	next := &hostRootState{
		element:   prev.element,
		baseState: prev.baseState,
	}
	if baseQueue != nil {
		res := processUpdateQueue(prev.baseState, baseQueue, l)
		next.element = res.memoizedState
		next.baseState = res.baseState
		next.baseQueue = res.baseQueue
	}
	wip.memoizedState = next

	r.reconcileChildren(wip, next.element)
	return wip.child
}

func (r *Reconciler) updateHostComponent(wip *Fiber) *Fiber {
	markRef(wip.alternate, wip)
	r.reconcileChildren(wip, wip.pendingProps.Children())
	return wip.child
}

func (r *Reconciler) updateFunctionComponent(wip *Fiber, l lane.Lane) (*Fiber, error) {
	children, err := r.renderWithHooks(wip, l)
	if err != nil {
		return nil, err
	}
	r.reconcileChildren(wip, children)
	return wip.child, nil
}

func (r *Reconciler) updateFragment(wip *Fiber) *Fiber {
	r.reconcileChildren(wip, wip.pendingProps.Children())
	return wip.child
}

func (r *Reconciler) reconcileChildren(wip *Fiber, children any) {
	if current := wip.alternate; current != nil {
		wip.child = r.childReconciler(true).reconcile(wip, current.child, children)
		return
	}
	wip.child = r.childReconciler(false).reconcile(wip, nil, children)
}

func markRef(current, wip *Fiber) {
	if (current == nil && wip.ref != nil) || (current != nil && current.ref != wip.ref) {
		wip.flags |= Ref
	}
}

func (r *Reconciler) childReconciler(track bool) childReconciler {
	return childReconciler{logger: r.logger, track: track}
}
