package reconciler

import (
	"github.com/delaneyj/fiberparty/lane"
	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/delaneyj/fiberparty/ui"
)

func (r *Reconciler) commitRoot(root *Root) {
	finished := root.finishedWork
	if finished == nil {
		return
	}
	l := root.finishedLane

	root.finishedWork = nil
	root.finishedLane = lane.NoLane
	if l == lane.NoLane {
		r.invariant(ErrNoPendingLane, "root", finished.String())
	} else {
		root.markFinished(l)
	}
	root.callbackNode = nil
	root.callbackPriority = lane.NoLane

	flags := finished.flags | finished.subtreeFlags
	if flags.Has(PassiveMask) && !root.passiveScheduled {
		root.passiveScheduled = true
		r.passiveRoots = append(r.passiveRoots, root)
		r.sched.ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
			r.flushPassiveEffects()
			return nil
		})
	}

	// Old refs are detached here so that every detach lands before any
	// attach, even when Ref is the only flag in the tree.
	if mask := MutationMask | PassiveMask | LayoutMask; flags.Has(mask) {
		walkEffects(finished, mask, func(f *Fiber) {
			r.commitMutationEffectsOnFiber(root, f)
		})
	}
	root.current = finished
	if flags.Has(LayoutMask) {
		walkEffects(finished, LayoutMask, commitLayoutEffectsOnFiber)
	}

	root.stats.Commits++
	root.status = StatusCompleted
	r.logger.Debug("committed", "lane", l.String(), "commits", root.stats.Commits)
	if r.cfg.OnCommit != nil {
		r.cfg.OnCommit(root, l)
	}

	r.ensureRootIsScheduled(root)
}

// walkEffects visits, children before parents, every fiber of the tree
// below and including finished whose own flags may intersect mask. Subtrees
// without mask in their subtree flags are skipped.
func walkEffects(finished *Fiber, mask Flags, visit func(*Fiber)) {
	next := finished
	for next != nil {
		if child := next.child; child != nil && next.subtreeFlags.Has(mask) {
			next = child
			continue
		}
		for next != nil {
			visit(next)
			if next == finished {
				return
			}
			if sibling := next.sibling; sibling != nil {
				next = sibling
				break
			}
			next = next.parent
		}
	}
}

func (r *Reconciler) commitMutationEffectsOnFiber(root *Root, f *Fiber) {
	if f.flags.Has(Placement) {
		r.commitPlacement(f)
		f.flags &^= Placement
	}
	if f.flags.Has(Update) {
		r.commitUpdate(f)
		f.flags &^= Update
	}
	if f.flags.Has(ChildDeletion) {
		for _, child := range f.deletions {
			r.commitDeletion(root, child)
		}
		f.deletions = nil
		f.flags &^= ChildDeletion
	}
	if f.flags.Has(PassiveEffect) {
		if last := lastEffectOf(f); last != nil {
			root.pendingPassive.update = append(root.pendingPassive.update, last)
		}
		f.flags &^= PassiveEffect
	}
	if f.flags.Has(Ref) {
		if current := f.alternate; current != nil && current.ref != nil && current.ref != f.ref {
			current.ref.Current = nil
		}
	}
}

func commitLayoutEffectsOnFiber(f *Fiber) {
	if !f.flags.Has(Ref) {
		return
	}
	if f.tag == HostComponent && f.ref != nil {
		f.ref.Current = f.stateNode
	}
	f.flags &^= Ref
}

func (r *Reconciler) commitUpdate(f *Fiber) {
	switch f.tag {
	case HostText:
		var prev string
		if current := f.alternate; current != nil {
			prev = textOf(current.memoizedProps)
		}
		r.host.CommitTextUpdate(f.stateNode, prev, textOf(f.memoizedProps))
	case HostComponent:
		payload, _ := f.updateQueue.(UpdatePayload)
		var prev ui.Props
		if current := f.alternate; current != nil {
			prev = current.memoizedProps
		}
		r.host.CommitUpdate(f.stateNode, payload, prev, f.memoizedProps)
		f.updateQueue = nil
	default:
		r.logger.Warn("update flag on non-host fiber", "fiber", f.String())
	}
}

func (r *Reconciler) commitPlacement(f *Fiber) {
	parent, ok := r.getHostParent(f)
	if !ok {
		return
	}
	r.insertOrAppendPlacementNode(f, getHostSibling(f), parent)
}

func (r *Reconciler) insertOrAppendPlacementNode(f *Fiber, before, parent any) {
	if f.tag.isHost() {
		if before != nil {
			r.host.InsertChildToContainer(parent, f.stateNode, before)
		} else {
			r.host.AppendChildToContainer(parent, f.stateNode)
		}
		return
	}
	for child := f.child; child != nil; child = child.sibling {
		r.insertOrAppendPlacementNode(child, before, parent)
	}
}

func (r *Reconciler) getHostParent(f *Fiber) (any, bool) {
	for p := f.parent; p != nil; p = p.parent {
		switch p.tag {
		case HostComponent:
			return p.stateNode, true
		case HostRoot:
			if root, ok := p.stateNode.(*Root); ok {
				return root.container, true
			}
		}
	}
	r.invariant(ErrHostParentNotFound, "fiber", f.String())
	return nil, false
}

// getHostSibling finds the host instance f must be inserted before: the next
// host node in document order that is already in place. Nodes that are
// themselves being placed cannot be used as a reference.
func getHostSibling(f *Fiber) any {
	node := f
siblings:
	for {
		for node.sibling == nil {
			p := node.parent
			if p == nil || p.tag == HostComponent || p.tag == HostRoot {
				return nil
			}
			node = p
		}
		node.sibling.parent = node.parent
		node = node.sibling

		for !node.tag.isHost() {
			if node.flags.Has(Placement) || node.child == nil {
				continue siblings
			}
			node.child.parent = node
			node = node.child
		}
		if !node.flags.Has(Placement) {
			return node.stateNode
		}
	}
}

// commitDeletion removes the subtree rooted at child. Only the host
// instances nearest to the subtree root are removed from the host parent;
// everything below them leaves with them.
func (r *Reconciler) commitDeletion(root *Root, child *Fiber) {
	var hostRoots []*Fiber
	r.unmountSubtree(root, child, false, &hostRoots)

	if len(hostRoots) > 0 {
		if parent, ok := r.getHostParent(child); ok {
			for _, h := range hostRoots {
				r.host.RemoveChild(parent, h.stateNode)
			}
		}
	}

	detachFiber(child)
	if alt := child.alternate; alt != nil {
		detachFiber(alt)
	}
}

func (r *Reconciler) unmountSubtree(root *Root, f *Fiber, insideHost bool, hostRoots *[]*Fiber) {
	switch f.tag {
	case HostComponent:
		if f.ref != nil {
			f.ref.Current = nil
		}
		if !insideHost {
			*hostRoots = append(*hostRoots, f)
		}
	case HostText:
		if !insideHost {
			*hostRoots = append(*hostRoots, f)
		}
	case FunctionComponent:
		if last := lastEffectOf(f); last != nil {
			root.pendingPassive.unmount = append(root.pendingPassive.unmount, last)
		}
	}

	insideHost = insideHost || f.tag.isHost()
	for child := f.child; child != nil; child = child.sibling {
		r.unmountSubtree(root, child, insideHost, hostRoots)
	}
}

func detachFiber(f *Fiber) {
	f.parent = nil
	f.child = nil
}
