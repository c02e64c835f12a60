package reconciler

import (
	"github.com/delaneyj/fiberparty/scheduler"
)

type rootEffect struct {
	root *Root
	last *effect
}

// flushPassiveEffects runs the deferred effects of every committed root: all
// unmount destroys, then all destroys of changed effects, then all creates.
// Sync work the effects scheduled is flushed before returning. It reports
// whether there was anything to flush.
func (r *Reconciler) flushPassiveEffects() bool {
	if r.flushingPassive || len(r.passiveRoots) == 0 {
		return false
	}
	roots := r.passiveRoots
	r.passiveRoots = nil

	var unmount, update []rootEffect
	for _, root := range roots {
		root.passiveScheduled = false
		for _, last := range root.pendingPassive.unmount {
			unmount = append(unmount, rootEffect{root, last})
		}
		for _, last := range root.pendingPassive.update {
			update = append(update, rootEffect{root, last})
		}
		root.pendingPassive = passiveEffects{}
	}

	r.flushingPassive = true
	r.sched.RunWithPriority(scheduler.NormalPriority, func() {
		for _, re := range unmount {
			r.commitHookEffectListUnmount(re.root, hookPassive, re.last)
		}
		for _, re := range update {
			r.commitHookEffectListDestroy(re.root, hookPassive|hookHasEffect, re.last)
		}
		for _, re := range update {
			r.commitHookEffectListCreate(re.root, hookPassive|hookHasEffect, re.last)
		}
	})
	r.flushingPassive = false

	r.logger.Debug("flushed passive effects", "unmount", len(unmount), "update", len(update))
	_ = r.flushSyncCallbacks()
	return true
}

func eachEffect(tag effectTag, last *effect, fn func(e *effect)) {
	if last == nil {
		return
	}
	e := last.next
	for {
		next := e.next
		if e.tag&tag == tag {
			fn(e)
		}
		if e == last {
			return
		}
		e = next
	}
}

func (r *Reconciler) commitHookEffectListUnmount(root *Root, tag effectTag, last *effect) {
	eachEffect(tag, last, func(e *effect) {
		if destroy := e.destroy; destroy != nil {
			e.destroy = nil
			r.runEffect(root, "destroy", destroy)
		}
		e.tag &^= hookHasEffect
	})
}

func (r *Reconciler) commitHookEffectListDestroy(root *Root, tag effectTag, last *effect) {
	eachEffect(tag, last, func(e *effect) {
		if destroy := e.destroy; destroy != nil {
			e.destroy = nil
			r.runEffect(root, "destroy", destroy)
		}
	})
}

func (r *Reconciler) commitHookEffectListCreate(root *Root, tag effectTag, last *effect) {
	eachEffect(tag, last, func(e *effect) {
		if e.create == nil {
			return
		}
		create := e.create
		r.runEffect(root, "create", func() {
			e.destroy = create()
		})
	})
}

func (r *Reconciler) runEffect(root *Root, phase string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			err := recovered(rec)
			r.logger.Error("effect panicked", "phase", phase, "error", err)
			r.reportError(root, err)
		}
	}()
	fn()
}
