package reconciler

import (
	"fmt"

	"github.com/delaneyj/fiberparty/lane"
	"github.com/delaneyj/fiberparty/ui"
)

type hookKind uint8

const (
	stateHook hookKind = iota + 1
	effectHook
	transitionHook
	refHook
)

func (k hookKind) String() string {
	switch k {
	case stateHook:
		return "state"
	case effectHook:
		return "effect"
	case transitionHook:
		return "transition"
	case refHook:
		return "ref"
	default:
		return "unknown"
	}
}

// hook is one positional call site of a component. The list hangs off the
// fiber's memoizedState.
type hook struct {
	kind          hookKind
	memoizedState any
	baseState     any
	baseQueue     *update
	queue         *updateQueue
	next          *hook
}

type effect struct {
	tag     effectTag
	create  ui.EffectCallback
	destroy func()
	deps    []any
	next    *effect
}

// fcUpdateQueue holds the circular effect list of a function component
// render, addressed by its last element.
type fcUpdateQueue struct {
	lastEffect *effect
}

func lastEffectOf(f *Fiber) *effect {
	q, _ := f.updateQueue.(*fcUpdateQueue)
	if q == nil {
		return nil
	}
	return q.lastEffect
}

type hookFailure struct {
	err error
}

// hookSession is the Hooks value a single component render receives.
type hookSession struct {
	r        *Reconciler
	fiber    *Fiber
	name     string
	lane     lane.Lane
	mounting bool
	done     bool

	current  *hook
	wip      *hook
	position int
}

func (r *Reconciler) renderWithHooks(wip *Fiber, l lane.Lane) (children any, err error) {
	comp, ok := wip.elementType.(*ui.Component)
	if !ok || comp.Render == nil {
		return nil, fmt.Errorf("reconciler: %s has no render function", wip)
	}

	wip.memoizedState = nil
	wip.updateQueue = nil

	h := &hookSession{
		r:        r,
		fiber:    wip,
		name:     comp.Name,
		lane:     l,
		mounting: wip.alternate == nil,
	}
	defer func() {
		h.done = true
		if rec := recover(); rec != nil {
			hf, ok := rec.(hookFailure)
			if !ok {
				panic(rec)
			}
			children, err = nil, hf.err
		}
	}()

	children, err = comp.Render(h, wip.pendingProps)
	if err != nil {
		return nil, err
	}
	if !h.mounting && h.nextCurrentHook() != nil {
		return nil, fmt.Errorf("%w: %s rendered fewer hooks than during the previous render", ErrHookCountMismatch, h.name)
	}
	return children, nil
}

func (h *hookSession) fail(err error) {
	panic(hookFailure{err: err})
}

func (h *hookSession) nextCurrentHook() *hook {
	if h.current != nil {
		return h.current.next
	}
	if alt := h.fiber.alternate; alt != nil {
		first, _ := alt.memoizedState.(*hook)
		return first
	}
	return nil
}

func (h *hookSession) mountHook(kind hookKind) *hook {
	if h.done {
		panic(ErrHookOutsideRender)
	}
	hk := &hook{kind: kind}
	h.link(hk)
	return hk
}

func (h *hookSession) updateHook(kind hookKind) *hook {
	if h.done {
		panic(ErrHookOutsideRender)
	}
	next := h.nextCurrentHook()
	if next == nil {
		h.fail(fmt.Errorf("%w: %s rendered more hooks than during the previous render", ErrHookCountMismatch, h.name))
	}
	if next.kind != kind {
		h.fail(fmt.Errorf("%w: %s called a %s hook at position %d where a %s hook was before", ErrHookOrderMismatch, h.name, kind, h.position, next.kind))
	}
	h.current = next

	hk := &hook{
		kind:          kind,
		memoizedState: next.memoizedState,
		baseState:     next.baseState,
		baseQueue:     next.baseQueue,
		queue:         next.queue,
	}
	h.link(hk)
	return hk
}

func (h *hookSession) link(hk *hook) {
	if h.wip == nil {
		h.fiber.memoizedState = hk
	} else {
		h.wip.next = hk
	}
	h.wip = hk
	h.position++
}

func (h *hookSession) State(initial any) (any, ui.Dispatch) {
	if h.mounting {
		hk := h.mountHook(stateHook)
		state := initial
		if init, ok := initial.(ui.Initializer); ok {
			state = init()
		}
		hk.memoizedState = state
		hk.baseState = state
		hk.queue = createUpdateQueue()

		r, fiber, queue := h.r, h.fiber, hk.queue
		queue.dispatch = func(action any) {
			r.dispatchSetState(fiber, queue, action)
		}
		return state, queue.dispatch
	}

	hk := h.updateHook(stateHook)
	h.processState(hk)
	return hk.memoizedState, hk.queue.dispatch
}

func (h *hookSession) processState(hk *hook) {
	queue := hk.queue
	baseQueue := h.current.baseQueue
	if pending := queue.shared.pending; pending != nil {
		// stash on the current hook until the pass commits
		baseQueue = mergeQueues(baseQueue, pending)
		h.current.baseQueue = baseQueue
		queue.shared.pending = nil
	}
	if baseQueue == nil {
		return
	}

	res := processUpdateQueue(hk.baseState, baseQueue, h.lane)
	hk.memoizedState = res.memoizedState
	hk.baseState = res.baseState
	hk.baseQueue = res.baseQueue
}

func (h *hookSession) Effect(create ui.EffectCallback, deps []any) {
	if h.mounting {
		hk := h.mountHook(effectHook)
		h.fiber.flags |= PassiveEffect
		hk.memoizedState = h.pushEffect(hookPassive|hookHasEffect, create, nil, deps)
		return
	}

	hk := h.updateHook(effectHook)
	prev, _ := h.current.memoizedState.(*effect)
	var destroy func()
	var prevDeps []any
	if prev != nil {
		destroy = prev.destroy
		prevDeps = prev.deps
	}
	if deps != nil && depsEqual(deps, prevDeps) {
		hk.memoizedState = h.pushEffect(hookPassive, create, destroy, deps)
		return
	}
	h.fiber.flags |= PassiveEffect
	hk.memoizedState = h.pushEffect(hookPassive|hookHasEffect, create, destroy, deps)
}

func (h *hookSession) pushEffect(tag effectTag, create ui.EffectCallback, destroy func(), deps []any) *effect {
	e := &effect{tag: tag, create: create, destroy: destroy, deps: deps}
	q, _ := h.fiber.updateQueue.(*fcUpdateQueue)
	if q == nil {
		q = &fcUpdateQueue{}
		h.fiber.updateQueue = q
	}
	if q.lastEffect == nil {
		e.next = e
	} else {
		e.next = q.lastEffect.next
		q.lastEffect.next = e
	}
	q.lastEffect = e
	return e
}

// depsEqual reports whether two dependency lists are element-wise the same.
// A nil list never equals anything.
func depsEqual(next, prev []any) bool {
	if next == nil || prev == nil || len(next) != len(prev) {
		return false
	}
	for i := range next {
		if !sameValue(next[i], prev[i]) {
			return false
		}
	}
	return true
}

func (h *hookSession) Transition() (bool, func(fn func())) {
	pending, setPending := h.State(false)
	isPending, _ := pending.(bool)

	if h.mounting {
		hk := h.mountHook(transitionHook)
		r := h.r
		start := func(fn func()) {
			r.startTransition(setPending, fn)
		}
		hk.memoizedState = start
		return isPending, start
	}

	hk := h.updateHook(transitionHook)
	start, _ := hk.memoizedState.(func(fn func()))
	return isPending, start
}

func (h *hookSession) Ref(initial any) *ui.Ref {
	if h.mounting {
		hk := h.mountHook(refHook)
		ref := &ui.Ref{Current: initial}
		hk.memoizedState = ref
		return ref
	}
	hk := h.updateHook(refHook)
	ref, _ := hk.memoizedState.(*ui.Ref)
	return ref
}

func (r *Reconciler) dispatchSetState(f *Fiber, queue *updateQueue, action any) {
	l := r.requestUpdateLane()
	enqueueUpdate(queue, createUpdate(action, l))
	r.scheduleUpdateOnFiber(f, l)
}

// startTransition runs fn with every update it makes tagged TransitionLane.
// The pending flag flips to true urgently and back to false with the
// transition.
func (r *Reconciler) startTransition(setPending ui.Dispatch, fn func()) {
	setPending(true)
	prev := r.transition
	r.transition = true
	defer func() {
		r.transition = prev
	}()
	fn()
	setPending(false)
}

var _ ui.Hooks = (*hookSession)(nil)
