package noop

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/delaneyj/fiberparty/reconciler"
	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/delaneyj/fiberparty/ui"
)

type Options struct {
	Logger        *slog.Logger
	FrameInterval time.Duration
	OnError       reconciler.OnErrorFunc
	OnCommit      reconciler.OnCommitFunc
	Production    bool
}

// Renderer wires a Host, a Scheduler driven by a ManualClock and a
// Reconciler together. Nothing runs until the scheduler is flushed.
type Renderer struct {
	Host       *Host
	Clock      *scheduler.ManualClock
	Scheduler  *scheduler.Scheduler
	Reconciler *reconciler.Reconciler

	roots int
}

func New(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := scheduler.NewManualClock()
	sched := scheduler.New(
		scheduler.WithClock(clock),
		scheduler.WithFrameInterval(opts.FrameInterval),
		scheduler.WithLogger(logger),
	)
	host := NewHost(logger)
	rec := reconciler.New(host, sched, reconciler.Config{
		Logger:     logger,
		OnError:    opts.OnError,
		OnCommit:   opts.OnCommit,
		Production: opts.Production,
	})
	return &Renderer{
		Host:       host,
		Clock:      clock,
		Scheduler:  sched,
		Reconciler: rec,
	}
}

type Root struct {
	*reconciler.Root
	Container *Container
	renderer  *Renderer
}

func (r *Renderer) CreateRoot() *Root {
	r.roots++
	c := &Container{Name: fmt.Sprint(r.roots)}
	return &Root{
		Root:      r.Reconciler.CreateContainer(c),
		Container: c,
		renderer:  r,
	}
}

// Flush runs every scheduled task and microtask, including work they
// schedule, until the scheduler is idle.
func (r *Renderer) Flush() {
	r.Scheduler.FlushAll()
}

// Step runs a single scheduler slice and reports whether work remains.
func (r *Renderer) Step() bool {
	return r.Scheduler.RunSlice()
}

// Advance moves the manual clock forward, typically from inside a component
// to exhaust the current frame.
func (r *Renderer) Advance(d time.Duration) {
	r.Clock.Advance(d)
}

// Act runs fn at priority p and flushes microtasks right after, the way a
// host event loop ends a tick.
func (r *Renderer) Act(p scheduler.Priority, fn func()) {
	r.Scheduler.RunWithPriority(p, fn)
	r.Scheduler.FlushMicrotasks()
}

// Dispatch fires eventType at target: capture listeners from the outermost
// instance inwards, then bubble listeners outwards, each at the event's
// priority. Sync work the handlers scheduled is flushed before returning.
func (r *Renderer) Dispatch(target *Instance, eventType string) *Event {
	e := &Event{Type: eventType, Target: target}
	if target == nil {
		return e
	}
	capture, bubble := collectPaths(target, eventType)
	triggerEventFlow(r.Scheduler, capture, e)
	if !e.stopped {
		triggerEventFlow(r.Scheduler, bubble, e)
	}
	r.Scheduler.FlushMicrotasks()
	return e
}

// RenderAt schedules element at the lane a scheduler priority maps to.
func (root *Root) RenderAt(p scheduler.Priority, element any) {
	root.renderer.Scheduler.RunWithPriority(p, func() {
		root.Render(element)
	})
}

// Find returns the first instance of typ in document order.
func (root *Root) Find(typ string) *Instance {
	var found *Instance
	walk(root.Container, func(n Node) bool {
		if inst, ok := n.(*Instance); ok && inst.Type == typ {
			found = inst
			return false
		}
		return true
	})
	return found
}

// Snapshot describes the host tree as ui values: a string per text node and
// an element per instance. The container's children come back as nil, a
// single value or a []any.
func (root *Root) Snapshot() any {
	return snapshotChildren(root.Container.nodes)
}

func snapshotChildren(nodes []Node) any {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return snapshotNode(nodes[0])
	}
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = snapshotNode(n)
	}
	return out
}

func snapshotNode(n Node) any {
	switch v := n.(type) {
	case *TextInstance:
		return v.Text
	case *Instance:
		children := []any{}
		if c := snapshotChildren(v.nodes); c != nil {
			if list, ok := c.([]any); ok {
				children = list
			} else {
				children = []any{c}
			}
		}
		return ui.H(v.Type, v.Props, children...)
	}
	return nil
}

// walk visits nodes depth-first in document order until visit returns false.
func walk(p Parent, visit func(Node) bool) bool {
	for _, n := range *p.children() {
		if !visit(n) {
			return false
		}
		if inst, ok := n.(*Instance); ok && !walk(inst, visit) {
			return false
		}
	}
	return true
}
