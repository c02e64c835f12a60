package reconciler

import (
	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/delaneyj/fiberparty/ui"
)

// HostConfig is the set of mutation primitives a host environment provides.
// A parent passed to the container methods is either the container handed
// to CreateContainer or an instance returned by CreateInstance.
type HostConfig interface {
	CreateInstance(typ string, props ui.Props) any
	CreateTextInstance(text string) any
	AppendInitialChild(parent, child any)
	AppendChildToContainer(parent, child any)
	InsertChildToContainer(parent, child, before any)
	RemoveChild(parent, child any)
	CommitUpdate(instance any, payload UpdatePayload, prevProps, nextProps ui.Props)
	CommitTextUpdate(instance any, oldText, newText string)
}

// Scheduler is the cooperative scheduling capability the work loop runs on.
// *scheduler.Scheduler implements it.
type Scheduler interface {
	ScheduleCallback(p scheduler.Priority, cb scheduler.Callback) *scheduler.Task
	CancelCallback(t *scheduler.Task)
	ShouldYield() bool
	RunWithPriority(p scheduler.Priority, fn func())
	CurrentPriority() scheduler.Priority
	ScheduleMicrotask(fn func())
}

var _ Scheduler = (*scheduler.Scheduler)(nil)

// UpdatePayload lists the props that differ between two renders of a host
// element. The children prop is never part of it.
type UpdatePayload struct {
	Changed ui.Props
	Removed []string
}

func (p UpdatePayload) Empty() bool {
	return len(p.Changed) == 0 && len(p.Removed) == 0
}
