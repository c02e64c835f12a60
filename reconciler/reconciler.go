// Package reconciler is a fiber reconciler. It diffs successive descriptions
// of a tree, assigns lanes to the updates that caused them, renders in
// time slices on a cooperative scheduler and commits the resulting host
// mutations and deferred effects in a fixed order.
package reconciler

import (
	"errors"
	"log/slog"

	"github.com/delaneyj/fiberparty/lane"
	"github.com/delaneyj/fiberparty/scheduler"
)

type OnErrorFunc func(root *Root, err error)

type OnCommitFunc func(root *Root, l lane.Lane)

type Config struct {
	Logger *slog.Logger
	// OnError receives failed render passes and panics recovered from effects.
	OnError  OnErrorFunc
	OnCommit OnCommitFunc
	// Production silences invariant violations down to debug logs. The
	// offending operation is skipped either way.
	Production bool
}

type Reconciler struct {
	host   HostConfig
	sched  Scheduler
	logger *slog.Logger
	cfg    Config

	session    *renderSession
	transition bool

	syncQueue       []func() error
	flushingSync    bool
	passiveRoots    []*Root
	flushingPassive bool
}

// renderSession is the in-flight render pass. It survives yields so a
// concurrent pass can resume where it stopped.
type renderSession struct {
	root *Root
	wip  *Fiber
	lane lane.Lane
}

func New(host HostConfig, sched Scheduler, cfg Config) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		host:   host,
		sched:  sched,
		logger: logger,
		cfg:    cfg,
	}
}

func (r *Reconciler) requestUpdateLane() lane.Lane {
	return lane.Request(r.transition, r.sched.CurrentPriority())
}

// FlushSync runs fn at immediate priority and then renders and commits all
// synchronous work before returning. Errors of the passes it ran are joined.
func (r *Reconciler) FlushSync(fn func()) error {
	if fn != nil {
		r.sched.RunWithPriority(scheduler.ImmediatePriority, fn)
	}
	return r.flushSyncCallbacks()
}

func (r *Reconciler) scheduleUpdateOnFiber(f *Fiber, l lane.Lane) {
	root := markUpdateFromFiberToRoot(f)
	if root == nil {
		r.logger.Warn("update on unmounted component dropped", "fiber", f.String(), "lane", l.String())
		return
	}
	root.markUpdated(l)
	r.ensureRootIsScheduled(root)
}

func markUpdateFromFiberToRoot(f *Fiber) *Root {
	node := f
	for node.parent != nil {
		node = node.parent
	}
	if node.tag != HostRoot {
		return nil
	}
	root, _ := node.stateNode.(*Root)
	return root
}

func (r *Reconciler) scheduleSyncCallback(cb func() error) {
	r.syncQueue = append(r.syncQueue, cb)
}

func (r *Reconciler) flushSyncCallbacks() error {
	if r.flushingSync {
		return nil
	}
	r.flushingSync = true
	defer func() {
		r.flushingSync = false
	}()

	var errs []error
	for len(r.syncQueue) > 0 {
		cb := r.syncQueue[0]
		r.syncQueue[0] = nil
		r.syncQueue = r.syncQueue[1:]
		if err := cb(); err != nil {
			errs = append(errs, err)
		}
	}
	r.syncQueue = nil
	return errors.Join(errs...)
}

// invariant reports a violated internal assumption. Callers skip the
// operation that depended on it.
func (r *Reconciler) invariant(err error, args ...any) {
	if r.cfg.Production {
		r.logger.Debug(err.Error(), args...)
		return
	}
	r.logger.Error(err.Error(), args...)
}

func (r *Reconciler) reportError(root *Root, err error) {
	if r.cfg.OnError != nil {
		r.cfg.OnError(root, err)
	}
}
