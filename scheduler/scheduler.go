package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

var (
	ErrAlreadyRunning = errors.New("scheduler: loop is already running")
	ErrNotRunning     = errors.New("scheduler: loop is not running")
)

const defaultFrameInterval = 5 * time.Millisecond

// Callback is a unit of scheduled work. Returning a non-nil Callback asks the
// scheduler to keep the task queued and call the continuation next, at the
// same priority and position.
type Callback func(didTimeout bool) Callback

// Task is the cancellable handle returned by ScheduleCallback.
type Task struct {
	id             uint64
	callback       Callback
	priority       Priority
	expirationTime time.Duration
	index          int
	canceled       bool
}

func (t *Task) Priority() Priority {
	return t.priority
}

func (t *Task) Canceled() bool {
	return t.canceled
}

type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].expirationTime == h[j].expirationTime {
		return h[i].id < h[j].id
	}
	return h[i].expirationTime < h[j].expirationTime
}
func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*Task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Scheduler is a cooperative, single-goroutine task scheduler. Work is
// executed in time slices; inside a slice ShouldYield reports whether the
// frame budget is spent. Microtasks run after every slice and after every
// function handed to Post.
//
// Only Post is safe to call from other goroutines. Everything else must be
// called from the goroutine that drives the scheduler (Run, RunSlice or
// FlushAll).
type Scheduler struct {
	clock         Clock
	frameInterval time.Duration
	logger        *slog.Logger

	tasks      taskHeap
	microtasks []func()
	nextID     uint64

	currentTask     *Task
	currentPriority Priority
	sliceStart      time.Duration

	performingWork     bool
	flushingMicrotasks bool

	ingress chan func()
	wake    chan struct{}
	running atomic.Bool
}

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

func WithFrameInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.frameInterval = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:           SystemClock(),
		frameInterval:   defaultFrameInterval,
		logger:          slog.Default(),
		currentPriority: NormalPriority,
		microtasks:      make([]func(), 0, 16),
		ingress:         make(chan func(), 256),
		wake:            make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Now() time.Duration {
	return s.clock.Now()
}

func (s *Scheduler) ScheduleCallback(p Priority, cb Callback) *Task {
	if p == NoPriority {
		p = NormalPriority
	}
	t := &Task{
		id:             s.nextID,
		callback:       cb,
		priority:       p,
		expirationTime: s.clock.Now() + p.timeout(),
	}
	s.nextID++
	heap.Push(&s.tasks, t)
	s.signal()
	return t
}

// CancelCallback drops a task that has not run yet. A task canceled while it
// is running finishes its current call but its continuation is discarded.
// Canceled tasks are removed lazily when they reach the front of the queue.
func (s *Scheduler) CancelCallback(t *Task) {
	if t == nil {
		return
	}
	t.canceled = true
	t.callback = nil
}

func (s *Scheduler) ShouldYield() bool {
	return s.clock.Now()-s.sliceStart >= s.frameInterval
}

func (s *Scheduler) RunWithPriority(p Priority, fn func()) {
	prev := s.currentPriority
	s.currentPriority = p
	defer func() {
		s.currentPriority = prev
	}()
	fn()
}

func (s *Scheduler) CurrentPriority() Priority {
	return s.currentPriority
}

func (s *Scheduler) ScheduleMicrotask(fn func()) {
	s.microtasks = append(s.microtasks, fn)
	s.signal()
}

// FlushMicrotasks runs queued microtasks, including any they enqueue, until
// the queue is empty. Nested calls are no-ops.
func (s *Scheduler) FlushMicrotasks() {
	if s.flushingMicrotasks {
		return
	}
	s.flushingMicrotasks = true
	defer func() {
		s.flushingMicrotasks = false
	}()

	for len(s.microtasks) > 0 {
		fn := s.microtasks[0]
		s.microtasks[0] = nil
		s.microtasks = s.microtasks[1:]
		s.protect("microtask", func() { fn() })
	}
	s.microtasks = s.microtasks[:0]
}

func (s *Scheduler) HasPendingWork() bool {
	return len(s.tasks) > 0 || len(s.microtasks) > 0
}

// RunSlice executes tasks until the queue is empty or the frame budget is
// spent, then drains microtasks. It reports whether tasks remain.
func (s *Scheduler) RunSlice() bool {
	if s.performingWork {
		return len(s.tasks) > 0
	}
	s.performingWork = true
	s.sliceStart = s.clock.Now()
	more := s.workLoop()
	s.performingWork = false
	s.FlushMicrotasks()
	return more || len(s.tasks) > 0
}

// FlushAll runs slices until no tasks or microtasks are left.
func (s *Scheduler) FlushAll() {
	for {
		s.FlushMicrotasks()
		if !s.HasPendingWork() {
			return
		}
		s.RunSlice()
	}
}

func (s *Scheduler) workLoop() bool {
	now := s.clock.Now()
	for len(s.tasks) > 0 {
		t := s.tasks[0]
		if t.expirationTime > now && s.ShouldYield() {
			break
		}

		cb := t.callback
		if cb == nil {
			heap.Pop(&s.tasks)
			continue
		}
		t.callback = nil

		s.currentTask = t
		prev := s.currentPriority
		s.currentPriority = t.priority
		next := s.invoke(cb, t.expirationTime <= now)
		s.currentPriority = prev
		s.currentTask = nil
		now = s.clock.Now()

		if next != nil && !t.canceled {
			t.callback = next
			continue
		}
		if t.index >= 0 {
			heap.Remove(&s.tasks, t.index)
		}
	}
	return len(s.tasks) > 0
}

func (s *Scheduler) invoke(cb Callback, didTimeout bool) (next Callback) {
	s.protect("task", func() {
		next = cb(didTimeout)
	})
	return next
}

func (s *Scheduler) protect(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler: recovered panic", "kind", kind, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// Post hands fn to the goroutine executing Run. It is safe for concurrent use.
func (s *Scheduler) Post(ctx context.Context, fn func()) error {
	if !s.running.Load() {
		return ErrNotRunning
	}
	select {
	case s.ingress <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives the scheduler on the calling goroutine until ctx is done,
// interleaving posted functions with task slices.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	for {
		s.drainIngress()
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.HasPendingWork() {
			s.RunSlice()
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.ingress:
			s.runIngress(fn)
		case <-s.wake:
		}
	}
}

func (s *Scheduler) drainIngress() {
	for {
		select {
		case fn := <-s.ingress:
			s.runIngress(fn)
		default:
			return
		}
	}
}

func (s *Scheduler) runIngress(fn func()) {
	s.protect("ingress", fn)
	s.FlushMicrotasks()
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
