package noop

import (
	"strings"

	"github.com/delaneyj/fiberparty/scheduler"
)

// Event is a synthetic event travelling from the container down to Target
// (capture) and back up (bubble).
type Event struct {
	Type          string
	Target        *Instance
	CurrentTarget *Instance
	stopped       bool
}

func (e *Event) StopPropagation() {
	e.stopped = true
}

func (e *Event) Stopped() bool {
	return e.stopped
}

// Handler is the value an "on<Event>" or "on<Event>Capture" prop holds.
// Plain func() values are accepted too.
type Handler func(e *Event)

type listener struct {
	instance *Instance
	fn       Handler
}

// EventPriority is the scheduler priority handlers of eventType run at, and
// so the lane of the updates they make.
func EventPriority(eventType string) scheduler.Priority {
	switch eventType {
	case "click", "keydown", "keyup", "input":
		return scheduler.ImmediatePriority
	case "scroll", "mousemove", "drag", "pointermove":
		return scheduler.UserBlockingPriority
	default:
		return scheduler.NormalPriority
	}
}

func handlerNames(eventType string) (capture, bubble string) {
	if eventType == "" {
		return "", ""
	}
	bubble = "on" + strings.ToUpper(eventType[:1]) + eventType[1:]
	return bubble + "Capture", bubble
}

func handlerOf(v any) Handler {
	switch fn := v.(type) {
	case Handler:
		return fn
	case func(*Event):
		return fn
	case func():
		return func(*Event) { fn() }
	default:
		return nil
	}
}

// collectPaths gathers handlers from target up to its container. Capture
// listeners come out outermost first, bubble listeners innermost first.
func collectPaths(target *Instance, eventType string) (capture, bubble []listener) {
	captureName, bubbleName := handlerNames(eventType)
	for inst := target; inst != nil; {
		if fn := handlerOf(inst.Props[captureName]); fn != nil {
			capture = append([]listener{{inst, fn}}, capture...)
		}
		if fn := handlerOf(inst.Props[bubbleName]); fn != nil {
			bubble = append(bubble, listener{inst, fn})
		}
		parent, _ := inst.parent.(*Instance)
		inst = parent
	}
	return capture, bubble
}

func triggerEventFlow(s *scheduler.Scheduler, listeners []listener, e *Event) {
	p := EventPriority(e.Type)
	for _, l := range listeners {
		e.CurrentTarget = l.instance
		s.RunWithPriority(p, func() {
			l.fn(e)
		})
		if e.stopped {
			return
		}
	}
}
