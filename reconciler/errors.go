package reconciler

import (
	"errors"
	"fmt"

	"github.com/delaneyj/fiberparty/lane"
)

var (
	ErrHookOutsideRender  = errors.New("reconciler: hooks can only be called while a component renders")
	ErrHookCountMismatch  = errors.New("reconciler: component rendered a different number of hooks than last time")
	ErrHookOrderMismatch  = errors.New("reconciler: hook order changed between renders")
	ErrNoPendingLane      = errors.New("reconciler: commit reached without a finished lane")
	ErrHostParentNotFound = errors.New("reconciler: host parent not found")
)

// RenderError is a failed render pass. The pass was abandoned and nothing
// from it was committed.
type RenderError struct {
	Lane  lane.Lane
	Fiber string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("reconciler: render failed at %s (lane %s): %v", e.Fiber, e.Lane, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func recovered(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
