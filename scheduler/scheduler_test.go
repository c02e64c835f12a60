package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsInPriorityOrder(t *testing.T) {
	s := scheduler.New(scheduler.WithClock(scheduler.NewManualClock()))
	var order []string
	s.ScheduleCallback(scheduler.IdlePriority, func(bool) scheduler.Callback {
		order = append(order, "idle")
		return nil
	})
	s.ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
		order = append(order, "normal")
		return nil
	})
	s.ScheduleCallback(scheduler.ImmediatePriority, func(didTimeout bool) scheduler.Callback {
		assert.True(t, didTimeout)
		order = append(order, "immediate")
		return nil
	})
	s.ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
		order = append(order, "normal-2")
		return nil
	})

	s.FlushAll()
	assert.Equal(t, []string{"immediate", "normal", "normal-2", "idle"}, order)
	assert.False(t, s.HasPendingWork())
}

func TestCancelCallback(t *testing.T) {
	s := scheduler.New(scheduler.WithClock(scheduler.NewManualClock()))
	ran := false
	task := s.ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
		ran = true
		return nil
	})
	s.CancelCallback(task)
	s.FlushAll()
	assert.False(t, ran)
	assert.True(t, task.Canceled())
}

func TestContinuationYieldsAndResumes(t *testing.T) {
	clock := scheduler.NewManualClock()
	s := scheduler.New(scheduler.WithClock(clock), scheduler.WithFrameInterval(5*time.Millisecond))

	steps := 0
	var step scheduler.Callback
	step = func(bool) scheduler.Callback {
		steps++
		clock.Advance(3 * time.Millisecond)
		if steps < 4 {
			return step
		}
		return nil
	}
	s.ScheduleCallback(scheduler.NormalPriority, step)

	assert.True(t, s.RunSlice())
	assert.Equal(t, 2, steps)
	assert.False(t, s.RunSlice())
	assert.Equal(t, 4, steps)
}

func TestShouldYieldTracksFrameBudget(t *testing.T) {
	clock := scheduler.NewManualClock()
	s := scheduler.New(scheduler.WithClock(clock), scheduler.WithFrameInterval(5*time.Millisecond))
	var observed []bool
	s.ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
		observed = append(observed, s.ShouldYield())
		clock.Advance(5 * time.Millisecond)
		observed = append(observed, s.ShouldYield())
		return nil
	})
	s.FlushAll()
	assert.Equal(t, []bool{false, true}, observed)
}

func TestRunWithPriority(t *testing.T) {
	s := scheduler.New()
	assert.Equal(t, scheduler.NormalPriority, s.CurrentPriority())
	s.RunWithPriority(scheduler.ImmediatePriority, func() {
		assert.Equal(t, scheduler.ImmediatePriority, s.CurrentPriority())
	})
	assert.Equal(t, scheduler.NormalPriority, s.CurrentPriority())

	s.ScheduleCallback(scheduler.UserBlockingPriority, func(bool) scheduler.Callback {
		assert.Equal(t, scheduler.UserBlockingPriority, s.CurrentPriority())
		return nil
	})
	s.FlushAll()
}

func TestMicrotasksDrainAfterSlice(t *testing.T) {
	s := scheduler.New(scheduler.WithClock(scheduler.NewManualClock()))
	var order []string
	s.ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
		s.ScheduleMicrotask(func() {
			order = append(order, "micro")
			s.ScheduleMicrotask(func() {
				order = append(order, "nested-micro")
			})
		})
		order = append(order, "task")
		return nil
	})
	s.FlushAll()
	assert.Equal(t, []string{"task", "micro", "nested-micro"}, order)
}

func TestPanickingTaskDoesNotStopQueue(t *testing.T) {
	s := scheduler.New(scheduler.WithClock(scheduler.NewManualClock()))
	ran := false
	s.ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
		panic("boom")
	})
	s.ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
		ran = true
		return nil
	})
	s.FlushAll()
	assert.True(t, ran)
}

func TestRunLoopProcessesPostedWork(t *testing.T) {
	s := scheduler.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()
	require.Eventually(t, func() bool {
		return s.Post(ctx, func() {}) == nil
	}, time.Second, time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	err := s.Post(ctx, func() {
		s.ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
			wg.Done()
			return nil
		})
	})
	require.NoError(t, err)
	wg.Wait()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.ErrorIs(t, s.Post(context.Background(), func() {}), scheduler.ErrNotRunning)
}
