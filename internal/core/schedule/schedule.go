// Package schedule provides cancellable deferred tasks. Every delayed action in
// tada goes through a Scheduler so the owning component can cancel what it
// started and tests can drive time by hand.
package schedule

import (
	"time"

	"github.com/mixer/clock"
)

// Task is a handle to a single deferred action.
type Task interface {
	// Cancel stops the task. It returns true if the call stopped a task that
	// had not yet run.
	Cancel() bool
}

// Scheduler runs a function once after a delay.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Task
}

// ClockScheduler schedules tasks on a clock.Clock. Callbacks run on their own
// goroutine, the same way time.AfterFunc does.
type ClockScheduler struct {
	clock clock.Clock
}

var _ Scheduler = (*ClockScheduler)(nil)

// NewClockScheduler returns a scheduler backed by c. A nil clock uses the
// wall clock.
func NewClockScheduler(c clock.Clock) *ClockScheduler {
	if c == nil {
		c = clock.DefaultClock{}
	}
	return &ClockScheduler{clock: c}
}

func (s *ClockScheduler) Now() time.Time {
	return s.clock.Now()
}

func (s *ClockScheduler) AfterFunc(d time.Duration, fn func()) Task {
	return clockTask{timer: s.clock.AfterFunc(d, fn)}
}

type clockTask struct {
	timer clock.Timer
}

func (t clockTask) Cancel() bool {
	return t.timer.Stop()
}
