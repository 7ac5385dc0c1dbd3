// Package scheduletest provides a deterministic scheduler for tests.
package scheduletest

import (
	"sync"
	"time"

	"github.com/colonyops/tada/internal/core/schedule"
)

// Epoch is the default start time of a Manual scheduler.
var Epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Manual is a scheduler whose clock only moves when Advance is called. Due
// tasks run synchronously on the goroutine calling Advance, ordered by
// deadline and then by the order they were scheduled.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

var _ schedule.Scheduler = (*Manual)(nil)

// NewManual returns a Manual scheduler starting at Epoch.
func NewManual() *Manual {
	return &Manual{now: Epoch}
}

type manualTask struct {
	m    *Manual
	at   time.Time
	seq  uint64
	fn   func()
	done bool
}

func (t *manualTask) Cancel() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Elapsed returns how far the clock has moved since Epoch.
func (m *Manual) Elapsed() time.Duration {
	return m.Now().Sub(Epoch)
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) schedule.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTask{m: m, at: m.now.Add(d), seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves the clock forward by d, running every task that falls due on
// the way. Tasks scheduled by a running task fire in the same call if their
// deadline is within the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.popDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.at
		next.done = true
		m.mu.Unlock()

		next.fn()
	}
}

// AdvanceTo moves the clock to Epoch+offset. It never moves backwards.
func (m *Manual) AdvanceTo(offset time.Duration) {
	if d := offset - m.Elapsed(); d > 0 {
		m.Advance(d)
	}
}

// Pending returns the number of tasks that have not run or been cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.tasks {
		if !t.done {
			n++
		}
	}
	return n
}

func (m *Manual) popDueLocked(target time.Time) *manualTask {
	var (
		best  *manualTask
		alive = m.tasks[:0]
	)
	for _, t := range m.tasks {
		if t.done {
			continue
		}
		alive = append(alive, t)
		if t.at.After(target) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	clear(m.tasks[len(alive):])
	m.tasks = alive
	return best
}
