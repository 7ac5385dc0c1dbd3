package schedule

import (
	"sync"
	"time"
)

// Group tracks the outstanding tasks started by one owner so they can be
// cancelled together. Tasks leave the group when they run or are cancelled.
// The zero value is ready to use.
type Group struct {
	mu    sync.Mutex
	next  uint64
	tasks map[uint64]Task
}

// Go schedules fn on s after d and tracks the resulting task.
func (g *Group) Go(s Scheduler, d time.Duration, fn func()) Task {
	g.mu.Lock()
	if g.tasks == nil {
		g.tasks = make(map[uint64]Task)
	}
	id := g.next
	g.next++
	// Reserve the slot first; a real clock may fire before AfterFunc returns.
	g.tasks[id] = nil
	g.mu.Unlock()

	task := s.AfterFunc(d, func() {
		g.mu.Lock()
		delete(g.tasks, id)
		g.mu.Unlock()
		fn()
	})

	g.mu.Lock()
	if _, pending := g.tasks[id]; pending {
		g.tasks[id] = task
	}
	g.mu.Unlock()

	return task
}

// CancelAll cancels every tracked task and returns how many were stopped
// before running.
func (g *Group) CancelAll() int {
	g.mu.Lock()
	tasks := g.tasks
	g.tasks = nil
	g.mu.Unlock()

	stopped := 0
	for _, t := range tasks {
		if t != nil && t.Cancel() {
			stopped++
		}
	}
	return stopped
}

// Len returns the number of tasks that have neither run nor been cancelled.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tasks)
}
