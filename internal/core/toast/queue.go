package toast

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/tada/internal/core/logging"
	"github.com/colonyops/tada/internal/core/schedule"
)

// Op names the kind of change a queue observer is told about.
type Op string

const (
	OpAdded   Op = "added"
	OpRemoved Op = "removed"
	OpCleared Op = "cleared"
)

// Change describes one mutation of a Queue. Items is a copy of the queue
// after the mutation. Notification is zero for OpCleared.
type Change struct {
	Op           Op
	Notification Notification
	Items        []Notification
}

// Queue is an ordered list of pending toasts. Every Enqueue schedules one
// "remove the oldest" task after the delay. The task is not bound to the
// toast that scheduled it: it removes whatever is at the head when it fires,
// so removal is always FIFO by enqueue time.
type Queue struct {
	sched schedule.Scheduler
	delay time.Duration
	tasks schedule.Group

	mu     sync.Mutex
	items  []Notification
	nextID int64
	closed bool

	subs observers[Change]
	log  zerolog.Logger
}

var _ Notifier = (*Queue)(nil)

// NewQueue returns an empty queue. A nil scheduler uses the wall clock and a
// non-positive delay uses DefaultDelay.
func NewQueue(sched schedule.Scheduler, delay time.Duration) *Queue {
	return &Queue{
		sched: schedulerOrDefault(sched),
		delay: delayOrDefault(delay),
		items: make([]Notification, 0),
		log:   logging.Component("toast"),
	}
}

// Delay returns how long each enqueue waits before removing the head.
func (q *Queue) Delay() time.Duration {
	return q.delay
}

// Enqueue appends a toast and schedules a removal of the oldest entry.
func (q *Queue) Enqueue(message string, kind Kind) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}

	q.nextID++
	n := Notification{
		ID:        q.nextID,
		Message:   message,
		Kind:      kindOrDefault(kind),
		CreatedAt: q.sched.Now(),
	}
	q.items = append(q.items, n)
	items := slices.Clone(q.items)
	q.tasks.Go(q.sched, q.delay, q.removeOldest)
	q.subs.publish(Change{Op: OpAdded, Notification: n, Items: items})
	q.mu.Unlock()

	q.log.Debug().
		Int64("id", n.ID).
		Str("kind", string(n.Kind)).
		Int("len", len(items)).
		Msg("toast enqueued")

	q.subs.flush()
}

// removeOldest drops the head of the queue. An empty queue is left alone.
func (q *Queue) removeOldest() {
	q.mu.Lock()
	if q.closed || len(q.items) == 0 {
		q.mu.Unlock()
		return
	}

	n := q.items[0]
	q.items = slices.Delete(q.items, 0, 1)
	items := slices.Clone(q.items)
	q.subs.publish(Change{Op: OpRemoved, Notification: n, Items: items})
	q.mu.Unlock()

	q.log.Debug().Int64("id", n.ID).Int("len", len(items)).Msg("toast expired")

	q.subs.flush()
}

// Dismiss removes the toast with the given id. Pending removal tasks are
// left in place and still take the head when they fire. It returns false if
// no toast has that id.
func (q *Queue) Dismiss(id int64) bool {
	q.mu.Lock()
	idx := slices.IndexFunc(q.items, func(n Notification) bool { return n.ID == id })
	if q.closed || idx < 0 {
		q.mu.Unlock()
		return false
	}

	n := q.items[idx]
	q.items = slices.Delete(q.items, idx, idx+1)
	q.subs.publish(Change{Op: OpRemoved, Notification: n, Items: slices.Clone(q.items)})
	q.mu.Unlock()

	q.subs.flush()
	return true
}

// DismissAll empties the queue. Pending removal tasks are left in place.
func (q *Queue) DismissAll() {
	q.mu.Lock()
	if q.closed || len(q.items) == 0 {
		q.mu.Unlock()
		return
	}
	q.items = q.items[:0]
	q.subs.publish(Change{Op: OpCleared, Items: []Notification{}})
	q.mu.Unlock()

	q.subs.flush()
}

// Snapshot returns a copy of the queue, oldest first.
func (q *Queue) Snapshot() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.items)
}

// Len returns the number of queued toasts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pending returns the number of removal tasks that have not fired.
func (q *Queue) Pending() int {
	return q.tasks.Len()
}

// Subscribe registers fn for every change. Callbacks run after the change is
// applied, outside the queue's lock, in registration order. Changes are
// delivered one at a time in the order they were applied; under concurrent
// use a change may be delivered by the goroutine already delivering an
// earlier one.
func (q *Queue) Subscribe(fn func(Change)) (unsubscribe func()) {
	return q.subs.add(fn)
}

// OnChange registers fn for every change without the details. fn runs
// outside the queue's lock and may call Snapshot.
func (q *Queue) OnChange(fn func()) (unsubscribe func()) {
	return q.subs.add(func(Change) { fn() })
}

// Close cancels all pending removals. The queue keeps its contents but no
// longer changes.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	stopped := q.tasks.CancelAll()
	q.log.Debug().Int("cancelled", stopped).Msg("toast queue closed")
}
