package toast

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/tada/internal/core/logging"
	"github.com/colonyops/tada/internal/core/schedule"
)

// SlotState is what a Slot currently shows.
type SlotState struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
	Visible bool   `json:"visible"`
}

// Slot holds at most one toast. A new Enqueue replaces the current toast and
// cancels its pending clear, so a toast always stays up for the full delay
// after the Enqueue that showed it.
type Slot struct {
	sched schedule.Scheduler
	delay time.Duration
	tasks schedule.Group

	mu      sync.Mutex
	state   SlotState
	current Notification
	gen     int64
	closed  bool

	subs observers[SlotState]
	log  zerolog.Logger
}

var _ Notifier = (*Slot)(nil)

// NewSlot returns an empty slot. A nil scheduler uses the wall clock and a
// non-positive delay uses DefaultDelay.
func NewSlot(sched schedule.Scheduler, delay time.Duration) *Slot {
	return &Slot{
		sched: schedulerOrDefault(sched),
		delay: delayOrDefault(delay),
		log:   logging.Component("toast"),
	}
}

// Enqueue replaces the shown toast.
func (s *Slot) Enqueue(message string, kind Kind) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.tasks.CancelAll()
	s.gen++
	gen := s.gen
	s.current = Notification{
		ID:        gen,
		Message:   message,
		Kind:      kindOrDefault(kind),
		CreatedAt: s.sched.Now(),
	}
	s.state = SlotState{Message: message, Kind: s.current.Kind, Visible: true}
	state := s.state
	s.tasks.Go(s.sched, s.delay, func() { s.clear(gen) })
	s.subs.publish(state)
	s.mu.Unlock()

	s.log.Debug().Int64("id", gen).Str("kind", string(state.Kind)).Msg("toast shown")

	s.subs.flush()
}

// clear hides the toast shown by generation gen. A clear that lost a race
// with a newer Enqueue does nothing.
func (s *Slot) clear(gen int64) {
	s.mu.Lock()
	if s.closed || gen != s.gen || !s.state.Visible {
		s.mu.Unlock()
		return
	}
	s.state.Message = ""
	s.state.Visible = false
	s.subs.publish(s.state)
	s.mu.Unlock()

	s.log.Debug().Int64("id", gen).Msg("toast cleared")

	s.subs.flush()
}

// State returns what the slot currently shows.
func (s *Slot) State() SlotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the shown toast as a one-element list, or an empty list
// while the slot is hidden.
func (s *Slot) Snapshot() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Visible {
		return []Notification{}
	}
	return []Notification{s.current}
}

// Subscribe registers fn for every state change.
func (s *Slot) Subscribe(fn func(SlotState)) (unsubscribe func()) {
	return s.subs.add(fn)
}

// OnChange registers fn for every state change. fn runs outside the slot's
// lock and may call State or Snapshot.
func (s *Slot) OnChange(fn func()) (unsubscribe func()) {
	return s.subs.add(func(SlotState) { fn() })
}

// Close cancels the pending clear. The slot keeps its state but no longer
// changes.
func (s *Slot) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.tasks.CancelAll()
}
