// Package toast holds transient user-facing notifications. A toast is shown
// for a fixed delay and then dismissed on its own.
//
// Two holders are provided. Queue keeps every pending toast in insertion
// order; Slot keeps only the latest one. A process picks one of them through
// the Notifier interface; they are not meant to be layered.
package toast

import (
	"fmt"
	"time"

	"github.com/colonyops/tada/internal/core/schedule"
)

// DefaultDelay is how long a toast stays up when no delay is configured.
const DefaultDelay = 5 * time.Second

// Kind is a severity or style label. The set is open; the constants below are
// the ones the presentation layers know how to style.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// DefaultKind is used when Enqueue is called with an empty kind.
const DefaultKind = KindSuccess

// Notification is a single toast.
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is the surface shared by Queue and Slot.
type Notifier interface {
	// Enqueue shows message with the given kind. An empty kind means
	// DefaultKind. It never blocks and never fails.
	Enqueue(message string, kind Kind)

	// Snapshot returns the toasts currently on display, oldest first.
	Snapshot() []Notification

	// OnChange registers fn to be called after every change to the visible
	// toasts. The returned func removes the registration.
	OnChange(fn func()) (unsubscribe func())

	// Close cancels every pending dismissal. Later calls to Enqueue are
	// ignored.
	Close()
}

func kindOrDefault(k Kind) Kind {
	if k == "" {
		return DefaultKind
	}
	return k
}

func schedulerOrDefault(s schedule.Scheduler) schedule.Scheduler {
	if s == nil {
		return schedule.NewClockScheduler(nil)
	}
	return s
}

func delayOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultDelay
	}
	return d
}

// Successf enqueues a success toast.
func Successf(n Notifier, format string, args ...any) {
	n.Enqueue(fmt.Sprintf(format, args...), KindSuccess)
}

// Infof enqueues an info toast.
func Infof(n Notifier, format string, args ...any) {
	n.Enqueue(fmt.Sprintf(format, args...), KindInfo)
}

// Warnf enqueues a warning toast.
func Warnf(n Notifier, format string, args ...any) {
	n.Enqueue(fmt.Sprintf(format, args...), KindWarning)
}

// Errorf enqueues an error toast.
func Errorf(n Notifier, format string, args ...any) {
	n.Enqueue(fmt.Sprintf(format, args...), KindError)
}
