package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/tada/internal/core/toast"
)

// toastsChangedMsg tells the model to re-read the notifier snapshot.
type toastsChangedMsg struct{}

// ChangeSignal turns notifier callbacks into tea messages. Any number of
// changes between two reads collapse into a single message.
type ChangeSignal struct {
	signal      chan struct{}
	unsubscribe func()
}

// NewChangeSignal subscribes to n.
func NewChangeSignal(n toast.Notifier) *ChangeSignal {
	s := &ChangeSignal{signal: make(chan struct{}, 1)}
	s.unsubscribe = n.OnChange(s.notify)
	return s
}

func (s *ChangeSignal) notify() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// Wait blocks until the notifier changed since the last read.
func (s *ChangeSignal) Wait() tea.Cmd {
	return func() tea.Msg {
		<-s.signal
		return toastsChangedMsg{}
	}
}

// Stop removes the subscription.
func (s *ChangeSignal) Stop() {
	s.unsubscribe()
}
