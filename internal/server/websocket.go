package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/colonyops/tada/internal/core/logging"
	"github.com/colonyops/tada/internal/core/toast"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// snapshotMessage is the only frame sent to clients: the whole visible toast
// list, sent on connect and after every change.
type snapshotMessage struct {
	Type   string               `json:"type"`
	Toasts []toast.Notification `json:"toasts"`
}

// streamToasts upgrades to a websocket and pushes snapshots. Bursts of
// changes are coalesced into a single frame.
func (s *Server) streamToasts(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	ctx := logging.WithConnID(r.Context(), uuid.NewString())
	s.log.Debug().Ctx(ctx).Msg("toast stream opened")

	signal := make(chan struct{}, 1)
	unsubscribe := s.app.Toasts.OnChange(func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	// The read loop only exists to notice the client going away.
	closed := make(chan struct{})
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	send := func() bool {
		msg := snapshotMessage{Type: "snapshot", Toasts: s.app.Toasts.Snapshot()}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			s.log.Debug().Ctx(ctx).Err(err).Msg("toast stream write failed")
			return false
		}
		return true
	}

	if !send() {
		return
	}

	for {
		select {
		case <-signal:
			if !send() {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			s.log.Debug().Ctx(ctx).Msg("toast stream closed by client")
			return
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(wsWriteWait))
			return
		}
	}
}
