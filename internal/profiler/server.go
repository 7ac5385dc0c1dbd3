// Package profiler serves pprof endpoints on a side port.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct {
	httpServer *http.Server
	listener   net.Listener
	port       int
}

// New returns a profiler bound to localhost:port. Port 0 picks a free port.
func New(port int) *Server {
	r := chi.NewRouter()
	r.Mount("/debug", middleware.Profiler())

	return &Server{
		httpServer: &http.Server{
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		port: port,
	}
}

// Start listens and serves in the background. It returns once the listener
// is bound.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return fmt.Errorf("profiler listen: %w", err)
	}
	s.listener = listener

	log.Info().Str("addr", listener.Addr().String()).Msg("starting profiler server")

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("profiler server stopped")
		}
	}()
	return nil
}

func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down profiler server")
	return s.httpServer.Shutdown(ctx)
}

// StartIfEnabled starts a profiler when port is positive and returns a func
// that stops it. With port <= 0 both are no-ops.
func StartIfEnabled(ctx context.Context, port int) (stop func(), err error) {
	if port <= 0 {
		return func() {}, nil
	}

	srv := New(port)
	if err := srv.Start(ctx); err != nil {
		return nil, err
	}
	log.Info().
		Str("url", fmt.Sprintf("http://%s/debug/pprof/", srv.Addr())).
		Msg("profiler endpoint available")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown profiler server")
		}
	}, nil
}
