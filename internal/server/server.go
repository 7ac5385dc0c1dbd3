// Package server exposes todos and toasts over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/colonyops/tada/internal/core/logging"
	"github.com/colonyops/tada/internal/metrics"
	"github.com/colonyops/tada/internal/tada"
)

// Server serves the JSON API, the toast websocket and /metrics.
type Server struct {
	app      *tada.App
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// New creates a Server. m may be nil, in which case /metrics is not mounted.
func New(app *tada.App, m *metrics.Metrics) *Server {
	return &Server{
		app:     app,
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: logging.Component("server"),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/todos", func(r chi.Router) {
			r.Get("/", s.listTodos)
			r.Post("/", s.createTodo)
			r.Get("/{id}", s.getTodo)
			r.Patch("/{id}", s.updateTodo)
			r.Delete("/{id}", s.deleteTodo)
		})

		r.Route("/toasts", func(r chi.Router) {
			r.Get("/", s.listToasts)
			r.Post("/", s.enqueueToast)
			r.Get("/ws", s.streamToasts)
		})

		r.Get("/routes", s.listRoutes)
		r.Get("/routes/resolve", s.resolveRoute)
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down,
// waiting at most shutdownTimeout for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// requestLogger tags the request context with chi's request id and logs
// each request at debug.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := middleware.GetReqID(ctx); id != "" {
			ctx = logging.WithRequestID(ctx, id)
			r = r.WithContext(ctx)
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().Ctx(ctx).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
