package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/colonyops/tada/internal/core/route"
	"github.com/colonyops/tada/internal/core/toast"
)

type enqueueToastRequest struct {
	Message string     `json:"message"`
	Kind    toast.Kind `json:"kind"`
}

type toastsResponse struct {
	Toasts []toast.Notification `json:"toasts"`
}

func (s *Server) listToasts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toastsResponse{Toasts: s.app.Toasts.Snapshot()})
}

// enqueueToast accepts any message, including an empty one. An empty kind
// becomes the default kind.
func (s *Server) enqueueToast(w http.ResponseWriter, r *http.Request) {
	var req enqueueToastRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	s.app.Toasts.Enqueue(req.Message, req.Kind)
	writeJSON(w, http.StatusAccepted, toastsResponse{Toasts: s.app.Toasts.Snapshot()})
}

func (s *Server) listRoutes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Routes.Routes())
}

// resolveRoute handles GET /api/routes/resolve?path=/todos/42.
func (s *Server) resolveRoute(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, errors.New("path is required"))
		return
	}

	m, ok := s.app.Routes.Match(path)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no route for %q", path))
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{Match: m, Parent: route.Parent(path)})
}

type resolveResponse struct {
	route.Match
	Parent string `json:"parent"`
}
