package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/colonyops/tada/internal/core/todo"
)

type createTodoRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// updateTodoRequest carries a partial update; nil fields are left alone.
type updateTodoRequest struct {
	Subject   *string `json:"subject"`
	Body      *string `json:"body"`
	Completed *bool   `json:"completed"`
}

// listTodos handles GET /api/todos?match=<glob>&completed=<bool>.
func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := todo.Filter{Pattern: q.Get("match")}
	if raw := q.Get("completed"); raw != "" {
		done, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("completed: %w", err))
			return
		}
		filter.Completed = &done
	}

	todos, err := s.app.Todos.List(r.Context(), filter)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	created, err := s.app.Todos.Create(r.Context(), req.Subject, req.Body)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getTodo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	t, err := s.app.Todos.Get(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req updateTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	ctx := r.Context()
	t, err := s.app.Todos.Get(ctx, id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	// Completion alone goes through SetCompleted so the toast says what
	// happened.
	if req.Subject == nil && req.Body == nil && req.Completed != nil {
		t, err = s.app.Todos.SetCompleted(ctx, id, *req.Completed)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, t)
		return
	}

	if req.Subject != nil {
		t.Subject = *req.Subject
	}
	if req.Body != nil {
		t.Body = *req.Body
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}

	t, err = s.app.Todos.Update(ctx, t)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.app.Todos.Delete(r.Context(), id); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
