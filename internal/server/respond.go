package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/tada/internal/core/todo"
	"github.com/colonyops/tada/internal/data/stores"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var fieldErrs criterio.FieldErrors
	switch {
	case errors.Is(err, todo.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &fieldErrs):
		return http.StatusUnprocessableEntity
	case stores.IsBusyError(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

var errBadID = errors.New("id must be a positive integer")

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}
