package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/propdesk/backoffice/internal/db"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, map[string]string{"error": msg}, code)
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// apiFailure reports a repository error, hiding storage details.
func apiFailure(w http.ResponseWriter, r *http.Request, err error, what string) {
	if errors.Is(err, db.ErrNotFound) {
		apiError(w, what+" not found", http.StatusNotFound)
		return
	}
	slog.Error("api request failed", "path", r.URL.Path, "error", err)
	apiError(w, "internal error", http.StatusInternalServerError)
}

// pathID parses the {id} path value.
func pathID(w http.ResponseWriter, r *http.Request, what string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		apiError(w, "invalid "+what+" ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// query reads typed URL query parameters, remembering the first bad one.
type query struct {
	r   *http.Request
	err string
}

func (q *query) get(key string) string {
	return q.r.URL.Query().Get(key)
}

func (q *query) number(key string) int {
	v := q.r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil && q.err == "" {
		q.err = key + " must be a number"
	}
	return n
}

func (q *query) id(key string) int64 {
	v := q.r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil && q.err == "" {
		q.err = key + " must be a number"
	}
	return n
}

func (q *query) amount(key string) float64 {
	v := q.r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil && q.err == "" {
		q.err = key + " must be a number"
	}
	return f
}

// invalid writes a 400 when any parameter failed to parse.
func (q *query) invalid(w http.ResponseWriter) bool {
	if q.err != "" {
		apiError(w, q.err, http.StatusBadRequest)
		return true
	}
	return false
}
