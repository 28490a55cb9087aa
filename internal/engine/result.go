package engine

import (
	"net/http"

	"github.com/propdesk/backoffice/internal/validation"
)

// Kind classifies the outcome of an engine operation.
type Kind int

const (
	KindOK Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindDatabase
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDatabase:
		return "database"
	default:
		return "unknown"
	}
}

// dbErrorMessage is the only thing callers learn about a storage failure.
const dbErrorMessage = "A database error occurred. Please try again later."

// Result is the uniform response of every engine operation.
type Result struct {
	Kind    Kind     `json:"-"`
	Created bool     `json:"-"`
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data"`
	Errors  []string `json:"errors"`
}

// HTTPStatus maps the outcome to a response code.
func (r Result) HTTPStatus() int {
	switch r.Kind {
	case KindOK:
		if r.Created {
			return http.StatusCreated
		}
		return http.StatusOK
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// TransitionConflict explains a refused status change.
type TransitionConflict struct {
	Current   string   `json:"current"`
	Requested string   `json:"requested"`
	Allowed   []string `json:"allowed"`
}

// DependencyConflict explains a delete blocked by dependent records.
type DependencyConflict struct {
	Reason     string `json:"reason"`
	Dependency string `json:"dependency"`
	Count      int    `json:"count"`
}

// StateConflict explains an operation blocked by an entity's current state.
type StateConflict struct {
	Reason  string `json:"reason"`
	Current string `json:"current"`
}

func ok(message string, data any) Result {
	return Result{Kind: KindOK, Success: true, Message: message, Data: data, Errors: []string{}}
}

func created(message string, data any) Result {
	r := ok(message, data)
	r.Created = true
	return r
}

func invalid(errs validation.Errors) Result {
	return Result{
		Kind:    KindValidation,
		Message: "Please correct the errors below.",
		Errors:  errs.Messages(),
	}
}

func notFound(message string) Result {
	return Result{Kind: KindNotFound, Message: message, Errors: []string{message}}
}

func conflict(message string, data any) Result {
	return Result{Kind: KindConflict, Message: message, Data: data, Errors: []string{message}}
}

func dbFailure() Result {
	return Result{Kind: KindDatabase, Message: dbErrorMessage, Errors: []string{dbErrorMessage}}
}
