package web

import (
	"io"
	"net/http"

	"github.com/propdesk/backoffice/internal/engine"
	"github.com/propdesk/backoffice/internal/property"
	"github.com/propdesk/backoffice/internal/rental"
	"github.com/propdesk/backoffice/internal/visit"
)

const maxBodyBytes = 1 << 20

// handleAJAX runs one engine action and writes its result envelope.
func (s *Server) handleAJAX(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		apiError(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	action := engine.ActionFor(r.PathValue("module"), r.PathValue("action"))
	res := s.engine.Dispatch(r.Context(), action, body)
	apiJSON(w, res, res.HTTPStatus())
}

// handleStatuses returns the code to label maps for every status set.
func (s *Server) handleStatuses(w http.ResponseWriter, r *http.Request) {
	rentals := make(map[string]string, len(rental.Statuses))
	for _, st := range rental.Statuses {
		rentals[string(st)] = st.Label()
	}
	visits := make(map[string]string, len(visit.Statuses))
	for _, st := range visit.Statuses {
		visits[string(st)] = st.Label()
	}
	states := make(map[string]string, len(property.States))
	for _, st := range property.States {
		states[string(st)] = st.Label()
	}

	apiJSON(w, map[string]map[string]string{
		"rental_status":      rentals,
		"visit_status":       visits,
		"availability_state": states,
	}, http.StatusOK)
}
