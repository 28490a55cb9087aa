package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/propdesk/backoffice/internal/agent"
	"github.com/propdesk/backoffice/internal/client"
	"github.com/propdesk/backoffice/internal/contract"
	"github.com/propdesk/backoffice/internal/property"
	"github.com/propdesk/backoffice/internal/rental"
	"github.com/propdesk/backoffice/internal/sale"
	"github.com/propdesk/backoffice/internal/validation"
	"github.com/propdesk/backoffice/internal/visit"
)

// decodeBody decodes a JSON request body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// rejectInvalid writes a 400 listing every validation message.
func rejectInvalid(w http.ResponseWriter, errs validation.Errors) bool {
	if errs.Empty() {
		return false
	}
	apiJSON(w, map[string]any{"error": errs.Error(), "errors": errs.Messages()}, http.StatusBadRequest)
	return true
}

// apiListProperties returns properties filtered by term and state.
func (s *Server) apiListProperties(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	opts := property.ListOptions{
		Term:  q.get("q"),
		State: property.AvailabilityState(q.get("state")),
		Limit: q.number("limit"),
	}
	if q.invalid(w) {
		return
	}
	if opts.State != "" && !opts.State.IsValid() {
		apiError(w, "state must be one of: available, sold, rented", http.StatusBadRequest)
		return
	}

	props, err := s.propRepo.List(r.Context(), opts)
	if err != nil {
		apiFailure(w, r, err, "property")
		return
	}
	apiJSON(w, orEmpty(props), http.StatusOK)
}

// apiAddProperty registers a new, available property.
func (s *Server) apiAddProperty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address      string `json:"address"`
		PropertyType string `json:"property_type"`
		Price        *int64 `json:"price"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	var errs validation.Errors
	validation.Required(&errs, "address", req.Address)
	if req.Price != nil && *req.Price < 0 {
		errs.Add("price", "%s must be 0 or greater", "price")
	}
	if rejectInvalid(w, errs) {
		return
	}

	p, err := s.propRepo.Insert(r.Context(), &property.Property{
		Address:      strings.TrimSpace(req.Address),
		PropertyType: strings.TrimSpace(req.PropertyType),
		Price:        req.Price,
	})
	if err != nil {
		apiFailure(w, r, err, "property")
		return
	}
	apiJSON(w, p, http.StatusCreated)
}

// apiGetProperty returns a property with its contracts.
func (s *Server) apiGetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "property")
	if !ok {
		return
	}

	p, err := s.propRepo.GetByID(r.Context(), id)
	if err != nil {
		apiFailure(w, r, err, "property")
		return
	}

	contracts, err := s.contractRepo.ListByPropertyID(r.Context(), id)
	if err != nil {
		apiFailure(w, r, err, "contracts")
		return
	}

	apiJSON(w, struct {
		*property.Property
		Contracts []*contract.Contract `json:"contracts"`
	}{p, orEmpty(contracts)}, http.StatusOK)
}

func (s *Server) apiListClients(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	term, limit := q.get("q"), q.number("limit")
	if q.invalid(w) {
		return
	}

	clients, err := s.clientRepo.List(r.Context(), term, limit)
	if err != nil {
		apiFailure(w, r, err, "client")
		return
	}
	apiJSON(w, orEmpty(clients), http.StatusOK)
}

func (s *Server) apiAddClient(w http.ResponseWriter, r *http.Request) {
	var req client.Client
	if !decodeBody(w, r, &req) {
		return
	}

	var errs validation.Errors
	validation.Required(&errs, "name", req.Name)
	if rejectInvalid(w, errs) {
		return
	}

	c, err := s.clientRepo.Insert(r.Context(), &client.Client{
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Phone:      req.Phone,
		DocumentID: req.DocumentID,
	})
	if err != nil {
		apiFailure(w, r, err, "client")
		return
	}
	apiJSON(w, c, http.StatusCreated)
}

func (s *Server) apiGetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "client")
	if !ok {
		return
	}
	c, err := s.clientRepo.GetByID(r.Context(), id)
	if err != nil {
		apiFailure(w, r, err, "client")
		return
	}
	apiJSON(w, c, http.StatusOK)
}

func (s *Server) apiListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.agentRepo.List(r.Context())
	if err != nil {
		apiFailure(w, r, err, "agent")
		return
	}
	apiJSON(w, orEmpty(agents), http.StatusOK)
}

func (s *Server) apiAddAgent(w http.ResponseWriter, r *http.Request) {
	var req agent.Agent
	if !decodeBody(w, r, &req) {
		return
	}

	var errs validation.Errors
	validation.Required(&errs, "name", req.Name)
	if rejectInvalid(w, errs) {
		return
	}

	a, err := s.agentRepo.Insert(r.Context(), &agent.Agent{
		Name:  strings.TrimSpace(req.Name),
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		apiFailure(w, r, err, "agent")
		return
	}
	apiJSON(w, a, http.StatusCreated)
}

func (s *Server) apiGetAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "agent")
	if !ok {
		return
	}
	a, err := s.agentRepo.GetByID(r.Context(), id)
	if err != nil {
		apiFailure(w, r, err, "agent")
		return
	}
	apiJSON(w, a, http.StatusOK)
}

// apiListContracts returns the contracts of one property.
func (s *Server) apiListContracts(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	propertyID := q.id("property_id")
	if q.invalid(w) {
		return
	}
	if propertyID <= 0 {
		apiError(w, "property_id is required", http.StatusBadRequest)
		return
	}

	contracts, err := s.contractRepo.ListByPropertyID(r.Context(), propertyID)
	if err != nil {
		apiFailure(w, r, err, "contracts")
		return
	}
	apiJSON(w, orEmpty(contracts), http.StatusOK)
}

// apiAddContract records a contract between a client and a property.
func (s *Server) apiAddContract(w http.ResponseWriter, r *http.Request) {
	var req contract.Contract
	if !decodeBody(w, r, &req) {
		return
	}

	var errs validation.Errors
	validation.RequiredID(&errs, "property_id", req.PropertyID)
	validation.RequiredID(&errs, "client_id", req.ClientID)
	validation.OneOf(&errs, "contract_type", string(req.ContractType), []string{string(contract.TypeSale), string(contract.TypeRental)})
	if req.SignedDate != "" {
		validation.Date(&errs, "signed_date", req.SignedDate)
	}
	if rejectInvalid(w, errs) {
		return
	}

	if _, err := s.propRepo.GetByID(r.Context(), req.PropertyID); err != nil {
		apiFailure(w, r, err, "property")
		return
	}
	if _, err := s.clientRepo.GetByID(r.Context(), req.ClientID); err != nil {
		apiFailure(w, r, err, "client")
		return
	}

	c, err := s.contractRepo.Add(r.Context(), &req)
	if err != nil {
		apiFailure(w, r, err, "contract")
		return
	}
	apiJSON(w, c, http.StatusCreated)
}

// apiSearchSales searches sales by term, agent, date and value range.
func (s *Server) apiSearchSales(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	opts := sale.SearchOptions{
		Term:     q.get("q"),
		AgentID:  q.id("agent_id"),
		DateFrom: q.get("date_from"),
		DateTo:   q.get("date_to"),
		MinValue: q.amount("min_value"),
		MaxValue: q.amount("max_value"),
		Limit:    q.number("limit"),
	}
	if q.invalid(w) {
		return
	}

	sales, err := s.saleRepo.Search(r.Context(), opts)
	if err != nil {
		apiFailure(w, r, err, "sale")
		return
	}
	apiJSON(w, orEmpty(sales), http.StatusOK)
}

func (s *Server) apiGetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "sale")
	if !ok {
		return
	}
	sl, err := s.saleRepo.GetByID(r.Context(), id)
	if err != nil {
		apiFailure(w, r, err, "sale")
		return
	}
	apiJSON(w, sl, http.StatusOK)
}

// apiSearchRentals searches rentals by term, status, dates and rent range.
func (s *Server) apiSearchRentals(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	opts := rental.SearchOptions{
		Term:       q.get("q"),
		Status:     rental.Status(q.get("status")),
		PropertyID: q.id("property_id"),
		DateFrom:   q.get("date_from"),
		DateTo:     q.get("date_to"),
		MinRent:    q.amount("min_rent"),
		MaxRent:    q.amount("max_rent"),
		Limit:      q.number("limit"),
	}
	if q.invalid(w) {
		return
	}
	if opts.Status != "" && !opts.Status.IsValid() {
		apiError(w, "status must be one of: "+strings.Join(rental.StatusStrings(), ", "), http.StatusBadRequest)
		return
	}

	rentals, err := s.rentalRepo.Search(r.Context(), opts)
	if err != nil {
		apiFailure(w, r, err, "rental")
		return
	}
	apiJSON(w, orEmpty(rentals), http.StatusOK)
}

// apiExpiringRentals lists leases ending within ?days= (default 30).
func (s *Server) apiExpiringRentals(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	days, limit := q.number("days"), q.number("limit")
	if q.invalid(w) {
		return
	}

	rentals, err := s.rentalRepo.Expiring(r.Context(), s.now(), days, limit)
	if err != nil {
		apiFailure(w, r, err, "rental")
		return
	}
	apiJSON(w, orEmpty(rentals), http.StatusOK)
}

func (s *Server) apiGetRental(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "rental")
	if !ok {
		return
	}
	rt, err := s.rentalRepo.GetByID(r.Context(), id)
	if err != nil {
		apiFailure(w, r, err, "rental")
		return
	}
	apiJSON(w, struct {
		*rental.Rental
		AllowedStatuses []rental.Status `json:"allowed_statuses"`
	}{rt, rt.Status.Allowed()}, http.StatusOK)
}

// apiSearchVisits searches visits by term, status, agent, property and date.
func (s *Server) apiSearchVisits(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	opts := visit.SearchOptions{
		Term:       q.get("q"),
		Status:     visit.Status(q.get("status")),
		AgentID:    q.id("agent_id"),
		PropertyID: q.id("property_id"),
		DateFrom:   q.get("date_from"),
		DateTo:     q.get("date_to"),
		Limit:      q.number("limit"),
	}
	if q.invalid(w) {
		return
	}
	if opts.Status != "" && !opts.Status.IsValid() {
		apiError(w, "status must be one of: "+strings.Join(visit.StatusStrings(), ", "), http.StatusBadRequest)
		return
	}

	visits, err := s.visitRepo.Search(r.Context(), opts)
	if err != nil {
		apiFailure(w, r, err, "visit")
		return
	}
	apiJSON(w, orEmpty(visits), http.StatusOK)
}

// apiUpcomingVisits lists pending visits within ?days= (default 7).
func (s *Server) apiUpcomingVisits(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	days, limit := q.number("days"), q.number("limit")
	if q.invalid(w) {
		return
	}

	visits, err := s.visitRepo.Upcoming(r.Context(), s.now(), days, limit)
	if err != nil {
		apiFailure(w, r, err, "visit")
		return
	}
	apiJSON(w, orEmpty(visits), http.StatusOK)
}

func (s *Server) apiGetVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "visit")
	if !ok {
		return
	}
	v, err := s.visitRepo.GetByID(r.Context(), id)
	if err != nil {
		apiFailure(w, r, err, "visit")
		return
	}
	apiJSON(w, v, http.StatusOK)
}

// orEmpty keeps empty lists serialising as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
