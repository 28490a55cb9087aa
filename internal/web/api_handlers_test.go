package web

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAPIPropertiesCRUD(t *testing.T) {
	srv, _ := testServer(t)

	w := apiRequest(t, srv, "POST", "/api/properties", map[string]any{
		"address": "  22 Paseo del Prado ", "property_type": "house", "price": 420000,
	})
	expectStatus(t, w, http.StatusCreated)
	created := decode[map[string]any](t, w)
	if created["address"] != "22 Paseo del Prado" || created["availability_state"] != "available" {
		t.Errorf("created = %v", created)
	}
	id := int64(created["id"].(float64))

	w = apiRequest(t, srv, "GET", fmt.Sprintf("/api/properties/%d", id), nil)
	expectStatus(t, w, http.StatusOK)
	got := decode[map[string]any](t, w)
	if got["property_type"] != "house" {
		t.Errorf("property = %v", got)
	}
	if contracts, isList := got["contracts"].([]any); !isList || len(contracts) != 0 {
		t.Errorf("contracts = %v, want empty list", got["contracts"])
	}

	w = apiRequest(t, srv, "GET", "/api/properties?q=Prado&state=available", nil)
	expectStatus(t, w, http.StatusOK)
	if list := decode[[]map[string]any](t, w); len(list) != 1 {
		t.Errorf("got %d properties, want 1", len(list))
	}

	w = apiRequest(t, srv, "GET", "/api/properties?state=sold", nil)
	expectStatus(t, w, http.StatusOK)
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty list", body)
	}
}

func TestAPIPropertyErrors(t *testing.T) {
	srv, _ := testServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"missing address", "POST", "/api/properties", map[string]any{"price": -1}, http.StatusBadRequest},
		{"bad json", "POST", "/api/properties", "not an object", http.StatusBadRequest},
		{"bad id", "GET", "/api/properties/abc", nil, http.StatusBadRequest},
		{"unknown id", "GET", "/api/properties/404", nil, http.StatusNotFound},
		{"bad state", "GET", "/api/properties?state=leased", nil, http.StatusBadRequest},
		{"bad limit", "GET", "/api/properties?limit=ten", nil, http.StatusBadRequest},
		{"delete not routed", "DELETE", "/api/properties/1", nil, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, apiRequest(t, srv, tt.method, tt.path, tt.body), tt.want)
		})
	}

	w := apiRequest(t, srv, "POST", "/api/properties", map[string]any{"price": -1})
	res := decode[struct {
		Errors []string `json:"errors"`
	}](t, w)
	if len(res.Errors) != 2 {
		t.Errorf("errors = %q, want address and price", res.Errors)
	}
}

func TestAPIClientsAndAgents(t *testing.T) {
	srv, _ := testServer(t)

	w := apiRequest(t, srv, "POST", "/api/clients", map[string]any{"name": "Nuria", "email": "nuria@example.com", "document_id": "X123"})
	expectStatus(t, w, http.StatusCreated)
	clientID := int64(decode[map[string]any](t, w)["id"].(float64))

	expectStatus(t, apiRequest(t, srv, "POST", "/api/clients", map[string]any{"email": "x@example.com"}), http.StatusBadRequest)

	w = apiRequest(t, srv, "GET", fmt.Sprintf("/api/clients/%d", clientID), nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[map[string]any](t, w); got["document_id"] != "X123" {
		t.Errorf("client = %v", got)
	}

	w = apiRequest(t, srv, "GET", "/api/clients?q=Nur", nil)
	expectStatus(t, w, http.StatusOK)
	if list := decode[[]map[string]any](t, w); len(list) != 1 {
		t.Errorf("got %d clients, want 1", len(list))
	}

	w = apiRequest(t, srv, "POST", "/api/agents", map[string]any{"name": "Oriol", "phone": "600000000"})
	expectStatus(t, w, http.StatusCreated)
	agentID := int64(decode[map[string]any](t, w)["id"].(float64))

	expectStatus(t, apiRequest(t, srv, "GET", fmt.Sprintf("/api/agents/%d", agentID), nil), http.StatusOK)
	expectStatus(t, apiRequest(t, srv, "GET", "/api/agents/999", nil), http.StatusNotFound)

	w = apiRequest(t, srv, "GET", "/api/agents", nil)
	expectStatus(t, w, http.StatusOK)
	if list := decode[[]map[string]any](t, w); len(list) != 1 {
		t.Errorf("got %d agents, want 1", len(list))
	}
}

func TestAPIContracts(t *testing.T) {
	srv, d := testServer(t)
	propID, clientID, _ := seedParties(t, d)

	w := apiRequest(t, srv, "POST", "/api/contracts", map[string]any{
		"property_id": propID, "client_id": clientID, "contract_type": "sale",
		"number": "C-2026-001", "signed_date": "2026-03-30",
	})
	expectStatus(t, w, http.StatusCreated)

	w = apiRequest(t, srv, "POST", "/api/contracts", map[string]any{
		"property_id": propID, "client_id": clientID, "contract_type": "lease", "signed_date": "30/03/2026",
	})
	expectStatus(t, w, http.StatusBadRequest)

	w = apiRequest(t, srv, "POST", "/api/contracts", map[string]any{
		"property_id": propID, "client_id": 999, "contract_type": "rental",
	})
	expectStatus(t, w, http.StatusNotFound)

	w = apiRequest(t, srv, "GET", fmt.Sprintf("/api/contracts?property_id=%d", propID), nil)
	expectStatus(t, w, http.StatusOK)
	list := decode[[]map[string]any](t, w)
	if len(list) != 1 || list[0]["number"] != "C-2026-001" {
		t.Errorf("contracts = %v", list)
	}

	expectStatus(t, apiRequest(t, srv, "GET", "/api/contracts", nil), http.StatusBadRequest)
}

func TestAPISearchSales(t *testing.T) {
	srv, d := testServer(t)
	propID, clientID, _ := seedParties(t, d)

	w := apiRequest(t, srv, "POST", "/api/ajax/sale/create", map[string]any{
		"property_id": propID, "client_id": clientID, "value": 99000, "sale_date": "2026-02-14",
	})
	expectStatus(t, w, http.StatusCreated)
	saleID := int64(decode[envelope](t, w).Data["id"].(float64))

	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"?q=Rambla", 1},
		{"?q=Julia", 1},
		{"?min_value=100000", 0},
		{"?date_from=2026-02-01&date_to=2026-02-28", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := apiRequest(t, srv, "GET", "/api/sales"+tt.query, nil)
			expectStatus(t, w, http.StatusOK)
			if list := decode[[]map[string]any](t, w); len(list) != tt.want {
				t.Errorf("got %d sales, want %d", len(list), tt.want)
			}
		})
	}

	expectStatus(t, apiRequest(t, srv, "GET", "/api/sales?max_value=lots", nil), http.StatusBadRequest)
	expectStatus(t, apiRequest(t, srv, "GET", fmt.Sprintf("/api/sales/%d", saleID), nil), http.StatusOK)
	expectStatus(t, apiRequest(t, srv, "GET", "/api/sales/999", nil), http.StatusNotFound)
}

func TestAPIRentals(t *testing.T) {
	srv, d := testServer(t)
	propID, clientID, _ := seedParties(t, d)

	create := func(start, end string) int64 {
		t.Helper()
		w := apiRequest(t, srv, "POST", "/api/ajax/rental/create", map[string]any{
			"property_id": propID, "client_id": clientID, "start_date": start, "end_date": end, "monthly_rent": 650,
		})
		expectStatus(t, w, http.StatusCreated)
		return int64(decode[envelope](t, w).Data["id"].(float64))
	}
	soon := create("2025-04-15", "2026-04-20")
	create("2026-05-01", "2027-04-30")

	w := apiRequest(t, srv, "GET", "/api/rentals/expiring", nil)
	expectStatus(t, w, http.StatusOK)
	list := decode[[]map[string]any](t, w)
	if len(list) != 1 || int64(list[0]["id"].(float64)) != soon {
		t.Errorf("expiring = %v, want only rental %d", list, soon)
	}

	w = apiRequest(t, srv, "GET", "/api/rentals?status=active&q=Julia", nil)
	expectStatus(t, w, http.StatusOK)
	if list := decode[[]map[string]any](t, w); len(list) != 2 {
		t.Errorf("got %d rentals, want 2", len(list))
	}

	expectStatus(t, apiRequest(t, srv, "GET", "/api/rentals?status=paused", nil), http.StatusBadRequest)
	expectStatus(t, apiRequest(t, srv, "GET", "/api/rentals/expiring?days=soon", nil), http.StatusBadRequest)

	w = apiRequest(t, srv, "GET", fmt.Sprintf("/api/rentals/%d", soon), nil)
	expectStatus(t, w, http.StatusOK)
	got := decode[map[string]any](t, w)
	if allowed, isList := got["allowed_statuses"].([]any); !isList || len(allowed) != 3 {
		t.Errorf("allowed_statuses = %v, want three", got["allowed_statuses"])
	}
}

func TestAPIVisits(t *testing.T) {
	srv, d := testServer(t)
	propID, clientID, agentID := seedParties(t, d)

	schedule := func(date, clock string) int64 {
		t.Helper()
		w := apiRequest(t, srv, "POST", "/api/ajax/visit/create", map[string]any{
			"property_id": propID, "client_id": clientID, "agent_id": agentID,
			"visit_date": date, "visit_time": clock,
		})
		expectStatus(t, w, http.StatusCreated)
		return int64(decode[envelope](t, w).Data["id"].(float64))
	}
	first := schedule("2026-04-03", "10:00")
	schedule("2026-04-20", "10:00")

	w := apiRequest(t, srv, "GET", "/api/visits/upcoming", nil)
	expectStatus(t, w, http.StatusOK)
	list := decode[[]map[string]any](t, w)
	if len(list) != 1 || int64(list[0]["id"].(float64)) != first {
		t.Errorf("upcoming = %v, want only visit %d", list, first)
	}

	w = apiRequest(t, srv, "GET", "/api/visits/upcoming?days=30", nil)
	expectStatus(t, w, http.StatusOK)
	if list := decode[[]map[string]any](t, w); len(list) != 2 {
		t.Errorf("got %d upcoming visits, want 2", len(list))
	}

	w = apiRequest(t, srv, "GET", fmt.Sprintf("/api/visits?agent_id=%d&status=scheduled", agentID), nil)
	expectStatus(t, w, http.StatusOK)
	if list := decode[[]map[string]any](t, w); len(list) != 2 {
		t.Errorf("got %d visits, want 2", len(list))
	}

	expectStatus(t, apiRequest(t, srv, "GET", "/api/visits?status=lost", nil), http.StatusBadRequest)
	expectStatus(t, apiRequest(t, srv, "GET", fmt.Sprintf("/api/visits/%d", first), nil), http.StatusOK)
	expectStatus(t, apiRequest(t, srv, "GET", "/api/visits/0", nil), http.StatusBadRequest)
}

func TestAPIResultCaps(t *testing.T) {
	srv, d := testServer(t)

	const rows = 95
	clientID := seed(t, d, "INSERT INTO clients (name) VALUES (?)", "Julia")
	agentID := seed(t, d, "INSERT INTO agents (name) VALUES (?)", "Marc")
	tx, err := d.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	for i := range rows {
		res, err := tx.Exec("INSERT INTO properties (address) VALUES (?)", fmt.Sprintf("%d Carrer Major", i+1))
		if err != nil {
			t.Fatalf("insert property: %v", err)
		}
		propID, err := res.LastInsertId()
		if err != nil {
			t.Fatalf("last insert id: %v", err)
		}
		stmts := []struct {
			query string
			args  []any
		}{
			{"INSERT INTO sales (property_id, client_id, value, sale_date) VALUES (?, ?, ?, ?)",
				[]any{propID, clientID, 1000.0 + float64(i), "2026-03-15"}},
			{"INSERT INTO rentals (property_id, client_id, start_date, end_date, monthly_rent) VALUES (?, ?, ?, ?, ?)",
				[]any{propID, clientID, "2025-04-20", "2026-04-20", 800.0}},
			{"INSERT INTO visits (property_id, client_id, agent_id, visit_date, visit_time) VALUES (?, ?, ?, ?, ?)",
				[]any{propID, clientID, agentID, "2026-04-03", "10:00"}},
		}
		for _, s := range stmts {
			if _, err := tx.Exec(s.query, s.args...); err != nil {
				t.Fatalf("%s: %v", s.query, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	tests := []struct {
		path string
		cap  int
	}{
		{"/api/sales", 50},
		{"/api/rentals", 50},
		{"/api/rentals/expiring", 90},
		{"/api/visits", 50},
		{"/api/visits/upcoming", 30},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := apiRequest(t, srv, "GET", tt.path, nil)
			expectStatus(t, w, http.StatusOK)
			if got := len(decode[[]map[string]any](t, w)); got != 10 {
				t.Errorf("default: got %d results, want 10", got)
			}

			w = apiRequest(t, srv, "GET", tt.path+"?limit=500", nil)
			expectStatus(t, w, http.StatusOK)
			if got := len(decode[[]map[string]any](t, w)); got != tt.cap {
				t.Errorf("limit=500: got %d results, want %d", got, tt.cap)
			}
		})
	}
}
