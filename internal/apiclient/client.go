// Package apiclient provides an HTTP client for the propdesk JSON API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/propdesk/backoffice/internal/agent"
	"github.com/propdesk/backoffice/internal/client"
	"github.com/propdesk/backoffice/internal/contract"
	"github.com/propdesk/backoffice/internal/engine"
	"github.com/propdesk/backoffice/internal/property"
	"github.com/propdesk/backoffice/internal/rental"
	"github.com/propdesk/backoffice/internal/sale"
	"github.com/propdesk/backoffice/internal/visit"
)

// Client is an HTTP client for the propdesk API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Envelope is the result of an engine action as sent by the server.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

// ActionError is returned when an action completes with success=false.
type ActionError struct {
	StatusCode int
	Envelope   Envelope
}

func (e *ActionError) Error() string {
	if e.StatusCode == http.StatusBadRequest && len(e.Envelope.Errors) > 0 {
		return e.Envelope.Message + "\n  - " + strings.Join(e.Envelope.Errors, "\n  - ")
	}
	return e.Envelope.Message
}

// Action runs an engine action. A refused action returns its envelope
// together with an *ActionError.
func (c *Client) Action(ctx context.Context, action engine.Action, payload any) (*Envelope, error) {
	module, name, ok := strings.Cut(string(action), ".")
	if !ok {
		return nil, fmt.Errorf("malformed action %q", action)
	}

	var env Envelope
	err := c.post(ctx, fmt.Sprintf("/api/ajax/%s/%s", module, name), payload, &env)
	var se *statusError
	if errors.As(err, &se) {
		if jerr := json.Unmarshal(se.body, &env); jerr != nil || env.Message == "" {
			return nil, err
		}
		return &env, &ActionError{StatusCode: se.code, Envelope: env}
	}
	if err != nil {
		return nil, err
	}
	return &env, nil
}

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

// Statuses returns the code to label catalogs.
func (c *Client) Statuses(ctx context.Context) (map[string]map[string]string, error) {
	var out map[string]map[string]string
	if err := c.get(ctx, "/api/statuses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PropertyDetail is the response from GET /api/properties/{id}.
type PropertyDetail struct {
	property.Property
	Contracts []*contract.Contract `json:"contracts"`
}

// ListProperties returns properties filtered by opts.
func (c *Client) ListProperties(ctx context.Context, opts property.ListOptions) ([]*property.Property, error) {
	q := url.Values{}
	setStr(q, "q", opts.Term)
	setStr(q, "state", string(opts.State))
	setInt(q, "limit", int64(opts.Limit))

	var props []*property.Property
	if err := c.get(ctx, withQuery("/api/properties", q), &props); err != nil {
		return nil, err
	}
	return props, nil
}

// GetProperty returns a property with its contracts.
func (c *Client) GetProperty(ctx context.Context, id int64) (*PropertyDetail, error) {
	var resp PropertyDetail
	if err := c.get(ctx, fmt.Sprintf("/api/properties/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddProperty registers a property.
func (c *Client) AddProperty(ctx context.Context, address, propertyType string, price *int64) (*property.Property, error) {
	body := map[string]any{"address": address, "property_type": propertyType, "price": price}
	var p property.Property
	if err := c.post(ctx, "/api/properties", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListClients returns clients whose name matches term.
func (c *Client) ListClients(ctx context.Context, term string, limit int) ([]*client.Client, error) {
	q := url.Values{}
	setStr(q, "q", term)
	setInt(q, "limit", int64(limit))

	var clients []*client.Client
	if err := c.get(ctx, withQuery("/api/clients", q), &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// AddClient registers a client.
func (c *Client) AddClient(ctx context.Context, in client.Client) (*client.Client, error) {
	var out client.Client
	if err := c.post(ctx, "/api/clients", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetClient returns one client.
func (c *Client) GetClient(ctx context.Context, id int64) (*client.Client, error) {
	var out client.Client
	if err := c.get(ctx, fmt.Sprintf("/api/clients/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAgents returns every agent.
func (c *Client) ListAgents(ctx context.Context) ([]*agent.Agent, error) {
	var agents []*agent.Agent
	if err := c.get(ctx, "/api/agents", &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// AddAgent registers an agent.
func (c *Client) AddAgent(ctx context.Context, in agent.Agent) (*agent.Agent, error) {
	var out agent.Agent
	if err := c.post(ctx, "/api/agents", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAgent returns one agent.
func (c *Client) GetAgent(ctx context.Context, id int64) (*agent.Agent, error) {
	var out agent.Agent
	if err := c.get(ctx, fmt.Sprintf("/api/agents/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListContracts returns the contracts of a property.
func (c *Client) ListContracts(ctx context.Context, propertyID int64) ([]*contract.Contract, error) {
	var contracts []*contract.Contract
	if err := c.get(ctx, fmt.Sprintf("/api/contracts?property_id=%d", propertyID), &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

// AddContract records a contract.
func (c *Client) AddContract(ctx context.Context, in contract.Contract) (*contract.Contract, error) {
	var out contract.Contract
	if err := c.post(ctx, "/api/contracts", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchSales returns sales matching opts.
func (c *Client) SearchSales(ctx context.Context, opts sale.SearchOptions) ([]*sale.Sale, error) {
	q := url.Values{}
	setStr(q, "q", opts.Term)
	setInt(q, "agent_id", opts.AgentID)
	setStr(q, "date_from", opts.DateFrom)
	setStr(q, "date_to", opts.DateTo)
	setFloat(q, "min_value", opts.MinValue)
	setFloat(q, "max_value", opts.MaxValue)
	setInt(q, "limit", int64(opts.Limit))

	var sales []*sale.Sale
	if err := c.get(ctx, withQuery("/api/sales", q), &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// GetSale returns one sale.
func (c *Client) GetSale(ctx context.Context, id int64) (*sale.Sale, error) {
	var s sale.Sale
	if err := c.get(ctx, fmt.Sprintf("/api/sales/%d", id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// RentalDetail is a rental with the statuses it may move to next.
type RentalDetail struct {
	rental.Rental
	AllowedStatuses []rental.Status `json:"allowed_statuses"`
}

// SearchRentals returns rentals matching opts.
func (c *Client) SearchRentals(ctx context.Context, opts rental.SearchOptions) ([]*rental.Rental, error) {
	q := url.Values{}
	setStr(q, "q", opts.Term)
	setStr(q, "status", string(opts.Status))
	setInt(q, "property_id", opts.PropertyID)
	setStr(q, "date_from", opts.DateFrom)
	setStr(q, "date_to", opts.DateTo)
	setFloat(q, "min_rent", opts.MinRent)
	setFloat(q, "max_rent", opts.MaxRent)
	setInt(q, "limit", int64(opts.Limit))

	var rentals []*rental.Rental
	if err := c.get(ctx, withQuery("/api/rentals", q), &rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

// ExpiringRentals returns leases ending within days.
func (c *Client) ExpiringRentals(ctx context.Context, days, limit int) ([]*rental.Rental, error) {
	q := url.Values{}
	setInt(q, "days", int64(days))
	setInt(q, "limit", int64(limit))

	var rentals []*rental.Rental
	if err := c.get(ctx, withQuery("/api/rentals/expiring", q), &rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

// GetRental returns one rental.
func (c *Client) GetRental(ctx context.Context, id int64) (*RentalDetail, error) {
	var r RentalDetail
	if err := c.get(ctx, fmt.Sprintf("/api/rentals/%d", id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// SearchVisits returns visits matching opts.
func (c *Client) SearchVisits(ctx context.Context, opts visit.SearchOptions) ([]*visit.Visit, error) {
	q := url.Values{}
	setStr(q, "q", opts.Term)
	setStr(q, "status", string(opts.Status))
	setInt(q, "agent_id", opts.AgentID)
	setInt(q, "property_id", opts.PropertyID)
	setStr(q, "date_from", opts.DateFrom)
	setStr(q, "date_to", opts.DateTo)
	setInt(q, "limit", int64(opts.Limit))

	var visits []*visit.Visit
	if err := c.get(ctx, withQuery("/api/visits", q), &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// UpcomingVisits returns pending visits within days.
func (c *Client) UpcomingVisits(ctx context.Context, days, limit int) ([]*visit.Visit, error) {
	q := url.Values{}
	setInt(q, "days", int64(days))
	setInt(q, "limit", int64(limit))

	var visits []*visit.Visit
	if err := c.get(ctx, withQuery("/api/visits/upcoming", q), &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// GetVisit returns one visit.
func (c *Client) GetVisit(ctx context.Context, id int64) (*visit.Visit, error) {
	var v visit.Visit
	if err := c.get(ctx, fmt.Sprintf("/api/visits/%d", id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func setStr(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}

func setInt(q url.Values, key string, v int64) {
	if v != 0 {
		q.Set(key, strconv.FormatInt(v, 10))
	}
}

func setFloat(q url.Values, key string, v float64) {
	if v != 0 {
		q.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
	}
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// statusError carries a non-2xx response.
type statusError struct {
	code int
	msg  string
	body []byte
}

func (e *statusError) Error() string { return e.msg }

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do executes an HTTP request and handles errors.
func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		se := &statusError{code: resp.StatusCode, body: respBody, msg: "server error: " + http.StatusText(resp.StatusCode)}
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			se.msg = errResp.Error
		}
		return se
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
