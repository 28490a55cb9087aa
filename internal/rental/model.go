// Package rental provides the lease domain model, its status transition
// table and data access.
package rental

import (
	"database/sql"
	"time"
)

// Status is the lifecycle state of a rental.
type Status string

const (
	Active     Status = "active"
	Overdue    Status = "overdue"
	Delinquent Status = "delinquent"
	Terminated Status = "terminated"
)

// Statuses is the set of allowed rental statuses.
var Statuses = []Status{Active, Overdue, Delinquent, Terminated}

// transitions maps each status to the statuses it may move to.
var transitions = map[Status][]Status{
	Active:     {Terminated, Delinquent, Overdue},
	Overdue:    {Terminated, Active},
	Delinquent: {Active, Terminated},
	Terminated: {},
}

// IsValid checks if a rental status is recognized.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// Label returns a human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case Active:
		return "Active"
	case Overdue:
		return "Overdue"
	case Delinquent:
		return "Delinquent"
	case Terminated:
		return "Terminated"
	default:
		return string(s)
	}
}

// Allowed returns the statuses reachable from s. The result is never nil.
func (s Status) Allowed() []Status {
	out := make([]Status, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// CanTransition reports whether moving from s to next is permitted.
// Staying in the same status is never a transition.
func (s Status) CanTransition(next Status) bool {
	for _, v := range transitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// Deletable reports whether a rental in this status may be removed.
func (s Status) Deletable() bool {
	return s == Terminated || s == Overdue
}

// StatusStrings returns the status codes as plain strings.
func StatusStrings() []string {
	out := make([]string, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}

// Rental is a lease of a property to a client over a date range.
type Rental struct {
	ID          int64     `json:"id"`
	PropertyID  int64     `json:"property_id"`
	ClientID    int64     `json:"client_id"`
	AgentID     *int64    `json:"agent_id,omitempty"`
	StartDate   string    `json:"start_date"` // YYYY-MM-DD
	EndDate     string    `json:"end_date"`   // YYYY-MM-DD
	MonthlyRent float64   `json:"monthly_rent"`
	Deposit     *float64  `json:"deposit,omitempty"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func scanRental(row interface{ Scan(...any) error }) (*Rental, error) {
	var r Rental
	var agentID sql.NullInt64
	var deposit sql.NullFloat64

	err := row.Scan(&r.ID, &r.PropertyID, &r.ClientID, &agentID, &r.StartDate, &r.EndDate,
		&r.MonthlyRent, &deposit, &r.Status, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if agentID.Valid {
		r.AgentID = &agentID.Int64
	}
	if deposit.Valid {
		r.Deposit = &deposit.Float64
	}
	return &r, nil
}
