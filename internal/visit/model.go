// Package visit provides the property visit domain model and data access.
package visit

import (
	"database/sql"
	"time"
)

// Status represents where a visit appointment stands.
type Status string

const (
	Scheduled   Status = "scheduled"
	Rescheduled Status = "rescheduled"
	Completed   Status = "completed"
	Cancelled   Status = "cancelled"
)

// Statuses is the set of allowed visit statuses.
var Statuses = []Status{Scheduled, Rescheduled, Completed, Cancelled}

// Business hours for visits. Both bounds are inclusive on the hour.
const (
	OpeningHour = 8
	ClosingHour = 18
)

// IsValid checks if a visit status is recognized.
func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case Scheduled:
		return "Scheduled"
	case Rescheduled:
		return "Rescheduled"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Pending reports whether the visit still occupies its agent's time slot.
func (s Status) Pending() bool {
	return s == Scheduled || s == Rescheduled
}

// StatusStrings returns the status codes as plain strings.
func StatusStrings() []string {
	out := make([]string, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}

// Visit represents an appointment for a client to view a property with an agent.
type Visit struct {
	ID             int64     `json:"id"`
	PropertyID     int64     `json:"property_id"`
	ClientID       int64     `json:"client_id"`
	AgentID        int64     `json:"agent_id"`
	VisitDate      string    `json:"visit_date"` // YYYY-MM-DD
	VisitTime      string    `json:"visit_time"` // HH:MM
	Status         Status    `json:"status"`
	InterestRating *int      `json:"interest_rating,omitempty"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func scanVisit(row interface{ Scan(...any) error }) (*Visit, error) {
	var v Visit
	var rating sql.NullInt64

	err := row.Scan(&v.ID, &v.PropertyID, &v.ClientID, &v.AgentID, &v.VisitDate, &v.VisitTime,
		&v.Status, &rating, &v.Notes, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if rating.Valid {
		r := int(rating.Int64)
		v.InterestRating = &r
	}
	return &v, nil
}
