// Package property provides the property domain model and data access.
package property

import (
	"database/sql"
	"time"
)

// AvailabilityState represents whether a property can still be sold or let.
type AvailabilityState string

const (
	Available AvailabilityState = "available"
	Sold      AvailabilityState = "sold"
	Rented    AvailabilityState = "rented"
)

// States is the set of known availability states.
var States = []AvailabilityState{Available, Sold, Rented}

// IsValid checks if a state is recognized.
func (s AvailabilityState) IsValid() bool {
	for _, v := range States {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable label for the state.
func (s AvailabilityState) Label() string {
	switch s {
	case Available:
		return "Available"
	case Sold:
		return "Sold"
	case Rented:
		return "Rented"
	default:
		return string(s)
	}
}

// Property represents a real-estate unit managed by the office.
type Property struct {
	ID                int64             `json:"id"`
	Address           string            `json:"address"`
	PropertyType      string            `json:"property_type"`
	Price             *int64            `json:"price,omitempty"`
	AvailabilityState AvailabilityState `json:"availability_state"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// scanProperty scans a property from a database row.
func scanProperty(row interface{ Scan(...any) error }) (*Property, error) {
	var p Property
	var price sql.NullInt64
	var state string

	err := row.Scan(&p.ID, &p.Address, &p.PropertyType, &price, &state, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if price.Valid {
		p.Price = &price.Int64
	}
	p.AvailabilityState = AvailabilityState(state)

	return &p, nil
}
