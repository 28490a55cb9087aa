// Package sale provides the sale domain model and data access.
package sale

import (
	"database/sql"
	"time"
)

// Sale is a completed purchase of a property by a client.
type Sale struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	ClientID   int64     `json:"client_id"`
	AgentID    *int64    `json:"agent_id,omitempty"`
	Value      float64   `json:"value"`
	Commission *float64  `json:"commission,omitempty"`
	SaleDate   string    `json:"sale_date"` // YYYY-MM-DD
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

func scanSale(row interface{ Scan(...any) error }) (*Sale, error) {
	var s Sale
	var agentID sql.NullInt64
	var commission sql.NullFloat64

	err := row.Scan(&s.ID, &s.PropertyID, &s.ClientID, &agentID, &s.Value, &commission, &s.SaleDate, &s.Notes, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if agentID.Valid {
		s.AgentID = &agentID.Int64
	}
	if commission.Valid {
		s.Commission = &commission.Float64
	}
	return &s, nil
}
