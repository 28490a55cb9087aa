// Package contract provides contract records, which block the removal of
// sales that have legal paperwork attached.
package contract

import "time"

// Type is the kind of transaction a contract documents.
type Type string

const (
	TypeSale   Type = "sale"
	TypeRental Type = "rental"
)

// IsValid checks if a contract type is recognized.
func (t Type) IsValid() bool {
	return t == TypeSale || t == TypeRental
}

// Contract is a signed document tying a client to a property.
type Contract struct {
	ID           int64     `json:"id"`
	PropertyID   int64     `json:"property_id"`
	ClientID     int64     `json:"client_id"`
	ContractType Type      `json:"contract_type"`
	Number       string    `json:"number"`
	SignedDate   string    `json:"signed_date"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}
