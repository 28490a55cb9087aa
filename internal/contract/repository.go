package contract

import (
	"context"
	"fmt"

	"github.com/propdesk/backoffice/internal/db"
)

// Repository provides data access for contracts.
type Repository struct {
	q db.Querier
}

// NewRepository creates a contract repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

const selectColumns = `id, property_id, client_id, contract_type, number, signed_date, notes, created_at`

// Add creates a new contract.
func (r *Repository) Add(ctx context.Context, c *Contract) (*Contract, error) {
	if !c.ContractType.IsValid() {
		return nil, fmt.Errorf("invalid contract type: %q", c.ContractType)
	}

	result, err := r.q.ExecContext(ctx,
		"INSERT INTO contracts (property_id, client_id, contract_type, number, signed_date, notes) VALUES (?, ?, ?, ?, ?, ?)",
		c.PropertyID, c.ClientID, string(c.ContractType), c.Number, c.SignedDate, c.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting contract: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	var out Contract
	err = r.q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM contracts WHERE id = ?", selectColumns), id,
	).Scan(&out.ID, &out.PropertyID, &out.ClientID, &out.ContractType, &out.Number, &out.SignedDate, &out.Notes, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("reading back contract: %w", err)
	}

	return &out, nil
}

// ListByPropertyID returns all contracts for a property, newest first.
func (r *Repository) ListByPropertyID(ctx context.Context, propertyID int64) ([]*Contract, error) {
	rows, err := r.q.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM contracts WHERE property_id = ? ORDER BY id DESC", selectColumns),
		propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var contracts []*Contract
	for rows.Next() {
		var c Contract
		if err := rows.Scan(&c.ID, &c.PropertyID, &c.ClientID, &c.ContractType, &c.Number, &c.SignedDate, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning contract: %w", err)
		}
		contracts = append(contracts, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contracts: %w", err)
	}

	return contracts, nil
}

// Count returns how many contracts of the given type reference the
// (property, client) pair.
func (r *Repository) Count(ctx context.Context, propertyID, clientID int64, t Type) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contracts WHERE property_id = ? AND client_id = ? AND contract_type = ?",
		propertyID, clientID, string(t),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting contracts: %w", err)
	}
	return n, nil
}
