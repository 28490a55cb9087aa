package property

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/propdesk/backoffice/internal/db"
)

// Repository provides CRUD operations for properties.
type Repository struct {
	q db.Querier
}

// NewRepository creates a property repository over a database or transaction.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

const selectColumns = `id, address, property_type, price, availability_state, created_at, updated_at`

// Insert adds a new property and returns it with its generated ID.
// New properties always start out available.
func (r *Repository) Insert(ctx context.Context, p *Property) (*Property, error) {
	result, err := r.q.ExecContext(ctx,
		"INSERT INTO properties (address, property_type, price, availability_state) VALUES (?, ?, ?, ?)",
		p.Address, p.PropertyType, p.Price, string(Available),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting property: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID returns a property by its ID. A missing row yields db.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = ?", selectColumns)
	p, err := scanProperty(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("property %d: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %d: %w", id, err)
	}

	return p, nil
}

// ListOptions controls filtering for List.
type ListOptions struct {
	Term  string
	State AvailabilityState // empty = all
	Limit int
}

// List returns properties, newest first, optionally filtered.
func (r *Repository) List(ctx context.Context, opts ListOptions) ([]*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties", selectColumns)
	var args []any
	var conditions []string

	if opts.Term != "" {
		conditions = append(conditions, "(address LIKE ? OR property_type LIKE ?)")
		like := "%" + opts.Term + "%"
		args = append(args, like, like)
	}

	if opts.State != "" {
		conditions = append(conditions, "availability_state = ?")
		args = append(args, string(opts.State))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, db.ClampLimit(opts.Limit, 10, 50))

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var properties []*Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}

	return properties, nil
}

// MarkSold flips a property to sold unless it already is. It reports false
// when no row changed, which means the property was sold concurrently.
func (r *Repository) MarkSold(ctx context.Context, id int64) (bool, error) {
	result, err := r.q.ExecContext(ctx,
		"UPDATE properties SET availability_state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND availability_state <> ?",
		string(Sold), id, string(Sold),
	)
	if err != nil {
		return false, fmt.Errorf("marking property sold: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}

	return rows > 0, nil
}

// UpdateState sets the availability state for a property.
func (r *Repository) UpdateState(ctx context.Context, id int64, state AvailabilityState) error {
	if !state.IsValid() {
		return fmt.Errorf("invalid availability state: %s", state)
	}

	result, err := r.q.ExecContext(ctx,
		"UPDATE properties SET availability_state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(state), id,
	)
	if err != nil {
		return fmt.Errorf("updating availability state: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("property %d: %w", id, db.ErrNotFound)
	}

	return nil
}
