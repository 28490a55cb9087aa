package sale

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/propdesk/backoffice/internal/db"
)

// Repository provides data access for sales.
type Repository struct {
	q db.Querier
}

// NewRepository creates a sale repository over a database or transaction.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

const selectColumns = `s.id, s.property_id, s.client_id, s.agent_id, s.value, s.commission, s.sale_date, s.notes, s.created_at`

// Insert stores a sale and returns it with its generated ID.
func (r *Repository) Insert(ctx context.Context, s *Sale) (*Sale, error) {
	result, err := r.q.ExecContext(ctx,
		"INSERT INTO sales (property_id, client_id, agent_id, value, commission, sale_date, notes) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.PropertyID, s.ClientID, s.AgentID, s.Value, s.Commission, s.SaleDate, s.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting sale: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID returns a sale by ID. A missing row yields db.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Sale, error) {
	query := fmt.Sprintf("SELECT %s FROM sales s WHERE s.id = ?", selectColumns)
	s, err := scanSale(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sale %d: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying sale %d: %w", id, err)
	}
	return s, nil
}

// CountByProperty returns how many sales reference a property.
func (r *Repository) CountByProperty(ctx context.Context, propertyID int64) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM sales WHERE property_id = ?", propertyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting sales: %w", err)
	}
	return n, nil
}

// Delete removes a sale by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM sales WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting sale: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sale %d: %w", id, db.ErrNotFound)
	}

	return nil
}

// SearchOptions controls filtering for Search. Zero values mean no filter.
type SearchOptions struct {
	Term     string // matches property address or client name
	AgentID  int64
	DateFrom string
	DateTo   string
	MinValue float64
	MaxValue float64
	Limit    int
}

// Search returns sales matching opts, newest sale date first.
func (r *Repository) Search(ctx context.Context, opts SearchOptions) ([]*Sale, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales s
		JOIN properties p ON p.id = s.property_id
		JOIN clients c ON c.id = s.client_id`, selectColumns)
	var args []any
	var conditions []string

	if opts.Term != "" {
		like := "%" + opts.Term + "%"
		conditions = append(conditions, "(p.address LIKE ? OR c.name LIKE ?)")
		args = append(args, like, like)
	}
	if opts.AgentID > 0 {
		conditions = append(conditions, "s.agent_id = ?")
		args = append(args, opts.AgentID)
	}
	if opts.DateFrom != "" {
		conditions = append(conditions, "s.sale_date >= ?")
		args = append(args, opts.DateFrom)
	}
	if opts.DateTo != "" {
		conditions = append(conditions, "s.sale_date <= ?")
		args = append(args, opts.DateTo)
	}
	if opts.MinValue > 0 {
		conditions = append(conditions, "s.value >= ?")
		args = append(args, opts.MinValue)
	}
	if opts.MaxValue > 0 {
		conditions = append(conditions, "s.value <= ?")
		args = append(args, opts.MaxValue)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY s.sale_date DESC, s.id DESC LIMIT ?"
	args = append(args, db.ClampLimit(opts.Limit, 10, 50))

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching sales: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var sales []*Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sales: %w", err)
	}

	return sales, nil
}
