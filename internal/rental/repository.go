package rental

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/propdesk/backoffice/internal/db"
)

// Repository provides data access for rentals.
type Repository struct {
	q db.Querier
}

// NewRepository creates a rental repository over a database or transaction.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

const selectColumns = `r.id, r.property_id, r.client_id, r.agent_id, r.start_date, r.end_date,
	r.monthly_rent, r.deposit, r.status, r.notes, r.created_at, r.updated_at`

// Insert stores a rental and returns it with its generated ID.
// An empty status defaults to active.
func (r *Repository) Insert(ctx context.Context, rt *Rental) (*Rental, error) {
	status := rt.Status
	if status == "" {
		status = Active
	}

	result, err := r.q.ExecContext(ctx,
		`INSERT INTO rentals (property_id, client_id, agent_id, start_date, end_date, monthly_rent, deposit, status, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.PropertyID, rt.ClientID, rt.AgentID, rt.StartDate, rt.EndDate, rt.MonthlyRent, rt.Deposit, status, rt.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting rental: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID returns a rental by ID. A missing row yields db.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Rental, error) {
	query := fmt.Sprintf("SELECT %s FROM rentals r WHERE r.id = ?", selectColumns)
	rt, err := scanRental(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rental %d: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying rental %d: %w", id, err)
	}
	return rt, nil
}

// Update rewrites the editable fields of a rental. Status is changed only
// through UpdateStatusIf.
func (r *Repository) Update(ctx context.Context, rt *Rental) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE rentals SET property_id = ?, client_id = ?, agent_id = ?, start_date = ?, end_date = ?,
		 monthly_rent = ?, deposit = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		rt.PropertyID, rt.ClientID, rt.AgentID, rt.StartDate, rt.EndDate, rt.MonthlyRent, rt.Deposit, rt.Notes, rt.ID,
	)
	if err != nil {
		return fmt.Errorf("updating rental: %w", err)
	}
	return requireRow(result, rt.ID)
}

// UpdateStatusIf moves a rental from one status to another only if it is
// still in from. It reports whether the row changed.
func (r *Repository) UpdateStatusIf(ctx context.Context, id int64, from, to Status) (bool, error) {
	result, err := r.q.ExecContext(ctx,
		"UPDATE rentals SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?",
		to, id, from,
	)
	if err != nil {
		return false, fmt.Errorf("updating rental status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}
	return rows > 0, nil
}

// Delete removes a rental by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM rentals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting rental: %w", err)
	}
	return requireRow(result, id)
}

// HasOverlap reports whether a non-terminated rental of the property
// overlaps [start, end). excludeID skips one rental, for edits.
func (r *Repository) HasOverlap(ctx context.Context, propertyID int64, start, end string, excludeID int64) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rentals
		 WHERE property_id = ? AND id <> ? AND status <> ?
		   AND start_date < ? AND ? < end_date`,
		propertyID, excludeID, Terminated, end, start,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking rental overlap: %w", err)
	}
	return n > 0, nil
}

// SearchOptions controls filtering for Search. Zero values mean no filter.
type SearchOptions struct {
	Term       string // matches property address or client name
	Status     Status
	PropertyID int64
	DateFrom   string // rentals ending on or after
	DateTo     string // rentals starting on or before
	MinRent    float64
	MaxRent    float64
	Limit      int
}

// Search returns rentals matching opts, latest start first.
func (r *Repository) Search(ctx context.Context, opts SearchOptions) ([]*Rental, error) {
	var args []any
	var conditions []string

	if opts.Term != "" {
		like := "%" + opts.Term + "%"
		conditions = append(conditions, "(p.address LIKE ? OR c.name LIKE ?)")
		args = append(args, like, like)
	}
	if opts.Status != "" {
		conditions = append(conditions, "r.status = ?")
		args = append(args, opts.Status)
	}
	if opts.PropertyID > 0 {
		conditions = append(conditions, "r.property_id = ?")
		args = append(args, opts.PropertyID)
	}
	if opts.DateFrom != "" {
		conditions = append(conditions, "r.end_date >= ?")
		args = append(args, opts.DateFrom)
	}
	if opts.DateTo != "" {
		conditions = append(conditions, "r.start_date <= ?")
		args = append(args, opts.DateTo)
	}
	if opts.MinRent > 0 {
		conditions = append(conditions, "r.monthly_rent >= ?")
		args = append(args, opts.MinRent)
	}
	if opts.MaxRent > 0 {
		conditions = append(conditions, "r.monthly_rent <= ?")
		args = append(args, opts.MaxRent)
	}

	return r.query(ctx, conditions, args, "r.start_date DESC, r.id DESC", db.ClampLimit(opts.Limit, 10, 50))
}

// Expiring returns non-terminated rentals whose end date falls between
// today and today+days, soonest first.
func (r *Repository) Expiring(ctx context.Context, today time.Time, days, limit int) ([]*Rental, error) {
	if days <= 0 {
		days = 30
	}
	from := today.Format(time.DateOnly)
	to := today.AddDate(0, 0, days).Format(time.DateOnly)

	conditions := []string{"r.end_date >= ?", "r.end_date <= ?", "r.status <> ?"}
	args := []any{from, to, Terminated}

	return r.query(ctx, conditions, args, "r.end_date ASC, r.id ASC", db.ClampLimit(limit, 10, 90))
}

func (r *Repository) query(ctx context.Context, conditions []string, args []any, order string, limit int) ([]*Rental, error) {
	query := fmt.Sprintf(`SELECT %s FROM rentals r
		JOIN properties p ON p.id = r.property_id
		JOIN clients c ON c.id = r.client_id`, selectColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + order + " LIMIT ?"
	args = append(args, limit)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing rentals: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var rentals []*Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rental: %w", err)
		}
		rentals = append(rentals, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rentals: %w", err)
	}

	return rentals, nil
}

func requireRow(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("rental %d: %w", id, db.ErrNotFound)
	}
	return nil
}
