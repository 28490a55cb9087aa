package visit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/propdesk/backoffice/internal/db"
)

// Repository provides data access for property visits.
type Repository struct {
	q db.Querier
}

// NewRepository creates a visit repository over a database or transaction.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

const selectColumns = `v.id, v.property_id, v.client_id, v.agent_id, v.visit_date, v.visit_time,
	v.status, v.interest_rating, v.notes, v.created_at, v.updated_at`

// Insert stores a visit and returns it with its generated ID.
// An empty status defaults to scheduled.
func (r *Repository) Insert(ctx context.Context, v *Visit) (*Visit, error) {
	status := v.Status
	if status == "" {
		status = Scheduled
	}

	result, err := r.q.ExecContext(ctx,
		`INSERT INTO visits (property_id, client_id, agent_id, visit_date, visit_time, status, interest_rating, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.PropertyID, v.ClientID, v.AgentID, v.VisitDate, v.VisitTime, status, v.InterestRating, v.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting visit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID returns a visit by ID. A missing row yields db.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Visit, error) {
	query := fmt.Sprintf("SELECT %s FROM visits v WHERE v.id = ?", selectColumns)
	v, err := scanVisit(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("visit %d: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying visit %d: %w", id, err)
	}
	return v, nil
}

// Update rewrites the editable fields of a visit. Status is left alone.
func (r *Repository) Update(ctx context.Context, v *Visit) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE visits SET property_id = ?, client_id = ?, agent_id = ?, visit_date = ?, visit_time = ?,
		 interest_rating = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		v.PropertyID, v.ClientID, v.AgentID, v.VisitDate, v.VisitTime, v.InterestRating, v.Notes, v.ID,
	)
	if err != nil {
		return fmt.Errorf("updating visit: %w", err)
	}
	return requireRow(result, v.ID)
}

// UpdateStatus sets a visit's status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	result, err := r.q.ExecContext(ctx,
		"UPDATE visits SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", status, id,
	)
	if err != nil {
		return fmt.Errorf("updating visit status: %w", err)
	}
	return requireRow(result, id)
}

// Delete removes a visit by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM visits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting visit: %w", err)
	}
	return requireRow(result, id)
}

// AgentSlotTaken reports whether the agent already has a pending visit at
// the given date and time. excludeID skips one visit, for edits.
func (r *Repository) AgentSlotTaken(ctx context.Context, agentID int64, date, clock string, excludeID int64) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM visits
		 WHERE agent_id = ? AND visit_date = ? AND visit_time = ? AND id <> ?
		   AND status IN (?, ?)`,
		agentID, date, clock, excludeID, Scheduled, Rescheduled,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking agent schedule: %w", err)
	}
	return n > 0, nil
}

// SearchOptions controls filtering for Search. Zero values mean no filter.
type SearchOptions struct {
	Term       string // matches property address or client name
	Status     Status
	AgentID    int64
	PropertyID int64
	DateFrom   string
	DateTo     string
	Limit      int
}

// Search returns visits matching opts, latest appointment first.
func (r *Repository) Search(ctx context.Context, opts SearchOptions) ([]*Visit, error) {
	var args []any
	var conditions []string

	if opts.Term != "" {
		like := "%" + opts.Term + "%"
		conditions = append(conditions, "(p.address LIKE ? OR c.name LIKE ?)")
		args = append(args, like, like)
	}
	if opts.Status != "" {
		conditions = append(conditions, "v.status = ?")
		args = append(args, opts.Status)
	}
	if opts.AgentID > 0 {
		conditions = append(conditions, "v.agent_id = ?")
		args = append(args, opts.AgentID)
	}
	if opts.PropertyID > 0 {
		conditions = append(conditions, "v.property_id = ?")
		args = append(args, opts.PropertyID)
	}
	if opts.DateFrom != "" {
		conditions = append(conditions, "v.visit_date >= ?")
		args = append(args, opts.DateFrom)
	}
	if opts.DateTo != "" {
		conditions = append(conditions, "v.visit_date <= ?")
		args = append(args, opts.DateTo)
	}

	return r.query(ctx, conditions, args, "v.visit_date DESC, v.visit_time DESC, v.id DESC", db.ClampLimit(opts.Limit, 10, 50))
}

// Upcoming returns pending visits dated from today through today+days,
// soonest first.
func (r *Repository) Upcoming(ctx context.Context, today time.Time, days, limit int) ([]*Visit, error) {
	if days <= 0 {
		days = 7
	}
	from := today.Format(time.DateOnly)
	to := today.AddDate(0, 0, days).Format(time.DateOnly)

	conditions := []string{"v.visit_date >= ?", "v.visit_date <= ?", "v.status IN (?, ?)"}
	args := []any{from, to, Scheduled, Rescheduled}

	return r.query(ctx, conditions, args, "v.visit_date ASC, v.visit_time ASC, v.id ASC", db.ClampLimit(limit, 10, 30))
}

func (r *Repository) query(ctx context.Context, conditions []string, args []any, order string, limit int) ([]*Visit, error) {
	query := fmt.Sprintf(`SELECT %s FROM visits v
		JOIN properties p ON p.id = v.property_id
		JOIN clients c ON c.id = v.client_id`, selectColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + order + " LIMIT ?"
	args = append(args, limit)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var visits []*Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating visits: %w", err)
	}

	return visits, nil
}

func requireRow(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("visit %d: %w", id, db.ErrNotFound)
	}
	return nil
}
