// Package agent provides the sales agent domain model and data access.
package agent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/propdesk/backoffice/internal/db"
)

// Agent is an employee who handles sales, rentals and visits.
type Agent struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository provides data access for agents.
type Repository struct {
	q db.Querier
}

// NewRepository creates an agent repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

// Insert adds an agent and returns it with its generated ID.
func (r *Repository) Insert(ctx context.Context, a *Agent) (*Agent, error) {
	if a.Name == "" {
		return nil, fmt.Errorf("agent name is required")
	}

	result, err := r.q.ExecContext(ctx,
		"INSERT INTO agents (name, email, phone) VALUES (?, ?, ?)",
		a.Name, a.Email, a.Phone,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting agent: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID returns an agent by ID. A missing row yields db.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Agent, error) {
	var a Agent
	err := r.q.QueryRowContext(ctx,
		"SELECT id, name, email, phone, created_at FROM agents WHERE id = ?", id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("agent %d: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying agent %d: %w", id, err)
	}
	return &a, nil
}

// Exists reports whether an agent with the given ID exists.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM agents WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("checking agent %d: %w", id, err)
	}
	return n > 0, nil
}

// List returns all agents ordered by name.
func (r *Repository) List(ctx context.Context) ([]*Agent, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT id, name, email, phone, created_at FROM agents ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var agents []*Agent
	for rows.Next() {
		var a Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning agent: %w", err)
		}
		agents = append(agents, &a)
	}

	return agents, rows.Err()
}
