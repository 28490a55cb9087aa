// Package client provides the client (buyer/tenant) domain model and data access.
package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/propdesk/backoffice/internal/db"
)

// Client is a person who buys, rents or visits properties.
type Client struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	DocumentID string    `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository provides data access for clients.
type Repository struct {
	q db.Querier
}

// NewRepository creates a client repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

const selectColumns = `id, name, email, phone, document_id, created_at`

// Insert adds a client and returns it with its generated ID.
func (r *Repository) Insert(ctx context.Context, c *Client) (*Client, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("client name is required")
	}

	result, err := r.q.ExecContext(ctx,
		"INSERT INTO clients (name, email, phone, document_id) VALUES (?, ?, ?, ?)",
		c.Name, c.Email, c.Phone, c.DocumentID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID returns a client by ID. A missing row yields db.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Client, error) {
	var c Client
	err := r.q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM clients WHERE id = ?", selectColumns), id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.DocumentID, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %d: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying client %d: %w", id, err)
	}
	return &c, nil
}

// Exists reports whether a client with the given ID exists.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM clients WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("checking client %d: %w", id, err)
	}
	return n > 0, nil
}

// List returns clients whose name or email matches term, newest first.
func (r *Repository) List(ctx context.Context, term string, limit int) ([]*Client, error) {
	like := "%" + term + "%"
	rows, err := r.q.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM clients WHERE name LIKE ? OR email LIKE ? ORDER BY id DESC LIMIT ?", selectColumns),
		like, like, db.ClampLimit(limit, 10, 50),
	)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var clients []*Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.DocumentID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		clients = append(clients, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}

	return clients, nil
}
