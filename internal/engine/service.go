// Package engine owns the lifecycle of sales, rentals and visits and keeps
// each property's availability state consistent with them.
//
// Every operation returns a Result. Validation failures, missing records
// and business-rule refusals are ordinary results; storage failures are
// logged and reported with an opaque message.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/propdesk/backoffice/internal/agent"
	"github.com/propdesk/backoffice/internal/client"
	"github.com/propdesk/backoffice/internal/db"
	"github.com/propdesk/backoffice/internal/logging"
	"github.com/propdesk/backoffice/internal/property"
)

// Service runs engine operations against a database.
type Service struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for "today" checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an engine service.
func NewService(database *sql.DB, opts ...Option) *Service {
	s := &Service{db: database, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// today returns the current calendar day at midnight UTC.
func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) failed(ctx context.Context, action Action, err error) Result {
	slog.ErrorContext(ctx, "engine operation failed",
		"action", string(action),
		"request_id", logging.RequestID(ctx),
		"error", err,
	)
	return dbFailure()
}

// parties identifies the records a sale, rental or visit refers to.
type parties struct {
	propertyID int64
	clientID   int64
	agentID    *int64
}

// missingParty returns a not-found message for the first referenced record
// that does not exist, or "" when all exist.
func (s *Service) missingParty(ctx context.Context, p parties) (string, error) {
	if _, err := property.NewRepository(s.db).GetByID(ctx, p.propertyID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "Property not found", nil
		}
		return "", err
	}

	found, err := client.NewRepository(s.db).Exists(ctx, p.clientID)
	if err != nil {
		return "", err
	}
	if !found {
		return "Client not found", nil
	}

	if p.agentID != nil {
		found, err := agent.NewRepository(s.db).Exists(ctx, *p.agentID)
		if err != nil {
			return "", err
		}
		if !found {
			return "Agent not found", nil
		}
	}
	return "", nil
}

// lookupFailure converts a point lookup error into a result.
func (s *Service) lookupFailure(ctx context.Context, action Action, err error, entity string, id int64) Result {
	if errors.Is(err, db.ErrNotFound) {
		return notFound(fmt.Sprintf("%s %d not found", entity, id))
	}
	return s.failed(ctx, action, err)
}
