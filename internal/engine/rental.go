package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propdesk/backoffice/internal/db"
	"github.com/propdesk/backoffice/internal/rental"
	"github.com/propdesk/backoffice/internal/validation"
)

// RentalInput is the payload for rental.create and rental.update. ID is
// only read on update; Status only on create.
type RentalInput struct {
	ID          int64    `json:"id,omitempty"`
	PropertyID  int64    `json:"property_id"`
	ClientID    int64    `json:"client_id"`
	AgentID     *int64   `json:"agent_id,omitempty"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	MonthlyRent *float64 `json:"monthly_rent"`
	Deposit     *float64 `json:"deposit,omitempty"`
	Status      string   `json:"status,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// StatusInput is the payload for update_status actions.
type StatusInput struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

const overlapMessage = "The property already has a rental overlapping these dates."

var errStatusChanged = errors.New("status changed concurrently")

func validateRental(e *validation.Errors, in RentalInput) {
	validation.RequiredID(e, "property_id", in.PropertyID)
	validation.RequiredID(e, "client_id", in.ClientID)
	validation.OptionalID(e, "agent_id", in.AgentID)
	start, startOK := validation.Date(e, "start_date", in.StartDate)
	end, endOK := validation.Date(e, "end_date", in.EndDate)
	if startOK && endOK {
		validation.After(e, "end_date", end, "start_date", start)
	}
	validation.Positive(e, "monthly_rent", in.MonthlyRent)
	validation.NonNegative(e, "deposit", in.Deposit)
}

func (in RentalInput) rental() *rental.Rental {
	return &rental.Rental{
		ID:          in.ID,
		PropertyID:  in.PropertyID,
		ClientID:    in.ClientID,
		AgentID:     in.AgentID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		MonthlyRent: *in.MonthlyRent,
		Deposit:     in.Deposit,
		Status:      rental.Status(in.Status),
		Notes:       in.Notes,
	}
}

// CreateRental records a new lease after checking references and overlap.
// The property's availability state is not changed.
func (s *Service) CreateRental(ctx context.Context, in RentalInput) Result {
	const action = ActionRentalCreate

	var errs validation.Errors
	validateRental(&errs, in)
	if in.Status != "" {
		validation.OneOf(&errs, "status", in.Status, rental.StatusStrings())
	}
	if !errs.Empty() {
		return invalid(errs)
	}

	missing, err := s.missingParty(ctx, parties{in.PropertyID, in.ClientID, in.AgentID})
	if err != nil {
		return s.failed(ctx, action, err)
	}
	if missing != "" {
		return notFound(missing)
	}

	var out *rental.Rental
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := rental.NewRepository(tx)
		if rental.Status(in.Status) != rental.Terminated {
			overlap, err := repo.HasOverlap(ctx, in.PropertyID, in.StartDate, in.EndDate, 0)
			if err != nil {
				return err
			}
			if overlap {
				errs.Add("start_date", overlapMessage)
				return errs
			}
		}

		inserted, err := repo.Insert(ctx, in.rental())
		out = inserted
		return err
	})
	if !errs.Empty() {
		return invalid(errs)
	}
	if err != nil {
		return s.failed(ctx, action, err)
	}

	return created("Rental registered successfully.", out)
}

// UpdateRental edits a lease's terms. Status changes go through
// UpdateRentalStatus.
func (s *Service) UpdateRental(ctx context.Context, in RentalInput) Result {
	const action = ActionRentalUpdate

	var errs validation.Errors
	validation.RequiredID(&errs, "id", in.ID)
	validateRental(&errs, in)
	if !errs.Empty() {
		return invalid(errs)
	}

	current, err := rental.NewRepository(s.db).GetByID(ctx, in.ID)
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Rental", in.ID)
	}

	missing, err := s.missingParty(ctx, parties{in.PropertyID, in.ClientID, in.AgentID})
	if err != nil {
		return s.failed(ctx, action, err)
	}
	if missing != "" {
		return notFound(missing)
	}

	var out *rental.Rental
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := rental.NewRepository(tx)
		if current.Status != rental.Terminated {
			overlap, err := repo.HasOverlap(ctx, in.PropertyID, in.StartDate, in.EndDate, in.ID)
			if err != nil {
				return err
			}
			if overlap {
				errs.Add("start_date", overlapMessage)
				return errs
			}
		}

		if err := repo.Update(ctx, in.rental()); err != nil {
			return err
		}
		updated, err := repo.GetByID(ctx, in.ID)
		out = updated
		return err
	})
	if !errs.Empty() {
		return invalid(errs)
	}
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Rental", in.ID)
	}

	return ok("Rental updated successfully.", out)
}

func transitionRefused(from, to rental.Status) Result {
	allowed := from.Allowed()
	data := TransitionConflict{
		Current:   string(from),
		Requested: string(to),
		Allowed:   make([]string, len(allowed)),
	}
	for i, a := range allowed {
		data.Allowed[i] = string(a)
	}
	return conflict(fmt.Sprintf("Cannot change rental status from %s to %s.", from.Label(), to.Label()), data)
}

// UpdateRentalStatus applies one step of the rental transition table.
// Staying in the current status is refused like any other disallowed move.
func (s *Service) UpdateRentalStatus(ctx context.Context, in StatusInput) Result {
	const action = ActionRentalUpdateStatus

	var errs validation.Errors
	validation.RequiredID(&errs, "id", in.ID)
	validation.OneOf(&errs, "status", in.Status, rental.StatusStrings())
	if !errs.Empty() {
		return invalid(errs)
	}
	next := rental.Status(in.Status)

	rt, err := rental.NewRepository(s.db).GetByID(ctx, in.ID)
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Rental", in.ID)
	}
	if !rt.Status.CanTransition(next) {
		return transitionRefused(rt.Status, next)
	}

	var fresh *rental.Rental
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := rental.NewRepository(tx)
		changed, err := repo.UpdateStatusIf(ctx, rt.ID, rt.Status, next)
		if err != nil {
			return err
		}
		if fresh, err = repo.GetByID(ctx, rt.ID); err != nil {
			return err
		}
		if !changed {
			return errStatusChanged
		}
		return nil
	})
	if errors.Is(err, errStatusChanged) {
		return conflict("The rental status was changed by another request. Reload and try again.", StateConflict{
			Reason:  "status changed since it was read",
			Current: string(fresh.Status),
		})
	}
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Rental", in.ID)
	}

	return ok(fmt.Sprintf("Rental status changed to %s.", next.Label()), fresh)
}

// DeleteRental removes a lease that is terminated or overdue.
func (s *Service) DeleteRental(ctx context.Context, in IDInput) Result {
	const action = ActionRentalDelete

	var errs validation.Errors
	validation.RequiredID(&errs, "id", in.ID)
	if !errs.Empty() {
		return invalid(errs)
	}

	rt, err := rental.NewRepository(s.db).GetByID(ctx, in.ID)
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Rental", in.ID)
	}
	if !rt.Status.Deletable() {
		return conflict(
			fmt.Sprintf("Only terminated or overdue rentals can be deleted. This rental is %s.", rt.Status.Label()),
			StateConflict{Reason: "rental must be terminated or overdue to be deleted", Current: string(rt.Status)},
		)
	}

	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return rental.NewRepository(tx).Delete(ctx, rt.ID)
	})
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Rental", in.ID)
	}

	return ok("Rental deleted successfully.", rt)
}
