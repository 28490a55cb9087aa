package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/propdesk/backoffice/internal/db"
	"github.com/propdesk/backoffice/internal/validation"
	"github.com/propdesk/backoffice/internal/visit"
)

// VisitInput is the payload for visit.create and visit.update. ID is only
// read on update; Status only on create.
type VisitInput struct {
	ID             int64  `json:"id,omitempty"`
	PropertyID     int64  `json:"property_id"`
	ClientID       int64  `json:"client_id"`
	AgentID        int64  `json:"agent_id"`
	VisitDate      string `json:"visit_date"`
	VisitTime      string `json:"visit_time"`
	Status         string `json:"status,omitempty"`
	InterestRating *int   `json:"interest_rating,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

const doubleBookedMessage = "The agent already has a visit scheduled at this date and time."

// validateVisit checks a visit payload. The past-date rule only applies
// when today is non-zero.
func validateVisit(e *validation.Errors, in VisitInput, today time.Time) {
	validation.RequiredID(e, "property_id", in.PropertyID)
	validation.RequiredID(e, "client_id", in.ClientID)
	validation.RequiredID(e, "agent_id", in.AgentID)
	if d, ok := validation.Date(e, "visit_date", in.VisitDate); ok && !today.IsZero() {
		validation.NotBefore(e, "visit_date", d, today)
	}
	validation.TimeWithinHours(e, "visit_time", in.VisitTime, visit.OpeningHour, visit.ClosingHour)
	validation.IntRange(e, "interest_rating", in.InterestRating, 1, 5)
}

// visit builds the stored record, normalising the time to HH:MM so slot
// checks compare like with like.
func (in VisitInput) visit() *visit.Visit {
	clock := in.VisitTime
	if t, err := validation.ParseClock(in.VisitTime); err == nil {
		clock = t.Format("15:04")
	}
	return &visit.Visit{
		ID:             in.ID,
		PropertyID:     in.PropertyID,
		ClientID:       in.ClientID,
		AgentID:        in.AgentID,
		VisitDate:      in.VisitDate,
		VisitTime:      clock,
		Status:         visit.Status(in.Status),
		InterestRating: in.InterestRating,
		Notes:          in.Notes,
	}
}

// CreateVisit schedules a visit after checking references and the agent's
// calendar. Visits cannot be created in the past.
func (s *Service) CreateVisit(ctx context.Context, in VisitInput) Result {
	const action = ActionVisitCreate

	var errs validation.Errors
	validateVisit(&errs, in, s.today())
	if in.Status != "" {
		validation.OneOf(&errs, "status", in.Status, visit.StatusStrings())
	}
	if !errs.Empty() {
		return invalid(errs)
	}

	agentID := in.AgentID
	missing, err := s.missingParty(ctx, parties{in.PropertyID, in.ClientID, &agentID})
	if err != nil {
		return s.failed(ctx, action, err)
	}
	if missing != "" {
		return notFound(missing)
	}

	v := in.visit()
	if v.Status == "" {
		v.Status = visit.Scheduled
	}

	var out *visit.Visit
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := visit.NewRepository(tx)
		if v.Status.Pending() {
			taken, err := repo.AgentSlotTaken(ctx, v.AgentID, v.VisitDate, v.VisitTime, 0)
			if err != nil {
				return err
			}
			if taken {
				errs.Add("visit_time", doubleBookedMessage)
				return errs
			}
		}

		inserted, err := repo.Insert(ctx, v)
		out = inserted
		return err
	})
	if !errs.Empty() {
		return invalid(errs)
	}
	if err != nil {
		return s.failed(ctx, action, err)
	}

	return created("Visit scheduled successfully.", out)
}

// UpdateVisit edits or reschedules a visit. The past-date rule is not
// re-checked.
func (s *Service) UpdateVisit(ctx context.Context, in VisitInput) Result {
	const action = ActionVisitUpdate

	var errs validation.Errors
	validation.RequiredID(&errs, "id", in.ID)
	validateVisit(&errs, in, time.Time{})
	if !errs.Empty() {
		return invalid(errs)
	}

	current, err := visit.NewRepository(s.db).GetByID(ctx, in.ID)
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Visit", in.ID)
	}

	agentID := in.AgentID
	missing, err := s.missingParty(ctx, parties{in.PropertyID, in.ClientID, &agentID})
	if err != nil {
		return s.failed(ctx, action, err)
	}
	if missing != "" {
		return notFound(missing)
	}

	v := in.visit()
	var out *visit.Visit
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := visit.NewRepository(tx)
		if current.Status.Pending() {
			taken, err := repo.AgentSlotTaken(ctx, v.AgentID, v.VisitDate, v.VisitTime, v.ID)
			if err != nil {
				return err
			}
			if taken {
				errs.Add("visit_time", doubleBookedMessage)
				return errs
			}
		}

		if err := repo.Update(ctx, v); err != nil {
			return err
		}
		updated, err := repo.GetByID(ctx, v.ID)
		out = updated
		return err
	})
	if !errs.Empty() {
		return invalid(errs)
	}
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Visit", in.ID)
	}

	return ok("Visit updated successfully.", out)
}

// UpdateVisitStatus sets any known visit status; there is no transition
// table for visits. Returning a visit to a pending status still has to
// respect the agent's calendar.
func (s *Service) UpdateVisitStatus(ctx context.Context, in StatusInput) Result {
	const action = ActionVisitUpdateStatus

	var errs validation.Errors
	validation.RequiredID(&errs, "id", in.ID)
	validation.OneOf(&errs, "status", in.Status, visit.StatusStrings())
	if !errs.Empty() {
		return invalid(errs)
	}
	next := visit.Status(in.Status)

	current, err := visit.NewRepository(s.db).GetByID(ctx, in.ID)
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Visit", in.ID)
	}

	var out *visit.Visit
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := visit.NewRepository(tx)
		if next.Pending() && !current.Status.Pending() {
			taken, err := repo.AgentSlotTaken(ctx, current.AgentID, current.VisitDate, current.VisitTime, current.ID)
			if err != nil {
				return err
			}
			if taken {
				errs.Add("status", doubleBookedMessage)
				return errs
			}
		}

		if err := repo.UpdateStatus(ctx, current.ID, next); err != nil {
			return err
		}
		updated, err := repo.GetByID(ctx, current.ID)
		out = updated
		return err
	})
	if !errs.Empty() {
		return invalid(errs)
	}
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Visit", in.ID)
	}

	return ok(fmt.Sprintf("Visit status changed to %s.", next.Label()), out)
}

// DeleteVisit removes a visit.
func (s *Service) DeleteVisit(ctx context.Context, in IDInput) Result {
	const action = ActionVisitDelete

	var errs validation.Errors
	validation.RequiredID(&errs, "id", in.ID)
	if !errs.Empty() {
		return invalid(errs)
	}

	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return visit.NewRepository(tx).Delete(ctx, in.ID)
	})
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Visit", in.ID)
	}

	return ok("Visit deleted successfully.", IDInput{ID: in.ID})
}
