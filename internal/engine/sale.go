package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propdesk/backoffice/internal/contract"
	"github.com/propdesk/backoffice/internal/db"
	"github.com/propdesk/backoffice/internal/property"
	"github.com/propdesk/backoffice/internal/sale"
	"github.com/propdesk/backoffice/internal/validation"
)

// CreateSaleInput is the payload for sale.create.
type CreateSaleInput struct {
	PropertyID int64    `json:"property_id"`
	ClientID   int64    `json:"client_id"`
	AgentID    *int64   `json:"agent_id,omitempty"`
	Value      *float64 `json:"value"`
	Commission *float64 `json:"commission,omitempty"`
	SaleDate   string   `json:"sale_date"`
	Notes      string   `json:"notes,omitempty"`
}

// IDInput is the payload for delete actions.
type IDInput struct {
	ID int64 `json:"id"`
}

var (
	errPropertySold   = errors.New("property already sold")
	errSaleContracted = errors.New("sale contracts exist")
)

func alreadySold() Result {
	return conflict("This property has already been sold.", StateConflict{
		Reason:  "property is already sold",
		Current: string(property.Sold),
	})
}

// CreateSale records a sale and marks its property sold in one transaction.
func (s *Service) CreateSale(ctx context.Context, in CreateSaleInput) Result {
	const action = ActionSaleCreate

	var errs validation.Errors
	validation.RequiredID(&errs, "property_id", in.PropertyID)
	validation.RequiredID(&errs, "client_id", in.ClientID)
	validation.OptionalID(&errs, "agent_id", in.AgentID)
	validation.Positive(&errs, "value", in.Value)
	validation.NonNegative(&errs, "commission", in.Commission)
	validation.Date(&errs, "sale_date", in.SaleDate)
	if !errs.Empty() {
		return invalid(errs)
	}

	prop, err := property.NewRepository(s.db).GetByID(ctx, in.PropertyID)
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Property", in.PropertyID)
	}
	if prop.AvailabilityState == property.Sold {
		return alreadySold()
	}

	missing, err := s.missingParty(ctx, parties{in.PropertyID, in.ClientID, in.AgentID})
	if err != nil {
		return s.failed(ctx, action, err)
	}
	if missing != "" {
		return notFound(missing)
	}

	var out *sale.Sale
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// The conditional flip runs before the insert so a concurrent sale
		// of the same property is refused here, not by the unique index.
		flipped, err := property.NewRepository(tx).MarkSold(ctx, in.PropertyID)
		if err != nil {
			return err
		}
		if !flipped {
			return errPropertySold
		}

		out, err = sale.NewRepository(tx).Insert(ctx, &sale.Sale{
			PropertyID: in.PropertyID,
			ClientID:   in.ClientID,
			AgentID:    in.AgentID,
			Value:      *in.Value,
			Commission: in.Commission,
			SaleDate:   in.SaleDate,
			Notes:      in.Notes,
		})
		return err
	})
	if errors.Is(err, errPropertySold) {
		return alreadySold()
	}
	if err != nil {
		return s.failed(ctx, action, err)
	}

	return created("Sale registered successfully.", out)
}

// DeleteSale removes a sale and makes its property available again, unless
// a sale contract still binds the same property and client.
func (s *Service) DeleteSale(ctx context.Context, in IDInput) Result {
	const action = ActionSaleDelete

	var errs validation.Errors
	validation.RequiredID(&errs, "id", in.ID)
	if !errs.Empty() {
		return invalid(errs)
	}

	sl, err := sale.NewRepository(s.db).GetByID(ctx, in.ID)
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Sale", in.ID)
	}

	var blocking int
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		n, err := contract.NewRepository(tx).Count(ctx, sl.PropertyID, sl.ClientID, contract.TypeSale)
		if err != nil {
			return err
		}
		if n > 0 {
			blocking = n
			return errSaleContracted
		}
		if err := sale.NewRepository(tx).Delete(ctx, sl.ID); err != nil {
			return err
		}
		return property.NewRepository(tx).UpdateState(ctx, sl.PropertyID, property.Available)
	})
	if errors.Is(err, errSaleContracted) {
		return conflict(
			fmt.Sprintf("This sale cannot be deleted because %d associated contract(s) exist.", blocking),
			DependencyConflict{Reason: "sale contracts reference this property and client", Dependency: "contracts", Count: blocking},
		)
	}
	if err != nil {
		return s.lookupFailure(ctx, action, err, "Sale", in.ID)
	}

	return ok("Sale deleted successfully.", sl)
}
