package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/propdesk/backoffice/internal/metrics"
	"github.com/propdesk/backoffice/internal/validation"
)

// Action names an engine operation as "<module>.<action>".
type Action string

const (
	ActionSaleCreate         Action = "sale.create"
	ActionSaleDelete         Action = "sale.delete"
	ActionRentalCreate       Action = "rental.create"
	ActionRentalUpdate       Action = "rental.update"
	ActionRentalUpdateStatus Action = "rental.update_status"
	ActionRentalDelete       Action = "rental.delete"
	ActionVisitCreate        Action = "visit.create"
	ActionVisitUpdate        Action = "visit.update"
	ActionVisitUpdateStatus  Action = "visit.update_status"
	ActionVisitDelete        Action = "visit.delete"
)

// ActionFor joins a module and action name as they appear in a URL.
func ActionFor(module, action string) Action {
	return Action(module + "." + action)
}

// Handler decodes a raw JSON payload and runs one operation.
type Handler func(ctx context.Context, s *Service, payload json.RawMessage) Result

// bind adapts a typed operation to a Handler. A payload that does not
// decode into T is a validation failure.
func bind[T any](op func(*Service, context.Context, T) Result) Handler {
	return func(ctx context.Context, s *Service, payload json.RawMessage) Result {
		var in T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &in); err != nil {
				var errs validation.Errors
				errs.Add("body", "request body is not valid: %v", err)
				return invalid(errs)
			}
		}
		return op(s, ctx, in)
	}
}

var handlers = map[Action]Handler{
	ActionSaleCreate:         bind((*Service).CreateSale),
	ActionSaleDelete:         bind((*Service).DeleteSale),
	ActionRentalCreate:       bind((*Service).CreateRental),
	ActionRentalUpdate:       bind((*Service).UpdateRental),
	ActionRentalUpdateStatus: bind((*Service).UpdateRentalStatus),
	ActionRentalDelete:       bind((*Service).DeleteRental),
	ActionVisitCreate:        bind((*Service).CreateVisit),
	ActionVisitUpdate:        bind((*Service).UpdateVisit),
	ActionVisitUpdateStatus:  bind((*Service).UpdateVisitStatus),
	ActionVisitDelete:        bind((*Service).DeleteVisit),
}

// Actions lists every dispatchable action in sorted order.
func Actions() []Action {
	out := make([]Action, 0, len(handlers))
	for a := range handlers {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// Dispatch runs the named action with a JSON payload and records its
// outcome. Unknown actions are reported as not found.
func (s *Service) Dispatch(ctx context.Context, action Action, payload json.RawMessage) Result {
	h, found := handlers[action]
	if !found {
		metrics.RecordOperation("unknown", KindNotFound.String())
		return notFound(fmt.Sprintf("Unknown action %q", action))
	}

	res := h(ctx, s, payload)
	metrics.RecordOperation(string(action), res.Kind.String())
	return res
}
