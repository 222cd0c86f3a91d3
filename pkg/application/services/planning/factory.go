package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
)

// createProposed turns a sized, dated chunk into a persisted requirement plus
// a matching proposed-receipt ledger event for forward accounting in the
// netting scan. The requirement kind follows the product's sourcing: internal
// manufacture when a routing is selected, pending-internal when not, purchase
// otherwise.
func (r *run) createProposed(
	ctx context.Context,
	trigger *entities.LedgerEvent,
	facility entities.FacilityID,
	qty decimal.Decimal,
	cfg *entities.ReplenishConfig,
	level int,
	explosion *entities.Explosion,
) (*entities.Requirement, error) {
	kind := entities.KindPurchase
	if explosion != nil && explosion.Manufactured {
		if explosion.RoutingID == "" {
			kind = entities.KindPendingInternal
		} else {
			kind = entities.KindInternal
		}
	}

	requiredBy := trigger.At
	start := requiredBy.Add(-time.Duration(cfg.LeadTimeDays) * 24 * time.Hour)
	if start.Before(r.now) {
		start = r.now
	}
	if start.After(requiredBy) {
		start = requiredBy
	}

	req, err := entities.NewRequirement(trigger.Product, "", facility, kind, qty, start, requiredBy)
	if err != nil {
		return nil, fmt.Errorf("cannot propose %s for %s at %s: %w", kind, trigger.Product, facility, err)
	}
	id, err := r.planner.deps.Writer.CreateRequirement(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s requirement for %s: %w", kind, trigger.Product, err)
	}
	req.ID = id
	r.result.Requirements = append(r.result.Requirements, *req)

	receiptAt := requiredBy.Add(-r.opts.ReceiptBuffer)
	r.addEvent(entities.LedgerEvent{
		Product:  trigger.Product,
		Facility: facility,
		At:       receiptAt,
		Type:     entities.EventProposedReceipt,
		Quantity: qty,
		Label:    fmt.Sprintf("REQ %s %s", id, kind),
		Level:    level,
	})

	r.log.Debug("proposed requirement",
		"product", trigger.Product,
		"facility", facility,
		"kind", kind.String(),
		"quantity", qty,
		"required_by", requiredBy)
	return req, nil
}
