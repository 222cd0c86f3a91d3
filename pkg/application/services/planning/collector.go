package planning

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/domain/repositories"
)

// collectFacility scans every external demand and supply source once and
// materializes level-0 ledger events for the facility. Supply events are
// shifted earlier by the configured receipt buffer so stock is available
// before it is needed.
func (r *run) collectFacility(ctx context.Context, facility entities.FacilityID) error {
	scope := repositories.SourceScope{
		Facility: facility,
		Product:  r.opts.Product,
		Supplier: r.opts.Supplier,
	}
	sources := r.planner.deps.Sources

	if err := r.collectSalesReservations(ctx, scope); err != nil {
		return err
	}

	purchases, err := sources.OpenPurchaseLines(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to read open purchase lines: %w", err)
	}
	for _, line := range purchases {
		open := line.OpenQuantity()
		if !open.IsPositive() {
			continue
		}
		r.addEvent(entities.LedgerEvent{
			Product:  line.Product,
			Facility: line.Facility,
			At:       line.EstimatedReceipt.Add(-r.opts.ReceiptBuffer),
			Type:     entities.EventPurchaseOrder,
			Quantity: open,
			Label:    fmt.Sprintf("PO %s/%s", line.OrderID, line.OrderLineID),
		})
	}

	needs, err := sources.ProductionNeeds(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to read production needs: %w", err)
	}
	for _, need := range needs {
		open := need.OpenQuantity()
		if !open.IsPositive() {
			continue
		}
		r.addEvent(entities.LedgerEvent{
			Product:  need.Product,
			Facility: need.Facility,
			At:       need.TaskStart,
			Type:     entities.EventProductionNeed,
			Quantity: open.Neg(),
			Label:    fmt.Sprintf("RUN %s need", need.RunID),
		})
	}

	outputs, err := sources.ProductionOutputs(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to read production outputs: %w", err)
	}
	for _, output := range outputs {
		open := output.OpenQuantity()
		if !open.IsPositive() {
			continue
		}
		r.addEvent(entities.LedgerEvent{
			Product:  output.Product,
			Facility: output.Facility,
			At:       output.EstimatedCompletion.Add(-r.opts.ReceiptBuffer),
			Type:     entities.EventProductionOutput,
			Quantity: open,
			Label:    fmt.Sprintf("RUN %s output", output.RunID),
		})
	}

	if err := r.collectApprovedRequirements(ctx, scope); err != nil {
		return err
	}
	if err := r.collectScheduledTransfers(ctx, scope); err != nil {
		return err
	}
	if err := r.collectForecast(ctx, scope); err != nil {
		return err
	}
	return nil
}

// collectSalesReservations turns approved sales-order reservations into
// negative level-0 events and records their contributing lines as event
// details, in the order reservations were read.
func (r *run) collectSalesReservations(ctx context.Context, scope repositories.SourceScope) error {
	reservations, err := r.planner.deps.Sources.OpenSalesReservations(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to read sales reservations: %w", err)
	}

	for _, res := range reservations {
		if !res.OpenQuantity.IsPositive() {
			continue
		}
		due, ok := res.DueDate()
		if !ok {
			due = r.now.Add(r.opts.DefaultHorizon)
			r.warnf("sales order %s/%s has no demand date, planning at horizon %s",
				res.OrderID, res.OrderLineID, due.Format("2006-01-02"))
		}
		ev := r.addEvent(entities.LedgerEvent{
			Product:  res.Product,
			Facility: res.Facility,
			At:       due,
			Type:     entities.EventSalesOrder,
			Quantity: res.OpenQuantity.Neg(),
			Label:    fmt.Sprintf("SO %s/%s", res.OrderID, res.OrderLineID),
		})
		r.ledger.AddDetail(ev, entities.EventDetail{
			OrderID:     res.OrderID,
			OrderLineID: res.OrderLineID,
			Quantity:    res.OpenQuantity,
		})
	}
	return nil
}

// collectApprovedRequirements reflects already-approved requirements of
// transfer and manufacturing kinds into the ledger, signed and dated per kind.
func (r *run) collectApprovedRequirements(ctx context.Context, scope repositories.SourceScope) error {
	approved, err := r.planner.deps.Sources.ApprovedRequirements(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to read approved requirements: %w", err)
	}

	for _, req := range approved {
		if req.Status != entities.StatusApproved {
			continue
		}
		switch req.Kind {
		case entities.KindTransfer:
			if req.FacilityTo == scope.Facility {
				r.addEvent(entities.LedgerEvent{
					Product:  req.Product,
					Facility: req.FacilityTo,
					At:       req.RequiredBy.Add(-r.opts.ReceiptBuffer),
					Type:     entities.EventApprovedRequirement,
					Quantity: req.Quantity,
					Label:    fmt.Sprintf("REQ %s in", req.ID),
				})
			}
			if req.FacilityFrom == scope.Facility {
				r.addEvent(entities.LedgerEvent{
					Product:  req.Product,
					Facility: req.FacilityFrom,
					At:       req.StartDate,
					Type:     entities.EventApprovedRequirement,
					Quantity: req.Quantity.Neg(),
					Label:    fmt.Sprintf("REQ %s out", req.ID),
				})
			}
		case entities.KindInternal, entities.KindPendingInternal:
			if req.FacilityTo == scope.Facility {
				r.addEvent(entities.LedgerEvent{
					Product:  req.Product,
					Facility: req.FacilityTo,
					At:       req.RequiredBy.Add(-r.opts.ReceiptBuffer),
					Type:     entities.EventApprovedRequirement,
					Quantity: req.Quantity,
					Label:    fmt.Sprintf("REQ %s", req.ID),
				})
			}
		}
	}
	return nil
}

// collectScheduledTransfers reflects scheduled inter-facility movements and
// seeds the transfer lanes used for batching new transfers.
func (r *run) collectScheduledTransfers(ctx context.Context, scope repositories.SourceScope) error {
	transfers, err := r.planner.deps.Sources.ScheduledTransfers(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to read scheduled transfers: %w", err)
	}

	for _, t := range transfers {
		if !t.Quantity.IsPositive() {
			continue
		}
		if t.FacilityTo == scope.Facility {
			ev := r.addEvent(entities.LedgerEvent{
				Product:  t.Product,
				Facility: t.FacilityTo,
				At:       t.ReceiptDate.Add(-r.opts.ReceiptBuffer),
				Type:     entities.EventTransferIn,
				Quantity: t.Quantity,
				Label:    fmt.Sprintf("XFER %s in", t.TransferID),
			})
			r.recordLane(t.Product, t.FacilityFrom, t.FacilityTo, ev.At)
		}
		if t.FacilityFrom == scope.Facility {
			r.addEvent(entities.LedgerEvent{
				Product:  t.Product,
				Facility: t.FacilityFrom,
				At:       t.ShipDate,
				Type:     entities.EventTransferOut,
				Quantity: t.Quantity.Neg(),
				Label:    fmt.Sprintf("XFER %s out", t.TransferID),
			})
		}
	}
	return nil
}

// collectForecast includes the configured percentage of forward sales
// forecast as demand. A zero percentage disables forecast-driven demand.
func (r *run) collectForecast(ctx context.Context, scope repositories.SourceScope) error {
	if !r.opts.ForecastPercent.IsPositive() {
		return nil
	}
	forecasts, err := r.planner.deps.Sources.ForecastEntries(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to read forecasts: %w", err)
	}

	hundred := decimal.NewFromInt(100)
	for _, f := range forecasts {
		qty := f.Quantity.Mul(r.opts.ForecastPercent).Div(hundred)
		if !qty.IsPositive() {
			continue
		}
		// Only forward forecast counts; past buckets are already reflected
		// in open orders.
		if f.Date.Before(r.now) {
			continue
		}
		r.addEvent(entities.LedgerEvent{
			Product:  f.Product,
			Facility: f.Facility,
			At:       f.Date,
			Type:     entities.EventForecast,
			Quantity: qty.Neg(),
			Label:    fmt.Sprintf("FCST %s", f.Date.Format("2006-01-02")),
		})
	}
	return nil
}
