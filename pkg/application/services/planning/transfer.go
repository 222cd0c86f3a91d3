package planning

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
)

// resolveBackupTransfer attempts to source a shortfall from the facility's
// configured backup facilities before any new supply is proposed. It returns
// the total quantity transferred, bounded by the shortfall.
func (r *run) resolveBackupTransfer(
	ctx context.Context,
	product entities.ProductID,
	facility entities.FacilityID,
	shortfall decimal.Decimal,
	requiredAt time.Time,
	cfg *entities.ReplenishConfig,
	level int,
) (decimal.Decimal, error) {
	if cfg.Method == entities.ReplenishNever {
		return decimal.Zero, nil
	}

	candidates, err := r.transferCandidates(ctx, facility, cfg)
	if err != nil {
		return decimal.Zero, err
	}

	transferred := decimal.Zero
	remaining := shortfall
	for _, src := range candidates {
		if !remaining.IsPositive() {
			break
		}
		if src == "" || src == facility {
			continue
		}

		at := r.transferTime(product, src, facility, requiredAt)
		qty := remaining
		if !cfg.Method.Forced() {
			atp := r.availableToPromise(ctx, product, src, at)
			if !atp.IsPositive() {
				continue
			}
			qty = decimal.Min(qty, atp)
		}

		if err := r.createTransfer(ctx, product, src, facility, qty, at, requiredAt, level); err != nil {
			return decimal.Zero, err
		}
		transferred = transferred.Add(qty)
		remaining = remaining.Sub(qty)
	}
	return transferred, nil
}

// transferCandidates returns the ordered source facilities: the single
// explicitly configured facility, or the backup list in configured sequence.
func (r *run) transferCandidates(ctx context.Context, facility entities.FacilityID, cfg *entities.ReplenishConfig) ([]entities.FacilityID, error) {
	if !cfg.Method.UsesBackupList() {
		if cfg.SourceFacility == "" {
			r.warnf("replenishment method %s for %s at %s has no source facility", cfg.Method, cfg.Product, facility)
			return nil, nil
		}
		return []entities.FacilityID{cfg.SourceFacility}, nil
	}
	backups, err := r.planner.deps.Replenishment.BackupFacilities(ctx, facility)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve backup facilities for %s: %w", facility, err)
	}
	return backups, nil
}

// transferTime computes when a transfer should arrive: one instant before the
// required date, unless a movement on the same lane is already scheduled
// after the required date, in which case its timestamp is reused so transfers
// batch instead of multiplying.
func (r *run) transferTime(product entities.ProductID, from, to entities.FacilityID, requiredAt time.Time) time.Time {
	times := r.transferLanes[lane{product, from, to}]
	var reuse time.Time
	for _, t := range times {
		if !t.After(requiredAt) {
			continue
		}
		if reuse.IsZero() || t.Before(reuse) {
			reuse = t
		}
	}
	if !reuse.IsZero() {
		return reuse
	}
	return requiredAt.Add(-time.Nanosecond)
}

// availableToPromise projects the source facility's balance at the transfer
// instant: the actual balance plus every ledger delta up to that instant,
// including movements created while planning earlier facilities.
func (r *run) availableToPromise(ctx context.Context, product entities.ProductID, facility entities.FacilityID, at time.Time) decimal.Decimal {
	base, _, err := r.balance(ctx, product, facility)
	if err != nil {
		// A source that cannot be projected is skipped, not fatal: the
		// shortfall falls through to proposed supply.
		r.warnf("balance lookup failed for backup %s at %s: %v", product, facility, err)
		return decimal.Zero
	}
	return base.Add(r.ledger.DeltaUntil(product, facility, at))
}

// createTransfer creates the deferred transfer requirement or the immediate
// transfer action, plus the paired ledger events at both facilities so
// subsequent planning on either side reflects the movement.
func (r *run) createTransfer(
	ctx context.Context,
	product entities.ProductID,
	from, to entities.FacilityID,
	qty decimal.Decimal,
	at, requiredAt time.Time,
	level int,
) error {
	// Batching onto an existing lane movement can place the arrival after the
	// date the shortfall needed it; the requirement's window follows the
	// actual movement.
	reqBy := requiredAt
	if at.After(reqBy) {
		reqBy = at
	}

	var label string
	if r.opts.DeferredOrders {
		req, err := entities.NewRequirement(product, from, to, entities.KindTransfer, qty, at, reqBy)
		if err != nil {
			return fmt.Errorf("invalid transfer requirement for %s: %w", product, err)
		}
		id, err := r.planner.deps.Writer.CreateRequirement(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create transfer requirement for %s: %w", product, err)
		}
		req.ID = id
		r.result.Requirements = append(r.result.Requirements, *req)
		label = fmt.Sprintf("REQ %s transfer", id)
	} else {
		ids, err := r.planner.deps.Writer.CreateTransfer(ctx, entities.TransferSpec{
			Product:      product,
			FacilityFrom: from,
			FacilityTo:   to,
			Quantity:     qty,
			ShipDate:     at,
		})
		if err != nil {
			return fmt.Errorf("failed to create transfer for %s: %w", product, err)
		}
		label = fmt.Sprintf("XFER %s", joinIDs(ids))
	}

	r.addEvent(entities.LedgerEvent{
		Product:  product,
		Facility: to,
		At:       at,
		Type:     entities.EventTransferIn,
		Quantity: qty,
		Label:    label + fmt.Sprintf(" from %s", from),
		Level:    level,
	})
	r.addEvent(entities.LedgerEvent{
		Product:  product,
		Facility: from,
		At:       at,
		Type:     entities.EventTransferOut,
		Quantity: qty.Neg(),
		Label:    label + fmt.Sprintf(" to %s", to),
		Level:    level,
	})
	r.recordLane(product, from, to, at)

	// The outbound side may drive the source below its own minimum; keep its
	// running projection current if it was already scanned.
	if bal, ok := r.running[balanceKey{product, from}]; ok {
		r.running[balanceKey{product, from}] = bal.Sub(qty)
	}
	return nil
}

func joinIDs(ids []string) string {
	sort.Strings(ids)
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id
	}
	return out
}
