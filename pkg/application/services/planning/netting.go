package planning

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
)

// netFacility walks the facility's ledger level by level, netting each
// level's events in time order. The scan terminates after three consecutive
// BOM levels yield no events.
func (r *run) netFacility(ctx context.Context, facility entities.FacilityID) error {
	emptyLevels := 0
	for level := 0; emptyLevels < consecutiveEmptyLevelLimit; level++ {
		events := r.ledger.LevelEvents(level, facility)
		r.result.LevelsScanned++
		if len(events) == 0 {
			emptyLevels++
			continue
		}
		emptyLevels = 0

		r.log.Debug("netting level", "facility", facility, "level", level, "events", len(events))
		for _, ev := range events {
			if err := r.netEvent(ctx, facility, level, ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// netEvent applies one ledger event to the product's running balance and,
// when the balance drops below minimum stock, sources the shortfall: backup
// transfer first, then rounded and lot-sized proposed supply.
func (r *run) netEvent(ctx context.Context, facility entities.FacilityID, level int, ev *entities.LedgerEvent) error {
	key := balanceKey{ev.Product, facility}
	bal, seen := r.running[key]
	if !seen {
		actual, _, err := r.balance(ctx, ev.Product, facility)
		if err != nil {
			return err
		}
		initial := r.addEvent(entities.LedgerEvent{
			Product:  ev.Product,
			Facility: facility,
			At:       r.now,
			Type:     entities.EventInitialBalance,
			Quantity: actual,
			Label:    "initial balance",
			Level:    level,
		})
		initial.Balance = decimal.NewNullDecimal(actual)
		bal = actual
	}

	balBefore := bal
	bal = bal.Add(ev.Quantity)
	ev.Balance = decimal.NewNullDecimal(bal)

	cfg := r.replenishConfig(ctx, ev.Product, facility, level)
	if bal.LessThan(cfg.MinStock) {
		replenished, err := r.coverShortfall(ctx, facility, level, ev, cfg, balBefore, bal)
		if err != nil {
			return err
		}
		bal = bal.Add(replenished)
		ev.Balance = decimal.NewNullDecimal(bal)
	}

	r.running[key] = bal
	return nil
}

// coverShortfall restores the balance to at least minimum stock. It returns
// the total quantity sourced (transfers plus proposed supply) so the caller
// can advance the running balance for later events in the same scan.
func (r *run) coverShortfall(
	ctx context.Context,
	facility entities.FacilityID,
	level int,
	ev *entities.LedgerEvent,
	cfg *entities.ReplenishConfig,
	balBefore, bal decimal.Decimal,
) (decimal.Decimal, error) {
	shortfall := cfg.MinStock.Sub(bal)

	transferred, err := r.resolveBackupTransfer(ctx, ev.Product, facility, shortfall, ev.At, cfg, level)
	if err != nil {
		return decimal.Zero, err
	}
	remaining := shortfall.Sub(transferred)
	requested := transferred

	var explosion *entities.Explosion
	if remaining.IsPositive() {
		hasLater := r.ledger.HasLaterEvent(ev.Product, facility, ev.At)
		rounded := r.roundShortfall(remaining, hasLater)
		target := decimal.Max(rounded, cfg.ReorderQty)

		explosion, err = r.explode(ctx, ev.Product, target)
		if err != nil {
			return decimal.Zero, err
		}
		chunks, err := r.splitLot(ctx, ev.Product, target)
		if err != nil {
			return decimal.Zero, err
		}

		cursor := newAllocationCursor(ev, cfg.MinStock, balBefore)
		for _, chunk := range chunks {
			req, err := r.createProposed(ctx, ev, facility, chunk, cfg, level, explosion)
			if err != nil {
				return decimal.Zero, err
			}
			requested = requested.Add(chunk)
			cursor = r.allocateRequirement(req, cursor)
		}
		r.reportUnlinked(ev, cursor)
	} else if requested.IsPositive() {
		// Fully covered by transfer: the BOM still propagates for the
		// quantity now requested.
		explosion, err = r.explode(ctx, ev.Product, requested)
		if err != nil {
			return decimal.Zero, err
		}
	}

	if explosion != nil && explosion.Manufactured && requested.IsPositive() {
		r.propagateBOM(ev.Product, facility, requested, ev.At, level, explosion)
	}
	return requested, nil
}

// replenishConfig fetches and caches the replenishment rules for a pair.
// A missing configuration is a soft anomaly: the run falls back to the
// backup-if-available method with zero minimum stock and emits a distinguished
// error event so operators can see the gap in planning output.
func (r *run) replenishConfig(ctx context.Context, product entities.ProductID, facility entities.FacilityID, level int) *entities.ReplenishConfig {
	key := balanceKey{product, facility}
	if cfg, ok := r.configs[key]; ok {
		return cfg
	}

	cfg, err := r.planner.deps.Replenishment.Config(ctx, product, facility)
	if err != nil || cfg == nil {
		r.warnf("no replenishment configuration for %s at %s, assuming backup-if-available", product, facility)
		r.addEvent(entities.LedgerEvent{
			Product:  product,
			Facility: facility,
			At:       r.now,
			Type:     entities.EventConfigError,
			Quantity: decimal.Zero,
			Label:    "missing replenishment configuration",
			Level:    level,
		})
		cfg = &entities.ReplenishConfig{
			Product:  product,
			Facility: facility,
			Method:   entities.ReplenishBackupIfAvailable,
		}
	}
	r.configs[key] = cfg
	return cfg
}

// roundShortfall rounds a raw shortfall to the configured precision, using
// the interim mode while later events still exist for the product/facility
// and the final mode otherwise.
func (r *run) roundShortfall(q decimal.Decimal, hasLater bool) decimal.Decimal {
	mode := r.opts.FinalRounding
	if hasLater {
		mode = r.opts.InterimRounding
	}
	rounded := mode.Apply(q, r.opts.Precision)
	if rounded.IsNegative() {
		return decimal.Zero
	}
	return rounded
}

// explode invokes the external BOM collaborator for a product and quantity
func (r *run) explode(ctx context.Context, product entities.ProductID, quantity decimal.Decimal) (*entities.Explosion, error) {
	explosion, err := r.planner.deps.BOM.Explode(ctx, product, quantity)
	if err != nil {
		return nil, fmt.Errorf("BOM explosion failed for %s: %w", product, err)
	}
	return explosion, nil
}
