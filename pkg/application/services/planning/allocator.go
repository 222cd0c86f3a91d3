package planning

import (
	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
)

// allocationCursor tracks progress through a demand event's contributing
// sales-order lines while requirements are allocated against them. It is
// passed and returned by value; each allocation step yields a new cursor
// rather than mutating hidden position state.
type allocationCursor struct {
	details  []entities.EventDetail
	index    int
	lineUsed decimal.Decimal
	// covered is the portion of the demand already satisfied by existing or
	// projected stock. Lines covered by stock need no allocation.
	covered decimal.Decimal
}

// newAllocationCursor derives the cursor for a demand event. Stock above the
// configured minimum at the time of the event covers the front of the line
// list in priority order.
func newAllocationCursor(ev *entities.LedgerEvent, minStock, balBefore decimal.Decimal) allocationCursor {
	demand := ev.Quantity.Neg()
	covered := balBefore.Sub(minStock)
	if covered.IsNegative() {
		covered = decimal.Zero
	}
	if covered.GreaterThan(demand) {
		covered = demand
	}
	return allocationCursor{details: ev.Details, covered: covered}
}

// exhausted reports whether every contributing line has been consumed
func (c allocationCursor) exhausted() bool {
	return c.index >= len(c.details)
}

// allocateRequirement links a newly created requirement back to the demand
// lines in priority order, creating one commitment per linked line. The sum
// of commitments never exceeds the requirement's quantity.
func (r *run) allocateRequirement(req *entities.Requirement, c allocationCursor) allocationCursor {
	if len(c.details) == 0 {
		return c
	}

	remaining := req.Quantity
	for !c.exhausted() && remaining.IsPositive() {
		line := c.details[c.index]
		lineOpen := line.Quantity.Sub(c.lineUsed)
		if !lineOpen.IsPositive() {
			c.index++
			c.lineUsed = decimal.Zero
			continue
		}

		// Stock-covered portions consume the line without allocation.
		if c.covered.IsPositive() {
			skip := decimal.Min(c.covered, lineOpen)
			c.covered = c.covered.Sub(skip)
			c.lineUsed = c.lineUsed.Add(skip)
			continue
		}

		alloc := decimal.Min(lineOpen, remaining)
		r.result.Commitments = append(r.result.Commitments, entities.Commitment{
			OrderID:       line.OrderID,
			OrderLineID:   line.OrderLineID,
			RequirementID: req.ID,
			Quantity:      alloc,
		})
		remaining = remaining.Sub(alloc)
		c.lineUsed = c.lineUsed.Add(alloc)
	}
	return c
}

// reportUnlinked logs lines whose uncovered quantity could not be fully
// allocated to the created requirements. A data inconsistency, not an abort.
func (r *run) reportUnlinked(ev *entities.LedgerEvent, c allocationCursor) {
	for ; c.index < len(c.details); c.index++ {
		line := c.details[c.index]
		open := line.Quantity.Sub(c.lineUsed)
		c.lineUsed = decimal.Zero
		if c.covered.IsPositive() {
			skip := decimal.Min(c.covered, open)
			c.covered = c.covered.Sub(skip)
			open = open.Sub(skip)
		}
		if open.IsPositive() {
			r.warnf("sales order %s/%s: %s of demand for %s left unlinked",
				line.OrderID, line.OrderLineID, open, ev.Product)
		}
	}
}
