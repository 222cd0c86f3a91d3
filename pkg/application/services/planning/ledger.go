package planning

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
)

// Ledger is the run's working set of planned inventory events, keyed by
// (product, facility, date, type). It is only ever written by the single
// in-progress run.
type Ledger struct {
	events map[entities.EventKey]*entities.LedgerEvent
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{events: make(map[entities.EventKey]*entities.LedgerEvent)}
}

// Upsert inserts an event, or merges it into the existing event under the
// same key by adding the quantity delta and appending the label. The level
// and late flag of the first insertion win.
func (l *Ledger) Upsert(ev entities.LedgerEvent) *entities.LedgerEvent {
	key := ev.Key()
	if existing, ok := l.events[key]; ok {
		existing.Quantity = existing.Quantity.Add(ev.Quantity)
		if ev.Label != "" {
			if existing.Label != "" {
				existing.Label += "; "
			}
			existing.Label += ev.Label
		}
		for _, d := range ev.Details {
			l.mergeDetail(existing, d)
		}
		return existing
	}

	stored := ev
	l.events[key] = &stored
	return &stored
}

// AddDetail merges a sales-order line contribution into an event, preserving
// first-seen order. That order is the allocation priority order.
func (l *Ledger) AddDetail(ev *entities.LedgerEvent, d entities.EventDetail) {
	l.mergeDetail(ev, d)
}

func (l *Ledger) mergeDetail(ev *entities.LedgerEvent, d entities.EventDetail) {
	for i := range ev.Details {
		if ev.Details[i].OrderID == d.OrderID && ev.Details[i].OrderLineID == d.OrderLineID {
			ev.Details[i].Quantity = ev.Details[i].Quantity.Add(d.Quantity)
			return
		}
	}
	ev.Details = append(ev.Details, d)
}

// LevelEvents returns the facility's events generated at the given BOM level,
// ordered by (product, date, type). The returned slice is a snapshot: events
// inserted during a scan do not extend it.
func (l *Ledger) LevelEvents(level int, facility entities.FacilityID) []*entities.LedgerEvent {
	var out []*entities.LedgerEvent
	for _, ev := range l.events {
		if ev.Level == level && ev.Facility == facility && ev.Type != entities.EventInitialBalance {
			out = append(out, ev)
		}
	}
	sortEvents(out)
	return out
}

// DeltaUntil sums the facility's event deltas for a product up to and
// including the given instant. Initial-balance events are excluded because
// they duplicate the externally fetched base balance.
func (l *Ledger) DeltaUntil(product entities.ProductID, facility entities.FacilityID, until time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, ev := range l.events {
		if ev.Product != product || ev.Facility != facility {
			continue
		}
		if ev.Type == entities.EventInitialBalance {
			continue
		}
		if ev.At.After(until) {
			continue
		}
		sum = sum.Add(ev.Quantity)
	}
	return sum
}

// HasLaterEvent reports whether any event for the product at the facility is
// dated strictly after the given instant. Used to pick interim vs. final
// rounding mode.
func (l *Ledger) HasLaterEvent(product entities.ProductID, facility entities.FacilityID, after time.Time) bool {
	for _, ev := range l.events {
		if ev.Product == product && ev.Facility == facility &&
			ev.Type != entities.EventInitialBalance && ev.At.After(after) {
			return true
		}
	}
	return false
}

// Events returns every ledger event in deterministic order
func (l *Ledger) Events() []entities.LedgerEvent {
	ptrs := make([]*entities.LedgerEvent, 0, len(l.events))
	for _, ev := range l.events {
		ptrs = append(ptrs, ev)
	}
	sort.Slice(ptrs, func(i, j int) bool {
		a, b := ptrs[i], ptrs[j]
		if a.Facility != b.Facility {
			return a.Facility < b.Facility
		}
		if a.Product != b.Product {
			return a.Product < b.Product
		}
		if !a.At.Equal(b.At) {
			return a.At.Before(b.At)
		}
		return a.Type < b.Type
	})

	out := make([]entities.LedgerEvent, len(ptrs))
	for i, p := range ptrs {
		out[i] = *p
	}
	return out
}

// Len returns the number of distinct events in the ledger
func (l *Ledger) Len() int {
	return len(l.events)
}

func sortEvents(events []*entities.LedgerEvent) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Product != b.Product {
			return a.Product < b.Product
		}
		if !a.At.Equal(b.At) {
			return a.At.Before(b.At)
		}
		return a.Type < b.Type
	})
}
