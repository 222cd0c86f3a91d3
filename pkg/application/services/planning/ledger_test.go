package planning

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netstock/planner/pkg/domain/entities"
)

func day(n int) time.Time {
	return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC).Add(time.Duration(n) * 24 * time.Hour)
}

func TestLedger_UpsertMergesSameKey(t *testing.T) {
	l := NewLedger()

	first := l.Upsert(entities.LedgerEvent{
		Product:  "P1",
		Facility: "F1",
		At:       day(1),
		Type:     entities.EventSalesOrder,
		Quantity: decimal.NewFromInt(-5),
		Label:    "SO A/1",
		Level:    0,
	})
	second := l.Upsert(entities.LedgerEvent{
		Product:  "P1",
		Facility: "F1",
		At:       day(1),
		Type:     entities.EventSalesOrder,
		Quantity: decimal.NewFromInt(-3),
		Label:    "SO B/1",
		Level:    2,
	})

	assert.Same(t, first, second, "same key must merge into one event")
	assert.Equal(t, 1, l.Len())
	assert.True(t, second.Quantity.Equal(decimal.NewFromInt(-8)))
	assert.Equal(t, "SO A/1; SO B/1", second.Label)
	assert.Equal(t, 0, second.Level, "level of the first insertion wins")
}

func TestLedger_UpsertDistinguishesTypeAndDate(t *testing.T) {
	l := NewLedger()

	l.Upsert(entities.LedgerEvent{Product: "P1", Facility: "F1", At: day(1), Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-5)})
	l.Upsert(entities.LedgerEvent{Product: "P1", Facility: "F1", At: day(1), Type: entities.EventPurchaseOrder, Quantity: decimal.NewFromInt(5)})
	l.Upsert(entities.LedgerEvent{Product: "P1", Facility: "F1", At: day(2), Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-2)})

	assert.Equal(t, 3, l.Len())
}

func TestLedger_AddDetailMergesLines(t *testing.T) {
	l := NewLedger()
	ev := l.Upsert(entities.LedgerEvent{
		Product: "P1", Facility: "F1", At: day(1),
		Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-8),
	})

	l.AddDetail(ev, entities.EventDetail{OrderID: "SO-1", OrderLineID: "1", Quantity: decimal.NewFromInt(5)})
	l.AddDetail(ev, entities.EventDetail{OrderID: "SO-2", OrderLineID: "1", Quantity: decimal.NewFromInt(2)})
	l.AddDetail(ev, entities.EventDetail{OrderID: "SO-1", OrderLineID: "1", Quantity: decimal.NewFromInt(1)})

	require.Len(t, ev.Details, 2)
	assert.Equal(t, "SO-1", ev.Details[0].OrderID, "first-seen order is preserved")
	assert.True(t, ev.Details[0].Quantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, ev.Details[1].Quantity.Equal(decimal.NewFromInt(2)))
}

func TestLedger_LevelEventsSortedAndScoped(t *testing.T) {
	l := NewLedger()
	l.Upsert(entities.LedgerEvent{Product: "B", Facility: "F1", At: day(1), Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-1)})
	l.Upsert(entities.LedgerEvent{Product: "A", Facility: "F1", At: day(2), Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-1)})
	l.Upsert(entities.LedgerEvent{Product: "A", Facility: "F1", At: day(1), Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-1)})
	l.Upsert(entities.LedgerEvent{Product: "A", Facility: "F2", At: day(1), Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-1)})
	l.Upsert(entities.LedgerEvent{Product: "A", Facility: "F1", At: day(1), Type: entities.EventComponentDemand, Quantity: decimal.NewFromInt(-1), Level: 1})
	l.Upsert(entities.LedgerEvent{Product: "A", Facility: "F1", At: day(0), Type: entities.EventInitialBalance, Quantity: decimal.NewFromInt(10)})

	events := l.LevelEvents(0, "F1")
	require.Len(t, events, 3, "other facility, deeper level, and initial balance are out")
	assert.Equal(t, entities.ProductID("A"), events[0].Product)
	assert.Equal(t, day(1), events[0].At)
	assert.Equal(t, day(2), events[1].At)
	assert.Equal(t, entities.ProductID("B"), events[2].Product)
}

func TestLedger_DeltaUntil(t *testing.T) {
	l := NewLedger()
	l.Upsert(entities.LedgerEvent{Product: "P1", Facility: "F1", At: day(0), Type: entities.EventInitialBalance, Quantity: decimal.NewFromInt(100)})
	l.Upsert(entities.LedgerEvent{Product: "P1", Facility: "F1", At: day(1), Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-4)})
	l.Upsert(entities.LedgerEvent{Product: "P1", Facility: "F1", At: day(3), Type: entities.EventPurchaseOrder, Quantity: decimal.NewFromInt(10)})
	l.Upsert(entities.LedgerEvent{Product: "P1", Facility: "F1", At: day(5), Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-7)})

	assert.True(t, l.DeltaUntil("P1", "F1", day(3)).Equal(decimal.NewFromInt(6)),
		"initial balance excluded, boundary inclusive, later events excluded")
	assert.True(t, l.DeltaUntil("P1", "F1", day(10)).Equal(decimal.NewFromInt(-1)))
	assert.True(t, l.DeltaUntil("P2", "F1", day(10)).IsZero())
}

func TestLedger_HasLaterEvent(t *testing.T) {
	l := NewLedger()
	l.Upsert(entities.LedgerEvent{Product: "P1", Facility: "F1", At: day(2), Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-4)})
	l.Upsert(entities.LedgerEvent{Product: "P1", Facility: "F1", At: day(6), Type: entities.EventInitialBalance, Quantity: decimal.NewFromInt(1)})

	assert.True(t, l.HasLaterEvent("P1", "F1", day(1)))
	assert.False(t, l.HasLaterEvent("P1", "F1", day(2)), "strictly after")
	assert.False(t, l.HasLaterEvent("P1", "F1", day(3)), "initial balance does not count")
}

func TestLedger_EventsDeterministicOrder(t *testing.T) {
	l := NewLedger()
	l.Upsert(entities.LedgerEvent{Product: "P2", Facility: "F2", At: day(1), Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-1)})
	l.Upsert(entities.LedgerEvent{Product: "P1", Facility: "F2", At: day(1), Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-1)})
	l.Upsert(entities.LedgerEvent{Product: "P1", Facility: "F1", At: day(2), Type: entities.EventSalesOrder, Quantity: decimal.NewFromInt(-1)})

	events := l.Events()
	require.Len(t, events, 3)
	assert.Equal(t, entities.FacilityID("F1"), events[0].Facility)
	assert.Equal(t, entities.ProductID("P1"), events[1].Product)
	assert.Equal(t, entities.ProductID("P2"), events[2].Product)
}
