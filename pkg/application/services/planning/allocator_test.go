package planning

import (
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netstock/planner/pkg/application/dto"
	"github.com/netstock/planner/pkg/domain/entities"
)

func newTestRun() *run {
	return &run{
		result: &dto.PlanResult{},
		log:    slog.Default(),
	}
}

func demandEvent(qty int64, details ...entities.EventDetail) *entities.LedgerEvent {
	return &entities.LedgerEvent{
		Product:  "P1",
		Facility: "F1",
		Type:     entities.EventSalesOrder,
		Quantity: decimal.NewFromInt(-qty),
		Details:  details,
	}
}

func TestAllocateRequirement_LinksLinesInPriorityOrder(t *testing.T) {
	r := newTestRun()
	ev := demandEvent(8,
		entities.EventDetail{OrderID: "SO-1", OrderLineID: "1", Quantity: decimal.NewFromInt(5)},
		entities.EventDetail{OrderID: "SO-2", OrderLineID: "1", Quantity: decimal.NewFromInt(3)},
	)

	cursor := newAllocationCursor(ev, decimal.Zero, decimal.Zero)
	req := &entities.Requirement{ID: "R1", Quantity: decimal.NewFromInt(8)}
	cursor = r.allocateRequirement(req, cursor)
	r.reportUnlinked(ev, cursor)

	require.Len(t, r.result.Commitments, 2)
	assert.Equal(t, "SO-1", r.result.Commitments[0].OrderID)
	assert.True(t, r.result.Commitments[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "SO-2", r.result.Commitments[1].OrderID)
	assert.True(t, r.result.Commitments[1].Quantity.Equal(decimal.NewFromInt(3)))
	assert.Empty(t, r.result.Warnings)
}

func TestAllocateRequirement_SumNeverExceedsRequirement(t *testing.T) {
	r := newTestRun()
	ev := demandEvent(10,
		entities.EventDetail{OrderID: "SO-1", OrderLineID: "1", Quantity: decimal.NewFromInt(10)},
	)

	cursor := newAllocationCursor(ev, decimal.Zero, decimal.Zero)
	req := &entities.Requirement{ID: "R1", Quantity: decimal.NewFromInt(4)}
	cursor = r.allocateRequirement(req, cursor)

	require.Len(t, r.result.Commitments, 1)
	assert.True(t, r.result.Commitments[0].Quantity.Equal(decimal.NewFromInt(4)))

	// A second requirement picks up where the first left off.
	req2 := &entities.Requirement{ID: "R2", Quantity: decimal.NewFromInt(6)}
	cursor = r.allocateRequirement(req2, cursor)
	r.reportUnlinked(ev, cursor)

	require.Len(t, r.result.Commitments, 2)
	assert.Equal(t, "R2", r.result.Commitments[1].RequirementID)
	assert.True(t, r.result.Commitments[1].Quantity.Equal(decimal.NewFromInt(6)))
	assert.Empty(t, r.result.Warnings)
}

func TestAllocateRequirement_StockCoversFrontOfQueue(t *testing.T) {
	r := newTestRun()
	ev := demandEvent(8,
		entities.EventDetail{OrderID: "SO-1", OrderLineID: "1", Quantity: decimal.NewFromInt(5)},
		entities.EventDetail{OrderID: "SO-2", OrderLineID: "1", Quantity: decimal.NewFromInt(3)},
	)

	// 6 on hand above minimum: SO-1 fully covered, SO-2 partially.
	cursor := newAllocationCursor(ev, decimal.Zero, decimal.NewFromInt(6))
	req := &entities.Requirement{ID: "R1", Quantity: decimal.NewFromInt(2)}
	cursor = r.allocateRequirement(req, cursor)
	r.reportUnlinked(ev, cursor)

	require.Len(t, r.result.Commitments, 1)
	assert.Equal(t, "SO-2", r.result.Commitments[0].OrderID)
	assert.True(t, r.result.Commitments[0].Quantity.Equal(decimal.NewFromInt(2)))
	assert.Empty(t, r.result.Warnings)
}

func TestAllocateRequirement_CoverageClampedToDemand(t *testing.T) {
	ev := demandEvent(4,
		entities.EventDetail{OrderID: "SO-1", OrderLineID: "1", Quantity: decimal.NewFromInt(4)},
	)

	cursor := newAllocationCursor(ev, decimal.NewFromInt(2), decimal.NewFromInt(100))
	assert.True(t, cursor.covered.Equal(decimal.NewFromInt(4)),
		"coverage never exceeds the event's demand")

	below := newAllocationCursor(ev, decimal.NewFromInt(5), decimal.NewFromInt(3))
	assert.True(t, below.covered.IsZero(), "stock below minimum covers nothing")
}

func TestReportUnlinked_WarnsOnLeftoverDemand(t *testing.T) {
	r := newTestRun()
	ev := demandEvent(9,
		entities.EventDetail{OrderID: "SO-1", OrderLineID: "1", Quantity: decimal.NewFromInt(9)},
	)

	cursor := newAllocationCursor(ev, decimal.Zero, decimal.Zero)
	req := &entities.Requirement{ID: "R1", Quantity: decimal.NewFromInt(4)}
	cursor = r.allocateRequirement(req, cursor)
	r.reportUnlinked(ev, cursor)

	require.Len(t, r.result.Warnings, 1)
	assert.Contains(t, r.result.Warnings[0], "SO-1")
	assert.Contains(t, r.result.Warnings[0], "left unlinked")
}
