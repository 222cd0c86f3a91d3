package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netstock/planner/pkg/application/dto"
	"github.com/netstock/planner/pkg/domain/entities"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult(runID string, completed time.Time) *dto.PlanResult {
	started := completed.Add(-time.Second)
	return &dto.PlanResult{
		RunID:         runID,
		StartedAt:     started,
		CompletedAt:   completed,
		LevelsScanned: 4,
		Warnings:      []string{"sales order SO-9/1 has no demand date"},
		Requirements: []entities.Requirement{
			{
				ID:         runID + "-R1",
				Product:    "P1",
				FacilityTo: "F1",
				Kind:       entities.KindPurchase,
				Quantity:   decimal.NewFromInt(13),
				StartDate:  started,
				RequiredBy: started.AddDate(0, 0, 3),
				Status:     entities.StatusProposed,
			},
			{
				ID:           runID + "-R2",
				Product:      "P1",
				FacilityFrom: "DC",
				FacilityTo:   "BR",
				Kind:         entities.KindTransfer,
				Quantity:     decimal.RequireFromString("2.5"),
				StartDate:    started,
				RequiredBy:   started.AddDate(0, 0, 5),
				Status:       entities.StatusProposed,
			},
		},
		Commitments: []entities.Commitment{
			{OrderID: "SO-1", OrderLineID: "1", RequirementID: runID + "-R1", Quantity: decimal.NewFromInt(8)},
		},
		Events: []entities.LedgerEvent{
			{
				Product:  "P1",
				Facility: "F1",
				At:       started,
				Type:     entities.EventSalesOrder,
				Quantity: decimal.NewFromInt(-8),
				Balance:  decimal.NewNullDecimal(decimal.NewFromInt(5)),
				Label:    "SO SO-1/1",
				Late:     true,
			},
		},
	}
}

func TestStore_SaveAndReadBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	completed := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveResult(ctx, sampleResult("run-1", completed)))

	reqs, err := store.Requirements(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	purchase := reqs[0]
	assert.Equal(t, "run-1-R1", purchase.ID)
	assert.Equal(t, entities.KindPurchase, purchase.Kind)
	assert.Equal(t, entities.StatusProposed, purchase.Status)
	assert.True(t, purchase.Quantity.Equal(decimal.NewFromInt(13)))
	assert.True(t, purchase.RequiredBy.Equal(completed.Add(-time.Second).AddDate(0, 0, 3)))

	transfer := reqs[1]
	assert.Equal(t, entities.KindTransfer, transfer.Kind)
	assert.Equal(t, entities.FacilityID("DC"), transfer.FacilityFrom)
	assert.True(t, transfer.Quantity.Equal(decimal.RequireFromString("2.5")))

	commitments, err := store.Commitments(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, commitments, 1)
	assert.Equal(t, "run-1-R1", commitments[0].RequirementID)
	assert.True(t, commitments[0].Quantity.Equal(decimal.NewFromInt(8)))
}

func TestStore_DuplicateRunRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	completed := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	result := sampleResult("run-1", completed)
	require.NoError(t, store.SaveResult(ctx, result))

	// The same run id violates the primary key; nothing else may land.
	dup := sampleResult("run-1", completed.Add(time.Hour))
	dup.Requirements[0].ID = "run-1-R9"
	require.Error(t, store.SaveResult(ctx, dup))

	reqs, err := store.Requirements(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, reqs, 2, "failed save leaves the stored run untouched")
}

func TestStore_LatestRunID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.LatestRunID(ctx)
	require.Error(t, err, "empty store has no runs")

	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveResult(ctx, sampleResult("run-1", base)))
	require.NoError(t, store.SaveResult(ctx, sampleResult("run-2", base.Add(time.Hour))))

	latest, err := store.LatestRunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", latest)
}

func TestStore_PurgeRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveResult(ctx, sampleResult("run-1", base)))
	require.NoError(t, store.SaveResult(ctx, sampleResult("run-2", base.Add(time.Hour))))

	require.NoError(t, store.PurgeRun(ctx, "run-1"))

	reqs, err := store.Requirements(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, reqs)

	latest, err := store.LatestRunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", latest)
}
