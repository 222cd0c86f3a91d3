package csv

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netstock/planner/pkg/domain/entities"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProducts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "products.csv",
		"product,description,supplier,unit_of_measure\n"+
			"P1,Widget,SUP-A,EA\n"+
			"P2,Gadget,SUP-B,KG\n")

	products, err := NewLoader().LoadProducts(path)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, entities.ProductID("P1"), products[0].ID)
	assert.Equal(t, "Widget", products[0].Description)
	assert.Equal(t, entities.SupplierID("SUP-B"), products[1].Supplier)
}

func TestLoadProducts_HeaderMismatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "products.csv", "sku,name\nP1,Widget\n")

	_, err := NewLoader().LoadProducts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header mismatch")
}

func TestLoadReplenishment(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "replenishment.csv",
		"product,facility,min_stock,reorder_qty,lead_time_days,method,source_facility\n"+
			"P1,F1,5,10,3,Never,\n"+
			"P1,BR,2.5,4,3,BackupIfAvailable,\n"+
			"P2,BR,0,0,7,FacilityAlways,DC\n")

	configs, err := NewLoader().LoadReplenishment(path)
	require.NoError(t, err)
	require.Len(t, configs, 3)

	assert.Equal(t, entities.ReplenishNever, configs[0].Method)
	assert.True(t, configs[1].MinStock.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, entities.ReplenishBackupIfAvailable, configs[1].Method)
	assert.Equal(t, entities.ReplenishFacilityAlways, configs[2].Method)
	assert.Equal(t, entities.FacilityID("DC"), configs[2].SourceFacility)
}

func TestLoadReplenishment_InvalidMethod(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "replenishment.csv",
		"product,facility,min_stock,reorder_qty,lead_time_days,method,source_facility\n"+
			"P1,F1,5,10,3,Sometimes,\n")

	_, err := NewLoader().LoadReplenishment(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid method")
}

func TestLoadSalesOrders_OptionalDates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales_orders.csv",
		"order_id,order_line_id,product,facility,open_quantity,ship_by,requested_delivery,promised_delivery\n"+
			"SO-1,1,P1,F1,8,2026-03-05,,\n"+
			"SO-2,1,P1,F1,4,,,\n")

	reservations, err := NewLoader().LoadSalesOrders(path)
	require.NoError(t, err)
	require.Len(t, reservations, 2)

	due, ok := reservations[0].DueDate()
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), due)

	_, ok = reservations[1].DueDate()
	assert.False(t, ok, "all date columns empty means undated demand")
}

func TestLoadBackups_PreservesSequence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "backups.csv",
		"facility,backup_facility\n"+
			"BR,DC-2\n"+
			"BR,DC-1\n")

	backups, err := NewLoader().LoadBackups(path)
	require.NoError(t, err)
	assert.Equal(t, []entities.FacilityID{"DC-2", "DC-1"}, backups["BR"],
		"file order is the sourcing priority order")
}

func TestLoadBOM_GroupsComponents(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bom.csv",
		"product,routing,component,qty_per,effective_from,effective_to,start_offset_days\n"+
			"ASM,RT-1,C1,2,,,0\n"+
			"ASM,RT-1,C2,1,2026-01-01,,3\n")

	routings, err := NewLoader().LoadBOM(path)
	require.NoError(t, err)
	require.Contains(t, routings, entities.ProductID("ASM"))

	routing := routings["ASM"]
	assert.Equal(t, "RT-1", routing.Routing)
	require.Len(t, routing.Components, 2)
	assert.True(t, routing.Components[0].QuantityPer.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, 3*24*time.Hour, routing.Components[1].StartOffset)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), routing.Components[1].EffectiveFrom)
}

func TestLoadLotConstraints_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lots.csv",
		"product,route,min_qty,max_qty\n"+
			"P1,,10,5\n")

	_, err := NewLoader().LoadLotConstraints(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max quantity")
}

func TestLoadBalances(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "balances.csv",
		"product,facility,quantity\n"+
			"P1,F1,12.5\n"+
			"P1,F2,0\n")

	balances, err := NewLoader().LoadBalances(path)
	require.NoError(t, err)
	assert.True(t, balances["P1"]["F1"].Equal(decimal.RequireFromString("12.5")))
	assert.True(t, balances["P1"]["F2"].IsZero())
}

func TestLoadProductionNeeds(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "production_needs.csv",
		"run_id,product,facility,required_qty,issued_qty,task_start\n"+
			"WO-1,P1,F1,10,4,2026-03-05\n")

	needs, err := NewLoader().LoadProductionNeeds(path)
	require.NoError(t, err)
	require.Len(t, needs, 1)
	assert.Equal(t, "WO-1", needs[0].RunID)
	assert.True(t, needs[0].OpenQuantity().Equal(decimal.NewFromInt(6)))
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), needs[0].TaskStart)
}

func TestLoadProductionOutputs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "production_outputs.csv",
		"run_id,product,facility,planned_qty,produced_qty,estimated_completion\n"+
			"WO-1,P1,F1,20,5,2026-03-10\n")

	outputs, err := NewLoader().LoadProductionOutputs(path)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.True(t, outputs[0].OpenQuantity().Equal(decimal.NewFromInt(15)))
}

func TestLoadForecasts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "forecasts.csv",
		"product,facility,quantity,date\n"+
			"P1,F1,40,2026-03-20\n"+
			"P1,F1,bad,2026-03-21\n")

	_, err := NewLoader().LoadForecasts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid quantity")

	path = writeFile(t, dir, "forecasts_ok.csv",
		"product,facility,quantity,date\n"+
			"P1,F1,40,2026-03-20\n")
	forecasts, err := NewLoader().LoadForecasts(path)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)
	assert.True(t, forecasts[0].Quantity.Equal(decimal.NewFromInt(40)))
}
