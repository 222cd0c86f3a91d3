// Package csv loads planning scenario data from CSV files.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
)

// Loader handles loading scenario data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) read(filename string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("%s must have a header row", filename)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s header mismatch. Expected: %v, Got: %v", filename, expectedHeader, records[0])
	}
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", filename, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

// LoadProducts loads the product catalog from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := l.read(filename, []string{"product", "description", "supplier", "unit_of_measure"})
	if err != nil {
		return nil, err
	}

	var products []*entities.Product
	for _, record := range records {
		products = append(products, &entities.Product{
			ID:            entities.ProductID(record[0]),
			Description:   record[1],
			Supplier:      entities.SupplierID(record[2]),
			UnitOfMeasure: record[3],
		})
	}
	return products, nil
}

// LoadReplenishment loads replenishment configurations from a CSV file
func (l *Loader) LoadReplenishment(filename string) ([]entities.ReplenishConfig, error) {
	header := []string{"product", "facility", "min_stock", "reorder_qty", "lead_time_days", "method", "source_facility"}
	records, err := l.read(filename, header)
	if err != nil {
		return nil, err
	}

	var configs []entities.ReplenishConfig
	for i, record := range records {
		minStock, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid min_stock: %s", filename, i+2, record[2])
		}
		reorderQty, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid reorder_qty: %s", filename, i+2, record[3])
		}
		leadTime, err := strconv.Atoi(record[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid lead_time_days: %s", filename, i+2, record[4])
		}
		method, err := parseReplenishMethod(record[5])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", filename, i+2, err)
		}

		configs = append(configs, entities.ReplenishConfig{
			Product:        entities.ProductID(record[0]),
			Facility:       entities.FacilityID(record[1]),
			MinStock:       minStock,
			ReorderQty:     reorderQty,
			LeadTimeDays:   leadTime,
			Method:         method,
			SourceFacility: entities.FacilityID(record[6]),
		})
	}
	return configs, nil
}

// LoadBackups loads facility backup sequences from a CSV file. Rows are
// expected in configured sequence order per facility.
func (l *Loader) LoadBackups(filename string) (map[entities.FacilityID][]entities.FacilityID, error) {
	records, err := l.read(filename, []string{"facility", "backup_facility"})
	if err != nil {
		return nil, err
	}

	backups := make(map[entities.FacilityID][]entities.FacilityID)
	for _, record := range records {
		facility := entities.FacilityID(record[0])
		backups[facility] = append(backups[facility], entities.FacilityID(record[1]))
	}
	return backups, nil
}

// LoadBalances loads current stock balances from a CSV file
func (l *Loader) LoadBalances(filename string) (map[entities.ProductID]map[entities.FacilityID]decimal.Decimal, error) {
	records, err := l.read(filename, []string{"product", "facility", "quantity"})
	if err != nil {
		return nil, err
	}

	balances := make(map[entities.ProductID]map[entities.FacilityID]decimal.Decimal)
	for i, record := range records {
		qty, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid quantity: %s", filename, i+2, record[2])
		}
		product := entities.ProductID(record[0])
		if balances[product] == nil {
			balances[product] = make(map[entities.FacilityID]decimal.Decimal)
		}
		balances[product][entities.FacilityID(record[1])] = qty
	}
	return balances, nil
}

// LoadSalesOrders loads approved sales-order reservations from a CSV file.
// The optional date columns may be empty.
func (l *Loader) LoadSalesOrders(filename string) ([]entities.SalesReservation, error) {
	header := []string{"order_id", "order_line_id", "product", "facility", "open_quantity", "ship_by", "requested_delivery", "promised_delivery"}
	records, err := l.read(filename, header)
	if err != nil {
		return nil, err
	}

	var reservations []entities.SalesReservation
	for i, record := range records {
		qty, err := decimal.NewFromString(record[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid open_quantity: %s", filename, i+2, record[4])
		}
		shipBy, err := parseOptionalDate(record[5])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid ship_by: %s", filename, i+2, record[5])
		}
		requested, err := parseOptionalDate(record[6])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid requested_delivery: %s", filename, i+2, record[6])
		}
		promised, err := parseOptionalDate(record[7])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid promised_delivery: %s", filename, i+2, record[7])
		}

		reservations = append(reservations, entities.SalesReservation{
			OrderID:           record[0],
			OrderLineID:       record[1],
			Product:           entities.ProductID(record[2]),
			Facility:          entities.FacilityID(record[3]),
			OpenQuantity:      qty,
			ShipBy:            shipBy,
			RequestedDelivery: requested,
			PromisedDelivery:  promised,
		})
	}
	return reservations, nil
}

// LoadPurchaseOrders loads open purchase-order lines from a CSV file
func (l *Loader) LoadPurchaseOrders(filename string) ([]entities.PurchaseOrderLine, error) {
	header := []string{"order_id", "order_line_id", "product", "facility", "ordered_qty", "received_qty", "estimated_receipt"}
	records, err := l.read(filename, header)
	if err != nil {
		return nil, err
	}

	var lines []entities.PurchaseOrderLine
	for i, record := range records {
		ordered, err := decimal.NewFromString(record[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid ordered_qty: %s", filename, i+2, record[4])
		}
		received, err := decimal.NewFromString(record[5])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid received_qty: %s", filename, i+2, record[5])
		}
		receipt, err := time.Parse("2006-01-02", record[6])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid estimated_receipt: %s (expected YYYY-MM-DD)", filename, i+2, record[6])
		}

		lines = append(lines, entities.PurchaseOrderLine{
			OrderID:          record[0],
			OrderLineID:      record[1],
			Product:          entities.ProductID(record[2]),
			Facility:         entities.FacilityID(record[3]),
			OrderedQty:       ordered,
			ReceivedQty:      received,
			EstimatedReceipt: receipt,
		})
	}
	return lines, nil
}

// LoadProductionNeeds loads open component needs of active production runs
// from a CSV file
func (l *Loader) LoadProductionNeeds(filename string) ([]entities.ProductionNeed, error) {
	header := []string{"run_id", "product", "facility", "required_qty", "issued_qty", "task_start"}
	records, err := l.read(filename, header)
	if err != nil {
		return nil, err
	}

	var needs []entities.ProductionNeed
	for i, record := range records {
		required, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid required_qty: %s", filename, i+2, record[3])
		}
		issued, err := decimal.NewFromString(record[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid issued_qty: %s", filename, i+2, record[4])
		}
		start, err := time.Parse("2006-01-02", record[5])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid task_start: %s (expected YYYY-MM-DD)", filename, i+2, record[5])
		}

		needs = append(needs, entities.ProductionNeed{
			RunID:       record[0],
			Product:     entities.ProductID(record[1]),
			Facility:    entities.FacilityID(record[2]),
			RequiredQty: required,
			IssuedQty:   issued,
			TaskStart:   start,
		})
	}
	return needs, nil
}

// LoadProductionOutputs loads expected yields of active production runs from
// a CSV file
func (l *Loader) LoadProductionOutputs(filename string) ([]entities.ProductionOutput, error) {
	header := []string{"run_id", "product", "facility", "planned_qty", "produced_qty", "estimated_completion"}
	records, err := l.read(filename, header)
	if err != nil {
		return nil, err
	}

	var outputs []entities.ProductionOutput
	for i, record := range records {
		planned, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid planned_qty: %s", filename, i+2, record[3])
		}
		produced, err := decimal.NewFromString(record[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid produced_qty: %s", filename, i+2, record[4])
		}
		completion, err := time.Parse("2006-01-02", record[5])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid estimated_completion: %s (expected YYYY-MM-DD)", filename, i+2, record[5])
		}

		outputs = append(outputs, entities.ProductionOutput{
			RunID:               record[0],
			Product:             entities.ProductID(record[1]),
			Facility:            entities.FacilityID(record[2]),
			PlannedQty:          planned,
			ProducedQty:         produced,
			EstimatedCompletion: completion,
		})
	}
	return outputs, nil
}

// LoadForecasts loads forward sales-forecast buckets from a CSV file
func (l *Loader) LoadForecasts(filename string) ([]entities.Forecast, error) {
	records, err := l.read(filename, []string{"product", "facility", "quantity", "date"})
	if err != nil {
		return nil, err
	}

	var forecasts []entities.Forecast
	for i, record := range records {
		qty, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid quantity: %s", filename, i+2, record[2])
		}
		date, err := time.Parse("2006-01-02", record[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid date: %s (expected YYYY-MM-DD)", filename, i+2, record[3])
		}

		forecasts = append(forecasts, entities.Forecast{
			Product:  entities.ProductID(record[0]),
			Facility: entities.FacilityID(record[1]),
			Quantity: qty,
			Date:     date,
		})
	}
	return forecasts, nil
}

// LoadTransfers loads scheduled inter-facility transfers from a CSV file
func (l *Loader) LoadTransfers(filename string) ([]entities.ScheduledTransfer, error) {
	header := []string{"transfer_id", "product", "facility_from", "facility_to", "quantity", "ship_date", "receipt_date"}
	records, err := l.read(filename, header)
	if err != nil {
		return nil, err
	}

	var transfers []entities.ScheduledTransfer
	for i, record := range records {
		qty, err := decimal.NewFromString(record[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid quantity: %s", filename, i+2, record[4])
		}
		ship, err := time.Parse("2006-01-02", record[5])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid ship_date: %s (expected YYYY-MM-DD)", filename, i+2, record[5])
		}
		receipt, err := time.Parse("2006-01-02", record[6])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid receipt_date: %s (expected YYYY-MM-DD)", filename, i+2, record[6])
		}

		transfers = append(transfers, entities.ScheduledTransfer{
			TransferID:   record[0],
			Product:      entities.ProductID(record[1]),
			FacilityFrom: entities.FacilityID(record[2]),
			FacilityTo:   entities.FacilityID(record[3]),
			Quantity:     qty,
			ShipDate:     ship,
			ReceiptDate:  receipt,
		})
	}
	return transfers, nil
}

// LoadBOM loads manufactured-product routings from a CSV file. Component
// rows for the same product and routing are grouped in file order.
func (l *Loader) LoadBOM(filename string) (map[entities.ProductID]BOMRouting, error) {
	header := []string{"product", "routing", "component", "qty_per", "effective_from", "effective_to", "start_offset_days"}
	records, err := l.read(filename, header)
	if err != nil {
		return nil, err
	}

	routings := make(map[entities.ProductID]BOMRouting)
	for i, record := range records {
		qtyPer, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid qty_per: %s", filename, i+2, record[3])
		}
		from, err := parseOptionalDate(record[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid effective_from: %s", filename, i+2, record[4])
		}
		to, err := parseOptionalDate(record[5])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid effective_to: %s", filename, i+2, record[5])
		}
		offsetDays := 0
		if record[6] != "" {
			offsetDays, err = strconv.Atoi(record[6])
			if err != nil {
				return nil, fmt.Errorf("%s row %d: invalid start_offset_days: %s", filename, i+2, record[6])
			}
		}

		product := entities.ProductID(record[0])
		routing := routings[product]
		routing.Routing = record[1]
		routing.Components = append(routing.Components, entities.BOMComponent{
			Product:       entities.ProductID(record[2]),
			QuantityPer:   qtyPer,
			EffectiveFrom: from,
			EffectiveTo:   to,
			StartOffset:   time.Duration(offsetDays) * 24 * time.Hour,
		})
		routings[product] = routing
	}
	return routings, nil
}

// BOMRouting is one product's selected routing and component list
type BOMRouting struct {
	Routing    string
	Components []entities.BOMComponent
}

// LoadLotConstraints loads lot-size constraints from a CSV file
func (l *Loader) LoadLotConstraints(filename string) ([]*entities.LotConstraint, error) {
	records, err := l.read(filename, []string{"product", "route", "min_qty", "max_qty"})
	if err != nil {
		return nil, err
	}

	var constraints []*entities.LotConstraint
	for i, record := range records {
		minQty, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid min_qty: %s", filename, i+2, record[2])
		}
		maxQty, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid max_qty: %s", filename, i+2, record[3])
		}
		c, err := entities.NewLotConstraint(entities.ProductID(record[0]), record[1], minQty, maxQty)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", filename, i+2, err)
		}
		constraints = append(constraints, c)
	}
	return constraints, nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func parseOptionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseReplenishMethod(s string) (entities.ReplenishMethod, error) {
	switch strings.ToLower(s) {
	case "never":
		return entities.ReplenishNever, nil
	case "backupifavailable", "backup":
		return entities.ReplenishBackupIfAvailable, nil
	case "facilityifavailable":
		return entities.ReplenishFacilityIfAvailable, nil
	case "backupalways":
		return entities.ReplenishBackupAlways, nil
	case "facilityalways":
		return entities.ReplenishFacilityAlways, nil
	default:
		return entities.ReplenishNever, fmt.Errorf(
			"invalid method: %s (expected: Never, BackupIfAvailable, FacilityIfAvailable, BackupAlways, or FacilityAlways)", s)
	}
}
