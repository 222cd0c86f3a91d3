// Package testing provides scenario builders shared by planning tests.
package testing

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/application/services/planning"
	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/infrastructure/repositories/memory"
)

// Scenario wires every in-memory collaborator needed by a planning run and
// exposes them for direct loading in tests.
type Scenario struct {
	Balances      *memory.BalanceRepository
	BOM           *memory.BOMRepository
	Catalog       *memory.CatalogRepository
	Replenishment *memory.ReplenishmentRepository
	Lots          *memory.LotConstraintRepository
	Sources       *memory.SourceRepository
	Writer        *memory.OrderWriter

	// Now anchors the scenario's clock; every date helper offsets from it.
	Now time.Time
}

// NewScenario creates an empty scenario anchored at a fixed instant so runs
// are reproducible.
func NewScenario() *Scenario {
	catalog := memory.NewCatalogRepository()
	return &Scenario{
		Balances:      memory.NewBalanceRepository(),
		BOM:           memory.NewBOMRepository(),
		Catalog:       catalog,
		Replenishment: memory.NewReplenishmentRepository(),
		Lots:          memory.NewLotConstraintRepository(),
		Sources:       memory.NewSourceRepository(catalog),
		Writer:        memory.NewOrderWriter(catalog),
		Now:           time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
}

// Planner builds a Planner over the scenario's collaborators
func (s *Scenario) Planner() *planning.Planner {
	p, err := planning.New(planning.Deps{
		Balances:      s.Balances,
		BOM:           s.BOM,
		Catalog:       s.Catalog,
		Replenishment: s.Replenishment,
		Lots:          s.Lots,
		Sources:       s.Sources,
		Writer:        s.Writer,
		Logger:        slog.Default(),
		Clock:         func() time.Time { return s.Now },
	})
	if err != nil {
		panic(err)
	}
	return p
}

// Days returns the scenario instant offset by whole days
func (s *Scenario) Days(n int) time.Time {
	return s.Now.Add(time.Duration(n) * 24 * time.Hour)
}

// AddProduct registers a product in the catalog
func (s *Scenario) AddProduct(id entities.ProductID, supplier entities.SupplierID) {
	if err := s.Catalog.LoadProducts([]*entities.Product{{
		ID:            id,
		Description:   string(id),
		Supplier:      supplier,
		UnitOfMeasure: "EA",
	}}); err != nil {
		panic(err)
	}
}

// AddReplenishment registers replenishment rules for a product at a facility
func (s *Scenario) AddReplenishment(
	product entities.ProductID,
	facility entities.FacilityID,
	minStock, reorderQty int64,
	leadTimeDays int,
	method entities.ReplenishMethod,
	source entities.FacilityID,
) {
	s.Replenishment.LoadConfig(entities.ReplenishConfig{
		Product:        product,
		Facility:       facility,
		MinStock:       decimal.NewFromInt(minStock),
		ReorderQty:     decimal.NewFromInt(reorderQty),
		LeadTimeDays:   leadTimeDays,
		Method:         method,
		SourceFacility: source,
	})
}

// AddSalesOrder registers one approved sales-order line reservation due at
// the given day offset.
func (s *Scenario) AddSalesOrder(
	orderID, lineID string,
	product entities.ProductID,
	facility entities.FacilityID,
	qty int64,
	dueInDays int,
) {
	s.Sources.LoadSalesReservations([]entities.SalesReservation{{
		OrderID:      orderID,
		OrderLineID:  lineID,
		Product:      product,
		Facility:     facility,
		OpenQuantity: decimal.NewFromInt(qty),
		ShipBy:       s.Days(dueInDays),
	}})
}

// MustLotConstraint builds a validated lot constraint or panics
func MustLotConstraint(product entities.ProductID, route string, minQty, maxQty int64) *entities.LotConstraint {
	c, err := entities.NewLotConstraint(
		product,
		route,
		decimal.NewFromInt(minQty),
		decimal.NewFromInt(maxQty),
	)
	if err != nil {
		panic(err)
	}
	return c
}
