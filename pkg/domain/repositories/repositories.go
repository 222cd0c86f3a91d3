// Package repositories defines the collaborator interfaces the planning core
// consumes. Implementations live under pkg/infrastructure/repositories.
package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
)

// SourceScope narrows a demand/supply query to one facility, optionally to a
// single product or a single supplier's products.
type SourceScope struct {
	Facility entities.FacilityID
	Product  entities.ProductID  // empty = all products
	Supplier entities.SupplierID // empty = all suppliers
}

// BalanceReader provides the current actual stock balance. Called once per
// product on first encounter during a netting scan.
type BalanceReader interface {
	AvailableQuantity(ctx context.Context, product entities.ProductID, facility entities.FacilityID) (decimal.Decimal, error)
}

// BOMExploder explodes one BOM level for a product. Routing selection is the
// exploder's concern; the planner treats it as a black box.
type BOMExploder interface {
	Explode(ctx context.Context, product entities.ProductID, quantity decimal.Decimal) (*entities.Explosion, error)
}

// CatalogRepository provides product master data used for precondition checks
type CatalogRepository interface {
	Product(ctx context.Context, id entities.ProductID) (*entities.Product, error)
	ProductsBySupplier(ctx context.Context, supplier entities.SupplierID) ([]entities.ProductID, error)
	FacilityGroup(ctx context.Context, group string) ([]entities.FacilityID, error)
}

// ReplenishmentRepository provides per-product, per-facility replenishment
// rules and the ordered backup facility list.
type ReplenishmentRepository interface {
	Config(ctx context.Context, product entities.ProductID, facility entities.FacilityID) (*entities.ReplenishConfig, error)
	BackupFacilities(ctx context.Context, facility entities.FacilityID) ([]entities.FacilityID, error)
}

// LotConstraintRepository provides the lot-size constraints for a product
type LotConstraintRepository interface {
	Constraints(ctx context.Context, product entities.ProductID) ([]entities.LotConstraint, error)
}

// DemandSupplySource provides read-only access to the external demand and
// supply records collected into the ledger at the start of a run.
type DemandSupplySource interface {
	OpenSalesReservations(ctx context.Context, scope SourceScope) ([]entities.SalesReservation, error)
	OpenPurchaseLines(ctx context.Context, scope SourceScope) ([]entities.PurchaseOrderLine, error)
	ProductionNeeds(ctx context.Context, scope SourceScope) ([]entities.ProductionNeed, error)
	ProductionOutputs(ctx context.Context, scope SourceScope) ([]entities.ProductionOutput, error)
	ApprovedRequirements(ctx context.Context, scope SourceScope) ([]entities.Requirement, error)
	ScheduledTransfers(ctx context.Context, scope SourceScope) ([]entities.ScheduledTransfer, error)
	ForecastEntries(ctx context.Context, scope SourceScope) ([]entities.Forecast, error)
}

// OrderWriter creates proposed requirements and immediate transfers, and
// purges previously proposed data when a run reinitializes. Implementations
// are expected to be transactional with the enclosing run.
type OrderWriter interface {
	CreateRequirement(ctx context.Context, req *entities.Requirement) (string, error)
	CreateTransfer(ctx context.Context, spec entities.TransferSpec) ([]string, error)
	PurgeProposed(ctx context.Context, scope SourceScope) error
}
