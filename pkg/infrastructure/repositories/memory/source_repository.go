package memory

import (
	"context"

	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/domain/repositories"
)

// SourceRepository provides in-memory demand/supply source records. Records
// are returned in load order, which is the order the collector reads them.
type SourceRepository struct {
	catalog *CatalogRepository

	reservations []entities.SalesReservation
	purchases    []entities.PurchaseOrderLine
	needs        []entities.ProductionNeed
	outputs      []entities.ProductionOutput
	requirements []entities.Requirement
	transfers    []entities.ScheduledTransfer
	forecasts    []entities.Forecast
}

// NewSourceRepository creates a new in-memory source repository. The catalog
// is used to resolve supplier-narrowed scopes and may be nil when supplier
// narrowing is not used.
func NewSourceRepository(catalog *CatalogRepository) *SourceRepository {
	return &SourceRepository{catalog: catalog}
}

// Verify interface compliance
var _ repositories.DemandSupplySource = (*SourceRepository)(nil)

// LoadSalesReservations loads approved sales-order reservations
func (r *SourceRepository) LoadSalesReservations(reservations []entities.SalesReservation) {
	r.reservations = append(r.reservations, reservations...)
}

// LoadPurchaseLines loads approved open purchase-order lines
func (r *SourceRepository) LoadPurchaseLines(lines []entities.PurchaseOrderLine) {
	r.purchases = append(r.purchases, lines...)
}

// LoadProductionNeeds loads active production-run component requirements
func (r *SourceRepository) LoadProductionNeeds(needs []entities.ProductionNeed) {
	r.needs = append(r.needs, needs...)
}

// LoadProductionOutputs loads expected production-run outputs
func (r *SourceRepository) LoadProductionOutputs(outputs []entities.ProductionOutput) {
	r.outputs = append(r.outputs, outputs...)
}

// LoadApprovedRequirements loads already-approved requirements
func (r *SourceRepository) LoadApprovedRequirements(reqs []entities.Requirement) {
	r.requirements = append(r.requirements, reqs...)
}

// LoadScheduledTransfers loads scheduled inter-facility transfers
func (r *SourceRepository) LoadScheduledTransfers(transfers []entities.ScheduledTransfer) {
	r.transfers = append(r.transfers, transfers...)
}

// LoadForecasts loads forward sales-forecast buckets
func (r *SourceRepository) LoadForecasts(forecasts []entities.Forecast) {
	r.forecasts = append(r.forecasts, forecasts...)
}

// inScope applies the product and supplier narrowing of a source scope
func (r *SourceRepository) inScope(scope repositories.SourceScope, product entities.ProductID) bool {
	if scope.Product != "" && product != scope.Product {
		return false
	}
	if scope.Supplier != "" {
		if r.catalog == nil {
			return false
		}
		p, ok := r.catalog.products[product]
		if !ok || p.Supplier != scope.Supplier {
			return false
		}
	}
	return true
}

// OpenSalesReservations returns the scope's open sales-order reservations
func (r *SourceRepository) OpenSalesReservations(ctx context.Context, scope repositories.SourceScope) ([]entities.SalesReservation, error) {
	var out []entities.SalesReservation
	for _, res := range r.reservations {
		if res.Facility == scope.Facility && r.inScope(scope, res.Product) {
			out = append(out, res)
		}
	}
	return out, nil
}

// OpenPurchaseLines returns the scope's open purchase-order lines
func (r *SourceRepository) OpenPurchaseLines(ctx context.Context, scope repositories.SourceScope) ([]entities.PurchaseOrderLine, error) {
	var out []entities.PurchaseOrderLine
	for _, line := range r.purchases {
		if line.Facility == scope.Facility && r.inScope(scope, line.Product) {
			out = append(out, line)
		}
	}
	return out, nil
}

// ProductionNeeds returns the scope's unissued production component needs
func (r *SourceRepository) ProductionNeeds(ctx context.Context, scope repositories.SourceScope) ([]entities.ProductionNeed, error) {
	var out []entities.ProductionNeed
	for _, need := range r.needs {
		if need.Facility == scope.Facility && r.inScope(scope, need.Product) {
			out = append(out, need)
		}
	}
	return out, nil
}

// ProductionOutputs returns the scope's unproduced production outputs
func (r *SourceRepository) ProductionOutputs(ctx context.Context, scope repositories.SourceScope) ([]entities.ProductionOutput, error) {
	var out []entities.ProductionOutput
	for _, output := range r.outputs {
		if output.Facility == scope.Facility && r.inScope(scope, output.Product) {
			out = append(out, output)
		}
	}
	return out, nil
}

// ApprovedRequirements returns approved requirements touching the scope's
// facility on either side.
func (r *SourceRepository) ApprovedRequirements(ctx context.Context, scope repositories.SourceScope) ([]entities.Requirement, error) {
	var out []entities.Requirement
	for _, req := range r.requirements {
		if req.FacilityTo != scope.Facility && req.FacilityFrom != scope.Facility {
			continue
		}
		if !r.inScope(scope, req.Product) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

// ScheduledTransfers returns transfers touching the scope's facility on
// either side.
func (r *SourceRepository) ScheduledTransfers(ctx context.Context, scope repositories.SourceScope) ([]entities.ScheduledTransfer, error) {
	var out []entities.ScheduledTransfer
	for _, t := range r.transfers {
		if t.FacilityTo != scope.Facility && t.FacilityFrom != scope.Facility {
			continue
		}
		if !r.inScope(scope, t.Product) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ForecastEntries returns the scope's forecast buckets
func (r *SourceRepository) ForecastEntries(ctx context.Context, scope repositories.SourceScope) ([]entities.Forecast, error) {
	var out []entities.Forecast
	for _, f := range r.forecasts {
		if f.Facility == scope.Facility && r.inScope(scope, f.Product) {
			out = append(out, f)
		}
	}
	return out, nil
}
