package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/domain/repositories"
)

// BOMRepository provides an in-memory one-level BOM exploder. Routing
// selection is fixed: the routing registered for a product is the selected
// one.
type BOMRepository struct {
	routings   map[entities.ProductID]string
	components map[entities.ProductID][]entities.BOMComponent
}

// NewBOMRepository creates a new in-memory BOM repository
func NewBOMRepository() *BOMRepository {
	return &BOMRepository{
		routings:   make(map[entities.ProductID]string),
		components: make(map[entities.ProductID][]entities.BOMComponent),
	}
}

// Verify interface compliance
var _ repositories.BOMExploder = (*BOMRepository)(nil)

// LoadRouting registers a product as manufactured on the given routing with
// its ordered component list.
func (r *BOMRepository) LoadRouting(product entities.ProductID, routing string, components []entities.BOMComponent) {
	r.routings[product] = routing
	r.components[product] = components
}

// Explode returns whether the product is manufactured and, if so, its
// selected routing and ordered per-unit component list.
func (r *BOMRepository) Explode(ctx context.Context, product entities.ProductID, quantity decimal.Decimal) (*entities.Explosion, error) {
	routing, ok := r.routings[product]
	if !ok {
		return &entities.Explosion{Manufactured: false}, nil
	}
	return &entities.Explosion{
		Manufactured: true,
		RoutingID:    routing,
		Components:   r.components[product],
	}, nil
}
