package memory

import (
	"context"

	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/domain/repositories"
)

// LotConstraintRepository provides in-memory lot-size constraints
type LotConstraintRepository struct {
	constraints map[entities.ProductID][]entities.LotConstraint
}

// NewLotConstraintRepository creates a new in-memory lot constraint repository
func NewLotConstraintRepository() *LotConstraintRepository {
	return &LotConstraintRepository{constraints: make(map[entities.ProductID][]entities.LotConstraint)}
}

// Verify interface compliance
var _ repositories.LotConstraintRepository = (*LotConstraintRepository)(nil)

// LoadConstraints registers lot constraints for a product
func (r *LotConstraintRepository) LoadConstraints(constraints []*entities.LotConstraint) error {
	for _, c := range constraints {
		r.constraints[c.Product] = append(r.constraints[c.Product], *c)
	}
	return nil
}

// Constraints returns the lot constraints configured for a product
func (r *LotConstraintRepository) Constraints(ctx context.Context, product entities.ProductID) ([]entities.LotConstraint, error) {
	return r.constraints[product], nil
}
