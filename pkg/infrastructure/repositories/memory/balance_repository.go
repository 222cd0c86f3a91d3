package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/domain/repositories"
)

type balanceKey struct {
	product  entities.ProductID
	facility entities.FacilityID
}

// BalanceRepository provides in-memory actual stock balances
type BalanceRepository struct {
	balances map[balanceKey]decimal.Decimal
}

// NewBalanceRepository creates a new in-memory balance repository
func NewBalanceRepository() *BalanceRepository {
	return &BalanceRepository{balances: make(map[balanceKey]decimal.Decimal)}
}

// Verify interface compliance
var _ repositories.BalanceReader = (*BalanceRepository)(nil)

// SetBalance sets the current balance for a product at a facility
func (r *BalanceRepository) SetBalance(product entities.ProductID, facility entities.FacilityID, qty decimal.Decimal) {
	r.balances[balanceKey{product, facility}] = qty
}

// AvailableQuantity returns the current balance, zero when never set
func (r *BalanceRepository) AvailableQuantity(ctx context.Context, product entities.ProductID, facility entities.FacilityID) (decimal.Decimal, error) {
	return r.balances[balanceKey{product, facility}], nil
}
