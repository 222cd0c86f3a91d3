package planning

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
)

// splitLot splits a target replenishment quantity into one or more chunks
// bounded by the product's configured lot constraints. With no constraints
// the target passes through as a single chunk.
func (r *run) splitLot(ctx context.Context, product entities.ProductID, target decimal.Decimal) ([]decimal.Decimal, error) {
	constraints, err := r.planner.deps.Lots.Constraints(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to read lot constraints for %s: %w", product, err)
	}
	return splitByConstraints(target, constraints), nil
}

// splitByConstraints applies the lot-size policy:
//   - constraints whose max bounds the target are processed in descending
//     order of max, greedily emitting full max-sized chunks
//   - the final remainder is emitted as-is, unless it falls below the
//     smallest configured min, in which case it is raised to that min
//     (a small overproduction beats an infeasible batch)
//   - a target below every configured min is raised to the smallest min
func splitByConstraints(target decimal.Decimal, constraints []entities.LotConstraint) []decimal.Decimal {
	if !target.IsPositive() {
		return nil
	}
	if len(constraints) == 0 {
		return []decimal.Decimal{target}
	}

	smallestMin := decimal.Zero
	for _, c := range constraints {
		if !c.MinQty.IsPositive() {
			continue
		}
		if smallestMin.IsZero() || c.MinQty.LessThan(smallestMin) {
			smallestMin = c.MinQty
		}
	}

	var caps []decimal.Decimal
	for _, c := range constraints {
		if c.MaxQty.IsPositive() && c.MaxQty.LessThan(target) {
			caps = append(caps, c.MaxQty)
		}
	}
	sort.Slice(caps, func(i, j int) bool { return caps[j].LessThan(caps[i]) })

	var chunks []decimal.Decimal
	remaining := target
	for _, max := range caps {
		for remaining.GreaterThan(max) {
			chunks = append(chunks, max)
			remaining = remaining.Sub(max)
		}
	}

	if remaining.IsPositive() {
		if smallestMin.IsPositive() && remaining.LessThan(smallestMin) {
			remaining = smallestMin
		}
		chunks = append(chunks, remaining)
	}
	return chunks
}
