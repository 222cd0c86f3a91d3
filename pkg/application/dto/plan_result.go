package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
)

// PlanResult contains the complete output of a planning run
type PlanResult struct {
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time

	Requirements []entities.Requirement
	Commitments  []entities.Commitment
	Events       []entities.LedgerEvent

	// Warnings collects the run's soft anomalies: missing demand dates,
	// missing replenishment configuration, unlinked allocations.
	Warnings []string

	// LevelsScanned is the number of BOM levels visited, including the
	// trailing empty levels that terminated each facility's scan.
	LevelsScanned int
}

// RequirementTotals sums proposed quantities per requirement kind
func (r *PlanResult) RequirementTotals() map[entities.RequirementKind]decimal.Decimal {
	totals := make(map[entities.RequirementKind]decimal.Decimal)
	for _, req := range r.Requirements {
		totals[req.Kind] = totals[req.Kind].Add(req.Quantity)
	}
	return totals
}

// RequirementsFor returns the requirements proposed for one product
func (r *PlanResult) RequirementsFor(product entities.ProductID) []entities.Requirement {
	var out []entities.Requirement
	for _, req := range r.Requirements {
		if req.Product == product {
			out = append(out, req)
		}
	}
	return out
}

// CommitmentsFor returns the commitments allocated to one requirement
func (r *PlanResult) CommitmentsFor(requirementID string) []entities.Commitment {
	var out []entities.Commitment
	for _, c := range r.Commitments {
		if c.RequirementID == requirementID {
			out = append(out, c)
		}
	}
	return out
}
