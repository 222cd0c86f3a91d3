// Package services holds domain services that operate across entities.
package services

import (
	"fmt"

	"github.com/netstock/planner/pkg/domain/entities"
)

// BOMValidator checks the structural integrity of a loaded set of routings.
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	HasCycles  bool
	CyclePaths [][]entities.ProductID
	Duplicates []entities.ProductID
	Errors     []string
}

// OK reports whether the structure passed every check
func (r *ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks a routing set for cycles and duplicate component lines.
// A cyclic structure would never terminate the level-by-level explosion,
// so cycles are reported as errors rather than warnings.
func (v *BOMValidator) Validate(routings map[entities.ProductID][]entities.BOMComponent) *ValidationResult {
	result := &ValidationResult{
		CyclePaths: make([][]entities.ProductID, 0),
		Duplicates: make([]entities.ProductID, 0),
		Errors:     make([]string, 0),
	}

	adjacency := buildAdjacency(routings)

	cycles := detectCycles(adjacency)
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles
	for _, cycle := range cycles {
		result.Errors = append(result.Errors, fmt.Sprintf("BOM cycle detected: %v", cycle))
	}

	for parent, components := range routings {
		seen := make(map[string]bool, len(components))
		for _, c := range components {
			key := fmt.Sprintf("%s|%d", c.Product, c.EffectiveFrom.UnixNano())
			if seen[key] {
				result.Duplicates = append(result.Duplicates, parent)
				result.Errors = append(result.Errors, fmt.Sprintf(
					"duplicate component line: %s -> %s", parent, c.Product))
				continue
			}
			seen[key] = true
		}
	}

	return result
}

func buildAdjacency(routings map[entities.ProductID][]entities.BOMComponent) map[entities.ProductID][]entities.ProductID {
	adjacency := make(map[entities.ProductID][]entities.ProductID, len(routings))
	for parent, components := range routings {
		for _, c := range components {
			found := false
			for _, child := range adjacency[parent] {
				if child == c.Product {
					found = true
					break
				}
			}
			if !found {
				adjacency[parent] = append(adjacency[parent], c.Product)
			}
		}
	}
	return adjacency
}

func detectCycles(adjacency map[entities.ProductID][]entities.ProductID) [][]entities.ProductID {
	visited := make(map[entities.ProductID]bool)
	onStack := make(map[entities.ProductID]bool)
	cycles := make([][]entities.ProductID, 0)

	for parent := range adjacency {
		if !visited[parent] {
			dfsDetectCycle(parent, adjacency, visited, onStack, nil, &cycles)
		}
	}
	return cycles
}

func dfsDetectCycle(
	current entities.ProductID,
	adjacency map[entities.ProductID][]entities.ProductID,
	visited map[entities.ProductID]bool,
	onStack map[entities.ProductID]bool,
	path []entities.ProductID,
	cycles *[][]entities.ProductID,
) {
	visited[current] = true
	onStack[current] = true
	path = append(path, current)

	for _, child := range adjacency[current] {
		if !visited[child] {
			dfsDetectCycle(child, adjacency, visited, onStack, path, cycles)
		} else if onStack[child] {
			start := -1
			for i, p := range path {
				if p == child {
					start = i
					break
				}
			}
			if start != -1 {
				cycle := make([]entities.ProductID, 0, len(path)-start+1)
				cycle = append(cycle, path[start:]...)
				cycle = append(cycle, child)
				*cycles = append(*cycles, cycle)
			}
		}
	}

	onStack[current] = false
}
