package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netstock/planner/pkg/domain/entities"
)

func comp(product entities.ProductID) entities.BOMComponent {
	return entities.BOMComponent{Product: product, QuantityPer: decimal.NewFromInt(1)}
}

func TestBOMValidator_CleanStructure(t *testing.T) {
	v := NewBOMValidator()
	result := v.Validate(map[entities.ProductID][]entities.BOMComponent{
		"ASM": {comp("SUB"), comp("C1")},
		"SUB": {comp("C1"), comp("C2")},
	})

	assert.True(t, result.OK())
	assert.False(t, result.HasCycles)
	assert.Empty(t, result.Duplicates)
}

func TestBOMValidator_DetectsCycle(t *testing.T) {
	v := NewBOMValidator()
	result := v.Validate(map[entities.ProductID][]entities.BOMComponent{
		"A": {comp("B")},
		"B": {comp("C")},
		"C": {comp("A")},
	})

	assert.False(t, result.OK())
	assert.True(t, result.HasCycles)
	require.NotEmpty(t, result.CyclePaths)
	cycle := result.CyclePaths[0]
	assert.Equal(t, cycle[0], cycle[len(cycle)-1], "reported path closes the cycle")
}

func TestBOMValidator_DetectsSelfReference(t *testing.T) {
	v := NewBOMValidator()
	result := v.Validate(map[entities.ProductID][]entities.BOMComponent{
		"A": {comp("A")},
	})

	assert.True(t, result.HasCycles)
}

func TestBOMValidator_DetectsDuplicateLines(t *testing.T) {
	effective := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	dup := entities.BOMComponent{Product: "C1", QuantityPer: decimal.NewFromInt(1), EffectiveFrom: effective}

	v := NewBOMValidator()
	result := v.Validate(map[entities.ProductID][]entities.BOMComponent{
		"ASM": {dup, dup},
	})

	assert.False(t, result.OK())
	assert.Contains(t, result.Duplicates, entities.ProductID("ASM"))
}

func TestBOMValidator_SameComponentDifferentWindowIsAllowed(t *testing.T) {
	early := entities.BOMComponent{Product: "C1", QuantityPer: decimal.NewFromInt(1)}
	late := entities.BOMComponent{
		Product:       "C1",
		QuantityPer:   decimal.NewFromInt(2),
		EffectiveFrom: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	v := NewBOMValidator()
	result := v.Validate(map[entities.ProductID][]entities.BOMComponent{
		"ASM": {early, late},
	})

	assert.True(t, result.OK(), "a component replaced at a date is two distinct lines")
}
