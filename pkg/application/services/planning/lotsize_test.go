package planning

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/netstock/planner/pkg/domain/entities"
)

func constraint(min, max int64) entities.LotConstraint {
	return entities.LotConstraint{
		Product: "P1",
		MinQty:  decimal.NewFromInt(min),
		MaxQty:  decimal.NewFromInt(max),
	}
}

func TestSplitByConstraints(t *testing.T) {
	tests := []struct {
		name        string
		target      int64
		constraints []entities.LotConstraint
		want        []int64
	}{
		{
			name:   "no constraints passes through",
			target: 42,
			want:   []int64{42},
		},
		{
			name:        "target under max stays whole",
			target:      20,
			constraints: []entities.LotConstraint{constraint(5, 25)},
			want:        []int64{20},
		},
		{
			name:        "greedy max chunks with remainder",
			target:      60,
			constraints: []entities.LotConstraint{constraint(5, 25)},
			want:        []int64{25, 25, 10},
		},
		{
			name:        "remainder below min is raised",
			target:      52,
			constraints: []entities.LotConstraint{constraint(5, 25)},
			want:        []int64{25, 25, 5},
		},
		{
			name:        "exact multiple leaves no remainder",
			target:      50,
			constraints: []entities.LotConstraint{constraint(5, 25)},
			want:        []int64{25, 25},
		},
		{
			name:        "target below every min is raised",
			target:      3,
			constraints: []entities.LotConstraint{constraint(5, 25)},
			want:        []int64{5},
		},
		{
			name:   "largest cap drains first",
			target: 70,
			constraints: []entities.LotConstraint{
				constraint(0, 30),
				constraint(0, 50),
			},
			want: []int64{50, 20},
		},
		{
			name:        "max not below target is ignored",
			target:      25,
			constraints: []entities.LotConstraint{constraint(0, 25)},
			want:        []int64{25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitByConstraints(decimal.NewFromInt(tt.target), tt.constraints)
			assert.Len(t, got, len(tt.want))

			total := decimal.Zero
			for i, chunk := range got {
				assert.True(t, chunk.Equal(decimal.NewFromInt(tt.want[i])),
					"chunk %d: want %d, got %s", i, tt.want[i], chunk)
				total = total.Add(chunk)
			}
			assert.True(t, total.GreaterThanOrEqual(decimal.NewFromInt(tt.target)),
				"chunks must cover the target")
		})
	}
}

func TestSplitByConstraints_NonPositiveTarget(t *testing.T) {
	assert.Nil(t, splitByConstraints(decimal.Zero, nil))
	assert.Nil(t, splitByConstraints(decimal.NewFromInt(-4), []entities.LotConstraint{constraint(5, 25)}))
}
