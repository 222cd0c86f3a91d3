package planning

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundingMode(t *testing.T) {
	tests := []struct {
		in   string
		want RoundingMode
	}{
		{"", RoundHalfUp},
		{"HalfUp", RoundHalfUp},
		{"halfup", RoundHalfUp},
		{"Floor", RoundFloor},
		{"down", RoundFloor},
		{"Ceil", RoundCeil},
		{"up", RoundCeil},
		{"HalfEven", RoundHalfEven},
		{"bank", RoundHalfEven},
	}
	for _, tt := range tests {
		got, err := ParseRoundingMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseRoundingMode("nearest")
	assert.Error(t, err)
}

func TestRoundingMode_Apply(t *testing.T) {
	q := decimal.RequireFromString("2.345")

	assert.Equal(t, "2.35", RoundHalfUp.Apply(q, 2).String())
	assert.Equal(t, "2.34", RoundFloor.Apply(q, 2).String())
	assert.Equal(t, "2.35", RoundCeil.Apply(q, 2).String())
	assert.Equal(t, "2.34", RoundHalfEven.Apply(q, 2).String())

	assert.Equal(t, "3", RoundCeil.Apply(decimal.RequireFromString("2.001"), 0).String())
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, int32(2), opts.Precision)
	assert.Equal(t, RoundHalfUp, opts.InterimRounding)
	assert.Equal(t, RoundHalfUp, opts.FinalRounding)
	assert.True(t, opts.DeferredOrders)
	assert.True(t, opts.Reinitialize)
	assert.Equal(t, 30*24*60*60, int(opts.DefaultHorizon.Seconds()))
}
