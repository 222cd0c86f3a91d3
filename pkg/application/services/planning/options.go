package planning

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
)

// RoundingMode selects how a fractional shortfall is rounded to the
// configured decimal precision.
type RoundingMode int

const (
	// RoundHalfUp rounds half away from zero.
	RoundHalfUp RoundingMode = iota
	// RoundFloor truncates downward.
	RoundFloor
	// RoundCeil always rounds upward.
	RoundCeil
	// RoundHalfEven rounds half to the nearest even digit.
	RoundHalfEven
)

// String method for RoundingMode enum
func (m RoundingMode) String() string {
	switch m {
	case RoundHalfUp:
		return "HalfUp"
	case RoundFloor:
		return "Floor"
	case RoundCeil:
		return "Ceil"
	case RoundHalfEven:
		return "HalfEven"
	default:
		return "Unknown"
	}
}

// ParseRoundingMode parses a configuration string into a RoundingMode
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch strings.ToLower(s) {
	case "halfup", "":
		return RoundHalfUp, nil
	case "floor", "down":
		return RoundFloor, nil
	case "ceil", "up":
		return RoundCeil, nil
	case "halfeven", "bank":
		return RoundHalfEven, nil
	default:
		return RoundHalfUp, fmt.Errorf("invalid rounding mode: %s (expected: HalfUp, Floor, Ceil, or HalfEven)", s)
	}
}

// Apply rounds q to the given number of decimal places using the mode
func (m RoundingMode) Apply(q decimal.Decimal, places int32) decimal.Decimal {
	switch m {
	case RoundFloor:
		return q.RoundFloor(places)
	case RoundCeil:
		return q.RoundCeil(places)
	case RoundHalfEven:
		return q.RoundBank(places)
	default:
		return q.Round(places)
	}
}

// Options configures a single planning run
type Options struct {
	// Facilities is the ordered planning sequence. Leave empty to resolve
	// FacilityGroup instead.
	Facilities    []entities.FacilityID
	FacilityGroup string

	// Product narrows the run to a single product; Supplier to one
	// supplier's products. Both optional.
	Product  entities.ProductID
	Supplier entities.SupplierID

	// DefaultHorizon dates demand that carries no due date at all.
	DefaultHorizon time.Duration
	// ReceiptBuffer shifts supply events earlier so stock is available
	// before it is needed.
	ReceiptBuffer time.Duration

	Precision       int32
	InterimRounding RoundingMode
	FinalRounding   RoundingMode

	// ForecastPercent is the percentage (0-100) of forward sales forecast
	// included as demand. Zero disables forecast-driven demand.
	ForecastPercent decimal.Decimal

	// DeferredOrders creates transfer requirements for approval instead of
	// immediate transfer actions.
	DeferredOrders bool
	// Reinitialize purges previously proposed requirements and ledger rows
	// for the run's scope before planning.
	Reinitialize bool
}

// DefaultOptions returns the options used when a caller configures nothing
func DefaultOptions() Options {
	return Options{
		DefaultHorizon:  30 * 24 * time.Hour,
		Precision:       2,
		InterimRounding: RoundHalfUp,
		FinalRounding:   RoundHalfUp,
		DeferredOrders:  true,
		Reinitialize:    true,
	}
}
