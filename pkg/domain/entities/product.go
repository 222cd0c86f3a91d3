package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductID represents a unique product identifier
type ProductID string

// FacilityID represents a unique warehouse facility identifier
type FacilityID string

// SupplierID represents a unique supplier identifier
type SupplierID string

// Product represents an entry in the product catalog
type Product struct {
	ID            ProductID
	Description   string
	Supplier      SupplierID
	UnitOfMeasure string
}

// ReplenishMethod controls how a shortfall at a facility is sourced
type ReplenishMethod int

const (
	// ReplenishNever disables inter-facility sourcing entirely.
	ReplenishNever ReplenishMethod = iota
	// ReplenishBackupIfAvailable pulls from backup facilities up to their
	// available-to-promise balance.
	ReplenishBackupIfAvailable
	// ReplenishFacilityIfAvailable pulls from one configured facility up to
	// its available-to-promise balance.
	ReplenishFacilityIfAvailable
	// ReplenishBackupAlways pulls from backup facilities regardless of their
	// balance, driving them negative if needed.
	ReplenishBackupAlways
	// ReplenishFacilityAlways pulls from one configured facility regardless
	// of its balance.
	ReplenishFacilityAlways
)

// String method for ReplenishMethod enum
func (m ReplenishMethod) String() string {
	switch m {
	case ReplenishNever:
		return "Never"
	case ReplenishBackupIfAvailable:
		return "BackupIfAvailable"
	case ReplenishFacilityIfAvailable:
		return "FacilityIfAvailable"
	case ReplenishBackupAlways:
		return "BackupAlways"
	case ReplenishFacilityAlways:
		return "FacilityAlways"
	default:
		return "Unknown"
	}
}

// UsesBackupList reports whether the method sources from the facility's
// configured backup list rather than a single specified facility.
func (m ReplenishMethod) UsesBackupList() bool {
	return m == ReplenishBackupIfAvailable || m == ReplenishBackupAlways
}

// Forced reports whether the method transfers regardless of the source
// facility's available balance.
func (m ReplenishMethod) Forced() bool {
	return m == ReplenishBackupAlways || m == ReplenishFacilityAlways
}

// ReplenishConfig holds the per-product, per-facility replenishment rules
type ReplenishConfig struct {
	Product        ProductID
	Facility       FacilityID
	MinStock       decimal.Decimal
	ReorderQty     decimal.Decimal
	LeadTimeDays   int
	Method         ReplenishMethod
	SourceFacility FacilityID // only set for the "specified facility" methods
}

// LotConstraint bounds the size of a single producible or purchasable batch
type LotConstraint struct {
	Product ProductID
	Route   string
	MinQty  decimal.Decimal
	MaxQty  decimal.Decimal
}

// NewLotConstraint creates a validated LotConstraint
func NewLotConstraint(product ProductID, route string, minQty, maxQty decimal.Decimal) (*LotConstraint, error) {
	if product == "" {
		return nil, fmt.Errorf("product cannot be empty")
	}
	if minQty.IsNegative() {
		return nil, fmt.Errorf("min quantity cannot be negative, got %s", minQty)
	}
	if maxQty.IsPositive() && maxQty.LessThan(minQty) {
		return nil, fmt.Errorf("max quantity %s cannot be below min quantity %s", maxQty, minQty)
	}

	return &LotConstraint{
		Product: product,
		Route:   route,
		MinQty:  minQty,
		MaxQty:  maxQty,
	}, nil
}
