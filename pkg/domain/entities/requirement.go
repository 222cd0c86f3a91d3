package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RequirementKind classifies the proposed supply action
type RequirementKind int

const (
	// KindPurchase is a proposed purchase order for a bought product.
	KindPurchase RequirementKind = iota
	// KindTransfer is a proposed inter-facility stock movement.
	KindTransfer
	// KindPendingInternal is a proposed manufacturing order awaiting routing
	// confirmation.
	KindPendingInternal
	// KindInternal is a proposed manufacturing order on a selected routing.
	KindInternal
)

// String method for RequirementKind enum
func (k RequirementKind) String() string {
	switch k {
	case KindPurchase:
		return "Purchase"
	case KindTransfer:
		return "Transfer"
	case KindPendingInternal:
		return "PendingInternal"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// RequirementStatus tracks a requirement through the approval workflow
type RequirementStatus int

const (
	StatusProposed RequirementStatus = iota
	StatusApproved
	StatusClosed
)

// String method for RequirementStatus enum
func (s RequirementStatus) String() string {
	switch s {
	case StatusProposed:
		return "Proposed"
	case StatusApproved:
		return "Approved"
	case StatusClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Requirement is a proposed purchase, manufacture, or transfer action.
// Quantity and dates are immutable once created within a run.
type Requirement struct {
	ID           string
	Product      ProductID
	FacilityFrom FacilityID // empty unless Kind is Transfer
	FacilityTo   FacilityID
	Kind         RequirementKind
	Quantity     decimal.Decimal
	StartDate    time.Time
	RequiredBy   time.Time
	Status       RequirementStatus
}

// NewRequirement creates a validated Requirement
func NewRequirement(
	product ProductID,
	facilityFrom, facilityTo FacilityID,
	kind RequirementKind,
	quantity decimal.Decimal,
	startDate, requiredBy time.Time,
) (*Requirement, error) {
	if product == "" {
		return nil, fmt.Errorf("product cannot be empty")
	}
	if facilityTo == "" {
		return nil, fmt.Errorf("destination facility cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity)
	}
	if startDate.After(requiredBy) {
		return nil, fmt.Errorf("start date %v cannot be after required-by date %v", startDate, requiredBy)
	}
	if kind == KindTransfer && facilityFrom == "" {
		return nil, fmt.Errorf("transfer requirement needs a source facility")
	}

	return &Requirement{
		Product:      product,
		FacilityFrom: facilityFrom,
		FacilityTo:   facilityTo,
		Kind:         kind,
		Quantity:     quantity,
		StartDate:    startDate,
		RequiredBy:   requiredBy,
		Status:       StatusProposed,
	}, nil
}

// Commitment links part of a requirement's quantity back to the sales-order
// line whose shortfall caused it. Created once, never mutated within a run.
type Commitment struct {
	OrderID       string
	OrderLineID   string
	RequirementID string
	Quantity      decimal.Decimal
}

// TransferSpec describes an immediate inter-facility transfer to be created
// by the order-writer collaborator.
type TransferSpec struct {
	Product      ProductID
	FacilityFrom FacilityID
	FacilityTo   FacilityID
	Quantity     decimal.Decimal
	ShipDate     time.Time
}
