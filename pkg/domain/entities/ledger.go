package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType classifies a planned inventory ledger event
type EventType int

const (
	EventInitialBalance EventType = iota
	EventSalesOrder
	EventPurchaseOrder
	EventProductionNeed
	EventProductionOutput
	EventApprovedRequirement
	EventTransferIn
	EventTransferOut
	EventForecast
	EventComponentDemand
	EventProposedReceipt
	EventConfigError
)

// String method for EventType enum
func (t EventType) String() string {
	switch t {
	case EventInitialBalance:
		return "InitialBalance"
	case EventSalesOrder:
		return "SalesOrder"
	case EventPurchaseOrder:
		return "PurchaseOrder"
	case EventProductionNeed:
		return "ProductionNeed"
	case EventProductionOutput:
		return "ProductionOutput"
	case EventApprovedRequirement:
		return "ApprovedRequirement"
	case EventTransferIn:
		return "TransferIn"
	case EventTransferOut:
		return "TransferOut"
	case EventForecast:
		return "Forecast"
	case EventComponentDemand:
		return "ComponentDemand"
	case EventProposedReceipt:
		return "ProposedReceipt"
	case EventConfigError:
		return "ConfigError"
	default:
		return "Unknown"
	}
}

// EventKey uniquely identifies a ledger event. Inserting a second event under
// the same key merges quantities instead of creating a duplicate row.
type EventKey struct {
	Product  ProductID
	Facility FacilityID
	At       int64 // UTC nanoseconds
	Type     EventType
}

// LedgerEvent is one signed supply or demand delta in the planning ledger
type LedgerEvent struct {
	Product  ProductID
	Facility FacilityID
	At       time.Time
	Type     EventType
	Quantity decimal.Decimal
	// Balance is the running net stock after applying this event, recorded
	// during the netting scan.
	Balance decimal.NullDecimal
	// Label accumulates human-readable trace fragments from every merge.
	Label string
	// Late marks events whose original date preceded the run anchor.
	Late bool
	// Level is the BOM depth at which the event was generated (0 = top).
	Level int
	// Details carries the contributing sales-order lines in allocation
	// priority order. Only populated for sales-order-sourced events.
	Details []EventDetail
}

// Key returns the merge key for the event
func (e *LedgerEvent) Key() EventKey {
	return EventKey{
		Product:  e.Product,
		Facility: e.Facility,
		At:       e.At.UTC().UnixNano(),
		Type:     e.Type,
	}
}

// EventDetail is one sales-order line's contribution to a ledger event
type EventDetail struct {
	OrderID     string
	OrderLineID string
	Quantity    decimal.Decimal
}
