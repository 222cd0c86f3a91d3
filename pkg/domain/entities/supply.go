package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReservation is an approved, unshipped sales-order line reservation.
// The three delivery dates are each optional; a zero time means unset.
type SalesReservation struct {
	OrderID           string
	OrderLineID       string
	Product           ProductID
	Facility          FacilityID
	OpenQuantity      decimal.Decimal
	ShipBy            time.Time
	RequestedDelivery time.Time
	PromisedDelivery  time.Time
}

// DueDate returns the earliest of the reservation's optional delivery dates.
// The second return is false when no date is set at all.
func (r *SalesReservation) DueDate() (time.Time, bool) {
	var earliest time.Time
	for _, candidate := range []time.Time{r.ShipBy, r.RequestedDelivery, r.PromisedDelivery} {
		if candidate.IsZero() {
			continue
		}
		if earliest.IsZero() || candidate.Before(earliest) {
			earliest = candidate
		}
	}
	return earliest, !earliest.IsZero()
}

// PurchaseOrderLine is an approved purchase-order line with open quantity
type PurchaseOrderLine struct {
	OrderID          string
	OrderLineID      string
	Product          ProductID
	Facility         FacilityID
	OrderedQty       decimal.Decimal
	ReceivedQty      decimal.Decimal
	EstimatedReceipt time.Time
}

// OpenQuantity returns the quantity still expected to arrive
func (l *PurchaseOrderLine) OpenQuantity() decimal.Decimal {
	open := l.OrderedQty.Sub(l.ReceivedQty)
	if open.IsNegative() {
		return decimal.Zero
	}
	return open
}

// ProductionNeed is a component requirement of an active production run that
// has not yet been fully issued to the shop floor.
type ProductionNeed struct {
	RunID       string
	Product     ProductID
	Facility    FacilityID
	RequiredQty decimal.Decimal
	IssuedQty   decimal.Decimal
	TaskStart   time.Time
}

// OpenQuantity returns the component quantity still to be issued
func (n *ProductionNeed) OpenQuantity() decimal.Decimal {
	open := n.RequiredQty.Sub(n.IssuedQty)
	if open.IsNegative() {
		return decimal.Zero
	}
	return open
}

// ProductionOutput is the expected yield of an active production run that has
// not yet been produced.
type ProductionOutput struct {
	RunID               string
	Product             ProductID
	Facility            FacilityID
	PlannedQty          decimal.Decimal
	ProducedQty         decimal.Decimal
	EstimatedCompletion time.Time
}

// OpenQuantity returns the output quantity still expected
func (o *ProductionOutput) OpenQuantity() decimal.Decimal {
	open := o.PlannedQty.Sub(o.ProducedQty)
	if open.IsNegative() {
		return decimal.Zero
	}
	return open
}

// ScheduledTransfer is an already-scheduled inter-facility stock movement
type ScheduledTransfer struct {
	TransferID   string
	Product      ProductID
	FacilityFrom FacilityID
	FacilityTo   FacilityID
	Quantity     decimal.Decimal
	ShipDate     time.Time
	ReceiptDate  time.Time
}

// Forecast is one forward sales-forecast bucket
type Forecast struct {
	Product  ProductID
	Facility FacilityID
	Quantity decimal.Decimal
	Date     time.Time
}
