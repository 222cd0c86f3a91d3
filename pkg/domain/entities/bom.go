package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMComponent is one component line of a product's selected routing
type BOMComponent struct {
	Product     ProductID
	QuantityPer decimal.Decimal
	// EffectiveFrom/EffectiveTo bound the component's validity window.
	// A zero EffectiveTo means open-ended.
	EffectiveFrom time.Time
	EffectiveTo   time.Time
	// StartOffset shifts the component's need date earlier than the parent's
	// date when the routing task consuming it starts before completion.
	StartOffset time.Duration
	TaskRef     string
}

// EffectiveAt reports whether the component is within its validity window
func (c *BOMComponent) EffectiveAt(at time.Time) bool {
	if !c.EffectiveFrom.IsZero() && at.Before(c.EffectiveFrom) {
		return false
	}
	if !c.EffectiveTo.IsZero() && at.After(c.EffectiveTo) {
		return false
	}
	return true
}

// Explosion is the result of exploding one BOM level for a product
type Explosion struct {
	Manufactured bool
	RoutingID    string
	Components   []BOMComponent
}
