package planning

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
)

// propagateBOM pushes a manufactured product's requested quantity down onto
// its components as ledger events one BOM level deeper, so the netting scan
// can process the next level. Component events merge by the ledger's upsert
// rule.
func (r *run) propagateBOM(
	product entities.ProductID,
	facility entities.FacilityID,
	quantity decimal.Decimal,
	at time.Time,
	level int,
	explosion *entities.Explosion,
) {
	for _, comp := range explosion.Components {
		eventAt := at.Add(-comp.StartOffset)
		if !comp.EffectiveAt(eventAt) {
			continue
		}
		delta := comp.QuantityPer.Mul(quantity)
		if !delta.IsPositive() {
			continue
		}
		r.addEvent(entities.LedgerEvent{
			Product:  comp.Product,
			Facility: facility,
			At:       eventAt,
			Type:     entities.EventComponentDemand,
			Quantity: delta.Neg(),
			Label:    fmt.Sprintf("BOM %s x%s", product, quantity),
			Level:    level + 1,
		})
	}
}
