// Package testing provides a canonical warehouse-network dataset for
// integration tests and the example program.
package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/infrastructure/repositories/memory"
)

// NetworkRepos bundles the repositories of the demo network.
type NetworkRepos struct {
	Balances      *memory.BalanceRepository
	BOM           *memory.BOMRepository
	Catalog       *memory.CatalogRepository
	Replenishment *memory.ReplenishmentRepository
	Lots          *memory.LotConstraintRepository
	Sources       *memory.SourceRepository
	Writer        *memory.OrderWriter
}

// BuildNetworkTestData builds a two-echelon demo network: a central
// distribution facility feeding two branches, a manufactured kit with a
// two-component routing, open sales orders at the branches, and one inbound
// purchase order at the center. now anchors all relative dates.
func BuildNetworkTestData(now time.Time) *NetworkRepos {
	catalog := memory.NewCatalogRepository()
	repos := &NetworkRepos{
		Balances:      memory.NewBalanceRepository(),
		BOM:           memory.NewBOMRepository(),
		Catalog:       catalog,
		Replenishment: memory.NewReplenishmentRepository(),
		Lots:          memory.NewLotConstraintRepository(),
		Sources:       memory.NewSourceRepository(catalog),
		Writer:        memory.NewOrderWriter(catalog),
	}

	_ = repos.Catalog.LoadProducts([]*entities.Product{
		{ID: "KIT-100", Description: "Service kit", Supplier: "SUP-A", UnitOfMeasure: "EA"},
		{ID: "PART-10", Description: "Housing", Supplier: "SUP-A", UnitOfMeasure: "EA"},
		{ID: "PART-20", Description: "Seal set", Supplier: "SUP-B", UnitOfMeasure: "EA"},
	})
	repos.Catalog.LoadFacilityGroup("network", []entities.FacilityID{"DC", "BR-1", "BR-2"})

	// Replenishment policy: branches pull from the DC when it has stock,
	// the DC buys or builds.
	for _, cfg := range []entities.ReplenishConfig{
		{Product: "KIT-100", Facility: "DC", MinStock: decimal.NewFromInt(5), ReorderQty: decimal.NewFromInt(10), LeadTimeDays: 7, Method: entities.ReplenishNever},
		{Product: "KIT-100", Facility: "BR-1", MinStock: decimal.NewFromInt(2), ReorderQty: decimal.NewFromInt(4), LeadTimeDays: 3, Method: entities.ReplenishBackupIfAvailable},
		{Product: "KIT-100", Facility: "BR-2", MinStock: decimal.NewFromInt(2), ReorderQty: decimal.NewFromInt(4), LeadTimeDays: 3, Method: entities.ReplenishBackupIfAvailable},
		{Product: "PART-10", Facility: "DC", MinStock: decimal.Zero, ReorderQty: decimal.NewFromInt(20), LeadTimeDays: 14, Method: entities.ReplenishNever},
		{Product: "PART-20", Facility: "DC", MinStock: decimal.Zero, ReorderQty: decimal.NewFromInt(40), LeadTimeDays: 10, Method: entities.ReplenishNever},
	} {
		repos.Replenishment.LoadConfig(cfg)
	}
	repos.Replenishment.LoadBackups("BR-1", []entities.FacilityID{"DC"})
	repos.Replenishment.LoadBackups("BR-2", []entities.FacilityID{"DC"})

	repos.Balances.SetBalance("KIT-100", "DC", decimal.NewFromInt(12))
	repos.Balances.SetBalance("KIT-100", "BR-1", decimal.NewFromInt(1))
	repos.Balances.SetBalance("KIT-100", "BR-2", decimal.NewFromInt(3))
	repos.Balances.SetBalance("PART-10", "DC", decimal.NewFromInt(4))
	repos.Balances.SetBalance("PART-20", "DC", decimal.NewFromInt(50))

	repos.BOM.LoadRouting("KIT-100", "RT-KIT", []entities.BOMComponent{
		{Product: "PART-10", QuantityPer: decimal.NewFromInt(1)},
		{Product: "PART-20", QuantityPer: decimal.NewFromInt(2)},
	})

	repos.Sources.LoadSalesReservations([]entities.SalesReservation{
		{
			OrderID:      "SO-1001",
			OrderLineID:  "1",
			Product:      "KIT-100",
			Facility:     "BR-1",
			OpenQuantity: decimal.NewFromInt(6),
			ShipBy:       now.AddDate(0, 0, 5),
		},
		{
			OrderID:           "SO-1002",
			OrderLineID:       "1",
			Product:           "KIT-100",
			Facility:          "BR-2",
			OpenQuantity:      decimal.NewFromInt(4),
			RequestedDelivery: now.AddDate(0, 0, 9),
		},
	})

	repos.Sources.LoadPurchaseLines([]entities.PurchaseOrderLine{
		{
			OrderID:          "PO-2001",
			OrderLineID:      "1",
			Product:          "PART-10",
			Facility:         "DC",
			OrderedQty:       decimal.NewFromInt(10),
			EstimatedReceipt: now.AddDate(0, 0, 4),
		},
	})

	mustConstraint := func(product entities.ProductID, route string, min, max int64) {
		c, err := entities.NewLotConstraint(product, route, decimal.NewFromInt(min), decimal.NewFromInt(max))
		if err != nil {
			panic(err)
		}
		if err := repos.Lots.LoadConstraints([]*entities.LotConstraint{c}); err != nil {
			panic(err)
		}
	}
	mustConstraint("PART-10", "", 5, 25)

	return repos
}
