package memory

import (
	"context"
	"fmt"

	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/domain/repositories"
)

// CatalogRepository provides in-memory product and facility master data
type CatalogRepository struct {
	products map[entities.ProductID]entities.Product
	groups   map[string][]entities.FacilityID
}

// NewCatalogRepository creates a new in-memory catalog repository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		products: make(map[entities.ProductID]entities.Product),
		groups:   make(map[string][]entities.FacilityID),
	}
}

// Verify interface compliance
var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// LoadProducts loads products into the repository
func (r *CatalogRepository) LoadProducts(products []*entities.Product) error {
	for _, p := range products {
		r.products[p.ID] = *p
	}
	return nil
}

// LoadFacilityGroup registers an ordered facility planning sequence
func (r *CatalogRepository) LoadFacilityGroup(group string, facilities []entities.FacilityID) {
	r.groups[group] = facilities
}

// Product returns the product with the given id
func (r *CatalogRepository) Product(ctx context.Context, id entities.ProductID) (*entities.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product not found: %s", id)
	}
	return &p, nil
}

// ProductsBySupplier returns the ids of all products sourced from a supplier
func (r *CatalogRepository) ProductsBySupplier(ctx context.Context, supplier entities.SupplierID) ([]entities.ProductID, error) {
	var out []entities.ProductID
	for id, p := range r.products {
		if p.Supplier == supplier {
			out = append(out, id)
		}
	}
	return out, nil
}

// FacilityGroup returns the ordered facilities of a planning group
func (r *CatalogRepository) FacilityGroup(ctx context.Context, group string) ([]entities.FacilityID, error) {
	facilities, ok := r.groups[group]
	if !ok {
		return nil, fmt.Errorf("facility group not found: %s", group)
	}
	return facilities, nil
}
