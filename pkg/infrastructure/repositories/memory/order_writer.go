package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/domain/repositories"
)

// OrderWriter collects requirements and transfers created by a run. It backs
// tests and CLI scenarios; nothing is visible outside the process, which
// trivially satisfies the all-or-nothing contract.
type OrderWriter struct {
	catalog *CatalogRepository

	requirements []entities.Requirement
	transfers    []entities.TransferSpec
	purged       []repositories.SourceScope
}

// NewOrderWriter creates a new in-memory order writer. The catalog is used to
// resolve supplier-narrowed purge scopes and may be nil when supplier
// narrowing is not used.
func NewOrderWriter(catalog *CatalogRepository) *OrderWriter {
	return &OrderWriter{catalog: catalog}
}

// Verify interface compliance
var _ repositories.OrderWriter = (*OrderWriter)(nil)

// CreateRequirement stores a proposed requirement and assigns it an id
func (w *OrderWriter) CreateRequirement(ctx context.Context, req *entities.Requirement) (string, error) {
	if req == nil {
		return "", fmt.Errorf("requirement cannot be nil")
	}
	stored := *req
	stored.ID = uuid.NewString()
	w.requirements = append(w.requirements, stored)
	return stored.ID, nil
}

// CreateTransfer stores an immediate transfer action and returns its ids
func (w *OrderWriter) CreateTransfer(ctx context.Context, spec entities.TransferSpec) ([]string, error) {
	w.transfers = append(w.transfers, spec)
	return []string{uuid.NewString()}, nil
}

// PurgeProposed drops previously proposed requirements for the scope
func (w *OrderWriter) PurgeProposed(ctx context.Context, scope repositories.SourceScope) error {
	w.purged = append(w.purged, scope)
	kept := w.requirements[:0]
	for _, req := range w.requirements {
		if req.Status == entities.StatusProposed && req.FacilityTo == scope.Facility &&
			w.inScope(scope, req.Product) {
			continue
		}
		kept = append(kept, req)
	}
	w.requirements = kept
	return nil
}

// inScope applies the product and supplier narrowing of a purge scope
func (w *OrderWriter) inScope(scope repositories.SourceScope, product entities.ProductID) bool {
	if scope.Product != "" && product != scope.Product {
		return false
	}
	if scope.Supplier != "" {
		if w.catalog == nil {
			return false
		}
		p, ok := w.catalog.products[product]
		if !ok || p.Supplier != scope.Supplier {
			return false
		}
	}
	return true
}

// Requirements returns every requirement created so far
func (w *OrderWriter) Requirements() []entities.Requirement {
	return w.requirements
}

// Transfers returns every immediate transfer created so far
func (w *OrderWriter) Transfers() []entities.TransferSpec {
	return w.transfers
}

// PurgedScopes returns the scopes purged by reinitializing runs
func (w *OrderWriter) PurgedScopes() []repositories.SourceScope {
	return w.purged
}
