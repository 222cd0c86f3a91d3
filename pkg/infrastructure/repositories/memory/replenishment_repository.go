package memory

import (
	"context"
	"fmt"

	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/domain/repositories"
)

// ReplenishmentRepository provides in-memory replenishment rules and backup
// facility sequences.
type ReplenishmentRepository struct {
	configs map[balanceKey]entities.ReplenishConfig
	backups map[entities.FacilityID][]entities.FacilityID
}

// NewReplenishmentRepository creates a new in-memory replenishment repository
func NewReplenishmentRepository() *ReplenishmentRepository {
	return &ReplenishmentRepository{
		configs: make(map[balanceKey]entities.ReplenishConfig),
		backups: make(map[entities.FacilityID][]entities.FacilityID),
	}
}

// Verify interface compliance
var _ repositories.ReplenishmentRepository = (*ReplenishmentRepository)(nil)

// LoadConfig registers the replenishment rules for a product at a facility
func (r *ReplenishmentRepository) LoadConfig(cfg entities.ReplenishConfig) {
	r.configs[balanceKey{cfg.Product, cfg.Facility}] = cfg
}

// LoadBackups registers a facility's ordered backup source facilities
func (r *ReplenishmentRepository) LoadBackups(facility entities.FacilityID, backups []entities.FacilityID) {
	r.backups[facility] = backups
}

// Config returns the replenishment rules for a product at a facility
func (r *ReplenishmentRepository) Config(ctx context.Context, product entities.ProductID, facility entities.FacilityID) (*entities.ReplenishConfig, error) {
	cfg, ok := r.configs[balanceKey{product, facility}]
	if !ok {
		return nil, fmt.Errorf("no replenishment configuration for %s at %s", product, facility)
	}
	return &cfg, nil
}

// BackupFacilities returns the facility's backup sources in configured order
func (r *ReplenishmentRepository) BackupFacilities(ctx context.Context, facility entities.FacilityID) ([]entities.FacilityID, error) {
	return r.backups[facility], nil
}
