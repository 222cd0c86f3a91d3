package planning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/application/dto"
	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/domain/repositories"
)

// consecutiveEmptyLevelLimit terminates a facility's scan once this many BOM
// levels in a row yield no events.
const consecutiveEmptyLevelLimit = 3

// Deps bundles the external collaborators a Planner needs
type Deps struct {
	Balances      repositories.BalanceReader
	BOM           repositories.BOMExploder
	Catalog       repositories.CatalogRepository
	Replenishment repositories.ReplenishmentRepository
	Lots          repositories.LotConstraintRepository
	Sources       repositories.DemandSupplySource
	Writer        repositories.OrderWriter
	Logger        *slog.Logger

	// Clock overrides the run anchor "now". Nil means time.Now.
	Clock func() time.Time
}

// Planner computes time-phased net requirements for a warehouse network.
// A Planner is stateless between runs; each Plan call recomputes from scratch.
type Planner struct {
	deps Deps
}

// New creates a Planner from its collaborators
func New(deps Deps) (*Planner, error) {
	switch {
	case deps.Balances == nil:
		return nil, fmt.Errorf("balance reader is required")
	case deps.BOM == nil:
		return nil, fmt.Errorf("BOM exploder is required")
	case deps.Catalog == nil:
		return nil, fmt.Errorf("catalog repository is required")
	case deps.Replenishment == nil:
		return nil, fmt.Errorf("replenishment repository is required")
	case deps.Lots == nil:
		return nil, fmt.Errorf("lot constraint repository is required")
	case deps.Sources == nil:
		return nil, fmt.Errorf("demand/supply source is required")
	case deps.Writer == nil:
		return nil, fmt.Errorf("order writer is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Planner{deps: deps}, nil
}

// balanceKey identifies a (product, facility) pair in run-scoped caches
type balanceKey struct {
	product  entities.ProductID
	facility entities.FacilityID
}

// lane identifies a transfer direction between two facilities for a product
type lane struct {
	product entities.ProductID
	from    entities.FacilityID
	to      entities.FacilityID
}

// run holds the mutable state of one planning run. The anchor instant is
// captured once at run start so every date comparison sees the same "now".
type run struct {
	planner *Planner
	now     time.Time
	opts    Options
	log     *slog.Logger

	ledger *Ledger
	result *dto.PlanResult

	// balances caches the externally fetched actual stock per product and
	// facility, fetched at most once per pair.
	balances map[balanceKey]decimal.Decimal
	// running is the projected balance per pair as the netting scan
	// progresses. A pair enters the map on first encounter.
	running map[balanceKey]decimal.Decimal
	// configs caches replenishment rules, including the fallback used when
	// none are configured.
	configs map[balanceKey]*entities.ReplenishConfig
	// transferLanes records scheduled and in-run transfer receipt instants
	// so later shortfalls batch onto existing movements.
	transferLanes map[lane][]time.Time
}

// Plan executes a full planning run and returns its result. All writes go
// through the order-writer collaborator; the caller owns transaction scope.
func (p *Planner) Plan(ctx context.Context, opts Options) (*dto.PlanResult, error) {
	facilities, err := p.resolveFacilities(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := p.checkPreconditions(ctx, opts); err != nil {
		return nil, err
	}

	r := &run{
		planner: p,
		now:     p.deps.Clock().UTC(),
		opts:    opts,
		log:     p.deps.Logger,
		ledger:  NewLedger(),
		result: &dto.PlanResult{
			RunID: uuid.NewString(),
		},
		balances:      make(map[balanceKey]decimal.Decimal),
		running:       make(map[balanceKey]decimal.Decimal),
		configs:       make(map[balanceKey]*entities.ReplenishConfig),
		transferLanes: make(map[lane][]time.Time),
	}
	r.result.StartedAt = r.now
	r.log = r.log.With("run_id", r.result.RunID)

	if opts.Reinitialize {
		for _, facility := range facilities {
			scope := repositories.SourceScope{Facility: facility, Product: opts.Product, Supplier: opts.Supplier}
			if err := p.deps.Writer.PurgeProposed(ctx, scope); err != nil {
				return nil, fmt.Errorf("failed to purge proposed data for %s: %w", facility, err)
			}
		}
	}

	// Facilities are planned strictly in sequence: a later facility's
	// backup availability depends on ledger changes made by earlier ones.
	for _, facility := range facilities {
		if err := r.collectFacility(ctx, facility); err != nil {
			return nil, fmt.Errorf("failed to collect demand/supply for %s: %w", facility, err)
		}
		if err := r.netFacility(ctx, facility); err != nil {
			return nil, fmt.Errorf("failed to net facility %s: %w", facility, err)
		}
	}

	r.result.Events = r.ledger.Events()
	r.result.CompletedAt = p.deps.Clock().UTC()
	r.log.Info("planning run complete",
		"facilities", len(facilities),
		"requirements", len(r.result.Requirements),
		"commitments", len(r.result.Commitments),
		"events", len(r.result.Events),
		"warnings", len(r.result.Warnings))
	return r.result, nil
}

// resolveFacilities determines the ordered facility planning sequence
func (p *Planner) resolveFacilities(ctx context.Context, opts Options) ([]entities.FacilityID, error) {
	facilities := opts.Facilities
	if len(facilities) == 0 && opts.FacilityGroup != "" {
		group, err := p.deps.Catalog.FacilityGroup(ctx, opts.FacilityGroup)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve facility group %s: %w", opts.FacilityGroup, err)
		}
		facilities = group
	}
	if len(facilities) == 0 {
		return nil, fmt.Errorf("no facility resolved for planning run")
	}
	return facilities, nil
}

// checkPreconditions rejects runs whose narrowing scope cannot match anything
func (p *Planner) checkPreconditions(ctx context.Context, opts Options) error {
	if opts.Product != "" {
		if _, err := p.deps.Catalog.Product(ctx, opts.Product); err != nil {
			return fmt.Errorf("unknown product %s: %w", opts.Product, err)
		}
	}
	if opts.Supplier != "" {
		products, err := p.deps.Catalog.ProductsBySupplier(ctx, opts.Supplier)
		if err != nil {
			return fmt.Errorf("failed to resolve supplier %s: %w", opts.Supplier, err)
		}
		if len(products) == 0 {
			return fmt.Errorf("supplier %s has no associated products", opts.Supplier)
		}
	}
	return nil
}

// warnf records a soft anomaly on the result and the log
func (r *run) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.result.Warnings = append(r.result.Warnings, msg)
	r.log.Warn(msg)
}

// balance fetches and caches the actual stock balance for a pair. The bool
// reports whether this call was the first encounter.
func (r *run) balance(ctx context.Context, product entities.ProductID, facility entities.FacilityID) (decimal.Decimal, bool, error) {
	key := balanceKey{product, facility}
	if bal, ok := r.balances[key]; ok {
		return bal, false, nil
	}
	bal, err := r.planner.deps.Balances.AvailableQuantity(ctx, product, facility)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("balance lookup failed for %s at %s: %w", product, facility, err)
	}
	r.balances[key] = bal
	return bal, true, nil
}

// addEvent clamps the event date to the run anchor, flags late events, and
// upserts into the ledger.
func (r *run) addEvent(ev entities.LedgerEvent) *entities.LedgerEvent {
	if ev.At.Before(r.now) {
		ev.Late = true
		ev.At = r.now
	}
	return r.ledger.Upsert(ev)
}

// recordLane remembers a transfer receipt instant for later batching
func (r *run) recordLane(product entities.ProductID, from, to entities.FacilityID, at time.Time) {
	key := lane{product, from, to}
	r.transferLanes[key] = append(r.transferLanes[key], at)
}
