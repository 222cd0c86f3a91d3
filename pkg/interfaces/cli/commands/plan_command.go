// Package commands implements the planner CLI commands.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/netstock/planner/pkg/application/services/planning"
	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/domain/services"
	"github.com/netstock/planner/pkg/infrastructure/repositories/csv"
	"github.com/netstock/planner/pkg/infrastructure/repositories/memory"
	"github.com/netstock/planner/pkg/infrastructure/repositories/sqlite"
	"github.com/netstock/planner/pkg/interfaces/cli/output"
)

// Config holds configuration for the plan command
type Config struct {
	ScenarioDir string
	OptionsFile string
	Facilities  string
	DBPath      string
	Format      string
	Verbose     bool
	Help        bool
}

// PlanCommand loads a scenario, executes a planning run, and renders the
// result.
type PlanCommand struct {
	config Config
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config) *PlanCommand {
	return &PlanCommand{config: config}
}

// optionsFile is the YAML shape of a run-options file
type optionsFile struct {
	Facilities         []string `yaml:"facilities"`
	FacilityGroup      string   `yaml:"facility_group"`
	Product            string   `yaml:"product"`
	Supplier           string   `yaml:"supplier"`
	DefaultHorizonDays int      `yaml:"default_horizon_days"`
	ReceiptBufferHours int      `yaml:"receipt_buffer_hours"`
	Precision          *int32   `yaml:"precision"`
	InterimRounding    string   `yaml:"interim_rounding"`
	FinalRounding      string   `yaml:"final_rounding"`
	ForecastPercent    string   `yaml:"forecast_percent"`
	DeferredOrders     *bool    `yaml:"deferred_orders"`
	Reinitialize       *bool    `yaml:"reinitialize"`
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}
	if c.config.ScenarioDir == "" {
		return fmt.Errorf("scenario directory is required (use -scenario)")
	}

	opts, err := c.loadOptions()
	if err != nil {
		return fmt.Errorf("failed to load run options: %w", err)
	}
	if c.config.Facilities != "" {
		opts.Facilities = nil
		for _, f := range strings.Split(c.config.Facilities, ",") {
			opts.Facilities = append(opts.Facilities, entities.FacilityID(strings.TrimSpace(f)))
		}
	}

	scenario, err := c.loadScenario()
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	planner, err := planning.New(planning.Deps{
		Balances:      scenario.balances,
		BOM:           scenario.bom,
		Catalog:       scenario.catalog,
		Replenishment: scenario.replenishment,
		Lots:          scenario.lots,
		Sources:       scenario.sources,
		Writer:        scenario.writer,
	})
	if err != nil {
		return fmt.Errorf("failed to create planner: %w", err)
	}

	start := time.Now()
	result, err := planner.Plan(ctx, opts)
	if err != nil {
		return fmt.Errorf("planning run failed: %w", err)
	}
	elapsed := time.Since(start)

	if c.config.DBPath != "" {
		store, err := sqlite.New(c.config.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open result store: %w", err)
		}
		defer store.Close()
		if err := store.SaveResult(ctx, result); err != nil {
			return fmt.Errorf("failed to save result: %w", err)
		}
	}

	return output.Generate(result, output.Config{
		Format:   c.config.Format,
		Verbose:  c.config.Verbose,
		PlanTime: elapsed,
	})
}

// loadOptions reads the YAML run-options file, falling back to defaults
func (c *PlanCommand) loadOptions() (planning.Options, error) {
	opts := planning.DefaultOptions()
	if c.config.OptionsFile == "" {
		return opts, nil
	}

	data, err := os.ReadFile(c.config.OptionsFile)
	if err != nil {
		return opts, fmt.Errorf("failed to read %s: %w", c.config.OptionsFile, err)
	}
	var file optionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return opts, fmt.Errorf("failed to parse %s: %w", c.config.OptionsFile, err)
	}

	for _, f := range file.Facilities {
		opts.Facilities = append(opts.Facilities, entities.FacilityID(f))
	}
	opts.FacilityGroup = file.FacilityGroup
	opts.Product = entities.ProductID(file.Product)
	opts.Supplier = entities.SupplierID(file.Supplier)
	if file.DefaultHorizonDays > 0 {
		opts.DefaultHorizon = time.Duration(file.DefaultHorizonDays) * 24 * time.Hour
	}
	if file.ReceiptBufferHours > 0 {
		opts.ReceiptBuffer = time.Duration(file.ReceiptBufferHours) * time.Hour
	}
	if file.Precision != nil {
		opts.Precision = *file.Precision
	}
	if opts.InterimRounding, err = planning.ParseRoundingMode(file.InterimRounding); err != nil {
		return opts, err
	}
	if opts.FinalRounding, err = planning.ParseRoundingMode(file.FinalRounding); err != nil {
		return opts, err
	}
	if file.ForecastPercent != "" {
		pct, err := decimal.NewFromString(file.ForecastPercent)
		if err != nil {
			return opts, fmt.Errorf("invalid forecast_percent: %s", file.ForecastPercent)
		}
		opts.ForecastPercent = pct
	}
	if file.DeferredOrders != nil {
		opts.DeferredOrders = *file.DeferredOrders
	}
	if file.Reinitialize != nil {
		opts.Reinitialize = *file.Reinitialize
	}
	return opts, nil
}

// scenarioRepos bundles the repositories loaded from a scenario directory
type scenarioRepos struct {
	balances      *memory.BalanceRepository
	bom           *memory.BOMRepository
	catalog       *memory.CatalogRepository
	replenishment *memory.ReplenishmentRepository
	lots          *memory.LotConstraintRepository
	sources       *memory.SourceRepository
	writer        *memory.OrderWriter
}

// loadScenario reads the scenario directory's CSV files into repositories.
// products.csv, replenishment.csv, and balances.csv are required; the other
// files are optional.
func (c *PlanCommand) loadScenario() (*scenarioRepos, error) {
	loader := csv.NewLoader()
	dir := c.config.ScenarioDir

	catalog := memory.NewCatalogRepository()
	repos := &scenarioRepos{
		balances:      memory.NewBalanceRepository(),
		bom:           memory.NewBOMRepository(),
		catalog:       catalog,
		replenishment: memory.NewReplenishmentRepository(),
		lots:          memory.NewLotConstraintRepository(),
		sources:       memory.NewSourceRepository(catalog),
		writer:        memory.NewOrderWriter(catalog),
	}

	products, err := loader.LoadProducts(filepath.Join(dir, "products.csv"))
	if err != nil {
		return nil, err
	}
	if err := repos.catalog.LoadProducts(products); err != nil {
		return nil, err
	}

	configs, err := loader.LoadReplenishment(filepath.Join(dir, "replenishment.csv"))
	if err != nil {
		return nil, err
	}
	for _, cfg := range configs {
		repos.replenishment.LoadConfig(cfg)
	}

	balances, err := loader.LoadBalances(filepath.Join(dir, "balances.csv"))
	if err != nil {
		return nil, err
	}
	for product, byFacility := range balances {
		for facility, qty := range byFacility {
			repos.balances.SetBalance(product, facility, qty)
		}
	}

	if path := filepath.Join(dir, "backups.csv"); fileExists(path) {
		backups, err := loader.LoadBackups(path)
		if err != nil {
			return nil, err
		}
		for facility, list := range backups {
			repos.replenishment.LoadBackups(facility, list)
		}
	}

	if path := filepath.Join(dir, "sales_orders.csv"); fileExists(path) {
		reservations, err := loader.LoadSalesOrders(path)
		if err != nil {
			return nil, err
		}
		repos.sources.LoadSalesReservations(reservations)
	}

	if path := filepath.Join(dir, "purchase_orders.csv"); fileExists(path) {
		lines, err := loader.LoadPurchaseOrders(path)
		if err != nil {
			return nil, err
		}
		repos.sources.LoadPurchaseLines(lines)
	}

	if path := filepath.Join(dir, "production_needs.csv"); fileExists(path) {
		needs, err := loader.LoadProductionNeeds(path)
		if err != nil {
			return nil, err
		}
		repos.sources.LoadProductionNeeds(needs)
	}

	if path := filepath.Join(dir, "production_outputs.csv"); fileExists(path) {
		outputs, err := loader.LoadProductionOutputs(path)
		if err != nil {
			return nil, err
		}
		repos.sources.LoadProductionOutputs(outputs)
	}

	if path := filepath.Join(dir, "forecasts.csv"); fileExists(path) {
		forecasts, err := loader.LoadForecasts(path)
		if err != nil {
			return nil, err
		}
		repos.sources.LoadForecasts(forecasts)
	}

	if path := filepath.Join(dir, "transfers.csv"); fileExists(path) {
		transfers, err := loader.LoadTransfers(path)
		if err != nil {
			return nil, err
		}
		repos.sources.LoadScheduledTransfers(transfers)
	}

	if path := filepath.Join(dir, "bom.csv"); fileExists(path) {
		routings, err := loader.LoadBOM(path)
		if err != nil {
			return nil, err
		}
		structure := make(map[entities.ProductID][]entities.BOMComponent, len(routings))
		for product, routing := range routings {
			structure[product] = routing.Components
		}
		if result := services.NewBOMValidator().Validate(structure); !result.OK() {
			return nil, fmt.Errorf("invalid BOM structure: %s", strings.Join(result.Errors, "; "))
		}
		for product, routing := range routings {
			repos.bom.LoadRouting(product, routing.Routing, routing.Components)
		}
	}

	if path := filepath.Join(dir, "lots.csv"); fileExists(path) {
		constraints, err := loader.LoadLotConstraints(path)
		if err != nil {
			return nil, err
		}
		if err := repos.lots.LoadConstraints(constraints); err != nil {
			return nil, err
		}
	}

	return repos, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (c *PlanCommand) showHelp() {
	fmt.Println(`planner - warehouse network material flow planning

USAGE:
  planner -scenario <dir> [options]

OPTIONS:
  -scenario <dir>    Scenario directory with CSV files (required)
  -options <file>    YAML run-options file
  -facilities <ids>  Comma-separated facility sequence (overrides options)
  -db <path>         SQLite database to persist the result
  -format <fmt>      Output format: text, json (default text)
  -verbose           Print the full ledger projection
  -serve <addr>      Start the HTTP API instead of a one-shot run
  -help              Show this help

SCENARIO FILES:
  products.csv, replenishment.csv, balances.csv       required
  backups.csv, sales_orders.csv, purchase_orders.csv,
  production_needs.csv, production_outputs.csv,
  forecasts.csv, transfers.csv, bom.csv, lots.csv     optional`)
}
