package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/netstock/planner/pkg/application/services/planning"
	"github.com/netstock/planner/pkg/infrastructure/repositories/sqlite"
	"github.com/netstock/planner/pkg/interfaces/api"
)

// ServeCommand loads a scenario and exposes planning runs over HTTP.
type ServeCommand struct {
	config Config
	addr   string
}

// NewServeCommand creates a new serve command listening on addr
func NewServeCommand(config Config, addr string) *ServeCommand {
	return &ServeCommand{config: config, addr: addr}
}

// Execute starts the HTTP server. It blocks until the context is cancelled
// or the listener fails.
func (c *ServeCommand) Execute(ctx context.Context) error {
	if c.config.ScenarioDir == "" {
		return fmt.Errorf("scenario directory is required (use -scenario)")
	}

	plan := &PlanCommand{config: c.config}
	opts, err := plan.loadOptions()
	if err != nil {
		return fmt.Errorf("failed to load run options: %w", err)
	}
	scenario, err := plan.loadScenario()
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

	var store *sqlite.Store
	if c.config.DBPath != "" {
		store, err = sqlite.New(c.config.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open result store: %w", err)
		}
		defer store.Close()
	}

	handler := api.NewHandler(planner, store, opts)
	server := &http.Server{
		Addr:    c.addr,
		Handler: api.NewRouter(handler),
	}

	go func() {
		<-ctx.Done()
		server.Close()
	}()

	slog.Info("planner API listening", "addr", c.addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
