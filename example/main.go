package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/netstock/planner/pkg/application/services/planning"
	testdata "github.com/netstock/planner/pkg/infrastructure/testing"
	"github.com/netstock/planner/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()

	// Build the demo network: a distribution center feeding two branches
	now := time.Now().UTC()
	repos := testdata.BuildNetworkTestData(now)

	planner, err := planning.New(planning.Deps{
		Balances:      repos.Balances,
		BOM:           repos.BOM,
		Catalog:       repos.Catalog,
		Replenishment: repos.Replenishment,
		Lots:          repos.Lots,
		Sources:       repos.Sources,
		Writer:        repos.Writer,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := planning.DefaultOptions()
	opts.FacilityGroup = "network"

	fmt.Println("🏭 Planning the demo warehouse network...")

	start := time.Now()
	result, err := planner.Plan(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := output.Generate(result, output.Config{
		Format:   "text",
		Verbose:  true,
		PlanTime: time.Since(start),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
