package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/netstock/planner/pkg/interfaces/cli/commands"
)

func main() {
	// Optional .env for local defaults, ignored when absent
	_ = godotenv.Load()

	var (
		scenarioDir = flag.String(
			"scenario",
			os.Getenv("PLANNER_SCENARIO"),
			"Path to scenario directory containing CSV files",
		)
		optionsFile = flag.String("options", os.Getenv("PLANNER_OPTIONS"), "Path to YAML run-options file")
		facilities  = flag.String("facilities", "", "Comma-separated facility sequence")
		dbPath      = flag.String("db", os.Getenv("PLANNER_DB"), "SQLite database for run results (optional)")
		format      = flag.String("format", "text", "Output format: text, json")
		verbose     = flag.Bool("verbose", false, "Print the full ledger projection")
		serveAddr   = flag.String("serve", "", "Start the HTTP API on this address instead of a one-shot run")
		help        = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	config := commands.Config{
		ScenarioDir: *scenarioDir,
		OptionsFile: *optionsFile,
		Facilities:  *facilities,
		DBPath:      *dbPath,
		Format:      *format,
		Verbose:     *verbose,
		Help:        *help,
	}

	ctx := context.Background()

	var err error
	if *serveAddr != "" {
		err = commands.NewServeCommand(config, *serveAddr).Execute(ctx)
	} else {
		err = commands.NewPlanCommand(config).Execute(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
