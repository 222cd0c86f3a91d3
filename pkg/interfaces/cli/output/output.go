// Package output renders planning results for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/netstock/planner/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	PlanTime  time.Duration
}

// Generate creates output in the specified format
func Generate(result *dto.PlanResult, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result *dto.PlanResult, config Config) error {
	fmt.Printf("📊 Planning Run Summary\n")
	fmt.Printf("=======================\n\n")
	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Requirements: %d\n", len(result.Requirements))
	fmt.Printf("Commitments: %d\n", len(result.Commitments))
	fmt.Printf("Ledger Events: %d\n", len(result.Events))
	fmt.Printf("Warnings: %d\n", len(result.Warnings))
	fmt.Printf("Plan Time: %v\n\n", config.PlanTime)

	if len(result.Requirements) > 0 {
		fmt.Printf("📋 Proposed Requirements:\n")
		fmt.Printf("%-12s %-10s %-10s %-16s %-12s %-12s\n",
			"Product", "Qty", "Kind", "Facility", "Start", "Required By")
		fmt.Printf("%-12s %-10s %-10s %-16s %-12s %-12s\n",
			"------------", "----------", "----------", "----------------", "------------", "------------")
		for _, req := range result.Requirements {
			facility := string(req.FacilityTo)
			if req.FacilityFrom != "" {
				facility = fmt.Sprintf("%s→%s", req.FacilityFrom, req.FacilityTo)
			}
			fmt.Printf("%-12s %-10s %-10s %-16s %-12s %-12s\n",
				req.Product,
				req.Quantity.String(),
				req.Kind.String(),
				facility,
				req.StartDate.Format("2006-01-02"),
				req.RequiredBy.Format("2006-01-02"))
		}
		fmt.Println()
	}

	if config.Verbose && len(result.Events) > 0 {
		fmt.Printf("📒 Ledger Projection:\n")
		fmt.Printf("%-12s %-10s %-12s %-20s %-10s %-10s\n",
			"Product", "Facility", "Date", "Type", "Qty", "Balance")
		fmt.Printf("%-12s %-10s %-12s %-20s %-10s %-10s\n",
			"------------", "----------", "------------", "--------------------", "----------", "----------")
		for _, ev := range result.Events {
			balance := ""
			if ev.Balance.Valid {
				balance = ev.Balance.Decimal.String()
			}
			fmt.Printf("%-12s %-10s %-12s %-20s %-10s %-10s\n",
				ev.Product,
				ev.Facility,
				ev.At.Format("2006-01-02"),
				ev.Type.String(),
				ev.Quantity.String(),
				balance)
		}
		fmt.Println()
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("⚠️  Warnings:\n")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	if config.OutputDir != "" {
		return writeJSONFile(result, config.OutputDir)
	}
	return nil
}

// generateJSONOutput writes the result as JSON to stdout or the output dir
func generateJSONOutput(result *dto.PlanResult, config Config) error {
	if config.OutputDir != "" {
		return writeJSONFile(result, config.OutputDir)
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeJSONFile(result *dto.PlanResult, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("plan_%s.json", result.RunID))
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("💾 Result written to %s\n", path)
	return nil
}
