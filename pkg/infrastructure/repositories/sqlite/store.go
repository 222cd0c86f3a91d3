// Package sqlite persists planning run output. A completed run's
// requirements, commitments, and ledger events become visible in one
// transaction, or not at all.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/application/dto"
	"github.com/netstock/planner/pkg/domain/entities"
)

// Store persists planning results in SQLite
type Store struct {
	db *sql.DB
}

// New creates a store backed by the database at path. Use ":memory:" for an
// in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		levels_scanned INTEGER NOT NULL,
		warnings INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS requirements (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES runs(id),
		product TEXT NOT NULL,
		facility_from TEXT,
		facility_to TEXT NOT NULL,
		kind TEXT NOT NULL,
		quantity TEXT NOT NULL,
		start_date TEXT NOT NULL,
		required_by TEXT NOT NULL,
		status TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_requirements_run ON requirements(run_id);
	CREATE INDEX IF NOT EXISTS idx_requirements_product ON requirements(product, facility_to);

	CREATE TABLE IF NOT EXISTS commitments (
		run_id TEXT NOT NULL REFERENCES runs(id),
		order_id TEXT NOT NULL,
		order_line_id TEXT NOT NULL,
		requirement_id TEXT NOT NULL,
		quantity TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_commitments_requirement ON commitments(requirement_id);

	CREATE TABLE IF NOT EXISTS ledger_events (
		run_id TEXT NOT NULL REFERENCES runs(id),
		product TEXT NOT NULL,
		facility TEXT NOT NULL,
		at TEXT NOT NULL,
		event_type TEXT NOT NULL,
		quantity TEXT NOT NULL,
		balance TEXT,
		label TEXT,
		late INTEGER NOT NULL,
		level INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_ledger_run_product ON ledger_events(run_id, product, facility, at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveResult writes a completed run in a single transaction
func (s *Store) SaveResult(ctx context.Context, result *dto.PlanResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, completed_at, levels_scanned, warnings) VALUES (?, ?, ?, ?, ?)`,
		result.RunID,
		result.StartedAt.UTC().Format(time.RFC3339Nano),
		result.CompletedAt.UTC().Format(time.RFC3339Nano),
		result.LevelsScanned,
		len(result.Warnings),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, req := range result.Requirements {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO requirements (id, run_id, product, facility_from, facility_to, kind, quantity, start_date, required_by, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			req.ID, result.RunID, string(req.Product), string(req.FacilityFrom), string(req.FacilityTo),
			req.Kind.String(), req.Quantity.String(),
			req.StartDate.UTC().Format(time.RFC3339Nano),
			req.RequiredBy.UTC().Format(time.RFC3339Nano),
			req.Status.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert requirement %s: %w", req.ID, err)
		}
	}

	for _, c := range result.Commitments {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO commitments (run_id, order_id, order_line_id, requirement_id, quantity) VALUES (?, ?, ?, ?, ?)`,
			result.RunID, c.OrderID, c.OrderLineID, c.RequirementID, c.Quantity.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert commitment for %s: %w", c.RequirementID, err)
		}
	}

	for _, ev := range result.Events {
		var balance any
		if ev.Balance.Valid {
			balance = ev.Balance.Decimal.String()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO ledger_events (run_id, product, facility, at, event_type, quantity, balance, label, late, level)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			result.RunID, string(ev.Product), string(ev.Facility),
			ev.At.UTC().Format(time.RFC3339Nano), ev.Type.String(),
			ev.Quantity.String(), balance, ev.Label, boolToInt(ev.Late), ev.Level,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ledger event for %s: %w", ev.Product, err)
		}
	}

	return tx.Commit()
}

// PurgeRun removes a previously saved run and everything attached to it
func (s *Store) PurgeRun(ctx context.Context, runID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM ledger_events WHERE run_id = ?`,
		`DELETE FROM commitments WHERE run_id = ?`,
		`DELETE FROM requirements WHERE run_id = ?`,
		`DELETE FROM runs WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, runID); err != nil {
			return fmt.Errorf("failed to purge run %s: %w", runID, err)
		}
	}
	return tx.Commit()
}

// LatestRunID returns the id of the most recently completed run
func (s *Store) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs ORDER BY completed_at DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no completed runs")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest run: %w", err)
	}
	return id, nil
}

// Requirements returns the requirements saved for a run
func (s *Store) Requirements(ctx context.Context, runID string) ([]entities.Requirement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product, facility_from, facility_to, kind, quantity, start_date, required_by, status
		 FROM requirements WHERE run_id = ? ORDER BY product, required_by`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query requirements: %w", err)
	}
	defer rows.Close()

	var out []entities.Requirement
	for rows.Next() {
		var req entities.Requirement
		var product, from, to, kind, quantity, start, requiredBy, status string
		if err := rows.Scan(&req.ID, &product, &from, &to, &kind, &quantity, &start, &requiredBy, &status); err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		req.Product = entities.ProductID(product)
		req.FacilityFrom = entities.FacilityID(from)
		req.FacilityTo = entities.FacilityID(to)
		req.Kind, err = parseKind(kind)
		if err != nil {
			return nil, err
		}
		req.Status, err = parseStatus(status)
		if err != nil {
			return nil, err
		}
		req.Quantity, err = decimal.NewFromString(quantity)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %s: %w", quantity, err)
		}
		req.StartDate, err = time.Parse(time.RFC3339Nano, start)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %s: %w", start, err)
		}
		req.RequiredBy, err = time.Parse(time.RFC3339Nano, requiredBy)
		if err != nil {
			return nil, fmt.Errorf("invalid required-by date %s: %w", requiredBy, err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Commitments returns the commitments saved for a run
func (s *Store) Commitments(ctx context.Context, runID string) ([]entities.Commitment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_id, order_line_id, requirement_id, quantity FROM commitments WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query commitments: %w", err)
	}
	defer rows.Close()

	var out []entities.Commitment
	for rows.Next() {
		var c entities.Commitment
		var quantity string
		if err := rows.Scan(&c.OrderID, &c.OrderLineID, &c.RequirementID, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan commitment: %w", err)
		}
		c.Quantity, err = decimal.NewFromString(quantity)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %s: %w", quantity, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseKind(s string) (entities.RequirementKind, error) {
	switch s {
	case "Purchase":
		return entities.KindPurchase, nil
	case "Transfer":
		return entities.KindTransfer, nil
	case "PendingInternal":
		return entities.KindPendingInternal, nil
	case "Internal":
		return entities.KindInternal, nil
	default:
		return entities.KindPurchase, fmt.Errorf("invalid requirement kind: %s", s)
	}
}

func parseStatus(s string) (entities.RequirementStatus, error) {
	switch s {
	case "Proposed":
		return entities.StatusProposed, nil
	case "Approved":
		return entities.StatusApproved, nil
	case "Closed":
		return entities.StatusClosed, nil
	default:
		return entities.StatusProposed, fmt.Errorf("invalid requirement status: %s", s)
	}
}
