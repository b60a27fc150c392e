package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fulfillment-sim/fulfillment-sim/sim"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for simulation results.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies pragmas and the schema; safe to call on an existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// SaveRun writes res and the configuration that produced it.
// Saving the same run ID twice is an error.
func (s *Store) SaveRun(ctx context.Context, res *sim.Result, cfg sim.SimConfig) (err error) {
	summaryJSON, err := json.Marshal(res.Summary)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seed, initial_stock, return_rate_percent, delay_min, delay_max, num_orders,
		 cumulative_profit, stockout_count, invalid_delays, total_stock_used, current_stock, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		res.RunID,
		cfg.Seed,
		res.InitialStock,
		cfg.ReturnRatePercent,
		cfg.DelayMin,
		cfg.DelayMax,
		res.Summary.Orders,
		res.CumulativeProfit,
		res.StockoutCount,
		res.InvalidDelays,
		res.TotalStockUsed,
		res.CurrentStock,
		string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", res.RunID, err)
	}

	outcomeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO outcomes
		(run_id, seq, sim_time, order_id, delivery_class, status, profit, delay_days,
		 cumulative_profit, holding_cost, stock_consumed, remaining_stock)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save run %s: %w", res.RunID, err)
	}
	defer outcomeStmt.Close()

	for i, rec := range res.Log {
		_, err = outcomeStmt.ExecContext(ctx,
			res.RunID, i, rec.SimTime, rec.OrderID, string(rec.DeliveryClass), string(rec.Status),
			rec.Profit, rec.DelayDays, rec.CumulativeProfit, rec.HoldingCost,
			rec.StockConsumed, rec.RemainingStock,
		)
		if err != nil {
			return fmt.Errorf("save outcome %d of run %s: %w", i, res.RunID, err)
		}
	}

	for day, stock := range res.StockLevels {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO stock_levels (run_id, sim_time, remaining_stock) VALUES (?, ?, ?)`,
			res.RunID, day, stock,
		)
		if err != nil {
			return fmt.Errorf("save stock level day %d of run %s: %w", day, res.RunID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save run %s: %w", res.RunID, err)
	}
	return nil
}

// CountOutcomes returns the number of stored outcomes per status for a run.
func (s *Store) CountOutcomes(ctx context.Context, runID string) (map[sim.OrderStatus]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM outcomes WHERE run_id = ? GROUP BY status`, runID)
	if err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[sim.OrderStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("count outcomes: %w", err)
		}
		counts[sim.OrderStatus(status)] = n
	}
	return counts, rows.Err()
}

// StockLevels returns the stored end-of-day stock series for a run, ordered by day.
func (s *Store) StockLevels(ctx context.Context, runID string) ([]sim.StockLevel, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sim_time, remaining_stock FROM stock_levels WHERE run_id = ? ORDER BY sim_time`, runID)
	if err != nil {
		return nil, fmt.Errorf("stock levels: %w", err)
	}
	defer rows.Close()

	var out []sim.StockLevel
	for rows.Next() {
		var lvl sim.StockLevel
		if err := rows.Scan(&lvl.SimTime, &lvl.RemainingStock); err != nil {
			return nil, fmt.Errorf("stock levels: %w", err)
		}
		out = append(out, lvl)
	}
	return out, rows.Err()
}
