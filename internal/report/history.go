package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// Registers the pgx driver with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS lakeforge_runs (
	run_id      TEXT PRIMARY KEY,
	outcome     TEXT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	report      JSONB NOT NULL
)`

// History records run outcomes in Postgres, one row per run, with the full
// report attached for later inspection.
type History struct {
	db *sql.DB
}

// OpenHistory connects to the history database and ensures the schema.
func OpenHistory(ctx context.Context, databaseURL string) (*History, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring history schema: %w", err)
	}
	return &History{db: db}, nil
}

// Record inserts the run. Re-recording the same run ID overwrites the prior
// row, so retried uploads are harmless.
func (h *History) Record(ctx context.Context, report *orchestrator.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO lakeforge_runs (run_id, outcome, started_at, finished_at, report)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id) DO UPDATE SET
			outcome = EXCLUDED.outcome,
			finished_at = EXCLUDED.finished_at,
			report = EXCLUDED.report`,
		report.RunID, string(report.Outcome), report.StartedAt, report.FinishedAt, data,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", report.RunID, err)
	}
	return nil
}

// Recent returns the outcomes of the most recent runs, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT run_id, outcome, started_at, finished_at
		FROM lakeforge_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying run history: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.RunID, &s.Outcome, &s.StartedAt, &s.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning run history: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Close releases the database connection pool.
func (h *History) Close() error {
	return h.db.Close()
}

// RunSummary is one row of run history.
type RunSummary struct {
	RunID      string
	Outcome    string
	StartedAt  time.Time
	FinishedAt time.Time
}
