package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"ScreenSentinel/internal/model"
)

// ErrRunNotFound is returned by RunResults for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

const topSymbols = 3

// SQLiteRecorder persists screening runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the history command read while a scheduled run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS screening_runs (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			screener     TEXT NOT NULL,
			region       TEXT,
			preset       TEXT,
			top_n        INTEGER,
			result_count INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON screening_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS screening_results (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL REFERENCES screening_runs(id),
			rank           INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			name           TEXT,
			score          REAL,
			match_type     TEXT,
			classification TEXT,
			payload        TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON screening_results(run_id, rank)`,
		`CREATE INDEX IF NOT EXISTS idx_results_symbol ON screening_results(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores run and its rows in one transaction.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO screening_runs
		(id, timestamp, screener, region, preset, top_n, result_count)
		VALUES (?,?,?,?,?,?,?)`,
		run.ID, run.StartedAt.UnixMilli(), run.Screener, run.Region, run.Preset, run.TopN, len(run.Results),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO screening_results
		(run_id, rank, symbol, name, score, match_type, classification, payload)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i, res := range run.Results {
		payload, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("encode %s: %w", res.Symbol, err)
		}
		match := res.MatchType
		if match == "" {
			match = res.PullbackMatch
		}
		_, err = stmt.ExecContext(ctx, run.ID, i+1, res.Symbol, res.Name, PrimaryScore(res),
			string(match), string(res.Classification), string(payload))
		if err != nil {
			return fmt.Errorf("insert result %s: %w", res.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Debug().Str("run_id", run.ID).Str("screener", run.Screener).Int("results", len(run.Results)).Msg("run recorded")
	return nil
}

// RecentRuns lists the newest runs first.
func (r *SQLiteRecorder) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, timestamp, screener, region, preset, top_n, result_count
		FROM screening_runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s  RunSummary
			ts int64
		)
		if err := rows.Scan(&s.ID, &ts, &s.Screener, &s.Region, &s.Preset, &s.TopN, &s.ResultCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.StartedAt = time.UnixMilli(ts).UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		syms, err := r.topSymbols(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].TopSymbols = syms
	}
	return out, nil
}

func (r *SQLiteRecorder) topSymbols(ctx context.Context, runID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT symbol FROM screening_results
		WHERE run_id = ? ORDER BY rank LIMIT ?`, runID, topSymbols)
	if err != nil {
		return nil, fmt.Errorf("query top symbols: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// RunResults returns the stored rows of a run in rank order.
func (r *SQLiteRecorder) RunResults(ctx context.Context, runID string) ([]model.RankedResult, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM screening_runs WHERE id = ?`, runID).Scan(&n); err != nil {
		return nil, fmt.Errorf("lookup run: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM screening_results WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	out := []model.RankedResult{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var res model.RankedResult
		if err := json.Unmarshal([]byte(payload), &res); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
