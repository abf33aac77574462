package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/store"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements store.Store on SQLite.
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) a ledger database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	source TEXT,
	config_yaml TEXT,
	docs INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS doc_results (
	run_id TEXT NOT NULL,
	path TEXT NOT NULL,
	original_len INTEGER NOT NULL,
	clean_len INTEGER NOT NULL,
	spell_change_ratio REAL NOT NULL,
	counts_json TEXT,
	error TEXT,
	PRIMARY KEY(run_id, path),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) CreateRun(ctx context.Context, r store.Run) (store.Run, error) {
	if r.ID == "" {
		r.ID = store.NewRunID()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	r.StartedAt = r.StartedAt.UTC()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, started_at, finished_at, source, config_yaml, docs, failed)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.StartedAt.Format(timeLayout),
		formatTime(r.FinishedAt),
		r.Source,
		r.ConfigYAML,
		r.Docs,
		r.Failed,
	)
	if err != nil {
		return store.Run{}, fmt.Errorf("create run: %w", err)
	}
	return r, nil
}

func (s *sqliteStore) FinishRun(ctx context.Context, id string, finishedAt time.Time, docs, failed int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, docs = ?, failed = ? WHERE id = ?`,
		formatTime(finishedAt.UTC()), docs, failed, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, source, config_yaml, docs, failed`

func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, err
}

func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (store.Run, error) {
	var (
		r                  store.Run
		started            string
		finished           sql.NullString
		source, configYAML sql.NullString
	)
	if err := row.Scan(&r.ID, &started, &finished, &source, &configYAML, &r.Docs, &r.Failed); err != nil {
		return store.Run{}, err
	}
	var err error
	if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return store.Run{}, fmt.Errorf("run %s: bad started_at: %w", r.ID, err)
	}
	if finished.Valid && finished.String != "" {
		if r.FinishedAt, err = time.Parse(timeLayout, finished.String); err != nil {
			return store.Run{}, fmt.Errorf("run %s: bad finished_at: %w", r.ID, err)
		}
	}
	r.Source = source.String
	r.ConfigYAML = configYAML.String
	return r, nil
}

func (s *sqliteStore) RecordDoc(ctx context.Context, d store.DocResult) error {
	countsJSON, err := json.Marshal(d.Counts)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, d.RunID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("run %s: %w", d.RunID, internalerr.ErrNotFound)
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO doc_results (run_id, path, original_len, clean_len, spell_change_ratio, counts_json, error)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id, path) DO UPDATE SET
	original_len=excluded.original_len,
	clean_len=excluded.clean_len,
	spell_change_ratio=excluded.spell_change_ratio,
	counts_json=excluded.counts_json,
	error=excluded.error`,
		d.RunID, d.Path, d.OriginalLen, d.CleanLen, d.SpellChangeRatio, string(countsJSON), d.Error)
	if err != nil {
		return fmt.Errorf("record %s: %w", d.Path, err)
	}
	return tx.Commit()
}

func (s *sqliteStore) DocResults(ctx context.Context, runID string) ([]store.DocResult, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, path, original_len, clean_len, spell_change_ratio, counts_json, error
FROM doc_results WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []store.DocResult
	for rows.Next() {
		var (
			d          store.DocResult
			countsJSON sql.NullString
			errText    sql.NullString
		)
		if err := rows.Scan(&d.RunID, &d.Path, &d.OriginalLen, &d.CleanLen, &d.SpellChangeRatio, &countsJSON, &errText); err != nil {
			return nil, err
		}
		if countsJSON.Valid && countsJSON.String != "" && countsJSON.String != "null" {
			if err := json.Unmarshal([]byte(countsJSON.String), &d.Counts); err != nil {
				return nil, fmt.Errorf("decode counts for %s: %w", d.Path, err)
			}
		}
		d.Error = errText.String
		results = append(results, d)
	}
	return results, rows.Err()
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}
