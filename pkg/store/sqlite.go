package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/observability"
)

// Fixed-width timestamps so created_at sorts lexically.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	monitor_count INTEGER NOT NULL,
	pair_count INTEGER NOT NULL,
	body TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at);
`

// SQLiteStore keeps runs in a single-file SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create db dir")
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open sqlite")
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping sqlite")
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "migrate sqlite")
	}
	return &SQLiteStore{db: db}, nil
}

// Save inserts r or replaces the run with the same ID.
func (s *SQLiteStore) Save(ctx context.Context, r *Run) error {
	if err := checkRun(r); err != nil {
		return err
	}
	body, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSerialization, err, "encode run %s", r.ID)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO runs(id, created_at, monitor_count, pair_count, body)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	monitor_count=excluded.monitor_count,
	pair_count=excluded.pair_count,
	body=excluded.body
`, r.ID, r.CreatedAt.UTC().Format(sqliteTime), len(r.Monitors), len(r.Results), string(body))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save run %s", r.ID)
	}
	observability.Store().OnStoreSave(ctx, BackendSQLite, len(body))
	return nil
}

// Get returns the run with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	if err := errors.ValidateRunID(id); err != nil {
		return nil, err
	}
	return s.one(ctx, id, `SELECT body FROM runs WHERE id = ?`, id)
}

// Latest returns the most recently created run.
func (s *SQLiteStore) Latest(ctx context.Context) (*Run, error) {
	return s.one(ctx, "", `SELECT body FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`)
}

func (s *SQLiteStore) one(ctx context.Context, id, query string, args ...any) (*Run, error) {
	var body string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if err == sql.ErrNoRows {
		observability.Store().OnStoreMiss(ctx, BackendSQLite)
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query runs")
	}
	var r Run
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode run")
	}
	observability.Store().OnStoreHit(ctx, BackendSQLite)
	return &r, nil
}

// List returns summaries of all runs, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, monitor_count, pair_count
FROM runs
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list runs")
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum     Summary
			created string
		)
		if err := rows.Scan(&sum.ID, &created, &sum.Monitors, &sum.Pairs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan run")
		}
		if sum.CreatedAt, err = time.Parse(sqliteTime, created); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse created_at of %s", sum.ID)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list runs")
	}
	return out, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
