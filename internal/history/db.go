package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	monitor TEXT NOT NULL,
	window_key TEXT NOT NULL,
	started_at TEXT NOT NULL,
	status TEXT NOT NULL,
	output TEXT DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_monitor ON runs(monitor);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run is one recorded action invocation. Every fire attempt lands here,
// success or failure; the gate never reads this table back, so a restart
// starts with a clean in-memory window state as documented.
type Run struct {
	ID        string
	Monitor   string
	WindowKey string
	StartedAt time.Time
	Status    string
	Output    string
}

// DB wraps the SQLite history database.
type DB struct {
	*sql.DB
}

// Open opens or creates the history database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// RecordRun appends an action run. The generated id is returned.
func (db *DB) RecordRun(monitor, windowKey string, startedAt time.Time, status, output string) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO runs (id, monitor, window_key, started_at, status, output) VALUES (?, ?, ?, ?, ?, ?)`,
		id, monitor, windowKey, startedAt.UTC().Format(time.RFC3339), status, output,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RecentRuns returns the n most recent runs, newest first. monitor filters
// to one monitor when non-empty.
func (db *DB) RecentRuns(monitor string, n int) ([]Run, error) {
	query := `SELECT id, monitor, window_key, started_at, status, output FROM runs`
	var args []interface{}
	if monitor != "" {
		query += ` WHERE monitor = ?`
		args = append(args, monitor)
	}
	query += ` ORDER BY started_at DESC, rowid DESC LIMIT ?`
	args = append(args, n)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var startedAt string
		if err := rows.Scan(&r.ID, &r.Monitor, &r.WindowKey, &startedAt, &r.Status, &r.Output); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}
