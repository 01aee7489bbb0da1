// Package ledger records ownership events of evaluation runs in an SQLite
// database, one row per event, grouped by a run id.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/lifetime/internal/evaluator"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	file            TEXT NOT NULL,
	started_at      TEXT NOT NULL,
	finished_at     TEXT,
	value           TEXT,
	allocated       INTEGER NOT NULL DEFAULT 0,
	released        INTEGER NOT NULL DEFAULT 0,
	double_releases INTEGER NOT NULL DEFAULT 0,
	live            INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS events (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	seq      INTEGER NOT NULL,
	kind     TEXT NOT NULL,
	scope    INTEGER NOT NULL,
	parent   INTEGER NOT NULL,
	block    INTEGER NOT NULL,
	name     TEXT NOT NULL,
	type     TEXT NOT NULL,
	mode     TEXT NOT NULL,
	released INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);`

var ErrNoRun = errors.New("ledger: no run in progress")

// Ledger is an evaluator.Observer. It is not safe for concurrent use; a
// run is observed from the goroutine that evaluates it.
type Ledger struct {
	db *sql.DB

	runID  string
	tx     *sql.Tx
	insert *sql.Stmt
	err    error
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	// A single connection keeps :memory: databases coherent.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Begin starts recording a run of file under a fresh id and returns it.
func (l *Ledger) Begin(file string) (string, error) {
	return l.BeginRun(uuid.NewString(), file)
}

// BeginRun starts recording a run of file under id, so the run can be
// matched with logs carrying the same id.
func (l *Ledger) BeginRun(id, file string) (string, error) {
	if l.tx != nil {
		return "", fmt.Errorf("ledger: run %s still in progress", l.runID)
	}
	if id == "" {
		return "", errors.New("ledger: empty run id")
	}

	tx, err := l.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning run: %w", err)
	}
	_, err = tx.Exec(`INSERT INTO runs (id, file, started_at) VALUES (?, ?, ?)`,
		id, file, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("recording run: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO events
		(run_id, seq, kind, scope, parent, block, name, type, mode, released)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("preparing event insert: %w", err)
	}

	l.runID, l.tx, l.insert, l.err = id, tx, stmt, nil
	return id, nil
}

// RunID returns the id of the run in progress, or "".
func (l *Ledger) RunID() string {
	return l.runID
}

// Observe records ev. The first write failure is kept and returned by
// Finish; later events are dropped.
func (l *Ledger) Observe(ev evaluator.Event) {
	if l.insert == nil || l.err != nil {
		return
	}
	_, err := l.insert.Exec(l.runID, ev.Seq, string(ev.Kind), ev.Scope, ev.Parent, ev.Block,
		ev.Name, string(ev.Type), ev.Mode, ev.Released)
	if err != nil {
		l.err = fmt.Errorf("recording event %d: %w", ev.Seq, err)
	}
}

// Finish closes the run with the final heap accounting and rendered value.
func (l *Ledger) Finish(stats evaluator.HeapStats, value string) error {
	if l.tx == nil {
		return ErrNoRun
	}
	tx, stmt := l.tx, l.insert
	l.tx, l.insert = nil, nil
	defer func() { l.runID = "" }()
	stmt.Close()

	if l.err != nil {
		tx.Rollback()
		return l.err
	}
	_, err := tx.Exec(`UPDATE runs SET finished_at = ?, value = ?, allocated = ?, released = ?,
		double_releases = ?, live = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), value,
		stats.Allocated, stats.Released, stats.DoubleReleases, stats.Live, l.runID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("finishing run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

func (l *Ledger) Close() error {
	if l.tx != nil {
		l.insert.Close()
		l.tx.Rollback()
		l.tx, l.insert = nil, nil
	}
	return l.db.Close()
}
