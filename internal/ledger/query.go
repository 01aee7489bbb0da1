package ledger

import (
	"database/sql"
	"errors"
	"fmt"
)

// Run is a recorded evaluation.
type Run struct {
	ID             string
	File           string
	StartedAt      string
	FinishedAt     string
	Value          string
	Allocated      uint64
	Released       uint64
	DoubleReleases uint64
	Live           int
}

// Summary is a run with its event counts per kind.
type Summary struct {
	Run
	Events map[string]int
}

// Summary loads the run with the given id.
func (l *Ledger) Summary(runID string) (*Summary, error) {
	var (
		s        Summary
		finished sql.NullString
		value    sql.NullString
	)
	row := l.db.QueryRow(`SELECT id, file, started_at, finished_at, value, allocated, released,
		double_releases, live FROM runs WHERE id = ?`, runID)
	err := row.Scan(&s.ID, &s.File, &s.StartedAt, &finished, &value,
		&s.Allocated, &s.Released, &s.DoubleReleases, &s.Live)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ledger: unknown run %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	s.FinishedAt = finished.String
	s.Value = value.String

	rows, err := l.db.Query(`SELECT kind, COUNT(*) FROM events WHERE run_id = ? GROUP BY kind`, runID)
	if err != nil {
		return nil, fmt.Errorf("counting events of %s: %w", runID, err)
	}
	defer rows.Close()

	s.Events = make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		s.Events[kind] = n
	}
	return &s, rows.Err()
}

// Unreleased returns the blocks of a run that were allocated and never
// released, in allocation order.
func (l *Ledger) Unreleased(runID string) ([]uint64, error) {
	rows, err := l.db.Query(`SELECT a.block FROM events a
		WHERE a.run_id = ? AND a.kind = 'alloc'
		AND NOT EXISTS (SELECT 1 FROM events r
			WHERE r.run_id = a.run_id AND r.kind = 'release' AND r.block = a.block)
		ORDER BY a.seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying unreleased blocks: %w", err)
	}
	defer rows.Close()

	var blocks []uint64
	for rows.Next() {
		var b uint64
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// Runs lists recorded runs, most recent first.
func (l *Ledger) Runs() ([]Run, error) {
	rows, err := l.db.Query(`SELECT id, file, started_at, COALESCE(finished_at, ''),
		COALESCE(value, ''), allocated, released, double_releases, live
		FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.File, &r.StartedAt, &r.FinishedAt, &r.Value,
			&r.Allocated, &r.Released, &r.DoubleReleases, &r.Live); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
