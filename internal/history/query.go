package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const defaultQueryLimit = 20

// Recent returns the most recent runs across all cases, newest first.
// A non-positive limit selects the default of 20.
//
// Returns an empty slice (not nil) if no runs are recorded.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, case_name, variant, backend, debug, target, args, exit_code, pass, log_file, started_at, duration_ms
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ForCase returns the most recent runs of one case, newest first.
// A non-positive limit selects the default of 20.
//
// Returns an empty slice (not nil) if the case has no recorded runs.
func (l *Ledger) ForCase(ctx context.Context, caseName string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, case_name, variant, backend, debug, target, args, exit_code, pass, log_file, started_at, duration_ms
		FROM runs
		WHERE case_name = ?
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, caseName, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs for case %q: %w", caseName, err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// collectRecords drains rows into records.
func collectRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	// Return empty slice instead of nil
	if records == nil {
		records = []Record{}
	}

	return records, nil
}

// scanRecord reads one row into a Record, converting the stored
// integer flags and RFC 3339 timestamp back to Go types.
func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec        Record
		debug      int
		pass       int
		args       string
		startedAt  string
		durationMS int64
	)

	err := rows.Scan(
		&rec.ID,
		&rec.Case,
		&rec.Variant,
		&rec.Backend,
		&debug,
		&rec.Target,
		&args,
		&rec.ExitCode,
		&pass,
		&rec.LogFile,
		&startedAt,
		&durationMS,
	)
	if err != nil {
		return Record{}, fmt.Errorf("scan run: %w", err)
	}

	rec.Debug = debug != 0
	rec.Pass = pass != 0
	rec.Duration = time.Duration(durationMS) * time.Millisecond

	rec.Args, err = unmarshalArgs(args)
	if err != nil {
		return Record{}, fmt.Errorf("scan run: %w", err)
	}

	rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Record{}, fmt.Errorf("parse started_at %q: %w", startedAt, err)
	}

	return rec, nil
}
