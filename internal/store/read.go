package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/seqraph/internal/ir"
)

// ErrRunNotFound is returned when no run matches an ID or prefix.
var ErrRunNotFound = errors.New("run not found")

// ReadRun retrieves a single run by ID.
func (s *Store) ReadRun(ctx context.Context, id string) (ir.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, fixture, spec_hash, started_at, finished_at, status, version
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.RunRecord{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return ir.RunRecord{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ResolveRunID expands an ID prefix to the single run it names.
func (s *Store) ResolveRunID(ctx context.Context, prefix string) (string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM runs
		WHERE substr(id, 1, length(?)) = ?
		ORDER BY id ASC COLLATE BINARY
		LIMIT 2
	`, prefix, prefix)
	if err != nil {
		return "", fmt.Errorf("resolve run %s: %w", prefix, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve run %s: %w", prefix, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve run %s: %w", prefix, err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("resolve run %s: %w", prefix, ErrRunNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("resolve run %s: prefix is ambiguous", prefix)
	}
}

// ListRuns returns the most recent runs, newest first.
// A limit <= 0 returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]ir.RunRecord, error) {
	query := `
		SELECT id, fixture, spec_hash, started_at, finished_at, status, version
		FROM runs
		ORDER BY started_at DESC, id DESC COLLATE BINARY
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ReadSteps returns every step of a run in logical clock order.
func (s *Store) ReadSteps(ctx context.Context, runID string) ([]ir.StepRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, op, input, output, error, step_hash
		FROM steps
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read steps: %w", err)
	}
	defer rows.Close()

	steps := []ir.StepRecord{}
	for rows.Next() {
		var (
			step   ir.StepRecord
			op     string
			output sql.NullString
		)
		if err := rows.Scan(&step.RunID, &step.Seq, &op, &step.Input, &output, &step.Error, &step.Hash); err != nil {
			return nil, fmt.Errorf("read steps: %w", err)
		}
		step.Op = ir.Op(op)
		if output.Valid {
			step.Output = json.RawMessage(output.String)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read steps: %w", err)
	}
	return steps, nil
}

// CountSteps returns how many steps of each op a run recorded.
func (s *Store) CountSteps(ctx context.Context, runID string) (map[ir.Op]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT op, COUNT(*) FROM steps
		WHERE run_id = ?
		GROUP BY op
		ORDER BY op ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("count steps: %w", err)
	}
	defer rows.Close()

	counts := make(map[ir.Op]int)
	for rows.Next() {
		var (
			op string
			n  int
		)
		if err := rows.Scan(&op, &n); err != nil {
			return nil, fmt.Errorf("count steps: %w", err)
		}
		counts[ir.Op(op)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count steps: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (ir.RunRecord, error) {
	var run ir.RunRecord
	err := row.Scan(&run.ID, &run.Fixture, &run.SpecHash, &run.StartedAt, &run.FinishedAt, &run.Status, &run.Version)
	return run, err
}
