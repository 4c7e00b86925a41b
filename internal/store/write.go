package store

import (
	"context"
	"fmt"

	"github.com/roach88/seqraph/internal/ir"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)

// WriteRun records the start of a run.
// Idempotent: writing the same run ID twice is a no-op.
func (s *Store) WriteRun(ctx context.Context, run ir.RunRecord) error {
	status := run.Status
	if status == "" {
		status = StatusRunning
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, fixture, spec_hash, started_at, finished_at, status, version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Fixture, run.SpecHash, run.StartedAt, run.FinishedAt, status, run.Version)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// FinishRun marks a run as ended with the given status.
func (s *Store) FinishRun(ctx context.Context, id, status string, finishedAt int64) error {
	if status != StatusOK && status != StatusFailed {
		return fmt.Errorf("finish run: invalid status %q", status)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, finished_at = ? WHERE id = ?
	`, status, finishedAt, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: unknown run %q", id)
	}
	return nil
}

// WriteStep appends one operation to a run.
// Idempotent on (run_id, seq): a second write with the same key is ignored.
func (s *Store) WriteStep(ctx context.Context, step ir.StepRecord) error {
	var output any
	if len(step.Output) > 0 {
		output = string(step.Output)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO steps (run_id, seq, op, input, output, error, step_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`, step.RunID, step.Seq, string(step.Op), step.Input, output, step.Error, step.Hash)
	if err != nil {
		return fmt.Errorf("write step: %w", err)
	}
	return nil
}

// RecordStep lets a Store receive steps directly from the engine.
func (s *Store) RecordStep(ctx context.Context, step ir.StepRecord) error {
	return s.WriteStep(ctx, step)
}
