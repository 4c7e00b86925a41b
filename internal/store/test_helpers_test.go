package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/roach88/seqraph/internal/ir"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run record with minimal required fields.
func createTestRun(id string, startedAt int64) ir.RunRecord {
	return ir.RunRecord{
		ID:        id,
		Fixture:   "abcd",
		SpecHash:  "test-hash",
		StartedAt: startedAt,
		Version:   ir.EngineVersion,
	}
}

// createTestStep creates a step whose hash is derived like the engine's.
func createTestStep(runID string, seq int64, op ir.Op, input, output string) ir.StepRecord {
	step := ir.StepRecord{
		RunID: runID,
		Seq:   seq,
		Op:    op,
		Input: input,
	}
	if output != "" {
		step.Output = json.RawMessage(output)
	}
	step.Hash = ir.StepHash(seq, op, input, step.Output)
	return step
}

// mustWriteRun writes a run and its steps or fails the test.
func mustWriteRun(t *testing.T, s *Store, run ir.RunRecord, steps ...ir.StepRecord) {
	t.Helper()
	ctx := context.Background()
	if err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	for _, step := range steps {
		if err := s.WriteStep(ctx, step); err != nil {
			t.Fatalf("WriteStep(seq=%d) failed: %v", step.Seq, err)
		}
	}
}
