package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/seqraph/internal/ir"
)

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("err = %v, want ErrRunNotFound", err)
	}
}

func TestReadSteps_Empty(t *testing.T) {
	s := createTestStore(t)
	mustWriteRun(t, s, createTestRun("run-1", 100))

	steps, err := s.ReadSteps(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("ReadSteps() failed: %v", err)
	}
	if steps == nil || len(steps) != 0 {
		t.Errorf("steps = %v, want empty non-nil slice", steps)
	}
}

func TestReadSteps_SeqOrder(t *testing.T) {
	s := createTestStore(t)
	mustWriteRun(t, s, createTestRun("run-1", 100),
		createTestStep("run-1", 3, ir.OpSplit, "abc@2", `{"lefts":[["ab"]]}`),
		createTestStep("run-1", 1, ir.OpLoad, "abcd", `{"vertices":8}`),
		createTestStep("run-1", 2, ir.OpFind, "bc", `{"found":true}`),
	)

	steps, err := s.ReadSteps(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("ReadSteps() failed: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("len(steps) = %d, want 3", len(steps))
	}
	for i, want := range []ir.Op{ir.OpLoad, ir.OpFind, ir.OpSplit} {
		if steps[i].Seq != int64(i+1) || steps[i].Op != want {
			t.Errorf("steps[%d] = seq %d op %s, want seq %d op %s", i, steps[i].Seq, steps[i].Op, i+1, want)
		}
	}
	if string(steps[1].Output) != `{"found":true}` {
		t.Errorf("Output = %s", steps[1].Output)
	}
	if steps[1].Hash != ir.StepHash(2, ir.OpFind, "bc", []byte(`{"found":true}`)) {
		t.Errorf("Hash changed through the journal")
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	mustWriteRun(t, s, createTestRun("run-a", 100))
	mustWriteRun(t, s, createTestRun("run-c", 300))
	mustWriteRun(t, s, createTestRun("run-b", 300))

	runs, err := s.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	want := []string{"run-c", "run-b", "run-a"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids = %v, want %v", ids, want)
			break
		}
	}

	limited, err := s.ListRuns(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListRuns(1) failed: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "run-c" {
		t.Errorf("ListRuns(1) = %v", limited)
	}
}

func TestResolveRunID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustWriteRun(t, s, createTestRun("0190aa-1", 100))
	mustWriteRun(t, s, createTestRun("0190aa-2", 200))
	mustWriteRun(t, s, createTestRun("0190bb-1", 300))

	id, err := s.ResolveRunID(ctx, "0190b")
	if err != nil {
		t.Fatalf("ResolveRunID() failed: %v", err)
	}
	if id != "0190bb-1" {
		t.Errorf("id = %q, want 0190bb-1", id)
	}

	if _, err := s.ResolveRunID(ctx, "0190aa"); err == nil {
		t.Error("expected ambiguous prefix error")
	}
	if _, err := s.ResolveRunID(ctx, "ff"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("err = %v, want ErrRunNotFound", err)
	}
}

func TestCountSteps(t *testing.T) {
	s := createTestStore(t)
	mustWriteRun(t, s, createTestRun("run-1", 100),
		createTestStep("run-1", 1, ir.OpLoad, "abcd", ""),
		createTestStep("run-1", 2, ir.OpFind, "bc", ""),
		createTestStep("run-1", 3, ir.OpFind, "cd", ""),
	)

	counts, err := s.CountSteps(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("CountSteps() failed: %v", err)
	}
	if counts[ir.OpFind] != 2 || counts[ir.OpLoad] != 1 || len(counts) != 2 {
		t.Errorf("counts = %v", counts)
	}
}
