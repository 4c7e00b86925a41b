package store

import (
	"context"
	"fmt"

	"github.com/roach88/seqraph/internal/ir"
)

// StepDiff describes one position where two runs disagree.
type StepDiff struct {
	Seq   int64
	Left  *ir.StepRecord // nil when only the right run has this seq
	Right *ir.StepRecord // nil when only the left run has this seq
}

// CompareRuns walks two runs in seq order and reports every step whose
// op, input or hash differs. Two runs of the same session against the
// same fixture produce no diffs.
func (s *Store) CompareRuns(ctx context.Context, leftID, rightID string) ([]StepDiff, error) {
	left, err := s.ReadSteps(ctx, leftID)
	if err != nil {
		return nil, fmt.Errorf("compare runs: %w", err)
	}
	right, err := s.ReadSteps(ctx, rightID)
	if err != nil {
		return nil, fmt.Errorf("compare runs: %w", err)
	}

	diffs := []StepDiff{}
	i, j := 0, 0
	for i < len(left) || j < len(right) {
		switch {
		case j >= len(right) || (i < len(left) && left[i].Seq < right[j].Seq):
			diffs = append(diffs, StepDiff{Seq: left[i].Seq, Left: &left[i]})
			i++
		case i >= len(left) || right[j].Seq < left[i].Seq:
			diffs = append(diffs, StepDiff{Seq: right[j].Seq, Right: &right[j]})
			j++
		default:
			l, r := &left[i], &right[j]
			if l.Op != r.Op || l.Input != r.Input || l.Hash != r.Hash {
				diffs = append(diffs, StepDiff{Seq: l.Seq, Left: l, Right: r})
			}
			i++
			j++
		}
	}
	return diffs, nil
}
