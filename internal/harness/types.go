package harness

import (
	"encoding/json"

	"github.com/roach88/seqraph/internal/ir"
)

// TraceEvent is one journaled step of a scenario run.
type TraceEvent struct {
	Seq    int64           `json:"seq"`
	Op     ir.Op           `json:"op"`
	Input  string          `json:"input"`
	Output json.RawMessage `json:"output,omitempty"`
	Error  string          `json:"error,omitempty"`
	Hash   string          `json:"-"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause and assertion matched.
	Pass bool `json:"pass"`

	// RunID is the journal ID of the run.
	RunID string `json:"run_id"`

	// Trace contains every step in seq order, read back from the journal.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expect and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Stats is the engine state after the last step.
	Stats ir.Stats `json:"stats"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends a journaled step to the trace.
func (r *Result) AddStep(step ir.StepRecord) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    step.Seq,
		Op:     step.Op,
		Input:  step.Input,
		Output: step.Output,
		Error:  step.Error,
		Hash:   step.Hash,
	})
}
