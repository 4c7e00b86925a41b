package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"

	"github.com/roach88/seqraph/internal/compiler"
	"github.com/roach88/seqraph/internal/engine"
	"github.com/roach88/seqraph/internal/ir"
	"github.com/roach88/seqraph/internal/store"
	"github.com/roach88/seqraph/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a fixed run ID and deterministic timestamps.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	clock  *testutil.DeterministicClock
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory journal for isolation.
//
// Execution flow:
// 1. Compile the fixture
// 2. Create fresh in-memory journal and an engine recording into it
// 3. Load the fixture
// 4. Execute steps, checking expect clauses
// 5. Read the trace back from the journal and evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	spec, err := compiler.LoadGraph(scenario.Fixture)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	eng := engine.New(
		engine.WithLogger(logger),
		engine.WithRunIDGenerator(testutil.NewFixedRunGenerator(scenario.RunID)),
		engine.WithRecorder(st),
	)

	h := &Harness{
		store:  st,
		engine: eng,
		clock:  testutil.NewDeterministicClock(),
		logger: logger,
	}

	specHash, err := ir.SpecHash(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to hash fixture: %w", err)
	}
	run := ir.RunRecord{
		ID:        eng.RunID(),
		Fixture:   spec.Name,
		SpecHash:  specHash,
		StartedAt: h.clock.Unix(),
		Version:   ir.EngineVersion,
	}
	if err := st.WriteRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	if err := eng.Load(ctx, spec); err != nil {
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}

	result := NewResult()
	result.RunID = run.ID
	h.executeSteps(ctx, scenario.Steps, result)

	steps, err := st.ReadSteps(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	for _, step := range steps {
		result.AddStep(step)
	}
	result.Stats = eng.Stats()

	actx := &AssertionContext{Engine: eng}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	status := store.StatusOK
	if !result.Pass {
		status = store.StatusFailed
	}
	if err := st.FinishRun(ctx, run.ID, status, h.clock.Unix()); err != nil {
		return nil, fmt.Errorf("failed to finish run: %w", err)
	}

	return result, nil
}

// executeSteps runs every step and records expect mismatches on result.
// A failing step does not stop the scenario.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) {
	for i, step := range steps {
		out, err := h.execute(ctx, step)
		for _, msg := range checkExpect(step, out, err) {
			result.AddError(fmt.Sprintf("steps[%d] %s %s: %s", i, step.Op, describe(step), msg))
		}

		h.logger.Debug("scenario step",
			"step", i,
			"op", step.Op,
			"input", describe(step),
			"error", err,
		)
	}
}

func (h *Harness) execute(ctx context.Context, step Step) (any, error) {
	switch ir.Op(step.Op) {
	case ir.OpInsert:
		if len(step.Names) > 0 {
			return h.engine.InsertNames(ctx, step.Names)
		}
		return h.engine.InsertText(ctx, step.Text)
	case ir.OpFind:
		if len(step.Names) > 0 {
			return h.engine.FindNames(ctx, step.Names)
		}
		return h.engine.FindText(ctx, step.Text)
	case ir.OpSplit:
		return h.engine.Split(ctx, step.Ref, step.Pos)
	case ir.OpSplitInsert:
		return h.engine.SplitInsert(ctx, step.Ref, step.Pos)
	case ir.OpCheck:
		return h.engine.Check(ctx)
	default:
		return nil, fmt.Errorf("unknown op %q", step.Op)
	}
}

func describe(step Step) string {
	switch {
	case len(step.Names) > 0:
		return fmt.Sprint(step.Names)
	case step.Ref != "":
		return fmt.Sprintf("%s@%d", step.Ref, step.Pos)
	default:
		return fmt.Sprintf("%q", step.Text)
	}
}

// checkExpect compares a step outcome with its expect clause and returns
// one message per mismatch.
func checkExpect(step Step, out any, err error) []string {
	want := step.Expect
	if want != nil && want.Error != "" {
		var rerr *engine.RuntimeError
		if !errors.As(err, &rerr) {
			return []string{fmt.Sprintf("expected error %s, got %v", want.Error, err)}
		}
		if string(rerr.Code) != want.Error {
			return []string{fmt.Sprintf("expected error %s, got %s", want.Error, rerr.Code)}
		}
		return nil
	}
	if err != nil {
		return []string{fmt.Sprintf("unexpected error: %v", err)}
	}
	if want == nil {
		return nil
	}

	var c comparer
	switch res := out.(type) {
	case *ir.InsertResult:
		c.str("vertex", want.Vertex, res.Vertex)
		c.num("width", want.Width, res.Width)
		c.flag("created", want.Created, res.Created)
	case *ir.FindResult:
		c.flag("found", want.Found, res.Found)
		c.str("vertex", want.Vertex, res.Vertex)
		c.num("width", want.Width, res.Width)
		c.str("range", want.Range, res.Range)
		c.list("pre", want.Pre, res.Pre)
		c.list("post", want.Post, res.Post)
	case *ir.SplitResult:
		c.str("vertex", want.Vertex, res.Vertex)
		c.nested("lefts", want.Lefts, res.Lefts)
		c.nested("rights", want.Rights, res.Rights)
		c.str("left", want.Left, res.Left)
		c.str("right", want.Right, res.Right)
	case *ir.CheckResult:
		if want.Violations != nil && *want.Violations != len(res.Violations) {
			c.fail("violations", *want.Violations, res.Violations)
		}
	}
	return c.msgs
}

type comparer struct {
	msgs []string
}

func (c *comparer) fail(field string, want, got any) {
	c.msgs = append(c.msgs, fmt.Sprintf("%s: expected %v, got %v", field, want, got))
}

func (c *comparer) str(field, want, got string) {
	if want != "" && want != got {
		c.fail(field, fmt.Sprintf("%q", want), fmt.Sprintf("%q", got))
	}
}

func (c *comparer) num(field string, want, got int) {
	if want != 0 && want != got {
		c.fail(field, want, got)
	}
}

func (c *comparer) flag(field string, want *bool, got bool) {
	if want != nil && *want != got {
		c.fail(field, *want, got)
	}
}

func (c *comparer) list(field string, want, got []string) {
	if want != nil && !slices.Equal(want, got) {
		c.fail(field, want, got)
	}
}

func (c *comparer) nested(field string, want, got [][]string) {
	if want != nil && !reflect.DeepEqual(want, got) {
		c.fail(field, want, got)
	}
}
