package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/seqraph/internal/ir"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Seq: 1, Op: ir.OpLoad, Input: "abcd"},
		{Seq: 2, Op: ir.OpFind, Input: "bc"},
		{Seq: 3, Op: ir.OpSplit, Input: "abc@9", Error: "GRAPH_ERROR: split"},
		{Seq: 4, Op: ir.OpFind, Input: "cd"},
	}
}

func TestAssertStepCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertStepCount(trace, Assertion{Op: "find", Count: 2}))
	assert.NoError(t, assertStepCount(trace, Assertion{Op: "check", Count: 0}))

	err := assertStepCount(trace, Assertion{Op: "find", Count: 1})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "find appears 2 times", ae.Actual)
}

func TestAssertStepOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertStepOrder(trace, Assertion{Ops: []string{"load", "find", "split"}}))
	assert.NoError(t, assertStepOrder(trace, Assertion{Ops: []string{"load", "split"}}), "gaps are allowed")

	err := assertStepOrder(trace, Assertion{Ops: []string{"split", "find"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split (pos 3) should be before find (pos 2)")

	err = assertStepOrder(trace, Assertion{Ops: []string{"load", "check"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing op: check")
}

func TestAssertErrorCount(t *testing.T) {
	assert.NoError(t, assertErrorCount(sampleTrace(), Assertion{Count: 1}))
	assert.Error(t, assertErrorCount(sampleTrace(), Assertion{Count: 0}))
}

func TestAssertVertexCount(t *testing.T) {
	result := NewResult()
	result.Stats.Vertices = 8

	assert.NoError(t, assertVertexCount(result, Assertion{Count: 8}))
	err := assertVertexCount(result, Assertion{Count: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: 9 vertices")
}

func TestAssertResolvesNeedsEngine(t *testing.T) {
	err := assertResolves(nil, Assertion{Ref: "ab"}, &AssertionContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires an engine")
}

func TestEvaluateAssertions_CollectsFailures(t *testing.T) {
	result := NewResult()
	result.Trace = sampleTrace()

	failures := EvaluateAssertions(result, []Assertion{
		{Type: AssertStepCount, Op: "find", Count: 2},
		{Type: AssertErrorCount, Count: 3},
		{Type: "bogus"},
	}, nil)

	require.Len(t, failures, 2)
	assert.Contains(t, failures[0], "assertions[1]")
	assert.Contains(t, failures[1], `unknown assertion type "bogus"`)
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertStepCount,
		Expected: "a",
		Actual:   "b",
		Trace:    sampleTrace(),
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: step_count")
	assert.Contains(t, msg, `[2] find "bc"`)
	assert.Contains(t, msg, `[3] split "abc@9" error: GRAPH_ERROR: split`)
}
