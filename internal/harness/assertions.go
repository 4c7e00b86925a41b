package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/seqraph/internal/engine"
	"github.com/roach88/seqraph/internal/ir"
)

// AssertionContext carries what assertions may inspect beyond the trace.
type AssertionContext struct {
	Engine *engine.Engine
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		if event.Error != "" {
			fmt.Fprintf(&buf, "  [%d] %s %q error: %s\n", event.Seq, event.Op, event.Input, event.Error)
			continue
		}
		fmt.Fprintf(&buf, "  [%d] %s %q\n", event.Seq, event.Op, event.Input)
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertStepCount:
		return assertStepCount(result.Trace, a)
	case AssertStepOrder:
		return assertStepOrder(result.Trace, a)
	case AssertErrorCount:
		return assertErrorCount(result.Trace, a)
	case AssertVertexCount:
		return assertVertexCount(result, a)
	case AssertResolves:
		return assertResolves(result.Trace, a, actx)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertStepCount checks that the op appears exactly Count times.
func assertStepCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == ir.Op(a.Op) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertStepCount,
			Expected: fmt.Sprintf("%s appears %d times", a.Op, a.Count),
			Actual:   fmt.Sprintf("%s appears %d times", a.Op, count),
			Trace:    trace,
		}
	}
	return nil
}

// assertStepOrder checks that ops first appear in the given order.
// Intervening steps are allowed.
func assertStepOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		op := string(event.Op)
		if _, seen := positions[op]; !seen {
			positions[op] = i + 1 // 1-indexed for readability
		}
	}

	for _, op := range a.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertStepOrder,
				Expected: fmt.Sprintf("all ops present: %v", a.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Ops); i++ {
		prev, curr := a.Ops[i-1], a.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertStepOrder,
				Expected: fmt.Sprintf("ops in order: %v", a.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertErrorCount checks how many steps failed.
func assertErrorCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Error != "" {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertErrorCount,
			Expected: fmt.Sprintf("%d failed steps", a.Count),
			Actual:   fmt.Sprintf("%d failed steps", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertVertexCount checks the size of the graph after the last step.
func assertVertexCount(result *Result, a Assertion) error {
	if result.Stats.Vertices != a.Count {
		return &AssertionError{
			Type:     AssertVertexCount,
			Expected: fmt.Sprintf("%d vertices", a.Count),
			Actual:   fmt.Sprintf("%d vertices", result.Stats.Vertices),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertResolves checks that a reference names a vertex.
// Lookups are not journaled, so the trace is unaffected.
func assertResolves(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	if actx == nil || actx.Engine == nil {
		return fmt.Errorf("resolves requires an engine")
	}
	if _, err := actx.Engine.Lookup(a.Ref); err != nil {
		return &AssertionError{
			Type:     AssertResolves,
			Expected: fmt.Sprintf("%q names a vertex", a.Ref),
			Actual:   err.Error(),
			Trace:    trace,
		}
	}
	return nil
}
