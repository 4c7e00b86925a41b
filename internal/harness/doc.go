// Package harness runs conformance scenarios against the sequence graph
// engine.
//
// A scenario loads a CUE fixture, executes engine operations with expected
// outcomes, and asserts over the trace the engine journaled.
//
// # Scenario Format
//
//	name: abcd_lookup
//	description: "Finds and splits in the abcd fixture"
//	fixture: ../fixtures/abcd.cue
//	run_id: run-abcd-lookup
//	steps:
//	  - op: find
//	    text: bc
//	    expect: { found: true, vertex: bc, range: complete }
//	  - op: insert
//	    names: [abcd, abcd]
//	    expect: { created: true, width: 8 }
//	  - op: split
//	    ref: abc
//	    pos: 2
//	    expect:
//	      lefts: [[ab], [a, b]]
//	      rights: [[c]]
//	  - op: find
//	    text: nope
//	    expect: { found: false }
//	assertions:
//	  - type: step_count
//	    op: find
//	    count: 2
//	  - type: resolves
//	    ref: abcdabcd
//
// # Assertion Types
//
//   - step_count: an op appears exactly N times in the trace
//   - step_order: ops first appear in the given order
//   - error_count: exactly N steps failed
//   - vertex_count: the graph holds exactly N vertices after the last step
//   - resolves: a reference names a vertex
//
// # Deterministic Testing
//
// Every scenario runs with:
//   - A fixed run ID (scenario.run_id or "test-run-default")
//   - The engine's logical clock starting at 0, so the fixture load is seq 1
//   - Deterministic journal timestamps (testutil.DeterministicClock)
//   - An in-memory SQLite journal, isolated per run
//
// The trace is read back from the journal, so golden files compare
// exactly what a persistent session would have stored.
package harness
