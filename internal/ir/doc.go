// Package ir provides the serializable records shared across seqraph.
//
// This package contains type definitions and identity helpers only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Records are typed structs; encoding/json gives a stable byte form
//     (struct fields in declaration order, map keys sorted)
//   - Vertices are referred to by name or rendered content, never by
//     pointer; indices are included only as diagnostics
//   - Logical clocks (seq) only for ordering steps, never wall-clock time
//   - All JSON tags use snake_case
package ir
