// Package engine wraps a string-token hypergraph for callers.
//
// The hypergraph core implements no locking and knows nothing about names,
// text or journals. The engine adds those around it:
//
// Locking:
// Mutations (Load, InsertText, InsertNames, SplitInsert) take the write lock.
// Queries (FindText, FindNames, Split, Check, ExportDOT, Stats) take the read
// lock and may run concurrently with each other.
//
// Names:
// Tokens are named by their fixture spelling and patterns by their fixture
// name. Operations accept a name or, failing that, text that spans exactly
// one vertex. Unnamed vertices render as their token content.
//
// Recording:
// Every operation is stamped with the next value of a logical clock, counted
// and timed in Prometheus metrics, logged at debug level and, when a
// Recorder is configured, handed to it as an ir.StepRecord.
//
// CRITICAL PATTERNS:
//
// Logical Clock
// Steps are ordered by Clock.Next(), never by wall-clock time. Replaying the
// same operations on the same fixture yields the same seq and step hashes.
package engine
