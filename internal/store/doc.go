// Package store provides the SQLite-backed journal of seqraph sessions.
//
// The journal is append-only:
//   - Runs: one row per engine session (fixture, spec hash, status)
//   - Steps: one row per operation, keyed by (run_id, seq)
//
// # Critical Patterns
//
// Logical Time
//   - Steps are ordered by seq INTEGER (the engine's logical clock), NEVER timestamps
//   - started_at/finished_at are for display only
//
// Idempotent Writes
//   - Re-recording a (run_id, seq) pair is a no-op (ON CONFLICT DO NOTHING)
//
// Deterministic Query Results
//   - Step queries use ORDER BY seq ASC
//   - Run queries use ORDER BY started_at DESC, id DESC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Steps must belong to a known run
//
// Step hashes are computed by ir.StepHash and let two runs of the same
// session be compared without re-executing them (see CompareRuns).
package store
