package ir

import "encoding/json"

// RunRecord is one engine session stored in the journal.
type RunRecord struct {
	ID         string `json:"id"`
	Fixture    string `json:"fixture"`
	SpecHash   string `json:"spec_hash"`
	StartedAt  int64  `json:"started_at"`  // unix seconds, display only
	FinishedAt int64  `json:"finished_at"` // 0 while running
	Status     string `json:"status"`      // "running" | "ok" | "failed"
	Version    string `json:"version"`
}

// StepRecord is one operation of a run, ordered by its logical clock seq.
type StepRecord struct {
	RunID  string          `json:"run_id"`
	Seq    int64           `json:"seq"`
	Op     Op              `json:"op"`
	Input  string          `json:"input"`
	Output json.RawMessage `json:"output,omitempty"`
	Error  string          `json:"error,omitempty"`
	Hash   string          `json:"hash"`
}
