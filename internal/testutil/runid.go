package testutil

// DefaultRunID is used when a scenario does not name its run.
const DefaultRunID = "test-run-default"

// FixedRunGenerator generates the same run ID every time.
//
// Unlike engine.FixedGenerator, which hands out IDs in sequence and panics
// when exhausted, this generator never runs out. Scenario runs use it so the
// journal and golden files are byte-identical across executions.
//
// Thread-safety: FixedRunGenerator is stateless and safe for concurrent use.
type FixedRunGenerator struct {
	id string
}

// NewFixedRunGenerator creates a generator for the given ID.
// If id is empty, Generate returns DefaultRunID.
func NewFixedRunGenerator(id string) *FixedRunGenerator {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunGenerator{id: id}
}

// Generate returns the fixed run ID.
//
// Implements engine.RunIDGenerator interface.
func (g *FixedRunGenerator) Generate() string {
	return g.id
}
