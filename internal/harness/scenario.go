package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/seqraph/internal/ir"
)

// Scenario defines a conformance test scenario: a fixture, a sequence of
// engine operations with expected outcomes, and assertions over the
// resulting journal.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Fixture is the CUE fixture to load before the first step.
	// Relative paths are resolved against the scenario file's directory.
	Fixture string `yaml:"fixture"`

	// RunID is an optional fixed run ID for the journal.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Steps are executed in order against one engine.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and graph.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one engine operation.
//
//	insert/find:       text, or names for a concatenation of references
//	split/split_insert: ref and pos
//	check:             no arguments
type Step struct {
	Op     string   `yaml:"op"`
	Text   string   `yaml:"text,omitempty"`
	Names  []string `yaml:"names,omitempty"`
	Ref    string   `yaml:"ref,omitempty"`
	Pos    int      `yaml:"pos,omitempty"`
	Expect *Expect  `yaml:"expect,omitempty"`
}

// Expect lists the fields of a step's outcome to verify.
// Only fields that are set are compared.
type Expect struct {
	// Error is the expected runtime error code (e.g. "UNKNOWN_NAME").
	// When set, no other field is checked.
	Error string `yaml:"error,omitempty"`

	Vertex  string `yaml:"vertex,omitempty"`
	Width   int    `yaml:"width,omitempty"`
	Created *bool  `yaml:"created,omitempty"`

	Found *bool    `yaml:"found,omitempty"`
	Range string   `yaml:"range,omitempty"`
	Pre   []string `yaml:"pre,omitempty"`
	Post  []string `yaml:"post,omitempty"`

	Lefts  [][]string `yaml:"lefts,omitempty"`
	Rights [][]string `yaml:"rights,omitempty"`
	Left   string     `yaml:"left,omitempty"`
	Right  string     `yaml:"right,omitempty"`

	Violations *int `yaml:"violations,omitempty"`
}

// Assertion validates the trace or the final graph.
type Assertion struct {
	// Type specifies the assertion type:
	// - "step_count": op appears exactly Count times in the trace
	// - "step_order": Ops appear in this order (first occurrences)
	// - "error_count": exactly Count steps failed
	// - "vertex_count": the graph holds exactly Count vertices
	// - "resolves": Ref names a vertex
	Type string `yaml:"type"`

	Op    string   `yaml:"op,omitempty"`
	Ops   []string `yaml:"ops,omitempty"`
	Count int      `yaml:"count,omitempty"`
	Ref   string   `yaml:"ref,omitempty"`
}

// Assertion type constants.
const (
	AssertStepCount   = "step_count"
	AssertStepOrder   = "step_order"
	AssertErrorCount  = "error_count"
	AssertVertexCount = "vertex_count"
	AssertResolves    = "resolves"
)

// LoadScenario reads and parses a scenario YAML file, resolving the fixture
// path relative to the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML. A relative fixture path is joined to
// basePath when basePath is not empty.
func ParseScenario(data []byte, basePath string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Fixture != "" && !filepath.IsAbs(scenario.Fixture) && basePath != "" {
		scenario.Fixture = filepath.Join(basePath, scenario.Fixture)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Fixture == "" {
		return fmt.Errorf("fixture is required")
	}
	if _, err := os.Stat(s.Fixture); os.IsNotExist(err) {
		return fmt.Errorf("fixture not found: %s", s.Fixture)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step *Step) error {
	op := ir.Op(step.Op)
	if !ir.ValidOps[op] {
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}

	switch op {
	case ir.OpInsert, ir.OpFind:
		if step.Text == "" && len(step.Names) == 0 {
			return fmt.Errorf("steps[%d]: %s needs text or names", index, op)
		}
		if step.Text != "" && len(step.Names) > 0 {
			return fmt.Errorf("steps[%d]: %s takes text or names, not both", index, op)
		}
	case ir.OpSplit, ir.OpSplitInsert:
		if step.Ref == "" {
			return fmt.Errorf("steps[%d]: ref is required for %s", index, op)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertStepCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for step_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for step_count", index)
		}
	case AssertStepOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for step_order", index)
		}
	case AssertErrorCount, AssertVertexCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertResolves:
		if a.Ref == "" {
			return fmt.Errorf("assertions[%d]: ref is required for resolves", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
