package ir

// GraphSpec is a compiled graph fixture: the tokens and named composite
// vertices to build, with patterns listed in build order (every reference
// is defined before it is used).
type GraphSpec struct {
	Name     string        `json:"name"`
	Mode     string        `json:"mode"` // "chars" | "words"
	Fold     bool          `json:"fold,omitempty"`
	Tokens   []string      `json:"tokens"`
	Patterns []PatternSpec `json:"patterns"`
}

// PatternSpec is one named composite vertex and its alternative
// decompositions. Each decomposition lists token or pattern names.
type PatternSpec struct {
	Name           string     `json:"name"`
	Decompositions [][]string `json:"decompositions"`
}

// Op names an engine operation recorded in a run.
type Op string

const (
	OpLoad        Op = "load"
	OpInsert      Op = "insert"
	OpFind        Op = "find"
	OpSplit       Op = "split"
	OpSplitInsert Op = "split_insert"
	OpCheck       Op = "check"
)

// ValidOps lists the operations a scenario or session may issue.
var ValidOps = map[Op]bool{
	OpInsert:      true,
	OpFind:        true,
	OpSplit:       true,
	OpSplitInsert: true,
	OpCheck:       true,
}
