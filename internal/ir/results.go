package ir

// InsertResult describes the vertex returned by an insertion.
type InsertResult struct {
	Vertex  string `json:"vertex"` // name or rendered content
	Index   int    `json:"index"`
	Width   int    `json:"width"`
	Created bool   `json:"created"`
}

// FindResult is the outcome of a search. A miss has Found == false and no
// other fields set.
type FindResult struct {
	Found    bool     `json:"found"`
	Vertex   string   `json:"vertex,omitempty"`
	Index    int      `json:"index,omitempty"`
	Width    int      `json:"width,omitempty"`
	Pattern  int      `json:"pattern,omitempty"`
	Position int      `json:"position,omitempty"`
	Range    string   `json:"range,omitempty"` // complete | prefix | postfix | infix
	Pre      []string `json:"pre,omitempty"`
	Post     []string `json:"post,omitempty"`
}

// SplitResult is the outcome of splitting a vertex at a token offset.
// Lefts and Rights render each alternative as the list of its children.
type SplitResult struct {
	Vertex string     `json:"vertex"`
	Pos    int        `json:"pos"`
	Lefts  [][]string `json:"lefts"`
	Rights [][]string `json:"rights"`
	Tree   string     `json:"tree,omitempty"`

	// Set only when the split was inserted into the graph.
	Left  string `json:"left,omitempty"`
	Right string `json:"right,omitempty"`
}

// CheckResult summarizes a structural check of the graph.
type CheckResult struct {
	Vertices   int      `json:"vertices"`
	Patterns   int      `json:"patterns"`
	Violations []string `json:"violations,omitempty"`
}

// Stats reports graph and engine counters.
type Stats struct {
	Vertices   int   `json:"vertices"`
	Tokens     int   `json:"tokens"`
	Patterns   int   `json:"patterns"`
	Names      int   `json:"names"`
	Operations int64 `json:"operations"`
}
