package hypergraph

import (
	"fmt"
	"sync/atomic"
)

// counter mints monotonically increasing ids for one graph instance.
type counter struct {
	n atomic.Int64
}

func (c *counter) next() int64 {
	return c.n.Add(1) - 1
}

func (c *counter) peek() int64 {
	return c.n.Load()
}

type vertexEntry[T comparable] struct {
	key  VertexKey[T]
	data *VertexData
}

// Hypergraph owns every vertex of the index. It is generic over the token
// type; tokens are displayed with fmt.Sprint.
type Hypergraph[T comparable] struct {
	vertices []vertexEntry[T]
	keys     map[VertexKey[T]]VertexIndex

	vertexIDs  counter
	patternIDs counter
}

// New creates an empty graph.
func New[T comparable]() *Hypergraph[T] {
	return &Hypergraph[T]{
		keys: make(map[VertexKey[T]]VertexIndex),
	}
}

// Clone returns an independent copy of the graph. Ids minted by the copy
// continue from the original's counters.
func (h *Hypergraph[T]) Clone() *Hypergraph[T] {
	c := &Hypergraph[T]{
		vertices: make([]vertexEntry[T], len(h.vertices)),
		keys:     make(map[VertexKey[T]]VertexIndex, len(h.keys)),
	}
	for i, e := range h.vertices {
		c.vertices[i] = vertexEntry[T]{key: e.key, data: e.data.Clone()}
	}
	for k, v := range h.keys {
		c.keys[k] = v
	}
	c.vertexIDs.n.Store(h.vertexIDs.peek())
	c.patternIDs.n.Store(h.patternIDs.peek())
	return c
}

// VertexCount returns the number of vertices.
func (h *Hypergraph[T]) VertexCount() int {
	return len(h.vertices)
}

// PatternCount returns the number of pattern ids issued so far.
func (h *Hypergraph[T]) PatternCount() int {
	return int(h.patternIDs.peek())
}

func (h *Hypergraph[T]) entry(index VertexIndex) (*vertexEntry[T], error) {
	if index < 0 || int(index) >= len(h.vertices) {
		return nil, errVertexNotFound(index)
	}
	return &h.vertices[index], nil
}

// VertexData returns the data of the vertex at index.
// The returned value is owned by the graph and must be treated as read-only.
func (h *Hypergraph[T]) VertexData(index VertexIndex) (*VertexData, error) {
	e, err := h.entry(index)
	if err != nil {
		return nil, err
	}
	return e.data, nil
}

// VertexKey returns the key of the vertex at index.
func (h *Hypergraph[T]) VertexKey(index VertexIndex) (VertexKey[T], error) {
	e, err := h.entry(index)
	if err != nil {
		return VertexKey[T]{}, err
	}
	return e.key, nil
}

// Lookup returns the index registered for key.
func (h *Hypergraph[T]) Lookup(key VertexKey[T]) (VertexIndex, bool) {
	idx, ok := h.keys[key]
	return idx, ok
}

// TokenIndex returns the leaf index of token t.
func (h *Hypergraph[T]) TokenIndex(t T) (VertexIndex, bool) {
	return h.Lookup(TokenKey(t))
}

// IndexWidth returns the width of the vertex at index.
func (h *Hypergraph[T]) IndexWidth(index VertexIndex) (int, error) {
	data, err := h.VertexData(index)
	if err != nil {
		return 0, err
	}
	return data.width, nil
}

// Child returns a Child reference with the vertex's current width.
func (h *Hypergraph[T]) Child(index VertexIndex) (Child, error) {
	w, err := h.IndexWidth(index)
	if err != nil {
		return Child{}, err
	}
	return Child{Index: index, Width: w}, nil
}

// Children returns every decomposition of the vertex ordered by pattern id.
func (h *Hypergraph[T]) Children(index VertexIndex) ([]Decomposition, error) {
	data, err := h.VertexData(index)
	if err != nil {
		return nil, err
	}
	return data.Decompositions(), nil
}

// ChildPattern returns one decomposition of the vertex.
func (h *Hypergraph[T]) ChildPattern(index VertexIndex, id PatternID) (Pattern, error) {
	data, err := h.VertexData(index)
	if err != nil {
		return nil, err
	}
	p, ok := data.ChildPattern(id)
	if !ok {
		return nil, &GraphError{
			Code:    ErrCodeVertexNotFound,
			Index:   index,
			Message: fmt.Sprintf("pattern %d not found", id),
		}
	}
	return p, nil
}

// LeafTokens expands a vertex to the tokens it spans, following the
// lowest-id decomposition at every level.
func (h *Hypergraph[T]) LeafTokens(index VertexIndex) ([]T, error) {
	e, err := h.entry(index)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, e.data.width)
	stack := []VertexIndex{index}
	for len(stack) > 0 {
		cur := h.vertices[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if cur.key.isToken {
			out = append(out, cur.key.token)
			continue
		}
		_, p, ok := cur.data.firstPattern()
		if !ok {
			continue
		}
		for i := len(p) - 1; i >= 0; i-- {
			stack = append(stack, p[i].Index)
		}
	}
	return out, nil
}

// ParentRef is a snapshot of one parent back-reference.
type ParentRef struct {
	Index       VertexIndex  `json:"index"`
	Width       int          `json:"width"`
	Occurrences []Occurrence `json:"occurrences"`
}

// Parents returns the parents of the vertex ordered by index.
func (h *Hypergraph[T]) Parents(index VertexIndex) ([]ParentRef, error) {
	data, err := h.VertexData(index)
	if err != nil {
		return nil, err
	}
	out := make([]ParentRef, 0, len(data.parents))
	for _, idx := range data.ParentIndices() {
		p := data.parents[idx]
		out = append(out, ParentRef{Index: idx, Width: p.width, Occurrences: p.Occurrences()})
	}
	return out, nil
}

// toChildren resolves indices to children with their current widths.
func (h *Hypergraph[T]) toChildren(indices []VertexIndex) (Pattern, error) {
	if len(indices) == 0 {
		return nil, errEmptyPattern()
	}
	p := make(Pattern, len(indices))
	for i, idx := range indices {
		c, err := h.Child(idx)
		if err != nil {
			return nil, err
		}
		p[i] = c
	}
	return p, nil
}

// ToTokenChildren resolves tokens to their leaves. It reports false if any
// token was never inserted.
func (h *Hypergraph[T]) ToTokenChildren(tokens []T) (Pattern, bool) {
	p := make(Pattern, len(tokens))
	for i, t := range tokens {
		idx, ok := h.TokenIndex(t)
		if !ok {
			return nil, false
		}
		p[i] = Child{Index: idx, Width: 1}
	}
	return p, true
}

// isAncestor reports whether anc is reachable from index by following
// parent references.
func (h *Hypergraph[T]) isAncestor(anc, index VertexIndex) bool {
	seen := map[VertexIndex]bool{index: true}
	stack := []VertexIndex{index}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for idx := range h.vertices[cur].data.parents {
			if idx == anc {
				return true
			}
			if !seen[idx] {
				seen[idx] = true
				stack = append(stack, idx)
			}
		}
	}
	return false
}
