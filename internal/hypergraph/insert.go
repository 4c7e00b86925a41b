package hypergraph

import "fmt"

// InsertVertex stores data under key and returns the new index.
//
// Patterns already present in data must reference existing vertices; their
// parent back-references are wired as part of the insertion. Parents present
// in data are ignored.
func (h *Hypergraph[T]) InsertVertex(key VertexKey[T], data *VertexData) (VertexIndex, error) {
	if _, exists := h.keys[key]; exists {
		return -1, &GraphError{
			Code:    ErrCodeDuplicateKey,
			Index:   h.keys[key],
			Message: fmt.Sprintf("key %s already present", key),
		}
	}
	decomps := data.Decompositions()
	if key.isToken {
		if len(decomps) > 0 {
			return -1, &GraphError{Code: ErrCodeLeafDecomposition, Index: -1, Message: "token leaves cannot hold patterns"}
		}
		if data.width != 1 {
			return -1, &GraphError{Code: ErrCodeWidthMismatch, Index: -1, Message: fmt.Sprintf("token width %d, want 1", data.width)}
		}
	} else {
		if next := h.NextPatternKey(); key != next {
			return -1, &GraphError{
				Code:    ErrCodeDuplicateKey,
				Index:   -1,
				Message: fmt.Sprintf("key %s must be %s", key, next),
			}
		}
		if len(decomps) == 0 {
			return -1, errEmptyPattern()
		}
	}
	for _, d := range decomps {
		if len(d.Pattern) == 0 {
			return -1, errEmptyPattern()
		}
		for _, c := range d.Pattern {
			if _, err := h.entry(c.Index); err != nil {
				return -1, err
			}
		}
		if w := d.Pattern.Width(); w != data.width {
			return -1, &GraphError{
				Code:    ErrCodeWidthMismatch,
				Index:   -1,
				Message: fmt.Sprintf("pattern width %d, vertex width %d", w, data.width),
			}
		}
	}

	stored := NewVertexData(data.width)
	index := h.push(key, stored)
	for _, d := range decomps {
		// Re-issue ids so pattern ids stay unique in this graph.
		h.attach(index, stored, d.Pattern)
	}
	return index, nil
}

// NextPatternKey returns the key the next composite vertex will receive.
func (h *Hypergraph[T]) NextPatternKey() VertexKey[T] {
	return PatternKey[T](VertexIndex(h.vertexIDs.peek()))
}

// push appends a vertex to the arena.
func (h *Hypergraph[T]) push(key VertexKey[T], data *VertexData) VertexIndex {
	index := VertexIndex(h.vertexIDs.next())
	h.vertices = append(h.vertices, vertexEntry[T]{key: key, data: data})
	h.keys[key] = index
	return index
}

// attach adds pattern p to the vertex and installs back-references on every
// child. The pattern must already be validated.
func (h *Hypergraph[T]) attach(index VertexIndex, data *VertexData, p Pattern) PatternID {
	id := PatternID(h.patternIDs.next())
	data.addPattern(id, p)
	for pos, c := range p {
		h.vertices[c.Index].data.addParent(index, data.width, id, pos)
	}
	return id
}

// InsertToken returns the leaf for t, creating it on first use.
func (h *Hypergraph[T]) InsertToken(t T) VertexIndex {
	key := TokenKey(t)
	if idx, ok := h.keys[key]; ok {
		return idx
	}
	return h.push(key, NewVertexData(1))
}

// InsertTokens inserts each token and returns their leaf indices in order.
func (h *Hypergraph[T]) InsertTokens(tokens []T) []VertexIndex {
	out := make([]VertexIndex, len(tokens))
	for i, t := range tokens {
		out[i] = h.InsertToken(t)
	}
	return out
}

// InsertPattern creates a composite vertex with a single decomposition made
// of the given children. The width is the sum of the children's widths.
func (h *Hypergraph[T]) InsertPattern(indices []VertexIndex) (VertexIndex, error) {
	p, err := h.toChildren(indices)
	if err != nil {
		return -1, err
	}
	return h.insertPattern(p), nil
}

func (h *Hypergraph[T]) insertPattern(p Pattern) VertexIndex {
	data := NewVertexData(p.Width())
	index := VertexIndex(h.vertexIDs.peek())
	h.push(PatternKey[T](index), data)
	h.attach(index, data, p)
	return index
}

// InsertPatterns creates one vertex from the first sequence and attaches every
// further sequence as an alternative decomposition of it. The sequences are
// asserted by the caller to denote the same content; their widths are not
// compared.
func (h *Hypergraph[T]) InsertPatterns(patterns [][]VertexIndex) (VertexIndex, error) {
	resolved, err := h.resolveAll(patterns)
	if err != nil {
		return -1, err
	}
	index := h.insertPattern(resolved[0])
	data := h.vertices[index].data
	for _, p := range resolved[1:] {
		h.attach(index, data, p)
	}
	return index, nil
}

// InsertPatternsChecked is InsertPatterns with width agreement enforced:
// every decomposition must have the width of the first.
func (h *Hypergraph[T]) InsertPatternsChecked(patterns [][]VertexIndex) (VertexIndex, error) {
	resolved, err := h.resolveAll(patterns)
	if err != nil {
		return -1, err
	}
	want := resolved[0].Width()
	for i, p := range resolved[1:] {
		if w := p.Width(); w != want {
			return -1, &GraphError{
				Code:    ErrCodeWidthMismatch,
				Index:   -1,
				Message: fmt.Sprintf("decomposition %d has width %d, want %d", i+1, w, want),
			}
		}
	}
	return h.InsertPatterns(patterns)
}

func (h *Hypergraph[T]) resolveAll(patterns [][]VertexIndex) ([]Pattern, error) {
	if len(patterns) == 0 {
		return nil, errEmptyPattern()
	}
	out := make([]Pattern, len(patterns))
	for i, indices := range patterns {
		p, err := h.toChildren(indices)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// AddPatternToNode attaches another decomposition to an existing composite
// vertex and returns its pattern id.
func (h *Hypergraph[T]) AddPatternToNode(index VertexIndex, indices []VertexIndex) (PatternID, error) {
	e, err := h.entry(index)
	if err != nil {
		return -1, err
	}
	if e.key.isToken {
		return -1, &GraphError{
			Code:    ErrCodeLeafDecomposition,
			Index:   index,
			Message: "token leaves cannot hold patterns",
		}
	}
	p, err := h.toChildren(indices)
	if err != nil {
		return -1, err
	}
	for _, c := range p {
		if c.Index == index || h.isAncestor(c.Index, index) {
			return -1, &GraphError{
				Code:    ErrCodeCyclicPattern,
				Index:   index,
				Message: fmt.Sprintf("child %d contains the vertex", c.Index),
			}
		}
	}
	return h.attach(index, e.data, p), nil
}
