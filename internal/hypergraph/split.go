package hypergraph

// SplitIndex locates a token offset inside one decomposition: the child that
// contains it, the child's position in the pattern, and the offset left over
// inside that child. Offset 0 means the split falls on the boundary in front
// of the child.
type SplitIndex struct {
	Index    VertexIndex `json:"index"`
	IndexPos int         `json:"index_pos"`
	Offset   int         `json:"offset"`
}

// PatternSplitIndex is a SplitIndex found in a specific decomposition.
type PatternSplitIndex struct {
	Pattern PatternID `json:"pattern"`
	SplitIndex
}

// SplitKey names a pending inner split: a child vertex and the offset inside it.
type SplitKey struct {
	Index  VertexIndex `json:"index"`
	Offset int         `json:"offset"`
}

// SplitContext is an imperfect split of one decomposition: the content
// around the child that must itself be split, and the key for that child.
type SplitContext struct {
	Pattern PatternID `json:"pattern"`
	Prefix  Pattern   `json:"prefix"`
	Postfix Pattern   `json:"postfix"`
	Key     SplitKey  `json:"key"`
}

// PerfectSplit is a split of one decomposition that falls on a boundary.
type PerfectSplit struct {
	Pattern PatternID `json:"pattern"`
	Left    Pattern   `json:"left"`
	Right   Pattern   `json:"right"`
}

// SplitPatternAtIndex splits before the child at position i:
// (p[:i], p[i:]). The results do not share storage with p.
func SplitPatternAtIndex(p Pattern, i int) (Pattern, Pattern) {
	return p[:i].Clone(), p[i:].Clone()
}

// SplitPatternContext splits around the child at position i, leaving it out:
// (p[:i], p[i+1:]).
func SplitPatternContext(p Pattern, i int) (Pattern, Pattern) {
	return p[:i].Clone(), p[i+1:].Clone()
}

// FindPatternSplitIndex walks the children of p accumulating width until it
// reaches the child containing token offset pos. It reports false when pos
// lies at or beyond the end of the pattern.
func FindPatternSplitIndex(p Pattern, pos int) (SplitIndex, bool) {
	skipped := 0
	for i, c := range p {
		if skipped+c.Width <= pos {
			skipped += c.Width
			continue
		}
		return SplitIndex{Index: c.Index, IndexPos: i, Offset: pos - skipped}, true
	}
	return SplitIndex{}, false
}

// checkSplitPosition validates 0 < pos < width(root).
func (h *Hypergraph[T]) checkSplitPosition(root VertexIndex, pos int) (*VertexData, error) {
	data, err := h.VertexData(root)
	if err != nil {
		return nil, err
	}
	if pos <= 0 || pos >= data.width {
		return nil, errInvalidSplitPosition(root, pos, data.width)
	}
	return data, nil
}

// FindChildPatternSplitIndices runs FindPatternSplitIndex over every
// decomposition of root, in pattern id order.
func (h *Hypergraph[T]) FindChildPatternSplitIndices(root VertexIndex, pos int) ([]PatternSplitIndex, error) {
	data, err := h.checkSplitPosition(root, pos)
	if err != nil {
		return nil, err
	}
	return findChildPatternSplitIndices(data, pos), nil
}

func findChildPatternSplitIndices(data *VertexData, pos int) []PatternSplitIndex {
	decomps := data.Decompositions()
	out := make([]PatternSplitIndex, 0, len(decomps))
	for _, d := range decomps {
		if si, ok := FindPatternSplitIndex(d.Pattern, pos); ok {
			out = append(out, PatternSplitIndex{Pattern: d.ID, SplitIndex: si})
		}
	}
	return out
}

// classifySplits turns split indices into perfect splits and contexts.
func classifySplits(data *VertexData, indices []PatternSplitIndex) ([]PerfectSplit, []SplitContext) {
	var perfect []PerfectSplit
	var pending []SplitContext
	for _, si := range indices {
		p := data.children[si.Pattern]
		if si.Offset == 0 {
			left, right := SplitPatternAtIndex(p, si.IndexPos)
			perfect = append(perfect, PerfectSplit{Pattern: si.Pattern, Left: left, Right: right})
			continue
		}
		prefix, postfix := SplitPatternContext(p, si.IndexPos)
		pending = append(pending, SplitContext{
			Pattern: si.Pattern,
			Prefix:  prefix,
			Postfix: postfix,
			Key:     SplitKey{Index: si.Index, Offset: si.Offset},
		})
	}
	return perfect, pending
}

// SeparatePerfectSplit partitions the decompositions of root at pos into
// perfect splits and contexts that need an inner split. Every perfect split
// is returned, in pattern id order.
func (h *Hypergraph[T]) SeparatePerfectSplit(root VertexIndex, pos int) ([]PerfectSplit, []SplitContext, error) {
	data, err := h.checkSplitPosition(root, pos)
	if err != nil {
		return nil, nil, err
	}
	perfect, pending := classifySplits(data, findChildPatternSplitIndices(data, pos))
	return perfect, pending, nil
}

// TryPerfectSplit reports whether root splits perfectly at pos in every
// decomposition. The returned IndexSplit holds the perfect splits found; the
// contexts list every decomposition that does not split perfectly and is
// empty exactly when the split is perfect throughout.
func (h *Hypergraph[T]) TryPerfectSplit(root VertexIndex, pos int) (*IndexSplit, []SplitContext, error) {
	data, err := h.checkSplitPosition(root, pos)
	if err != nil {
		return nil, nil, err
	}
	perfect, pending := classifySplits(data, findChildPatternSplitIndices(data, pos))
	split := &IndexSplit{Index: root, Width: data.width, Offset: pos}
	for _, ps := range perfect {
		split.Splits = append(split.Splits, PatternSplit{
			Pattern: ps.Pattern,
			Prefix:  ps.Left,
			Postfix: ps.Right,
		})
	}
	return split, pending, nil
}
