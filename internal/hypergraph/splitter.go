package hypergraph

import (
	"fmt"
	"sort"
)

// PatternSplit is the split of one decomposition. A perfect split has no
// Inner split and cuts between Prefix and Postfix. Otherwise the child
// between them is split by Inner and its halves are spliced in:
// Prefix ++ inner left, inner right ++ Postfix.
type PatternSplit struct {
	Pattern PatternID   `json:"pattern"`
	Prefix  Pattern     `json:"prefix"`
	Postfix Pattern     `json:"postfix"`
	Inner   *IndexSplit `json:"inner,omitempty"`
}

// IsPerfect reports whether the split falls on a child boundary.
func (s PatternSplit) IsPerfect() bool {
	return s.Inner == nil
}

// Halves returns the left and right patterns of the split.
func (s PatternSplit) Halves() (Pattern, Pattern) {
	if s.Inner == nil {
		return s.Prefix.Clone(), s.Postfix.Clone()
	}
	left, right := s.Inner.Halves()
	return concat(s.Prefix, left), concat(right, s.Postfix)
}

// IndexSplit is the split tree of a vertex at an offset.
type IndexSplit struct {
	Index  VertexIndex    `json:"index"`
	Width  int            `json:"width"`
	Offset int            `json:"offset"`
	Splits []PatternSplit `json:"splits"`
}

// Representative picks the split used when this vertex is spliced into an
// enclosing context: the first perfect split, otherwise the split whose
// inner vertex is narrowest, ties going to the lower pattern id.
func (s *IndexSplit) Representative() PatternSplit {
	best := -1
	for i, ps := range s.Splits {
		if ps.IsPerfect() {
			return ps
		}
		if best < 0 || ps.Inner.Width < s.Splits[best].Inner.Width {
			best = i
		}
	}
	return s.Splits[best]
}

// Halves returns the halves of the representative split.
func (s *IndexSplit) Halves() (Pattern, Pattern) {
	return s.Representative().Halves()
}

// indexSplitter builds split trees. Inner splits are shared by key, so a
// child reached through several decompositions is resolved once.
type indexSplitter[T comparable] struct {
	graph *Hypergraph[T]
	memo  map[SplitKey]*IndexSplit
}

// build splits index at offset. For the root every decomposition is kept;
// inner vertices stop at their perfect splits when they have any.
func (s *indexSplitter[T]) build(index VertexIndex, offset int, root bool) (*IndexSplit, error) {
	key := SplitKey{Index: index, Offset: offset}
	if !root {
		if cached, ok := s.memo[key]; ok {
			return cached, nil
		}
	}
	data, err := s.graph.checkSplitPosition(index, offset)
	if err != nil {
		return nil, err
	}
	perfect, pending := classifySplits(data, findChildPatternSplitIndices(data, offset))

	split := &IndexSplit{Index: index, Width: data.width, Offset: offset}
	for _, ps := range perfect {
		split.Splits = append(split.Splits, PatternSplit{Pattern: ps.Pattern, Prefix: ps.Left, Postfix: ps.Right})
	}
	if root || len(perfect) == 0 {
		for _, sc := range pending {
			inner, err := s.build(sc.Key.Index, sc.Key.Offset, false)
			if err != nil {
				return nil, err
			}
			split.Splits = append(split.Splits, PatternSplit{
				Pattern: sc.Pattern,
				Prefix:  sc.Prefix,
				Postfix: sc.Postfix,
				Inner:   inner,
			})
		}
		sortPatternSplits(split.Splits)
	}
	if len(split.Splits) == 0 {
		return nil, &GraphError{
			Code:    ErrCodeWidthMismatch,
			Index:   index,
			Message: fmt.Sprintf("no decomposition covers offset %d", offset),
		}
	}
	if !root {
		s.memo[key] = split
	}
	return split, nil
}

func sortPatternSplits(splits []PatternSplit) {
	sort.SliceStable(splits, func(i, j int) bool { return splits[i].Pattern < splits[j].Pattern })
}

// SplitTree returns the full split tree of root at pos without modifying
// the graph.
func (h *Hypergraph[T]) SplitTree(root VertexIndex, pos int) (*IndexSplit, error) {
	s := &indexSplitter[T]{graph: h, memo: make(map[SplitKey]*IndexSplit)}
	return s.build(root, pos, true)
}

// SplitIndexAtPos splits root at token offset pos (0 < pos < width) and
// returns the left and right alternatives, one pair per decomposition of
// root. Identical alternatives are reported once, in pattern id order.
func (h *Hypergraph[T]) SplitIndexAtPos(root VertexIndex, pos int) ([]Pattern, []Pattern, error) {
	tree, err := h.SplitTree(root, pos)
	if err != nil {
		return nil, nil, err
	}
	var lefts, rights []Pattern
	for _, ps := range tree.Splits {
		left, right := ps.Halves()
		lefts = appendUnique(lefts, left)
		rights = appendUnique(rights, right)
	}
	return lefts, rights, nil
}

func appendUnique(list []Pattern, p Pattern) []Pattern {
	for _, q := range list {
		if q.Equal(p) {
			return list
		}
	}
	return append(list, p)
}

// InsertSplit splits root at pos, inserts vertices for the left and right
// halves, and attaches [left, right] as a decomposition of root unless it
// already has one. The split is computed before the graph is touched.
func (h *Hypergraph[T]) InsertSplit(root VertexIndex, pos int) (VertexIndex, VertexIndex, error) {
	lefts, rights, err := h.SplitIndexAtPos(root, pos)
	if err != nil {
		return -1, -1, err
	}
	left, err := h.insertAlternatives(lefts)
	if err != nil {
		return -1, -1, err
	}
	right, err := h.insertAlternatives(rights)
	if err != nil {
		return -1, -1, err
	}
	want := Pattern{{Index: left}, {Index: right}}
	for _, d := range h.vertices[root].data.Decompositions() {
		if d.Pattern.Equal(want) {
			return left, right, nil
		}
	}
	if _, err := h.AddPatternToNode(root, []VertexIndex{left, right}); err != nil {
		return -1, -1, err
	}
	return left, right, nil
}

// insertAlternatives returns a vertex for content given by equivalent
// patterns: an existing single child, an existing vertex spanning exactly
// that content, or a new vertex holding every alternative.
func (h *Hypergraph[T]) insertAlternatives(alts []Pattern) (VertexIndex, error) {
	for _, alt := range alts {
		if len(alt) == 1 {
			return alt[0].Index, nil
		}
	}
	found, err := h.FindPattern(alts[0])
	if err != nil {
		return -1, err
	}
	if found != nil && found.Range.IsMatching() {
		return found.Vertex.Index, nil
	}
	indices := make([][]VertexIndex, len(alts))
	for i, alt := range alts {
		indices[i] = alt.Indices()
	}
	return h.InsertPatterns(indices)
}
