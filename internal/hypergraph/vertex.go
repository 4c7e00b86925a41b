package hypergraph

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// VertexIndex is the arena handle of a vertex. Indices are issued by a
// per-graph monotonic counter and never reused.
type VertexIndex int

// PatternID identifies one decomposition of a composite vertex.
type PatternID int

// Child is a reference to a vertex plus its cached token width.
type Child struct {
	Index VertexIndex `json:"index"`
	Width int         `json:"width"`
}

// Equal compares by index only; the cached width does not take part.
func (c Child) Equal(other Child) bool {
	return c.Index == other.Index
}

// Pattern is an ordered sequence of children: one decomposition of a vertex.
type Pattern []Child

// Width returns the sum of child widths.
func (p Pattern) Width() int {
	w := 0
	for _, c := range p {
		w += c.Width
	}
	return w
}

// Indices returns the vertex indices of the pattern in order.
func (p Pattern) Indices() []VertexIndex {
	out := make([]VertexIndex, len(p))
	for i, c := range p {
		out[i] = c.Index
	}
	return out
}

// Equal reports whether both patterns reference the same vertices in order.
func (p Pattern) Equal(other Pattern) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !p[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no backing array with p.
func (p Pattern) Clone() Pattern {
	if p == nil {
		return nil
	}
	out := make(Pattern, len(p))
	copy(out, p)
	return out
}

// concat returns a fresh pattern holding a followed by b.
func concat(a, b Pattern) Pattern {
	out := make(Pattern, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// PatternWidth sums the widths of children. Equivalent to p.Width().
func PatternWidth(p Pattern) int {
	return p.Width()
}

// Occurrence is one position of a child inside a parent pattern.
type Occurrence struct {
	Pattern PatternID `json:"pattern"`
	Pos     int       `json:"pos"`
}

func compareOccurrence(a, b interface{}) int {
	x := a.(Occurrence)
	y := b.(Occurrence)
	if c := utils.IntComparator(int(x.Pattern), int(y.Pattern)); c != 0 {
		return c
	}
	return utils.IntComparator(x.Pos, y.Pos)
}

// Parent is the back-reference a child vertex keeps for one composite that
// contains it. A child can occur several times across the alternative
// patterns of the same parent, so occurrences form a set.
type Parent struct {
	width       int
	occurrences *treeset.Set
}

// NewParent creates a parent reference with no occurrences.
func NewParent(width int) *Parent {
	return &Parent{
		width:       width,
		occurrences: treeset.NewWith(compareOccurrence),
	}
}

// Width returns the parent's width as observed from the child.
func (p *Parent) Width() int {
	return p.width
}

// AddOccurrence records the child at (pattern, pos).
func (p *Parent) AddOccurrence(pattern PatternID, pos int) {
	p.occurrences.Add(Occurrence{Pattern: pattern, Pos: pos})
}

// RemoveOccurrence forgets the child at (pattern, pos).
func (p *Parent) RemoveOccurrence(pattern PatternID, pos int) {
	p.occurrences.Remove(Occurrence{Pattern: pattern, Pos: pos})
}

// HasOccurrence reports whether the child is recorded at (pattern, pos).
func (p *Parent) HasOccurrence(pattern PatternID, pos int) bool {
	return p.occurrences.Contains(Occurrence{Pattern: pattern, Pos: pos})
}

// Len returns the number of recorded occurrences.
func (p *Parent) Len() int {
	return p.occurrences.Size()
}

// Occurrences returns all occurrences ordered by (pattern, pos).
func (p *Parent) Occurrences() []Occurrence {
	values := p.occurrences.Values()
	out := make([]Occurrence, len(values))
	for i, v := range values {
		out[i] = v.(Occurrence)
	}
	return out
}

// ExistsAtPos reports whether the child occurs at position pos in any pattern.
func (p *Parent) ExistsAtPos(pos int) bool {
	found := false
	p.occurrences.Each(func(_ int, v interface{}) {
		if v.(Occurrence).Pos == pos {
			found = true
		}
	})
	return found
}

// PatternCandidates returns occurrences at the given position, or every
// occurrence when pos is negative.
func (p *Parent) PatternCandidates(pos int) []Occurrence {
	if pos < 0 {
		return p.Occurrences()
	}
	sel := p.occurrences.Select(func(_ int, v interface{}) bool {
		return v.(Occurrence).Pos == pos
	})
	values := sel.Values()
	out := make([]Occurrence, len(values))
	for i, v := range values {
		out[i] = v.(Occurrence)
	}
	return out
}

func (p *Parent) clone() *Parent {
	c := NewParent(p.width)
	c.occurrences.Add(p.occurrences.Values()...)
	return c
}

// VertexKey identifies a vertex for reverse lookup: Token(t) for leaves,
// Pattern(n) for composites.
type VertexKey[T comparable] struct {
	token   T
	pattern VertexIndex
	isToken bool
}

// TokenKey returns the key of the leaf for token t.
func TokenKey[T comparable](t T) VertexKey[T] {
	return VertexKey[T]{token: t, isToken: true}
}

// PatternKey returns the key of the composite numbered n.
func PatternKey[T comparable](n VertexIndex) VertexKey[T] {
	return VertexKey[T]{pattern: n}
}

// IsToken reports whether the key names a leaf.
func (k VertexKey[T]) IsToken() bool {
	return k.isToken
}

// Token returns the token of a leaf key.
func (k VertexKey[T]) Token() (T, bool) {
	return k.token, k.isToken
}

// PatternNumber returns the number of a composite key.
func (k VertexKey[T]) PatternNumber() (VertexIndex, bool) {
	return k.pattern, !k.isToken
}

func (k VertexKey[T]) String() string {
	if k.isToken {
		return fmt.Sprintf("Token(%v)", k.token)
	}
	return fmt.Sprintf("Pattern(%d)", k.pattern)
}

// Decomposition pairs a pattern with its id.
type Decomposition struct {
	ID      PatternID
	Pattern Pattern
}

// VertexData holds a vertex's width, its child patterns and its parents.
type VertexData struct {
	width    int
	children map[PatternID]Pattern
	parents  map[VertexIndex]*Parent
}

// NewVertexData creates vertex data of the given width with no patterns.
func NewVertexData(width int) *VertexData {
	return &VertexData{
		width:    width,
		children: make(map[PatternID]Pattern),
		parents:  make(map[VertexIndex]*Parent),
	}
}

// Width returns the total token span of the vertex.
func (v *VertexData) Width() int {
	return v.width
}

// IsLeaf reports whether the vertex has no child patterns.
func (v *VertexData) IsLeaf() bool {
	return len(v.children) == 0
}

// PatternCount returns the number of decompositions.
func (v *VertexData) PatternCount() int {
	return len(v.children)
}

// ChildPattern returns the decomposition with the given id.
func (v *VertexData) ChildPattern(id PatternID) (Pattern, bool) {
	p, ok := v.children[id]
	return p, ok
}

// PatternIDs returns the ids of all decompositions in ascending order.
func (v *VertexData) PatternIDs() []PatternID {
	ids := make([]PatternID, 0, len(v.children))
	for id := range v.children {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Decompositions returns every decomposition ordered by pattern id.
// The patterns are shared with the vertex and must not be modified.
func (v *VertexData) Decompositions() []Decomposition {
	ids := v.PatternIDs()
	out := make([]Decomposition, len(ids))
	for i, id := range ids {
		out[i] = Decomposition{ID: id, Pattern: v.children[id]}
	}
	return out
}

// firstPattern returns the decomposition with the lowest id.
func (v *VertexData) firstPattern() (PatternID, Pattern, bool) {
	ids := v.PatternIDs()
	if len(ids) == 0 {
		return 0, nil, false
	}
	return ids[0], v.children[ids[0]], true
}

// Parent returns the back-reference for the given parent vertex.
func (v *VertexData) Parent(index VertexIndex) (*Parent, bool) {
	p, ok := v.parents[index]
	return p, ok
}

// ParentIndices returns the indices of all parents in ascending order.
func (v *VertexData) ParentIndices() []VertexIndex {
	out := make([]VertexIndex, 0, len(v.parents))
	for idx := range v.parents {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParentCount returns the number of distinct parents.
func (v *VertexData) ParentCount() int {
	return len(v.parents)
}

func (v *VertexData) addPattern(id PatternID, p Pattern) {
	v.children[id] = p.Clone()
}

func (v *VertexData) addParent(vertex VertexIndex, width int, pattern PatternID, pos int) {
	parent, ok := v.parents[vertex]
	if !ok {
		parent = NewParent(width)
		v.parents[vertex] = parent
	}
	parent.AddOccurrence(pattern, pos)
}

// removeParent drops one occurrence and deletes the whole Parent entry once
// no occurrence is left. No graph operation detaches patterns yet; it is the
// counterpart of addParent that CheckInvariants tests use to break symmetry.
func (v *VertexData) removeParent(vertex VertexIndex, pattern PatternID, pos int) {
	parent, ok := v.parents[vertex]
	if !ok {
		return
	}
	parent.RemoveOccurrence(pattern, pos)
	if parent.Len() == 0 {
		delete(v.parents, vertex)
	}
}

// Clone returns a deep copy of the vertex data.
func (v *VertexData) Clone() *VertexData {
	c := NewVertexData(v.width)
	for id, p := range v.children {
		c.children[id] = p.Clone()
	}
	for idx, p := range v.parents {
		c.parents[idx] = p.clone()
	}
	return c
}
