package hypergraph

import "fmt"

// RangeKind classifies where a query sits inside the matched vertex.
type RangeKind int

const (
	// RangeComplete: the query spans the whole vertex.
	RangeComplete RangeKind = iota
	// RangePrefix: the query is a leading slice; Post holds the rest.
	RangePrefix
	// RangePostfix: the query is a trailing slice; Pre holds what precedes it.
	RangePostfix
	// RangeInfix: the query is interior; Pre and Post surround it.
	RangeInfix
)

var rangeKindNames = [...]string{"complete", "prefix", "postfix", "infix"}

func (k RangeKind) String() string {
	if k < 0 || int(k) >= len(rangeKindNames) {
		return fmt.Sprintf("RangeKind(%d)", int(k))
	}
	return rangeKindNames[k]
}

// ParseRangeKind parses the String form of a RangeKind.
func ParseRangeKind(s string) (RangeKind, error) {
	for i, name := range rangeKindNames {
		if name == s {
			return RangeKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown range kind %q", s)
}

// FoundRange is the classification of a search match relative to the matched
// vertex's span, carrying the vertex content not covered by the query.
type FoundRange struct {
	Kind RangeKind
	Pre  Pattern
	Post Pattern
}

// Complete returns the range of a query spanning its whole vertex.
func Complete() FoundRange { return FoundRange{Kind: RangeComplete} }

// PrefixRange returns the range of a query followed by post in its vertex.
func PrefixRange(post Pattern) FoundRange { return FoundRange{Kind: RangePrefix, Post: post} }

// PostfixRange returns the range of a query preceded by pre in its vertex.
func PostfixRange(pre Pattern) FoundRange { return FoundRange{Kind: RangePostfix, Pre: pre} }

// InfixRange returns the range of a query surrounded by pre and post.
func InfixRange(pre, post Pattern) FoundRange {
	return FoundRange{Kind: RangeInfix, Pre: pre, Post: post}
}

// IsMatching reports whether the query spans the whole vertex.
func (r FoundRange) IsMatching() bool {
	return r.Kind == RangeComplete
}

// PrependPrefix records content found in front of the match. Content
// discovered later is placed ahead of content already recorded.
func (r FoundRange) PrependPrefix(p Pattern) FoundRange {
	if len(p) == 0 {
		return r
	}
	switch r.Kind {
	case RangeComplete:
		return PostfixRange(p.Clone())
	case RangePrefix:
		return InfixRange(p.Clone(), r.Post)
	case RangePostfix:
		return PostfixRange(concat(p, r.Pre))
	default:
		return InfixRange(concat(p, r.Pre), r.Post)
	}
}

// Reverse mirrors the range for matching in the opposite direction.
func (r FoundRange) Reverse() FoundRange {
	switch r.Kind {
	case RangePrefix:
		return PostfixRange(r.Post)
	case RangePostfix:
		return PrefixRange(r.Pre)
	case RangeInfix:
		return InfixRange(r.Post, r.Pre)
	default:
		return r
	}
}

// Equal compares kind and remainders by index.
func (r FoundRange) Equal(other FoundRange) bool {
	return r.Kind == other.Kind && r.Pre.Equal(other.Pre) && r.Post.Equal(other.Post)
}

// SearchFound is a successful search: the vertex containing the query, the
// pattern and position where the final anchor occurs, and the range.
type SearchFound struct {
	Vertex   Child
	Pattern  PatternID
	Position int
	Range    FoundRange
}

// PrependPrefix applies FoundRange.PrependPrefix to the result's range.
func (f SearchFound) PrependPrefix(p Pattern) SearchFound {
	f.Range = f.Range.PrependPrefix(p)
	return f
}

// better orders candidates: narrower vertex first, then Complete over
// partial ranges, then lower index, pattern id and position.
func (f *SearchFound) better(o *SearchFound) bool {
	if f.Vertex.Width != o.Vertex.Width {
		return f.Vertex.Width < o.Vertex.Width
	}
	if f.Range.Kind != o.Range.Kind {
		return f.Range.Kind < o.Range.Kind
	}
	if f.Vertex.Index != o.Vertex.Index {
		return f.Vertex.Index < o.Vertex.Index
	}
	if f.Pattern != o.Pattern {
		return f.Pattern < o.Pattern
	}
	return f.Position < o.Position
}

// Tokenizer converts raw input into atomic tokens.
type Tokenizer[T comparable] interface {
	Tokenize(input string) []T
}

// FindSequence tokenizes input and searches for the token sequence. It
// returns nil if any token was never inserted.
func (h *Hypergraph[T]) FindSequence(tok Tokenizer[T], input string) (*SearchFound, error) {
	return h.FindTokens(tok.Tokenize(input))
}

// FindTokens searches for a sequence of tokens. It returns nil if any token
// was never inserted.
func (h *Hypergraph[T]) FindTokens(tokens []T) (*SearchFound, error) {
	p, ok := h.ToTokenChildren(tokens)
	if !ok {
		return nil, nil
	}
	return h.FindPattern(p)
}

// FindPattern searches for the smallest vertex containing the sequence of
// children. A single element is never reported as an occurrence. A miss
// returns (nil, nil); only unknown indices produce an error.
func (h *Hypergraph[T]) FindPattern(pattern Pattern) (*SearchFound, error) {
	resolved := make(Pattern, len(pattern))
	for i, c := range pattern {
		child, err := h.Child(c.Index)
		if err != nil {
			return nil, err
		}
		resolved[i] = child
	}
	if len(resolved) < 2 {
		return nil, nil
	}
	return h.FindPostfixFor(resolved[0], resolved[1:])
}

// FindPostfixFor searches the ancestors of anchor for content that continues
// with postfix.
//
// For each parent occurrence of the anchor, the pattern content after the
// anchor is matched against postfix:
//   - both end together: Complete (Postfix when content precedes the anchor)
//   - postfix ends first: Prefix with the parent's remainder (or Infix)
//   - parent ends first: climb, using the parent as the new anchor and the
//     unmatched postfix as the new query, carrying the preceding content
//
// Among all results the narrowest vertex wins.
func (h *Hypergraph[T]) FindPostfixFor(anchor Child, postfix Pattern) (*SearchFound, error) {
	if _, err := h.entry(anchor.Index); err != nil {
		return nil, err
	}
	s := &searcher[T]{
		graph:   h,
		visited: make(map[searchState]bool),
		total:   anchor.Width + postfix.Width(),
	}
	s.climb(anchor, postfix, nil)
	return s.best, nil
}

// searchState identifies a climbing step. The content preceding the query
// inside the anchor is fixed by the anchor and the consumed width, so the
// pair is enough to recognize repeated work.
type searchState struct {
	anchor   VertexIndex
	consumed int
}

type searcher[T comparable] struct {
	graph   *Hypergraph[T]
	visited map[searchState]bool
	total   int
	best    *SearchFound
}

func (s *searcher[T]) offer(f *SearchFound) {
	if s.best == nil || f.better(s.best) {
		s.best = f
	}
}

func (s *searcher[T]) climb(anchor Child, postfix Pattern, prefix Pattern) {
	state := searchState{anchor: anchor.Index, consumed: s.total - postfix.Width()}
	if s.visited[state] {
		return
	}
	s.visited[state] = true

	h := s.graph
	data := h.vertices[anchor.Index].data
	for _, pidx := range data.ParentIndices() {
		parent := data.parents[pidx]
		pdata := h.vertices[pidx].data
		vertex := Child{Index: pidx, Width: pdata.width}
		for _, occ := range parent.Occurrences() {
			p := pdata.children[occ.Pattern]
			pre := concat(p[:occ.Pos], prefix)
			outcome, rest := h.matchRight(postfix, p[occ.Pos+1:])
			switch outcome {
			case matchComplete:
				s.offer(&SearchFound{
					Vertex: vertex, Pattern: occ.Pattern, Position: occ.Pos,
					Range: Complete().PrependPrefix(pre),
				})
			case matchQueryDone:
				s.offer(&SearchFound{
					Vertex: vertex, Pattern: occ.Pattern, Position: occ.Pos,
					Range: PrefixRange(rest).PrependPrefix(pre),
				})
			case matchContextDone:
				s.climb(vertex, rest, pre)
			}
		}
	}
}
