package hypergraph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// runeTokenizer splits input into runes.
type runeTokenizer struct{}

func (runeTokenizer) Tokenize(input string) []rune {
	return []rune(input)
}

// fixture is the shared test graph over tokens a..i with heavily shared
// sub-sequences such as ab, abab and ababcd.
type fixture struct {
	g *Hypergraph[rune]

	a, b, c, d, e, f, gg, h, i VertexIndex

	ab, bc, cd, ef, def, cdef, gh, efgh, ghi      VertexIndex
	abc, bcd, abcd, efghi, abcdefghi              VertexIndex
	aba, abab, ababab, ababcd, ababababcd         VertexIndex
	ababcdefghi, ababababcdefghi, abababcdefghi   VertexIndex
}

func mustPattern(t *testing.T, g *Hypergraph[rune], indices ...VertexIndex) VertexIndex {
	t.Helper()
	idx, err := g.InsertPattern(indices)
	require.NoError(t, err)
	return idx
}

func mustPatterns(t *testing.T, g *Hypergraph[rune], patterns ...[]VertexIndex) VertexIndex {
	t.Helper()
	idx, err := g.InsertPatterns(patterns)
	require.NoError(t, err)
	return idx
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := New[rune]()
	fx := &fixture{g: g}
	tokens := g.InsertTokens([]rune("abcdefghi"))
	fx.a, fx.b, fx.c, fx.d, fx.e = tokens[0], tokens[1], tokens[2], tokens[3], tokens[4]
	fx.f, fx.gg, fx.h, fx.i = tokens[5], tokens[6], tokens[7], tokens[8]

	fx.ab = mustPattern(t, g, fx.a, fx.b)
	fx.bc = mustPattern(t, g, fx.b, fx.c)
	fx.ef = mustPattern(t, g, fx.e, fx.f)
	fx.def = mustPattern(t, g, fx.d, fx.ef)
	fx.cdef = mustPattern(t, g, fx.c, fx.def)
	fx.gh = mustPattern(t, g, fx.gg, fx.h)
	fx.efgh = mustPattern(t, g, fx.ef, fx.gh)
	fx.ghi = mustPattern(t, g, fx.gh, fx.i)
	fx.abc = mustPatterns(t, g, []VertexIndex{fx.ab, fx.c}, []VertexIndex{fx.a, fx.bc})
	fx.cd = mustPattern(t, g, fx.c, fx.d)
	fx.bcd = mustPatterns(t, g, []VertexIndex{fx.bc, fx.d}, []VertexIndex{fx.b, fx.cd})
	fx.abcd = mustPatterns(t, g, []VertexIndex{fx.abc, fx.d}, []VertexIndex{fx.a, fx.bcd})
	fx.efghi = mustPatterns(t, g, []VertexIndex{fx.efgh, fx.i}, []VertexIndex{fx.ef, fx.ghi})
	fx.abcdefghi = mustPattern(t, g, fx.abcd, fx.efghi)
	fx.aba = mustPattern(t, g, fx.ab, fx.a)
	fx.abab = mustPatterns(t, g, []VertexIndex{fx.aba, fx.b}, []VertexIndex{fx.ab, fx.ab})
	fx.ababab = mustPatterns(t, g, []VertexIndex{fx.abab, fx.ab}, []VertexIndex{fx.ab, fx.abab})
	fx.ababcd = mustPatterns(t, g,
		[]VertexIndex{fx.ab, fx.abcd},
		[]VertexIndex{fx.aba, fx.bcd},
		[]VertexIndex{fx.abab, fx.cd},
	)
	fx.ababababcd = mustPatterns(t, g,
		[]VertexIndex{fx.ababab, fx.abcd},
		[]VertexIndex{fx.abab, fx.ababcd},
	)
	fx.ababcdefghi = mustPatterns(t, g,
		[]VertexIndex{fx.ab, fx.abcdefghi},
		[]VertexIndex{fx.ababcd, fx.efghi},
	)
	fx.ababababcdefghi = mustPatterns(t, g,
		[]VertexIndex{fx.ababababcd, fx.efghi},
		[]VertexIndex{fx.abab, fx.ababcdefghi},
	)
	fx.abababcdefghi = mustPattern(t, g, fx.ababab, fx.abcdefghi)
	return fx
}

// child builds a Child with the vertex's current width.
func (fx *fixture) child(t *testing.T, index VertexIndex) Child {
	t.Helper()
	c, err := fx.g.Child(index)
	require.NoError(t, err)
	return c
}

func (fx *fixture) pattern(t *testing.T, indices ...VertexIndex) Pattern {
	t.Helper()
	p := make(Pattern, len(indices))
	for i, idx := range indices {
		p[i] = fx.child(t, idx)
	}
	return p
}

// strs renders patterns with "_" between children for readable assertions.
func strs[T comparable](g *Hypergraph[T], ps []Pattern) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = g.SeparatedPatternString(p)
	}
	return out
}
