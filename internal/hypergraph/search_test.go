package hypergraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoundRange_PrependPrefix(t *testing.T) {
	x := Pattern{{Index: 1, Width: 1}}
	y := Pattern{{Index: 2, Width: 1}}
	z := Pattern{{Index: 3, Width: 1}}

	tests := []struct {
		name string
		in   FoundRange
		want FoundRange
	}{
		{"complete", Complete(), PostfixRange(x)},
		{"prefix", PrefixRange(y), InfixRange(x, y)},
		{"postfix", PostfixRange(y), PostfixRange(Pattern{x[0], y[0]})},
		{"infix", InfixRange(y, z), InfixRange(Pattern{x[0], y[0]}, z)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.PrependPrefix(x)
			assert.True(t, tt.want.Equal(got), "got %+v", got)
		})
	}

	assert.True(t, Complete().PrependPrefix(nil).Equal(Complete()), "empty prefix is a no-op")
}

func TestFoundRange_Reverse(t *testing.T) {
	x := Pattern{{Index: 1, Width: 1}}
	y := Pattern{{Index: 2, Width: 1}}

	assert.True(t, Complete().Reverse().Equal(Complete()))
	assert.True(t, PrefixRange(x).Reverse().Equal(PostfixRange(x)))
	assert.True(t, PostfixRange(x).Reverse().Equal(PrefixRange(x)))
	assert.True(t, InfixRange(x, y).Reverse().Equal(InfixRange(y, x)))
	assert.True(t, InfixRange(x, y).Reverse().Reverse().Equal(InfixRange(x, y)))
}

func TestFoundRange_IsMatching(t *testing.T) {
	assert.True(t, Complete().IsMatching())
	assert.False(t, PrefixRange(nil).IsMatching())
	assert.False(t, PostfixRange(nil).IsMatching())
	assert.False(t, InfixRange(nil, nil).IsMatching())
}

func TestRangeKind_String(t *testing.T) {
	for _, k := range []RangeKind{RangeComplete, RangePrefix, RangePostfix, RangeInfix} {
		parsed, err := ParseRangeKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseRangeKind("sideways")
	assert.Error(t, err)
	assert.Equal(t, "RangeKind(9)", RangeKind(9).String())
}

func TestFindPattern_Fixture(t *testing.T) {
	fx := newFixture(t)
	g := fx.g

	tests := []struct {
		name  string
		query []VertexIndex
		want  VertexIndex
	}{
		{"b_c", []VertexIndex{fx.b, fx.c}, fx.bc},
		{"a_bc", []VertexIndex{fx.a, fx.bc}, fx.abc},
		{"ab_c", []VertexIndex{fx.ab, fx.c}, fx.abc},
		{"a_bc_d", []VertexIndex{fx.a, fx.bc, fx.d}, fx.abcd},
		{"a_b_c", []VertexIndex{fx.a, fx.b, fx.c}, fx.abc},
		{"ab_ab", []VertexIndex{fx.ab, fx.ab}, fx.abab},
		{"ef_gh_i", []VertexIndex{fx.ef, fx.gh, fx.i}, fx.efghi},
		{"long", []VertexIndex{
			fx.a, fx.b, fx.a, fx.b, fx.a, fx.b, fx.a, fx.b,
			fx.c, fx.d, fx.e, fx.f, fx.gg, fx.h, fx.i,
		}, fx.ababababcdefghi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := g.FindPattern(fx.pattern(t, tt.query...))
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, tt.want, found.Vertex.Index, "found %s", g.IndexString(found.Vertex.Index))
			assert.Equal(t, RangeComplete, found.Range.Kind)
			assert.True(t, found.Range.IsMatching())

			w, _ := g.IndexWidth(tt.want)
			assert.Equal(t, w, found.Vertex.Width)
		})
	}
}

func TestFindPattern_Misses(t *testing.T) {
	fx := newFixture(t)
	g := fx.g

	found, err := g.FindPattern(fx.pattern(t, fx.bc))
	require.NoError(t, err)
	assert.Nil(t, found, "a single element is not an occurrence")

	found, err = g.FindPattern(fx.pattern(t, fx.a, fx.b, fx.c, fx.c))
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = g.FindPattern(fx.pattern(t, fx.i, fx.a))
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = g.FindPattern(nil)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindPattern_UnknownIndex(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.g.FindPattern(Pattern{{Index: fx.a, Width: 1}, {Index: 999, Width: 1}})
	assert.True(t, IsVertexNotFound(err))
}

func TestFindPattern_PartialRanges(t *testing.T) {
	g := New[rune]()
	tok := g.InsertTokens([]rune("abcd"))
	a, b, c, d := tok[0], tok[1], tok[2], tok[3]
	abcd, err := g.InsertPattern(tok)
	require.NoError(t, err)

	child := func(i VertexIndex) Child { return Child{Index: i, Width: 1} }

	found, err := g.FindPattern(Pattern{child(a), child(b)})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, abcd, found.Vertex.Index)
	assert.Equal(t, RangePrefix, found.Range.Kind)
	assert.Equal(t, []VertexIndex{c, d}, found.Range.Post.Indices())

	found, err = g.FindPattern(Pattern{child(c), child(d)})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, RangePostfix, found.Range.Kind)
	assert.Equal(t, []VertexIndex{a, b}, found.Range.Pre.Indices())
	assert.Equal(t, 2, found.Position)

	found, err = g.FindPattern(Pattern{child(b), child(c)})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, RangeInfix, found.Range.Kind)
	assert.Equal(t, []VertexIndex{a}, found.Range.Pre.Indices())
	assert.Equal(t, []VertexIndex{d}, found.Range.Post.Indices())

	found, err = g.FindPattern(Pattern{child(d), child(a)})
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindPattern_ClimbCarriesPrefix(t *testing.T) {
	g := New[rune]()
	tok := g.InsertTokens([]rune("xyz"))
	x, y, z := tok[0], tok[1], tok[2]
	xy, _ := g.InsertPattern([]VertexIndex{x, y})
	xyz, _ := g.InsertPattern([]VertexIndex{xy, z})

	found, err := g.FindPattern(Pattern{{Index: y, Width: 1}, {Index: z, Width: 1}})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, xyz, found.Vertex.Index)
	assert.Equal(t, RangePostfix, found.Range.Kind)
	assert.Equal(t, []VertexIndex{x}, found.Range.Pre.Indices())
	assert.Equal(t, 0, found.Position, "position of xy inside xyz")
}

func TestFindPattern_PrefersNarrowestVertex(t *testing.T) {
	g := New[rune]()
	tok := g.InsertTokens([]rune("abc"))
	abc, _ := g.InsertPattern(tok)
	ab, _ := g.InsertPattern(tok[:2])

	found, err := g.FindPattern(Pattern{{Index: tok[0], Width: 1}, {Index: tok[1], Width: 1}})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ab, found.Vertex.Index)
	assert.NotEqual(t, abc, found.Vertex.Index)
	assert.True(t, found.Range.IsMatching())
}

func TestFindSequence(t *testing.T) {
	fx := newFixture(t)
	g := fx.g
	tok := runeTokenizer{}

	found, err := g.FindSequence(tok, "a")
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = g.FindSequence(tok, "abc")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, fx.abc, found.Vertex.Index)
	assert.True(t, found.Range.IsMatching())

	found, err = g.FindSequence(tok, "ababababcdefghi")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, fx.ababababcdefghi, found.Vertex.Index)
	assert.True(t, found.Range.IsMatching())

	found, err = g.FindSequence(tok, "abz")
	require.NoError(t, err)
	assert.Nil(t, found, "unknown token is a miss")

	found, err = g.FindTokens([]rune("cdef"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, fx.cdef, found.Vertex.Index)
}

func TestSearchFound_PrependPrefix(t *testing.T) {
	f := SearchFound{Vertex: Child{Index: 1, Width: 3}, Range: Complete()}
	g := f.PrependPrefix(Pattern{{Index: 5, Width: 1}})
	assert.Equal(t, RangePostfix, g.Range.Kind)
	assert.Equal(t, RangeComplete, f.Range.Kind, "receiver is unchanged")
}

func TestFindPattern_WidthOneComposite(t *testing.T) {
	t.Run("composite in context", func(t *testing.T) {
		g := New[rune]()
		tok := g.InsertTokens([]rune("ab"))
		x, err := g.InsertPattern([]VertexIndex{tok[0]})
		require.NoError(t, err)
		bx, err := g.InsertPattern([]VertexIndex{tok[1], x})
		require.NoError(t, err)

		found, err := g.FindPattern(Pattern{{Index: tok[1], Width: 1}, {Index: tok[0], Width: 1}})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, bx, found.Vertex.Index)
		assert.True(t, found.Range.IsMatching())
	})

	t.Run("composite in query", func(t *testing.T) {
		g := New[rune]()
		tok := g.InsertTokens([]rune("ab"))
		x, err := g.InsertPattern([]VertexIndex{tok[0]})
		require.NoError(t, err)
		ba, err := g.InsertPattern([]VertexIndex{tok[1], tok[0]})
		require.NoError(t, err)

		found, err := g.FindPattern(Pattern{{Index: tok[1], Width: 1}, {Index: x, Width: 1}})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, ba, found.Vertex.Index)
		assert.True(t, found.Range.IsMatching())
	})
}
