package hypergraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertToken_Idempotent(t *testing.T) {
	g := New[string]()
	a := g.InsertToken("a")
	again := g.InsertToken("a")
	b := g.InsertToken("b")

	assert.Equal(t, a, again)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, g.VertexCount())

	w, err := g.IndexWidth(a)
	require.NoError(t, err)
	assert.Equal(t, 1, w)
}

func TestInsertTokens_Order(t *testing.T) {
	g := New[rune]()
	idx := g.InsertTokens([]rune("abca"))
	require.Len(t, idx, 4)
	assert.Equal(t, idx[0], idx[3])
	assert.Equal(t, []VertexIndex{0, 1, 2, 0}, idx)
}

func TestInstancesAreIndependent(t *testing.T) {
	g1 := New[rune]()
	g2 := New[rune]()
	g1.InsertTokens([]rune("abc"))
	x := g2.InsertToken('x')
	assert.Equal(t, VertexIndex(0), x, "counters are per graph")
}

func TestClone_IsIndependent(t *testing.T) {
	fx := newFixture(t)
	vertices, patterns := fx.g.VertexCount(), fx.g.PatternCount()

	c := fx.g.Clone()
	assert.Empty(t, c.CheckInvariants())
	found, err := c.FindPattern(fx.pattern(t, fx.a, fx.b, fx.c))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, fx.abc, found.Vertex.Index)

	z := c.InsertToken('z')
	assert.Equal(t, VertexIndex(vertices), z, "ids continue from the original")
	_, err = c.InsertPattern([]VertexIndex{fx.ab, z})
	require.NoError(t, err)
	_, err = c.AddPatternToNode(fx.abc, []VertexIndex{fx.a, fx.b, fx.c})
	require.NoError(t, err)

	assert.Equal(t, vertices, fx.g.VertexCount())
	assert.Equal(t, patterns, fx.g.PatternCount())
	_, ok := fx.g.TokenIndex('z')
	assert.False(t, ok)
	children, err := fx.g.Children(fx.abc)
	require.NoError(t, err)
	assert.Len(t, children, 2, "original keeps its decompositions")
	parents, err := fx.g.Parents(fx.ab)
	require.NoError(t, err)
	cparents, err := c.Parents(fx.ab)
	require.NoError(t, err)
	assert.Len(t, cparents, len(parents)+1)
	assert.Empty(t, fx.g.CheckInvariants())
}

func TestInsertPattern_WidthAndBackReferences(t *testing.T) {
	g := New[rune]()
	tok := g.InsertTokens([]rune("abcd"))
	abcd, err := g.InsertPattern(tok)
	require.NoError(t, err)

	for _, idx := range tok {
		assert.NotEqual(t, idx, abcd)
	}
	data, err := g.VertexData(abcd)
	require.NoError(t, err)
	assert.Equal(t, 4, data.Width())
	require.Equal(t, 1, data.PatternCount())

	id, p, _ := data.firstPattern()
	assert.Equal(t, tok, p.Indices())
	for pos, idx := range tok {
		child, _ := g.VertexData(idx)
		parent, ok := child.Parent(abcd)
		require.True(t, ok)
		assert.Equal(t, 4, parent.Width())
		assert.True(t, parent.HasOccurrence(id, pos))
	}
	assert.Empty(t, g.CheckInvariants())
}

func TestInsertPattern_Nested(t *testing.T) {
	g := New[rune]()
	tok := g.InsertTokens([]rune("abc"))
	ab, err := g.InsertPattern(tok[:2])
	require.NoError(t, err)
	abc, err := g.InsertPattern([]VertexIndex{ab, tok[2]})
	require.NoError(t, err)

	w, err := g.IndexWidth(abc)
	require.NoError(t, err)
	assert.Equal(t, 3, w)

	key, err := g.VertexKey(abc)
	require.NoError(t, err)
	n, ok := key.PatternNumber()
	assert.True(t, ok)
	assert.Equal(t, abc, n)
	found, ok := g.Lookup(key)
	assert.True(t, ok)
	assert.Equal(t, abc, found)
}

func TestInsertPattern_Errors(t *testing.T) {
	g := New[rune]()
	a := g.InsertToken('a')

	_, err := g.InsertPattern(nil)
	assert.True(t, IsEmptyPattern(err))

	_, err = g.InsertPattern([]VertexIndex{a, 42})
	assert.True(t, IsVertexNotFound(err))
	assert.Equal(t, 1, g.VertexCount(), "failed insert leaves the graph untouched")

	_, err = g.InsertPatterns(nil)
	assert.True(t, IsEmptyPattern(err))

	_, err = g.InsertPatterns([][]VertexIndex{{a, a}, {}})
	assert.True(t, IsEmptyPattern(err))
	assert.Equal(t, 1, g.VertexCount())
}

func TestInsertPatterns_SharedVertex(t *testing.T) {
	fx := newFixture(t)

	data, err := fx.g.VertexData(fx.abc)
	require.NoError(t, err)
	require.Equal(t, 2, data.PatternCount())

	decomps := data.Decompositions()
	assert.Equal(t, []VertexIndex{fx.ab, fx.c}, decomps[0].Pattern.Indices())
	assert.Equal(t, []VertexIndex{fx.a, fx.bc}, decomps[1].Pattern.Indices())
	assert.NotEqual(t, decomps[0].ID, decomps[1].ID)

	// Both decompositions are reachable from their children.
	bc, _ := fx.g.VertexData(fx.bc)
	parent, ok := bc.Parent(fx.abc)
	require.True(t, ok)
	assert.True(t, parent.HasOccurrence(decomps[1].ID, 1))
}

func TestInsertPatterns_NoDuplicateDetection(t *testing.T) {
	g := New[rune]()
	tok := g.InsertTokens([]rune("ab"))
	x, err := g.InsertPattern(tok)
	require.NoError(t, err)
	y, err := g.InsertPattern(tok)
	require.NoError(t, err)
	assert.NotEqual(t, x, y)

	z, err := g.InsertPatterns([][]VertexIndex{tok, tok})
	require.NoError(t, err)
	data, _ := g.VertexData(z)
	assert.Equal(t, 2, data.PatternCount())
	assert.Empty(t, g.CheckInvariants())
}

func TestInsertPatterns_WidthMismatchIsNotChecked(t *testing.T) {
	g := New[rune]()
	tok := g.InsertTokens([]rune("ab"))
	v, err := g.InsertPatterns([][]VertexIndex{{tok[0], tok[1]}, {tok[0]}})
	require.NoError(t, err)

	violations := g.CheckInvariants()
	require.Len(t, violations, 1)
	assert.Equal(t, v, violations[0].Index)
	assert.Contains(t, violations[0].Error(), "has width 1, vertex width 2")
}

func TestInsertPatternsChecked(t *testing.T) {
	g := New[rune]()
	tok := g.InsertTokens([]rune("abc"))
	ab, err := g.InsertPattern(tok[:2])
	require.NoError(t, err)

	_, err = g.InsertPatternsChecked([][]VertexIndex{{ab, tok[2]}, {tok[0], tok[1]}})
	assert.Equal(t, ErrCodeWidthMismatch, ErrorCode(err))

	abc, err := g.InsertPatternsChecked([][]VertexIndex{{ab, tok[2]}, {tok[0], tok[1], tok[2]}})
	require.NoError(t, err)
	w, _ := g.IndexWidth(abc)
	assert.Equal(t, 3, w)
}

func TestAddPatternToNode(t *testing.T) {
	g := New[rune]()
	tok := g.InsertTokens([]rune("abc"))
	a, b, c := tok[0], tok[1], tok[2]
	ab, _ := g.InsertPattern([]VertexIndex{a, b})
	bc, _ := g.InsertPattern([]VertexIndex{b, c})
	abc, _ := g.InsertPattern([]VertexIndex{ab, c})

	id, err := g.AddPatternToNode(abc, []VertexIndex{a, bc})
	require.NoError(t, err)
	data, _ := g.VertexData(abc)
	assert.Equal(t, 2, data.PatternCount())
	p, ok := data.ChildPattern(id)
	require.True(t, ok)
	assert.Equal(t, []VertexIndex{a, bc}, p.Indices())
	assert.Empty(t, g.CheckInvariants())
}

func TestAddPatternToNode_Errors(t *testing.T) {
	g := New[rune]()
	tok := g.InsertTokens([]rune("ab"))
	ab, _ := g.InsertPattern(tok)
	abab, _ := g.InsertPattern([]VertexIndex{ab, ab})

	_, err := g.AddPatternToNode(tok[0], []VertexIndex{tok[1]})
	assert.Equal(t, ErrCodeLeafDecomposition, ErrorCode(err))

	_, err = g.AddPatternToNode(ab, []VertexIndex{abab})
	assert.True(t, IsCyclicPattern(err), "ancestor as child")

	_, err = g.AddPatternToNode(ab, []VertexIndex{ab})
	assert.True(t, IsCyclicPattern(err), "self as child")

	_, err = g.AddPatternToNode(99, []VertexIndex{ab})
	assert.True(t, IsVertexNotFound(err))

	_, err = g.AddPatternToNode(ab, nil)
	assert.True(t, IsEmptyPattern(err))
	assert.Empty(t, g.CheckInvariants())
}

func TestInsertVertex(t *testing.T) {
	g := New[string]()
	a, err := g.InsertVertex(TokenKey("a"), NewVertexData(1))
	require.NoError(t, err)

	_, err = g.InsertVertex(TokenKey("a"), NewVertexData(1))
	assert.True(t, IsDuplicateKey(err))

	_, err = g.InsertVertex(TokenKey("b"), NewVertexData(2))
	assert.Equal(t, ErrCodeWidthMismatch, ErrorCode(err))

	data := NewVertexData(2)
	data.addPattern(100, Pattern{{Index: a, Width: 1}, {Index: a, Width: 1}})
	aa, err := g.InsertVertex(g.NextPatternKey(), data)
	require.NoError(t, err)
	assert.Equal(t, "aa", g.IndexString(aa))
	assert.Empty(t, g.CheckInvariants())

	_, err = g.InsertVertex(PatternKey[string](aa), data)
	assert.True(t, IsDuplicateKey(err))

	_, err = g.InsertVertex(g.NextPatternKey(), NewVertexData(2))
	assert.True(t, IsEmptyPattern(err))
}

func TestLeafTokens(t *testing.T) {
	fx := newFixture(t)

	tokens, err := fx.g.LeafTokens(fx.ababcd)
	require.NoError(t, err)
	assert.Equal(t, []rune("ababcd"), tokens)

	tokens, err = fx.g.LeafTokens(fx.e)
	require.NoError(t, err)
	assert.Equal(t, []rune("e"), tokens)

	_, err = fx.g.LeafTokens(VertexIndex(999))
	assert.True(t, IsVertexNotFound(err))
}
