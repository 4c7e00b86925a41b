package hypergraph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallGraph(t *testing.T) (*Hypergraph[string], VertexIndex, VertexIndex, VertexIndex) {
	t.Helper()
	g := New[string]()
	tok := g.InsertTokens([]string{"a", "b", "c", "d"})
	ab, err := g.InsertPattern(tok[:2])
	require.NoError(t, err)
	abc, err := g.InsertPattern([]VertexIndex{ab, tok[2]})
	require.NoError(t, err)
	abcd, err := g.InsertPattern([]VertexIndex{abc, tok[3]})
	require.NoError(t, err)
	return g, ab, abc, abcd
}

func TestIndexString(t *testing.T) {
	g, ab, abc, abcd := smallGraph(t)
	assert.Equal(t, "a", g.IndexString(0))
	assert.Equal(t, "ab", g.IndexString(ab))
	assert.Equal(t, "abc", g.IndexString(abc))
	assert.Equal(t, "abcd", g.IndexString(abcd))
	assert.Equal(t, "<99?>", g.IndexString(99))

	p, err := g.ChildPattern(abcd, 2)
	require.NoError(t, err)
	assert.Equal(t, "abcd", g.PatternString(p))
	assert.Equal(t, "abc_d", g.SeparatedPatternString(p))
}

func TestSplitTreeString(t *testing.T) {
	g, _, _, abcd := smallGraph(t)
	tree, err := g.SplitTree(abcd, 1)
	require.NoError(t, err)

	want := strings.Join([]string{
		"abcd @1",
		"  #2 - [abc] d",
		"    abc @1",
		"      #1 - [ab] c",
		"        ab @1",
		"          #0 a | b",
		"",
	}, "\n")
	assert.Equal(t, want, g.SplitTreeString(tree))
}

func TestDump(t *testing.T) {
	g, _, _, _ := smallGraph(t)
	var buf bytes.Buffer
	require.NoError(t, g.Dump(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, `0 Token(a) "a" width=1 patterns= parents=4`, lines[0])
	assert.Equal(t, `4 Pattern(4) "ab" width=2 patterns=#0[a_b] parents=5`, lines[4])
	assert.Equal(t, `6 Pattern(6) "abcd" width=4 patterns=#2[abc_d] parents=`, lines[6])
}

func TestExportDOT(t *testing.T) {
	g, _, _, _ := smallGraph(t)
	var buf bytes.Buffer
	require.NoError(t, g.ExportDOT(&buf, "small"))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph \"small\" {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `v0 [label="a (1)" shape=ellipse];`)
	assert.Contains(t, out, `v6 [label="abcd (4)" shape=box];`)
	assert.Contains(t, out, `v0 -> v4 [label="0:0"];`)
	assert.Contains(t, out, `v5 -> v6 [label="2:0"];`)
	assert.Equal(t, 6, strings.Count(out, "->"))
}

func TestCheckInvariants_Fixture(t *testing.T) {
	fx := newFixture(t)
	assert.Empty(t, fx.g.CheckInvariants())

	// Every child has a back-reference and every back-reference a child.
	for i := 0; i < fx.g.VertexCount(); i++ {
		decomps, err := fx.g.Children(VertexIndex(i))
		require.NoError(t, err)
		data, _ := fx.g.VertexData(VertexIndex(i))
		for _, d := range decomps {
			assert.Equal(t, data.Width(), d.Pattern.Width())
		}
	}
}

func TestCheckInvariants_DetectsBrokenReferences(t *testing.T) {
	g, ab, _, _ := smallGraph(t)
	a, _ := g.VertexData(0)
	a.removeParent(ab, 0, 0)
	a.addParent(ab, 2, 7, 3)

	violations := g.CheckInvariants()
	require.Len(t, violations, 2)
	assert.Contains(t, violations[0].Message, "dangling parent reference")
	assert.Contains(t, violations[1].Message, "missing parent reference")
}
