package hypergraph

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// IndexString renders the tokens spanned by a vertex. Composites are
// rendered through their lowest-id pattern.
func (h *Hypergraph[T]) IndexString(index VertexIndex) string {
	e, err := h.entry(index)
	if err != nil {
		return fmt.Sprintf("<%d?>", index)
	}
	if e.key.isToken {
		return fmt.Sprint(e.key.token)
	}
	_, p, ok := e.data.firstPattern()
	if !ok {
		return fmt.Sprintf("<%d>", index)
	}
	return h.PatternString(p)
}

// PatternString renders the tokens spanned by a pattern.
func (h *Hypergraph[T]) PatternString(p Pattern) string {
	return h.patternStringWithSeparator(p, "")
}

// SeparatedPatternString renders each child of the pattern, joined by "_".
func (h *Hypergraph[T]) SeparatedPatternString(p Pattern) string {
	return h.patternStringWithSeparator(p, "_")
}

func (h *Hypergraph[T]) patternStringWithSeparator(p Pattern, sep string) string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = h.IndexString(c.Index)
	}
	return strings.Join(parts, sep)
}

// SplitTreeString pretty-prints a split tree, one vertex per header line and
// one line per decomposition beneath it.
func (h *Hypergraph[T]) SplitTreeString(s *IndexSplit) string {
	var b strings.Builder
	h.writeSplitTree(&b, s, "")
	return b.String()
}

func (h *Hypergraph[T]) writeSplitTree(b *strings.Builder, s *IndexSplit, indent string) {
	fmt.Fprintf(b, "%s%s @%d\n", indent, h.IndexString(s.Index), s.Offset)
	for _, ps := range s.Splits {
		pre := h.splitSide(ps.Prefix)
		post := h.splitSide(ps.Postfix)
		if ps.IsPerfect() {
			fmt.Fprintf(b, "%s  #%d %s | %s\n", indent, ps.Pattern, pre, post)
			continue
		}
		fmt.Fprintf(b, "%s  #%d %s [%s] %s\n", indent, ps.Pattern, pre, h.IndexString(ps.Inner.Index), post)
		h.writeSplitTree(b, ps.Inner, indent+"    ")
	}
}

func (h *Hypergraph[T]) splitSide(p Pattern) string {
	if len(p) == 0 {
		return "-"
	}
	return h.patternStringWithSeparator(p, ".")
}

// Dump writes one line per vertex: index, key, width, patterns and parents.
func (h *Hypergraph[T]) Dump(w io.Writer) error {
	for i := range h.vertices {
		e := &h.vertices[i]
		var pats []string
		for _, d := range e.data.Decompositions() {
			pats = append(pats, fmt.Sprintf("#%d[%s]", d.ID, h.SeparatedPatternString(d.Pattern)))
		}
		var parents []string
		for _, pidx := range e.data.ParentIndices() {
			parents = append(parents, strconv.Itoa(int(pidx)))
		}
		_, err := fmt.Fprintf(w, "%d %s %q width=%d patterns=%s parents=%s\n",
			i, e.key, h.IndexString(VertexIndex(i)), e.data.width,
			strings.Join(pats, ","), strings.Join(parents, ","))
		if err != nil {
			return err
		}
	}
	return nil
}

// ExportDOT writes the graph in Graphviz DOT form. Each vertex is a node
// labeled with its content and width; each parent reference is an edge from
// child to parent labeled with its (pattern:position) occurrences.
func (h *Hypergraph[T]) ExportDOT(w io.Writer, name string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", strconv.Quote(name))
	for i := range h.vertices {
		e := &h.vertices[i]
		shape := "box"
		if e.key.isToken {
			shape = "ellipse"
		}
		label := fmt.Sprintf("%s (%d)", h.IndexString(VertexIndex(i)), e.data.width)
		fmt.Fprintf(&b, "  v%d [label=%s shape=%s];\n", i, strconv.Quote(label), shape)
	}
	for i := range h.vertices {
		data := h.vertices[i].data
		for _, pidx := range data.ParentIndices() {
			var occs []string
			for _, o := range data.parents[pidx].Occurrences() {
				occs = append(occs, fmt.Sprintf("%d:%d", o.Pattern, o.Pos))
			}
			fmt.Fprintf(&b, "  v%d -> v%d [label=%s];\n", i, pidx, strconv.Quote(strings.Join(occs, ",")))
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
