package hypergraph

import "fmt"

// Violation describes one broken structural invariant.
type Violation struct {
	Index   VertexIndex `json:"index"`
	Message string      `json:"message"`
}

func (v Violation) Error() string {
	return fmt.Sprintf("vertex %d: %s", v.Index, v.Message)
}

// CheckInvariants verifies width conservation, leaf shape and referential
// symmetry over the whole graph and returns every violation found, in
// index order.
func (h *Hypergraph[T]) CheckInvariants() []Violation {
	var out []Violation
	report := func(idx VertexIndex, format string, args ...any) {
		out = append(out, Violation{Index: idx, Message: fmt.Sprintf(format, args...)})
	}

	for i := range h.vertices {
		idx := VertexIndex(i)
		e := &h.vertices[i]
		data := e.data

		if e.key.isToken {
			if data.width != 1 {
				report(idx, "leaf has width %d", data.width)
			}
			if len(data.children) > 0 {
				report(idx, "leaf has %d patterns", len(data.children))
			}
		} else if len(data.children) == 0 {
			report(idx, "composite has no patterns")
		}

		for _, d := range data.Decompositions() {
			if w := d.Pattern.Width(); w != data.width {
				report(idx, "pattern %d has width %d, vertex width %d", d.ID, w, data.width)
			}
			for pos, c := range d.Pattern {
				if c.Index < 0 || int(c.Index) >= len(h.vertices) {
					report(idx, "pattern %d position %d references missing vertex %d", d.ID, pos, c.Index)
					continue
				}
				child := h.vertices[c.Index].data
				if c.Width != child.width {
					report(idx, "pattern %d position %d caches width %d, child width %d", d.ID, pos, c.Width, child.width)
				}
				parent, ok := child.parents[idx]
				if !ok || !parent.HasOccurrence(d.ID, pos) {
					report(c.Index, "missing parent reference to %d at (%d, %d)", idx, d.ID, pos)
				}
			}
		}

		for _, pidx := range data.ParentIndices() {
			parent := data.parents[pidx]
			if pidx < 0 || int(pidx) >= len(h.vertices) {
				report(idx, "parent %d does not exist", pidx)
				continue
			}
			pdata := h.vertices[pidx].data
			if parent.Len() == 0 {
				report(idx, "parent %d has no occurrences", pidx)
			}
			if parent.width != pdata.width {
				report(idx, "parent %d recorded with width %d, actual %d", pidx, parent.width, pdata.width)
			}
			for _, occ := range parent.Occurrences() {
				p, ok := pdata.children[occ.Pattern]
				if !ok || occ.Pos >= len(p) || p[occ.Pos].Index != idx {
					report(idx, "dangling parent reference to %d at (%d, %d)", pidx, occ.Pattern, occ.Pos)
				}
			}
		}
	}
	return out
}
