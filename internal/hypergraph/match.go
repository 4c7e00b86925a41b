package hypergraph

// matchOutcome classifies how a query compares against a parent's context.
type matchOutcome int

const (
	// matchComplete: query and context end together.
	matchComplete matchOutcome = iota
	// matchQueryDone: query consumed, context has trailing content.
	matchQueryDone
	// matchContextDone: context consumed, query has trailing content.
	matchContextDone
	// matchMismatch: the two diverge at some token.
	matchMismatch
)

// stack holds a pattern reversed so the head is the last element.
type stack []Child

func newStack(p Pattern) stack {
	s := make(stack, len(p))
	for i, c := range p {
		s[len(p)-1-i] = c
	}
	return s
}

func (s stack) top() Child { return s[len(s)-1] }

func (s stack) pop() stack { return s[:len(s)-1] }

func (s stack) pattern() Pattern {
	out := make(Pattern, len(s))
	for i, c := range s {
		out[len(s)-1-i] = c
	}
	return out
}

// expand replaces the head with its lowest-id decomposition. It reports
// false when the head has nothing to expand into.
func (h *Hypergraph[T]) expand(s stack) (stack, bool) {
	head := s.top()
	data := h.vertices[head.Index].data
	_, p, ok := data.firstPattern()
	if !ok {
		return s, false
	}
	s = s.pop()
	for i := len(p) - 1; i >= 0; i-- {
		s = append(s, p[i])
	}
	return s, true
}

// matchRight compares query against context from the left, expanding the
// wider head (or, at equal width, the composite one) into its children until
// heads coincide by index. Alternative
// decompositions denote the same tokens, so the lowest-id one is used.
// The returned pattern is the unconsumed remainder of whichever side is left.
func (h *Hypergraph[T]) matchRight(query, context Pattern) (matchOutcome, Pattern) {
	q := newStack(query)
	c := newStack(context)
	for len(q) > 0 && len(c) > 0 {
		qh, ch := q.top(), c.top()
		var ok bool
		switch {
		case qh.Index == ch.Index:
			q, c = q.pop(), c.pop()
			continue
		case qh.Width > ch.Width:
			q, ok = h.expand(q)
		case qh.Width < ch.Width:
			c, ok = h.expand(c)
		default:
			// Equal widths: a width-1 composite must open up to meet a leaf.
			if h.vertices[ch.Index].data.IsLeaf() {
				q, ok = h.expand(q)
			} else {
				c, ok = h.expand(c)
			}
		}
		if !ok {
			return matchMismatch, nil
		}
	}
	switch {
	case len(q) == 0 && len(c) == 0:
		return matchComplete, nil
	case len(q) == 0:
		return matchQueryDone, c.pattern()
	default:
		return matchContextDone, q.pattern()
	}
}
