package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/seqraph/internal/ir"
)

func writeFind(w io.Writer, res *ir.FindResult) {
	if !res.Found {
		fmt.Fprintln(w, "✗ not found")
		return
	}
	fmt.Fprintf(w, "✓ %s (index %d, width %d, pattern %d) %s\n",
		res.Vertex, res.Index, res.Width, res.Pattern, res.Range)
	if len(res.Pre) > 0 {
		fmt.Fprintf(w, "  pre:  %s\n", strings.Join(res.Pre, " "))
	}
	if len(res.Post) > 0 {
		fmt.Fprintf(w, "  post: %s\n", strings.Join(res.Post, " "))
	}
}

func writeInsert(w io.Writer, res *ir.InsertResult) {
	verb := "reused"
	if res.Created {
		verb = "created"
	}
	fmt.Fprintf(w, "✓ %s %s (index %d, width %d)\n", verb, res.Vertex, res.Index, res.Width)
}

func writeSplit(w io.Writer, res *ir.SplitResult, verbose bool) {
	fmt.Fprintf(w, "%s @ %d\n", res.Vertex, res.Pos)
	fmt.Fprintf(w, "  left:  %s\n", alternatives(res.Lefts))
	fmt.Fprintf(w, "  right: %s\n", alternatives(res.Rights))
	if res.Left != "" {
		fmt.Fprintf(w, "  inserted: %s | %s\n", res.Left, res.Right)
	}
	if verbose && res.Tree != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, res.Tree)
	}
}

// alternatives renders [[ab] [a b]] as "[ab] | [a b]".
func alternatives(alts [][]string) string {
	parts := make([]string, len(alts))
	for i, alt := range alts {
		parts[i] = "[" + strings.Join(alt, " ") + "]"
	}
	return strings.Join(parts, " | ")
}

func writeCheck(w io.Writer, res *ir.CheckResult) {
	if len(res.Violations) == 0 {
		fmt.Fprintf(w, "✓ %d vertices, %d patterns, no violations\n", res.Vertices, res.Patterns)
		return
	}
	fmt.Fprintf(w, "✗ %d violation(s) in %d vertices\n", len(res.Violations), res.Vertices)
	for _, v := range res.Violations {
		fmt.Fprintf(w, "  %s\n", v)
	}
}

func writeStats(w io.Writer, s ir.Stats) {
	fmt.Fprintf(w, "vertices: %d\ntokens: %d\npatterns: %d\nnames: %d\noperations: %d\n",
		s.Vertices, s.Tokens, s.Patterns, s.Names, s.Operations)
}
