package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/seqraph/internal/ir"
)

// ReferenceCycle is a set of patterns that refer to each other, directly or
// through other patterns. Such a fixture cannot be built bottom-up.
type ReferenceCycle struct {
	Path    []string `json:"path"`    // Cycle path: ["ab", "ba", "ab"]
	Message string   `json:"message"` // Human-readable description
}

// AnalyzeReferences finds reference cycles among the patterns of a fixture.
//
// The algorithm:
//  1. Build pattern → referenced pattern graph (token references are leaves)
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or a self-reference as a cycle
//
// An acyclic fixture returns an empty list.
func AnalyzeReferences(spec *ir.GraphSpec) []ReferenceCycle {
	graph := buildReferenceGraph(spec)

	cycles := []ReferenceCycle{}
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			cycles = append(cycles, sccToCycle(scc, graph))
		}
	}
	return cycles
}

// BuildOrder returns the patterns of spec sorted so that every pattern comes
// after the patterns it refers to. Independent patterns keep declaration
// order. Fails if the references are cyclic.
func BuildOrder(spec *ir.GraphSpec) ([]ir.PatternSpec, error) {
	graph := buildReferenceGraph(spec)

	byName := make(map[string]ir.PatternSpec, len(spec.Patterns))
	for _, ps := range spec.Patterns {
		byName[ps.Name] = ps
	}

	ordered := make([]ir.PatternSpec, 0, len(spec.Patterns))
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			c := sccToCycle(scc, graph)
			return nil, &CompileError{Field: "patterns", Message: c.Message}
		}
		ordered = append(ordered, byName[scc[0]])
	}
	return ordered, nil
}

// referenceGraph maps pattern name → referenced pattern names, with nodes
// kept in declaration order so traversal is deterministic.
type referenceGraph struct {
	nodes []string
	edges map[string][]string
}

// buildReferenceGraph collects pattern-to-pattern references. References to
// tokens and unknown names are not edges.
func buildReferenceGraph(spec *ir.GraphSpec) referenceGraph {
	g := referenceGraph{edges: make(map[string][]string)}
	for _, ps := range spec.Patterns {
		if _, dup := g.edges[ps.Name]; dup {
			continue
		}
		g.nodes = append(g.nodes, ps.Name)
		g.edges[ps.Name] = []string{}
	}
	for _, ps := range spec.Patterns {
		seen := make(map[string]bool)
		for _, d := range ps.Decompositions {
			for _, ref := range d {
				if _, isPattern := g.edges[ref]; !isPattern || seen[ref] {
					continue
				}
				seen[ref] = true
				g.edges[ps.Name] = append(g.edges[ps.Name], ref)
			}
		}
	}
	return g
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph referenceGraph) bool {
	for _, neighbor := range graph.edges[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Components are emitted after every component reachable from them, so for
// reference edges the result lists dependencies first.
func tarjanSCC(graph referenceGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// Root of a component: pop it off the stack
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range graph.nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// sccToCycle converts an SCC to a ReferenceCycle.
func sccToCycle(scc []string, graph referenceGraph) ReferenceCycle {
	if len(scc) == 1 {
		name := scc[0]
		return ReferenceCycle{
			Path:    []string{name, name},
			Message: fmt.Sprintf("pattern refers to itself: %s → %s", name, name),
		}
	}

	path := reconstructCyclePath(scc, graph)
	return ReferenceCycle{
		Path:    path,
		Message: fmt.Sprintf("reference cycle: %s", strings.Join(path, " → ")),
	}
}

// reconstructCyclePath follows edges inside the SCC from its first member
// until it returns to it.
func reconstructCyclePath(scc []string, graph referenceGraph) []string {
	sccSet := make(map[string]bool, len(scc))
	for _, node := range scc {
		sccSet[node] = true
	}

	// Start from the member declared first
	start := scc[0]
	for _, node := range graph.nodes {
		if sccSet[node] {
			start = node
			break
		}
	}

	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph.edges[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
