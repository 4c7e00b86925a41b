// Package hypergraph implements the in-memory hierarchical sequence index.
//
// A Hypergraph stores token sequences as a directed acyclic structure of
// vertices. Leaves are atomic tokens of width 1. Composite vertices own one or
// more alternative decompositions ("patterns"), each an ordered sequence of
// Child references whose widths sum to the vertex width. Sequences that share
// sub-sequences share the vertices for them.
//
// DATA MODEL:
//
// Arena + Index:
// Vertices live in an append-only arena owned by the Hypergraph. All relations
// are VertexIndex handles into that arena, never pointers between vertices.
// Every Child in a pattern has a matching Parent back-reference on the child
// vertex recording (PatternID, position) for each occurrence.
//
// Invariants:
//   - Width conservation: every pattern of V sums to V's width.
//   - Referential symmetry: Child entries and Parent entries mirror each other.
//   - Leaves have width 1 and no patterns.
//   - Indices and pattern ids are never reused (instance-scoped counters).
//
// OPERATIONS:
//
// Insertion builds composites bottom-up from existing indices
// (InsertToken, InsertPattern, InsertPatterns, AddPatternToNode).
//
// Search (FindPattern, FindSequence) anchors on the first query element and
// climbs parent patterns until the whole query is accounted for, classifying
// the result with a FoundRange. A miss is a nil result, not an error.
//
// Splitting (SplitIndexAtPos) cuts a vertex at a token offset, recursing into
// children whenever the offset falls inside one, and returns left and right
// alternatives consistent with every decomposition. InsertSplit writes the
// result back into the graph in a separate pass.
//
// CONCURRENCY:
//
// The Hypergraph performs no locking. Mutations require exclusive access;
// queries may run concurrently with each other. See engine.Engine for a
// synchronized wrapper.
package hypergraph
