package hypergraph

import (
	"errors"
	"fmt"
)

// GraphError is a precondition failure reported by a graph operation.
//
// Graph errors are never retried internally; they surface to the caller
// immediately. A search miss is not a GraphError.
type GraphError struct {
	// Code identifies the error category.
	Code GraphErrorCode

	// Index is the vertex the error refers to, or -1.
	Index VertexIndex

	// Message is a human-readable description.
	Message string
}

// GraphErrorCode categorizes graph errors.
type GraphErrorCode string

const (
	// ErrCodeVertexNotFound indicates a referenced index is absent.
	ErrCodeVertexNotFound GraphErrorCode = "VERTEX_NOT_FOUND"

	// ErrCodeEmptyPattern indicates an insertion with zero child indices.
	ErrCodeEmptyPattern GraphErrorCode = "EMPTY_PATTERN"

	// ErrCodeInvalidSplitPosition indicates pos == 0 or pos >= width(root).
	ErrCodeInvalidSplitPosition GraphErrorCode = "INVALID_SPLIT_POSITION"

	// ErrCodeDuplicateKey indicates a raw insertion with a key already present.
	ErrCodeDuplicateKey GraphErrorCode = "DUPLICATE_KEY"

	// ErrCodeLeafDecomposition indicates a pattern attached to a token leaf.
	ErrCodeLeafDecomposition GraphErrorCode = "LEAF_DECOMPOSITION"

	// ErrCodeCyclicPattern indicates a pattern that would make a vertex its own descendant.
	ErrCodeCyclicPattern GraphErrorCode = "CYCLIC_PATTERN"

	// ErrCodeWidthMismatch indicates decompositions of unequal width (checked insertion only).
	ErrCodeWidthMismatch GraphErrorCode = "WIDTH_MISMATCH"
)

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s (index=%d)", e.Code, e.Message, e.Index)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code GraphErrorCode) bool {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}

// IsVertexNotFound reports whether err is a VERTEX_NOT_FOUND error.
func IsVertexNotFound(err error) bool { return hasCode(err, ErrCodeVertexNotFound) }

// IsEmptyPattern reports whether err is an EMPTY_PATTERN error.
func IsEmptyPattern(err error) bool { return hasCode(err, ErrCodeEmptyPattern) }

// IsInvalidSplitPosition reports whether err is an INVALID_SPLIT_POSITION error.
func IsInvalidSplitPosition(err error) bool { return hasCode(err, ErrCodeInvalidSplitPosition) }

// IsDuplicateKey reports whether err is a DUPLICATE_KEY error.
func IsDuplicateKey(err error) bool { return hasCode(err, ErrCodeDuplicateKey) }

// IsCyclicPattern reports whether err is a CYCLIC_PATTERN error.
func IsCyclicPattern(err error) bool { return hasCode(err, ErrCodeCyclicPattern) }

// ErrorCode returns the GraphErrorCode carried by err, or "" if err is not a GraphError.
func ErrorCode(err error) GraphErrorCode {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

func errVertexNotFound(index VertexIndex) *GraphError {
	return &GraphError{Code: ErrCodeVertexNotFound, Index: index, Message: "vertex not found"}
}

func errEmptyPattern() *GraphError {
	return &GraphError{Code: ErrCodeEmptyPattern, Index: -1, Message: "pattern has no children"}
}

func errInvalidSplitPosition(index VertexIndex, pos, width int) *GraphError {
	return &GraphError{
		Code:    ErrCodeInvalidSplitPosition,
		Index:   index,
		Message: fmt.Sprintf("split position %d outside (0, %d)", pos, width),
	}
}
