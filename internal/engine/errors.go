package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while the engine served an
// operation. Graph failures keep the underlying *hypergraph.GraphError
// reachable through Unwrap.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownName indicates a reference that names no vertex.
	ErrCodeUnknownName RuntimeErrorCode = "UNKNOWN_NAME"

	// ErrCodeUnknownToken indicates a reference containing a token that was
	// never inserted.
	ErrCodeUnknownToken RuntimeErrorCode = "UNKNOWN_TOKEN"

	// ErrCodeGraphError indicates the hypergraph rejected the operation.
	ErrCodeGraphError RuntimeErrorCode = "GRAPH_ERROR"

	// ErrCodeFixtureError indicates a fixture that cannot be loaded.
	ErrCodeFixtureError RuntimeErrorCode = "FIXTURE_ERROR"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func hasRuntimeCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsUnknownName returns true if the error is an unknown name error.
// Uses errors.As to handle wrapped errors.
func IsUnknownName(err error) bool { return hasRuntimeCode(err, ErrCodeUnknownName) }

// IsUnknownToken returns true if the error is an unknown token error.
func IsUnknownToken(err error) bool { return hasRuntimeCode(err, ErrCodeUnknownToken) }

// IsGraphError returns true if the hypergraph rejected the operation.
func IsGraphError(err error) bool { return hasRuntimeCode(err, ErrCodeGraphError) }

// IsFixtureError returns true if a fixture could not be loaded.
func IsFixtureError(err error) bool { return hasRuntimeCode(err, ErrCodeFixtureError) }

func newUnknownName(ref string) *RuntimeError {
	return &RuntimeError{Code: ErrCodeUnknownName, Message: fmt.Sprintf("no vertex named %q", ref)}
}

func newUnknownToken(ref, tok string) *RuntimeError {
	return &RuntimeError{Code: ErrCodeUnknownToken, Message: fmt.Sprintf("token %q in %q was never inserted", tok, ref)}
}

func newGraphError(op string, err error) *RuntimeError {
	return &RuntimeError{Code: ErrCodeGraphError, Message: op, Err: err}
}

func newFixtureError(format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: ErrCodeFixtureError, Message: fmt.Sprintf(format, args...)}
}
