package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/seqraph/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrUnknownReference    = "E201" // decomposition names an undefined token or pattern
	ErrNameCollision       = "E202" // pattern name reuses a token or another pattern
	ErrEmptyDecomposition  = "E203" // pattern or decomposition has no elements
	ErrWidthMismatch       = "E204" // decompositions of one pattern cover different widths
	ErrReferenceCycle      = "E205" // patterns refer to each other
	ErrDuplicateToken      = "E206" // token listed twice
	ErrSingleDecomposition = "E207" // decomposition with one element only renames it
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is a failed validation as a single error.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateGraph validates a compiled fixture.
// Returns all errors found (does not fail-fast).
func ValidateGraph(spec *ir.GraphSpec) []ValidationError {
	var errs []ValidationError

	tokens := make(map[string]bool, len(spec.Tokens))
	for i, t := range spec.Tokens {
		// E206: duplicate token
		if tokens[t] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("tokens[%d]", i),
				Message: fmt.Sprintf("duplicate token: %q", t),
				Code:    ErrDuplicateToken,
			})
		}
		tokens[t] = true
	}

	patterns := make(map[string]*ir.PatternSpec, len(spec.Patterns))
	for i := range spec.Patterns {
		ps := &spec.Patterns[i]
		field := "patterns." + ps.Name

		// E202: name collides with a token or another pattern
		if tokens[ps.Name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("pattern name %q is already a token", ps.Name),
				Code:    ErrNameCollision,
			})
		} else if patterns[ps.Name] != nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("pattern %q defined twice", ps.Name),
				Code:    ErrNameCollision,
			})
		} else {
			patterns[ps.Name] = ps
		}

		// E203: at least one decomposition
		if len(ps.Decompositions) == 0 {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "at least one decomposition is required",
				Code:    ErrEmptyDecomposition,
			})
		}
	}

	for _, ps := range spec.Patterns {
		for j, d := range ps.Decompositions {
			field := fmt.Sprintf("patterns.%s[%d]", ps.Name, j)
			switch len(d) {
			case 0:
				errs = append(errs, ValidationError{
					Field:   field,
					Message: "decomposition is empty",
					Code:    ErrEmptyDecomposition,
				})
			case 1:
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("decomposition of %q has a single element %q", ps.Name, d[0]),
					Code:    ErrSingleDecomposition,
				})
			}
			// E201: every reference must be defined
			for k, ref := range d {
				if !tokens[ref] && patterns[ref] == nil {
					errs = append(errs, ValidationError{
						Field:   fmt.Sprintf("%s[%d]", field, k),
						Message: fmt.Sprintf("unknown reference %q", ref),
						Code:    ErrUnknownReference,
					})
				}
			}
		}
	}

	// E205: reference cycles
	cycles := AnalyzeReferences(spec)
	for _, c := range cycles {
		errs = append(errs, ValidationError{
			Field:   "patterns." + c.Path[0],
			Message: c.Message,
			Code:    ErrReferenceCycle,
		})
	}

	// E204: widths are only comparable once references resolve
	if len(cycles) == 0 {
		errs = append(errs, validateWidths(spec, tokens, patterns)...)
	}

	return errs
}

// validateWidths checks that every decomposition of a pattern covers the
// same number of tokens.
func validateWidths(spec *ir.GraphSpec, tokens map[string]bool, patterns map[string]*ir.PatternSpec) []ValidationError {
	var errs []ValidationError
	w := &widthCalc{tokens: tokens, patterns: patterns, memo: make(map[string]int)}
	for _, ps := range spec.Patterns {
		want := -1
		for j, d := range ps.Decompositions {
			got, ok := w.sum(d)
			if !ok {
				continue
			}
			if want < 0 {
				want = got
				continue
			}
			if got != want {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("patterns.%s[%d]", ps.Name, j),
					Message: fmt.Sprintf("decomposition covers %d tokens, want %d", got, want),
					Code:    ErrWidthMismatch,
				})
			}
		}
	}
	return errs
}

// widthCalc computes pattern widths from their first resolvable
// decomposition. Only called on acyclic fixtures.
type widthCalc struct {
	tokens   map[string]bool
	patterns map[string]*ir.PatternSpec
	memo     map[string]int
}

func (w *widthCalc) width(name string) (int, bool) {
	if w.tokens[name] {
		return 1, true
	}
	if n, ok := w.memo[name]; ok {
		return n, n >= 0
	}
	ps := w.patterns[name]
	if ps == nil {
		return 0, false
	}
	w.memo[name] = -1
	for _, d := range ps.Decompositions {
		if n, ok := w.sum(d); ok {
			w.memo[name] = n
			return n, true
		}
	}
	return 0, false
}

func (w *widthCalc) sum(refs []string) (int, bool) {
	if len(refs) == 0 {
		return 0, false
	}
	total := 0
	for _, ref := range refs {
		n, ok := w.width(ref)
		if !ok {
			return 0, false
		}
		total += n
	}
	return total, true
}
