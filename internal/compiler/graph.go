package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/seqraph/internal/ir"
	tok "github.com/roach88/seqraph/internal/token"
)

// CompileGraph parses a CUE value into a GraphSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the graph struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`graph: { tokens: ["a", "b"], patterns: ab: [["a", "b"]] }`)
//	spec, err := CompileGraph(v.LookupPath(cue.ParsePath("graph")))
//
// Patterns are returned in declaration order. ValidateGraph checks the
// references and BuildOrder sorts them for insertion.
func CompileGraph(v cue.Value) (*ir.GraphSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.GraphSpec{}

	// Name defaults to the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}
	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Name = name
	}

	mode, err := parseMode(v)
	if err != nil {
		return nil, err
	}
	spec.Mode = string(mode)

	if foldVal := v.LookupPath(cue.ParsePath("fold")); foldVal.Exists() {
		fold, err := foldVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Fold = fold
	}

	// Parse tokens (required, at least one)
	tokensVal := v.LookupPath(cue.ParsePath("tokens"))
	if !tokensVal.Exists() {
		return nil, &CompileError{
			Field:   "tokens",
			Message: "tokens are required",
			Pos:     v.Pos(),
		}
	}
	spec.Tokens, err = parseStringList(tokensVal)
	if err != nil {
		return nil, err
	}
	if len(spec.Tokens) == 0 {
		return nil, &CompileError{
			Field:   "tokens",
			Message: "at least one token is required",
			Pos:     tokensVal.Pos(),
		}
	}

	// Parse patterns (optional)
	spec.Patterns, err = parsePatterns(v)
	if err != nil {
		return nil, err
	}

	return spec, nil
}

// parseMode reads the tokenization mode, defaulting to characters.
func parseMode(v cue.Value) (tok.Mode, error) {
	modeVal := v.LookupPath(cue.ParsePath("mode"))
	if !modeVal.Exists() {
		return tok.ModeChars, nil
	}
	s, err := modeVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	mode, err := tok.ParseMode(s)
	if err != nil {
		return "", &CompileError{
			Field:   "mode",
			Message: err.Error(),
			Pos:     modeVal.Pos(),
		}
	}
	return mode, nil
}

// parsePatterns extracts the named decompositions, keeping label order.
func parsePatterns(v cue.Value) ([]ir.PatternSpec, error) {
	var patterns []ir.PatternSpec

	patternsVal := v.LookupPath(cue.ParsePath("patterns"))
	if !patternsVal.Exists() {
		return patterns, nil
	}

	iter, err := patternsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		ps := ir.PatternSpec{Name: iter.Label()}

		listIter, err := iter.Value().List()
		if err != nil {
			return nil, &CompileError{
				Field:   "patterns." + ps.Name,
				Message: "must be a list of decompositions",
				Pos:     iter.Value().Pos(),
			}
		}
		for listIter.Next() {
			refs, err := parseStringList(listIter.Value())
			if err != nil {
				return nil, err
			}
			ps.Decompositions = append(ps.Decompositions, refs)
		}
		patterns = append(patterns, ps)
	}

	return patterns, nil
}

// parseStringList decodes a CUE list of strings.
func parseStringList(v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "list",
			Message: "expected a list of strings",
			Pos:     v.Pos(),
		}
	}
	out := []string{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   "list",
				Message: fmt.Sprintf("element %d: expected a string", len(out)),
				Pos:     iter.Value().Pos(),
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
