package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/seqraph/internal/compiler"
	"github.com/roach88/seqraph/internal/ir"
)

// LoadError represents an error that occurred during fixture loading.
type LoadError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadFixture compiles, validates and orders a CUE graph fixture.
// On failure it returns every error found, each as a *LoadError.
func LoadFixture(path string) (*ir.GraphSpec, []error) {
	spec, err := compiler.LoadGraph(path)
	if err == nil {
		return spec, nil
	}
	return nil, convertLoadError(err)
}

// convertLoadError flattens a compiler error into coded LoadErrors.
func convertLoadError(err error) []error {
	if errors.Is(err, fs.ErrNotExist) {
		return []error{&LoadError{Code: ErrCodeNotFound, Message: err.Error()}}
	}

	var verrs compiler.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]error, len(verrs))
		for i, v := range verrs {
			out[i] = &LoadError{Code: v.Code, Field: v.Field, Message: v.Message}
		}
		return out
	}

	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return []error{&LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Field:   compileErr.Field,
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}}
	}

	return []error{&LoadError{Code: ErrCodeGeneric, Message: err.Error()}}
}

// Error code constants - unified across all CLI commands.
// Fixture validation codes (E201-E207) come from the compiler unchanged.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeLoadFailed  = "E004" // CUE load or parse failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeNoGraph     = "E008" // Fixture has no graph field
	ErrCodeRuntime     = "E009" // Engine operation failed
	ErrCodeJournal     = "E010" // Journal read/write failed
	ErrCodeTestFailed  = "E011" // One or more scenarios failed

	// Fixture shape errors
	ErrCodeTokens   = "E101" // Missing or malformed tokens
	ErrCodeMode     = "E102" // Unknown tokenization mode
	ErrCodePatterns = "E103" // Malformed patterns block
	ErrCodeList     = "E104" // Expected a list of strings
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "cue":
		return ErrCodeLoadFailed
	case field == "graph":
		return ErrCodeNoGraph
	case field == "tokens":
		return ErrCodeTokens
	case field == "mode":
		return ErrCodeMode
	case field == "patterns", strings.HasPrefix(field, "patterns."):
		return ErrCodePatterns
	case field == "list":
		return ErrCodeList
	default:
		return ErrCodeGeneric
	}
}
