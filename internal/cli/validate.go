package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/seqraph/internal/engine"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidationResult reports a fixture that compiled and loaded.
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Fixture    string   `json:"fixture"`
	Vertices   int      `json:"vertices"`
	Patterns   int      `json:"patterns"`
	Violations []string `json:"violations,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <fixture>",
		Short: "Validate a CUE fixture",
		Long: `Validate a CUE graph fixture without writing output.

Every fixture error is reported, not just the first. A fixture that
compiles is then loaded into a fresh graph and checked structurally.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(ctx context.Context, opts *ValidateOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	eng, spec, err := loadEngine(ctx, formatter, path,
		engine.WithLogger(newLogger(formatter.GetErrWriter(), opts.Verbose)))
	if err != nil {
		return err
	}

	check, err := eng.Check(ctx)
	if err != nil {
		return outputRuntimeError(formatter, err)
	}

	result := &ValidationResult{
		Valid:      len(check.Violations) == 0,
		Fixture:    spec.Name,
		Vertices:   check.Vertices,
		Patterns:   check.Patterns,
		Violations: check.Violations,
	}

	if err := formatter.Result(result, func(w io.Writer) {
		if result.Valid {
			fmt.Fprintf(w, "✓ Fixture %s is valid (%d vertices, %d patterns)\n",
				spec.Name, result.Vertices, result.Patterns)
			return
		}
		writeCheck(w, check)
	}); err != nil {
		return err
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("graph has %d violation(s)", len(result.Violations)))
	}
	return nil
}
