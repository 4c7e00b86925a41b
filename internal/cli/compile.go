package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/seqraph/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult is a compiled fixture with its content hash.
type CompilationResult struct {
	Fixture  *ir.GraphSpec    `json:"fixture"`
	SpecHash string           `json:"spec_hash"`
	Stats    CompilationStats `json:"stats"`
}

// CompilationStats holds summary statistics.
type CompilationStats struct {
	Tokens         int `json:"tokens"`
	Patterns       int `json:"patterns"`
	Decompositions int `json:"decompositions"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <fixture>",
		Short: "Compile a CUE fixture to JSON",
		Long: `Compile a CUE graph fixture to its JSON form.

The compiler validates every name and decomposition, rejects reference
cycles and orders patterns so each one follows the patterns it uses.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	spec, errs := LoadFixture(path)
	if len(errs) > 0 {
		return outputLoadErrors(formatter, errs)
	}

	specHash, err := ir.SpecHash(spec)
	if err != nil {
		return WrapExitError(ExitCommandError, "hashing fixture", err)
	}

	result := &CompilationResult{
		Fixture:  spec,
		SpecHash: specHash,
		Stats:    calculateStats(spec),
	}
	for _, ps := range spec.Patterns {
		formatter.VerboseLog("Compiled pattern: %s (%d decomposition(s))", ps.Name, len(ps.Decompositions))
	}

	if opts.Output != "" {
		if err := writeSpecToFile(result, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	return formatter.Result(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Compiled fixture %s: %d token(s), %d pattern(s)\n\n",
			spec.Name, result.Stats.Tokens, result.Stats.Patterns)
		fmt.Fprintf(w, "Mode: %s\n", modeOf(spec))
		if len(spec.Patterns) > 0 {
			fmt.Fprintln(w, "Patterns (build order):")
			for _, ps := range spec.Patterns {
				fmt.Fprintf(w, "  %s = %s\n", ps.Name, alternatives(ps.Decompositions))
			}
		}
		if opts.Output != "" {
			fmt.Fprintf(w, "\nWrote fixture to %s\n", opts.Output)
		}
	})
}

func modeOf(spec *ir.GraphSpec) string {
	mode := spec.Mode
	if mode == "" {
		mode = "chars"
	}
	if spec.Fold {
		mode += " (folded)"
	}
	return mode
}

// calculateStats computes summary statistics for a fixture.
func calculateStats(spec *ir.GraphSpec) CompilationStats {
	stats := CompilationStats{
		Tokens:   len(spec.Tokens),
		Patterns: len(spec.Patterns),
	}
	for _, ps := range spec.Patterns {
		stats.Decompositions += len(ps.Decompositions)
	}
	return stats
}

// writeSpecToFile writes the compilation result as indented JSON.
func writeSpecToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling fixture: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
