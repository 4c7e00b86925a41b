package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/seqraph/internal/engine"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	DOT bool
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <fixture>",
		Short: "Print the graph built from a fixture",
		Long: `Print every vertex of the graph built from a fixture, one per line.

With --dot the graph is written in Graphviz DOT format instead:

  seqraph export --dot abcd.cue | dot -Tsvg > abcd.svg`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DOT, "dot", false, "write Graphviz DOT")

	return cmd
}

func runExport(ctx context.Context, opts *ExportOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	eng, _, err := loadEngine(ctx, formatter, path,
		engine.WithLogger(newLogger(formatter.GetErrWriter(), opts.Verbose)))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.DOT {
		err = eng.ExportDOT(w)
	} else {
		err = eng.Dump(w)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "export failed", err)
	}
	return nil
}
