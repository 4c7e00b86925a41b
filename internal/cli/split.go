package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/seqraph/internal/engine"
	"github.com/roach88/seqraph/internal/ir"
)

// SplitOptions holds flags for the split command.
type SplitOptions struct {
	*RootOptions
	Insert bool // insert both halves into the graph
}

// NewSplitCommand creates the split command.
func NewSplitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SplitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "split <fixture> <ref> <pos>",
		Short: "Split a vertex at a token offset",
		Long: `Split a vertex of a fixture graph at a token offset.

The result lists every left and right decomposition the graph already
knows. With --insert both halves are added to the graph as vertices.
With --verbose the split tree is printed as well.`,
		Example: `  seqraph split abcd.cue abc 2
  seqraph split --insert abcd.cue abcd 2`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[2])
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid position %q", args[2]), err)
			}
			return runSplit(cmd.Context(), opts, args[0], args[1], pos, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Insert, "insert", false, "insert both halves into the graph")

	return cmd
}

func runSplit(ctx context.Context, opts *SplitOptions, path, ref string, pos int, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	eng, _, err := loadEngine(ctx, formatter, path,
		engine.WithLogger(newLogger(formatter.GetErrWriter(), opts.Verbose)))
	if err != nil {
		return err
	}

	var res *ir.SplitResult
	if opts.Insert {
		res, err = eng.SplitInsert(ctx, ref, pos)
	} else {
		res, err = eng.Split(ctx, ref, pos)
	}
	if err != nil {
		return outputRuntimeError(formatter, err)
	}

	return formatter.Result(res, func(w io.Writer) { writeSplit(w, res, opts.Verbose) })
}
