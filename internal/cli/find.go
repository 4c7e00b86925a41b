package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/seqraph/internal/engine"
	"github.com/roach88/seqraph/internal/ir"
)

// FindOptions holds flags for the find command.
type FindOptions struct {
	*RootOptions
	Names bool // treat arguments as vertex names
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "find <fixture> <query>...",
		Short: "Search a fixture graph for a sequence",
		Long: `Search the graph built from a fixture for the largest vertex
covering the query.

By default the query is text, tokenized the way the fixture declares.
With --names each argument is a token or pattern name.`,
		Example: `  seqraph find abcd.cue bc
  seqraph find --names abcd.cue ab c`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd.Context(), opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Names, "names", false, "query is a list of vertex names")

	return cmd
}

func runFind(ctx context.Context, opts *FindOptions, path string, query []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	eng, _, err := loadEngine(ctx, formatter, path,
		engine.WithLogger(newLogger(formatter.GetErrWriter(), opts.Verbose)))
	if err != nil {
		return err
	}

	var res *ir.FindResult
	if opts.Names {
		res, err = eng.FindNames(ctx, query)
	} else {
		res, err = eng.FindText(ctx, strings.Join(query, " "))
	}
	if err != nil {
		return outputRuntimeError(formatter, err)
	}

	if err := formatter.Result(res, func(w io.Writer) { writeFind(w, res) }); err != nil {
		return err
	}
	if !res.Found {
		return NewExitError(ExitFailure, "no match")
	}
	return nil
}
