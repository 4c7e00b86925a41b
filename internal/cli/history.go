package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/seqraph/internal/ir"
	"github.com/roach88/seqraph/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Compare  string // run ID prefix to compare against
}

// RunDetail is one journaled run with its steps.
type RunDetail struct {
	Run   ir.RunRecord    `json:"run"`
	Ops   map[ir.Op]int   `json:"ops"`
	Steps []ir.StepRecord `json:"steps"`
}

// RunComparison lists the steps where two runs disagree.
type RunComparison struct {
	Left  string     `json:"left"`
	Right string     `json:"right"`
	Same  bool       `json:"same"`
	Diffs []StepDiff `json:"diffs"`
}

// StepDiff is one differing seq; a missing side is null.
type StepDiff struct {
	Seq   int64          `json:"seq"`
	Left  *ir.StepRecord `json:"left"`
	Right *ir.StepRecord `json:"right"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Inspect journaled runs",
		Long: `Inspect sessions journaled by "seqraph run --db".

Without arguments the most recent runs are listed. Given a run ID (or
any unique prefix of one) every step of that run is printed. With
--compare the two runs are walked step by step and each difference is
reported; differing runs exit with code 1.

Examples:
  seqraph history --db ./seqraph.db
  seqraph history --db ./seqraph.db 0192
  seqraph history --db ./seqraph.db 0192 --compare 0193`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.Compare, "compare", "", "run ID to compare against")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("journal not found: %s", opts.Database), nil)
		return WrapExitError(ExitCommandError, "journal not found", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, fmt.Sprintf("opening journal: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	switch {
	case len(args) == 0 && opts.Compare != "":
		return NewExitError(ExitCommandError, "--compare needs a run ID")
	case len(args) == 0:
		return listRuns(ctx, formatter, st, opts.Limit)
	case opts.Compare != "":
		return compareRuns(ctx, formatter, st, args[0], opts.Compare)
	default:
		return showRun(ctx, formatter, st, args[0])
	}
}

func listRuns(ctx context.Context, f *OutputFormatter, st *store.Store, limit int) error {
	runs, err := st.ListRuns(ctx, limit)
	if err != nil {
		return journalError(f, err)
	}

	return f.Result(runs, func(w io.Writer) {
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs found.")
			return
		}
		for _, run := range runs {
			fixture := run.Fixture
			if fixture == "" {
				fixture = "-"
			}
			fmt.Fprintf(w, "%s  %-7s  %s  %s\n", run.ID, run.Status, formatTime(run.StartedAt), fixture)
		}
	})
}

func showRun(ctx context.Context, f *OutputFormatter, st *store.Store, prefix string) error {
	id, err := resolveRun(ctx, f, st, prefix)
	if err != nil {
		return err
	}
	run, err := st.ReadRun(ctx, id)
	if err != nil {
		return journalError(f, err)
	}
	steps, err := st.ReadSteps(ctx, id)
	if err != nil {
		return journalError(f, err)
	}
	ops, err := st.CountSteps(ctx, id)
	if err != nil {
		return journalError(f, err)
	}

	detail := &RunDetail{Run: run, Ops: ops, Steps: steps}
	return f.Result(detail, func(w io.Writer) {
		fmt.Fprintf(w, "Run %s (%s)\n", run.ID, run.Status)
		if run.Fixture != "" {
			fmt.Fprintf(w, "  fixture: %s (%s)\n", run.Fixture, shortHash(run.SpecHash))
		}
		fmt.Fprintf(w, "  started: %s\n", formatTime(run.StartedAt))
		if run.FinishedAt != 0 {
			fmt.Fprintf(w, "  finished: %s\n", formatTime(run.FinishedAt))
		}
		fmt.Fprintf(w, "  steps: %d%s\n\n", len(steps), formatOps(ops))
		for _, step := range steps {
			writeStep(w, step)
		}
	})
}

func compareRuns(ctx context.Context, f *OutputFormatter, st *store.Store, leftPrefix, rightPrefix string) error {
	left, err := resolveRun(ctx, f, st, leftPrefix)
	if err != nil {
		return err
	}
	right, err := resolveRun(ctx, f, st, rightPrefix)
	if err != nil {
		return err
	}

	diffs, err := st.CompareRuns(ctx, left, right)
	if err != nil {
		return journalError(f, err)
	}

	cmp := &RunComparison{Left: left, Right: right, Same: len(diffs) == 0, Diffs: make([]StepDiff, len(diffs))}
	for i, d := range diffs {
		cmp.Diffs[i] = StepDiff(d)
	}

	if err := f.Result(cmp, func(w io.Writer) {
		if cmp.Same {
			fmt.Fprintf(w, "✓ runs %s and %s match\n", left, right)
			return
		}
		fmt.Fprintf(w, "✗ runs differ at %d step(s)\n", len(cmp.Diffs))
		for _, d := range cmp.Diffs {
			fmt.Fprintf(w, "\nseq %d\n", d.Seq)
			fmt.Fprint(w, "  - ")
			writeDiffSide(w, d.Left)
			fmt.Fprint(w, "  + ")
			writeDiffSide(w, d.Right)
		}
	}); err != nil {
		return err
	}

	if !cmp.Same {
		return NewExitError(ExitFailure, fmt.Sprintf("runs differ at %d step(s)", len(cmp.Diffs)))
	}
	return nil
}

func resolveRun(ctx context.Context, f *OutputFormatter, st *store.Store, prefix string) (string, error) {
	id, err := st.ResolveRunID(ctx, prefix)
	if err != nil {
		_ = f.Error(ErrCodeJournal, err.Error(), nil)
		if errors.Is(err, store.ErrRunNotFound) {
			return "", WrapExitError(ExitFailure, "run not found", err)
		}
		return "", WrapExitError(ExitCommandError, "resolving run", err)
	}
	return id, nil
}

func journalError(f *OutputFormatter, err error) error {
	_ = f.Error(ErrCodeJournal, err.Error(), nil)
	return WrapExitError(ExitCommandError, "reading journal", err)
}

func writeStep(w io.Writer, step ir.StepRecord) {
	fmt.Fprintf(w, "[%d] %s %q", step.Seq, step.Op, step.Input)
	switch {
	case step.Error != "":
		fmt.Fprintf(w, " error: %s", step.Error)
	case len(step.Output) > 0:
		fmt.Fprintf(w, " -> %s", step.Output)
	}
	fmt.Fprintln(w)
}

func writeDiffSide(w io.Writer, step *ir.StepRecord) {
	if step == nil {
		fmt.Fprintln(w, "(missing)")
		return
	}
	writeStep(w, *step)
}

func formatOps(ops map[ir.Op]int) string {
	if len(ops) == 0 {
		return ""
	}
	keys := make([]ir.Op, 0, len(ops))
	for op := range ops {
		keys = append(keys, op)
	}
	slices.Sort(keys)
	s := " ("
	for i, op := range keys {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s %d", op, ops[op])
	}
	return s + ")"
}

func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
