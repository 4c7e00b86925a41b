package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/seqraph/internal/engine"
	"github.com/roach88/seqraph/internal/ir"
	"github.com/roach88/seqraph/internal/store"
	"github.com/roach88/seqraph/internal/token"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Mode     string
	Fold     bool

	// RunGenerator allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunGenerator engine.RunIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [fixture]",
		Short: "Start an interactive session",
		Long: `Start a session that reads commands from stdin, one per line.

The graph starts from the fixture when one is given, empty otherwise.
With --db every operation is journaled to a SQLite database so the
session can be inspected later with "seqraph history".

Commands:
  insert <text>            insert text, creating vertices as needed
  insert-names <name>...   insert the concatenation of named vertices
  find <text>              search for text
  find-names <name>...     search for a sequence of named vertices
  split <ref> <pos>        split a vertex at a token offset
  split-insert <ref> <pos> split and insert both halves
  check                    verify graph invariants
  stats                    print graph counters
  quit                     end the session

Example:
  seqraph run ./abcd.cue
  seqraph run --db ./seqraph.db --mode words --fold`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture := ""
			if len(args) == 1 {
				fixture = args[0]
			}
			return runSession(opts, fixture, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (optional)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "chars", "tokenization mode without a fixture (chars|words)")
	cmd.Flags().BoolVar(&opts.Fold, "fold", false, "case-fold text without a fixture")

	return cmd
}

func runSession(opts *RunOptions, fixture string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	var spec *ir.GraphSpec
	if fixture != "" {
		var errs []error
		spec, errs = LoadFixture(fixture)
		if len(errs) > 0 {
			return outputLoadErrors(formatter, errs)
		}
	}

	runGen := opts.RunGenerator
	if runGen == nil {
		runGen = engine.UUIDv7Generator{}
	}
	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithRunIDGenerator(runGen),
	}
	if spec == nil {
		mode, err := token.ParseMode(opts.Mode)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid mode", err)
		}
		var textOpts []token.Option
		if opts.Fold {
			textOpts = append(textOpts, token.WithFold())
		}
		engineOpts = append(engineOpts, engine.WithTokenizer(token.New(mode, textOpts...)))
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	var st *store.Store
	if opts.Database != "" {
		logger.Info("opening journal", "path", opts.Database)
		var err error
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		engineOpts = append(engineOpts, engine.WithRecorder(st))
	}

	eng := engine.New(engineOpts...)

	if st != nil {
		run := ir.RunRecord{
			ID:        eng.RunID(),
			StartedAt: time.Now().Unix(),
			Version:   ir.EngineVersion,
		}
		if spec != nil {
			hash, err := ir.SpecHash(spec)
			if err != nil {
				return WrapExitError(ExitCommandError, "hashing fixture", err)
			}
			run.Fixture = spec.Name
			run.SpecHash = hash
		}
		if err := st.WriteRun(ctx, run); err != nil {
			return WrapExitError(ExitCommandError, "failed to start run", err)
		}
	}

	if spec != nil {
		if err := eng.Load(ctx, spec); err != nil {
			finishRun(st, eng.RunID(), store.StatusFailed, logger)
			return outputRuntimeError(formatter, err)
		}
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	logger.Info("session started", "run_id", eng.RunID(), "mode", eng.Mode())
	if formatter.Format != "json" {
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s started. Type \"quit\" to stop.\n", eng.RunID())
	}

	s := &session{engine: eng, out: formatter, verbose: opts.Verbose}
	err := s.serve(ctx, cmd.InOrStdin())

	status := store.StatusOK
	if err != nil {
		status = store.StatusFailed
	}
	finishRun(st, eng.RunID(), status, logger)

	if err != nil {
		return WrapExitError(ExitCommandError, "reading commands", err)
	}
	logger.Info("session ended", "run_id", eng.RunID(), "operations", eng.Clock().Current())
	return nil
}

func finishRun(st *store.Store, runID, status string, logger *slog.Logger) {
	if st == nil {
		return
	}
	if err := st.FinishRun(context.Background(), runID, status, time.Now().Unix()); err != nil {
		logger.Error("failed to finish run", "run_id", runID, "error", err)
	}
}

// errQuit ends a session normally.
var errQuit = errors.New("quit")

// session executes line commands against one engine.
type session struct {
	engine  *engine.Engine
	out     *OutputFormatter
	verbose bool
}

// serve reads lines until EOF, quit or cancellation.
func (s *session) serve(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if err := s.exec(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				_ = s.out.Error(ErrCodeRuntime, err.Error(), nil)
			}
		}
	}
}

// exec runs one command line. Blank lines and # comments are ignored.
func (s *session) exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	w := s.out.Writer

	switch command {
	case "quit", "exit":
		return errQuit
	case "insert":
		res, err := s.engine.InsertText(ctx, rest)
		if err != nil {
			return err
		}
		return s.out.Result(res, func(w io.Writer) { writeInsert(w, res) })
	case "insert-names":
		res, err := s.engine.InsertNames(ctx, strings.Fields(rest))
		if err != nil {
			return err
		}
		return s.out.Result(res, func(w io.Writer) { writeInsert(w, res) })
	case "find":
		res, err := s.engine.FindText(ctx, rest)
		if err != nil {
			return err
		}
		return s.out.Result(res, func(w io.Writer) { writeFind(w, res) })
	case "find-names":
		res, err := s.engine.FindNames(ctx, strings.Fields(rest))
		if err != nil {
			return err
		}
		return s.out.Result(res, func(w io.Writer) { writeFind(w, res) })
	case "split", "split-insert":
		ref, pos, err := parseSplitArgs(rest)
		if err != nil {
			return err
		}
		var res *ir.SplitResult
		if command == "split" {
			res, err = s.engine.Split(ctx, ref, pos)
		} else {
			res, err = s.engine.SplitInsert(ctx, ref, pos)
		}
		if err != nil {
			return err
		}
		return s.out.Result(res, func(w io.Writer) { writeSplit(w, res, s.verbose) })
	case "check":
		res, err := s.engine.Check(ctx)
		if err != nil {
			return err
		}
		return s.out.Result(res, func(w io.Writer) { writeCheck(w, res) })
	case "stats":
		stats := s.engine.Stats()
		return s.out.Result(stats, func(w io.Writer) { writeStats(w, stats) })
	case "help":
		fmt.Fprintln(w, "commands: insert, insert-names, find, find-names, split, split-insert, check, stats, quit")
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// parseSplitArgs parses "<ref> <pos>". The position is the last field so
// text references may contain spaces.
func parseSplitArgs(args string) (string, int, error) {
	i := strings.LastIndex(args, " ")
	if i < 0 {
		return "", 0, errors.New("usage: split <ref> <pos>")
	}
	ref := strings.TrimSpace(args[:i])
	pos, err := strconv.Atoi(args[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid position %q", args[i+1:])
	}
	return ref, pos, nil
}
