package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/seqraph/internal/engine"
	"github.com/roach88/seqraph/internal/ir"
)

// newLogger returns a text logger at Debug level with --verbose, Info otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadEngine compiles a fixture and loads it into a fresh engine.
// Fixture errors are reported through f and returned as exit code 2.
func loadEngine(ctx context.Context, f *OutputFormatter, path string, opts ...engine.Option) (*engine.Engine, *ir.GraphSpec, error) {
	spec, errs := LoadFixture(path)
	if len(errs) > 0 {
		return nil, nil, outputLoadErrors(f, errs)
	}
	f.VerboseLog("Loaded fixture %s: %d token(s), %d pattern(s)", spec.Name, len(spec.Tokens), len(spec.Patterns))

	eng := engine.New(opts...)
	if err := eng.Load(ctx, spec); err != nil {
		return nil, nil, outputRuntimeError(f, err)
	}
	return eng, spec, nil
}

// outputLoadErrors reports fixture errors and returns a command error.
func outputLoadErrors(f *OutputFormatter, errs []error) error {
	if f.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			cliErrors[i] = toCLIError(err)
		}
		encoder := json.NewEncoder(f.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(CLIResponse{Status: "error", Error: &cliErrors[0], Data: cliErrors}); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("fixture has %d error(s)", len(errs)))
	}

	fmt.Fprintln(f.Writer, "✗ Fixture failed to load")
	fmt.Fprintln(f.Writer)
	for _, err := range errs {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(f.Writer, "%s:%d:%d\n", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
		e := toCLIError(err)
		fmt.Fprintf(f.Writer, "  %s: %s\n", e.Code, e.Message)
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("fixture has %d error(s)", len(errs)))
}

func toCLIError(err error) CLIError {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		msg := loadErr.Message
		if loadErr.Field != "" && !loadErr.Pos.IsValid() {
			msg = loadErr.Field + ": " + msg
		}
		return CLIError{Code: loadErr.Code, Message: msg}
	}
	return CLIError{Code: ErrCodeGeneric, Message: err.Error()}
}

// outputRuntimeError reports an engine error. Unknown names and tokens are
// the caller's mistake (exit 2); graph errors are failures (exit 1).
func outputRuntimeError(f *OutputFormatter, err error) error {
	details := map[string]string{}
	var rerr *engine.RuntimeError
	if errors.As(err, &rerr) {
		details["kind"] = string(rerr.Code)
	}
	_ = f.Error(ErrCodeRuntime, err.Error(), details)

	if engine.IsGraphError(err) {
		return WrapExitError(ExitFailure, "operation failed", err)
	}
	return WrapExitError(ExitCommandError, "operation failed", err)
}
