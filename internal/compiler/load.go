package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/seqraph/internal/ir"
)

// LoadGraph loads a CUE fixture from a file or a directory of CUE files,
// compiles the top-level graph field, validates it and sorts its patterns
// into build order. Validation failures are returned as ValidationErrors.
func LoadGraph(path string) (*ir.GraphSpec, error) {
	v, err := LoadValue(path)
	if err != nil {
		return nil, err
	}
	graphVal := v.LookupPath(cue.ParsePath("graph"))
	if !graphVal.Exists() {
		return nil, &CompileError{Field: "graph", Message: fmt.Sprintf("no graph defined in %s", path)}
	}
	spec, err := CompileGraph(graphVal)
	if err != nil {
		return nil, err
	}
	if errs := ValidateGraph(spec); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	spec.Patterns, err = BuildOrder(spec)
	if err != nil {
		return nil, err
	}
	return spec, nil
}

// LoadValue builds the CUE value of a fixture file or directory.
func LoadValue(path string) (cue.Value, error) {
	info, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("fixture not found: %w", err)
	}

	cfg := &load.Config{Dir: path}
	args := []string{"."}
	if !info.IsDir() {
		cfg.Dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("no CUE instances loaded from %s", path)
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, formatCUEError(inst.Err)
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return value, nil
}
