package cpsat

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"

	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

// Solver executes one solve run of a problem instance with the given native
// parameters. It is the external black box the tuner is built around: a run
// blocks until the solver's own time budget expires, and a timeout or
// infeasibility is reported in the Outcome, never as an error. The returned
// error is reserved for invocation failures (process spawn, protocol).
type Solver interface {
	Solve(ctx context.Context, model *Model, params SolverParameters) (Outcome, error)
}

// SolveFunc adapts a plain function to the Solver interface.
type SolveFunc func(ctx context.Context, model *Model, params SolverParameters) (Outcome, error)

func (f SolveFunc) Solve(ctx context.Context, model *Model, params SolverParameters) (Outcome, error) {
	return f(ctx, model, params)
}

// CommandSolver runs an external solver binary. The parameters are written
// to the process on stdin as JSON and the outcome is read from stdout as
// JSON, keeping the solver a black box behind a narrow wire format:
//
//	<binary> [args...] <model-path>
type CommandSolver struct {
	// Binary is the solver executable to invoke.
	Binary string
	// Args are passed before the model path.
	Args []string
}

// NewCommandSolver creates a subprocess-backed solver.
func NewCommandSolver(binary string, args ...string) *CommandSolver {
	return &CommandSolver{Binary: binary, Args: args}
}

func (s *CommandSolver) Solve(ctx context.Context, model *Model, params SolverParameters) (Outcome, error) {
	if err := errors.CheckContext(ctx, "solve"); err != nil {
		return Outcome{}, err
	}

	input, err := json.Marshal(params)
	if err != nil {
		return Outcome{}, errors.Wrap(err, errors.SolveFailed, "failed to encode solver parameters")
	}

	args := append(append([]string(nil), s.Args...), model.Path())
	cmd := exec.CommandContext(ctx, s.Binary, args...)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Outcome{}, errors.WithFields(
			errors.Wrap(err, errors.SolveFailed, "solver process failed"),
			errors.Fields{"binary": s.Binary, "stderr": stderr.String()},
		)
	}

	var outcome Outcome
	if err := json.Unmarshal(stdout.Bytes(), &outcome); err != nil {
		return Outcome{}, errors.WithFields(
			errors.Wrap(err, errors.SolveFailed, "failed to decode solver outcome"),
			errors.Fields{"binary": s.Binary},
		)
	}
	return outcome, nil
}
