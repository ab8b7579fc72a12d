// Package testutil provides fake solvers and outcome builders shared by the
// package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
)

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Feasible builds an outcome with a feasible solution of the given objective
// value.
func Feasible(objective float64) cpsat.Outcome {
	return cpsat.Outcome{
		Status:         cpsat.StatusFeasible,
		ObjectiveValue: Float64(objective),
		WallTime:       1,
	}
}

// Optimal builds an outcome with a proven optimal solution found after
// wallTime seconds.
func Optimal(objective, wallTime float64) cpsat.Outcome {
	return cpsat.Outcome{
		Status:         cpsat.StatusOptimal,
		ObjectiveValue: Float64(objective),
		BestBound:      Float64(objective),
		WallTime:       wallTime,
	}
}

// NoSolution builds a timeout outcome without any solution.
func NoSolution(wallTime float64) cpsat.Outcome {
	return cpsat.Outcome{
		Status:   cpsat.StatusTimeout,
		WallTime: wallTime,
	}
}

// StubSolver answers every solve call through a single function, passing the
// zero-based call index. It counts calls and is safe for concurrent use.
type StubSolver struct {
	mu    sync.Mutex
	calls int
	fn    func(p cpsat.SolverParameters, call int) cpsat.Outcome
}

// NewStubSolver creates a solver backed by fn.
func NewStubSolver(fn func(p cpsat.SolverParameters, call int) cpsat.Outcome) *StubSolver {
	return &StubSolver{fn: fn}
}

func (s *StubSolver) Solve(_ context.Context, _ *cpsat.Model, p cpsat.SolverParameters) (cpsat.Outcome, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.mu.Unlock()
	return s.fn(p, call), nil
}

// Calls returns how many solve runs were executed.
func (s *StubSolver) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// SequenceSolver scripts outcome sequences per parameter configuration: the
// key function collapses the received parameters into a lookup key, and each
// key replays its outcome sequence in order. An exhausted sequence repeats
// its last outcome, so verification re-evaluations stay defined.
type SequenceSolver struct {
	mu        sync.Mutex
	keyFn     func(cpsat.SolverParameters) string
	sequences map[string][]cpsat.Outcome
	next      map[string]int
	calls     int
}

// NewSequenceSolver creates a scripted solver. The sequences map is owned by
// the solver afterwards.
func NewSequenceSolver(keyFn func(cpsat.SolverParameters) string, sequences map[string][]cpsat.Outcome) *SequenceSolver {
	return &SequenceSolver{
		keyFn:     keyFn,
		sequences: sequences,
		next:      map[string]int{},
	}
}

func (s *SequenceSolver) Solve(_ context.Context, _ *cpsat.Model, p cpsat.SolverParameters) (cpsat.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	key := s.keyFn(p)
	seq, ok := s.sequences[key]
	if !ok || len(seq) == 0 {
		return cpsat.Outcome{}, fmt.Errorf("no scripted outcomes for key %q", key)
	}
	i := s.next[key]
	if i >= len(seq) {
		i = len(seq) - 1
	} else {
		s.next[key]++
	}
	return seq[i], nil
}

// Calls returns how many solve runs were executed.
func (s *SequenceSolver) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
