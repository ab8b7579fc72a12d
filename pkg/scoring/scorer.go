package scoring

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
	"github.com/d-krupke/cpsat-autotune/pkg/errors"
	"github.com/d-krupke/cpsat-autotune/pkg/logging"
	"github.com/d-krupke/cpsat-autotune/pkg/params"
)

// CachingScorer executes solve runs for parameter assignments, repeating
// runs up to a requested count and memoizing results keyed by the normalized
// assignment. Solver runs are expensive and stochastic; the cache avoids
// repeated work when the search revisits near-duplicate points, and the
// knockout logic discards clearly inferior configurations after the minimum
// number of samples needed to establish that inferiority.
//
// Evaluate is serialized by an internal mutex, so the scorer is safe to
// share between concurrently evaluated trials; cache lookup-then-insert is
// not atomic and score sequences are mutated in place. The mutex is held
// across the whole solve loop of one call: solver runs through a shared
// scorer never overlap, concurrent callers queue.
type CachingScorer struct {
	model  *cpsat.Model
	solver cpsat.Solver
	metric Metric
	fixed  params.Assignment
	logger *logging.Logger

	mu    sync.Mutex
	cache map[string]*MultiResult
	order []string
	rng   *rand.Rand
}

// ScorerOption customizes a CachingScorer.
type ScorerOption func(*CachingScorer)

// WithFixedParams pins a baseline override set. Parameters in this set are
// applied to every run and removed from assignments before caching.
func WithFixedParams(fixed params.Assignment) ScorerOption {
	return func(s *CachingScorer) { s.fixed = fixed.Clone() }
}

// WithLogger injects the logger; the process default is used otherwise.
func WithLogger(logger *logging.Logger) ScorerOption {
	return func(s *CachingScorer) { s.logger = logger }
}

// WithSeed makes the per-run solver seeds deterministic, for tests.
func WithSeed(seed int64) ScorerOption {
	return func(s *CachingScorer) { s.rng = rand.New(rand.NewSource(seed)) }
}

// NewCachingScorer creates a scorer for one model, solver and metric.
func NewCachingScorer(model *cpsat.Model, solver cpsat.Solver, metric Metric, opts ...ScorerOption) *CachingScorer {
	s := &CachingScorer{
		model:  model,
		solver: solver,
		metric: metric,
		fixed:  params.Assignment{},
		cache:  map[string]*MultiResult{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.GetLogger()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Metric returns the metric the scorer evaluates with.
func (s *CachingScorer) Metric() Metric { return s.metric }

// FixedParams returns the baseline override set. Callers must not mutate it.
func (s *CachingScorer) FixedParams() params.Assignment { return s.fixed }

// Evaluate scores the assignment over numRuns solve runs, reusing any cached
// observations. Calling it again with the same or a smaller run count
// returns the cached result without further solver calls.
func (s *CachingScorer) Evaluate(ctx context.Context, assignment params.Assignment, numRuns int) (*MultiResult, error) {
	return s.evaluate(ctx, assignment, numRuns, nil)
}

// EvaluateWithKnockout is Evaluate with an early-abort threshold: as soon as
// any observation compares no better than knockoutScore, the evaluation
// stops and the returned sequence is flattened to numRuns copies of the
// worst observed value.
func (s *CachingScorer) EvaluateWithKnockout(ctx context.Context, assignment params.Assignment, numRuns int, knockoutScore float64) (*MultiResult, error) {
	return s.evaluate(ctx, assignment, numRuns, &knockoutScore)
}

func (s *CachingScorer) evaluate(ctx context.Context, assignment params.Assignment, numRuns int, knockout *float64) (*MultiResult, error) {
	if numRuns < 1 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "numRuns must be at least 1"),
			errors.Fields{"num_runs": numRuns},
		)
	}

	if err := errors.CheckContext(ctx, "evaluate"); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := assignment.Normalize(s.fixed)
	key := normalized.Key()
	result, ok := s.cache[key]
	if !ok {
		result = newMultiResult(normalized)
		s.cache[key] = result
		s.order = append(s.order, key)
	}

	if result.Len() >= numRuns {
		return result, nil
	}
	if knockout != nil && result.Len() > 0 {
		if c := s.metric.Compare(s.metric.Worst(result.Scores()), *knockout); c == Worse || c == Equal {
			s.logger.Debug(ctx, "returning cached knockout result for %s", normalized)
			return result.asKnockoutResult(s.metric, numRuns), nil
		}
	}

	missing := numRuns - result.Len()
	for i := 0; i < missing; i++ {
		if err := errors.CheckContext(ctx, "evaluate"); err != nil {
			return nil, err
		}
		outcome, err := s.runOnce(ctx, normalized)
		if err != nil {
			return nil, err
		}
		score := s.metric.Score(outcome)
		result.append(score)
		if knockout != nil {
			if c := s.metric.Compare(score, *knockout); c == Worse || c == Equal {
				s.logger.Debug(ctx, "knockout after %d run(s) for %s", result.Len(), normalized)
				return result.asKnockoutResult(s.metric, numRuns), nil
			}
		}
	}
	return result, nil
}

// runOnce executes a single solve run with a fresh random seed.
func (s *CachingScorer) runOnce(ctx context.Context, assignment params.Assignment) (cpsat.Outcome, error) {
	var p cpsat.SolverParameters
	s.metric.Configure(&p)
	if err := params.ApplyAssignment(&p, assignment); err != nil {
		return cpsat.Outcome{}, err
	}
	if err := params.ApplyAssignment(&p, s.fixed); err != nil {
		return cpsat.Outcome{}, err
	}
	p.RandomSeed = s.rng.Int63n(1 << 31)
	return s.solver.Solve(ctx, s.model, p)
}

// Results returns the accumulated per-assignment results in first-seen
// order. Entries without a single completed run are skipped; they exist when
// every solve attempt for an assignment failed.
func (s *CachingScorer) Results() []*MultiResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*MultiResult, 0, len(s.order))
	for _, key := range s.order {
		if r := s.cache[key]; r.Len() > 0 {
			out = append(out, r)
		}
	}
	return out
}

// Best returns the cached result with the best mean score, or false if
// nothing has been evaluated yet.
func (s *CachingScorer) Best() (*MultiResult, bool) {
	results := s.Results()
	if len(results) == 0 {
		return nil, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if s.metric.Compare(r.Mean(), best.Mean()) == Better {
			best = r
		}
	}
	return best, true
}
