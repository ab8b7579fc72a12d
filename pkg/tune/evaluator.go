package tune

import (
	"context"
	"math"

	"github.com/d-krupke/cpsat-autotune/pkg/errors"
	"github.com/d-krupke/cpsat-autotune/pkg/logging"
	"github.com/d-krupke/cpsat-autotune/pkg/params"
	"github.com/d-krupke/cpsat-autotune/pkg/scoring"
)

// EvaluationResult is the outcome of the significance evaluation: the
// minimal parameter set that survived the leave-one-out sweep, each kept
// parameter's share of the total improvement, and the verified score of the
// final set.
type EvaluationResult struct {
	OptimizedParams params.Assignment
	Contribution    map[string]float64
	Result          *scoring.MultiResult
}

// ParameterEvaluator checks which parameter changes of a winning assignment
// are actually essential. The search may latch onto combinations whose
// apparent gain comes from only a few dimensions, the rest being noise from
// a finite trial budget; resetting one parameter at a time to its default
// exposes the ones that carry the improvement.
type ParameterEvaluator struct {
	scorer  *scoring.CachingScorer
	nTrial  int
	nVerify int
	logger  *logging.Logger
}

// EvaluatorOption customizes a ParameterEvaluator.
type EvaluatorOption func(*ParameterEvaluator)

// WithEvaluatorTrialSamples sets the run count for each leave-one-out probe.
func WithEvaluatorTrialSamples(n int) EvaluatorOption {
	return func(e *ParameterEvaluator) { e.nTrial = n }
}

// WithEvaluatorVerificationSamples sets the run count for the baseline,
// candidate and final checks.
func WithEvaluatorVerificationSamples(n int) EvaluatorOption {
	return func(e *ParameterEvaluator) { e.nVerify = n }
}

// WithEvaluatorLogger injects the logger; the process default is used
// otherwise.
func WithEvaluatorLogger(logger *logging.Logger) EvaluatorOption {
	return func(e *ParameterEvaluator) { e.logger = logger }
}

// NewParameterEvaluator creates an evaluator over an already-populated
// scorer, so probes reuse the runs the search paid for.
func NewParameterEvaluator(scorer *scoring.CachingScorer, opts ...EvaluatorOption) (*ParameterEvaluator, error) {
	e := &ParameterEvaluator{
		scorer:  scorer,
		nTrial:  10,
		nVerify: 30,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.nTrial < 1 || e.nVerify < 1 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "sample counts must be at least 1"),
			errors.Fields{"n_trial": e.nTrial, "n_verify": e.nVerify},
		)
	}
	if e.logger == nil {
		e.logger = logging.GetLogger()
	}
	return e, nil
}

// Evaluate runs the greedy leave-one-out sweep over the winning assignment.
func (e *ParameterEvaluator) Evaluate(ctx context.Context, winning params.Assignment) (*EvaluationResult, error) {
	metric := e.scorer.Metric()

	baseline, err := e.scorer.Evaluate(ctx, params.Assignment{}, e.nVerify)
	if err != nil {
		return nil, err
	}
	candidate, err := e.scorer.Evaluate(ctx, winning, e.nVerify)
	if err != nil {
		return nil, err
	}

	// A candidate that is not at least as good as doing nothing is
	// discarded outright.
	if metric.Compare(candidate.Mean(), baseline.Mean()) == scoring.Worse {
		e.logger.Info(ctx, "candidate %s scores worse than the defaults, discarding it", winning)
		return &EvaluationResult{
			OptimizedParams: params.Assignment{},
			Contribution:    map[string]float64{},
			Result:          baseline,
		}, nil
	}

	// Midpoint between the worst single observation and the mean, a
	// conservative equality bound for "did removing the parameter hurt".
	acceptThreshold := (metric.Worst(candidate.Scores()) + candidate.Mean()) / 2

	kept := params.Assignment{}
	diffs := map[string]float64{}
	for _, name := range winning.Names() {
		e.logger.Info(ctx, "evaluating resetting parameter %q to its default", name)
		reduced, err := e.scorer.Evaluate(ctx, winning.Without(name), e.nTrial)
		if err != nil {
			return nil, err
		}
		c := metric.Compare(reduced.Mean(), acceptThreshold)
		if c == scoring.Equal || c == scoring.Better {
			e.logger.Info(ctx, "parameter %q is not pulling its weight, dropping it", name)
			continue
		}
		e.logger.Info(ctx, "parameter %q is essential for the performance", name)
		kept[name] = winning[name]
		diffs[name] = math.Abs(candidate.Mean() - reduced.Mean())
	}

	contribution := normalizeContributions(diffs)

	pruned, err := e.scorer.Evaluate(ctx, kept, e.nVerify)
	if err != nil {
		return nil, err
	}

	// Revert when pruning measurably hurt: even the kept-only set's best run
	// is strictly worse than the full candidate's worst run, so the score
	// ranges do not touch. Comparing best against worst is conservative
	// about deviating from the full candidate.
	if metric.Compare(metric.Best(pruned.Scores()), metric.Worst(candidate.Scores())) == scoring.Worse {
		e.logger.Info(ctx, "dropping the seemingly uninfluential parameters worsened the performance, reverting to the full candidate")
		return &EvaluationResult{
			OptimizedParams: winning.Clone(),
			Contribution:    map[string]float64{},
			Result:          candidate,
		}, nil
	}

	return &EvaluationResult{
		OptimizedParams: kept,
		Contribution:    contribution,
		Result:          pruned,
	}, nil
}

// normalizeContributions scales the raw per-parameter diffs to sum to 1.
// When every diff is zero the share is undefined; the kept parameters then
// split the contribution uniformly.
func normalizeContributions(diffs map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(diffs))
	total := 0.0
	for _, d := range diffs {
		total += d
	}
	if total > 0 {
		for name, d := range diffs {
			out[name] = d / total
		}
		return out
	}
	for name := range diffs {
		out[name] = 1 / float64(len(diffs))
	}
	return out
}
