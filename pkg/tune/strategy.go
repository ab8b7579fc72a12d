// Package tune combines the sampling bridge, the scoring cache and the trial
// suggester into the tuning loop: a per-trial objective with knockout-based
// early abort, a leave-one-out significance evaluator, and the public entry
// points for the supported metrics.
package tune

import (
	"context"
	stderrors "errors"

	"github.com/d-krupke/cpsat-autotune/pkg/errors"
	"github.com/d-krupke/cpsat-autotune/pkg/logging"
	"github.com/d-krupke/cpsat-autotune/pkg/params"
	"github.com/d-krupke/cpsat-autotune/pkg/scoring"
	"github.com/d-krupke/cpsat-autotune/pkg/space"
	"github.com/d-krupke/cpsat-autotune/pkg/trial"
)

// Strategy is the per-trial objective the study evaluates. Each trial samples
// a candidate assignment, derives a knockout threshold from the baseline's
// spread, scores the candidate with early abort against that threshold, and
// widens promising candidates to the verification sample count before
// trusting them.
type Strategy struct {
	space   *space.ParameterSpace
	scorer  *scoring.CachingScorer
	nTrial  int
	nVerify int
	logger  *logging.Logger
}

// StrategyOption customizes a Strategy.
type StrategyOption func(*Strategy)

// WithTrialSamples sets the number of solve runs per candidate trial.
func WithTrialSamples(n int) StrategyOption {
	return func(s *Strategy) { s.nTrial = n }
}

// WithVerificationSamples sets the number of solve runs used for the
// baseline and for re-verifying candidates that look like a new best.
func WithVerificationSamples(n int) StrategyOption {
	return func(s *Strategy) { s.nVerify = n }
}

// WithStrategyLogger injects the logger; the process default is used
// otherwise.
func WithStrategyLogger(logger *logging.Logger) StrategyOption {
	return func(s *Strategy) { s.logger = logger }
}

// NewStrategy creates a strategy over a parameter space and a scorer.
func NewStrategy(sp *space.ParameterSpace, scorer *scoring.CachingScorer, opts ...StrategyOption) (*Strategy, error) {
	s := &Strategy{
		space:   sp,
		scorer:  scorer,
		nTrial:  10,
		nVerify: 30,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.nTrial < 1 || s.nVerify < 1 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "sample counts must be at least 1"),
			errors.Fields{"n_trial": s.nTrial, "n_verify": s.nVerify},
		)
	}
	if s.logger == nil {
		s.logger = logging.GetLogger()
	}
	return s, nil
}

// Baseline evaluates the default parameters with the verification sample
// count. Repeated calls hit the cache.
func (s *Strategy) Baseline(ctx context.Context) (*scoring.MultiResult, error) {
	return s.scorer.Evaluate(ctx, params.Assignment{}, s.nVerify)
}

// knockoutThreshold is a 10%-of-spread margin past the worst observed
// baseline run. Candidates clearly worse than this are abandoned early.
func (s *Strategy) knockoutThreshold(baseline *scoring.MultiResult) float64 {
	metric := s.scorer.Metric()
	worst := metric.Worst(baseline.Scores())
	margin := 0.1 * baseline.Spread()
	if metric.Direction() == scoring.Minimize {
		return worst + margin
	}
	return worst - margin
}

// Objective returns the per-trial function the study drives. Pruned trials
// report the knockout threshold as their score, never an error.
func (s *Strategy) Objective(ctx context.Context) trial.Objective {
	return func(t trial.Trial) (float64, error) {
		return s.evaluateTrial(ctx, t)
	}
}

func (s *Strategy) evaluateTrial(ctx context.Context, t trial.Trial) (float64, error) {
	assignment, sampleErr := s.space.Sample(t)
	if sampleErr != nil && !stderrors.Is(sampleErr, space.ErrPruned) {
		return 0, sampleErr
	}

	baseline, err := s.Baseline(ctx)
	if err != nil {
		return 0, err
	}
	knockout := s.knockoutThreshold(baseline)

	if stderrors.Is(sampleErr, space.ErrPruned) {
		s.logger.Debug(ctx, "trial %d pruned, scoring it at the knockout threshold %g", t.Number(), knockout)
		return knockout, nil
	}

	result, err := s.scorer.EvaluateWithKnockout(ctx, assignment, s.nTrial, knockout)
	if err != nil {
		return 0, err
	}

	// A candidate that ties or beats the best cached mean is promoted to the
	// verification sample count before the low-confidence signal is trusted.
	// The baseline's own empty assignment is already at that count.
	if len(assignment) > 0 && s.looksLikeNewBest(result) {
		s.logger.Info(ctx, "trial %d looks like a new best (%g), re-verifying with %d runs", t.Number(), result.Mean(), s.nVerify)
		result, err = s.scorer.EvaluateWithKnockout(ctx, assignment, s.nVerify, knockout)
		if err != nil {
			return 0, err
		}
	}
	return result.Mean(), nil
}

func (s *Strategy) looksLikeNewBest(result *scoring.MultiResult) bool {
	best, ok := s.scorer.Best()
	if !ok {
		return true
	}
	c := s.scorer.Metric().Compare(result.Mean(), best.Mean())
	return c == scoring.Equal || c == scoring.Better
}

// BestParams returns the cached result with the best mean. Prefer this over
// the study's best trial: it reports native parameters and the full score
// sequence rather than raw suggestions.
func (s *Strategy) BestParams() (*scoring.MultiResult, bool) {
	return s.scorer.Best()
}
