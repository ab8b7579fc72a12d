package tune

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
	"github.com/d-krupke/cpsat-autotune/pkg/errors"
	"github.com/d-krupke/cpsat-autotune/pkg/logging"
	"github.com/d-krupke/cpsat-autotune/pkg/scoring"
	"github.com/d-krupke/cpsat-autotune/pkg/space"
	"github.com/d-krupke/cpsat-autotune/pkg/trial"
)

var validate = validator.New()

// options holds the shared knobs of the tuning entry points.
type options struct {
	NTrials                int     `validate:"gte=1"`
	NTrialSamples          int     `validate:"gte=1"`
	NVerifySamples         int     `validate:"gte=1"`
	Concurrency            int     `validate:"gte=1"`
	RelativeGap            float64 `validate:"gte=0"`
	GapLimit               float64 `validate:"gt=0"`
	MaxDifferenceToDefault int

	Seed         int64
	Journal      *trial.Journal
	Logger       *logging.Logger
	ReportWriter io.Writer
}

// Option customizes a tuning run.
type Option func(*options)

// WithTrials sets the number of trials (default 100).
func WithTrials(n int) Option {
	return func(o *options) { o.NTrials = n }
}

// WithSamplesPerTrial sets the solve runs per candidate trial (default 10).
func WithSamplesPerTrial(n int) Option {
	return func(o *options) { o.NTrialSamples = n }
}

// WithSamplesForVerification sets the solve runs used for the baseline and
// for verifying promising candidates (default 30).
func WithSamplesForVerification(n int) Option {
	return func(o *options) { o.NVerifySamples = n }
}

// WithConcurrency evaluates up to n trials concurrently (default 1). All
// trials of a run share one scoring cache, which serializes the solver runs
// themselves; raising n overlaps the surrounding trial machinery, not the
// solves.
func WithConcurrency(n int) Option {
	return func(o *options) { o.Concurrency = n }
}

// WithRelativeGap treats solutions within the given relative gap as optimal.
// Only meaningful for TuneTimeToOptimal.
func WithRelativeGap(gap float64) Option {
	return func(o *options) { o.RelativeGap = gap }
}

// WithGapLimit caps the gap score (default 10). Only meaningful for
// TuneForGapWithinTimelimit.
func WithGapLimit(limit float64) Option {
	return func(o *options) { o.GapLimit = limit }
}

// WithMaxDifferenceToDefault prunes trials deviating from the defaults in
// more than n parameters. Negative disables the guard (the default).
func WithMaxDifferenceToDefault(n int) Option {
	return func(o *options) { o.MaxDifferenceToDefault = n }
}

// WithSeed makes sampling and per-run solver seeds deterministic.
func WithSeed(seed int64) Option {
	return func(o *options) { o.Seed = seed }
}

// WithJournal persists the study's trials to the given journal.
func WithJournal(j *trial.Journal) Option {
	return func(o *options) { o.Journal = j }
}

// WithLogger injects the logger; the process default is used otherwise.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) { o.Logger = logger }
}

// WithReport writes the human-readable result report to w after tuning.
func WithReport(w io.Writer) Option {
	return func(o *options) { o.ReportWriter = w }
}

func buildOptions(opts []Option) (options, error) {
	o := options{
		NTrials:                100,
		NTrialSamples:          10,
		NVerifySamples:         30,
		Concurrency:            1,
		GapLimit:               10,
		MaxDifferenceToDefault: -1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := validate.Struct(o); err != nil {
		return o, errors.Wrap(err, errors.ValidationFailed, "invalid tuning options")
	}
	if o.Logger == nil {
		o.Logger = logging.GetLogger()
	}
	return o, nil
}

// TuneTimeToOptimal tunes the solver parameters to minimize the time needed
// to prove optimality. The time budget should be high enough for the default
// parameters to reach an optimal solution, but not much higher, as it
// dominates the runtime of the tuning process. WithRelativeGap relaxes what
// counts as optimal; closing the last fraction of the gap often takes the
// longest.
func TuneTimeToOptimal(ctx context.Context, model *cpsat.Model, solver cpsat.Solver, maxTimeInSeconds float64, opts ...Option) (*EvaluationResult, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	sp := space.New()
	// LNS-only search never proves optimality, so it cannot help this metric.
	sp.Drop("use_lns_only")
	sp.FilterApplicable(model)
	sp.SetMaxDifferenceToDefault(o.MaxDifferenceToDefault)

	var metricOpts []scoring.MinTimeToOptimalOption
	if o.RelativeGap > 0 {
		metricOpts = append(metricOpts, scoring.WithRelativeGapLimit(o.RelativeGap))
	}
	metric := scoring.NewMinTimeToOptimal(maxTimeInSeconds, metricOpts...)

	o.Logger.Info(ctx, "starting tuning to minimize the time to an optimal solution")
	return run(ctx, sp, model, solver, metric, o)
}

// TuneForQualityWithinTimelimit tunes the solver parameters to maximize or
// minimize the objective value reachable within the time budget. The budget
// should be below the time the default parameters need for an optimal
// solution; objForTimeout is scored when a run finds no solution at all and
// should be worse than a trivial solution.
func TuneForQualityWithinTimelimit(ctx context.Context, model *cpsat.Model, solver cpsat.Solver, maxTimeInSeconds, objForTimeout float64, direction scoring.Direction, opts ...Option) (*EvaluationResult, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	sp := space.New()
	sp.FilterApplicable(model)
	sp.SetMaxDifferenceToDefault(o.MaxDifferenceToDefault)

	var metric scoring.Metric
	if direction == scoring.Maximize {
		metric = scoring.NewMaxObjective(maxTimeInSeconds, objForTimeout)
	} else {
		metric = scoring.NewMinObjective(maxTimeInSeconds, objForTimeout)
	}

	o.Logger.Info(ctx, "starting tuning for solution quality within the time limit, direction %s", direction)
	return run(ctx, sp, model, solver, metric, o)
}

// TuneForGapWithinTimelimit tunes the solver parameters to minimize the
// remaining optimality gap at the end of the time budget. A good option for
// models with no chance of being solved to optimality within the budget.
// If the budget is very small this mostly minimizes presolve time, which can
// hurt long-term performance.
func TuneForGapWithinTimelimit(ctx context.Context, model *cpsat.Model, solver cpsat.Solver, maxTimeInSeconds float64, opts ...Option) (*EvaluationResult, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	sp := space.New()
	sp.FilterApplicable(model)
	sp.SetMaxDifferenceToDefault(o.MaxDifferenceToDefault)

	metric := scoring.NewMinGapWithinTimelimit(maxTimeInSeconds, o.GapLimit)

	o.Logger.Info(ctx, "starting tuning for the remaining gap within the time limit, cap %g", o.GapLimit)
	return run(ctx, sp, model, solver, metric, o)
}

// run is the shared tuning loop: baseline, study-driven search, then the
// leave-one-out significance evaluation of the winner.
func run(ctx context.Context, sp *space.ParameterSpace, model *cpsat.Model, solver cpsat.Solver, metric scoring.Metric, o options) (*EvaluationResult, error) {
	scorerOpts := []scoring.ScorerOption{
		scoring.WithFixedParams(sp.FixedParams()),
		scoring.WithLogger(o.Logger),
	}
	if o.Seed > 0 {
		scorerOpts = append(scorerOpts, scoring.WithSeed(o.Seed))
	}
	scorer := scoring.NewCachingScorer(model, solver, metric, scorerOpts...)

	strategy, err := NewStrategy(sp, scorer,
		WithTrialSamples(o.NTrialSamples),
		WithVerificationSamples(o.NVerifySamples),
		WithStrategyLogger(o.Logger),
	)
	if err != nil {
		return nil, err
	}

	baseline, err := strategy.Baseline(ctx)
	if err != nil {
		return nil, err
	}
	o.Logger.Info(ctx, "baseline evaluation completed: min=%g mean=%g max=%g",
		baseline.Min(), baseline.Mean(), baseline.Max())

	study := trial.NewStudy(metric.Direction(),
		trial.WithSampler(trial.NewTPESampler(trial.TPEConfig{Seed: o.Seed})),
		trial.WithJournal(o.Journal),
		trial.WithConcurrency(o.Concurrency),
		trial.WithLogger(o.Logger),
	)
	// The first trial replays the default configuration, anchoring the
	// sampler's good/bad split.
	study.Enqueue(sp.DefaultSuggestions())

	o.Logger.Info(ctx, "starting the search with %d trials", o.NTrials)
	if err := study.Optimize(ctx, strategy.Objective(ctx), o.NTrials); err != nil {
		return nil, err
	}

	best, ok := strategy.BestParams()
	if !ok {
		return nil, errors.New(errors.Unknown, "no trial produced a result")
	}
	o.Logger.Info(ctx, "best parameters found: %s with score %g", best.Params(), best.Mean())

	evaluator, err := NewParameterEvaluator(scorer,
		WithEvaluatorTrialSamples(o.NTrialSamples),
		WithEvaluatorVerificationSamples(o.NVerifySamples),
		WithEvaluatorLogger(o.Logger),
	)
	if err != nil {
		return nil, err
	}
	result, err := evaluator.Evaluate(ctx, best.Params())
	if err != nil {
		return nil, err
	}

	if o.ReportWriter != nil {
		if err := WriteReport(o.ReportWriter, result, baseline, metric); err != nil {
			return nil, err
		}
	}
	o.Logger.Info(ctx, "hyperparameter tuning completed")
	return result, nil
}
