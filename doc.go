// Package cpsatautotune tunes the hyperparameters of Google's CP-SAT solver
// for a concrete problem model. CP-SAT's defaults are chosen to be robust
// across a wide range of models; for a specific model, a different
// configuration is often significantly faster or produces better solutions
// within the same time budget.
//
// The tuner treats the solver as a black box: it repeatedly solves the model
// with candidate parameter sets, scores the outcomes with a user-chosen
// metric, and searches the parameter space with a Tree-structured Parzen
// Estimator. Because solver runtimes are noisy, every candidate is measured
// over multiple runs, promising candidates are re-verified with a larger
// sample, and hopeless candidates are aborted early against a baseline-derived
// knockout threshold.
//
// Key Components:
//
//   - tune: The entry points TuneTimeToOptimal, TuneForQualityWithinTimelimit
//     and TuneForGapWithinTimelimit, plus the significance evaluation that
//     strips parameters whose apparent gain does not survive a leave-one-out
//     check.
//
//   - scoring: Direction-aware metrics (time to optimal, objective value,
//     remaining gap, gap integral) and the caching scorer that amortizes
//     solver runs across trials.
//
//   - trial: A small study/trial framework with a TPE sampler and an optional
//     SQLite journal of all evaluated trials.
//
//   - space: The tunable parameter space, filtered down to the parameters
//     applicable to the model at hand.
//
//   - cpsat: The solver abstraction, including a subprocess-backed solver
//     speaking a narrow JSON protocol.
//
// The cmd/cpsat-autotune command exposes the three tuning modes as a CLI.
//
// Example:
//
//	model := cpsat.NewModel("instance.pb", cpsat.FeatureObjective)
//	solver := cpsat.NewCommandSolver("/usr/local/bin/cpsat-runner")
//	result, err := tune.TuneTimeToOptimal(ctx, model, solver, 30,
//	    tune.WithTrials(100),
//	    tune.WithReport(os.Stdout),
//	)
package cpsatautotune
