package tune

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/cpsat-autotune/internal/testutil"
	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
	"github.com/d-krupke/cpsat-autotune/pkg/errors"
	"github.com/d-krupke/cpsat-autotune/pkg/scoring"
)

func TestTuneForQualityWithinTimelimit(t *testing.T) {
	ctx := context.Background()

	t.Run("Indifferent Solver Keeps The Defaults", func(t *testing.T) {
		// Every configuration scores the same, so no parameter change can
		// survive the significance evaluation.
		model := cpsat.NewModel("model.pb", cpsat.FeatureObjective)
		solver := testutil.NewStubSolver(func(cpsat.SolverParameters, int) cpsat.Outcome {
			return testutil.Feasible(10)
		})
		var report bytes.Buffer

		result, err := TuneForQualityWithinTimelimit(ctx, model, solver, 30, 1000, scoring.Minimize,
			WithTrials(3),
			WithSamplesPerTrial(2),
			WithSamplesForVerification(3),
			WithSeed(7),
			WithReport(&report),
		)
		require.NoError(t, err)

		assert.Empty(t, result.OptimizedParams)
		assert.InDelta(t, 10.0, result.Result.Mean(), 1e-9)
		assert.Contains(t, report.String(), "No significant parameter changes were identified.")
		assert.Contains(t, report.String(), "Objective Value with Default Parameters")
	})

	t.Run("Invalid Options Are Rejected", func(t *testing.T) {
		model := cpsat.NewModel("model.pb", cpsat.FeatureObjective)
		solver := testutil.NewStubSolver(func(cpsat.SolverParameters, int) cpsat.Outcome {
			return testutil.Feasible(10)
		})
		_, err := TuneForQualityWithinTimelimit(ctx, model, solver, 30, 1000, scoring.Minimize,
			WithTrials(0))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ValidationFailed))
	})
}

func TestTuneTimeToOptimal(t *testing.T) {
	ctx := context.Background()

	t.Run("Indifferent Solver Keeps The Defaults", func(t *testing.T) {
		model := cpsat.NewModel("model.pb", cpsat.FeatureObjective)
		solver := testutil.NewStubSolver(func(cpsat.SolverParameters, int) cpsat.Outcome {
			return testutil.Optimal(5, 2.0)
		})

		result, err := TuneTimeToOptimal(ctx, model, solver, 30,
			WithTrials(3),
			WithSamplesPerTrial(2),
			WithSamplesForVerification(3),
			WithSeed(7),
		)
		require.NoError(t, err)

		assert.Empty(t, result.OptimizedParams)
		assert.InDelta(t, 2.0, result.Result.Mean(), 1e-9)
	})

	t.Run("Invalid Gap Option", func(t *testing.T) {
		model := cpsat.NewModel("model.pb", cpsat.FeatureObjective)
		solver := testutil.NewStubSolver(func(cpsat.SolverParameters, int) cpsat.Outcome {
			return testutil.Optimal(5, 2.0)
		})
		_, err := TuneForGapWithinTimelimit(ctx, model, solver, 30, WithGapLimit(0))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ValidationFailed))
	})
}
