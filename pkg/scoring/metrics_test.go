package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/d-krupke/cpsat-autotune/internal/testutil"
	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
)

func TestObjectiveMetrics(t *testing.T) {
	t.Run("Scores Objective Value", func(t *testing.T) {
		max := NewMaxObjective(30, -1000)
		min := NewMinObjective(30, 1000)
		out := testutil.Feasible(42)
		assert.Equal(t, 42.0, max.Score(out))
		assert.Equal(t, 42.0, min.Score(out))
	})

	t.Run("No Solution Scores The Timeout Value", func(t *testing.T) {
		max := NewMaxObjective(30, -1000)
		assert.Equal(t, -1000.0, max.Score(testutil.NoSolution(30)))
		assert.Equal(t, -1000.0, max.KnockoutScore())
	})

	t.Run("Configures The Time Budget", func(t *testing.T) {
		var p cpsat.SolverParameters
		NewMinObjective(30, 1000).Configure(&p)
		assert.Equal(t, 30.0, p.MaxTimeInSeconds)
	})
}

func TestMinTimeToOptimal(t *testing.T) {
	t.Run("Optimal Run Scores Wall Time", func(t *testing.T) {
		m := NewMinTimeToOptimal(30)
		assert.Equal(t, 4.2, m.Score(testutil.Optimal(10, 4.2)))
	})

	t.Run("Cutoff Run Scores The Penalized Budget", func(t *testing.T) {
		m := NewMinTimeToOptimal(30)
		assert.Equal(t, 300.0, m.Score(testutil.Feasible(10)))
		assert.Equal(t, 300.0, m.KnockoutScore())
	})

	t.Run("Par Multiplier Is Configurable", func(t *testing.T) {
		m := NewMinTimeToOptimal(30, WithParMultiplier(2))
		assert.Equal(t, 60.0, m.Score(testutil.NoSolution(30)))
	})

	t.Run("Gap Limits Are Stamped Onto The Run", func(t *testing.T) {
		m := NewMinTimeToOptimal(30, WithRelativeGapLimit(0.01), WithAbsoluteGapLimit(2))
		var p cpsat.SolverParameters
		m.Configure(&p)
		assert.Equal(t, 0.01, p.RelativeGapLimit)
		assert.Equal(t, 2.0, p.AbsoluteGapLimit)
	})
}

func TestMinGapWithinTimelimit(t *testing.T) {
	m := NewMinGapWithinTimelimit(30, 10)

	t.Run("Relative Gap", func(t *testing.T) {
		out := testutil.Feasible(100)
		out.BestBound = testutil.Float64(90)
		assert.InDelta(t, 0.1, m.Score(out), 1e-9)
	})

	t.Run("Denominator Floored At One", func(t *testing.T) {
		out := testutil.Feasible(0.5)
		out.BestBound = testutil.Float64(0)
		// Gap is |0.5-0| / max(1, 0.5) = 0.5, not 1.
		assert.InDelta(t, 0.5, m.Score(out), 1e-9)
	})

	t.Run("Capped At The Limit", func(t *testing.T) {
		out := testutil.Feasible(1)
		out.BestBound = testutil.Float64(1000)
		assert.Equal(t, 10.0, m.Score(out))
	})

	t.Run("No Solution Scores The Cap", func(t *testing.T) {
		assert.Equal(t, 10.0, m.Score(testutil.NoSolution(30)))
		assert.Equal(t, 10.0, m.KnockoutScore())
	})
}

func TestMinGapIntegralWithinTimelimit(t *testing.T) {
	m := NewMinGapIntegralWithinTimelimit(30, 100)

	t.Run("Scores The Reported Integral", func(t *testing.T) {
		out := testutil.Feasible(5)
		out.GapIntegral = testutil.Float64(12.5)
		assert.Equal(t, 12.5, m.Score(out))
	})

	t.Run("Missing Integral Scores The Cap", func(t *testing.T) {
		assert.Equal(t, 100.0, m.Score(testutil.Feasible(5)))
	})
}
