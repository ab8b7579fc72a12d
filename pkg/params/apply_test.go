package params

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

func TestApply(t *testing.T) {
	t.Run("Typed Dispatch", func(t *testing.T) {
		var p cpsat.SolverParameters
		require.NoError(t, Apply(&p, "use_erwa_heuristic", Bool(true)))
		require.NoError(t, Apply(&p, "presolve_bve_threshold", Int(1000)))
		require.NoError(t, Apply(&p, "ignore_subsolvers", StringList("quick_restart", "core")))
		assert.True(t, p.UseErwaHeuristic)
		require.NotNil(t, p.PresolveBveThreshold)
		assert.Equal(t, 1000, *p.PresolveBveThreshold)
		assert.Equal(t, []string{"core", "quick_restart"}, p.IgnoreSubsolvers)
	})

	t.Run("Applied Zero Reaches The Wire", func(t *testing.T) {
		// cut_level defaults to 1 in the solver, so an applied 0 must stay
		// distinguishable from an unset field in the marshaled parameters.
		var untouched, p cpsat.SolverParameters
		require.NoError(t, Apply(&p, "cut_level", Int(0)))

		plain, err := json.Marshal(untouched)
		require.NoError(t, err)
		applied, err := json.Marshal(p)
		require.NoError(t, err)

		assert.NotEqual(t, string(plain), string(applied))
		assert.NotContains(t, string(plain), "cut_level")
		assert.Contains(t, string(applied), `"cut_level":0`)
	})

	t.Run("Unknown Parameter", func(t *testing.T) {
		var p cpsat.SolverParameters
		err := Apply(&p, "no_such_parameter", Int(1))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ParameterNotFound))
	})

	t.Run("Kind Mismatch", func(t *testing.T) {
		var p cpsat.SolverParameters
		err := Apply(&p, "use_erwa_heuristic", Int(1))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.InvalidInput))
	})

	t.Run("Float Field Accepts Int", func(t *testing.T) {
		var p cpsat.SolverParameters
		require.NoError(t, Apply(&p, "max_time_in_seconds", Int(30)))
		assert.Equal(t, 30.0, p.MaxTimeInSeconds)
	})

	t.Run("Apply Assignment Stops At First Error", func(t *testing.T) {
		var p cpsat.SolverParameters
		a := Assignment{
			"cut_level":  Int(0),
			"mysterious": Bool(true),
		}
		require.Error(t, ApplyAssignment(&p, a))
	})
}
