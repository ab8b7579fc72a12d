package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

func TestCatalog(t *testing.T) {
	t.Run("Names Are Unique And Applyable", func(t *testing.T) {
		seen := map[string]bool{}
		var p cpsat.SolverParameters
		for _, d := range Catalog() {
			assert.False(t, seen[d.Name()], "duplicate parameter %q", d.Name())
			seen[d.Name()] = true
			// Every catalog entry must dispatch to a typed field.
			assert.NoError(t, Apply(&p, d.Name(), d.Default()), "parameter %q", d.Name())
		}
	})

	t.Run("ByName", func(t *testing.T) {
		d, err := ByName("use_lns_only")
		require.NoError(t, err)
		assert.Equal(t, "use_lns_only", d.Name())

		_, err = ByName("does_not_exist")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ParameterNotFound))
	})

	t.Run("Objective Parameters Need An Objective", func(t *testing.T) {
		withObjective := cpsat.NewModel("m", cpsat.FeatureObjective)
		withoutObjective := cpsat.NewModel("m")
		for _, name := range []string{
			"use_objective_lb_search",
			"use_objective_shaving_search",
			"optimize_with_core",
			"add_objective_cut",
		} {
			d, err := ByName(name)
			require.NoError(t, err)
			assert.True(t, d.IsApplicable(withObjective), "parameter %q", name)
			assert.False(t, d.IsApplicable(withoutObjective), "parameter %q", name)
		}
	})

	t.Run("Descriptions Are Present", func(t *testing.T) {
		for _, d := range Catalog() {
			assert.NotEmpty(t, d.Description(), "parameter %q", d.Name())
		}
	})
}
