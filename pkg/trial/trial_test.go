package trial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

func TestFixedTrial(t *testing.T) {
	t.Run("Replays The Mapping", func(t *testing.T) {
		ft := NewFixedTrial(map[string]interface{}{
			"use_erwa_heuristic": true,
			"cut_level":          2,
		})

		v, err := ft.SuggestCategorical("use_erwa_heuristic", []interface{}{true, false})
		require.NoError(t, err)
		assert.Equal(t, true, v)

		n, err := ft.SuggestInt("cut_level", 0, 2, false)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		assert.Equal(t, map[string]interface{}{
			"use_erwa_heuristic": true,
			"cut_level":          2,
		}, ft.Params())
	})

	t.Run("Params Contains Only Consumed Suggestions", func(t *testing.T) {
		ft := NewFixedTrial(map[string]interface{}{"a": true, "b": 1})
		_, err := ft.SuggestCategorical("a", []interface{}{true, false})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"a": true}, ft.Params())
	})

	t.Run("Missing Dimension", func(t *testing.T) {
		ft := NewFixedTrial(map[string]interface{}{})
		_, err := ft.SuggestCategorical("a", []interface{}{true, false})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ParameterNotFound))
	})

	t.Run("Value Outside The Choices", func(t *testing.T) {
		ft := NewFixedTrial(map[string]interface{}{"a": 7})
		_, err := ft.SuggestCategorical("a", []interface{}{1, 2, 3})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.InvalidInput))
	})

	t.Run("Int Out Of Bounds", func(t *testing.T) {
		ft := NewFixedTrial(map[string]interface{}{"a": 10})
		_, err := ft.SuggestInt("a", 0, 5, false)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.InvalidInput))
	})
}

func TestSamplerTrial(t *testing.T) {
	t.Run("Caches Repeated Suggestions", func(t *testing.T) {
		sampler := NewTPESampler(TPEConfig{Seed: 42})
		tr := newSamplerTrial(0, sampler)

		first, err := tr.SuggestCategorical("a", []interface{}{1, 2, 3, 4, 5})
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := tr.SuggestCategorical("a", []interface{}{1, 2, 3, 4, 5})
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("Rejects Empty Choices", func(t *testing.T) {
		tr := newSamplerTrial(0, NewTPESampler(TPEConfig{Seed: 42}))
		_, err := tr.SuggestCategorical("a", nil)
		require.Error(t, err)
	})

	t.Run("Rejects Inverted Bounds", func(t *testing.T) {
		tr := newSamplerTrial(0, NewTPESampler(TPEConfig{Seed: 42}))
		_, err := tr.SuggestInt("a", 5, 1, false)
		require.Error(t, err)
	})
}
