package trial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTPESampler(t *testing.T) {
	t.Run("Default Configuration Values", func(t *testing.T) {
		s := NewTPESampler(TPEConfig{})
		assert.Equal(t, 0.25, s.gamma)
		assert.Equal(t, 10, s.nStartupTrials)
		assert.Equal(t, 1.0, s.priorWeight)
		assert.NotEqual(t, int64(0), s.seed)
		assert.NotNil(t, s.rng)
	})

	t.Run("Deterministic With Fixed Seed", func(t *testing.T) {
		a := NewTPESampler(TPEConfig{Seed: 42})
		b := NewTPESampler(TPEConfig{Seed: 42})
		choices := []interface{}{1, 2, 3, 4, 5}
		for i := 0; i < 20; i++ {
			assert.Equal(t, a.suggest("x", choices), b.suggest("x", choices))
		}
	})

	t.Run("Startup Phase Stays Within The Choices", func(t *testing.T) {
		s := NewTPESampler(TPEConfig{Seed: 7})
		choices := []interface{}{"a", "b", "c"}
		valid := map[interface{}]bool{"a": true, "b": true, "c": true}
		for i := 0; i < 10; i++ {
			assert.True(t, valid[s.suggest("x", choices)])
		}
	})

	t.Run("Favors Values From Good Observations", func(t *testing.T) {
		s := NewTPESampler(TPEConfig{Seed: 42, NStartupTrials: 1})
		choices := []interface{}{1, 2, 3, 4}
		// Value 3 scores high, everything else low.
		for i := 0; i < 40; i++ {
			for _, c := range choices {
				score := 0.0
				if c == 3 {
					score = 1.0
				}
				s.Observe(map[string]interface{}{"x": c}, score)
			}
		}

		counts := map[interface{}]int{}
		for i := 0; i < 200; i++ {
			counts[s.suggest("x", choices)]++
		}
		for _, c := range []interface{}{1, 2, 4} {
			assert.Greater(t, counts[3], counts[c],
				"value 3 should dominate over %v, got %v", c, counts)
		}
	})

	t.Run("Small Integer Domains Are Enumerated", func(t *testing.T) {
		s := NewTPESampler(TPEConfig{Seed: 42})
		for i := 0; i < 20; i++ {
			v := s.suggestInt("y", 2, 5, false)
			assert.GreaterOrEqual(t, v, 2)
			assert.LessOrEqual(t, v, 5)
		}
	})

	t.Run("Huge Integer Domains Sample Uniformly", func(t *testing.T) {
		s := NewTPESampler(TPEConfig{Seed: 42})
		v := s.suggestInt("z", 0, 1_000_000, false)
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 1_000_000)
		// The dimension is not registered as categorical.
		_, registered := s.space["z"]
		assert.False(t, registered)
	})

	t.Run("Unseen Dimensions In Observations Are Ignored", func(t *testing.T) {
		s := NewTPESampler(TPEConfig{Seed: 42, NStartupTrials: 1})
		s.Observe(map[string]interface{}{"other": 1}, 1.0)
		s.Observe(map[string]interface{}{"other": 2}, 0.0)
		choices := []interface{}{1, 2}
		v := s.suggest("x", choices)
		assert.Contains(t, choices, v)
	})
}
