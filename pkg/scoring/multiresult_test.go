package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/d-krupke/cpsat-autotune/pkg/params"
)

func TestMultiResult(t *testing.T) {
	newResult := func(scores ...float64) *MultiResult {
		r := newMultiResult(params.Assignment{})
		for _, s := range scores {
			r.append(s)
		}
		return r
	}

	t.Run("Statistics", func(t *testing.T) {
		r := newResult(10, 12, 11, 13, 10)
		assert.Equal(t, 5, r.Len())
		assert.InDelta(t, 11.2, r.Mean(), 1e-9)
		assert.Equal(t, 11.0, r.Median())
		assert.Equal(t, 10.0, r.Min())
		assert.Equal(t, 13.0, r.Max())
		assert.Equal(t, 3.0, r.Spread())
	})

	t.Run("Median Of Even Length", func(t *testing.T) {
		assert.Equal(t, 1.5, newResult(2, 1).Median())
	})

	t.Run("Population Std", func(t *testing.T) {
		assert.InDelta(t, 2.0, newResult(2, 4, 4, 4, 5, 5, 7, 9).Std(), 1e-9)
	})

	t.Run("Scores Returns A Copy", func(t *testing.T) {
		r := newResult(1, 2)
		s := r.Scores()
		s[0] = 99
		assert.Equal(t, []float64{1, 2}, r.Scores())
	})

	t.Run("Knockout Result Flattens To The Worst Value", func(t *testing.T) {
		r := newResult(5, 14)
		metric := NewMinObjective(30, 1000)
		flat := r.asKnockoutResult(metric, 10)
		assert.Equal(t, 10, flat.Len())
		for _, s := range flat.Scores() {
			assert.Equal(t, 14.0, s)
		}
		// The original sequence stays untouched.
		assert.Equal(t, []float64{5, 14}, r.Scores())
	})
}
