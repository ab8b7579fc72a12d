package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

func TestParseDirection(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		d, err := ParseDirection("minimize")
		require.NoError(t, err)
		assert.Equal(t, Minimize, d)

		d, err = ParseDirection("maximize")
		require.NoError(t, err)
		assert.Equal(t, Maximize, d)
	})

	t.Run("Invalid Is Rejected Immediately", func(t *testing.T) {
		_, err := ParseDirection("sideways")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.InvalidDirection))
	})
}

func TestOrdering(t *testing.T) {
	values := []float64{3, 1, 2}

	t.Run("Minimize", func(t *testing.T) {
		o := ordering{direction: Minimize}
		assert.Equal(t, 1.0, o.Best(values))
		assert.Equal(t, 3.0, o.Worst(values))
		assert.Equal(t, Better, o.Compare(1, 2))
		assert.Equal(t, Worse, o.Compare(2, 1))
		assert.Equal(t, Equal, o.Compare(2, 2))
	})

	t.Run("Maximize", func(t *testing.T) {
		o := ordering{direction: Maximize}
		assert.Equal(t, 3.0, o.Best(values))
		assert.Equal(t, 1.0, o.Worst(values))
		assert.Equal(t, Better, o.Compare(2, 1))
		assert.Equal(t, Worse, o.Compare(1, 2))
	})
}
