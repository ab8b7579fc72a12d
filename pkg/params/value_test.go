package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	t.Run("Kinds And Payloads", func(t *testing.T) {
		assert.Equal(t, KindBool, Bool(true).Kind())
		assert.True(t, Bool(true).Bool())
		assert.Equal(t, KindInt, Int(7).Kind())
		assert.Equal(t, 7, Int(7).Int())
		assert.Equal(t, KindFloat, Float(0.5).Kind())
		assert.Equal(t, 0.5, Float(0.5).Float())
		assert.Equal(t, KindStringList, StringList("a").Kind())
	})

	t.Run("Float Widens Int", func(t *testing.T) {
		assert.Equal(t, 3.0, Int(3).Float())
	})

	t.Run("String List Is Order Independent", func(t *testing.T) {
		a := StringList("quick_restart", "core", "lb_tree_search")
		b := StringList("core", "lb_tree_search", "quick_restart")
		assert.True(t, a.Equal(b))
		assert.Equal(t, a.String(), b.String())
	})

	t.Run("Equal Distinguishes Kinds", func(t *testing.T) {
		assert.False(t, Int(1).Equal(Float(1)))
		assert.False(t, Bool(false).Equal(Int(0)))
		assert.False(t, StringList("a").Equal(StringList("a", "b")))
	})

	t.Run("Canonical Strings", func(t *testing.T) {
		assert.Equal(t, "true", Bool(true).String())
		assert.Equal(t, "42", Int(42).String())
		assert.Equal(t, "0.25", Float(0.25).String())
		assert.Equal(t, "[a,b]", StringList("b", "a").String())
	})
}
