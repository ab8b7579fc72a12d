package errors

import (
	"context"
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(InvalidInput, "bad value")
		assert.Equal(t, "bad value", err.Error())

		var e *Error
		require.True(t, goerrors.As(err, &e))
		assert.Equal(t, InvalidInput, e.Code())
	})

	t.Run("Wrap", func(t *testing.T) {
		inner := goerrors.New("disk full")
		err := Wrap(inner, StorageFailed, "failed to persist trial")
		assert.Equal(t, "failed to persist trial: disk full", err.Error())
		assert.True(t, goerrors.Is(err, inner))

		assert.Nil(t, Wrap(nil, StorageFailed, "ignored"))
	})

	t.Run("With Fields", func(t *testing.T) {
		err := WithFields(New(SolveFailed, "solver process failed"), Fields{"binary": "/bin/solver"})
		assert.Contains(t, err.Error(), "binary=/bin/solver")

		var e *Error
		require.True(t, goerrors.As(err, &e))
		assert.Equal(t, SolveFailed, e.Code())
		assert.Equal(t, "/bin/solver", e.Fields()["binary"])

		merged := WithFields(err, Fields{"stderr": "oom"})
		require.True(t, goerrors.As(merged, &e))
		assert.Equal(t, "/bin/solver", e.Fields()["binary"])
		assert.Equal(t, "oom", e.Fields()["stderr"])
	})

	t.Run("With Fields On A Plain Error", func(t *testing.T) {
		err := WithFields(goerrors.New("plain"), Fields{"k": 1})
		var e *Error
		require.True(t, goerrors.As(err, &e))
		assert.Equal(t, Unknown, e.Code())
	})

	t.Run("Is Matches By Code", func(t *testing.T) {
		err := Wrap(New(TrialFailed, "trial 3 failed"), Unknown, "study aborted")
		assert.True(t, goerrors.Is(err, New(TrialFailed, "")))
		assert.False(t, goerrors.Is(err, New(InvalidInput, "")))
	})

	t.Run("IsCode Walks The Chain", func(t *testing.T) {
		err := Wrap(New(TrialFailed, "trial 3 failed"), Unknown, "study aborted")
		assert.True(t, IsCode(err, TrialFailed))
		assert.True(t, IsCode(err, Unknown))
		assert.False(t, IsCode(err, Canceled))
		assert.False(t, IsCode(nil, Canceled))
		assert.False(t, IsCode(goerrors.New("plain"), Unknown))
	})
}

func TestCheckContext(t *testing.T) {
	assert.NoError(t, CheckContext(context.Background(), "solve"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := CheckContext(ctx, "solve")
	require.Error(t, err)
	assert.True(t, IsCode(err, Canceled))
	assert.True(t, goerrors.Is(err, context.Canceled))
	assert.Contains(t, err.Error(), "solve canceled")
}
