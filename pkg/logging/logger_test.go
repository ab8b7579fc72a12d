package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	ctx := context.Background()

	t.Run("Severity Filter", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(Config{
			Severity: WARN,
			Outputs:  []Output{NewConsoleOutput(false, WithWriter(&buf), WithColor(false))},
		})

		logger.Debug(ctx, "ignored")
		logger.Info(ctx, "ignored too")
		logger.Warn(ctx, "baseline has a high variance")
		logger.Error(ctx, "trial %d failed", 3)

		out := buf.String()
		assert.NotContains(t, out, "ignored")
		assert.Contains(t, out, "WARN")
		assert.Contains(t, out, "baseline has a high variance")
		assert.Contains(t, out, "trial 3 failed")
	})

	t.Run("Study ID From Context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(Config{
			Severity: INFO,
			Outputs:  []Output{NewConsoleOutput(false, WithWriter(&buf), WithColor(false))},
		})

		logger.Info(WithStudyID(ctx, "study-42"), "trial completed")
		assert.Contains(t, buf.String(), "[study=study-42]")
	})

	t.Run("Default Fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(Config{
			Severity:      INFO,
			Outputs:       []Output{NewConsoleOutput(false, WithWriter(&buf), WithColor(false))},
			DefaultFields: map[string]interface{}{"component": "tuner"},
		})

		logger.Info(ctx, "starting")
		assert.Contains(t, buf.String(), "component=tuner")
	})

	t.Run("Nil Context Is Tolerated", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(Config{
			Severity: INFO,
			Outputs:  []Output{NewConsoleOutput(false, WithWriter(&buf), WithColor(false))},
		})
		assert.NotPanics(t, func() { logger.Info(nil, "no context") })
		assert.Contains(t, buf.String(), "no context")
	})
}

func TestGetStudyID(t *testing.T) {
	ctx := WithStudyID(context.Background(), "study-1")
	id, ok := GetStudyID(ctx)
	require.True(t, ok)
	assert.Equal(t, "study-1", id)

	_, ok = GetStudyID(context.Background())
	assert.False(t, ok)
}

func TestGlobalLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	custom := NewLogger(Config{Severity: ERROR})
	SetLogger(custom)
	assert.Same(t, custom, GetLogger())
}
