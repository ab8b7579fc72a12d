package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := Default()
		assert.Equal(t, 100, cfg.Tuning.Trials)
		assert.Equal(t, 10, cfg.Tuning.SamplesPerTrial)
		assert.Equal(t, 30, cfg.Tuning.SamplesForVerification)
		assert.Equal(t, 1, cfg.Tuning.Concurrency)
		assert.Equal(t, -1, cfg.Tuning.MaxDifferenceToDefault)
		assert.Equal(t, "INFO", cfg.Logging.Level)
	})

	t.Run("Load Keeps Defaults For Absent Fields", func(t *testing.T) {
		path := writeConfig(t, `
solver:
  binary: /usr/local/bin/cpsat-runner
  args: ["--quiet"]
tuning:
  trials: 25
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/usr/local/bin/cpsat-runner", cfg.Solver.Binary)
		assert.Equal(t, []string{"--quiet"}, cfg.Solver.Args)
		assert.Equal(t, 25, cfg.Tuning.Trials)
		assert.Equal(t, 10, cfg.Tuning.SamplesPerTrial)
		assert.Equal(t, "INFO", cfg.Logging.Level)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.InvalidInput))
	})

	t.Run("Malformed Yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "solver: [unclosed"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.InvalidInput))
	})

	t.Run("Missing Solver Binary Fails Validation", func(t *testing.T) {
		_, err := Load(writeConfig(t, "tuning:\n  trials: 5\n"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ValidationFailed))
	})

	t.Run("Invalid Log Level Fails Validation", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
solver:
  binary: /bin/solver
logging:
  level: LOUD
`))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ValidationFailed))
	})

	t.Run("Zero Trials Fail Validation", func(t *testing.T) {
		cfg := Default()
		cfg.Solver.Binary = "/bin/solver"
		cfg.Tuning.Trials = 0
		require.Error(t, cfg.Validate())
	})
}
