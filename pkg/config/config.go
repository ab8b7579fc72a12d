// Package config holds the yaml-loadable configuration of the tuning CLI.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

// Config is the complete configuration of a tuning run.
type Config struct {
	// Solver configuration
	Solver SolverConfig `yaml:"solver" validate:"required"`

	// Tuning configuration
	Tuning TuningConfig `yaml:"tuning,omitempty"`

	// Storage configuration
	Storage StorageConfig `yaml:"storage,omitempty"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// SolverConfig describes how to invoke the external solver binary.
type SolverConfig struct {
	// Path to the solver executable
	Binary string `yaml:"binary" validate:"required"`

	// Extra arguments passed before the model path
	Args []string `yaml:"args,omitempty"`
}

// TuningConfig holds the knobs of the tuning loop.
type TuningConfig struct {
	// Number of trials in the search
	Trials int `yaml:"trials" validate:"min=1"`

	// Solve runs per candidate trial
	SamplesPerTrial int `yaml:"samples_per_trial" validate:"min=1"`

	// Solve runs for the baseline and for verifying candidates
	SamplesForVerification int `yaml:"samples_for_verification" validate:"min=1"`

	// Trials evaluated in parallel
	Concurrency int `yaml:"concurrency" validate:"min=1"`

	// Maximum number of parameters a trial may change; negative disables
	MaxDifferenceToDefault int `yaml:"max_difference_to_default"`

	// Seed for deterministic sampling; 0 picks a fresh seed
	Seed int64 `yaml:"seed" validate:"min=0"`
}

// StorageConfig configures the optional trial journal.
type StorageConfig struct {
	// Path of the SQLite journal file; empty disables journaling
	JournalPath string `yaml:"journal_path,omitempty"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	// One of DEBUG, INFO, WARN, ERROR
	Level string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`

	// Colorize console output
	Color bool `yaml:"color"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Tuning: TuningConfig{
			Trials:                 100,
			SamplesPerTrial:        10,
			SamplesForVerification: 30,
			Concurrency:            1,
			MaxDifferenceToDefault: -1,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// Load reads and validates a configuration file. Fields absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to read config file")
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to parse config file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, errors.ValidationFailed, "invalid configuration")
	}
	return nil
}
