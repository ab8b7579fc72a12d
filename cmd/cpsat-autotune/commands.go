package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/d-krupke/cpsat-autotune/pkg/config"
	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
	"github.com/d-krupke/cpsat-autotune/pkg/logging"
	"github.com/d-krupke/cpsat-autotune/pkg/scoring"
	"github.com/d-krupke/cpsat-autotune/pkg/trial"
	"github.com/d-krupke/cpsat-autotune/pkg/tune"
)

var (
	flagConfig   string
	flagSolver   string
	flagFeatures []string

	flagMaxTime        float64
	flagRelativeGap    float64
	flagObjForTimeout  float64
	flagDirection      string
	flagGapLimit       float64
	flagTrials         int
	flagSamplesTrial   int
	flagSamplesVerify  int
	flagConcurrency    int
	flagJournal        string
	flagSeed           int64
	flagMaxDiffDefault int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a yaml configuration file.")
	rootCmd.PersistentFlags().StringVar(&flagSolver, "solver", "", "Path to the solver binary invoked for each run.")
	rootCmd.PersistentFlags().StringSliceVar(&flagFeatures, "feature", nil, "Structural feature of the model (objective, no_overlap, no_overlap_2d); repeatable.")
	rootCmd.PersistentFlags().IntVar(&flagTrials, "n-trials", 100, "Number of trials to execute in the tuning process.")
	rootCmd.PersistentFlags().IntVar(&flagSamplesTrial, "n-samples-trial", 10, "Number of samples to take in each trial.")
	rootCmd.PersistentFlags().IntVar(&flagSamplesVerify, "n-samples-verification", 30, "Number of samples for verifying parameters.")
	rootCmd.PersistentFlags().IntVar(&flagConcurrency, "concurrency", 1, "Number of trials to evaluate in parallel.")
	rootCmd.PersistentFlags().StringVar(&flagJournal, "journal", "", "Path of a SQLite file persisting the study's trials.")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Seed for deterministic sampling; 0 picks a fresh seed.")
	rootCmd.PersistentFlags().IntVar(&flagMaxDiffDefault, "max-difference-to-default", -1, "Prune trials changing more than this many parameters; negative disables.")

	timeCmd.Flags().Float64Var(&flagMaxTime, "max-time", 0, "Maximum time allowed for each solve operation in seconds.")
	timeCmd.Flags().Float64Var(&flagRelativeGap, "relative-gap", 0, "Relative optimality gap for considering a solution as optimal.")
	_ = timeCmd.MarkFlagRequired("max-time")

	qualityCmd.Flags().Float64Var(&flagMaxTime, "max-time", 0, "Time limit for each solve operation in seconds.")
	qualityCmd.Flags().Float64Var(&flagObjForTimeout, "obj-for-timeout", 0, "Objective value to score if the solver finds no solution.")
	qualityCmd.Flags().StringVar(&flagDirection, "direction", "", "Direction to optimize the objective value (maximize or minimize).")
	_ = qualityCmd.MarkFlagRequired("max-time")
	_ = qualityCmd.MarkFlagRequired("obj-for-timeout")
	_ = qualityCmd.MarkFlagRequired("direction")

	gapCmd.Flags().Float64Var(&flagMaxTime, "max-time", 0, "Time limit for each solve operation in seconds.")
	gapCmd.Flags().Float64Var(&flagGapLimit, "limit", 10, "Cap for the gap score.")
	_ = gapCmd.MarkFlagRequired("max-time")

	rootCmd.AddCommand(timeCmd, qualityCmd, gapCmd)
}

var timeCmd = &cobra.Command{
	Use:   "time <model-path>",
	Short: "Minimize the time required to find an optimal solution",
	Long: `Tune the hyperparameters of a CP-SAT model to minimize the time required
to find an optimal solution. Set --max-time to a value sufficient for the
default parameters to reach optimality, but not much higher, as it heavily
influences the runtime of the tuning process.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTuning(cmd.Context(), args[0], func(ctx context.Context, s *session) (*tune.EvaluationResult, error) {
			opts := s.options
			if flagRelativeGap > 0 {
				opts = append(opts, tune.WithRelativeGap(flagRelativeGap))
			}
			return tune.TuneTimeToOptimal(ctx, s.model, s.solver, flagMaxTime, opts...)
		})
	},
}

var qualityCmd = &cobra.Command{
	Use:   "quality <model-path>",
	Short: "Optimize solution quality within a time limit",
	Long: `Tune the hyperparameters of a CP-SAT model to maximize or minimize the
objective value reachable within a time limit. The limit should be below the
time the default parameters need to find the optimal solution;
--obj-for-timeout is scored when a run finds no solution at all and should be
worse than a trivial solution.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		direction, err := scoring.ParseDirection(flagDirection)
		if err != nil {
			return err
		}
		return runTuning(cmd.Context(), args[0], func(ctx context.Context, s *session) (*tune.EvaluationResult, error) {
			return tune.TuneForQualityWithinTimelimit(ctx, s.model, s.solver, flagMaxTime, flagObjForTimeout, direction, s.options...)
		})
	},
}

var gapCmd = &cobra.Command{
	Use:   "gap <model-path>",
	Short: "Minimize the optimality gap within a time limit",
	Long: `Tune the hyperparameters of a CP-SAT model to minimize the remaining
optimality gap within a time limit. Useful for complex models where finding
the optimal solution within the limit is not feasible, but some guarantee on
the solution quality is still wanted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTuning(cmd.Context(), args[0], func(ctx context.Context, s *session) (*tune.EvaluationResult, error) {
			opts := append(s.options, tune.WithGapLimit(flagGapLimit))
			return tune.TuneForGapWithinTimelimit(ctx, s.model, s.solver, flagMaxTime, opts...)
		})
	},
}

// session bundles what every subcommand needs after flag and config
// resolution.
type session struct {
	model   *cpsat.Model
	solver  cpsat.Solver
	options []tune.Option
	journal *trial.Journal
	tuning  config.TuningConfig
}

func runTuning(ctx context.Context, modelPath string, f func(context.Context, *session) (*tune.EvaluationResult, error)) error {
	s, logger, err := newSession(modelPath)
	if err != nil {
		return err
	}
	defer s.journal.Close()

	estimateDuration(ctx, logger, flagMaxTime, s.tuning.Trials, s.tuning.SamplesPerTrial)

	result, err := f(ctx, s)
	if err != nil {
		return err
	}
	fmt.Printf("Best parameters: %s\n", result.OptimizedParams)
	return nil
}

func newSession(modelPath string) (*session, *logging.Logger, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg.Logging)
	logging.SetLogger(logger)

	if _, err := os.Stat(modelPath); err != nil {
		return nil, nil, fmt.Errorf("model file %q not found: %w", modelPath, err)
	}

	features := make([]cpsat.Feature, len(flagFeatures))
	for i, f := range flagFeatures {
		features[i] = cpsat.Feature(f)
	}

	s := &session{
		model:  cpsat.NewModel(modelPath, features...),
		solver: cpsat.NewCommandSolver(cfg.Solver.Binary, cfg.Solver.Args...),
		tuning: cfg.Tuning,
		options: []tune.Option{
			tune.WithTrials(cfg.Tuning.Trials),
			tune.WithSamplesPerTrial(cfg.Tuning.SamplesPerTrial),
			tune.WithSamplesForVerification(cfg.Tuning.SamplesForVerification),
			tune.WithConcurrency(cfg.Tuning.Concurrency),
			tune.WithMaxDifferenceToDefault(cfg.Tuning.MaxDifferenceToDefault),
			tune.WithLogger(logger),
			tune.WithReport(os.Stdout),
		},
	}
	if cfg.Tuning.Seed > 0 {
		s.options = append(s.options, tune.WithSeed(cfg.Tuning.Seed))
	}
	if cfg.Storage.JournalPath != "" {
		journal, err := trial.OpenJournal(cfg.Storage.JournalPath)
		if err != nil {
			return nil, nil, err
		}
		s.journal = journal
		s.options = append(s.options, tune.WithJournal(journal))
	}
	return s, logger, nil
}

// applyFlags overlays explicitly set command-line flags onto the loaded
// configuration. Flags win over the file so a config can serve as a shared
// baseline; untouched flags keep the file's values.
func applyFlags(cfg *config.Config) {
	flags := rootCmd.PersistentFlags()
	if flagSolver != "" {
		cfg.Solver.Binary = flagSolver
	}
	if flags.Changed("n-trials") {
		cfg.Tuning.Trials = flagTrials
	}
	if flags.Changed("n-samples-trial") {
		cfg.Tuning.SamplesPerTrial = flagSamplesTrial
	}
	if flags.Changed("n-samples-verification") {
		cfg.Tuning.SamplesForVerification = flagSamplesVerify
	}
	if flags.Changed("concurrency") {
		cfg.Tuning.Concurrency = flagConcurrency
	}
	if flags.Changed("max-difference-to-default") {
		cfg.Tuning.MaxDifferenceToDefault = flagMaxDiffDefault
	}
	if flagSeed > 0 {
		cfg.Tuning.Seed = flagSeed
	}
	if flagJournal != "" {
		cfg.Storage.JournalPath = flagJournal
	}
}

func newLogger(cfg config.LoggingConfig) *logging.Logger {
	severity := logging.INFO
	switch cfg.Level {
	case "DEBUG":
		severity = logging.DEBUG
	case "WARN":
		severity = logging.WARN
	case "ERROR":
		severity = logging.ERROR
	}
	return logging.NewLogger(logging.Config{
		Severity: severity,
		Outputs:  []logging.Output{logging.NewConsoleOutput(true, logging.WithColor(cfg.Color))},
	})
}

// estimateDuration logs the worst-case wall time of the tuning process. The
// knockout and caching shortcuts usually reduce it drastically.
func estimateDuration(ctx context.Context, logger *logging.Logger, maxTime float64, nTrials, nSamples int) {
	expected := maxTime * float64(nSamples) * float64(nTrials)
	hours := int(expected) / 3600
	minutes := (int(expected) % 3600) / 60
	if hours > 0 {
		logger.Info(ctx, "the expected time for the tuning process is %d hours and %d minutes", hours, minutes)
	} else {
		logger.Info(ctx, "the expected time for the tuning process is %d minutes", minutes)
	}
	logger.Info(ctx, "the tuning algorithm will try to take shortcuts whenever possible, potentially reducing the time drastically")
	logger.Info(ctx, "to reduce the expected time, lower the number of trials, the samples per trial, or the time budget per solve; this may affect the reliability of the result")
}
