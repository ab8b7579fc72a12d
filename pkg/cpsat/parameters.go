package cpsat

// SolverParameters is the native configuration block handed to a solve run.
// It mirrors the tunable subset of CP-SAT's sat_parameters plus the run
// controls the metrics set per invocation. Fields are explicit and typed;
// name-based assignment goes through params.Apply which dispatches to these
// fields without reflection.
//
// Integer fields are pointers: several have non-zero solver defaults with
// zero inside the tunable domain, so an applied zero must stay
// distinguishable from "not set" when the struct is marshaled for an
// external solver process. A nil field is omitted from the wire and the
// solver keeps its own default. Every tunable bool defaults to false, so
// plain bools with omitempty are exact.
type SolverParameters struct {
	// Run controls, set by the metric for every invocation.
	MaxTimeInSeconds float64 `json:"max_time_in_seconds"`
	RandomSeed       int64   `json:"random_seed"`
	RelativeGapLimit float64 `json:"relative_gap_limit,omitempty"`
	AbsoluteGapLimit float64 `json:"absolute_gap_limit,omitempty"`

	// Branching and polarity.
	PreferredVariableOrder             *int `json:"preferred_variable_order,omitempty"`
	UseErwaHeuristic                   bool `json:"use_erwa_heuristic,omitempty"`
	AlsoBumpVariablesInConflictReasons bool `json:"also_bump_variables_in_conflict_reasons,omitempty"`

	// Conflict analysis.
	BinaryMinimizationAlgorithm *int `json:"binary_minimization_algorithm,omitempty"`

	// Clause database management.
	ClauseCleanupProtection *int `json:"clause_cleanup_protection,omitempty"`

	// Presolve.
	PresolveBveThreshold                     *int    `json:"presolve_bve_threshold,omitempty"`
	MaxPresolveIterations                    *int    `json:"max_presolve_iterations,omitempty"`
	CpModelProbingLevel                      *int    `json:"cp_model_probing_level,omitempty"`
	PresolveProbingDeterministicTimeLimit    float64 `json:"presolve_probing_deterministic_time_limit,omitempty"`
	EncodeComplexLinearConstraintWithInteger bool    `json:"encode_complex_linear_constraint_with_integer,omitempty"`

	// Multithread.
	IgnoreSubsolvers []string `json:"ignore_subsolvers,omitempty"`

	// Constraint programming search.
	SearchBranching                   *int `json:"search_branching,omitempty"`
	RepairHint                        bool `json:"repair_hint,omitempty"`
	UseLnsOnly                        bool `json:"use_lns_only,omitempty"`
	UseLbRelaxLns                     bool `json:"use_lb_relax_lns,omitempty"`
	UseObjectiveLbSearch              bool `json:"use_objective_lb_search,omitempty"`
	UseObjectiveShavingSearch         bool `json:"use_objective_shaving_search,omitempty"`
	OptimizeWithCore                  bool `json:"optimize_with_core,omitempty"`
	FeasibilityJumpLinearizationLevel *int `json:"feasibility_jump_linearization_level,omitempty"`
	FpRounding                        *int `json:"fp_rounding,omitempty"`
	DiversifyLnsParams                bool `json:"diversify_lns_params,omitempty"`
	PolishLpSolution                  bool `json:"polish_lp_solution,omitempty"`

	// Linear programming relaxation.
	LinearizationLevel *int `json:"linearization_level,omitempty"`
	AddObjectiveCut    bool `json:"add_objective_cut,omitempty"`
	CutLevel           *int `json:"cut_level,omitempty"`
	MaxAllDiffCutSize  *int `json:"max_all_diff_cut_size,omitempty"`
	SymmetryLevel      *int `json:"symmetry_level,omitempty"`
}

// IntValue dereferences an optional integer field, zero when unset.
func IntValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// Clone returns a deep copy, including the subsolver list and the optional
// integer fields.
func (p SolverParameters) Clone() SolverParameters {
	out := p
	if p.IgnoreSubsolvers != nil {
		out.IgnoreSubsolvers = append([]string(nil), p.IgnoreSubsolvers...)
	}
	for _, f := range []**int{
		&out.PreferredVariableOrder,
		&out.BinaryMinimizationAlgorithm,
		&out.ClauseCleanupProtection,
		&out.PresolveBveThreshold,
		&out.MaxPresolveIterations,
		&out.CpModelProbingLevel,
		&out.SearchBranching,
		&out.FeasibilityJumpLinearizationLevel,
		&out.FpRounding,
		&out.LinearizationLevel,
		&out.CutLevel,
		&out.MaxAllDiffCutSize,
		&out.SymmetryLevel,
	} {
		if *f != nil {
			v := **f
			*f = &v
		}
	}
	return out
}
