package params

import (
	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

// Apply assigns a native value to the named field of the solver
// configuration. This is the single dispatch point that replaces reflective
// attribute setting: unknown names and kind mismatches are reported, never
// silently ignored.
func Apply(p *cpsat.SolverParameters, name string, v Value) error {
	switch name {
	case "max_time_in_seconds":
		return setFloat(&p.MaxTimeInSeconds, name, v)
	case "relative_gap_limit":
		return setFloat(&p.RelativeGapLimit, name, v)
	case "absolute_gap_limit":
		return setFloat(&p.AbsoluteGapLimit, name, v)
	case "preferred_variable_order":
		return setOptInt(&p.PreferredVariableOrder, name, v)
	case "use_erwa_heuristic":
		return setBool(&p.UseErwaHeuristic, name, v)
	case "also_bump_variables_in_conflict_reasons":
		return setBool(&p.AlsoBumpVariablesInConflictReasons, name, v)
	case "binary_minimization_algorithm":
		return setOptInt(&p.BinaryMinimizationAlgorithm, name, v)
	case "clause_cleanup_protection":
		return setOptInt(&p.ClauseCleanupProtection, name, v)
	case "presolve_bve_threshold":
		return setOptInt(&p.PresolveBveThreshold, name, v)
	case "max_presolve_iterations":
		return setOptInt(&p.MaxPresolveIterations, name, v)
	case "cp_model_probing_level":
		return setOptInt(&p.CpModelProbingLevel, name, v)
	case "presolve_probing_deterministic_time_limit":
		return setFloat(&p.PresolveProbingDeterministicTimeLimit, name, v)
	case "encode_complex_linear_constraint_with_integer":
		return setBool(&p.EncodeComplexLinearConstraintWithInteger, name, v)
	case "ignore_subsolvers":
		if v.Kind() != KindStringList {
			return kindError(name, KindStringList, v)
		}
		p.IgnoreSubsolvers = v.StringList()
		return nil
	case "search_branching":
		return setOptInt(&p.SearchBranching, name, v)
	case "repair_hint":
		return setBool(&p.RepairHint, name, v)
	case "use_lns_only":
		return setBool(&p.UseLnsOnly, name, v)
	case "use_lb_relax_lns":
		return setBool(&p.UseLbRelaxLns, name, v)
	case "use_objective_lb_search":
		return setBool(&p.UseObjectiveLbSearch, name, v)
	case "use_objective_shaving_search":
		return setBool(&p.UseObjectiveShavingSearch, name, v)
	case "optimize_with_core":
		return setBool(&p.OptimizeWithCore, name, v)
	case "feasibility_jump_linearization_level":
		return setOptInt(&p.FeasibilityJumpLinearizationLevel, name, v)
	case "fp_rounding":
		return setOptInt(&p.FpRounding, name, v)
	case "diversify_lns_params":
		return setBool(&p.DiversifyLnsParams, name, v)
	case "polish_lp_solution":
		return setBool(&p.PolishLpSolution, name, v)
	case "linearization_level":
		return setOptInt(&p.LinearizationLevel, name, v)
	case "add_objective_cut":
		return setBool(&p.AddObjectiveCut, name, v)
	case "cut_level":
		return setOptInt(&p.CutLevel, name, v)
	case "max_all_diff_cut_size":
		return setOptInt(&p.MaxAllDiffCutSize, name, v)
	case "symmetry_level":
		return setOptInt(&p.SymmetryLevel, name, v)
	default:
		return errors.WithFields(
			errors.New(errors.ParameterNotFound, "unknown solver parameter"),
			errors.Fields{"parameter": name},
		)
	}
}

// ApplyAssignment applies every entry of the assignment to the configuration.
func ApplyAssignment(p *cpsat.SolverParameters, a Assignment) error {
	for _, name := range a.Names() {
		if err := Apply(p, name, a[name]); err != nil {
			return err
		}
	}
	return nil
}

func setBool(dst *bool, name string, v Value) error {
	if v.Kind() != KindBool {
		return kindError(name, KindBool, v)
	}
	*dst = v.Bool()
	return nil
}

func setOptInt(dst **int, name string, v Value) error {
	if v.Kind() != KindInt {
		return kindError(name, KindInt, v)
	}
	n := v.Int()
	*dst = &n
	return nil
}

func setFloat(dst *float64, name string, v Value) error {
	if v.Kind() != KindFloat && v.Kind() != KindInt {
		return kindError(name, KindFloat, v)
	}
	*dst = v.Float()
	return nil
}

func kindError(name string, want ValueKind, got Value) error {
	return errors.WithFields(
		errors.New(errors.InvalidInput, "parameter value has wrong kind"),
		errors.Fields{"parameter": name, "want": want.String(), "got": got.Kind().String()},
	)
}
