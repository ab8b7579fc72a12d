package params

import (
	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

// The tunable CP-SAT parameters. Check the upstream parameter definitions
// for the full story behind each knob:
// https://github.com/google/or-tools/blob/stable/ortools/sat/sat_parameters.proto

func must(d *Descriptor, err error) *Descriptor {
	if err != nil {
		panic(err)
	}
	return d
}

func orderedInts(values ...int) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = Int(v)
	}
	return out
}

func orderedFloats(values ...float64) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = Float(v)
	}
	return out
}

var catalog = buildCatalog()

func buildCatalog() []*Descriptor {
	return []*Descriptor{
		// ===============================================================
		// Branching and polarity
		// ===============================================================
		must(NewOrderedList("preferred_variable_order", 0, orderedInts(0, 1, 2),
			WithDescription("Initial order in which variables are selected during the search: 0 in order of definition, 1 in reverse order, 2 random. Frequent restarts make this mostly an initial bias."))),
		NewBool("use_erwa_heuristic", false,
			WithDescription("Enables the Exponential Recency Weighted Average branching heuristic (Liang et al., SAT 2016), which treats variable selection as maximizing the clause learning rate.")),
		NewBool("also_bump_variables_in_conflict_reasons", false,
			WithDescription("Also bump the activity of variables appearing in conflict reasons, prioritizing them in future branching decisions.")),
		// ===============================================================
		// Conflict analysis
		// ===============================================================
		must(NewCategory("binary_minimization_algorithm", 1, []int{0, 1, 2, 3, 4},
			WithDescription("Algorithm used for binary clause minimization during conflict analysis: 0 none, 1 first, 2 with reachability, 3 experimental, 4 first with transitive reduction."))),
		// ===============================================================
		// Clause database management
		// ===============================================================
		must(NewCategory("clause_cleanup_protection", 0, []int{0, 1, 2},
			WithDescription("Protection of learned clauses against cleanup: 0 none, 1 always, 2 based on LBD."))),
		// ===============================================================
		// Presolve
		// ===============================================================
		must(NewOrderedList("presolve_bve_threshold", 1, orderedInts(100, 500, 1000),
			WithDescription("Threshold for bounded variable elimination during presolve. Lower thresholds speed up presolve at the cost of less thorough simplification."))),
		must(NewOrderedList("max_presolve_iterations", 2, orderedInts(1, 2, 3, 5, 10),
			WithDescription("Maximum number of presolve iterations. More iterations simplify the problem further but lengthen the presolve phase."))),
		must(NewOrderedList("cp_model_probing_level", 2, orderedInts(0, 1, 2),
			WithDescription("Intensity of probing during presolve, where variables are temporarily fixed to infer more information about the problem."))),
		must(NewOrderedList("presolve_probing_deterministic_time_limit", 4, orderedFloats(0.1, 1.0, 5.0, 10.0, 30.0),
			WithDescription("Deterministic time limit for probing during presolve, bounding how long presolve may spend before the main search starts."))),
		NewBool("encode_complex_linear_constraint_with_integer", false,
			WithDescription("Introduces a slack variable with a domain equal to the right hand side for complex linear constraints.")),
		// ===============================================================
		// Multithread
		// ===============================================================
		must(NewMultiSelect("ignore_subsolvers", nil,
			[]string{
				"default_lp",
				"fixed",
				"no_lp",
				"max_lp",
				"pseudo_costs",
				"reduced_costs",
				"quick_restart",
				"quick_restart_no_lp",
				"lb_tree_search",
				"probing",
			},
			WithDescription("Subsolvers to exclude from the portfolio. Removing subsolvers frees resources for the rest, but risks dropping a strategy the instance needs."))),
		// ===============================================================
		// Constraint programming parameters
		// ===============================================================
		must(NewCategory("search_branching", 0, []int{0, 1, 2, 3, 4, 5, 6, 7, 8},
			WithDescription("Branching strategy: 0 automatic, 1 fixed, 2 portfolio, 3 LP based, 4 pseudo cost, 5 portfolio with quick restart, 6 hint, 7 partial fixed, 8 randomized."))),
		NewBool("repair_hint", false,
			WithDescription("Attempt to repair a provided solution hint before switching to a general search strategy.")),
		NewBool("use_lns_only", false,
			WithDescription("Use only Large Neighborhood Search heuristics without a full global search. Useful when quick improvements matter more than proofs.")),
		NewBool("use_lb_relax_lns", false,
			WithDescription("Neighborhood generation based on local branching combined with LP relaxation (Huang et al., 2023).")),
		NewBool("use_objective_lb_search", false,
			WithDescription("Start the search by focusing on improving the objective lower bound."),
			WithApplicability(HasObjective)),
		NewBool("use_objective_shaving_search", false,
			WithDescription("Aggressively restrict the objective value range to shrink the search space."),
			WithApplicability(HasObjective)),
		NewBool("optimize_with_core", false,
			WithDescription("Use a core-based approach when trying to improve the bound."),
			WithApplicability(HasObjective)),
		must(NewInt("feasibility_jump_linearization_level", 2, 0, 2, false,
			WithDescription("Linearization level for feasibility jump."))),
		must(NewCategory("fp_rounding", 2, []int{0, 1, 3, 2},
			WithDescription("Rounding method of the feasibility pump: 0 nearest integer, 1 lock based, 2 propagation assisted, 3 active lock based."))),
		NewBool("diversify_lns_params", false,
			WithDescription("Use varied parameter settings across Large Neighborhood Search workers to cover more of the solution space.")),
		NewBool("polish_lp_solution", false,
			WithDescription("Polishing step that refines the LP solution. Expensive but can help for some problems.")),
		// ===============================================================
		// Linear programming relaxation
		// ===============================================================
		must(NewOrderedList("linearization_level", 1, orderedInts(0, 1, 2),
			WithDescription("Extent to which integer constraints are turned into an LP relaxation: 0 none, 1 basic, 2 comprehensive. Tighter relaxations cost model complexity."))),
		NewBool("add_objective_cut", false,
			WithDescription("Add cuts based on the fractional objective value to narrow the feasible region."),
			WithApplicability(HasObjective)),
		must(NewInt("cut_level", 1, 0, 2, false,
			WithDescription("Effort invested in generating cutting planes."))),
		must(NewOrderedList("max_all_diff_cut_size", 1, orderedInts(32, 64, 128),
			WithDescription("Size limit for all_different constraints considered when generating cuts."))),
		must(NewOrderedList("symmetry_level", 2, orderedInts(0, 1, 2),
			WithDescription("Symmetry detection and exploitation: 0 off, 1 presolve only, 2 presolve and dynamic symmetry breaking during search."))),
	}
}

// Catalog returns the full descriptor table. The slice is shared; callers
// must not mutate it.
func Catalog() []*Descriptor {
	return catalog
}

// ByName looks up a descriptor in the catalog.
func ByName(name string) (*Descriptor, error) {
	for _, d := range catalog {
		if d.name == name {
			return d, nil
		}
	}
	return nil, errors.WithFields(
		errors.New(errors.ParameterNotFound, "parameter not found"),
		errors.Fields{"parameter": name},
	)
}
