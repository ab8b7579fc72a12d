package scoring

import (
	"math"

	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
)

// MaxObjective maximizes the objective value within a time limit. It does
// not care about the solver status beyond whether a feasible solution was
// found; a run without any solution scores the caller-supplied timeout
// value, which should be worse than a trivial solution.
type MaxObjective struct {
	ordering
	maxTimeInSeconds float64
	objForTimeout    float64
}

func NewMaxObjective(maxTimeInSeconds, objForTimeout float64) *MaxObjective {
	return &MaxObjective{
		ordering:         ordering{direction: Maximize},
		maxTimeInSeconds: maxTimeInSeconds,
		objForTimeout:    objForTimeout,
	}
}

func (m *MaxObjective) Configure(p *cpsat.SolverParameters) {
	p.MaxTimeInSeconds = m.maxTimeInSeconds
}

func (m *MaxObjective) Score(out cpsat.Outcome) float64 {
	if out.HasSolution() && out.ObjectiveValue != nil {
		return *out.ObjectiveValue
	}
	return m.objForTimeout
}

func (m *MaxObjective) KnockoutScore() float64 { return m.objForTimeout }

func (m *MaxObjective) Name() string { return "Objective Value" }

// MinObjective is like MaxObjective but minimizes the objective value within
// the time limit.
type MinObjective struct {
	ordering
	maxTimeInSeconds float64
	objForTimeout    float64
}

func NewMinObjective(maxTimeInSeconds, objForTimeout float64) *MinObjective {
	return &MinObjective{
		ordering:         ordering{direction: Minimize},
		maxTimeInSeconds: maxTimeInSeconds,
		objForTimeout:    objForTimeout,
	}
}

func (m *MinObjective) Configure(p *cpsat.SolverParameters) {
	p.MaxTimeInSeconds = m.maxTimeInSeconds
}

func (m *MinObjective) Score(out cpsat.Outcome) float64 {
	if out.HasSolution() && out.ObjectiveValue != nil {
		return *out.ObjectiveValue
	}
	return m.objForTimeout
}

func (m *MinObjective) KnockoutScore() float64 { return m.objForTimeout }

func (m *MinObjective) Name() string { return "Objective Value" }

// MinTimeToOptimal minimizes the time to a proven optimal solution. A run
// that does not prove optimality within the budget scores a PAR-k penalized
// value of par_multiplier times the budget, so a cutoff run is always
// comparable and worse than any successful run. Raising the gap limits makes
// the solver accept near-optimal solutions as optimal.
type MinTimeToOptimal struct {
	ordering
	maxTimeInSeconds float64
	relativeGapLimit float64
	absoluteGapLimit float64
	parMultiplier    float64
}

// MinTimeToOptimalOption configures optional gap limits and the PAR
// multiplier.
type MinTimeToOptimalOption func(*MinTimeToOptimal)

func WithRelativeGapLimit(limit float64) MinTimeToOptimalOption {
	return func(m *MinTimeToOptimal) { m.relativeGapLimit = limit }
}

func WithAbsoluteGapLimit(limit float64) MinTimeToOptimalOption {
	return func(m *MinTimeToOptimal) { m.absoluteGapLimit = limit }
}

func WithParMultiplier(k float64) MinTimeToOptimalOption {
	return func(m *MinTimeToOptimal) { m.parMultiplier = k }
}

func NewMinTimeToOptimal(maxTimeInSeconds float64, opts ...MinTimeToOptimalOption) *MinTimeToOptimal {
	m := &MinTimeToOptimal{
		ordering:         ordering{direction: Minimize},
		maxTimeInSeconds: maxTimeInSeconds,
		parMultiplier:    10,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MinTimeToOptimal) Configure(p *cpsat.SolverParameters) {
	p.MaxTimeInSeconds = m.maxTimeInSeconds
	if m.relativeGapLimit > 0 {
		p.RelativeGapLimit = m.relativeGapLimit
	}
	if m.absoluteGapLimit > 0 {
		p.AbsoluteGapLimit = m.absoluteGapLimit
	}
}

func (m *MinTimeToOptimal) Score(out cpsat.Outcome) float64 {
	if out.Status == cpsat.StatusOptimal {
		return out.WallTime
	}
	return m.maxTimeInSeconds * m.parMultiplier
}

func (m *MinTimeToOptimal) KnockoutScore() float64 {
	return m.maxTimeInSeconds * m.parMultiplier
}

func (m *MinTimeToOptimal) Name() string { return "Time to Optimal" }

// MinGapWithinTimelimit minimizes the remaining relative optimality gap at
// the end of the time limit, capped at a caller-supplied limit. A run
// without a solution or bound scores the cap. Good for models that have no
// chance of being solved to optimality within the budget.
type MinGapWithinTimelimit struct {
	ordering
	maxTimeInSeconds float64
	limit            float64
}

func NewMinGapWithinTimelimit(maxTimeInSeconds, limit float64) *MinGapWithinTimelimit {
	return &MinGapWithinTimelimit{
		ordering:         ordering{direction: Minimize},
		maxTimeInSeconds: maxTimeInSeconds,
		limit:            limit,
	}
}

func (m *MinGapWithinTimelimit) Configure(p *cpsat.SolverParameters) {
	p.MaxTimeInSeconds = m.maxTimeInSeconds
}

func (m *MinGapWithinTimelimit) Score(out cpsat.Outcome) float64 {
	if !out.HasSolution() || out.ObjectiveValue == nil || out.BestBound == nil {
		return m.limit
	}
	obj := *out.ObjectiveValue
	// Denominator floored at 1 to guard against division by zero.
	gap := math.Abs(obj-*out.BestBound) / math.Max(1, math.Abs(obj))
	return math.Min(m.limit, gap)
}

func (m *MinGapWithinTimelimit) KnockoutScore() float64 { return m.limit }

func (m *MinGapWithinTimelimit) Name() string { return "Relative Gap" }

// MinGapIntegralWithinTimelimit minimizes the time-integrated optimality gap
// reported by the solver, capped at a caller-supplied limit. The integral
// rewards finding good solutions early, not just at the deadline.
type MinGapIntegralWithinTimelimit struct {
	ordering
	maxTimeInSeconds float64
	limit            float64
}

func NewMinGapIntegralWithinTimelimit(maxTimeInSeconds, limit float64) *MinGapIntegralWithinTimelimit {
	return &MinGapIntegralWithinTimelimit{
		ordering:         ordering{direction: Minimize},
		maxTimeInSeconds: maxTimeInSeconds,
		limit:            limit,
	}
}

func (m *MinGapIntegralWithinTimelimit) Configure(p *cpsat.SolverParameters) {
	p.MaxTimeInSeconds = m.maxTimeInSeconds
}

func (m *MinGapIntegralWithinTimelimit) Score(out cpsat.Outcome) float64 {
	if out.GapIntegral == nil {
		return m.limit
	}
	return math.Min(m.limit, *out.GapIntegral)
}

func (m *MinGapIntegralWithinTimelimit) KnockoutScore() float64 { return m.limit }

func (m *MinGapIntegralWithinTimelimit) Name() string { return "Gap Integral" }
