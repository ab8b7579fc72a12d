// Package scoring turns repeated noisy solver runs into statistically usable
// scores: pluggable metrics convert raw outcomes into scalars, and a caching
// scorer memoizes repeated evaluations with early-abort knockout logic.
package scoring

import (
	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

// Direction indicates whether higher or lower scores are better.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

func (d Direction) String() string {
	if d == Maximize {
		return "maximize"
	}
	return "minimize"
}

// ParseDirection converts "minimize" or "maximize" into a Direction. Any
// other string is rejected immediately.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "minimize":
		return Minimize, nil
	case "maximize":
		return Maximize, nil
	default:
		return Minimize, errors.WithFields(
			errors.New(errors.InvalidDirection, "direction must be either 'minimize' or 'maximize'"),
			errors.Fields{"direction": s},
		)
	}
}

// Comparison is the direction-aware result of comparing two scores.
type Comparison int

const (
	Worse Comparison = iota
	Equal
	Better
)

func (c Comparison) String() string {
	return [...]string{"worse", "equal", "better"}[c]
}

// Metric describes how good a single solve run was. The direction is fixed
// at construction and never mutated. Configure stamps the metric's run
// controls (time budget, gap limits) onto the parameters of each run;
// Score converts the raw outcome into a scalar; KnockoutScore is the
// fallback used when the solver times out or cannot prove the criterion.
//
// Callers compare scores only through Compare/Best/Worst, never with raw
// numeric comparison.
type Metric interface {
	Direction() Direction
	Name() string
	Configure(p *cpsat.SolverParameters)
	Score(out cpsat.Outcome) float64
	KnockoutScore() float64

	Compare(a, b float64) Comparison
	Best(values []float64) float64
	Worst(values []float64) float64
}

// ordering implements the direction-aware comparison operations shared by
// all metrics.
type ordering struct {
	direction Direction
}

func (o ordering) Direction() Direction { return o.direction }

// Compare returns how a relates to b given the ordering's direction.
func (o ordering) Compare(a, b float64) Comparison {
	if a == b {
		return Equal
	}
	if o.direction == Maximize {
		if a > b {
			return Better
		}
		return Worse
	}
	if a < b {
		return Better
	}
	return Worse
}

// Best returns the best value in the collection. Panics on an empty slice;
// the scorer never produces one.
func (o ordering) Best(values []float64) float64 {
	best := values[0]
	for _, v := range values[1:] {
		if o.Compare(v, best) == Better {
			best = v
		}
	}
	return best
}

// Worst returns the worst value in the collection.
func (o ordering) Worst(values []float64) float64 {
	worst := values[0]
	for _, v := range values[1:] {
		if o.Compare(v, worst) == Worse {
			worst = v
		}
	}
	return worst
}
