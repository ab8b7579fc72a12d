package scoring

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/d-krupke/cpsat-autotune/pkg/params"
)

// MultiResult accumulates the observations for one normalized assignment.
// Scores are only ever appended, in the exact order the solve runs completed;
// derived statistics are computed on demand and always reflect the current
// sequence. The scorer owns the instance; callers must not mutate it.
type MultiResult struct {
	mu     sync.RWMutex
	params params.Assignment
	scores []float64
}

func newMultiResult(assignment params.Assignment) *MultiResult {
	return &MultiResult{params: assignment}
}

// Params returns the normalized assignment the scores belong to.
func (r *MultiResult) Params() params.Assignment {
	return r.params
}

// Scores returns a copy of the observation sequence.
func (r *MultiResult) Scores() []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]float64(nil), r.scores...)
}

// Len returns the number of observations.
func (r *MultiResult) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scores)
}

func (r *MultiResult) append(score float64) {
	r.mu.Lock()
	r.scores = append(r.scores, score)
	r.mu.Unlock()
}

// Mean returns the arithmetic mean of the observations.
func (r *MultiResult) Mean() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := 0.0
	for _, s := range r.scores {
		sum += s
	}
	return sum / float64(len(r.scores))
}

// Median returns the middle observation, averaging the two middle ones for
// even-length sequences.
func (r *MultiResult) Median() float64 {
	sorted := r.Scores()
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Std returns the population standard deviation.
func (r *MultiResult) Std() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mean := 0.0
	for _, s := range r.scores {
		mean += s
	}
	mean /= float64(len(r.scores))
	variance := 0.0
	for _, s := range r.scores {
		d := s - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(r.scores)))
}

// Min returns the numerically smallest observation.
func (r *MultiResult) Min() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	min := r.scores[0]
	for _, s := range r.scores[1:] {
		if s < min {
			min = s
		}
	}
	return min
}

// Max returns the numerically largest observation.
func (r *MultiResult) Max() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	max := r.scores[0]
	for _, s := range r.scores[1:] {
		if s > max {
			max = s
		}
	}
	return max
}

// Spread returns Max minus Min, a crude measure of run-to-run noise.
func (r *MultiResult) Spread() float64 {
	return r.Max() - r.Min()
}

// asKnockoutResult returns a detached result whose sequence is numRuns
// copies of the worst observed value, propagating "this assignment is bad"
// without further solver calls.
func (r *MultiResult) asKnockoutResult(m Metric, numRuns int) *MultiResult {
	worst := m.Worst(r.Scores())
	scores := make([]float64, numRuns)
	for i := range scores {
		scores[i] = worst
	}
	return &MultiResult{params: r.params, scores: scores}
}

func (r *MultiResult) String() string {
	return fmt.Sprintf("MultiResult(scores=%v, params=%s)", r.Scores(), r.params)
}
