package trial

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// TPEConfig contains configuration for the Tree-structured Parzen Estimator
// sampler.
type TPEConfig struct {
	// Gamma is the percentile split between good and bad observations (default: 0.25)
	Gamma float64
	// Seed is used for random number generation
	Seed int64
	// NStartupTrials is the number of purely random trials before TPE kicks in
	NStartupTrials int
	// PriorWeight is the Laplace smoothing weight
	PriorWeight float64
}

// TPESampler suggests values for named dimensions using the Tree-structured
// Parzen Estimator: completed observations are split into a good and a bad
// fraction by score, and new values are drawn proportionally to the ratio of
// their smoothed frequencies in the two sets. Dimensions are registered on
// first suggestion; until enough observations exist, values are sampled
// uniformly at random.
//
// Scores are recorded in a single maximize convention; the study negates
// scores of minimize objectives before recording them.
type TPESampler struct {
	gamma          float64
	seed           int64
	nStartupTrials int
	priorWeight    float64

	mu           sync.Mutex
	rng          *rand.Rand
	space        map[string][]interface{}
	observations []observation
}

// observation is one completed trial: its suggestions and resulting score.
type observation struct {
	params map[string]interface{}
	score  float64
}

// NewTPESampler creates a sampler, filling in defaults for zero-valued
// configuration fields.
func NewTPESampler(config TPEConfig) *TPESampler {
	if config.Gamma <= 0 || config.Gamma >= 1 {
		config.Gamma = 0.25
	}
	if config.NStartupTrials <= 0 {
		config.NStartupTrials = 10
	}
	if config.PriorWeight <= 0 {
		config.PriorWeight = 1.0
	}
	seed := config.Seed
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}

	return &TPESampler{
		gamma:          config.Gamma,
		seed:           seed,
		nStartupTrials: config.NStartupTrials,
		priorWeight:    config.PriorWeight,
		rng:            rand.New(rand.NewSource(seed)),
		space:          map[string][]interface{}{},
	}
}

// Observe records a completed trial. Higher scores are better.
func (s *TPESampler) Observe(params map[string]interface{}, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observations = append(s.observations, observation{params: params, score: score})
}

// suggest picks a value for a categorical dimension.
func (s *TPESampler) suggest(name string, choices []interface{}) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.register(name, choices)
	values := s.space[name]

	if len(s.observations) < s.nStartupTrials {
		return values[s.rng.Intn(len(values))]
	}
	return s.suggestTPE(name, values)
}

// suggestInt picks a value for a bounded integer dimension. The catalog's
// integer ranges are tiny, so the domain is enumerated and treated like an
// ordered categorical; oversized ranges fall back to uniform sampling. The
// log flag is accepted for interface compatibility and ignored by the
// frequency-based estimator.
func (s *TPESampler) suggestInt(name string, low, high int, log bool) int {
	span := high - low + 1
	if span > 256 {
		s.mu.Lock()
		defer s.mu.Unlock()
		return low + s.rng.Intn(span)
	}
	values := make([]interface{}, span)
	for i := range values {
		values[i] = low + i
	}
	return s.suggest(name, values).(int)
}

func (s *TPESampler) register(name string, choices []interface{}) {
	if _, ok := s.space[name]; !ok {
		s.space[name] = append([]interface{}(nil), choices...)
	}
}

// suggestTPE samples a value proportionally to the good/bad density ratio.
func (s *TPESampler) suggestTPE(name string, values []interface{}) interface{} {
	// Sort observations by score, best first
	obs := append([]observation(nil), s.observations...)
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].score > obs[j].score
	})

	nGood := int(float64(len(obs)) * s.gamma)
	if nGood < 1 {
		nGood = 1
	}
	good := obs[:nGood]
	bad := obs[nGood:]

	goodCounts := s.countValues(good, name, values)
	badCounts := s.countValues(bad, name, values)
	smoothedGood := s.smoothCounts(goodCounts, len(values))
	smoothedBad := s.smoothCounts(badCounts, len(values))

	// Ratio of densities: p(x|y good) / p(x|y bad)
	ratios := make([]float64, len(values))
	totalRatio := 0.0
	for i := range values {
		if smoothedBad[i] > 0 {
			ratios[i] = smoothedGood[i] / smoothedBad[i]
		} else {
			ratios[i] = smoothedGood[i] * 1000
		}
		totalRatio += ratios[i]
	}

	if totalRatio <= 0 || math.IsNaN(totalRatio) {
		return values[s.rng.Intn(len(values))]
	}

	threshold := s.rng.Float64() * totalRatio
	cumulative := 0.0
	for i, r := range ratios {
		cumulative += r
		if cumulative >= threshold {
			return values[i]
		}
	}
	return values[len(values)-1]
}

// countValues counts the occurrences of each value of a dimension.
func (s *TPESampler) countValues(obs []observation, name string, values []interface{}) []float64 {
	counts := make([]float64, len(values))
	for _, o := range obs {
		val, ok := o.params[name]
		if !ok {
			continue
		}
		for i, candidate := range values {
			if val == candidate {
				counts[i]++
				break
			}
		}
	}
	return counts
}

// smoothCounts applies Laplace smoothing to the counts.
func (s *TPESampler) smoothCounts(counts []float64, numValues int) []float64 {
	smoothed := make([]float64, len(counts))
	total := 0.0
	for _, c := range counts {
		total += c
	}

	alpha := s.priorWeight
	for i, c := range counts {
		smoothed[i] = (c + alpha/float64(numValues)) / (total + alpha)
	}
	return smoothed
}
