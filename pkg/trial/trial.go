// Package trial implements the trial suggester the tuner consumes: a TPE
// sampler over named categorical and integer dimensions, a study loop
// driving it, and an optional SQLite journal of completed trials.
package trial

import (
	"sync"

	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

// Trial is one proposed parameter assignment in suggestion space. The
// sampling bridge pulls raw suggestions dimension by dimension; the study
// records the resulting score against the suggestions that produced it.
type Trial interface {
	// SuggestCategorical picks one of the choices for the named dimension.
	SuggestCategorical(name string, choices []interface{}) (interface{}, error)
	// SuggestInt picks an integer in [low, high] for the named dimension.
	SuggestInt(name string, low, high int, log bool) (int, error)
	// Params returns the suggestions made so far.
	Params() map[string]interface{}
	// Number is the zero-based position of the trial within its study.
	Number() int
}

// FixedTrial replays a fixed suggestion mapping deterministically, e.g. to
// seed a study with the default configuration or to re-evaluate a specific
// candidate.
type FixedTrial struct {
	mu     sync.Mutex
	number int
	values map[string]interface{}
	used   map[string]interface{}
}

// NewFixedTrial creates a trial that answers every suggestion from the
// given mapping.
func NewFixedTrial(values map[string]interface{}) *FixedTrial {
	return &FixedTrial{
		number: -1,
		values: values,
		used:   map[string]interface{}{},
	}
}

func (t *FixedTrial) lookup(name string) (interface{}, error) {
	v, ok := t.values[name]
	if !ok {
		return nil, errors.WithFields(
			errors.New(errors.ParameterNotFound, "fixed trial has no value for dimension"),
			errors.Fields{"dimension": name},
		)
	}
	t.used[name] = v
	return v, nil
}

func (t *FixedTrial) SuggestCategorical(name string, choices []interface{}) (interface{}, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, err := t.lookup(name)
	if err != nil {
		return nil, err
	}
	for _, c := range choices {
		if c == v {
			return v, nil
		}
	}
	return nil, errors.WithFields(
		errors.New(errors.InvalidInput, "fixed value is not among the choices"),
		errors.Fields{"dimension": name, "value": v},
	)
}

func (t *FixedTrial) SuggestInt(name string, low, high int, log bool) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, err := t.lookup(name)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int)
	if !ok {
		return 0, errors.WithFields(
			errors.New(errors.InvalidInput, "fixed value is not an int"),
			errors.Fields{"dimension": name},
		)
	}
	if n < low || n > high {
		return 0, errors.WithFields(
			errors.New(errors.InvalidInput, "fixed value out of bounds"),
			errors.Fields{"dimension": name, "value": n, "low": low, "high": high},
		)
	}
	return n, nil
}

// Params returns the suggestions consumed so far.
func (t *FixedTrial) Params() map[string]interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]interface{}, len(t.used))
	for k, v := range t.used {
		out[k] = v
	}
	return out
}

func (t *FixedTrial) Number() int { return t.number }

// samplerTrial pulls its suggestions from a TPESampler.
type samplerTrial struct {
	mu      sync.Mutex
	number  int
	sampler *TPESampler
	params  map[string]interface{}
}

func newSamplerTrial(number int, sampler *TPESampler) *samplerTrial {
	return &samplerTrial{
		number:  number,
		sampler: sampler,
		params:  map[string]interface{}{},
	}
}

func (t *samplerTrial) SuggestCategorical(name string, choices []interface{}) (interface{}, error) {
	if len(choices) == 0 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "no choices for dimension"),
			errors.Fields{"dimension": name},
		)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.params[name]; ok {
		return v, nil
	}
	v := t.sampler.suggest(name, choices)
	t.params[name] = v
	return v, nil
}

func (t *samplerTrial) SuggestInt(name string, low, high int, log bool) (int, error) {
	if low > high {
		return 0, errors.WithFields(
			errors.New(errors.InvalidInput, "invalid integer bounds"),
			errors.Fields{"dimension": name, "low": low, "high": high},
		)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.params[name]; ok {
		return v.(int), nil
	}
	v := t.sampler.suggestInt(name, low, high, log)
	t.params[name] = v
	return v, nil
}

func (t *samplerTrial) Params() map[string]interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]interface{}, len(t.params))
	for k, v := range t.params {
		out[k] = v
	}
	return out
}

func (t *samplerTrial) Number() int { return t.number }

// queuedTrial wraps a FixedTrial with a study-assigned number.
type queuedTrial struct {
	*FixedTrial
	number int
}

func (t *queuedTrial) Number() int { return t.number }
