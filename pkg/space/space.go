// Package space bridges between a trial suggester's raw suggestions and the
// solver's native parameter representation.
package space

import (
	stderrors "errors"

	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
	"github.com/d-krupke/cpsat-autotune/pkg/errors"
	"github.com/d-krupke/cpsat-autotune/pkg/params"
)

// ErrPruned is returned by Sample when a trial differs from the defaults in
// more dimensions than the configured limit allows. The caller decides what
// score the pruned trial reports; no control flow runs on panics.
var ErrPruned = stderrors.New("space: trial differs from the defaults in too many parameters")

// ParameterSpace holds the tunable descriptors and the fixed overrides of
// one tuning session.
type ParameterSpace struct {
	order   []string
	tunable map[string]*params.Descriptor
	fixed   params.Assignment

	// maxDifferenceToDefault prunes trials whose assignment deviates from
	// the defaults in more than this many dimensions; negative disables the
	// guard. Default values are much better tested, so staying close to them
	// is usually desirable.
	maxDifferenceToDefault int
}

// New creates a parameter space over the full catalog.
func New() *ParameterSpace {
	return NewFromDescriptors(params.Catalog())
}

// NewFromDescriptors creates a parameter space over an explicit descriptor
// set.
func NewFromDescriptors(descriptors []*params.Descriptor) *ParameterSpace {
	s := &ParameterSpace{
		tunable:                make(map[string]*params.Descriptor, len(descriptors)),
		fixed:                  params.Assignment{},
		maxDifferenceToDefault: -1,
	}
	for _, d := range descriptors {
		s.order = append(s.order, d.Name())
		s.tunable[d.Name()] = d
	}
	return s
}

// Fix pins a parameter to a value. The parameter is removed from the tunable
// set and the value is applied to every run, including the baseline.
func (s *ParameterSpace) Fix(name string, value params.Value) {
	s.remove(name)
	s.fixed[name] = value
}

// Drop removes a parameter from the tunable set without pinning a value, so
// the solver default applies.
func (s *ParameterSpace) Drop(name string) {
	s.remove(name)
}

func (s *ParameterSpace) remove(name string) {
	if _, ok := s.tunable[name]; !ok {
		return
	}
	delete(s.tunable, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// SetMaxDifferenceToDefault bounds how many parameters a sampled assignment
// may change relative to the defaults; negative disables the bound.
func (s *ParameterSpace) SetMaxDifferenceToDefault(n int) {
	s.maxDifferenceToDefault = n
}

// FilterApplicable drops every tunable parameter that cannot affect any of
// the given models.
func (s *ParameterSpace) FilterApplicable(models ...*cpsat.Model) {
	if len(models) == 0 {
		return
	}
	var keep []string
	for _, name := range s.order {
		d := s.tunable[name]
		applicable := false
		for _, m := range models {
			if d.IsApplicable(m) {
				applicable = true
				break
			}
		}
		if applicable {
			keep = append(keep, name)
		} else {
			delete(s.tunable, name)
		}
	}
	s.order = keep
}

// FixedParams returns the pinned overrides. Callers must not mutate the map.
func (s *ParameterSpace) FixedParams() params.Assignment {
	return s.fixed
}

// Descriptors returns the tunable descriptors in catalog order.
func (s *ParameterSpace) Descriptors() []*params.Descriptor {
	out := make([]*params.Descriptor, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tunable[name])
	}
	return out
}

// Sample materializes a native assignment from the trial's suggestions. Only
// values that differ from the native default are included, so the returned
// assignment is the diff the candidate applies on top of the defaults.
func (s *ParameterSpace) Sample(t params.Suggester) (params.Assignment, error) {
	assignment := params.Assignment{}
	numDifferent := 0
	for _, name := range s.order {
		d := s.tunable[name]
		v, err := d.Suggest(t)
		if err != nil {
			return nil, errors.Wrap(err, errors.TrialFailed, "sampling parameter "+name)
		}
		if v.Equal(d.Default()) {
			continue
		}
		numDifferent++
		if s.maxDifferenceToDefault >= 0 && numDifferent > s.maxDifferenceToDefault {
			return nil, ErrPruned
		}
		assignment[name] = v
	}
	return assignment, nil
}

// DefaultSuggestions returns the suggestion-space encoding of the default
// configuration, used to seed the study's first trial.
func (s *ParameterSpace) DefaultSuggestions() map[string]interface{} {
	out := map[string]interface{}{}
	for _, name := range s.order {
		for k, v := range s.tunable[name].DefaultSuggestions() {
			out[k] = v
		}
	}
	return out
}
