package params

import (
	"fmt"

	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
	"github.com/d-krupke/cpsat-autotune/pkg/errors"
)

// DescriptorKind identifies how a parameter is sampled and represented.
type DescriptorKind int

const (
	// BoolKind is a plain true/false switch.
	BoolKind DescriptorKind = iota
	// CategoryKind picks one of a set of values whose order carries no
	// meaning.
	CategoryKind
	// IntKind samples a bounded integer, optionally on a log scale.
	IntKind
	// OrderedListKind picks an index into an ordered value list; the order
	// is meaningful and the suggester may exploit it.
	OrderedListKind
	// MultiSelectKind picks a subset of a value list, encoded as one boolean
	// suggestion per element.
	MultiSelectKind
)

// Applicability decides whether a parameter is worth tuning for a given
// problem instance. A nil predicate means the parameter always applies.
type Applicability func(*cpsat.Model) bool

// Suggester is the narrow view of a trial that descriptors sample from.
type Suggester interface {
	SuggestCategorical(name string, choices []interface{}) (interface{}, error)
	SuggestInt(name string, low, high int, log bool) (int, error)
}

// Descriptor declares one tunable dimension: its kind, native default,
// allowed domain and metadata. Descriptors are immutable after construction.
type Descriptor struct {
	name        string
	kind        DescriptorKind
	description string
	subsolver   bool
	applicable  Applicability

	defaultBool  bool
	defaultInt   int
	defaultIndex int
	defaultList  Value

	choices  []int // category domain
	values   []Value
	universe []string // multi-select elements
	low      int
	high     int
	logScale bool
}

// DescriptorOption customizes a descriptor at construction.
type DescriptorOption func(*Descriptor)

// WithDescription attaches free-text documentation shown in reports.
func WithDescription(text string) DescriptorOption {
	return func(d *Descriptor) { d.description = text }
}

// WithApplicability restricts the parameter to instances matched by the
// predicate.
func WithApplicability(pred Applicability) DescriptorOption {
	return func(d *Descriptor) { d.applicable = pred }
}

// TopLevel marks the parameter as part of the top-level solver configuration
// rather than a subsolver block.
func TopLevel() DescriptorOption {
	return func(d *Descriptor) { d.subsolver = false }
}

func newDescriptor(name string, kind DescriptorKind, opts []DescriptorOption) *Descriptor {
	d := &Descriptor{name: name, kind: kind, subsolver: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewBool declares a boolean parameter.
func NewBool(name string, defaultValue bool, opts ...DescriptorOption) *Descriptor {
	d := newDescriptor(name, BoolKind, opts)
	d.defaultBool = defaultValue
	return d
}

// NewCategory declares a categorical parameter over integer codes. The
// default must be a member of the domain.
func NewCategory(name string, defaultValue int, choices []int, opts ...DescriptorOption) (*Descriptor, error) {
	found := false
	for _, c := range choices {
		if c == defaultValue {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "default value must be one of the possible values"),
			errors.Fields{"parameter": name, "default": defaultValue},
		)
	}
	d := newDescriptor(name, CategoryKind, opts)
	d.defaultInt = defaultValue
	d.choices = append([]int(nil), choices...)
	return d, nil
}

// NewInt declares a bounded integer parameter.
func NewInt(name string, defaultValue, low, high int, logScale bool, opts ...DescriptorOption) (*Descriptor, error) {
	if low > high || defaultValue < low || defaultValue > high {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "default value must lie within the bounds"),
			errors.Fields{"parameter": name, "default": defaultValue, "low": low, "high": high},
		)
	}
	d := newDescriptor(name, IntKind, opts)
	d.defaultInt = defaultValue
	d.low, d.high, d.logScale = low, high, logScale
	return d, nil
}

// NewOrderedList declares a parameter whose value is picked from an ordered
// list; defaultIndex addresses the list, not the value itself.
func NewOrderedList(name string, defaultIndex int, values []Value, opts ...DescriptorOption) (*Descriptor, error) {
	if defaultIndex < 0 || defaultIndex >= len(values) {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "default index out of range"),
			errors.Fields{"parameter": name, "default_index": defaultIndex, "len": len(values)},
		)
	}
	d := newDescriptor(name, OrderedListKind, opts)
	d.defaultIndex = defaultIndex
	d.values = append([]Value(nil), values...)
	return d, nil
}

// NewMultiSelect declares a parameter whose value is a subset of universe.
func NewMultiSelect(name string, defaultValue []string, universe []string, opts ...DescriptorOption) (*Descriptor, error) {
	member := make(map[string]bool, len(universe))
	for _, e := range universe {
		member[e] = true
	}
	for _, e := range defaultValue {
		if !member[e] {
			return nil, errors.WithFields(
				errors.New(errors.InvalidInput, "default selection contains an element outside the universe"),
				errors.Fields{"parameter": name, "element": e},
			)
		}
	}
	d := newDescriptor(name, MultiSelectKind, opts)
	d.defaultList = StringList(defaultValue...)
	d.universe = append([]string(nil), universe...)
	return d, nil
}

func (d *Descriptor) Name() string         { return d.name }
func (d *Descriptor) Kind() DescriptorKind { return d.kind }
func (d *Descriptor) Description() string  { return d.description }
func (d *Descriptor) Subsolver() bool      { return d.subsolver }

// Default returns the native default value.
func (d *Descriptor) Default() Value {
	switch d.kind {
	case BoolKind:
		return Bool(d.defaultBool)
	case CategoryKind, IntKind:
		return Int(d.defaultInt)
	case OrderedListKind:
		return d.values[d.defaultIndex]
	case MultiSelectKind:
		return d.defaultList
	}
	panic(fmt.Sprintf("params: unknown descriptor kind %d", int(d.kind)))
}

// IsApplicable reports whether the parameter can affect solving the model.
func (d *Descriptor) IsApplicable(m *cpsat.Model) bool {
	if d.applicable == nil {
		return true
	}
	return d.applicable(m)
}

// Suggest samples a native value for this dimension from the trial.
func (d *Descriptor) Suggest(t Suggester) (Value, error) {
	switch d.kind {
	case BoolKind:
		v, err := t.SuggestCategorical(d.name, []interface{}{true, false})
		if err != nil {
			return Value{}, err
		}
		b, ok := v.(bool)
		if !ok {
			return Value{}, suggestionTypeError(d.name, "bool", v)
		}
		return Bool(b), nil
	case CategoryKind:
		choices := make([]interface{}, len(d.choices))
		for i, c := range d.choices {
			choices[i] = c
		}
		v, err := t.SuggestCategorical(d.name, choices)
		if err != nil {
			return Value{}, err
		}
		n, ok := v.(int)
		if !ok {
			return Value{}, suggestionTypeError(d.name, "int", v)
		}
		return Int(n), nil
	case IntKind:
		n, err := t.SuggestInt(d.name, d.low, d.high, d.logScale)
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil
	case OrderedListKind:
		idx, err := t.SuggestInt(d.name, 0, len(d.values)-1, false)
		if err != nil {
			return Value{}, err
		}
		if idx < 0 || idx >= len(d.values) {
			return Value{}, errors.WithFields(
				errors.New(errors.InvalidInput, "suggested index out of range"),
				errors.Fields{"parameter": d.name, "index": idx},
			)
		}
		return d.values[idx], nil
	case MultiSelectKind:
		var selected []string
		for _, elem := range d.universe {
			v, err := t.SuggestCategorical(d.name+":"+elem, []interface{}{true, false})
			if err != nil {
				return Value{}, err
			}
			b, ok := v.(bool)
			if !ok {
				return Value{}, suggestionTypeError(d.name+":"+elem, "bool", v)
			}
			if b {
				selected = append(selected, elem)
			}
		}
		return StringList(selected...), nil
	}
	return Value{}, errors.New(errors.InvalidInput, "unknown descriptor kind")
}

// DefaultSuggestions returns the suggestion-space encoding of the native
// default, used to seed a study with the default configuration.
func (d *Descriptor) DefaultSuggestions() map[string]interface{} {
	switch d.kind {
	case BoolKind:
		return map[string]interface{}{d.name: d.defaultBool}
	case CategoryKind, IntKind:
		return map[string]interface{}{d.name: d.defaultInt}
	case OrderedListKind:
		return map[string]interface{}{d.name: d.defaultIndex}
	case MultiSelectKind:
		out := make(map[string]interface{}, len(d.universe))
		selected := make(map[string]bool, len(d.defaultList.list))
		for _, e := range d.defaultList.StringList() {
			selected[e] = true
		}
		for _, e := range d.universe {
			out[d.name+":"+e] = selected[e]
		}
		return out
	}
	return nil
}

func suggestionTypeError(name, want string, got interface{}) error {
	return errors.WithFields(
		errors.New(errors.InvalidInput, "suggestion has unexpected type"),
		errors.Fields{"parameter": name, "want": want, "got": fmt.Sprintf("%T", got)},
	)
}
