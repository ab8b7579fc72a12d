package params

import (
	"sort"
	"strings"
)

// Assignment maps parameter names to native values. An empty assignment
// stands for the solver defaults.
type Assignment map[string]Value

// Clone returns a shallow copy; Values are immutable so this is a full copy.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Without returns a copy with one parameter reverted to its default by
// omission. Used by the leave-one-out sweep.
func (a Assignment) Without(name string) Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		if k != name {
			out[k] = v
		}
	}
	return out
}

// Normalize drops every parameter that is also present in the override set.
// Overridden parameters are pinned by the scorer anyway, so they must not
// distinguish cache entries.
func (a Assignment) Normalize(overrides Assignment) Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		if _, fixed := overrides[k]; !fixed {
			out[k] = v
		}
	}
	return out
}

// Names returns the parameter names in sorted order.
func (a Assignment) Names() []string {
	names := make([]string, 0, len(a))
	for k := range a {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Key builds the canonical cache key: the unordered set of (name, value)
// pairs rendered in sorted order. List values are already canonicalized by
// Value, so {"a": [2,1]} and {"a": [1,2]} produce the same key.
func (a Assignment) Key() string {
	names := a.Names()
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(a[name].String())
	}
	return b.String()
}

// Equal compares two assignments as unordered sets of (name, value) pairs.
func (a Assignment) Equal(other Assignment) bool {
	if len(a) != len(other) {
		return false
	}
	for k, v := range a {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// String renders the assignment for logs and reports.
func (a Assignment) String() string {
	if len(a) == 0 {
		return "{}"
	}
	names := a.Names()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + a[name].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
