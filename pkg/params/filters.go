package params

import (
	"github.com/d-krupke/cpsat-autotune/pkg/cpsat"
)

// Applicability predicates over model features. They let the parameter space
// drop dimensions that cannot affect a given instance, shrinking the search.

// HasObjective matches models with an objective function.
func HasObjective(m *cpsat.Model) bool { return m.HasObjective() }

// HasNoObjective matches pure feasibility models.
func HasNoObjective(m *cpsat.Model) bool { return !m.HasObjective() }

// HasNoOverlap matches models with no_overlap scheduling constraints.
func HasNoOverlap(m *cpsat.Model) bool { return m.HasNoOverlap() }

// HasNoOverlap2D matches models with two-dimensional packing constraints.
func HasNoOverlap2D(m *cpsat.Model) bool { return m.HasNoOverlap2D() }

// AnyOf combines predicates; the result matches if any of them does.
func AnyOf(preds ...Applicability) Applicability {
	return func(m *cpsat.Model) bool {
		for _, p := range preds {
			if p(m) {
				return true
			}
		}
		return false
	}
}
