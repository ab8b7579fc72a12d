package cpsat

// Feature marks a structural property of a problem instance. Parameter
// descriptors use features to decide whether a dimension is worth tuning for
// a given model, e.g. scheduling parameters are skipped for models without
// no_overlap constraints.
type Feature string

const (
	FeatureObjective   Feature = "objective"
	FeatureNoOverlap   Feature = "no_overlap"
	FeatureNoOverlap2D Feature = "no_overlap_2d"
)

// Model is an opaque handle for a problem instance. The tuner never inspects
// the instance itself; it only passes the handle through to the solve routine
// and queries the declared features.
type Model struct {
	path     string
	features map[Feature]bool
}

// NewModel creates a model handle for the instance stored at path, declaring
// the structural features the instance has.
func NewModel(path string, features ...Feature) *Model {
	fs := make(map[Feature]bool, len(features))
	for _, f := range features {
		fs[f] = true
	}
	return &Model{path: path, features: fs}
}

// Path returns the location of the instance file, as passed through to
// external solver processes.
func (m *Model) Path() string { return m.path }

// Has reports whether the instance declares the given feature.
func (m *Model) Has(f Feature) bool { return m.features[f] }

func (m *Model) HasObjective() bool   { return m.Has(FeatureObjective) }
func (m *Model) HasNoOverlap() bool   { return m.Has(FeatureNoOverlap) }
func (m *Model) HasNoOverlap2D() bool { return m.Has(FeatureNoOverlap2D) }
