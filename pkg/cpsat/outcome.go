package cpsat

import (
	"encoding/json"
	"fmt"
)

// Status is the terminal state reported by a solve run. A timeout or an
// infeasibility report is a regular outcome, not an error: metrics map it to
// their fallback score.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusTimeout
)

var statusNames = map[Status]string{
	StatusUnknown:    "UNKNOWN",
	StatusOptimal:    "OPTIMAL",
	StatusFeasible:   "FEASIBLE",
	StatusInfeasible: "INFEASIBLE",
	StatusTimeout:    "TIMEOUT",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseStatus converts a status name as reported by an external solver
// process back into a Status. Unrecognized names map to StatusUnknown.
func ParseStatus(name string) Status {
	for s, n := range statusNames {
		if n == name {
			return s
		}
	}
	return StatusUnknown
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("invalid status: %w", err)
	}
	*s = ParseStatus(name)
	return nil
}

// Outcome is the raw result of a single solve run. Optional values are nil
// when the solver did not report them (e.g. no feasible solution found).
type Outcome struct {
	Status         Status   `json:"status"`
	ObjectiveValue *float64 `json:"objective_value,omitempty"`
	BestBound      *float64 `json:"best_bound,omitempty"`
	GapIntegral    *float64 `json:"gap_integral,omitempty"`
	WallTime       float64  `json:"wall_time"`
}

// HasSolution reports whether the run produced any feasible solution,
// regardless of whether optimality was proven.
func (o Outcome) HasSolution() bool {
	return o.Status == StatusOptimal || o.Status == StatusFeasible
}
