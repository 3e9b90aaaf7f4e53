package sorption

import (
	"fmt"
	"math"
	"strings"
)

// Policy selects the behaviour outside an isotherm's data range.
type Policy int

const (
	// PolicyStrict rejects queries beyond the fitted or measured range.
	PolicyStrict Policy = iota
	// PolicyExtrapolate evaluates the model anyway, or holds a point
	// isotherm at its last measured loading.
	PolicyExtrapolate
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyExtrapolate:
		return "extrapolate"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts "strict" or "extrapolate"; the empty string maps to strict.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "extrapolate":
		return PolicyExtrapolate, nil
	}
	return PolicyStrict, Configf("parse policy", "unknown policy %q (want strict or extrapolate)", s)
}

// Range is a closed interval. Max is +Inf for an unbounded range; the zero
// Range is also treated as unbounded.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Unbounded returns [0, +Inf).
func Unbounded() Range {
	return Range{Min: 0, Max: math.Inf(1)}
}

// RangeOf returns the span of vals.
func RangeOf(vals []float64) Range {
	if len(vals) == 0 {
		return Unbounded()
	}
	r := Range{Min: vals[0], Max: vals[0]}
	for _, v := range vals[1:] {
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	return r
}

// Bounded reports whether the range has a finite upper end.
func (r Range) Bounded() bool {
	return !math.IsInf(r.Max, 1) && r.Max != 0
}

// Contains reports whether v lies within the range, with a small
// relative allowance at the upper end.
func (r Range) Contains(v float64) bool {
	if v < r.Min {
		return false
	}
	if !r.Bounded() {
		return true
	}
	return v <= r.Max*(1+1e-9)
}

// Exceeds reports whether v is past the upper end of a bounded range.
func (r Range) Exceeds(v float64) bool {
	return r.Bounded() && v > r.Max*(1+1e-9)
}

func (r Range) String() string {
	if !r.Bounded() {
		return fmt.Sprintf("[%.6g, inf)", r.Min)
	}
	return fmt.Sprintf("[%.6g, %.6g]", r.Min, r.Max)
}

// Warning is a non-fatal condition recorded on a result.
type Warning struct {
	Component string `json:"component,omitempty"`
	Message   string `json:"message"`
}

func (w Warning) String() string {
	if w.Component == "" {
		return w.Message
	}
	return w.Component + ": " + w.Message
}
