// Package pure provides single-component isotherms as used by mixture
// calculations: a fitted or explicit model, or measured points with a
// monotone interpolant. Both expose the same capability set and are
// immutable once built.
package pure

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/adsorb/internal/numeric"
	"github.com/san-kum/adsorb/internal/sorption"
)

// Isotherm is the capability set a mixture solver needs from a component.
type Isotherm interface {
	Label() string
	Units() Units
	Policy() sorption.Policy
	IASTEligible() bool

	// Domain is the pressure interval on which LoadingAt and
	// SpreadingPressureAt may be called under the active policy.
	Domain() sorption.Range
	// DataRange is the pressure span of the underlying data. It is
	// unbounded for isotherms built from explicit parameters.
	DataRange() sorption.Range

	LoadingAt(p float64) (float64, error)
	PressureAt(n float64) (float64, error)
	SpreadingPressureAt(p float64) (float64, error)
	// PressureAtSpreading inverts SpreadingPressureAt.
	PressureAtSpreading(pi float64) (float64, error)
}

// Units describes the measurement basis of an isotherm. Empty strings and
// a zero temperature mean "unspecified" and match anything.
type Units struct {
	Pressure    string  `json:"pressure,omitempty" yaml:"pressure,omitempty"`
	Loading     string  `json:"loading,omitempty" yaml:"loading,omitempty"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// Compatible reports an error when u and o are detectably inconsistent.
func (u Units) Compatible(o Units) error {
	if u.Pressure != "" && o.Pressure != "" && u.Pressure != o.Pressure {
		return sorption.Configf("units", "pressure units differ (%s vs %s)", u.Pressure, o.Pressure)
	}
	if u.Loading != "" && o.Loading != "" && u.Loading != o.Loading {
		return sorption.Configf("units", "loading units differ (%s vs %s)", u.Loading, o.Loading)
	}
	if u.Temperature > 0 && o.Temperature > 0 && math.Abs(u.Temperature-o.Temperature) > 1e-6 {
		return sorption.Configf("units", "temperatures differ (%g K vs %g K)", u.Temperature, o.Temperature)
	}
	return nil
}

// Meta is the identity shared by every isotherm kind.
type Meta struct {
	Label  string          `json:"label" yaml:"label"`
	Units  Units           `json:"units" yaml:"units"`
	Policy sorption.Policy `json:"policy" yaml:"policy"`
}

var spreadingRoot = &numeric.Brent{RelTol: 1e-12, AbsTol: 1e-300, MaxIter: 200}

// invertSpreading solves SpreadingPressureAt(p) = pi by expanding an upper
// bracket from start, never past the isotherm's domain.
func invertSpreading(iso Isotherm, pi, start float64) (float64, error) {
	if pi < 0 || math.IsNaN(pi) {
		return 0, &sorption.DomainError{Op: "pressure at spreading", Component: iso.Label(), Value: pi, Reason: "spreading pressure must be non-negative"}
	}
	if pi == 0 {
		return 0, nil
	}

	limit := math.Inf(1)
	if d := iso.Domain(); d.Bounded() {
		limit = d.Max
	}
	if start <= 0 || start > limit {
		start = math.Min(1, limit)
	}

	f := func(p float64) (float64, error) {
		s, err := iso.SpreadingPressureAt(p)
		return s - pi, err
	}
	br, err := numeric.ExpandUpper(f, 0, start, 2, limit, 400)
	if err != nil {
		if errors.Is(err, sorption.ErrConvergence) {
			return 0, &sorption.DomainError{
				Op: "pressure at spreading", Component: iso.Label(), Value: pi, Range: iso.Domain(),
				Reason: "spreading pressure not reached within the admissible pressure range",
			}
		}
		return 0, err
	}
	root, err := spreadingRoot.SolveBracket(f, br.Lo, br.Hi, br.FLo, br.FHi)
	return root.X, err
}

func beyond(iso Isotherm, op string, p float64) error {
	return &sorption.DomainError{
		Op: op, Component: iso.Label(), Value: p, Range: iso.Domain(),
		Reason: "beyond the data range under the strict policy",
	}
}

func negative(iso Isotherm, op string, v float64) error {
	return &sorption.DomainError{Op: op, Component: iso.Label(), Value: v, Reason: "must be non-negative"}
}

func checked(iso Isotherm, op string, arg, v float64) (float64, error) {
	if !sorption.Finite(v) {
		return 0, &sorption.DomainError{Op: op, Component: iso.Label(), Value: arg, Reason: "result is not finite"}
	}
	if v < 0 {
		return 0, &sorption.DomainError{Op: op, Component: iso.Label(), Value: arg, Reason: fmt.Sprintf("negative result %g", v)}
	}
	return v, nil
}
