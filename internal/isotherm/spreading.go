package isotherm

import (
	"errors"
	"math"

	"github.com/san-kum/adsorb/internal/numeric"
	"github.com/san-kum/adsorb/internal/sorption"
)

// Spreading evaluates π(p) = ∫₀ᵖ n(p')/p' dp' numerically.
//
// The integral is taken in ln p, where the integrand is n itself, so the
// 1/p' factor never appears. Below Split·p the isotherm is replaced by its
// Henry line, whose contribution is exactly K_H·Split·p.
type Spreading struct {
	Quad  *numeric.Quadrature
	Split float64
}

func NewSpreading() *Spreading {
	return &Spreading{
		Quad:  numeric.NewQuadrature(),
		Split: 1e-8,
	}
}

// Integrate returns ∫ₐᵇ n(p)/p dp for 0 < a <= b.
func (s *Spreading) Integrate(loading numeric.Func, a, b float64) (float64, error) {
	if a <= 0 || b < a {
		return 0, sorption.Configf("spreading pressure", "invalid interval [%g, %g]", a, b)
	}
	if a == b {
		return 0, nil
	}
	return s.Quad.Integrate(func(u float64) (float64, error) {
		return loading(math.Exp(u))
	}, math.Log(a), math.Log(b))
}

// FromZero returns π(p) given the Henry constant of the isotherm.
func (s *Spreading) FromZero(loading numeric.Func, henry, p float64) (float64, error) {
	if p == 0 {
		return 0, nil
	}
	p0 := p * s.Split
	rest, err := s.Integrate(loading, p0, p)
	if err != nil {
		return 0, err
	}
	return henry*p0 + rest, nil
}

var defaultSpreading = NewSpreading()

// numericSpreading is the fallback for models without a closed-form π.
func numericSpreading(m Model, p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	if p == 0 {
		return 0, nil
	}

	var henry float64
	if hl, ok := m.(HenryLimiter); ok {
		henry = hl.HenryConstant()
	} else {
		p0 := p * defaultSpreading.Split
		n0, err := m.Loading(p0)
		if err != nil {
			return 0, err
		}
		henry = n0 / p0
	}
	return defaultSpreading.FromZero(m.Loading, henry, p)
}

var inversion = &numeric.Brent{RelTol: 1e-12, AbsTol: 1e-300, MaxIter: 200}

// pressureByRoot solves Loading(p) = n for p in [0, limit).
func pressureByRoot(m Model, n, limit float64) (float64, error) {
	if err := checkLoading(m, n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	start := 1.0
	if hl, ok := m.(HenryLimiter); ok && hl.HenryConstant() > 0 {
		start = n / hl.HenryConstant()
	}
	start = math.Min(start, 0.5*limit)

	f := func(p float64) (float64, error) {
		q, err := m.Loading(p)
		return q - n, err
	}
	br, err := numeric.ExpandUpper(f, 0, start, 2, limit, 400)
	if err != nil {
		if errors.Is(err, sorption.ErrConvergence) {
			return 0, &sorption.DomainError{Op: "pressure", Component: m.Name(), Value: n, Reason: "loading not reached at any admissible pressure"}
		}
		return 0, err
	}
	root, err := inversion.SolveBracket(f, br.Lo, br.Hi, br.FLo, br.FHi)
	return root.X, err
}

// loadingByRoot solves Pressure(n) = p for n in [0, limit).
func loadingByRoot(m Model, p, limit float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	if p == 0 {
		return 0, nil
	}

	start := p
	if hl, ok := m.(HenryLimiter); ok && hl.HenryConstant() > 0 {
		start = p * hl.HenryConstant()
	}
	start = math.Min(start, 0.5*limit)

	f := func(n float64) (float64, error) {
		pp, err := m.Pressure(n)
		if math.IsInf(pp, 1) {
			pp = math.MaxFloat64
		}
		return pp - p, err
	}
	br, err := numeric.ExpandUpper(f, 0, start, 2, limit, 400)
	if err != nil {
		if errors.Is(err, sorption.ErrConvergence) {
			return 0, &sorption.DomainError{Op: "loading", Component: m.Name(), Value: p, Reason: "pressure not reached at any admissible loading"}
		}
		return 0, err
	}
	root, err := inversion.SolveBracket(f, br.Lo, br.Hi, br.FLo, br.FHi)
	return root.X, err
}

// below returns the largest float strictly less than x.
func below(x float64) float64 {
	return math.Nextafter(x, math.Inf(-1))
}
