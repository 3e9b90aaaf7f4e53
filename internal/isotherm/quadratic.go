package isotherm

import (
	"math"

	"github.com/san-kum/adsorb/internal/sorption"
)

// Quadratic is the cooperative two-site form
//
//	n = n_m·(Ka + 2Kb·p)·p / (1 + Ka·p + Kb·p²)
//
// which saturates at 2·n_m.
type Quadratic struct {
	NM float64
	Ka float64
	Kb float64
}

var quadraticParams = []string{"n_m", "Ka", "Kb"}

func (Quadratic) Name() string             { return "Quadratic" }
func (Quadratic) Calculates() Quantity     { return QuantityLoading }
func (Quadratic) IASTEligible() bool       { return true }
func (m Quadratic) Params() Params         { return params(quadraticParams, m.NM, m.Ka, m.Kb) }
func (m Quadratic) HenryConstant() float64 { return m.NM * m.Ka }

func (Quadratic) DefaultBounds() Bounds {
	return Bounds{"n_m": NonNegative(), "Ka": Free(), "Kb": Free()}
}

func (m Quadratic) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, quadraticParams...)
	if err != nil {
		return nil, err
	}
	return Quadratic{NM: v[0], Ka: v[1], Kb: v[2]}, nil
}

func (m Quadratic) denominator(p float64) float64 {
	return 1 + m.Ka*p + m.Kb*p*p
}

func (m Quadratic) Loading(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	d := m.denominator(p)
	if d <= 0 {
		return 0, &sorption.DomainError{Op: "loading", Component: m.Name(), Value: p, Reason: "non-positive partition function"}
	}
	return m.NM * (m.Ka + 2*m.Kb*p) * p / d, nil
}

// Pressure solves Kb(n − 2n_m)p² + Ka(n − n_m)p + n = 0.
func (m Quadratic) Pressure(n float64) (float64, error) {
	if err := checkLoading(m, n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	a := m.Kb * (n - 2*m.NM)
	b := m.Ka * (n - m.NM)
	if p, ok := positiveRoot(a, b, n); ok {
		return p, nil
	}
	return pressureByRoot(m, n, math.Inf(1))
}

func (m Quadratic) SpreadingPressure(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	d := m.denominator(p)
	if d <= 0 {
		return 0, &sorption.DomainError{Op: "spreading pressure", Component: m.Name(), Value: p, Reason: "non-positive partition function"}
	}
	return m.NM * math.Log(d), nil
}

func (m Quadratic) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(quadraticParams, sat/2, k, k*k), m.DefaultBounds()), nil
}

// TemkinApprox is the Langmuir isotherm with a first-order correction for
// lateral interactions:
//
//	θ = Kp/(1+Kp),  n = n_m·(θ + tht·θ²(θ − 1))
type TemkinApprox struct {
	NM  float64
	K   float64
	Tht float64
}

var temkinParams = []string{"n_m", "K", "tht"}

func (TemkinApprox) Name() string             { return "TemkinApprox" }
func (TemkinApprox) Calculates() Quantity     { return QuantityLoading }
func (TemkinApprox) IASTEligible() bool       { return true }
func (m TemkinApprox) Params() Params         { return params(temkinParams, m.NM, m.K, m.Tht) }
func (m TemkinApprox) HenryConstant() float64 { return m.NM * m.K }

func (TemkinApprox) DefaultBounds() Bounds {
	return Bounds{"n_m": NonNegative(), "K": NonNegative(), "tht": NonNegative()}
}

func (m TemkinApprox) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, temkinParams...)
	if err != nil {
		return nil, err
	}
	return TemkinApprox{NM: v[0], K: v[1], Tht: v[2]}, nil
}

func (m TemkinApprox) Loading(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	theta := m.K * p / (1 + m.K*p)
	return m.NM * (theta + m.Tht*theta*theta*(theta-1)), nil
}

func (m TemkinApprox) Pressure(n float64) (float64, error) {
	if n >= m.NM {
		return 0, saturated(m, n, m.NM)
	}
	return pressureByRoot(m, n, math.Inf(1))
}

// SpreadingPressure is n_m·(ln(1+Kp) − tht·θ²/2), which follows from
// dp/p = dθ/(θ(1−θ)).
func (m TemkinApprox) SpreadingPressure(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	theta := m.K * p / (1 + m.K*p)
	return m.NM * (math.Log1p(m.K*p) - m.Tht*theta*theta/2), nil
}

func (m TemkinApprox) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(temkinParams, sat, k, 0), m.DefaultBounds()), nil
}
