package isotherm

import (
	"math"

	"github.com/san-kum/adsorb/internal/sorption"
)

// BET is the multilayer isotherm with a finite layer-growth constant N:
//
//	n = n_m·C·p / ((1 − Np)(1 − Np + Cp))
//
// Loading diverges as p approaches 1/N.
type BET struct {
	NM float64
	C  float64
	N  float64
}

var betParams = []string{"n_m", "C", "N"}

func (BET) Name() string             { return "BET" }
func (BET) Calculates() Quantity     { return QuantityLoading }
func (BET) IASTEligible() bool       { return true }
func (m BET) Params() Params         { return params(betParams, m.NM, m.C, m.N) }
func (m BET) HenryConstant() float64 { return m.NM * m.C }

func (BET) DefaultBounds() Bounds {
	return Bounds{"n_m": NonNegative(), "C": NonNegative(), "N": NonNegative()}
}

func (m BET) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, betParams...)
	if err != nil {
		return nil, err
	}
	return BET{NM: v[0], C: v[1], N: v[2]}, nil
}

// limit is the pole 1/N, or +Inf when N is zero.
func (m BET) limit() float64 {
	if m.N <= 0 {
		return math.Inf(1)
	}
	return 1 / m.N
}

func (m BET) checkPole(p float64) error {
	if p >= m.limit() {
		return &sorption.DomainError{
			Op: "loading", Component: m.Name(), Value: p,
			Range:  sorption.Range{Min: 0, Max: m.limit()},
			Reason: "pressure at or beyond the multilayer pole 1/N",
		}
	}
	return nil
}

func (m BET) Loading(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	if err := m.checkPole(p); err != nil {
		return 0, err
	}
	return m.NM * m.C * p / ((1 - m.N*p) * (1 - m.N*p + m.C*p)), nil
}

// Pressure solves n(1 + (C−2N)p + N(N−C)p²) = n_m·C·p for the root below 1/N.
func (m BET) Pressure(n float64) (float64, error) {
	if err := checkLoading(m, n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	a := n * m.N * (m.N - m.C)
	b := n*(m.C-2*m.N) - m.NM*m.C
	if p, ok := positiveRoot(a, b, n); ok && p < m.limit() {
		return p, nil
	}
	return pressureByRoot(m, n, below(m.limit()))
}

func (m BET) SpreadingPressure(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	if err := m.checkPole(p); err != nil {
		return 0, err
	}
	return m.NM * math.Log((1-m.N*p+m.C*p)/(1-m.N*p)), nil
}

func (m BET) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(betParams, sat, k, 0.01), m.DefaultBounds()), nil
}

// GAB is the Guggenheim-Anderson-de Boer form:
//
//	n = n_m·K·C·p / ((1 − Kp)(1 − Kp + KCp))
//
// It is a BET isotherm with N = K and an effective constant K·C.
type GAB struct {
	NM float64
	C  float64
	K  float64
}

var gabParams = []string{"n_m", "C", "K"}

func (GAB) Name() string             { return "GAB" }
func (GAB) Calculates() Quantity     { return QuantityLoading }
func (GAB) IASTEligible() bool       { return false }
func (m GAB) Params() Params         { return params(gabParams, m.NM, m.C, m.K) }
func (m GAB) HenryConstant() float64 { return m.NM * m.K * m.C }

func (GAB) DefaultBounds() Bounds {
	return Bounds{"n_m": NonNegative(), "C": NonNegative(), "K": NonNegative()}
}

func (m GAB) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, gabParams...)
	if err != nil {
		return nil, err
	}
	return GAB{NM: v[0], C: v[1], K: v[2]}, nil
}

func (m GAB) bet() BET {
	return BET{NM: m.NM, C: m.K * m.C, N: m.K}
}

func (m GAB) Loading(p float64) (float64, error) {
	return relabel(m)(m.bet().Loading(p))
}

func (m GAB) Pressure(n float64) (float64, error) {
	return relabel(m)(m.bet().Pressure(n))
}

func (m GAB) SpreadingPressure(p float64) (float64, error) {
	return relabel(m)(m.bet().SpreadingPressure(p))
}

func (m GAB) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(gabParams, sat, 10*k, 0.01), m.DefaultBounds()), nil
}

// relabel attributes domain errors raised by a delegate to m.
func relabel(m Model) func(float64, error) (float64, error) {
	return func(v float64, err error) (float64, error) {
		if de, ok := err.(*sorption.DomainError); ok {
			cp := *de
			cp.Component = m.Name()
			return v, &cp
		}
		return v, err
	}
}
