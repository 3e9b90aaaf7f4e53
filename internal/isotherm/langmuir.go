package isotherm

import (
	"math"

	"github.com/san-kum/adsorb/internal/sorption"
)

// Henry is the linear isotherm n = K·p.
type Henry struct {
	K float64
}

var henryParams = []string{"K"}

func (Henry) Name() string             { return "Henry" }
func (Henry) Calculates() Quantity     { return QuantityLoading }
func (Henry) IASTEligible() bool       { return true }
func (m Henry) Params() Params         { return params(henryParams, m.K) }
func (m Henry) HenryConstant() float64 { return m.K }

func (Henry) DefaultBounds() Bounds {
	return Bounds{"K": NonNegative()}
}

func (m Henry) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, henryParams...)
	if err != nil {
		return nil, err
	}
	return Henry{K: v[0]}, nil
}

func (m Henry) Loading(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	return m.K * p, nil
}

func (m Henry) Pressure(n float64) (float64, error) {
	if err := checkLoading(m, n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	if m.K == 0 {
		return 0, saturated(m, n, 0)
	}
	return n / m.K, nil
}

func (m Henry) SpreadingPressure(p float64) (float64, error) {
	return m.Loading(p)
}

func (m Henry) PressureAtSpreading(pi float64) (float64, error) {
	return m.Pressure(pi)
}

func (m Henry) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(henryParams, sat*k), m.DefaultBounds()), nil
}

// Langmuir is the single-site isotherm n = n_m·Kp/(1+Kp).
type Langmuir struct {
	NM float64
	K  float64
}

var langmuirParams = []string{"n_m", "K"}

func (Langmuir) Name() string             { return "Langmuir" }
func (Langmuir) Calculates() Quantity     { return QuantityLoading }
func (Langmuir) IASTEligible() bool       { return true }
func (m Langmuir) Params() Params         { return params(langmuirParams, m.NM, m.K) }
func (m Langmuir) HenryConstant() float64 { return m.NM * m.K }

func (Langmuir) DefaultBounds() Bounds {
	return Bounds{"n_m": NonNegative(), "K": NonNegative()}
}

func (m Langmuir) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, langmuirParams...)
	if err != nil {
		return nil, err
	}
	return Langmuir{NM: v[0], K: v[1]}, nil
}

func (m Langmuir) Loading(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	return site(m.NM, m.K, p), nil
}

func (m Langmuir) Pressure(n float64) (float64, error) {
	if err := checkLoading(m, n); err != nil {
		return 0, err
	}
	if n >= m.NM || m.K == 0 {
		return 0, saturated(m, n, m.NM)
	}
	return n / (m.K * (m.NM - n)), nil
}

func (m Langmuir) SpreadingPressure(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	return m.NM * math.Log1p(m.K*p), nil
}

func (m Langmuir) PressureAtSpreading(pi float64) (float64, error) {
	if pi < 0 || m.K == 0 || m.NM == 0 {
		return 0, &sorption.DomainError{Op: "pressure at spreading", Component: m.Name(), Value: pi}
	}
	p := math.Expm1(pi/m.NM) / m.K
	if math.IsInf(p, 1) {
		return 0, &sorption.DomainError{Op: "pressure at spreading", Component: m.Name(), Value: pi, Reason: "pressure overflows"}
	}
	return p, nil
}

func (m Langmuir) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(langmuirParams, sat, k), m.DefaultBounds()), nil
}

// DSLangmuir sums two independent Langmuir sites.
type DSLangmuir struct {
	NM1, K1 float64
	NM2, K2 float64
}

var dsLangmuirParams = []string{"n_m1", "K1", "n_m2", "K2"}

func (DSLangmuir) Name() string         { return "DSLangmuir" }
func (DSLangmuir) Calculates() Quantity { return QuantityLoading }
func (DSLangmuir) IASTEligible() bool   { return true }

func (m DSLangmuir) Params() Params {
	return params(dsLangmuirParams, m.NM1, m.K1, m.NM2, m.K2)
}

func (m DSLangmuir) HenryConstant() float64 { return m.NM1*m.K1 + m.NM2*m.K2 }

func (DSLangmuir) DefaultBounds() Bounds {
	return Bounds{"n_m1": NonNegative(), "K1": NonNegative(), "n_m2": NonNegative(), "K2": NonNegative()}
}

func (m DSLangmuir) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, dsLangmuirParams...)
	if err != nil {
		return nil, err
	}
	return DSLangmuir{NM1: v[0], K1: v[1], NM2: v[2], K2: v[3]}, nil
}

func (m DSLangmuir) Loading(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	return site(m.NM1, m.K1, p) + site(m.NM2, m.K2, p), nil
}

// Pressure solves the quadratic obtained by clearing both denominators:
// K1K2(n−n1−n2)p² + (n(K1+K2) − n1K1 − n2K2)p + n = 0.
func (m DSLangmuir) Pressure(n float64) (float64, error) {
	if err := checkLoading(m, n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	if n >= m.NM1+m.NM2 {
		return 0, saturated(m, n, m.NM1+m.NM2)
	}
	a := m.K1 * m.K2 * (n - m.NM1 - m.NM2)
	b := n*(m.K1+m.K2) - m.NM1*m.K1 - m.NM2*m.K2
	if p, ok := positiveRoot(a, b, n); ok {
		return p, nil
	}
	return pressureByRoot(m, n, math.Inf(1))
}

func (m DSLangmuir) SpreadingPressure(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	return m.NM1*math.Log1p(m.K1*p) + m.NM2*math.Log1p(m.K2*p), nil
}

func (m DSLangmuir) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(dsLangmuirParams, 0.5*sat, 0.4*k, 0.5*sat, 0.6*k), m.DefaultBounds()), nil
}

// TSLangmuir sums three independent Langmuir sites.
type TSLangmuir struct {
	NM1, K1 float64
	NM2, K2 float64
	NM3, K3 float64
}

var tsLangmuirParams = []string{"n_m1", "K1", "n_m2", "K2", "n_m3", "K3"}

func (TSLangmuir) Name() string         { return "TSLangmuir" }
func (TSLangmuir) Calculates() Quantity { return QuantityLoading }
func (TSLangmuir) IASTEligible() bool   { return true }

func (m TSLangmuir) Params() Params {
	return params(tsLangmuirParams, m.NM1, m.K1, m.NM2, m.K2, m.NM3, m.K3)
}

func (m TSLangmuir) HenryConstant() float64 {
	return m.NM1*m.K1 + m.NM2*m.K2 + m.NM3*m.K3
}

func (m TSLangmuir) DefaultBounds() Bounds {
	b := Bounds{}
	for _, n := range tsLangmuirParams {
		b[n] = NonNegative()
	}
	return b
}

func (m TSLangmuir) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, tsLangmuirParams...)
	if err != nil {
		return nil, err
	}
	return TSLangmuir{NM1: v[0], K1: v[1], NM2: v[2], K2: v[3], NM3: v[4], K3: v[5]}, nil
}

func (m TSLangmuir) Loading(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	return site(m.NM1, m.K1, p) + site(m.NM2, m.K2, p) + site(m.NM3, m.K3, p), nil
}

func (m TSLangmuir) Pressure(n float64) (float64, error) {
	if capacity := m.NM1 + m.NM2 + m.NM3; n >= capacity {
		return 0, saturated(m, n, capacity)
	}
	return pressureByRoot(m, n, math.Inf(1))
}

func (m TSLangmuir) SpreadingPressure(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	return m.NM1*math.Log1p(m.K1*p) + m.NM2*math.Log1p(m.K2*p) + m.NM3*math.Log1p(m.K3*p), nil
}

func (m TSLangmuir) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(tsLangmuirParams, 0.4*sat, 0.2*k, 0.4*sat, 0.4*k, 0.2*sat, 0.4*k), m.DefaultBounds()), nil
}

func site(nm, k, p float64) float64 {
	return nm * k * p / (1 + k*p)
}

// positiveRoot returns the non-negative root of ax² + bx + c = 0 for c > 0,
// in the cancellation-free form 2c / (−b + √(b² − 4ac)).
func positiveRoot(a, b, c float64) (float64, bool) {
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	den := -b + math.Sqrt(disc)
	if den <= 0 {
		return 0, false
	}
	x := 2 * c / den
	return x, sorption.Finite(x) && x >= 0
}
