package isotherm

import (
	"math"
)

// WVST is the vacancy solution theory isotherm with Wilson activity
// coefficients. It is explicit in pressure, with cov = n/n_m:
//
//	p = n_m/K · cov/(1−cov) · Λ₁ᵥ(1−(1−Λᵥ₁)cov)/(Λ₁ᵥ+(1−Λ₁ᵥ)cov) · exp(−Λᵥ₁(1−Λᵥ₁)cov/(1−(1−Λᵥ₁)cov) − (1−Λ₁ᵥ)cov/(Λ₁ᵥ+(1−Λ₁ᵥ)cov))
type WVST struct {
	NM  float64
	K   float64
	L1v float64
	Lv1 float64
}

var wvstParams = []string{"n_m", "K", "L1v", "Lv1"}

func (WVST) Name() string             { return "WVST" }
func (WVST) Calculates() Quantity     { return QuantityPressure }
func (WVST) IASTEligible() bool       { return false }
func (m WVST) Params() Params         { return params(wvstParams, m.NM, m.K, m.L1v, m.Lv1) }
func (m WVST) HenryConstant() float64 { return m.K }

func (WVST) DefaultBounds() Bounds {
	return Bounds{"n_m": NonNegative(), "K": NonNegative(), "L1v": Free(), "Lv1": Free()}
}

func (m WVST) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, wvstParams...)
	if err != nil {
		return nil, err
	}
	return WVST{NM: v[0], K: v[1], L1v: v[2], Lv1: v[3]}, nil
}

func (m WVST) Pressure(n float64) (float64, error) {
	if err := checkLoading(m, n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	if n >= m.NM {
		return 0, saturated(m, n, m.NM)
	}
	cov := n / m.NM
	coef := m.L1v * (1 - (1-m.Lv1)*cov) / (m.L1v + (1-m.L1v)*cov)
	expcoef := -(m.Lv1*(1-m.Lv1)*cov)/(1-(1-m.Lv1)*cov) -
		(1-m.L1v)*cov/(m.L1v+(1-m.L1v)*cov)
	return m.NM / m.K * cov / (1 - cov) * coef * math.Exp(expcoef), nil
}

func (m WVST) Loading(p float64) (float64, error) {
	return loadingByRoot(m, p, below(m.NM))
}

func (m WVST) SpreadingPressure(p float64) (float64, error) {
	return numericSpreading(m, p)
}

func (m WVST) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(wvstParams, sat, k, 1, 1), m.DefaultBounds()), nil
}

// FHVST is the vacancy solution theory isotherm with Flory-Huggins
// activity coefficients:
//
//	p = n_m/K · cov/(1−cov) · exp(a₁ᵥ²·cov/(1 + a₁ᵥ·cov))
type FHVST struct {
	NM  float64
	K   float64
	A1v float64
}

var fhvstParams = []string{"n_m", "K", "a1v"}

func (FHVST) Name() string             { return "FHVST" }
func (FHVST) Calculates() Quantity     { return QuantityPressure }
func (FHVST) IASTEligible() bool       { return false }
func (m FHVST) Params() Params         { return params(fhvstParams, m.NM, m.K, m.A1v) }
func (m FHVST) HenryConstant() float64 { return m.K }

func (FHVST) DefaultBounds() Bounds {
	return Bounds{"n_m": NonNegative(), "K": NonNegative(), "a1v": Free()}
}

func (m FHVST) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, fhvstParams...)
	if err != nil {
		return nil, err
	}
	return FHVST{NM: v[0], K: v[1], A1v: v[2]}, nil
}

func (m FHVST) Pressure(n float64) (float64, error) {
	if err := checkLoading(m, n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	if n >= m.NM {
		return 0, saturated(m, n, m.NM)
	}
	cov := n / m.NM
	return m.NM / m.K * cov / (1 - cov) * math.Exp(m.A1v*m.A1v*cov/(1+m.A1v*cov)), nil
}

func (m FHVST) Loading(p float64) (float64, error) {
	return loadingByRoot(m, p, below(m.NM))
}

// SpreadingPressure integrates n·d(ln p) over coverage:
// π = n_m·(ln(1+a·cov) + 1/(1+a·cov) − 1 − ln(1−cov)).
func (m FHVST) SpreadingPressure(p float64) (float64, error) {
	n, err := m.Loading(p)
	if err != nil {
		return 0, err
	}
	cov := n / m.NM
	ac := 1 + m.A1v*cov
	return m.NM * (math.Log(ac) + 1/ac - 1 - math.Log1p(-cov)), nil
}

func (m FHVST) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	// a1v enters squared, so the fit is stationary in it at 0.
	return clip(params(fhvstParams, sat, k, 1), m.DefaultBounds()), nil
}
