package isotherm

import (
	"math"
)

// Toth is the heterogeneous-surface isotherm n = n_m·Kp / (1 + (Kp)^t)^(1/t).
type Toth struct {
	NM float64
	K  float64
	T  float64
}

var tothParams = []string{"n_m", "K", "t"}

func (Toth) Name() string             { return "Toth" }
func (Toth) Calculates() Quantity     { return QuantityLoading }
func (Toth) IASTEligible() bool       { return true }
func (m Toth) Params() Params         { return params(tothParams, m.NM, m.K, m.T) }
func (m Toth) HenryConstant() float64 { return m.NM * m.K }

func (Toth) DefaultBounds() Bounds {
	return Bounds{"n_m": NonNegative(), "K": NonNegative(), "t": NonNegative()}
}

func (m Toth) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, tothParams...)
	if err != nil {
		return nil, err
	}
	return Toth{NM: v[0], K: v[1], T: v[2]}, nil
}

func tothSite(nm, k, t, p float64) float64 {
	kp := k * p
	return nm * kp / math.Pow(1+math.Pow(kp, t), 1/t)
}

func (m Toth) Loading(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	return tothSite(m.NM, m.K, m.T, p), nil
}

func (m Toth) Pressure(n float64) (float64, error) {
	if n >= m.NM {
		return 0, saturated(m, n, m.NM)
	}
	return pressureByRoot(m, n, math.Inf(1))
}

func (m Toth) SpreadingPressure(p float64) (float64, error) {
	return numericSpreading(m, p)
}

func (m Toth) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(tothParams, sat, k, 1), m.DefaultBounds()), nil
}

// DSToth sums two Toth sites.
type DSToth struct {
	NM1, K1, T1 float64
	NM2, K2, T2 float64
}

var dsTothParams = []string{"n_m1", "K1", "t1", "n_m2", "K2", "t2"}

func (DSToth) Name() string         { return "DSToth" }
func (DSToth) Calculates() Quantity { return QuantityLoading }
func (DSToth) IASTEligible() bool   { return true }

func (m DSToth) Params() Params {
	return params(dsTothParams, m.NM1, m.K1, m.T1, m.NM2, m.K2, m.T2)
}

func (m DSToth) HenryConstant() float64 { return m.NM1*m.K1 + m.NM2*m.K2 }

func (DSToth) DefaultBounds() Bounds {
	b := Bounds{}
	for _, n := range dsTothParams {
		b[n] = NonNegative()
	}
	return b
}

func (m DSToth) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, dsTothParams...)
	if err != nil {
		return nil, err
	}
	return DSToth{NM1: v[0], K1: v[1], T1: v[2], NM2: v[3], K2: v[4], T2: v[5]}, nil
}

func (m DSToth) Loading(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	return tothSite(m.NM1, m.K1, m.T1, p) + tothSite(m.NM2, m.K2, m.T2, p), nil
}

func (m DSToth) Pressure(n float64) (float64, error) {
	if capacity := m.NM1 + m.NM2; n >= capacity {
		return 0, saturated(m, n, capacity)
	}
	return pressureByRoot(m, n, math.Inf(1))
}

func (m DSToth) SpreadingPressure(p float64) (float64, error) {
	return numericSpreading(m, p)
}

func (m DSToth) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(dsTothParams, 0.5*sat, 0.4*k, 1, 0.5*sat, 0.6*k, 1), m.DefaultBounds()), nil
}

// JensenSeaton is the virial-like form
//
//	n = K·p / (1 + (K·p / (a·(1 + b·p)))^c)^(1/c)
//
// which keeps growing linearly at high pressure as b·p dominates.
type JensenSeaton struct {
	K, A, B, C float64
}

var jensenSeatonParams = []string{"K", "a", "b", "c"}

func (JensenSeaton) Name() string             { return "JensenSeaton" }
func (JensenSeaton) Calculates() Quantity     { return QuantityLoading }
func (JensenSeaton) IASTEligible() bool       { return true }
func (m JensenSeaton) Params() Params         { return params(jensenSeatonParams, m.K, m.A, m.B, m.C) }
func (m JensenSeaton) HenryConstant() float64 { return m.K }

func (JensenSeaton) DefaultBounds() Bounds {
	return Bounds{"K": NonNegative(), "a": NonNegative(), "b": NonNegative(), "c": NonNegative()}
}

func (m JensenSeaton) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, jensenSeatonParams...)
	if err != nil {
		return nil, err
	}
	return JensenSeaton{K: v[0], A: v[1], B: v[2], C: v[3]}, nil
}

func (m JensenSeaton) Loading(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	kp := m.K * p
	return kp / math.Pow(1+math.Pow(kp/(m.A*(1+m.B*p)), m.C), 1/m.C), nil
}

func (m JensenSeaton) Pressure(n float64) (float64, error) {
	return pressureByRoot(m, n, math.Inf(1))
}

func (m JensenSeaton) SpreadingPressure(p float64) (float64, error) {
	return numericSpreading(m, p)
}

func (m JensenSeaton) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(jensenSeatonParams, sat*k, 1, 1, 1), m.DefaultBounds()), nil
}
