package isotherm

import (
	"math"

	"github.com/san-kum/adsorb/internal/sorption"
)

// Virial is explicit in pressure:
//
//	p = n·exp(−ln K + A·n + B·n² + C·n³)
//
// It is fitted in ln(p/n) space, where it is a cubic polynomial in n.
type Virial struct {
	K, A, B, C float64
}

var virialParams = []string{"K", "A", "B", "C"}

func (Virial) Name() string             { return "Virial" }
func (Virial) Calculates() Quantity     { return QuantityPressure }
func (Virial) IASTEligible() bool       { return false }
func (m Virial) Params() Params         { return params(virialParams, m.K, m.A, m.B, m.C) }
func (m Virial) HenryConstant() float64 { return m.K }

func (Virial) DefaultBounds() Bounds {
	return Bounds{"K": NonNegative(), "A": Free(), "B": Free(), "C": Free()}
}

func (m Virial) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, virialParams...)
	if err != nil {
		return nil, err
	}
	return Virial{K: v[0], A: v[1], B: v[2], C: v[3]}, nil
}

func (m Virial) lnPOverN(n float64) float64 {
	return -math.Log(m.K) + m.A*n + m.B*n*n + m.C*n*n*n
}

func (m Virial) Pressure(n float64) (float64, error) {
	if err := checkLoading(m, n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return n * math.Exp(m.lnPOverN(n)), nil
}

func (m Virial) Loading(p float64) (float64, error) {
	return loadingByRoot(m, p, math.Inf(1))
}

// SpreadingPressure integrates n·d(ln p) in loading space:
// π = n + A·n²/2 + 2B·n³/3 + 3C·n⁴/4.
func (m Virial) SpreadingPressure(p float64) (float64, error) {
	n, err := m.Loading(p)
	if err != nil {
		return 0, err
	}
	n2 := n * n
	return n + m.A*n2/2 + 2*m.B*n2*n/3 + 3*m.C*n2*n2/4, nil
}

func (m Virial) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(virialParams, sat*k, 0, 0, 0), m.DefaultBounds()), nil
}

// objective fits ln(p/n) against the cubic. Points with a zero coordinate
// are dropped. With fewer than three points below half the maximum loading
// the low-loading region is unconstrained; addPoint then pins it with a
// synthetic point at n = 0.1 that repeats ln(p/n) of the lowest loading.
func (m Virial) objective(pressure, loading []float64, addPoint bool) (residualFunc, int, error) {
	var ns, lnRatio []float64
	maxN := 0.0
	for i := range pressure {
		if pressure[i] > 0 && loading[i] > 0 {
			ns = append(ns, loading[i])
			lnRatio = append(lnRatio, math.Log(pressure[i]/loading[i]))
			maxN = math.Max(maxN, loading[i])
		}
	}
	if len(ns) == 0 {
		return nil, 0, sorption.Configf("fit Virial", "no points with positive pressure and loading")
	}

	low, lowest := 0, 0
	for i, n := range ns {
		if n/maxN < 0.5 {
			low++
		}
		if n < ns[lowest] {
			lowest = i
		}
	}
	if low < 3 {
		if !addPoint {
			return nil, 0, &sorption.FitError{
				Model:  m.Name(),
				Reason: "fewer than three points below 0.5 fractional loading; the polynomial is unstable at low loading (enable add-point or record more low-pressure data)",
			}
		}
		ns = append([]float64{0.1}, ns...)
		lnRatio = append([]float64{lnRatio[lowest]}, lnRatio...)
	}

	return func(mm Model, r []float64) error {
		v := mm.(Virial)
		for i, n := range ns {
			r[i] = v.lnPOverN(n) - lnRatio[i]
		}
		return nil
	}, len(ns), nil
}
