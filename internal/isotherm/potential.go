package isotherm

import (
	"math"

	"github.com/san-kum/adsorb/internal/sorption"
)

// GasConstant in J/(mol·K).
const GasConstant = 8.314462618

// Freundlich is the empirical power law n = K·p^(1/m).
type Freundlich struct {
	K float64
	M float64
}

var freundlichParams = []string{"K", "m"}

func (Freundlich) Name() string         { return "Freundlich" }
func (Freundlich) Calculates() Quantity { return QuantityLoading }
func (Freundlich) IASTEligible() bool   { return false }
func (m Freundlich) Params() Params     { return params(freundlichParams, m.K, m.M) }

func (Freundlich) DefaultBounds() Bounds {
	return Bounds{"K": NonNegative(), "m": NonNegative()}
}

func (m Freundlich) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, freundlichParams...)
	if err != nil {
		return nil, err
	}
	if v[1] <= 0 {
		return nil, sorption.Configf("params Freundlich", "exponent m must be positive, got %g", v[1])
	}
	return Freundlich{K: v[0], M: v[1]}, nil
}

func (m Freundlich) Loading(p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	return m.K * math.Pow(p, 1/m.M), nil
}

func (m Freundlich) Pressure(n float64) (float64, error) {
	if err := checkLoading(m, n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	if m.K == 0 {
		return 0, saturated(m, n, 0)
	}
	return math.Pow(n/m.K, m.M), nil
}

func (m Freundlich) SpreadingPressure(p float64) (float64, error) {
	n, err := m.Loading(p)
	return m.M * n, err
}

func (m Freundlich) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, k, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(freundlichParams, sat*k, 1), m.DefaultBounds()), nil
}

// DA is the Dubinin-Astakhov pore-filling isotherm on relative pressure:
//
//	n = n_m·exp(−(−RT·ln p / e)^m)
//
// It is defined for 0 <= p <= 1.
type DA struct {
	NM float64
	E  float64
	M  float64
	// Temperature sets RT; zero falls back to RT = 1000 J/mol.
	Temperature float64
}

var daParams = []string{"n_m", "e", "m"}

func (DA) Name() string         { return "DA" }
func (DA) Calculates() Quantity { return QuantityLoading }
func (DA) IASTEligible() bool   { return false }
func (m DA) Params() Params     { return params(daParams, m.NM, m.E, m.M) }

// HenryConstant is zero: loading vanishes faster than any power of p.
func (DA) HenryConstant() float64 { return 0 }

func (DA) DefaultBounds() Bounds {
	return Bounds{"n_m": NonNegative(), "e": NonNegative(), "m": {Lo: 1, Hi: 3}}
}

func (m DA) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, daParams...)
	if err != nil {
		return nil, err
	}
	return DA{NM: v[0], E: v[1], M: v[2], Temperature: m.Temperature}, nil
}

func rt(temperature float64) float64 {
	if temperature <= 0 {
		return 1000
	}
	return GasConstant * temperature
}

func potentialLoading(m Model, nm, e, exp, temperature, p float64) (float64, error) {
	if err := checkPressure(m, p); err != nil {
		return 0, err
	}
	if p > 1 {
		return 0, &sorption.DomainError{
			Op: "loading", Component: m.Name(), Value: p,
			Range: sorption.Range{Min: 0, Max: 1}, Reason: "relative pressure above saturation",
		}
	}
	if p == 0 {
		return 0, nil
	}
	return nm * math.Exp(-math.Pow(-rt(temperature)*math.Log(p)/e, exp)), nil
}

func potentialPressure(m Model, nm, e, exp, temperature, n float64) (float64, error) {
	if err := checkLoading(m, n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	if n > nm {
		return 0, saturated(m, n, nm)
	}
	return math.Exp(-e * math.Pow(-math.Log(n/nm), 1/exp) / rt(temperature)), nil
}

func (m DA) Loading(p float64) (float64, error) {
	return potentialLoading(m, m.NM, m.E, m.M, m.Temperature, p)
}

func (m DA) Pressure(n float64) (float64, error) {
	return potentialPressure(m, m.NM, m.E, m.M, m.Temperature, n)
}

func (m DA) SpreadingPressure(p float64) (float64, error) {
	return numericSpreading(m, p)
}

func (m DA) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, _, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(daParams, sat, rt(m.Temperature), 1), m.DefaultBounds()), nil
}

// DR is the Dubinin-Radushkevich isotherm, DA with m fixed at 2.
type DR struct {
	NM          float64
	E           float64
	Temperature float64
}

var drParams = []string{"n_m", "e"}

func (DR) Name() string           { return "DR" }
func (DR) Calculates() Quantity   { return QuantityLoading }
func (DR) IASTEligible() bool     { return false }
func (m DR) Params() Params       { return params(drParams, m.NM, m.E) }
func (DR) HenryConstant() float64 { return 0 }

func (DR) DefaultBounds() Bounds {
	return Bounds{"n_m": NonNegative(), "e": NonNegative()}
}

func (m DR) WithParams(p Params) (Model, error) {
	v, err := decode(m.Name(), p, drParams...)
	if err != nil {
		return nil, err
	}
	return DR{NM: v[0], E: v[1], Temperature: m.Temperature}, nil
}

func (m DR) Loading(p float64) (float64, error) {
	return potentialLoading(m, m.NM, m.E, 2, m.Temperature, p)
}

func (m DR) Pressure(n float64) (float64, error) {
	return potentialPressure(m, m.NM, m.E, 2, m.Temperature, n)
}

func (m DR) SpreadingPressure(p float64) (float64, error) {
	return numericSpreading(m, p)
}

func (m DR) InitialGuess(pressure, loading []float64) (Params, error) {
	sat, _, err := baseGuess(pressure, loading)
	if err != nil {
		return nil, err
	}
	return clip(params(drParams, sat, rt(m.Temperature)), m.DefaultBounds()), nil
}
