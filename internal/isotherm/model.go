package isotherm

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/adsorb/internal/sorption"
)

// Quantity names the variable a model evaluates in closed form.
type Quantity int

const (
	// QuantityLoading models are explicit in loading: n = f(p).
	QuantityLoading Quantity = iota
	// QuantityPressure models are explicit in pressure: p = g(n).
	QuantityPressure
)

func (q Quantity) String() string {
	if q == QuantityPressure {
		return "pressure"
	}
	return "loading"
}

// Model is a parametrised single-component isotherm.
//
// Implementations are immutable values: WithParams returns a new model and
// never modifies the receiver. Loading must be non-decreasing in pressure
// over the model's domain.
type Model interface {
	Name() string
	Calculates() Quantity
	IASTEligible() bool

	Params() Params
	DefaultBounds() Bounds
	WithParams(p Params) (Model, error)

	Loading(pressure float64) (float64, error)
	Pressure(loading float64) (float64, error)
	// SpreadingPressure returns the reduced spreading pressure
	// πA/RT = ∫₀ᵖ n(p')/p' dp', in loading units.
	SpreadingPressure(pressure float64) (float64, error)

	InitialGuess(pressure, loading []float64) (Params, error)
}

// HenryLimiter is implemented by models that know their low-pressure slope
// dn/dp at p = 0.
type HenryLimiter interface {
	HenryConstant() float64
}

// SpreadingInverter is implemented by models with a closed-form inverse of
// their spreading pressure.
type SpreadingInverter interface {
	PressureAtSpreading(pi float64) (float64, error)
}

// Param is a named model parameter.
type Param struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// Params is an ordered parameter set.
type Params []Param

// Get returns the value of the named parameter.
func (ps Params) Get(name string) (float64, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return 0, false
}

// With returns a copy of ps with name set to v, appending it if absent.
func (ps Params) With(name string, v float64) Params {
	out := ps.Clone()
	for i := range out {
		if out[i].Name == name {
			out[i].Value = v
			return out
		}
	}
	return append(out, Param{Name: name, Value: v})
}

func (ps Params) Clone() Params {
	out := make(Params, len(ps))
	copy(out, ps)
	return out
}

func (ps Params) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

func (ps Params) Values() []float64 {
	vals := make([]float64, len(ps))
	for i, p := range ps {
		vals[i] = p.Value
	}
	return vals
}

func (ps Params) Map() map[string]float64 {
	m := make(map[string]float64, len(ps))
	for _, p := range ps {
		m[p.Name] = p.Value
	}
	return m
}

// ParamsFromMap orders m by names. Unknown keys in m are ignored.
func ParamsFromMap(names []string, m map[string]float64) Params {
	ps := make(Params, 0, len(names))
	for _, n := range names {
		if v, ok := m[n]; ok {
			ps = append(ps, Param{Name: n, Value: v})
		}
	}
	return ps
}

func (ps Params) String() string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("%s=%.6g", p.Name, p.Value)
	}
	return strings.Join(parts, ", ")
}

// Bound is a closed parameter interval; infinite ends are allowed.
type Bound struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// NonNegative is [0, +Inf).
func NonNegative() Bound { return Bound{Lo: 0, Hi: math.Inf(1)} }

// Free is (-Inf, +Inf).
func Free() Bound { return Bound{Lo: math.Inf(-1), Hi: math.Inf(1)} }

func (b Bound) Contains(v float64) bool { return v >= b.Lo && v <= b.Hi }

func (b Bound) Clip(v float64) float64 { return math.Min(math.Max(v, b.Lo), b.Hi) }

// Bounds maps parameter names to their admissible intervals.
type Bounds map[string]Bound

// Merge returns b overridden by the entries of o.
func (b Bounds) Merge(o Bounds) Bounds {
	out := make(Bounds, len(b)+len(o))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Settings are the non-fitted inputs some models need.
type Settings struct {
	// Temperature in kelvin; potential-theory models use it for RT.
	Temperature float64
}

// Describe renders a one-line summary of a model.
func Describe(m Model) string {
	flag := ""
	if m.IASTEligible() {
		flag = " [IAST]"
	}
	return fmt.Sprintf("%s(%s)%s", m.Name(), m.Params(), flag)
}

// decode pulls the named parameters out of p in order.
func decode(model string, p Params, names ...string) ([]float64, error) {
	vals := make([]float64, len(names))
	for i, name := range names {
		v, ok := p.Get(name)
		if !ok {
			return nil, sorption.Configf("params "+model, "missing parameter %q", name)
		}
		if !sorption.Finite(v) {
			return nil, sorption.Configf("params "+model, "parameter %q is not finite", name)
		}
		vals[i] = v
	}
	return vals, nil
}

func params(names []string, vals ...float64) Params {
	ps := make(Params, len(names))
	for i, n := range names {
		ps[i] = Param{Name: n, Value: vals[i]}
	}
	return ps
}

func checkPressure(m Model, p float64) error {
	if p < 0 || math.IsNaN(p) {
		return &sorption.DomainError{Op: "loading", Component: m.Name(), Value: p, Reason: "pressure must be non-negative"}
	}
	return nil
}

func checkLoading(m Model, n float64) error {
	if n < 0 || math.IsNaN(n) {
		return &sorption.DomainError{Op: "pressure", Component: m.Name(), Value: n, Reason: "loading must be non-negative"}
	}
	return nil
}

func saturated(m Model, n, capacity float64) error {
	return &sorption.DomainError{
		Op: "pressure", Component: m.Name(), Value: n,
		Range:  sorption.Range{Min: 0, Max: capacity},
		Reason: "loading at or above saturation capacity",
	}
}
