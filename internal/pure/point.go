package pure

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/adsorb/internal/isotherm"
	"github.com/san-kum/adsorb/internal/sorption"
)

// Interpolation selects how a PointIsotherm joins its measurements.
type Interpolation int

const (
	// Monotone uses a Fritsch-Butland cubic, which cannot overshoot
	// between monotone data points.
	Monotone Interpolation = iota
	// Linear joins points with straight segments; its spreading pressure
	// is integrated exactly.
	Linear
)

func (i Interpolation) String() string {
	if i == Linear {
		return "linear"
	}
	return "monotone"
}

// PointIsotherm is a component described by measured points. Below the
// first point loading follows the Henry line through it; above the last
// point the strict policy refuses and the extrapolate policy holds the
// last loading constant.
type PointIsotherm struct {
	meta     Meta
	kind     Interpolation
	pressure []float64
	loading  []float64
	curve    interp.Predictor
	// cumulative spreading pressure at each data point
	spreading []float64
	engine    *isotherm.Spreading
}

// NewPointIsotherm sorts the points by pressure and builds the
// interpolant. Pressures must be positive and distinct, loadings
// non-negative and non-decreasing in pressure. The inputs are copied.
func NewPointIsotherm(pressure, loading []float64, kind Interpolation, meta Meta) (*PointIsotherm, error) {
	const op = "point isotherm"
	if len(pressure) != len(loading) {
		return nil, sorption.Configf(op, "pressure and loading lengths differ (%d vs %d)", len(pressure), len(loading))
	}
	if len(pressure) < 2 {
		return nil, sorption.Configf(op, "need at least two points, got %d", len(pressure))
	}

	idx := make([]int, len(pressure))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return pressure[idx[a]] < pressure[idx[b]] })

	pi := &PointIsotherm{
		meta:     meta,
		kind:     kind,
		pressure: make([]float64, len(idx)),
		loading:  make([]float64, len(idx)),
		engine:   isotherm.NewSpreading(),
	}
	if pi.meta.Label == "" {
		pi.meta.Label = "points"
	}
	for k, i := range idx {
		pi.pressure[k], pi.loading[k] = pressure[i], loading[i]
	}

	for k := range pi.pressure {
		p, n := pi.pressure[k], pi.loading[k]
		switch {
		case !sorption.Finite(p, n):
			return nil, sorption.Configf(op, "point %d is not finite", k)
		case p <= 0:
			return nil, sorption.Configf(op, "pressure %g must be positive", p)
		case n < 0:
			return nil, sorption.Configf(op, "loading %g must be non-negative", n)
		case k > 0 && p == pi.pressure[k-1]:
			return nil, sorption.Configf(op, "duplicate pressure %g", p)
		case k > 0 && n < pi.loading[k-1]:
			return nil, sorption.Configf(op, "loading decreases from %g to %g at pressure %g", pi.loading[k-1], n, p)
		}
	}

	switch kind {
	case Linear:
		var pl interp.PiecewiseLinear
		_ = pl.Fit(pi.pressure, pi.loading)
		pi.curve = pl
	default:
		var fb interp.FritschButland
		_ = fb.Fit(pi.pressure, pi.loading)
		pi.curve = &fb
	}

	if err := pi.tabulate(); err != nil {
		return nil, err
	}
	return pi, nil
}

// tabulate accumulates π at every data point.
func (pi *PointIsotherm) tabulate() error {
	pi.spreading = make([]float64, len(pi.pressure))
	pi.spreading[0] = pi.loading[0]
	for k := 1; k < len(pi.pressure); k++ {
		seg, err := pi.segment(k, pi.pressure[k])
		if err != nil {
			return err
		}
		pi.spreading[k] = pi.spreading[k-1] + seg
	}
	return nil
}

// segment integrates n/p from pressure[k-1] to p within segment k.
func (pi *PointIsotherm) segment(k int, p float64) (float64, error) {
	p1, p2 := pi.pressure[k-1], pi.pressure[k]
	if pi.kind == Linear {
		slope := (pi.loading[k] - pi.loading[k-1]) / (p2 - p1)
		intercept := pi.loading[k-1] - slope*p1
		return slope*(p-p1) + intercept*math.Log(p/p1), nil
	}
	return pi.engine.Integrate(func(x float64) (float64, error) {
		return pi.curve.Predict(x), nil
	}, p1, p)
}

func (pi *PointIsotherm) Label() string           { return pi.meta.Label }
func (pi *PointIsotherm) Units() Units            { return pi.meta.Units }
func (pi *PointIsotherm) Policy() sorption.Policy { return pi.meta.Policy }
func (pi *PointIsotherm) IASTEligible() bool      { return true }
func (pi *PointIsotherm) Interpolation() Interpolation {
	return pi.kind
}

// Points returns copies of the sorted data.
func (pi *PointIsotherm) Points() (pressure, loading []float64) {
	return append([]float64(nil), pi.pressure...), append([]float64(nil), pi.loading...)
}

func (pi *PointIsotherm) DataRange() sorption.Range {
	return sorption.Range{Min: pi.pressure[0], Max: pi.pressure[len(pi.pressure)-1]}
}

func (pi *PointIsotherm) Domain() sorption.Range {
	if pi.meta.Policy == sorption.PolicyExtrapolate {
		return sorption.Unbounded()
	}
	return sorption.Range{Min: 0, Max: pi.pressure[len(pi.pressure)-1]}
}

func (pi *PointIsotherm) henry() float64 {
	return pi.loading[0] / pi.pressure[0]
}

func (pi *PointIsotherm) last() (float64, float64) {
	k := len(pi.pressure) - 1
	return pi.pressure[k], pi.loading[k]
}

func (pi *PointIsotherm) LoadingAt(p float64) (float64, error) {
	pMax, nMax := pi.last()
	switch {
	case p < 0 || math.IsNaN(p):
		return 0, negative(pi, "loading", p)
	case p <= pi.pressure[0]:
		return pi.henry() * p, nil
	case p <= pMax:
		return pi.curve.Predict(p), nil
	case pi.Domain().Exceeds(p):
		return 0, beyond(pi, "loading", p)
	}
	return nMax, nil
}

func (pi *PointIsotherm) PressureAt(n float64) (float64, error) {
	pMax, nMax := pi.last()
	switch {
	case n < 0 || math.IsNaN(n):
		return 0, negative(pi, "pressure", n)
	case n == 0:
		return 0, nil
	case n <= pi.loading[0]:
		return n / pi.henry(), nil
	case n > nMax:
		return 0, &sorption.DomainError{
			Op: "pressure", Component: pi.Label(), Value: n,
			Range:  sorption.Range{Min: 0, Max: nMax},
			Reason: "loading above the highest measured point",
		}
	}

	f := func(p float64) (float64, error) {
		q, err := pi.LoadingAt(p)
		return q - n, err
	}
	root, err := spreadingRoot.Solve(f, pi.pressure[0], pMax)
	return root.X, err
}

func (pi *PointIsotherm) SpreadingPressureAt(p float64) (float64, error) {
	pMax, nMax := pi.last()
	switch {
	case p < 0 || math.IsNaN(p):
		return 0, negative(pi, "spreading pressure", p)
	case p <= pi.pressure[0]:
		return pi.henry() * p, nil
	case p > pMax:
		if pi.Domain().Exceeds(p) {
			return 0, beyond(pi, "spreading pressure", p)
		}
		return pi.spreading[len(pi.spreading)-1] + nMax*math.Log(p/pMax), nil
	}

	k := sort.SearchFloat64s(pi.pressure, p)
	if pi.pressure[k] == p {
		return pi.spreading[k], nil
	}
	seg, err := pi.segment(k, p)
	if err != nil {
		return 0, err
	}
	return pi.spreading[k-1] + seg, nil
}

func (pi *PointIsotherm) PressureAtSpreading(target float64) (float64, error) {
	if target <= pi.spreading[0] {
		switch {
		case target < 0 || math.IsNaN(target):
			return 0, negative(pi, "pressure at spreading", target)
		case target == 0:
			return 0, nil
		}
		return target / pi.henry(), nil
	}
	return invertSpreading(pi, target, pi.pressure[len(pi.pressure)-1])
}
