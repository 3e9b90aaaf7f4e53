package isotherm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/adsorb/internal/numeric"
	"github.com/san-kum/adsorb/internal/sorption"
)

// residualFunc fills r with the residuals of m against a data set.
type residualFunc func(m Model, r []float64) error

// objectiver is implemented by models that are not fitted on the plain
// difference in their explicit quantity.
type objectiver interface {
	objective(pressure, loading []float64, addPoint bool) (residualFunc, int, error)
}

// FitOptions tunes a single least-squares fit.
type FitOptions struct {
	// Guess overrides entries of the model's heuristic initial guess.
	Guess Params
	// Bounds overrides entries of the model's default bounds.
	Bounds Bounds
	// MaxIter and Tol configure the optimiser; zero keeps the defaults.
	MaxIter int
	Tol     float64
	// AddPoint lets the virial fit pin the low-loading region with a
	// synthetic point when the data has too few of its own.
	AddPoint bool
}

// FitResult is a calibrated model and its goodness of fit.
type FitResult struct {
	Model      Model
	RMSE       float64
	Iterations int
}

// Fit calibrates the parameters of m against the data by bounded
// Levenberg-Marquardt, starting from the model's heuristic guess.
// The input slices are not modified.
func Fit(m Model, pressure, loading []float64, opts FitOptions) (*FitResult, error) {
	if err := checkData(pressure, loading); err != nil {
		return nil, err
	}

	guess, err := m.InitialGuess(pressure, loading)
	if err != nil {
		return nil, &sorption.FitError{Model: m.Name(), Reason: "no initial guess", Err: err}
	}
	for _, g := range opts.Guess {
		if _, ok := guess.Get(g.Name); !ok {
			return nil, sorption.Configf("fit "+m.Name(), "unknown parameter %q in guess", g.Name)
		}
		guess = guess.With(g.Name, g.Value)
	}

	bounds := m.DefaultBounds().Merge(opts.Bounds)
	names := m.Params().Names()
	for name := range opts.Bounds {
		if _, ok := guess.Get(name); !ok {
			return nil, sorption.Configf("fit "+m.Name(), "unknown parameter %q in bounds", name)
		}
	}

	x0 := make([]float64, len(names))
	lower := make([]float64, len(names))
	upper := make([]float64, len(names))
	for i, name := range names {
		x0[i], _ = guess.Get(name)
		b, ok := bounds[name]
		if !ok {
			b = Free()
		}
		lower[i], upper[i] = b.Lo, b.Hi
	}

	obj, err := objectiveFor(m, pressure, loading, opts.AddPoint)
	if err != nil {
		return nil, err
	}

	f := func(x, r []float64) error {
		mm, err := m.WithParams(params(names, x...))
		if err != nil {
			return err
		}
		return obj.residual(mm, r)
	}

	lm := numeric.NewLevenbergMarquardt()
	if opts.MaxIter > 0 {
		lm.MaxIter = opts.MaxIter
	}
	if opts.Tol > 0 {
		lm.Tol = opts.Tol
	}

	sol, err := lm.Minimize(f, obj.count, x0, lower, upper)
	if err != nil {
		var last map[string]float64
		if sol.X != nil {
			last = params(names, sol.X...).Map()
		}
		return nil, &sorption.FitError{Model: m.Name(), Params: last, Reason: "optimizer did not converge", Err: err}
	}

	fitted := params(names, sol.X...)
	for i, name := range names {
		if !sorption.Finite(sol.X[i]) || !(Bound{Lo: lower[i], Hi: upper[i]}).Contains(sol.X[i]) {
			return nil, &sorption.FitError{Model: m.Name(), Params: fitted.Map(), Reason: "parameter " + name + " outside bounds"}
		}
	}

	out, err := m.WithParams(fitted)
	if err != nil {
		return nil, &sorption.FitError{Model: m.Name(), Params: fitted.Map(), Reason: "invalid fitted parameters", Err: err}
	}

	rmse := math.Sqrt(sol.Cost / float64(obj.count))
	if obj.measure != nil {
		r := make([]float64, len(obj.target))
		if err := obj.measure(out, r); err != nil {
			return nil, &sorption.FitError{Model: m.Name(), Params: fitted.Map(), Reason: "fitted model cannot be evaluated at the data", Err: err}
		}
		rmse = math.Sqrt(floats.Dot(r, r) / float64(len(r)))
	}
	if obj.target != nil {
		if spread := stat.PopStdDev(obj.target, nil); spread > 0 && rmse > spread {
			return nil, &sorption.FitError{
				Model: m.Name(), Params: fitted.Map(),
				Reason: fmt.Sprintf("rmse %g is no better than the spread of the data (%g)", rmse, spread),
			}
		}
	}

	return &FitResult{
		Model:      out,
		RMSE:       rmse,
		Iterations: sol.Iterations,
	}, nil
}

// objective is what the optimiser minimises and how the result is judged.
type objective struct {
	residual residualFunc
	count    int
	// measure reports the fit in the units of the explicit quantity when
	// residual works in other units.
	measure residualFunc
	// target is the data measure compares against. A fit whose rmse exceeds
	// the spread of target is rejected; nil skips that check.
	target []float64
}

func objectiveFor(m Model, pressure, loading []float64, addPoint bool) (objective, error) {
	if o, ok := m.(objectiver); ok {
		residual, count, err := o.objective(pressure, loading, addPoint)
		return objective{residual: residual, count: count}, err
	}
	if m.Calculates() == QuantityPressure {
		return pressureObjective(pressure, loading), nil
	}
	return objective{
		residual: func(mm Model, r []float64) error {
			for i, p := range pressure {
				n, err := mm.Loading(p)
				if err != nil {
					return err
				}
				r[i] = n - loading[i]
			}
			return nil
		},
		count:  len(pressure),
		target: loading,
	}, nil
}

// pressureObjective fits ln(p_model/p) so that pressures spanning decades
// weigh alike and a model collapsing to p = 0 is not a minimum. Points with
// a zero coordinate contribute a zero residual. The rmse is reported in
// pressure.
func pressureObjective(pressure, loading []float64) objective {
	return objective{
		residual: func(mm Model, r []float64) error {
			for i, n := range loading {
				if n == 0 || pressure[i] == 0 {
					r[i] = 0
					continue
				}
				p, err := mm.Pressure(n)
				if err != nil {
					return err
				}
				if !(p > 0) {
					return &sorption.DomainError{Op: "pressure", Component: mm.Name(), Value: n, Reason: "non-positive pressure"}
				}
				r[i] = math.Log(p / pressure[i])
			}
			return nil
		},
		count: len(loading),
		measure: func(mm Model, r []float64) error {
			for i, n := range loading {
				p, err := mm.Pressure(n)
				if err != nil {
					return err
				}
				r[i] = p - pressure[i]
			}
			return nil
		},
		target: pressure,
	}
}

func checkData(pressure, loading []float64) error {
	if len(pressure) != len(loading) {
		return sorption.Configf("fit", "pressure and loading lengths differ (%d vs %d)", len(pressure), len(loading))
	}
	if len(pressure) == 0 {
		return sorption.Configf("fit", "no data points")
	}
	for i := range pressure {
		if !sorption.Finite(pressure[i], loading[i]) || pressure[i] < 0 || loading[i] < 0 {
			return sorption.Configf("fit", "point %d (%g, %g) is negative or not finite", i, pressure[i], loading[i])
		}
	}
	return nil
}
