package iast

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-logr/logr"

	"github.com/san-kum/adsorb/internal/numeric"
	"github.com/san-kum/adsorb/internal/sorption"
)

// lowerRatio places the lower end of the π bracket below the upper end.
const lowerRatio = 1e-12

// Options configures a Solver.
type Options struct {
	// Tolerance is the relative tolerance on the spreading pressure.
	Tolerance     float64
	MaxIterations int
	// Workers bounds the goroutines a sweep uses; one keeps sweeps serial.
	Workers int
	Logger  logr.Logger
}

func DefaultOptions() Options {
	return Options{
		Tolerance:     1e-4,
		MaxIterations: 100,
		Workers:       1,
		Logger:        logr.Discard(),
	}
}

// Solver computes mixture equilibria. It holds no per-solve state and is
// safe for concurrent use.
type Solver struct {
	opts Options
	root *numeric.Brent
	log  logr.Logger
}

// NewSolver fills unset options with their defaults.
func NewSolver(opts Options) *Solver {
	def := DefaultOptions()
	if opts.Tolerance <= 0 {
		opts.Tolerance = def.Tolerance
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = def.MaxIterations
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = def.Logger
	}

	return &Solver{
		opts: opts,
		// in ln π an absolute tolerance is relative on π
		root: &numeric.Brent{AbsTol: opts.Tolerance, MaxIter: opts.MaxIterations},
		log:  opts.Logger.WithName("iast"),
	}
}

func (s *Solver) Options() Options { return s.opts }

// Forward finds the adsorbed phase in equilibrium with bulk composition y
// at total pressure.
func (s *Solver) Forward(mix *Mixture, y []float64, total float64) (*State, error) {
	if err := checkTotal("forward", total); err != nil {
		return nil, err
	}
	if err := mix.checkFractions("forward", y); err != nil {
		return nil, err
	}
	return s.solve(mix, Forward, y, total)
}

// Reverse finds the bulk composition that yields adsorbed composition x at
// total pressure.
func (s *Solver) Reverse(mix *Mixture, x []float64, total float64) (*State, error) {
	if err := checkTotal("reverse", total); err != nil {
		return nil, err
	}
	if err := mix.checkFractions("reverse", x); err != nil {
		return nil, err
	}
	return s.solve(mix, Reverse, x, total)
}

func checkTotal(op string, total float64) error {
	if !sorption.Finite(total) || total <= 0 {
		return sorption.Configf(op, "total pressure must be positive, got %g", total)
	}
	return nil
}

// solve reduces the equilibrium to one equation in u = ln π. The given
// fractions are y in forward mode and x in reverse mode; the equation is
// decreasing in u for the former and increasing for the latter.
func (s *Solver) solve(mix *Mixture, mode Mode, given []float64, total float64) (*State, error) {
	op := mode.String()

	var active []int
	for i, f := range given {
		if f > 0 {
			active = append(active, i)
		}
	}

	hi, capped, err := s.bracket(mix, active, total)
	if err != nil {
		return nil, err
	}

	var evalErr error
	eq := func(u float64) (float64, error) {
		pi := math.Exp(u)
		sum := 0.0
		for _, i := range active {
			p, err := mix.components[i].PressureAtSpreading(pi)
			if err != nil {
				evalErr = err
				return 0, err
			}
			if mode == Forward {
				if p <= 0 {
					return math.MaxFloat64, nil
				}
				sum += given[i] * total / p
			} else {
				sum += given[i] * p / total
			}
		}
		return sum - 1, nil
	}

	uhi := math.Log(hi)
	ulo := math.Log(hi * lowerRatio)
	flo, err := eq(ulo)
	if err != nil {
		return nil, err
	}
	fhi, err := eq(uhi)
	if err != nil {
		return nil, err
	}

	// the upper end must lie past the root
	if (mode == Forward && fhi > 0) || (mode == Reverse && fhi < 0) {
		if capped {
			return nil, &sorption.DomainError{
				Op: op, Value: hi,
				Reason: "equilibrium spreading pressure lies beyond a component's admissible range",
			}
		}
		return nil, &sorption.ConvergenceError{
			Op: op, Estimate: hi, Residual: fhi, Reason: "no sign change in the initial bracket",
		}
	}

	s.log.V(1).Info("bracket established", "mode", op, "components", mix.Labels(),
		"pressure", total, "piLo", hi*lowerRatio, "piHi", hi, "status", StatusInitial)

	root, err := s.root.SolveBracket(eq, ulo, uhi, flo, fhi)
	if err != nil {
		s.log.V(1).Info("solve failed", "mode", op, "iterations", root.Iterations, "error", err.Error())
		// the root search runs in ln π
		var ce *sorption.ConvergenceError
		if evalErr == nil && errors.As(err, &ce) {
			cp := *ce
			cp.Estimate = math.Exp(ce.Estimate)
			return nil, &cp
		}
		return nil, err
	}

	st, err := s.assemble(mix, mode, given, total, math.Exp(root.X))
	if err != nil {
		return nil, err
	}
	st.Iterations = root.Iterations

	s.log.V(1).Info("converged", "mode", op, "spreadingPressure", st.SpreadingPressure,
		"iterations", st.Iterations, "residual", st.Residual, "totalLoading", st.TotalLoading)
	for _, w := range st.Warnings {
		s.log.Info("numerical warning", "component", w.Component, "message", w.Message)
	}
	return st, nil
}

// bracket returns the upper end of the π search. It is the largest
// spreading pressure any present component reaches alone at the total
// pressure, capped at the smallest π any of them reaches at the edge of its
// domain. capped reports whether the cap applied.
func (s *Solver) bracket(mix *Mixture, active []int, total float64) (hi float64, capped bool, err error) {
	limit := math.Inf(1)
	for _, i := range active {
		c := mix.components[i]
		p := total
		if d := c.Domain(); d.Bounded() {
			edge, err := c.SpreadingPressureAt(d.Max)
			if err != nil {
				return 0, false, err
			}
			limit = math.Min(limit, edge)
			p = math.Min(p, d.Max)
		}
		pi, err := c.SpreadingPressureAt(p)
		if err != nil {
			return 0, false, err
		}
		hi = math.Max(hi, pi)
	}

	if hi >= limit {
		hi, capped = limit, true
	}
	if !(hi > 0) || math.IsInf(hi, 1) {
		return 0, false, &sorption.ConvergenceError{
			Op: "bracket", Estimate: hi, Reason: "degenerate spreading pressure bracket",
		}
	}
	return hi, capped, nil
}

// assemble builds the equilibrium at the converged spreading pressure. The
// computed fractions are renormalised; Residual keeps their raw deviation
// from one.
func (s *Solver) assemble(mix *Mixture, mode Mode, given []float64, total, pi float64) (*State, error) {
	n := mix.Len()
	st := &State{
		Mode:              mode,
		Components:        mix.Labels(),
		Y:                 make([]float64, n),
		X:                 make([]float64, n),
		Loading:           make([]float64, n),
		Pressure0:         make([]float64, n),
		SpreadingPressure: pi,
		TotalPressure:     total,
		Status:            StatusIterate,
	}

	solved := st.X
	if mode == Forward {
		copy(st.Y, given)
	} else {
		copy(st.X, given)
		solved = st.Y
	}

	sum := 0.0
	for i, f := range given {
		if f == 0 {
			continue
		}
		c := mix.components[i]
		p, err := c.PressureAtSpreading(pi)
		if err != nil {
			return nil, err
		}
		if p <= 0 {
			return nil, &sorption.DomainError{Op: mode.String(), Component: c.Label(), Value: p, Reason: "non-positive pure-component pressure"}
		}
		st.Pressure0[i] = p
		if mode == Forward {
			solved[i] = f * total / p
		} else {
			solved[i] = f * p / total
		}
		sum += solved[i]

		if r := c.DataRange(); r.Exceeds(p) {
			st.Warnings = append(st.Warnings, sorption.Warning{
				Component: c.Label(),
				Message:   fmt.Sprintf("pure-component pressure %.6g extrapolates beyond the data range %v", p, r),
			})
		}
	}
	st.Residual = sum - 1
	for i := range solved {
		solved[i] /= sum
	}

	inv := 0.0
	for i := range st.X {
		if st.X[i] == 0 {
			continue
		}
		c := mix.components[i]
		q, err := c.LoadingAt(st.Pressure0[i])
		if err != nil {
			return nil, err
		}
		if !(q > 0) {
			return nil, &sorption.DomainError{Op: mode.String(), Component: c.Label(), Value: q, Reason: "non-positive pure-component loading"}
		}
		inv += st.X[i] / q
	}
	st.TotalLoading = 1 / inv
	for i := range st.X {
		st.Loading[i] = st.X[i] * st.TotalLoading
	}

	st.Status = StatusConverged
	return st, nil
}
