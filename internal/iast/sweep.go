package iast

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/adsorb/internal/sorption"
)

// DefaultVLEPoints is the number of interior compositions in a binary
// equilibrium diagram.
const DefaultVLEPoints = 30

// Point is one grid point of a binary sweep. Y and X are the bulk and
// adsorbed mole fractions of the first component.
type Point struct {
	Pressure    float64 `json:"pressure"`
	Y           float64 `json:"y"`
	X           float64 `json:"x"`
	Selectivity float64 `json:"selectivity,omitempty"`
	State       *State  `json:"-"`
	Err         error   `json:"-"`
}

func (p Point) OK() bool { return p.Err == nil }

// Sweep collects the points of a binary sweep. Failed points keep their
// error and do not stop the sweep.
type Sweep struct {
	Components []string `json:"components"`
	Points     []Point  `json:"points"`
}

// Errors joins the per-point failures, or returns nil if every point
// converged.
func (s *Sweep) Errors() error {
	var errs []error
	for _, p := range s.Points {
		if p.Err != nil {
			errs = append(errs, fmt.Errorf("P=%g y=%g: %w", p.Pressure, p.Y, p.Err))
		}
	}
	return errors.Join(errs...)
}

// Converged returns the points that solved.
func (s *Sweep) Converged() []Point {
	var ok []Point
	for _, p := range s.Points {
		if p.OK() {
			ok = append(ok, p)
		}
	}
	return ok
}

func binary(op string, mix *Mixture) error {
	if mix.Len() != 2 {
		return sorption.Configf(op, "need a binary mixture, got %d components", mix.Len())
	}
	return nil
}

// SelectivitySweep solves forward at each pressure for a fixed bulk
// composition and records the selectivity of the first component over the
// second.
func (s *Solver) SelectivitySweep(ctx context.Context, mix *Mixture, y []float64, pressures []float64) (*Sweep, error) {
	const op = "selectivity sweep"
	if err := binary(op, mix); err != nil {
		return nil, err
	}
	if err := mix.checkFractions(op, y); err != nil {
		return nil, err
	}
	if len(pressures) == 0 {
		return nil, sorption.Configf(op, "no pressures")
	}

	sw := &Sweep{Components: mix.Labels(), Points: make([]Point, len(pressures))}
	errs := sorption.Batch(ctx, len(pressures), s.opts.Workers, func(_ context.Context, i int) error {
		pt := &sw.Points[i]
		pt.Pressure, pt.Y = pressures[i], y[0]

		st, err := s.Forward(mix, y, pressures[i])
		if err != nil {
			return err
		}
		sel, err := st.Selectivity(0, 1)
		if err != nil {
			return err
		}
		pt.State, pt.X, pt.Selectivity = st, st.X[0], sel
		return nil
	})
	for i, err := range errs {
		sw.Points[i].Err = err
	}
	return sw, nil
}

// BinaryVLE sweeps the bulk fraction of the first component over
// [0.01, 0.99] at fixed total pressure. The adsorbed fraction is reported
// as q1/(q1+q2), and the pure-component ends (0, 0) and (1, 1) are added.
func (s *Solver) BinaryVLE(ctx context.Context, mix *Mixture, total float64, points int) (*Sweep, error) {
	const op = "binary equilibrium"
	if err := binary(op, mix); err != nil {
		return nil, err
	}
	if err := checkTotal(op, total); err != nil {
		return nil, err
	}
	if points == 0 {
		points = DefaultVLEPoints
	}
	if points < 2 {
		return nil, sorption.Configf(op, "need at least 2 points, got %d", points)
	}

	grid := floats.Span(make([]float64, points), 0.01, 0.99)
	sw := &Sweep{Components: mix.Labels(), Points: make([]Point, points+2)}
	sw.Points[0] = Point{Pressure: total}
	sw.Points[points+1] = Point{Pressure: total, Y: 1, X: 1}

	errs := sorption.Batch(ctx, points, s.opts.Workers, func(_ context.Context, i int) error {
		pt := &sw.Points[i+1]
		pt.Pressure, pt.Y = total, grid[i]

		st, err := s.Forward(mix, []float64{grid[i], 1 - grid[i]}, total)
		if err != nil {
			return err
		}
		pt.State = st
		pt.X = st.Loading[0] / (st.Loading[0] + st.Loading[1])
		if sel, err := st.Selectivity(0, 1); err == nil {
			pt.Selectivity = sel
		}
		return nil
	})
	for i, err := range errs {
		sw.Points[i+1].Err = err
	}
	return sw, nil
}
