package numeric

import (
	"math"

	"github.com/san-kum/adsorb/internal/sorption"
)

// Func is a scalar function that may refuse an argument.
type Func func(x float64) (float64, error)

// Root is the outcome of a root search.
type Root struct {
	X          float64
	FX         float64
	Iterations int
}

// Brent finds roots of a continuous function on a sign-changing bracket
// by mixing bisection, secant and inverse quadratic interpolation.
type Brent struct {
	// RelTol and AbsTol bound the final bracket half-width:
	// max(AbsTol, RelTol*|x|).
	RelTol  float64
	AbsTol  float64
	MaxIter int
}

func NewBrent() *Brent {
	return &Brent{
		RelTol:  1e-12,
		AbsTol:  1e-300,
		MaxIter: 200,
	}
}

// Solve returns a root of f inside [a, b]. f(a) and f(b) must have
// opposite signs (or one of them must be zero).
func (s *Brent) Solve(f Func, a, b float64) (Root, error) {
	fa, err := f(a)
	if err != nil {
		return Root{}, err
	}
	fb, err := f(b)
	if err != nil {
		return Root{}, err
	}
	return s.SolveBracket(f, a, b, fa, fb)
}

// SolveBracket is Solve with both end values already evaluated.
func (s *Brent) SolveBracket(f Func, a, b, fa, fb float64) (Root, error) {
	if !sorption.Finite(a, b, fa, fb) {
		return Root{}, &sorption.ConvergenceError{
			Op: "brent", Estimate: b, Residual: fb, Reason: "non-finite bracket",
		}
	}
	if fa == 0 {
		return Root{X: a}, nil
	}
	if fb == 0 {
		return Root{X: b}, nil
	}
	if (fa > 0) == (fb > 0) {
		return Root{}, &sorption.ConvergenceError{
			Op: "brent", Estimate: b, Residual: fb, Reason: "no sign change in bracket",
		}
	}

	const eps = 2.220446049250313e-16
	c, fc := b, fb
	d := b - a
	e := d

	for iter := 1; iter <= s.MaxIter; iter++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol := 2*eps*math.Abs(b) + 0.5*math.Max(s.AbsTol, s.RelTol*math.Abs(b))
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol || fb == 0 {
			return Root{X: b, FX: fb, Iterations: iter}, nil
		}

		if math.Abs(e) >= tol && math.Abs(fa) > math.Abs(fb) {
			var p, q float64
			sr := fb / fa
			if a == c {
				p = 2 * xm * sr
				q = 1 - sr
			} else {
				qr := fa / fc
				r := fb / fc
				p = sr * (2*xm*qr*(qr-r) - (b-a)*(r-1))
				q = (qr - 1) * (r - 1) * (sr - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)

			if 2*p < math.Min(3*xm*q-math.Abs(tol*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol {
			b += d
		} else {
			b += math.Copysign(tol, xm)
		}

		var err error
		fb, err = f(b)
		if err != nil {
			return Root{X: b, Iterations: iter}, err
		}
		if math.IsNaN(fb) {
			return Root{X: b, Iterations: iter}, &sorption.ConvergenceError{
				Op: "brent", Iterations: iter, Estimate: b, Residual: fb, Reason: "function returned NaN",
			}
		}
	}

	return Root{X: b, FX: fb, Iterations: s.MaxIter}, &sorption.ConvergenceError{
		Op: "brent", Iterations: s.MaxIter, Estimate: b, Residual: fb, Reason: "iteration cap reached",
	}
}

// Bracket describes a sign-changing interval found by ExpandUpper.
type Bracket struct {
	Lo, Hi   float64
	FLo, FHi float64
}

// ExpandUpper keeps lo fixed and multiplies hi by factor until f(lo) and
// f(hi) differ in sign, giving up after maxSteps expansions or once hi
// would pass limit (use +Inf for no limit).
func ExpandUpper(f Func, lo, hi, factor, limit float64, maxSteps int) (Bracket, error) {
	flo, err := f(lo)
	if err != nil {
		return Bracket{}, err
	}
	if hi > limit {
		hi = limit
	}
	fhi, err := f(hi)
	if err != nil {
		return Bracket{}, err
	}

	for step := 0; (flo > 0) == (fhi > 0) && flo != 0 && fhi != 0; step++ {
		if step >= maxSteps || hi >= limit {
			return Bracket{}, &sorption.ConvergenceError{
				Op: "expand bracket", Iterations: step, Estimate: hi, Residual: fhi,
				Reason: "no sign change found",
			}
		}
		lo, flo = hi, fhi
		hi = math.Min(hi*factor, limit)
		if fhi, err = f(hi); err != nil {
			return Bracket{}, err
		}
	}

	return Bracket{Lo: lo, Hi: hi, FLo: flo, FHi: fhi}, nil
}
