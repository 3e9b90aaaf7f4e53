package numeric

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/san-kum/adsorb/internal/sorption"
)

// Quadrature integrates smooth functions by recursive bisection with a
// fixed-order Gauss-Legendre rule on every panel. Legendre nodes are
// strictly interior, so the integrand is never evaluated at a panel end.
type Quadrature struct {
	RelTol   float64
	AbsTol   float64
	Order    int
	MaxDepth int
}

func NewQuadrature() *Quadrature {
	return &Quadrature{
		RelTol:   1e-10,
		AbsTol:   1e-14,
		Order:    15,
		MaxDepth: 40,
	}
}

// Integrate returns the integral of f over [a, b]. The first error
// returned by f aborts the integration.
func (q *Quadrature) Integrate(f Func, a, b float64) (float64, error) {
	if a == b {
		return 0, nil
	}
	if b < a {
		v, err := q.Integrate(f, b, a)
		return -v, err
	}

	var ferr error
	g := func(x float64) float64 {
		if ferr != nil {
			return 0
		}
		v, err := f(x)
		if err != nil {
			ferr = err
			return 0
		}
		return v
	}

	whole := q.panel(g, a, b)
	if ferr != nil {
		return 0, ferr
	}
	tol := math.Max(q.AbsTol, q.RelTol*math.Abs(whole))

	v, err := q.adapt(g, a, b, whole, tol, 0)
	if ferr != nil {
		return 0, ferr
	}
	return v, err
}

func (q *Quadrature) panel(f func(float64) float64, a, b float64) float64 {
	return quad.Fixed(f, a, b, q.Order, quad.Legendre{}, 0)
}

func (q *Quadrature) adapt(f func(float64) float64, a, b, whole, tol float64, depth int) (float64, error) {
	mid := 0.5 * (a + b)
	left := q.panel(f, a, mid)
	right := q.panel(f, mid, b)
	sum := left + right

	if !sorption.Finite(sum) {
		return sum, &sorption.ConvergenceError{
			Op: "quadrature", Iterations: depth, Estimate: sum, Reason: "non-finite integrand",
		}
	}
	if math.Abs(sum-whole) <= math.Max(tol, 1e-15*math.Abs(sum)) {
		return sum, nil
	}
	if depth >= q.MaxDepth {
		return sum, &sorption.ConvergenceError{
			Op: "quadrature", Iterations: depth, Estimate: sum, Residual: sum - whole,
			Reason: "maximum subdivision depth reached",
		}
	}

	l, err := q.adapt(f, a, mid, left, tol/2, depth+1)
	if err != nil {
		return l, err
	}
	r, err := q.adapt(f, mid, b, right, tol/2, depth+1)
	return l + r, err
}
