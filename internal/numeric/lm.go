package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/adsorb/internal/sorption"
)

// Residuals fills r with the residual vector at parameters x.
type Residuals func(x, r []float64) error

// Solution is the outcome of a least-squares minimisation.
type Solution struct {
	X          []float64
	Residuals  []float64
	Cost       float64 // sum of squared residuals
	Iterations int
}

// LevenbergMarquardt minimises a sum of squared residuals inside a box.
// Trial steps are projected onto [Lower, Upper]; the Jacobian is built by
// forward differences, stepping backwards at an upper bound.
type LevenbergMarquardt struct {
	MaxIter int
	// Tol stops the search once the relative cost decrease or the relative
	// step length falls below it.
	Tol    float64
	Lambda float64
	// MaxStep caps the length of a step at MaxStep·(‖x‖+1).
	MaxStep float64
}

func NewLevenbergMarquardt() *LevenbergMarquardt {
	return &LevenbergMarquardt{
		MaxIter: 500,
		Tol:     1e-10,
		Lambda:  1e-3,
		MaxStep: 1,
	}
}

// Minimize searches for the parameters that minimise the m residuals of f,
// starting at x0. lower and upper may be nil for an unbounded problem.
func (lm *LevenbergMarquardt) Minimize(f Residuals, m int, x0, lower, upper []float64) (Solution, error) {
	n := len(x0)
	if lower == nil {
		lower = filled(n, math.Inf(-1))
	}
	if upper == nil {
		upper = filled(n, math.Inf(1))
	}
	if len(lower) != n || len(upper) != n || m == 0 {
		return Solution{}, sorption.Configf("levenberg-marquardt", "dimension mismatch (%d params, %d/%d bounds, %d residuals)", n, len(lower), len(upper), m)
	}

	x := make([]float64, n)
	copy(x, x0)
	project(x, lower, upper)

	r := make([]float64, m)
	if err := f(x, r); err != nil {
		return Solution{X: x}, err
	}
	if !sorption.Finite(r...) {
		return Solution{X: x}, &sorption.ConvergenceError{
			Op: "levenberg-marquardt", Reason: "non-finite residual at initial guess",
		}
	}
	cost := floats.Dot(r, r)

	jac := mat.NewDense(m, n, nil)
	jtj := mat.NewSymDense(n, nil)
	grad := mat.NewVecDense(n, nil)
	step := mat.NewVecDense(n, nil)
	rTrial := make([]float64, m)
	xTrial := make([]float64, n)
	lambda := lm.Lambda

	for iter := 1; iter <= lm.MaxIter; iter++ {
		if cost == 0 {
			return Solution{X: x, Residuals: r, Cost: 0, Iterations: iter}, nil
		}
		if err := jacobian(f, x, r, lower, upper, jac); err != nil {
			return Solution{X: x, Residuals: r, Cost: cost, Iterations: iter}, err
		}
		jtj.SymOuterK(1, jac.T())
		grad.MulVec(jac.T(), mat.NewVecDense(m, r))

		// Stationary relative to the scale of J and r, not in absolute terms.
		if mat.Norm(grad, math.Inf(1)) <= lm.Tol*mat.Norm(jac, 2)*math.Sqrt(cost) {
			return Solution{X: x, Residuals: r, Cost: cost, Iterations: iter}, nil
		}

		accepted := false
		for !accepted {
			if lambda > 1e16 {
				// No descent direction survives the projection: a local
				// minimum on the boundary or a flat valley.
				return Solution{X: x, Residuals: r, Cost: cost, Iterations: iter}, nil
			}

			if !solveDamped(jtj, grad, lambda, step) {
				lambda *= 10
				continue
			}
			if lm.MaxStep > 0 {
				lim := lm.MaxStep * (floats.Norm(x, 2) + 1)
				if sn := mat.Norm(step, 2); sn > lim {
					step.ScaleVec(lim/sn, step)
				}
			}
			for j := 0; j < n; j++ {
				xTrial[j] = x[j] - step.AtVec(j)
			}
			project(xTrial, lower, upper)

			if err := f(xTrial, rTrial); err != nil || !sorption.Finite(rTrial...) {
				lambda *= 10
				continue
			}
			trialCost := floats.Dot(rTrial, rTrial)
			if trialCost >= cost {
				lambda *= 10
				continue
			}

			accepted = true
			decrease := (cost - trialCost) / cost
			moved := floats.Distance(x, xTrial, 2) / (floats.Norm(x, 2) + lm.Tol)

			copy(x, xTrial)
			copy(r, rTrial)
			cost = trialCost
			lambda = math.Max(lambda/10, 1e-12)

			if decrease <= lm.Tol || moved <= lm.Tol {
				return Solution{X: x, Residuals: r, Cost: cost, Iterations: iter}, nil
			}
		}
	}

	return Solution{X: x, Residuals: r, Cost: cost, Iterations: lm.MaxIter}, &sorption.ConvergenceError{
		Op: "levenberg-marquardt", Iterations: lm.MaxIter, Estimate: cost, Residual: cost,
		Reason: "iteration cap reached",
	}
}

// solveDamped solves (JᵀJ + λ·diag(JᵀJ)) δ = Jᵀr.
func solveDamped(jtj *mat.SymDense, grad *mat.VecDense, lambda float64, dst *mat.VecDense) bool {
	n := jtj.SymmetricDim()
	maxDiag := 0.0
	for i := 0; i < n; i++ {
		maxDiag = math.Max(maxDiag, jtj.At(i, i))
	}

	a := mat.NewSymDense(n, nil)
	a.CopySym(jtj)
	for i := 0; i < n; i++ {
		d := math.Max(jtj.At(i, i), 1e-12*math.Max(maxDiag, 1e-300))
		a.SetSym(i, i, jtj.At(i, i)+lambda*d)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return false
	}
	if err := chol.SolveVecTo(dst, grad); err != nil {
		return false
	}
	for i := 0; i < n; i++ {
		if !sorption.Finite(dst.AtVec(i)) {
			return false
		}
	}
	return true
}

func jacobian(f Residuals, x, r, lower, upper []float64, dst *mat.Dense) error {
	m, n := dst.Dims()
	xh := make([]float64, len(x))
	rh := make([]float64, m)
	sqrtEps := math.Sqrt(2.220446049250313e-16)

	for j := 0; j < n; j++ {
		copy(xh, x)
		h := sqrtEps * math.Abs(x[j])
		if h == 0 {
			h = sqrtEps
		}
		if x[j]+h > upper[j] {
			h = -h
		}
		xh[j] = x[j] + h
		if err := f(xh, rh); err != nil {
			return err
		}
		for i := 0; i < m; i++ {
			dst.Set(i, j, (rh[i]-r[i])/h)
		}
	}
	return nil
}

func project(x, lower, upper []float64) {
	for i := range x {
		x[i] = math.Min(math.Max(x[i], lower[i]), upper[i])
	}
}

func filled(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}
