// Package numeric provides the scalar solvers behind the isotherm engine.
//
//   - [Brent]: bracketed root finding with geometric bracket expansion
//   - [Quadrature]: adaptive Gauss-Legendre integration
//   - [LevenbergMarquardt]: bound-constrained nonlinear least squares
//
// Solvers report failure through the error taxonomy of package sorption,
// so a caller can tell a lost bracket or an exhausted iteration budget
// apart from bad input.
//
// # Thread Safety
//
// Solver values hold settings only and may be shared between goroutines.
package numeric
