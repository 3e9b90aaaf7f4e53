// Package sorption holds the primitives shared by the adsorption packages.
//
// The package defines the vocabulary used by the model, fitting and
// mixture solvers:
//
//   - [Policy]: behaviour when a query leaves an isotherm's data range
//   - [Range]: closed pressure or loading interval
//   - [Warning]: non-fatal notice attached to a result
//   - [ConfigurationError], [ConvergenceError], [DomainError], [FitError]
//
// Every error type unwraps to one of the sentinel values, so callers can
// branch with errors.Is:
//
//	state, err := solver.Forward(mix, y, 1.0)
//	if errors.Is(err, sorption.ErrDomain) {
//		// equilibrium needs data beyond a component's measured range
//	}
//
// # Thread Safety
//
// All types here are plain values. [Batch] runs independent jobs on a
// bounded number of goroutines; jobs must not share mutable state.
package sorption
