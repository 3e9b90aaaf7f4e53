// Package isotherm implements parametrised single-component adsorption
// isotherms and their least-squares calibration.
//
// Every variant satisfies [Model]: loading and pressure are mutual
// inverses on the model's domain, and the reduced spreading pressure
// π(p) = ∫₀ᵖ n(p')/p' dp' is available either in closed form or through
// the [Spreading] engine. Variants that cannot be inverted analytically
// fall back to bracketed root finding.
//
// # Example
//
//	reg := isotherm.NewRegistry()
//	m, _ := reg.FromParams("Langmuir", map[string]float64{"n_m": 5, "K": 1.5}, isotherm.Settings{})
//	n, _ := m.Loading(0.8)
//	pi, _ := m.SpreadingPressure(0.8)
//
// Fitting a model to measured points:
//
//	res, err := isotherm.Fit(isotherm.Toth{}, pressure, loading, isotherm.FitOptions{})
package isotherm
