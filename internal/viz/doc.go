// Package viz renders fits and mixture equilibria for the terminal and as
// SVG.
//
//   - Tables: lipgloss-styled summaries of fitted parameters, equilibrium
//     states and sweeps
//   - Plots: asciigraph charts of isotherms, selectivity against pressure
//     and binary equilibrium diagrams
//   - SVG: the same curves as a standalone vector image
//
// Colors come from a [Theme]; the default is "cyberpunk".
package viz
