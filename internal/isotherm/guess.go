package isotherm

import (
	"math"

	"github.com/san-kum/adsorb/internal/sorption"
)

// baseGuess estimates a saturation capacity 10% above the highest loading
// and a Langmuir constant from the lowest-pressure point. Points with a
// non-positive coordinate are ignored.
func baseGuess(pressure, loading []float64) (sat, k float64, err error) {
	p0 := math.Inf(1)
	n0, maxN := 0.0, 0.0
	for i := range pressure {
		if i >= len(loading) || pressure[i] <= 0 || loading[i] <= 0 {
			continue
		}
		maxN = math.Max(maxN, loading[i])
		if pressure[i] < p0 {
			p0, n0 = pressure[i], loading[i]
		}
	}
	if maxN == 0 {
		return 0, 0, sorption.Configf("initial guess", "no points with positive pressure and loading")
	}

	sat = 1.1 * maxN
	k = n0 / p0 / (sat - n0)
	return sat, k, nil
}

func clip(ps Params, b Bounds) Params {
	out := ps.Clone()
	for i := range out {
		if bd, ok := b[out[i].Name]; ok {
			out[i].Value = bd.Clip(out[i].Value)
		}
	}
	return out
}
