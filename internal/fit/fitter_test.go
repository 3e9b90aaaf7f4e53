package fit

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/adsorb/internal/isotherm"
	"github.com/san-kum/adsorb/internal/sorption"
)

var scenarioPressure = []float64{0.1, 0.5, 1, 2, 5}

func langmuirData(sigma float64, seed uint64) []float64 {
	truth := isotherm.Langmuir{NM: 10, K: 1}
	noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}

	loading := make([]float64, len(scenarioPressure))
	for i, p := range scenarioPressure {
		n, _ := truth.Loading(p)
		loading[i] = n + noise.Rand()
	}
	return loading
}

func newFitter(t *testing.T, opts Options) *Fitter {
	return New(isotherm.NewRegistry(), opts, testr.New(t))
}

func TestFitNoisyLangmuir(t *testing.T) {
	loading := langmuirData(0.02, 42)

	res, err := newFitter(t, DefaultOptions()).Fit("Langmuir", scenarioPressure, loading)
	require.NoError(t, err)

	nm, _ := res.Model.Params().Get("n_m")
	k, _ := res.Model.Params().Get("K")
	assert.InEpsilon(t, 10.0, nm, 0.05)
	assert.InEpsilon(t, 1.0, k, 0.05)
	assert.Less(t, res.RMSE, 0.1)
	assert.Equal(t, 5, res.Points)
	assert.Equal(t, sorption.Range{Min: 0.1, Max: 5}, res.PressureRange)
}

func TestGuessPicksLowestRMSE(t *testing.T) {
	loading := langmuirData(0, 1)

	best, attempts, err := newFitter(t, DefaultOptions()).Guess(context.Background(), scenarioPressure, loading,
		[]string{"Henry", "Langmuir", "Freundlich"})
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	assert.Equal(t, "Langmuir", best.Model.Name())
	for _, a := range attempts {
		if a.Err == nil {
			assert.LessOrEqual(t, best.RMSE, a.RMSE, "attempt %s", a.Model)
		}
	}
	assert.Equal(t, "Henry", attempts[0].Model)
}

func TestGuessDefaultCandidates(t *testing.T) {
	loading := langmuirData(0.02, 7)

	best, attempts, err := newFitter(t, Options{Workers: 2}).Guess(context.Background(), scenarioPressure, loading, nil)
	require.NoError(t, err)
	assert.Len(t, attempts, len(isotherm.NewRegistry().GuessCandidates()))

	for _, a := range attempts {
		if a.Err != nil {
			assert.True(t, math.IsNaN(a.RMSE))
			continue
		}
		assert.GreaterOrEqual(t, a.RMSE, best.RMSE)
	}
}

func TestGuessAllCandidatesFail(t *testing.T) {
	// Potential-theory models only accept relative pressures up to 1.
	loading := langmuirData(0, 1)

	best, attempts, err := newFitter(t, DefaultOptions()).Guess(context.Background(), scenarioPressure, loading,
		[]string{"DR", "DA"})
	assert.Nil(t, best)
	assert.Len(t, attempts, 2)
	assert.ErrorIs(t, err, sorption.ErrModelSelection)
	assert.ErrorIs(t, err, sorption.ErrFit)
}

func TestGuessUnknownCandidate(t *testing.T) {
	_, _, err := newFitter(t, DefaultOptions()).Guess(context.Background(), scenarioPressure, langmuirData(0, 1),
		[]string{"Langmuir", "Sips"})
	assert.ErrorIs(t, err, sorption.ErrUnknownModel)
}

func TestFitModelOverrides(t *testing.T) {
	loading := langmuirData(0, 1)

	opts := DefaultOptions()
	opts.Bounds = isotherm.Bounds{"n_m": {Lo: 0, Hi: 9}}
	res, err := newFitter(t, opts).Fit("Langmuir", scenarioPressure, loading)
	require.NoError(t, err)
	nm, _ := res.Model.Params().Get("n_m")
	assert.LessOrEqual(t, nm, 9.0)

	opts = DefaultOptions()
	opts.Guess = map[string]float64{"q_max": 10}
	_, err = newFitter(t, opts).Fit("Langmuir", scenarioPressure, loading)
	assert.True(t, errors.Is(err, sorption.ErrConfiguration), "got %v", err)
}

func TestRecordRoundTrip(t *testing.T) {
	res, err := newFitter(t, DefaultOptions()).Fit("Langmuir", scenarioPressure, langmuirData(0.01, 3))
	require.NoError(t, err)

	back, err := FromRecord(isotherm.NewRegistry(), res.Record(298.15))
	require.NoError(t, err)

	assert.Equal(t, res.Model.Params(), back.Model.Params())
	assert.Equal(t, res.PressureRange, back.PressureRange)
	assert.InDelta(t, res.RMSE, back.RMSE, 0)
}
