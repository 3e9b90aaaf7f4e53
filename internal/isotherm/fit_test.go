package isotherm

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/adsorb/internal/sorption"
)

func synthesize(m Model, pressure []float64) []float64 {
	loading := make([]float64, len(pressure))
	for i, p := range pressure {
		loading[i], _ = m.Loading(p)
	}
	return loading
}

func TestFitRecoversParameters(t *testing.T) {
	pressure := []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 4, 8}

	tests := []struct {
		name    string
		truth   Model
		tol     float64
		maxRMSE float64
	}{
		{"henry", Henry{K: 3.2}, 1e-6, 1e-9},
		{"langmuir", Langmuir{NM: 10, K: 1}, 1e-5, 1e-6},
		{"toth", Toth{NM: 6, K: 0.8, T: 0.6}, 1e-3, 1e-4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loading := synthesize(tt.truth, pressure)
			res, err := Fit(tt.truth, pressure, loading, FitOptions{})
			if err != nil {
				t.Fatalf("fit failed: %v", err)
			}
			if res.RMSE > tt.maxRMSE {
				t.Errorf("expected near-zero rmse, got %g", res.RMSE)
			}
			for _, p := range pressure {
				want, _ := tt.truth.Loading(p)
				got, _ := res.Model.Loading(p)
				if math.Abs(got-want) > tt.tol*want {
					t.Errorf("loading(%g): expected %g, got %g", p, want, got)
				}
			}
		})
	}
}

func TestFitDoesNotModifyInput(t *testing.T) {
	pressure := []float64{2, 0.5, 1}
	loading := []float64{6.6, 3.3, 5}
	pc := append([]float64(nil), pressure...)
	lc := append([]float64(nil), loading...)

	_, _ = Fit(Langmuir{}, pressure, loading, FitOptions{})

	for i := range pressure {
		if pressure[i] != pc[i] || loading[i] != lc[i] {
			t.Fatalf("input modified at %d", i)
		}
	}
}

func TestFitPressureExplicit(t *testing.T) {
	truth := FHVST{NM: 6, K: 1.2, A1v: 0.8}
	loading := []float64{0.2, 0.5, 1, 1.5, 2, 3, 4}
	pressure := make([]float64, len(loading))
	for i, n := range loading {
		pressure[i], _ = truth.Pressure(n)
	}

	res, err := Fit(FHVST{}, pressure, loading, FitOptions{})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if res.RMSE > 1e-5 {
		t.Errorf("expected small rmse, got %g", res.RMSE)
	}
	got := res.Model.(FHVST)
	if math.Abs(got.NM-6) > 1e-4 || math.Abs(got.K-1.2) > 1e-4 || math.Abs(got.A1v-0.8) > 1e-4 {
		t.Errorf("expected n_m=6 K=1.2 a1v=0.8, got %+v", got)
	}
}

func TestFitRejectsFitWorseThanDataSpread(t *testing.T) {
	pressure := []float64{0.1, 0.5, 1, 2, 5}
	loading := synthesize(Langmuir{NM: 10, K: 1}, pressure)

	// Bounded to a near-zero slope, Henry predicts nothing of the data.
	_, err := Fit(Henry{}, pressure, loading, FitOptions{Bounds: Bounds{"K": {Lo: 0, Hi: 1e-6}}})
	var fe *sorption.FitError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FitError, got %v", err)
	}
	if fe.Params == nil {
		t.Errorf("expected the rejected parameters on the error")
	}
}

func TestFitVirialNeedsLowLoadingData(t *testing.T) {
	truth := Virial{K: 4, A: 0.2}
	loading := []float64{1, 4, 5, 6, 7}
	pressure := make([]float64, len(loading))
	for i, n := range loading {
		pressure[i], _ = truth.Pressure(n)
	}

	_, err := Fit(Virial{}, pressure, loading, FitOptions{})
	if !errors.Is(err, sorption.ErrFit) {
		t.Fatalf("expected fit error, got %v", err)
	}

	res, err := Fit(Virial{}, pressure, loading, FitOptions{AddPoint: true})
	if err != nil {
		t.Fatalf("fit with added point failed: %v", err)
	}
	if _, ok := res.Model.(Virial); !ok {
		t.Errorf("expected Virial, got %T", res.Model)
	}
}

func TestFitVirialAddPointIgnoresInputOrder(t *testing.T) {
	truth := Virial{K: 4, A: 0.2}
	ascending := []float64{1, 4, 5, 6, 7}
	descending := []float64{7, 6, 5, 4, 1}
	fitFor := func(loading []float64) Virial {
		t.Helper()
		pressure := make([]float64, len(loading))
		for i, n := range loading {
			pressure[i], _ = truth.Pressure(n)
		}
		res, err := Fit(Virial{}, pressure, loading, FitOptions{AddPoint: true})
		if err != nil {
			t.Fatalf("fit of %v failed: %v", loading, err)
		}
		return res.Model.(Virial)
	}

	up, down := fitFor(ascending), fitFor(descending)
	for _, pair := range [][2]float64{{up.K, down.K}, {up.A, down.A}, {up.B, down.B}, {up.C, down.C}} {
		if math.Abs(pair[0]-pair[1]) > 1e-6*math.Max(1, math.Abs(pair[0])) {
			t.Errorf("fit depends on input order: ascending %+v, descending %+v", up, down)
			break
		}
	}
}

func TestFitVirial(t *testing.T) {
	truth := Virial{K: 4, A: 0.2, B: -0.01, C: 0.001}
	loading := []float64{0.1, 0.3, 0.6, 1, 2, 3}
	pressure := make([]float64, len(loading))
	for i, n := range loading {
		pressure[i], _ = truth.Pressure(n)
	}

	res, err := Fit(Virial{}, pressure, loading, FitOptions{})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	v := res.Model.(Virial)
	if math.Abs(v.K-4) > 1e-4 || math.Abs(v.A-0.2) > 1e-4 {
		t.Errorf("expected K=4 A=0.2, got %+v", v)
	}
}

func TestFitBoundsAndGuessOverrides(t *testing.T) {
	pressure := []float64{0.1, 0.5, 1, 2, 5}
	loading := synthesize(Langmuir{NM: 10, K: 1}, pressure)

	res, err := Fit(Langmuir{}, pressure, loading, FitOptions{
		Guess:  Params{{Name: "K", Value: 0.5}},
		Bounds: Bounds{"n_m": {Lo: 0, Hi: 8}},
	})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if nm, _ := res.Model.Params().Get("n_m"); nm > 8 {
		t.Errorf("n_m escaped its bound: %g", nm)
	}

	_, err = Fit(Langmuir{}, pressure, loading, FitOptions{Guess: Params{{Name: "b", Value: 1}}})
	if !errors.Is(err, sorption.ErrConfiguration) {
		t.Errorf("expected configuration error for unknown guess, got %v", err)
	}
}

func TestFitRejectsBadData(t *testing.T) {
	tests := []struct {
		name     string
		pressure []float64
		loading  []float64
	}{
		{"length mismatch", []float64{1, 2}, []float64{1}},
		{"empty", nil, nil},
		{"negative", []float64{1, -2}, []float64{1, 2}},
		{"nan", []float64{1, 2}, []float64{1, math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(Langmuir{}, tt.pressure, tt.loading, FitOptions{})
			if !errors.Is(err, sorption.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestFitIterationBudget(t *testing.T) {
	pressure := []float64{0.1, 0.5, 1, 2, 5}
	loading := synthesize(Toth{NM: 6, K: 0.8, T: 0.6}, pressure)

	_, err := Fit(Toth{}, pressure, loading, FitOptions{MaxIter: 1})
	var fe *sorption.FitError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FitError, got %v", err)
	}
	if !errors.Is(err, sorption.ErrConvergence) {
		t.Errorf("expected convergence cause, got %v", err)
	}
}
