package pure

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/adsorb/internal/fit"
	"github.com/san-kum/adsorb/internal/isotherm"
	"github.com/san-kum/adsorb/internal/sorption"
)

func linearPoints(t *testing.T, kind Interpolation, policy sorption.Policy) *PointIsotherm {
	t.Helper()
	p := []float64{1, 2, 3, 4, 5}
	n := []float64{2, 4, 6, 8, 10}
	iso, err := NewPointIsotherm(p, n, kind, Meta{Label: "lin", Policy: policy})
	if err != nil {
		t.Fatalf("NewPointIsotherm failed: %v", err)
	}
	return iso
}

func TestPointIsothermHenryData(t *testing.T) {
	for _, kind := range []Interpolation{Linear, Monotone} {
		t.Run(kind.String(), func(t *testing.T) {
			iso := linearPoints(t, kind, sorption.PolicyStrict)
			for _, p := range []float64{0.5, 1, 2.5, 3, 4.75, 5} {
				n, err := iso.LoadingAt(p)
				if err != nil {
					t.Fatalf("LoadingAt(%g) failed: %v", p, err)
				}
				if math.Abs(n-2*p) > 1e-9 {
					t.Errorf("LoadingAt(%g) = %g, want %g", p, n, 2*p)
				}
				pi, err := iso.SpreadingPressureAt(p)
				if err != nil {
					t.Fatalf("SpreadingPressureAt(%g) failed: %v", p, err)
				}
				if math.Abs(pi-2*p) > 1e-6*p {
					t.Errorf("SpreadingPressureAt(%g) = %g, want %g", p, pi, 2*p)
				}
			}
		})
	}
}

func TestPointIsothermInverses(t *testing.T) {
	iso := linearPoints(t, Linear, sorption.PolicyStrict)
	for _, p := range []float64{0.2, 1.5, 3.3, 5} {
		n, _ := iso.LoadingAt(p)
		back, err := iso.PressureAt(n)
		if err != nil {
			t.Fatalf("PressureAt(%g) failed: %v", n, err)
		}
		if math.Abs(back-p) > 1e-9*p {
			t.Errorf("PressureAt(LoadingAt(%g)) = %g", p, back)
		}

		pi, _ := iso.SpreadingPressureAt(p)
		back, err = iso.PressureAtSpreading(pi)
		if err != nil {
			t.Fatalf("PressureAtSpreading(%g) failed: %v", pi, err)
		}
		if math.Abs(back-p) > 1e-8*p {
			t.Errorf("PressureAtSpreading(SpreadingPressureAt(%g)) = %g", p, back)
		}
	}

	if p, err := iso.PressureAtSpreading(0); err != nil || p != 0 {
		t.Errorf("PressureAtSpreading(0) = %g, %v", p, err)
	}
}

func TestPointIsothermStrictPolicy(t *testing.T) {
	iso := linearPoints(t, Linear, sorption.PolicyStrict)

	if _, err := iso.LoadingAt(6); !errors.Is(err, sorption.ErrDomain) {
		t.Errorf("LoadingAt beyond data: got %v, want domain error", err)
	}
	if _, err := iso.SpreadingPressureAt(6); !errors.Is(err, sorption.ErrDomain) {
		t.Errorf("SpreadingPressureAt beyond data: got %v, want domain error", err)
	}
	if _, err := iso.PressureAtSpreading(11); !errors.Is(err, sorption.ErrDomain) {
		t.Errorf("PressureAtSpreading beyond data: got %v, want domain error", err)
	}
	if _, err := iso.PressureAt(10.5); !errors.Is(err, sorption.ErrDomain) {
		t.Errorf("PressureAt beyond data: got %v, want domain error", err)
	}
	if _, err := iso.LoadingAt(-1); !errors.Is(err, sorption.ErrDomain) {
		t.Errorf("LoadingAt(-1): got %v, want domain error", err)
	}

	var de *sorption.DomainError
	_, err := iso.LoadingAt(6)
	if !errors.As(err, &de) || de.Component != "lin" {
		t.Errorf("domain error should name the component, got %v", err)
	}
}

func TestPointIsothermExtrapolate(t *testing.T) {
	iso := linearPoints(t, Linear, sorption.PolicyExtrapolate)

	n, err := iso.LoadingAt(8)
	if err != nil || n != 10 {
		t.Errorf("LoadingAt(8) = %g, %v; want plateau 10", n, err)
	}
	pi, err := iso.SpreadingPressureAt(8)
	if err != nil {
		t.Fatalf("SpreadingPressureAt(8) failed: %v", err)
	}
	want := 10 + 10*math.Log(8.0/5)
	if math.Abs(pi-want) > 1e-9 {
		t.Errorf("SpreadingPressureAt(8) = %g, want %g", pi, want)
	}

	back, err := iso.PressureAtSpreading(want)
	if err != nil || math.Abs(back-8) > 1e-8 {
		t.Errorf("PressureAtSpreading(%g) = %g, %v; want 8", want, back, err)
	}
	if d := iso.Domain(); d.Bounded() {
		t.Errorf("extrapolating domain should be unbounded, got %v", d)
	}
}

func TestPointIsothermSortsCopies(t *testing.T) {
	p := []float64{3, 1, 2}
	n := []float64{3, 1, 2}
	iso, err := NewPointIsotherm(p, n, Monotone, Meta{})
	if err != nil {
		t.Fatalf("NewPointIsotherm failed: %v", err)
	}
	if p[0] != 3 || n[0] != 3 {
		t.Error("input slices were modified")
	}
	sp, sn := iso.Points()
	for i := range sp {
		if sp[i] != float64(i+1) || sn[i] != float64(i+1) {
			t.Fatalf("points not sorted: %v %v", sp, sn)
		}
	}
	if r := iso.DataRange(); r.Min != 1 || r.Max != 3 {
		t.Errorf("DataRange = %v", r)
	}
	if iso.Label() != "points" {
		t.Errorf("default label = %q", iso.Label())
	}
}

func TestPointIsothermRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		p, n []float64
	}{
		{"single point", []float64{1}, []float64{1}},
		{"length mismatch", []float64{1, 2}, []float64{1}},
		{"zero pressure", []float64{0, 1}, []float64{0, 1}},
		{"duplicate pressure", []float64{1, 1, 2}, []float64{1, 1, 2}},
		{"negative loading", []float64{1, 2}, []float64{-1, 2}},
		{"decreasing loading", []float64{1, 2, 3}, []float64{1, 3, 2}},
		{"nan", []float64{1, math.NaN()}, []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPointIsotherm(tt.p, tt.n, Linear, Meta{})
			if !errors.Is(err, sorption.ErrConfiguration) {
				t.Errorf("got %v, want configuration error", err)
			}
		})
	}
}

func TestModelIsothermLangmuir(t *testing.T) {
	m := isotherm.Langmuir{NM: 5, K: 1.5}
	iso := NewModelIsotherm(m, Meta{})
	if iso.Label() != "Langmuir" {
		t.Errorf("default label = %q", iso.Label())
	}
	if !iso.IASTEligible() {
		t.Error("Langmuir should be IAST eligible")
	}

	pi, err := iso.SpreadingPressureAt(2)
	if err != nil {
		t.Fatalf("SpreadingPressureAt failed: %v", err)
	}
	if want := 5 * math.Log(4); math.Abs(pi-want) > 1e-12 {
		t.Errorf("SpreadingPressureAt(2) = %g, want %g", pi, want)
	}
	back, err := iso.PressureAtSpreading(pi)
	if err != nil || math.Abs(back-2) > 1e-9 {
		t.Errorf("PressureAtSpreading = %g, %v; want 2", back, err)
	}
}

func TestModelIsothermNumericInverse(t *testing.T) {
	iso := NewModelIsotherm(isotherm.Toth{NM: 5, K: 1, T: 0.7}, Meta{Label: "toth"})
	for _, p := range []float64{0.1, 1, 10} {
		pi, err := iso.SpreadingPressureAt(p)
		if err != nil {
			t.Fatalf("SpreadingPressureAt(%g) failed: %v", p, err)
		}
		back, err := iso.PressureAtSpreading(pi)
		if err != nil {
			t.Fatalf("PressureAtSpreading(%g) failed: %v", pi, err)
		}
		if math.Abs(back-p) > 1e-7*p {
			t.Errorf("PressureAtSpreading(SpreadingPressureAt(%g)) = %g", p, back)
		}
	}
}

func TestModelIsothermFromFit(t *testing.T) {
	res := &fit.Result{
		Model:         isotherm.Langmuir{NM: 5, K: 1.5},
		RMSE:          0.01,
		PressureRange: sorption.Range{Min: 0.1, Max: 2},
		LoadingRange:  sorption.Range{Min: 0.6, Max: 3.75},
	}

	strict := FromFit(res, Meta{Label: "co2"})
	if strict.RMSE() != 0.01 {
		t.Errorf("RMSE = %g", strict.RMSE())
	}
	if _, err := strict.LoadingAt(3); !errors.Is(err, sorption.ErrDomain) {
		t.Errorf("strict LoadingAt(3): got %v, want domain error", err)
	}
	if _, err := strict.PressureAt(4); !errors.Is(err, sorption.ErrDomain) {
		t.Errorf("strict PressureAt(4): got %v, want domain error", err)
	}
	if _, err := strict.PressureAtSpreading(5 * math.Log(1+1.5*3)); !errors.Is(err, sorption.ErrDomain) {
		t.Errorf("strict PressureAtSpreading: got %v, want domain error", err)
	}

	loose := FromFit(res, Meta{Label: "co2", Policy: sorption.PolicyExtrapolate})
	if _, err := loose.LoadingAt(3); err != nil {
		t.Errorf("extrapolating LoadingAt(3) failed: %v", err)
	}
}

func TestModelIsothermRelabelsErrors(t *testing.T) {
	iso := NewModelIsotherm(isotherm.BET{NM: 2, C: 50, N: 0.5}, Meta{Label: "water"})
	_, err := iso.LoadingAt(3)
	var de *sorption.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("got %v, want domain error", err)
	}
	if de.Component != "water" {
		t.Errorf("component = %q, want water", de.Component)
	}
}

func TestModelIsothermRejectsNegativeResults(t *testing.T) {
	tests := []struct {
		name string
		m    isotherm.Model
		op   func(*ModelIsotherm) (float64, error)
	}{
		{"temkin loading", isotherm.TemkinApprox{NM: 1, K: 1, Tht: 10}, func(iso *ModelIsotherm) (float64, error) { return iso.LoadingAt(0.2) }},
		{"quadratic loading", isotherm.Quadratic{NM: 1, Ka: -1, Kb: 1}, func(iso *ModelIsotherm) (float64, error) { return iso.LoadingAt(0.2) }},
		{"quadratic spreading pressure", isotherm.Quadratic{NM: 1, Ka: -1, Kb: 1}, func(iso *ModelIsotherm) (float64, error) { return iso.SpreadingPressureAt(0.2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.op(NewModelIsotherm(tt.m, Meta{Label: "x"}))
			if !errors.Is(err, sorption.ErrDomain) {
				t.Errorf("got %g, %v; want domain error", v, err)
			}
		})
	}
}

func TestUnitsCompatible(t *testing.T) {
	a := Units{Pressure: "bar", Loading: "mmol/g", Temperature: 298}
	if err := a.Compatible(Units{}); err != nil {
		t.Errorf("unspecified units should match: %v", err)
	}
	if err := a.Compatible(Units{Pressure: "bar", Temperature: 298}); err != nil {
		t.Errorf("matching units rejected: %v", err)
	}
	if err := a.Compatible(Units{Pressure: "kPa"}); !errors.Is(err, sorption.ErrConfiguration) {
		t.Errorf("pressure mismatch: got %v", err)
	}
	if err := a.Compatible(Units{Temperature: 303}); !errors.Is(err, sorption.ErrConfiguration) {
		t.Errorf("temperature mismatch: got %v", err)
	}
}
