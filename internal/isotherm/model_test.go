package isotherm

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/adsorb/internal/sorption"
)

func sampleModels() []Model {
	return []Model{
		Henry{K: 2},
		Langmuir{NM: 5, K: 1.5},
		DSLangmuir{NM1: 3, K1: 0.5, NM2: 2, K2: 5},
		TSLangmuir{NM1: 2, K1: 0.1, NM2: 2, K2: 1, NM3: 1, K3: 10},
		BET{NM: 2, C: 50, N: 0.5},
		GAB{NM: 2, C: 10, K: 0.3},
		Freundlich{K: 2, M: 2.5},
		DR{NM: 5, E: 5000, Temperature: 298},
		DA{NM: 5, E: 5000, M: 1.5, Temperature: 298},
		Quadratic{NM: 3, Ka: 0.5, Kb: 0.2},
		TemkinApprox{NM: 5, K: 1, Tht: 0.5},
		Toth{NM: 5, K: 1, T: 0.7},
		DSToth{NM1: 3, K1: 0.5, T1: 0.8, NM2: 2, K2: 5, T2: 0.6},
		JensenSeaton{K: 5, A: 3, B: 0.1, C: 1.5},
		Virial{K: 5, A: 0.1, B: 0.01},
		WVST{NM: 5, K: 2, L1v: 1.1, Lv1: 0.95},
		FHVST{NM: 5, K: 2, A1v: 0.5},
	}
}

func TestLoadingPressureInverse(t *testing.T) {
	for _, m := range sampleModels() {
		t.Run(m.Name(), func(t *testing.T) {
			for _, p := range []float64{0.05, 0.3, 0.9} {
				n, err := m.Loading(p)
				if err != nil {
					t.Fatalf("loading(%g) failed: %v", p, err)
				}
				back, err := m.Pressure(n)
				if err != nil {
					t.Fatalf("pressure(%g) failed: %v", n, err)
				}
				if math.Abs(back-p) > 1e-6*p {
					t.Errorf("pressure(loading(%g)) = %g", p, back)
				}
			}
		})
	}
}

func TestLoadingMonotone(t *testing.T) {
	for _, m := range sampleModels() {
		t.Run(m.Name(), func(t *testing.T) {
			prev := 0.0
			for p := 0.01; p <= 1.0; p += 0.01 {
				n, err := m.Loading(p)
				if err != nil {
					t.Fatalf("loading(%g) failed: %v", p, err)
				}
				if n < prev {
					t.Fatalf("loading decreased at p=%g: %g < %g", p, n, prev)
				}
				prev = n
			}
		})
	}
}

func TestSpreadingPressureContract(t *testing.T) {
	for _, m := range sampleModels() {
		t.Run(m.Name(), func(t *testing.T) {
			pi0, err := m.SpreadingPressure(0)
			if err != nil {
				t.Fatalf("spreading(0) failed: %v", err)
			}
			if pi0 != 0 {
				t.Errorf("expected spreading(0) = 0, got %g", pi0)
			}

			prev := 0.0
			for _, p := range []float64{0.01, 0.1, 0.4, 0.9} {
				pi, err := m.SpreadingPressure(p)
				if err != nil {
					t.Fatalf("spreading(%g) failed: %v", p, err)
				}
				if pi <= prev {
					t.Errorf("spreading pressure not increasing at p=%g: %g <= %g", p, pi, prev)
				}
				prev = pi
			}
		})
	}
}

func TestClosedFormSpreadingMatchesQuadrature(t *testing.T) {
	models := []Model{
		Henry{K: 2},
		Langmuir{NM: 5, K: 1.5},
		DSLangmuir{NM1: 3, K1: 0.5, NM2: 2, K2: 5},
		BET{NM: 2, C: 50, N: 0.5},
		Quadratic{NM: 3, Ka: 0.5, Kb: 0.2},
		TemkinApprox{NM: 5, K: 1, Tht: 0.5},
		Virial{K: 5, A: 0.1, B: 0.01},
		FHVST{NM: 5, K: 2, A1v: 0.5},
	}

	for _, m := range models {
		t.Run(m.Name(), func(t *testing.T) {
			for _, p := range []float64{0.1, 0.9} {
				closed, err := m.SpreadingPressure(p)
				if err != nil {
					t.Fatal(err)
				}
				numeric, err := numericSpreading(m, p)
				if err != nil {
					t.Fatal(err)
				}
				if math.Abs(closed-numeric) > 1e-6*closed {
					t.Errorf("p=%g: closed form %.10g, quadrature %.10g", p, closed, numeric)
				}
			}
		})
	}
}

func TestTothReducesToLangmuir(t *testing.T) {
	toth := Toth{NM: 4, K: 2, T: 1}
	lang := Langmuir{NM: 4, K: 2}

	for _, p := range []float64{1e-6, 0.01, 1, 50} {
		got, err := toth.SpreadingPressure(p)
		if err != nil {
			t.Fatal(err)
		}
		want, _ := lang.SpreadingPressure(p)
		if math.Abs(got-want) > 1e-8*math.Max(want, 1e-12) {
			t.Errorf("p=%g: expected %.12g, got %.12g", p, want, got)
		}
	}
}

func TestSpreadingInverse(t *testing.T) {
	for _, m := range []Model{Henry{K: 3}, Langmuir{NM: 5, K: 1.5}} {
		inv := m.(SpreadingInverter)
		for _, p := range []float64{0.01, 0.5, 12} {
			pi, _ := m.SpreadingPressure(p)
			back, err := inv.PressureAtSpreading(pi)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(back-p) > 1e-10*p {
				t.Errorf("%s: expected %g, got %g", m.Name(), p, back)
			}
		}
	}
}

func TestDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"negative pressure", func() error { _, err := Langmuir{NM: 1, K: 1}.Loading(-1); return err }},
		{"langmuir saturation", func() error { _, err := Langmuir{NM: 1, K: 1}.Pressure(1); return err }},
		{"bet pole", func() error { _, err := BET{NM: 1, C: 10, N: 0.5}.Loading(2); return err }},
		{"dr relative pressure", func() error { _, err := DR{NM: 1, E: 1000}.Loading(1.5); return err }},
		{"toth saturation", func() error { _, err := Toth{NM: 2, K: 1, T: 0.5}.Pressure(2.5); return err }},
		{"vacancy saturation", func() error { _, err := FHVST{NM: 2, K: 1}.Pressure(2); return err }},
		{"jensen-seaton negative loading", func() error { _, err := JensenSeaton{K: 1, A: 1, B: 1, C: 1}.Pressure(-0.1); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, sorption.ErrDomain) {
				t.Errorf("expected domain error, got %v", err)
			}
		})
	}
}

func TestWithParamsIsImmutable(t *testing.T) {
	orig := Langmuir{NM: 5, K: 1}
	next, err := orig.WithParams(orig.Params().With("K", 3))
	if err != nil {
		t.Fatal(err)
	}
	if orig.K != 1 {
		t.Errorf("receiver modified: K=%g", orig.K)
	}
	if v, _ := next.Params().Get("K"); v != 3 {
		t.Errorf("expected K=3, got %g", v)
	}

	if _, err := orig.WithParams(Params{{Name: "K", Value: 1}}); !errors.Is(err, sorption.ErrConfiguration) {
		t.Errorf("expected configuration error for missing n_m, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	got := Describe(Langmuir{NM: 5, K: 1.5})
	want := "Langmuir(n_m=5, K=1.5) [IAST]"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
