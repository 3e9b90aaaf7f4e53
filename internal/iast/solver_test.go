package iast

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/adsorb/internal/fit"
	"github.com/san-kum/adsorb/internal/isotherm"
	"github.com/san-kum/adsorb/internal/pure"
	"github.com/san-kum/adsorb/internal/sorption"
)

func component(label string, m isotherm.Model) pure.Isotherm {
	return pure.NewModelIsotherm(m, pure.Meta{Label: label})
}

func langmuir(label string, nm, k float64) pure.Isotherm {
	return component(label, isotherm.Langmuir{NM: nm, K: k})
}

// fitted wraps a Langmuir model as if it had been fitted on [0.01, pmax].
func fitted(label string, nm, k, pmax float64, policy sorption.Policy) pure.Isotherm {
	res := &fit.Result{
		Model:         isotherm.Langmuir{NM: nm, K: k},
		PressureRange: sorption.Range{Min: 0.01, Max: pmax},
		LoadingRange:  sorption.Unbounded(),
	}
	return pure.FromFit(res, pure.Meta{Label: label, Policy: policy})
}

// spy counts spreading-pressure inversions.
type spy struct {
	pure.Isotherm
	calls int
}

func (s *spy) PressureAtSpreading(pi float64) (float64, error) {
	s.calls++
	return s.Isotherm.PressureAtSpreading(pi)
}

func newSolver() *Solver {
	opts := DefaultOptions()
	opts.Logger = GinkgoLogr
	return NewSolver(opts)
}

var _ = Describe("NewMixture", func() {
	It("rejects IAST-ineligible models", func() {
		_, err := NewMixture(langmuir("co2", 5, 1), component("n2", isotherm.DR{NM: 5, E: 5000, Temperature: 298}))
		Expect(err).To(MatchError(sorption.ErrConfiguration))
	})

	It("rejects inconsistent units", func() {
		a := pure.NewModelIsotherm(isotherm.Langmuir{NM: 5, K: 1}, pure.Meta{Label: "a", Units: pure.Units{Pressure: "bar"}})
		b := pure.NewModelIsotherm(isotherm.Langmuir{NM: 3, K: 2}, pure.Meta{Label: "b", Units: pure.Units{Pressure: "kPa"}})
		_, err := NewMixture(a, b)
		Expect(err).To(MatchError(sorption.ErrConfiguration))
	})

	It("rejects empty and duplicate components", func() {
		_, err := NewMixture()
		Expect(err).To(MatchError(sorption.ErrConfiguration))

		_, err = NewMixture(langmuir("a", 5, 1), langmuir("a", 3, 2))
		Expect(err).To(MatchError(sorption.ErrConfiguration))
	})

	It("keeps component order and merges units", func() {
		a := pure.NewModelIsotherm(isotherm.Langmuir{NM: 5, K: 1}, pure.Meta{Label: "a", Units: pure.Units{Pressure: "bar"}})
		b := pure.NewModelIsotherm(isotherm.Langmuir{NM: 3, K: 2}, pure.Meta{Label: "b", Units: pure.Units{Temperature: 298}})
		mix, err := NewMixture(a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(mix.Labels()).To(Equal([]string{"a", "b"}))
		Expect(mix.Units()).To(Equal(pure.Units{Pressure: "bar", Temperature: 298}))
	})
})

var _ = Describe("Solver", func() {
	var solver *Solver

	BeforeEach(func() {
		solver = newSolver()
	})

	Context("with two Langmuir components of different affinity", func() {
		var mix *Mixture

		BeforeEach(func() {
			var err error
			mix, err = NewMixture(langmuir("weak", 5, 0.5), langmuir("strong", 3, 2))
			Expect(err).NotTo(HaveOccurred())
		})

		It("enriches the stronger component in the adsorbed phase", func() {
			st, err := solver.Forward(mix, []float64{0.5, 0.5}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Status).To(Equal(StatusConverged))
			Expect(st.X[1]).To(BeNumerically(">", st.Y[1]))

			s21, err := st.Selectivity(1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(s21).To(BeNumerically(">", 1))
		})

		It("keeps the adsorbed fractions summing to one", func() {
			for _, p := range []float64{0.01, 0.3, 1, 7, 40} {
				st, err := solver.Forward(mix, []float64{0.2, 0.8}, p)
				Expect(err).NotTo(HaveOccurred())
				Expect(st.X[0] + st.X[1]).To(BeNumerically("~", 1, 1e-6))
			}
		})

		It("puts every component at the same spreading pressure", func() {
			st, err := solver.Forward(mix, []float64{0.35, 0.65}, 2)
			Expect(err).NotTo(HaveOccurred())
			for i := range st.X {
				pi, err := mix.Component(i).SpreadingPressureAt(st.Pressure0[i])
				Expect(err).NotTo(HaveOccurred())
				Expect(pi).To(BeNumerically("~", st.SpreadingPressure, 1e-9*st.SpreadingPressure))
			}
		})

		It("recovers the bulk composition in reverse", func() {
			y := []float64{0.3, 0.7}
			fwd, err := solver.Forward(mix, y, 1.5)
			Expect(err).NotTo(HaveOccurred())

			rev, err := solver.Reverse(mix, fwd.X, 1.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(rev.Mode).To(Equal(Reverse))
			Expect(rev.Y[0]).To(BeNumerically("~", y[0], 1e-3))
			Expect(rev.Y[1]).To(BeNumerically("~", y[1], 1e-3))
			Expect(rev.Y[0] + rev.Y[1]).To(BeNumerically("~", 1, 1e-6))
			Expect(rev.TotalLoading).To(BeNumerically("~", fwd.TotalLoading, 1e-3*fwd.TotalLoading))
		})

		It("is deterministic", func() {
			a, err := solver.Forward(mix, []float64{0.4, 0.6}, 3)
			Expect(err).NotTo(HaveOccurred())
			b, err := solver.Forward(mix, []float64{0.4, 0.6}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(Equal(a))
		})

		It("gives reciprocal selectivities", func() {
			st, err := solver.Forward(mix, []float64{0.25, 0.75}, 0.8)
			Expect(err).NotTo(HaveOccurred())
			s01, err := st.Selectivity(0, 1)
			Expect(err).NotTo(HaveOccurred())
			s10, err := st.Selectivity(1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(s01 * s10).To(BeNumerically("~", 1, 1e-12))
		})

		It("rejects compositions that do not sum to one before solving", func() {
			a := &spy{Isotherm: langmuir("a", 5, 0.5)}
			b := &spy{Isotherm: langmuir("b", 3, 2)}
			counted, err := NewMixture(a, b)
			Expect(err).NotTo(HaveOccurred())

			_, err = solver.Forward(counted, []float64{0.6, 0.6}, 1)
			Expect(err).To(MatchError(sorption.ErrConfiguration))
			_, err = solver.Reverse(counted, []float64{0.6, 0.6}, 1)
			Expect(err).To(MatchError(sorption.ErrConfiguration))
			Expect(a.calls + b.calls).To(BeZero())
		})

		It("rejects malformed inputs", func() {
			_, err := solver.Forward(mix, []float64{1}, 1)
			Expect(err).To(MatchError(sorption.ErrConfiguration))
			_, err = solver.Forward(mix, []float64{1.5, -0.5}, 1)
			Expect(err).To(MatchError(sorption.ErrConfiguration))
			_, err = solver.Forward(mix, []float64{0.5, 0.5}, 0)
			Expect(err).To(MatchError(sorption.ErrConfiguration))
			_, err = solver.Forward(mix, []float64{0.5, 0.5}, math.Inf(1))
			Expect(err).To(MatchError(sorption.ErrConfiguration))
		})
	})

	It("matches the closed form for Henry mixtures", func() {
		mix, err := NewMixture(component("a", isotherm.Henry{K: 2}), component("b", isotherm.Henry{K: 5}))
		Expect(err).NotTo(HaveOccurred())

		y := []float64{0.3, 0.7}
		st, err := solver.Forward(mix, y, 1)
		Expect(err).NotTo(HaveOccurred())

		norm := y[0]*2 + y[1]*5
		Expect(st.X[0]).To(BeNumerically("~", y[0]*2/norm, 1e-9))
		Expect(st.X[1]).To(BeNumerically("~", y[1]*5/norm, 1e-9))
		Expect(st.Loading[0]).To(BeNumerically("~", y[0]*2, 1e-3))
		Expect(st.Loading[1]).To(BeNumerically("~", y[1]*5, 1e-3))
	})

	It("reduces to the pure isotherm for one component", func() {
		toth := component("toth", isotherm.Toth{NM: 5, K: 1, T: 0.7})
		mix, err := NewMixture(toth)
		Expect(err).NotTo(HaveOccurred())

		st, err := solver.Forward(mix, []float64{1}, 2)
		Expect(err).NotTo(HaveOccurred())
		want, err := toth.LoadingAt(2)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.X[0]).To(Equal(1.0))
		Expect(st.Loading[0]).To(BeNumerically("~", want, 1e-3*want))
	})

	It("does not decrease any loading as total pressure rises", func() {
		mix, err := NewMixture(langmuir("a", 4, 0.5), langmuir("b", 4, 2))
		Expect(err).NotTo(HaveOccurred())

		prev := []float64{0, 0}
		for _, p := range []float64{0.05, 0.1, 0.5, 1, 2, 5, 20} {
			st, err := solver.Forward(mix, []float64{0.5, 0.5}, p)
			Expect(err).NotTo(HaveOccurred())
			for i, q := range st.Loading {
				Expect(q).To(BeNumerically(">=", prev[i]*(1-1e-6)))
			}
			prev = st.Loading
		}
	})

	It("skips absent components", func() {
		tiny := fitted("tiny", 5, 1, 0.1, sorption.PolicyStrict)
		mix, err := NewMixture(tiny, langmuir("b", 3, 2))
		Expect(err).NotTo(HaveOccurred())

		st, err := solver.Forward(mix, []float64{0, 1}, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.X[0]).To(BeZero())
		Expect(st.Loading[0]).To(BeZero())
		Expect(st.Pressure0[0]).To(BeZero())
		Expect(st.X[1]).To(Equal(1.0))

		rev, err := solver.Reverse(mix, []float64{0, 1}, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(rev.Y[0]).To(BeZero())
		Expect(rev.Loading[0]).To(BeZero())
	})

	It("refuses to leave a strict component's data range", func() {
		mix, err := NewMixture(fitted("a", 5, 0.5, 1, sorption.PolicyStrict), langmuir("b", 3, 2))
		Expect(err).NotTo(HaveOccurred())

		_, err = solver.Forward(mix, []float64{0.5, 0.5}, 100)
		Expect(err).To(MatchError(sorption.ErrDomain))
		Expect(StatusOf(err)).To(Equal(StatusInvalid))
	})

	It("extrapolates with a warning when the policy allows it", func() {
		mix, err := NewMixture(fitted("a", 5, 0.5, 1, sorption.PolicyExtrapolate), langmuir("b", 3, 2))
		Expect(err).NotTo(HaveOccurred())

		st, err := solver.Forward(mix, []float64{0.5, 0.5}, 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Warnings).NotTo(BeEmpty())
		Expect(st.Warnings[0].Component).To(Equal("a"))
	})

	It("handles interpolated components like models", func() {
		var p, n []float64
		for x := 1e-3; x <= 10; x *= 1.25 {
			p = append(p, x)
			n = append(n, 5*0.5*x/(1+0.5*x))
		}
		points, err := pure.NewPointIsotherm(p, n, pure.Monotone, pure.Meta{Label: "weak"})
		Expect(err).NotTo(HaveOccurred())

		exact, err := NewMixture(langmuir("weak", 5, 0.5), langmuir("strong", 3, 2))
		Expect(err).NotTo(HaveOccurred())
		mixed, err := NewMixture(points, langmuir("strong", 3, 2))
		Expect(err).NotTo(HaveOccurred())

		want, err := solver.Forward(exact, []float64{0.5, 0.5}, 1)
		Expect(err).NotTo(HaveOccurred())
		got, err := solver.Forward(mixed, []float64{0.5, 0.5}, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.X[0]).To(BeNumerically("~", want.X[0], 1e-2))
	})

	It("reports a spreading pressure when the search gives up", func() {
		weak, strong := langmuir("weak", 5, 0.5), langmuir("strong", 3, 2)
		mix, err := NewMixture(weak, strong)
		Expect(err).NotTo(HaveOccurred())

		opts := DefaultOptions()
		opts.MaxIterations = 1
		opts.Logger = GinkgoLogr
		_, err = NewSolver(opts).Forward(mix, []float64{0.5, 0.5}, 1)
		var ce *sorption.ConvergenceError
		Expect(errors.As(err, &ce)).To(BeTrue(), "got %v", err)
		Expect(ce.Estimate).To(BeNumerically(">", 0))

		// the residual was taken at the reported π
		sum := 0.0
		for _, c := range []pure.Isotherm{weak, strong} {
			p, err := c.PressureAtSpreading(ce.Estimate)
			Expect(err).NotTo(HaveOccurred())
			sum += 0.5 / p
		}
		Expect(sum - 1).To(BeNumerically("~", ce.Residual, 1e-9*math.Max(1, math.Abs(ce.Residual))))
	})

	It("solves components without a closed-form inverse", func() {
		mix, err := NewMixture(
			component("toth", isotherm.Toth{NM: 5, K: 1, T: 0.7}),
			component("quad", isotherm.Quadratic{NM: 3, Ka: 0.5, Kb: 0.2}),
		)
		Expect(err).NotTo(HaveOccurred())

		fwd, err := solver.Forward(mix, []float64{0.4, 0.6}, 1)
		Expect(err).NotTo(HaveOccurred())
		rev, err := solver.Reverse(mix, fwd.X, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(rev.Y[0]).To(BeNumerically("~", 0.4, 1e-3))
	})
})

var _ = Describe("State", func() {
	It("refuses selectivity with a zero fraction", func() {
		st := &State{
			Components: []string{"a", "b"},
			Y:          []float64{0, 1},
			X:          []float64{0, 1},
			Status:     StatusConverged,
		}
		_, err := st.Selectivity(0, 1)
		Expect(err).To(MatchError(sorption.ErrDomain))
		_, err = st.Selectivity(0, 2)
		Expect(err).To(MatchError(sorption.ErrConfiguration))
	})

	It("maps errors to statuses", func() {
		Expect(StatusOf(nil)).To(Equal(StatusConverged))
		Expect(StatusOf(&sorption.ConvergenceError{Op: "brent"})).To(Equal(StatusFailed))
		Expect(StatusOf(&sorption.DomainError{Op: "forward"})).To(Equal(StatusInvalid))
		Expect(StatusInvalid.String()).To(Equal("invalid"))
	})
})
