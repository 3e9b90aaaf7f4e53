package iast

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/adsorb/internal/sorption"
)

var _ = Describe("Sweeps", func() {
	var (
		solver *Solver
		mix    *Mixture
	)

	BeforeEach(func() {
		opts := DefaultOptions()
		opts.Logger = GinkgoLogr
		opts.Workers = 4
		solver = NewSolver(opts)

		var err error
		mix, err = NewMixture(langmuir("strong", 3, 2), langmuir("weak", 5, 0.5))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("BinaryVLE", func() {
		It("pads the diagram with the pure-component ends", func() {
			sw, err := solver.BinaryVLE(context.Background(), mix, 1, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(sw.Errors()).NotTo(HaveOccurred())
			Expect(sw.Points).To(HaveLen(12))

			first, last := sw.Points[0], sw.Points[len(sw.Points)-1]
			Expect(first.Y).To(BeZero())
			Expect(first.X).To(BeZero())
			Expect(last.Y).To(Equal(1.0))
			Expect(last.X).To(Equal(1.0))
			Expect(sw.Points[1].Y).To(BeNumerically("~", 0.01, 1e-12))
			Expect(sw.Points[10].Y).To(BeNumerically("~", 0.99, 1e-12))
		})

		It("enriches the stronger component at every composition", func() {
			sw, err := solver.BinaryVLE(context.Background(), mix, 1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(sw.Points).To(HaveLen(DefaultVLEPoints + 2))

			prev := 0.0
			for _, pt := range sw.Points[1 : len(sw.Points)-1] {
				Expect(pt.OK()).To(BeTrue())
				Expect(pt.X).To(BeNumerically(">", pt.Y))
				Expect(pt.X).To(BeNumerically(">", prev))
				Expect(pt.Selectivity).To(BeNumerically(">", 1))
				prev = pt.X
			}
		})

		It("needs a binary mixture and enough points", func() {
			single, err := NewMixture(langmuir("a", 3, 2))
			Expect(err).NotTo(HaveOccurred())
			_, err = solver.BinaryVLE(context.Background(), single, 1, 10)
			Expect(err).To(MatchError(sorption.ErrConfiguration))

			_, err = solver.BinaryVLE(context.Background(), mix, 1, 1)
			Expect(err).To(MatchError(sorption.ErrConfiguration))
		})

		It("marks points of a cancelled sweep", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			sw, err := solver.BinaryVLE(ctx, mix, 1, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(sw.Errors()).To(MatchError(context.Canceled))
			Expect(sw.Converged()).To(HaveLen(2))
		})
	})

	Describe("SelectivitySweep", func() {
		It("records the selectivity at each pressure", func() {
			pressures := []float64{0.1, 0.5, 1, 5}
			sw, err := solver.SelectivitySweep(context.Background(), mix, []float64{0.5, 0.5}, pressures)
			Expect(err).NotTo(HaveOccurred())
			Expect(sw.Errors()).NotTo(HaveOccurred())
			Expect(sw.Components).To(Equal([]string{"strong", "weak"}))

			for i, pt := range sw.Points {
				Expect(pt.Pressure).To(Equal(pressures[i]))
				Expect(pt.Selectivity).To(BeNumerically(">", 1))
				Expect(pt.State).NotTo(BeNil())
			}
		})

		It("keeps going past a failing point", func() {
			strict, err := NewMixture(fitted("a", 5, 0.5, 1, sorption.PolicyStrict), langmuir("b", 3, 2))
			Expect(err).NotTo(HaveOccurred())

			sw, err := solver.SelectivitySweep(context.Background(), strict, []float64{0.5, 0.5}, []float64{0.1, 100, 0.5})
			Expect(err).NotTo(HaveOccurred())
			Expect(sw.Points[0].OK()).To(BeTrue())
			Expect(sw.Points[1].OK()).To(BeFalse())
			Expect(sw.Points[2].OK()).To(BeTrue())
			Expect(sw.Errors()).To(MatchError(sorption.ErrDomain))
			Expect(sw.Converged()).To(HaveLen(2))
		})

		It("validates before sweeping", func() {
			_, err := solver.SelectivitySweep(context.Background(), mix, []float64{0.7, 0.7}, []float64{1})
			Expect(err).To(MatchError(sorption.ErrConfiguration))
			_, err = solver.SelectivitySweep(context.Background(), mix, []float64{0.5, 0.5}, nil)
			Expect(err).To(MatchError(sorption.ErrConfiguration))
		})
	})
})
