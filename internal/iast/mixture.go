package iast

import (
	"fmt"
	"math"

	"github.com/san-kum/adsorb/internal/pure"
	"github.com/san-kum/adsorb/internal/sorption"
)

// fractionTol is how far a composition may sum away from one.
const fractionTol = 1e-6

// Mixture is a validated, ordered set of pure components.
type Mixture struct {
	components []pure.Isotherm
	units      pure.Units
}

// NewMixture rejects components that cannot take part in IAST, either
// because their model is not eligible or because their units disagree.
func NewMixture(components ...pure.Isotherm) (*Mixture, error) {
	const op = "mixture"
	if len(components) == 0 {
		return nil, sorption.Configf(op, "no components")
	}

	m := &Mixture{components: make([]pure.Isotherm, len(components))}
	seen := make(map[string]bool, len(components))
	for i, c := range components {
		if c == nil {
			return nil, sorption.Configf(op, "component %d is nil", i)
		}
		if !c.IASTEligible() {
			return nil, sorption.Configf(op, "component %q is not IAST eligible", c.Label())
		}
		if seen[c.Label()] {
			return nil, sorption.Configf(op, "duplicate component label %q", c.Label())
		}
		seen[c.Label()] = true

		if err := m.units.Compatible(c.Units()); err != nil {
			return nil, fmt.Errorf("component %q: %w", c.Label(), err)
		}
		m.units = merge(m.units, c.Units())
		m.components[i] = c
	}
	return m, nil
}

func merge(a, b pure.Units) pure.Units {
	if a.Pressure == "" {
		a.Pressure = b.Pressure
	}
	if a.Loading == "" {
		a.Loading = b.Loading
	}
	if a.Temperature == 0 {
		a.Temperature = b.Temperature
	}
	return a
}

func (m *Mixture) Len() int                      { return len(m.components) }
func (m *Mixture) Component(i int) pure.Isotherm { return m.components[i] }
func (m *Mixture) Units() pure.Units             { return m.units }

func (m *Mixture) Labels() []string {
	labels := make([]string, len(m.components))
	for i, c := range m.components {
		labels[i] = c.Label()
	}
	return labels
}

// checkFractions validates a composition before any solve starts.
func (m *Mixture) checkFractions(op string, fractions []float64) error {
	if len(fractions) != len(m.components) {
		return sorption.Configf(op, "got %d mole fractions for %d components", len(fractions), len(m.components))
	}
	sum := 0.0
	for i, f := range fractions {
		if !sorption.Finite(f) || f < 0 {
			return sorption.Configf(op, "mole fraction of %q is %g", m.components[i].Label(), f)
		}
		sum += f
	}
	if math.Abs(sum-1) > fractionTol {
		return sorption.Configf(op, "mole fractions sum to %g, not 1", sum)
	}
	return nil
}
