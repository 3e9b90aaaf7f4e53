package pure

import (
	"errors"

	"github.com/san-kum/adsorb/internal/fit"
	"github.com/san-kum/adsorb/internal/isotherm"
	"github.com/san-kum/adsorb/internal/sorption"
)

// ModelIsotherm is a component described by a parametrised model.
type ModelIsotherm struct {
	meta          Meta
	model         isotherm.Model
	rmse          float64
	pressureRange sorption.Range
	loadingRange  sorption.Range
}

// NewModelIsotherm wraps a model with explicit parameters. It has no data
// range, so the strict policy only limits it to the model's own domain.
func NewModelIsotherm(m isotherm.Model, meta Meta) *ModelIsotherm {
	if meta.Label == "" {
		meta.Label = m.Name()
	}
	return &ModelIsotherm{
		meta:          meta,
		model:         m,
		pressureRange: sorption.Unbounded(),
		loadingRange:  sorption.Unbounded(),
	}
}

// FromFit wraps a fitted model, keeping the ranges of its data.
func FromFit(res *fit.Result, meta Meta) *ModelIsotherm {
	mi := NewModelIsotherm(res.Model, meta)
	mi.rmse = res.RMSE
	mi.pressureRange = res.PressureRange
	mi.loadingRange = res.LoadingRange
	return mi
}

func (mi *ModelIsotherm) Label() string             { return mi.meta.Label }
func (mi *ModelIsotherm) Units() Units              { return mi.meta.Units }
func (mi *ModelIsotherm) Policy() sorption.Policy   { return mi.meta.Policy }
func (mi *ModelIsotherm) IASTEligible() bool        { return mi.model.IASTEligible() }
func (mi *ModelIsotherm) Model() isotherm.Model     { return mi.model }
func (mi *ModelIsotherm) RMSE() float64             { return mi.rmse }
func (mi *ModelIsotherm) DataRange() sorption.Range { return mi.pressureRange }
func (mi *ModelIsotherm) LoadingRange() sorption.Range {
	return mi.loadingRange
}

func (mi *ModelIsotherm) Domain() sorption.Range {
	if mi.meta.Policy == sorption.PolicyExtrapolate || !mi.pressureRange.Bounded() {
		return sorption.Unbounded()
	}
	return sorption.Range{Min: 0, Max: mi.pressureRange.Max}
}

func (mi *ModelIsotherm) LoadingAt(p float64) (float64, error) {
	if p < 0 {
		return 0, negative(mi, "loading", p)
	}
	if mi.Domain().Exceeds(p) {
		return 0, beyond(mi, "loading", p)
	}
	n, err := mi.model.Loading(p)
	if err != nil {
		return 0, mi.relabel(err)
	}
	return checked(mi, "loading", p, n)
}

func (mi *ModelIsotherm) PressureAt(n float64) (float64, error) {
	if n < 0 {
		return 0, negative(mi, "pressure", n)
	}
	if mi.meta.Policy == sorption.PolicyStrict && mi.loadingRange.Exceeds(n) {
		return 0, &sorption.DomainError{
			Op: "pressure", Component: mi.Label(), Value: n, Range: mi.loadingRange,
			Reason: "beyond the data range under the strict policy",
		}
	}
	p, err := mi.model.Pressure(n)
	if err != nil {
		return 0, mi.relabel(err)
	}
	return checked(mi, "pressure", n, p)
}

func (mi *ModelIsotherm) SpreadingPressureAt(p float64) (float64, error) {
	if p < 0 {
		return 0, negative(mi, "spreading pressure", p)
	}
	if mi.Domain().Exceeds(p) {
		return 0, beyond(mi, "spreading pressure", p)
	}
	pi, err := mi.model.SpreadingPressure(p)
	if err != nil {
		return 0, mi.relabel(err)
	}
	return checked(mi, "spreading pressure", p, pi)
}

func (mi *ModelIsotherm) PressureAtSpreading(pi float64) (float64, error) {
	inv, ok := mi.model.(isotherm.SpreadingInverter)
	if !ok {
		start := 1.0
		if mi.pressureRange.Bounded() {
			start = mi.pressureRange.Max
		}
		return invertSpreading(mi, pi, start)
	}

	p, err := inv.PressureAtSpreading(pi)
	if err != nil {
		return 0, mi.relabel(err)
	}
	if mi.Domain().Exceeds(p) {
		return 0, beyond(mi, "pressure at spreading", p)
	}
	return checked(mi, "pressure at spreading", pi, p)
}

// relabel names the component in domain errors raised by the model.
func (mi *ModelIsotherm) relabel(err error) error {
	var de *sorption.DomainError
	if errors.As(err, &de) && de.Component != mi.Label() {
		cp := *de
		cp.Component = mi.Label()
		return &cp
	}
	return err
}
