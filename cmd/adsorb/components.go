package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/adsorb/internal/config"
	"github.com/san-kum/adsorb/internal/fit"
	"github.com/san-kum/adsorb/internal/iast"
	"github.com/san-kum/adsorb/internal/isotherm"
	"github.com/san-kum/adsorb/internal/pure"
	"github.com/san-kum/adsorb/internal/sorption"
	"github.com/san-kum/adsorb/internal/storage"
)

var fittedRuns []string

// selection is the mixture named on the command line with its default
// operating point.
type selection struct {
	components []pure.Isotherm
	fractions  []float64
	pressure   float64
}

// parseComponent reads "label=Model:name=value,name=value". The label may
// be omitted, in which case the model name is used.
func parseComponent(spec string) (config.Component, error) {
	const op = "parse component"
	var c config.Component

	rest := spec
	if label, after, ok := strings.Cut(spec, "="); ok && !strings.Contains(label, ":") {
		c.Label, rest = strings.TrimSpace(label), after
	}
	model, params, _ := strings.Cut(rest, ":")
	c.Model = strings.TrimSpace(model)
	if c.Model == "" {
		return c, sorption.Configf(op, "%q names no model", spec)
	}
	if c.Label == "" {
		c.Label = c.Model
	}

	c.Params = make(map[string]float64)
	if strings.TrimSpace(params) == "" {
		return c, nil
	}
	for _, kv := range strings.Split(params, ",") {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			return c, sorption.Configf(op, "%q: parameter %q lacks a value", spec, kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return c, sorption.Configf(op, "%q: parameter %s: %v", spec, name, err)
		}
		c.Params[strings.TrimSpace(name)] = f
	}
	return c, nil
}

// parseKeyValues reads "name=value" pairs into a map.
func parseKeyValues(op string, pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, kv := range pairs {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, sorption.Configf(op, "%q is not name=value", kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, sorption.Configf(op, "%s: %v", name, err)
		}
		out[strings.TrimSpace(name)] = f
	}
	return out, nil
}

func parseInterpolation(s string) (pure.Interpolation, error) {
	switch strings.ToLower(s) {
	case "", "monotone":
		return pure.Monotone, nil
	case "linear":
		return pure.Linear, nil
	}
	return pure.Monotone, sorption.Configf("parse interpolation", "unknown interpolation %q (want monotone or linear)", s)
}

// selectComponents gathers the preset, explicit, measured and previously
// fitted components in that order.
func selectComponents() (*selection, error) {
	sel := &selection{pressure: 1}
	meta := func(label string) pure.Meta {
		return pure.Meta{Label: label, Policy: app.policy, Units: pure.Units{Temperature: temperature}}
	}

	if presetName != "" {
		p := config.GetPreset(presetName)
		if p == nil {
			return nil, sorption.Configf("preset", "unknown preset %s (available: %v)", presetName, config.ListPresets())
		}
		comps, err := p.Isotherms(app.registry, app.policy)
		if err != nil {
			return nil, err
		}
		sel.components = append(sel.components, comps...)
		sel.fractions = append(sel.fractions, p.Fractions...)
		sel.pressure = p.Pressure
	}

	for _, spec := range componentSpecs {
		c, err := parseComponent(spec)
		if err != nil {
			return nil, err
		}
		m, err := app.registry.FromParams(c.Model, c.Params, isotherm.Settings{Temperature: temperature})
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.Label, err)
		}
		sel.components = append(sel.components, pure.NewModelIsotherm(m, meta(c.Label)))
	}

	kind, err := parseInterpolation(interpolation)
	if err != nil {
		return nil, err
	}
	for _, spec := range dataSpecs {
		label, path, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, sorption.Configf("data", "%q is not label=file.csv", spec)
		}
		p, q, err := storage.ReadPointsFile(path)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", label, err)
		}
		iso, err := pure.NewPointIsotherm(p, q, kind, meta(label))
		if err != nil {
			return nil, err
		}
		sel.components = append(sel.components, iso)
	}

	for _, id := range fittedRuns {
		iso, err := loadFitted(id)
		if err != nil {
			return nil, err
		}
		sel.components = append(sel.components, iso)
	}

	if len(sel.components) == 0 {
		return nil, sorption.Configf("components", "no components given (use --preset, --component, --data or --fitted)")
	}
	if len(sel.fractions) != len(sel.components) {
		sel.fractions = make([]float64, len(sel.components))
		for i := range sel.fractions {
			sel.fractions[i] = 1 / float64(len(sel.components))
		}
	}
	return sel, nil
}

// loadFitted rebuilds a component from a stored fit run.
func loadFitted(id string) (pure.Isotherm, error) {
	meta, err := app.store.Load(id)
	if err != nil {
		return nil, err
	}
	if meta.Kind != storage.KindFit || meta.Fit == nil {
		return nil, sorption.Configf("fitted", "run %s is a %s run, not a fit", id, meta.Kind)
	}
	res, err := fit.FromRecord(app.registry, *meta.Fit)
	if err != nil {
		return nil, err
	}
	label := meta.Fit.Model
	if len(meta.Components) > 0 {
		label = meta.Components[0]
	}
	return pure.FromFit(res, pure.Meta{
		Label:  label,
		Policy: app.policy,
		Units:  pure.Units{Temperature: meta.Fit.Temperature},
	}), nil
}

// mixture resolves the selection and the operating point. Flags override
// the preset's fractions and pressure.
func mixture(changed func(string) bool) (*iast.Mixture, *selection, error) {
	sel, err := selectComponents()
	if err != nil {
		return nil, nil, err
	}
	if changed("fractions") {
		sel.fractions = fractions
	}
	if changed("pressure") {
		sel.pressure = pressure
	}
	mix, err := iast.NewMixture(sel.components...)
	if err != nil {
		return nil, nil, err
	}
	return mix, sel, nil
}

func solver() *iast.Solver {
	return iast.NewSolver(app.cfg.SolverOptions(app.log))
}
