package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/adsorb/internal/iast"
	"github.com/san-kum/adsorb/internal/isotherm"
	"github.com/san-kum/adsorb/internal/pure"
	"github.com/san-kum/adsorb/internal/sorption"
)

// Component names a model and its parameters.
type Component struct {
	Label  string             `yaml:"label"`
	Model  string             `yaml:"model"`
	Params map[string]float64 `yaml:"params"`
}

// Preset is a literature-style mixture with a default operating point.
type Preset struct {
	Description string      `yaml:"description"`
	Temperature float64     `yaml:"temperature"`
	Units       pure.Units  `yaml:"units"`
	Components  []Component `yaml:"components"`
	Fractions   []float64   `yaml:"fractions"`
	Pressure    float64     `yaml:"pressure"`
}

var Presets = map[string]*Preset{
	"co2-n2-zeolite": {
		Description: "flue gas on a 13X-like zeolite",
		Temperature: 298.15,
		Units:       pure.Units{Pressure: "bar", Loading: "mmol/g", Temperature: 298.15},
		Components: []Component{
			{Label: "CO2", Model: "DSLangmuir", Params: map[string]float64{"n_m1": 3.2, "K1": 18.0, "n_m2": 2.1, "K2": 0.9}},
			{Label: "N2", Model: "Langmuir", Params: map[string]float64{"n_m": 3.0, "K": 0.12}},
		},
		Fractions: []float64{0.15, 0.85},
		Pressure:  1.0,
	},
	"ch4-c2h6-carbon": {
		Description: "natural gas on an activated carbon",
		Temperature: 303.15,
		Units:       pure.Units{Pressure: "bar", Loading: "mmol/g", Temperature: 303.15},
		Components: []Component{
			{Label: "CH4", Model: "Toth", Params: map[string]float64{"n_m": 9.0, "K": 0.35, "t": 0.75}},
			{Label: "C2H6", Model: "Langmuir", Params: map[string]float64{"n_m": 6.5, "K": 2.4}},
		},
		Fractions: []float64{0.9, 0.1},
		Pressure:  5.0,
	},
	"o2-n2-henry": {
		Description: "air separation in the Henry regime",
		Temperature: 298.15,
		Units:       pure.Units{Pressure: "bar", Loading: "mmol/g", Temperature: 298.15},
		Components: []Component{
			{Label: "O2", Model: "Henry", Params: map[string]float64{"K": 0.12}},
			{Label: "N2", Model: "Henry", Params: map[string]float64{"K": 0.36}},
		},
		Fractions: []float64{0.21, 0.79},
		Pressure:  1.0,
	},
}

func GetPreset(name string) *Preset {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Isotherms builds the preset's pure components.
func (p *Preset) Isotherms(reg *isotherm.Registry, policy sorption.Policy) ([]pure.Isotherm, error) {
	out := make([]pure.Isotherm, len(p.Components))
	for i, c := range p.Components {
		m, err := reg.FromParams(c.Model, c.Params, isotherm.Settings{Temperature: p.Temperature})
		if err != nil {
			return nil, fmt.Errorf("preset component %s: %w", c.Label, err)
		}
		out[i] = pure.NewModelIsotherm(m, pure.Meta{Label: c.Label, Units: p.Units, Policy: policy})
	}
	return out, nil
}

// Mixture builds the preset's validated mixture.
func (p *Preset) Mixture(reg *isotherm.Registry, policy sorption.Policy) (*iast.Mixture, error) {
	comps, err := p.Isotherms(reg, policy)
	if err != nil {
		return nil, err
	}
	return iast.NewMixture(comps...)
}
