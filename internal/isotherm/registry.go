package isotherm

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/san-kum/adsorb/internal/sorption"
)

// Registry maps model names to constructors. Names are matched
// case-insensitively.
type Registry struct {
	models map[string]func(Settings) Model
	names  []string
	guess  []string
}

// NewRegistry returns a registry holding every built-in model.
func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]func(Settings) Model)}

	r.Register("Henry", func(Settings) Model { return Henry{} }, true)
	r.Register("Langmuir", func(Settings) Model { return Langmuir{} }, true)
	r.Register("DSLangmuir", func(Settings) Model { return DSLangmuir{} }, true)
	r.Register("TSLangmuir", func(Settings) Model { return TSLangmuir{} }, false)
	r.Register("BET", func(Settings) Model { return BET{} }, true)
	r.Register("GAB", func(Settings) Model { return GAB{} }, false)
	r.Register("Freundlich", func(Settings) Model { return Freundlich{M: 1} }, true)
	r.Register("DR", func(s Settings) Model { return DR{Temperature: s.Temperature} }, true)
	r.Register("DA", func(s Settings) Model { return DA{M: 2, Temperature: s.Temperature} }, false)
	r.Register("Quadratic", func(Settings) Model { return Quadratic{} }, true)
	r.Register("TemkinApprox", func(Settings) Model { return TemkinApprox{} }, true)
	r.Register("Toth", func(Settings) Model { return Toth{T: 1} }, true)
	r.Register("DSToth", func(Settings) Model { return DSToth{T1: 1, T2: 1} }, false)
	r.Register("JensenSeaton", func(Settings) Model { return JensenSeaton{C: 1} }, true)
	r.Register("Virial", func(Settings) Model { return Virial{} }, false)
	r.Register("WVST", func(Settings) Model { return WVST{L1v: 1, Lv1: 1} }, false)
	r.Register("FHVST", func(Settings) Model { return FHVST{} }, false)

	return r
}

// Register adds a model under name. guess marks it as a default candidate
// for model selection.
func (r *Registry) Register(name string, fn func(Settings) Model, guess bool) {
	key := strings.ToLower(name)
	if _, dup := r.models[key]; !dup {
		r.names = append(r.names, name)
	}
	r.models[key] = fn
	if guess {
		r.guess = append(r.guess, name)
	}
}

// New returns the zero-parameter model registered under name.
func (r *Registry) New(name string, s Settings) (Model, error) {
	fn, ok := r.models[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sorption.ErrUnknownModel, name)
	}
	return fn(s), nil
}

// FromParams builds a model with every parameter given explicitly.
func (r *Registry) FromParams(name string, values map[string]float64, s Settings) (Model, error) {
	m, err := r.New(name, s)
	if err != nil {
		return nil, err
	}
	names := m.Params().Names()
	for k := range values {
		if !slices.Contains(names, k) {
			return nil, sorption.Configf("params "+m.Name(), "unknown parameter %q (want %s)", k, strings.Join(names, ", "))
		}
	}
	return m.WithParams(ParamsFromMap(names, values))
}

// Names lists registered models in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// GuessCandidates lists the models tried by default during model selection.
func (r *Registry) GuessCandidates() []string {
	out := make([]string, len(r.guess))
	copy(out, r.guess)
	return out
}

// IASTModels lists the registered models usable in IAST, sorted by name.
func (r *Registry) IASTModels() []string {
	var out []string
	for _, name := range r.names {
		if r.models[strings.ToLower(name)](Settings{}).IASTEligible() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
