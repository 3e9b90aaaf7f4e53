// Package fit calibrates isotherm models against measured points and
// selects the best of several candidate models.
package fit

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-logr/logr"

	"github.com/san-kum/adsorb/internal/isotherm"
	"github.com/san-kum/adsorb/internal/sorption"
)

// Options configures a Fitter.
type Options struct {
	MaxIter     int
	Tol         float64
	Temperature float64
	// AddPoint is passed through to the virial fit.
	AddPoint bool
	// Guess and Bounds override the model defaults in single-model fits.
	// Model selection ignores them since they are model-specific.
	Guess  map[string]float64
	Bounds isotherm.Bounds
	// Workers bounds concurrent candidate fits; zero means one per candidate.
	Workers int
}

func DefaultOptions() Options {
	return Options{
		MaxIter: 500,
		Tol:     1e-10,
	}
}

// Result is a calibrated model with the data ranges it was built on.
type Result struct {
	Model         isotherm.Model
	RMSE          float64
	Iterations    int
	Points        int
	PressureRange sorption.Range
	LoadingRange  sorption.Range
}

// Attempt records the outcome of one candidate during model selection.
type Attempt struct {
	Model string
	RMSE  float64
	Err   error
}

type Fitter struct {
	registry *isotherm.Registry
	opts     Options
	log      logr.Logger
}

func New(reg *isotherm.Registry, opts Options, log logr.Logger) *Fitter {
	return &Fitter{registry: reg, opts: opts, log: log.WithName("fit")}
}

// Fit calibrates the named model.
func (f *Fitter) Fit(name string, pressure, loading []float64) (*Result, error) {
	m, err := f.registry.New(name, isotherm.Settings{Temperature: f.opts.Temperature})
	if err != nil {
		return nil, err
	}
	return f.FitModel(m, pressure, loading)
}

// FitModel calibrates m, applying the configured guess and bound overrides.
func (f *Fitter) FitModel(m isotherm.Model, pressure, loading []float64) (*Result, error) {
	opts := f.baseOptions()
	opts.Guess = isotherm.ParamsFromMap(m.Params().Names(), f.opts.Guess)
	if len(opts.Guess) != len(f.opts.Guess) {
		return nil, sorption.Configf("fit "+m.Name(), "guess names parameters outside %v", m.Params().Names())
	}
	opts.Bounds = f.opts.Bounds
	return f.run(m, pressure, loading, opts)
}

func (f *Fitter) baseOptions() isotherm.FitOptions {
	return isotherm.FitOptions{
		MaxIter:  f.opts.MaxIter,
		Tol:      f.opts.Tol,
		AddPoint: f.opts.AddPoint,
	}
}

func (f *Fitter) run(m isotherm.Model, pressure, loading []float64, opts isotherm.FitOptions) (*Result, error) {
	log := f.log.WithValues("model", m.Name(), "points", len(pressure))
	log.V(1).Info("fitting")

	res, err := isotherm.Fit(m, pressure, loading, opts)
	if err != nil {
		log.V(1).Info("fit failed", "error", err.Error())
		return nil, err
	}

	log.V(1).Info("fitted", "params", res.Model.Params().String(), "rmse", res.RMSE, "iterations", res.Iterations)
	return &Result{
		Model:         res.Model,
		RMSE:          res.RMSE,
		Iterations:    res.Iterations,
		Points:        len(pressure),
		PressureRange: sorption.RangeOf(pressure),
		LoadingRange:  sorption.RangeOf(loading),
	}, nil
}

// Guess fits every candidate independently and returns the survivor with
// the lowest RMSE, together with the outcome of each attempt in candidate
// order. An empty candidate list means the registry's defaults. If every
// candidate fails the error matches sorption.ErrModelSelection.
func (f *Fitter) Guess(ctx context.Context, pressure, loading []float64, candidates []string) (*Result, []Attempt, error) {
	if len(candidates) == 0 {
		candidates = f.registry.GuessCandidates()
	}
	models := make([]isotherm.Model, len(candidates))
	for i, name := range candidates {
		m, err := f.registry.New(name, isotherm.Settings{Temperature: f.opts.Temperature})
		if err != nil {
			return nil, nil, err
		}
		models[i] = m
	}

	results := make([]*Result, len(models))
	errs := sorption.Batch(ctx, len(models), f.opts.Workers, func(_ context.Context, i int) error {
		res, err := f.run(models[i], pressure, loading, f.baseOptions())
		results[i] = res
		return err
	})

	attempts := make([]Attempt, len(models))
	var best *Result
	for i, m := range models {
		attempts[i] = Attempt{Model: m.Name(), RMSE: math.NaN(), Err: errs[i]}
		if errs[i] != nil {
			continue
		}
		attempts[i].RMSE = results[i].RMSE
		if best == nil || results[i].RMSE < best.RMSE {
			best = results[i]
		}
	}

	if best == nil {
		f.log.Info("no candidate model could be fitted", "candidates", len(models))
		return nil, attempts, fmt.Errorf("%w: %w", sorption.ErrModelSelection, errors.Join(errs...))
	}

	f.log.Info("selected model", "model", best.Model.Name(), "rmse", best.RMSE)
	return best, attempts, nil
}
