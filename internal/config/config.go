package config

import (
	"os"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/adsorb/internal/fit"
	"github.com/san-kum/adsorb/internal/iast"
	"github.com/san-kum/adsorb/internal/sorption"
)

const (
	DefaultDataDir       = ".adsorb"
	DefaultPolicy        = "strict"
	DefaultTolerance     = 1e-4
	DefaultMaxIterations = 100
	DefaultFitTolerance  = 1e-10
	DefaultFitMaxIter    = 500
	DefaultSweepPoints   = iast.DefaultVLEPoints
)

type Config struct {
	DataDir string       `yaml:"data_dir"`
	Policy  string       `yaml:"policy"`
	Solver  SolverConfig `yaml:"solver"`
	Fit     FitConfig    `yaml:"fit"`
	Sweep   SweepConfig  `yaml:"sweep"`
}

type SolverConfig struct {
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
	Workers       int     `yaml:"workers"`
}

type FitConfig struct {
	Tolerance     float64  `yaml:"tolerance"`
	MaxIterations int      `yaml:"max_iterations"`
	Candidates    []string `yaml:"candidates,omitempty"`
	Workers       int      `yaml:"workers"`
	AddPoint      bool     `yaml:"add_point"`
}

type SweepConfig struct {
	Points    int       `yaml:"points"`
	Pressures []float64 `yaml:"pressures,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Policy:  DefaultPolicy,
		Solver: SolverConfig{
			Tolerance:     DefaultTolerance,
			MaxIterations: DefaultMaxIterations,
			Workers:       1,
		},
		Fit: FitConfig{
			Tolerance:     DefaultFitTolerance,
			MaxIterations: DefaultFitMaxIter,
		},
		Sweep: SweepConfig{
			Points:    DefaultSweepPoints,
			Pressures: []float64{0.1, 0.2, 0.5, 1, 2, 5, 10},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	const op = "config"
	if _, err := sorption.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if c.Solver.Tolerance <= 0 || c.Solver.Tolerance >= 1 {
		return sorption.Configf(op, "solver.tolerance must be in (0, 1), got %g", c.Solver.Tolerance)
	}
	if c.Solver.MaxIterations < 1 {
		return sorption.Configf(op, "solver.max_iterations must be positive, got %d", c.Solver.MaxIterations)
	}
	if c.Fit.Tolerance <= 0 {
		return sorption.Configf(op, "fit.tolerance must be positive, got %g", c.Fit.Tolerance)
	}
	if c.Fit.MaxIterations < 1 {
		return sorption.Configf(op, "fit.max_iterations must be positive, got %d", c.Fit.MaxIterations)
	}
	if c.Sweep.Points < 2 {
		return sorption.Configf(op, "sweep.points must be at least 2, got %d", c.Sweep.Points)
	}
	for _, p := range c.Sweep.Pressures {
		if !(p > 0) {
			return sorption.Configf(op, "sweep pressure %g must be positive", p)
		}
	}
	return nil
}

// DomainPolicy parses the configured extrapolation policy.
func (c *Config) DomainPolicy() (sorption.Policy, error) {
	return sorption.ParsePolicy(c.Policy)
}

func (c *Config) SolverOptions(log logr.Logger) iast.Options {
	return iast.Options{
		Tolerance:     c.Solver.Tolerance,
		MaxIterations: c.Solver.MaxIterations,
		Workers:       c.Solver.Workers,
		Logger:        log,
	}
}

func (c *Config) FitOptions(temperature float64) fit.Options {
	opts := fit.DefaultOptions()
	opts.Tol = c.Fit.Tolerance
	opts.MaxIter = c.Fit.MaxIterations
	opts.Workers = c.Fit.Workers
	opts.AddPoint = c.Fit.AddPoint
	opts.Temperature = temperature
	return opts
}
