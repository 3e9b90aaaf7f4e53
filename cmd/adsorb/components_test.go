package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/san-kum/adsorb/internal/pure"
	"github.com/san-kum/adsorb/internal/sorption"
)

func TestParseComponent(t *testing.T) {
	tests := []struct {
		spec   string
		label  string
		model  string
		params map[string]float64
	}{
		{"CO2=Langmuir:n_m=5,K=0.5", "CO2", "Langmuir", map[string]float64{"n_m": 5, "K": 0.5}},
		{"Henry:K=2", "Henry", "Henry", map[string]float64{"K": 2}},
		{" N2 = Toth : n_m=3, K=0.1, t=0.8", "N2", "Toth", map[string]float64{"n_m": 3, "K": 0.1, "t": 0.8}},
		{"Langmuir", "Langmuir", "Langmuir", map[string]float64{}},
	}

	for _, tt := range tests {
		c, err := parseComponent(tt.spec)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.spec, err)
			continue
		}
		if c.Label != tt.label || c.Model != tt.model {
			t.Errorf("%q: expected %s=%s, got %s=%s", tt.spec, tt.label, tt.model, c.Label, c.Model)
		}
		if fmt.Sprint(c.Params) != fmt.Sprint(tt.params) {
			t.Errorf("%q: expected params %v, got %v", tt.spec, tt.params, c.Params)
		}
	}
}

func TestParseComponentErrors(t *testing.T) {
	for _, spec := range []string{"", "x=:K=1", "Langmuir:K", "Langmuir:K=abc"} {
		if _, err := parseComponent(spec); !errors.Is(err, sorption.ErrConfiguration) {
			t.Errorf("%q: expected configuration error, got %v", spec, err)
		}
	}
}

func TestParseKeyValues(t *testing.T) {
	m, err := parseKeyValues("guess", []string{"K=0.5", "n_m = 4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["K"] != 0.5 || m["n_m"] != 4 {
		t.Errorf("unexpected values: %v", m)
	}
	if _, err := parseKeyValues("guess", []string{"K"}); !errors.Is(err, sorption.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestParseInterpolation(t *testing.T) {
	if k, err := parseInterpolation("linear"); err != nil || k != pure.Linear {
		t.Errorf("expected linear, got %v (%v)", k, err)
	}
	if k, err := parseInterpolation(""); err != nil || k != pure.Monotone {
		t.Errorf("expected monotone, got %v (%v)", k, err)
	}
	if _, err := parseInterpolation("cubic"); err == nil {
		t.Error("expected error for unknown interpolation")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{sorption.Configf("op", "bad"), 2},
		{fmt.Errorf("wrapped: %w", sorption.ErrDomain), 3},
		{sorption.ErrConvergence, 4},
		{sorption.ErrModelSelection, 5},
		{errors.New("other"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("%v: expected exit code %d, got %d", tt.err, tt.want, got)
		}
	}
}
