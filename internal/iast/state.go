package iast

import (
	"errors"
	"fmt"

	"github.com/san-kum/adsorb/internal/sorption"
)

// Status tracks a solve through its states.
type Status int

const (
	StatusInitial Status = iota
	StatusIterate
	StatusConverged
	StatusFailed
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusInitial:
		return "initial"
	case StatusIterate:
		return "iterate"
	case StatusConverged:
		return "converged"
	case StatusFailed:
		return "failed"
	case StatusInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	for c := StatusInitial; c <= StatusInvalid; c++ {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// StatusOf maps a solver error onto the state the solve ended in. Domain
// errors mean the equilibrium left a component's admissible range.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusConverged
	case errors.Is(err, sorption.ErrDomain):
		return StatusInvalid
	default:
		return StatusFailed
	}
}

// Mode is the direction of a solve.
type Mode int

const (
	Forward Mode = iota
	Reverse
)

func (m Mode) String() string {
	if m == Reverse {
		return "reverse"
	}
	return "forward"
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "forward":
		*m = Forward
	case "reverse":
		*m = Reverse
	default:
		return fmt.Errorf("unknown mode %q", b)
	}
	return nil
}

// State is a converged equilibrium. Per-component slices follow the
// mixture's component order.
type State struct {
	Mode       Mode     `json:"mode"`
	Components []string `json:"components"`

	// Y and X are the bulk and adsorbed mole fractions.
	Y []float64 `json:"y"`
	X []float64 `json:"x"`
	// Loading is q_i = x_i·n_t.
	Loading []float64 `json:"loading"`
	// Pressure0 is the pure-component pressure p_i⁰ at the common
	// spreading pressure. It is zero for absent components.
	Pressure0 []float64 `json:"pressure0"`

	TotalLoading      float64 `json:"total_loading"`
	SpreadingPressure float64 `json:"spreading_pressure"`
	TotalPressure     float64 `json:"total_pressure"`

	Status     Status             `json:"status"`
	Iterations int                `json:"iterations"`
	Residual   float64            `json:"residual"`
	Warnings   []sorption.Warning `json:"warnings,omitempty"`
}

// Selectivity returns S_ij = (x_i/x_j)/(y_i/y_j).
func (s *State) Selectivity(i, j int) (float64, error) {
	const op = "selectivity"
	n := len(s.X)
	if i < 0 || j < 0 || i >= n || j >= n {
		return 0, sorption.Configf(op, "component index out of range (%d, %d) for %d components", i, j, n)
	}
	if s.Status != StatusConverged {
		return 0, sorption.Configf(op, "state is %s, not converged", s.Status)
	}
	if s.X[j] == 0 || s.Y[j] == 0 || s.Y[i] == 0 {
		return 0, &sorption.DomainError{
			Op: op, Component: s.Components[j],
			Reason: fmt.Sprintf("zero mole fraction in S(%s, %s)", s.Components[i], s.Components[j]),
		}
	}
	return (s.X[i] / s.X[j]) / (s.Y[i] / s.Y[j]), nil
}
