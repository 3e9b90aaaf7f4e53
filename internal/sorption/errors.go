package sorption

import (
	"errors"
	"fmt"
	"math"
)

// Error classes. Concrete error types unwrap to exactly one of these.
var (
	// ErrConfiguration indicates malformed input rejected before any computation.
	ErrConfiguration = errors.New("sorption: invalid configuration")

	// ErrConvergence indicates an iterative solver exhausted its budget or lost its bracket.
	ErrConvergence = errors.New("sorption: iteration did not converge")

	// ErrDomain indicates a value outside an isotherm's admissible range.
	ErrDomain = errors.New("sorption: value outside admissible domain")

	// ErrFit indicates a least-squares fit that failed or left its bounds.
	ErrFit = errors.New("sorption: model fit failed")

	// ErrModelSelection indicates that no candidate model could be fitted.
	ErrModelSelection = errors.New("sorption: no candidate model could be fitted")

	// ErrUnknownModel indicates a model name missing from the registry.
	ErrUnknownModel = errors.New("sorption: unknown model")
)

// ConfigurationError reports invalid input to an operation.
type ConfigurationError struct {
	Op     string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// Configf builds a ConfigurationError with a formatted reason.
func Configf(op, format string, args ...any) error {
	return &ConfigurationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// ConvergenceError carries the last iterate of a solver that gave up.
type ConvergenceError struct {
	Op         string
	Iterations int
	Estimate   float64
	Residual   float64
	Reason     string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: %s after %d iterations (estimate %.6g, residual %.3g)",
		e.Op, e.Reason, e.Iterations, e.Estimate, e.Residual)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergence
}

// DomainError reports a value that an isotherm cannot evaluate under the
// active policy.
type DomainError struct {
	Op        string
	Component string
	Value     float64
	Range     Range
	Reason    string
}

func (e *DomainError) Error() string {
	msg := e.Op
	if e.Component != "" {
		msg += " [" + e.Component + "]"
	}
	msg += fmt.Sprintf(": %.6g", e.Value)
	if e.Range.Bounded() {
		msg += " outside " + e.Range.String()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

// FitError describes a failed fit of a single model.
type FitError struct {
	Model  string
	Params map[string]float64
	Reason string
	Err    error
}

func (e *FitError) Error() string {
	msg := fmt.Sprintf("fit %s: %s", e.Model, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FitError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFit}
	}
	return []error{ErrFit, e.Err}
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
