package dynamo

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfiguration indicates violated ordering or count invariants.
	ErrInvalidConfiguration = errors.New("dynamo: invalid run configuration")

	// ErrDegenerateGeometry indicates two bodies closer than the minimum separation.
	ErrDegenerateGeometry = errors.New("dynamo: degenerate geometry (bodies coincide)")

	// ErrNumericOverflow indicates a non-finite position or velocity after a step.
	ErrNumericOverflow = errors.New("dynamo: numeric overflow (NaN or Inf detected)")

	// ErrNotPrepared indicates a run was started before Prepare.
	ErrNotPrepared = errors.New("dynamo: run not prepared")

	// ErrRunComplete indicates the run already failed or finished and cannot continue.
	ErrRunComplete = errors.New("dynamo: run already complete")
)

// SimulationError wraps an error with the day, step and body indices where it occurred.
// Indices that do not apply are -1.
type SimulationError struct {
	Day     int
	Step    int
	Body    int
	Other   int
	Wrapped error
}

// NewSimulationError returns a SimulationError with every index unset.
func NewSimulationError(err error) *SimulationError {
	return &SimulationError{Day: -1, Step: -1, Body: -1, Other: -1, Wrapped: err}
}

func (e *SimulationError) Error() string {
	var parts []string
	if e.Day >= 0 {
		parts = append(parts, fmt.Sprintf("day %d", e.Day))
	}
	if e.Step >= 0 {
		parts = append(parts, fmt.Sprintf("step %d", e.Step))
	}
	if e.Body >= 0 {
		parts = append(parts, fmt.Sprintf("body %d", e.Body))
	}
	if e.Other >= 0 {
		parts = append(parts, fmt.Sprintf("body %d", e.Other))
	}
	if len(parts) == 0 {
		return e.Wrapped.Error()
	}
	return strings.Join(parts, ", ") + ": " + e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// AtDay tags err with the given day. Errors that are not a *SimulationError are wrapped first.
func AtDay(err error, day int) error {
	if err == nil {
		return nil
	}
	var se *SimulationError
	if errors.As(err, &se) {
		se.Day = day
		return err
	}
	se = NewSimulationError(err)
	se.Day = day
	return se
}
