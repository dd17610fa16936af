package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrParticleCount indicates a particle count that is not of the form 4a³.
	ErrParticleCount = errors.New("dynamo: particle count must be 4*a^3 for integer a")

	// ErrDimension indicates an unsupported spatial dimension.
	ErrDimension = errors.New("dynamo: only 3 dimensions are supported")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDiverged indicates NaN or Inf appeared in the forces.
	ErrDiverged = errors.New("dynamo: simulation diverged (NaN or Inf in forces)")

	// ErrNotConverged indicates equilibration exhausted its iteration budget.
	ErrNotConverged = errors.New("dynamo: equilibration did not converge")

	// ErrCanceled indicates the simulation was interrupted.
	ErrCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with the stage and step it was detected at.
type SimulationError struct {
	Stage   Stage
	Step    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%s step %d: %v", e.Stage, e.Step, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// Boundsf returns an ErrParameterBounds error with a formatted detail.
func Boundsf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParameterBounds, fmt.Sprintf(format, args...))
}
