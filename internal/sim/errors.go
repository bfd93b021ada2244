package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/planetsim/internal/physics"
)

var (
	// ErrInvalidState indicates a body with non-positive mass or a NaN/Inf
	// position or velocity. It is a violated precondition of the seeder,
	// not something the kernel recovers from.
	ErrInvalidState = errors.New("sim: invalid state (NaN, Inf or non-positive mass)")

	// ErrInvalidConfig indicates a run configuration that cannot execute.
	ErrInvalidConfig = errors.New("sim: invalid run config")
)

// SimulationError wraps an error with the step and body it was found at.
type SimulationError struct {
	Step    int
	Body    physics.ID
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (body %d): %v", e.Step, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
