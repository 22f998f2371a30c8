package resolver

import (
	"errors"
	"fmt"
)

// ErrAlreadyResolved is returned when Resolve is called twice on one Resolver.
var ErrAlreadyResolved = errors.New("resolver: already resolved")

// Phase identifies a resolution phase.
type Phase int

// Resolution phases in execution order.
const (
	PhaseInit Phase = iota
	PhaseBridges
	PhaseTemplates
	PhaseLocations
	PhasePersons
	PhaseValidate
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseBridges:
		return "bridges"
	case PhaseTemplates:
		return "templates"
	case PhaseLocations:
		return "locations"
	case PhasePersons:
		return "persons"
	case PhaseValidate:
		return "validate"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// PhaseError wraps the error that aborted a phase.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("resolving %s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
