package model

import (
	"errors"
	"fmt"
)

// Entity kinds used in error reports.
const (
	KindBridge    = "bridge"
	KindTemplate  = "template"
	KindLocation  = "location"
	KindEquipment = "equipment"
	KindPerson    = "person"
	KindDocument  = "document"
)

// Domain-specific errors for the configuration model.
var (
	// ErrUnknownBridge is returned when a thing references an undeclared bridge key.
	ErrUnknownBridge = errors.New("model: unknown bridge")

	// ErrUnknownTemplate is returned when a node references an undeclared template.
	ErrUnknownTemplate = errors.New("model: unknown template")

	// ErrTemplateCycle is returned when templates inherit from each other in a loop.
	ErrTemplateCycle = errors.New("model: template inheritance cycle")

	// ErrBridgeCycle is returned when bridges are each other's parents.
	ErrBridgeCycle = errors.New("model: bridge parent cycle")

	// ErrMissingField is returned when a required key is absent.
	ErrMissingField = errors.New("model: missing required field")

	// ErrInvalidField is returned when a key holds an unusable value.
	ErrInvalidField = errors.New("model: invalid field")

	// ErrInvalidSubtype is returned when a location subtype is not in its type's vocabulary.
	ErrInvalidSubtype = errors.New("model: invalid subtype")

	// ErrInvalidNesting is returned when a location is placed under an incompatible parent.
	ErrInvalidNesting = errors.New("model: invalid location nesting")

	// ErrInvalidState is returned for a person state outside the fixed vocabulary.
	ErrInvalidState = errors.New("model: invalid person state")

	// ErrDuplicateIdentifier is returned when two siblings, or two things on one
	// bridge, share an identifier.
	ErrDuplicateIdentifier = errors.New("model: duplicate identifier")

	// ErrUnknownPlaceholder is returned when a pattern references an unknown key.
	ErrUnknownPlaceholder = errors.New("model: unknown placeholder")

	// ErrMalformedPattern is returned for an unterminated or empty placeholder.
	ErrMalformedPattern = errors.New("model: malformed pattern")

	// ErrInvalidDocument is returned when a document cannot be decoded.
	ErrInvalidDocument = errors.New("model: invalid document")

	// ErrUndeclaredPoint is returned when a channel address is requested for an undeclared point.
	ErrUndeclaredPoint = errors.New("model: point not declared")

	// ErrNotThing is returned when a channel address is requested on a group node.
	ErrNotThing = errors.New("model: equipment is not a thing")

	// ErrUnboundThing is returned when a terminal node has no binding data.
	ErrUnboundThing = errors.New("model: thing has no binding")
)

// ConfigurationError reports invalid configuration input.
type ConfigurationError struct {
	Kind  string // entity kind, e.g. KindEquipment
	Name  string // entity name or key
	Field string // offending key, optional
	Err   error  // cause; wraps one of the sentinel errors
}

// NewConfigurationError builds a ConfigurationError.
func NewConfigurationError(kind, name, field string, err error) *ConfigurationError {
	return &ConfigurationError{Kind: kind, Name: name, Field: field, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s %q (%s): %v", e.Kind, e.Name, e.Field, e.Err)
	}
	return fmt.Sprintf("configuration error: %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// BuildError reports a failure to compute a derived value for an entity.
type BuildError struct {
	Entity string // identifier of the entity
	Point  string // point key, if the failure concerns a point
	Err    error
}

func (e *BuildError) Error() string {
	if e.Point != "" {
		return fmt.Sprintf("build error: %s point %q: %v", e.Entity, e.Point, e.Err)
	}
	return fmt.Sprintf("build error: %s: %v", e.Entity, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
