package model

import (
	"fmt"
	"slices"

	"github.com/nerrad567/gray-logic-confgen/internal/identifier"
)

// PersonStateKind is one of the fixed boolean states a person can be in.
type PersonStateKind string

// Person states.
const (
	StateHoliday    PersonStateKind = "holiday"
	StateSickness   PersonStateKind = "sickness"
	StateHomeOffice PersonStateKind = "homeoffice"
)

var personStateLabels = map[PersonStateKind]string{
	StateHoliday:    "Holiday",
	StateSickness:   "Sickness",
	StateHomeOffice: "Home Office",
}

// AllPersonStates returns the state vocabulary.
func AllPersonStates() []PersonStateKind {
	return []PersonStateKind{StateHoliday, StateSickness, StateHomeOffice}
}

// Person is an occupant with personal equipment and states.
type Person struct {
	name       string
	identifier string
	states     []*PersonState
	equipment  []Equipment
}

// PersonState is a boolean state of a person, e.g. "on holiday".
type PersonState struct {
	person     *Person
	kind       PersonStateKind
	name       string
	identifier string
}

// NewPerson builds a person. An empty identifier is derived from name.
func NewPerson(name, id string) (*Person, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	if id == "" {
		id = identifier.Derive(name)
	}
	return &Person{name: name, identifier: id}, nil
}

// Name returns the display name.
func (p *Person) Name() string { return p.name }

// Identifier returns the person identifier.
func (p *Person) Identifier() string { return p.identifier }

// States returns the person's states in declaration order.
func (p *Person) States() []*PersonState { return slices.Clone(p.states) }

// Equipment returns the personal equipment.
func (p *Person) Equipment() []Equipment { return slices.Clone(p.equipment) }

// AddState adds a state of the given kind.
func (p *Person) AddState(kind PersonStateKind) (*PersonState, error) {
	label, ok := personStateLabels[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, kind)
	}
	for _, s := range p.states {
		if s.kind == kind {
			return nil, fmt.Errorf("%w: state %q of %q", ErrDuplicateIdentifier, kind, p.name)
		}
	}
	s := &PersonState{
		person:     p,
		kind:       kind,
		name:       p.name + " " + label,
		identifier: identifier.Join(p.identifier, string(kind)),
	}
	p.states = append(p.states, s)
	return s, nil
}

// AddEquipment appends a personal equipment node.
func (p *Person) AddEquipment(eq Equipment) error {
	for _, e := range p.equipment {
		if e.Identifier() == eq.Identifier() {
			return fmt.Errorf("%w: equipment %q of %q", ErrDuplicateIdentifier, eq.Identifier(), p.name)
		}
	}
	p.equipment = append(p.equipment, eq)
	return nil
}

// Person returns the owning person.
func (s *PersonState) Person() *Person { return s.person }

// Kind returns the state kind.
func (s *PersonState) Kind() PersonStateKind { return s.kind }

// Name returns the display name, e.g. "Alice Holiday".
func (s *PersonState) Name() string { return s.name }

// Identifier returns the state identifier, e.g. "AliceHoliday".
func (s *PersonState) Identifier() string { return s.identifier }
