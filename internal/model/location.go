package model

import (
	"fmt"
	"slices"
)

// LocationType is the variant tag of a location.
type LocationType string

// Location types.
const (
	LocationArea     LocationType = "area"
	LocationBuilding LocationType = "building"
	LocationFloor    LocationType = "floor"
	LocationRoom     LocationType = "room"
)

// AllLocationTypes returns all location types.
func AllLocationTypes() []LocationType {
	return []LocationType{LocationArea, LocationBuilding, LocationFloor, LocationRoom}
}

// locationSubtypes is the subtype vocabulary of each location type. The
// first entry is the default used when a document omits the subtype.
var locationSubtypes = map[LocationType][]string{
	LocationArea: {
		"Area", "Indoor", "Outdoor", "Garden", "Terrace", "Driveway", "Carport", "Porch",
	},
	LocationBuilding: {
		"Building", "House", "Apartment", "Garage", "Shed", "Cottage",
	},
	LocationFloor: {
		"Floor", "Basement", "GroundFloor", "FirstFloor", "SecondFloor", "ThirdFloor", "Attic",
	},
	LocationRoom: {
		"Room", "LivingRoom", "Kitchen", "DiningRoom", "Bedroom", "Bathroom", "Office",
		"Corridor", "Entry", "Staircase", "Cellar", "BoilerRoom", "LaundryRoom", "GuestRoom",
		"Toilet", "Wardrobe",
	},
}

// Subtypes returns the subtype vocabulary for a location type.
func Subtypes(t LocationType) []string {
	return slices.Clone(locationSubtypes[t])
}

// nestingRank orders building > floor > room. Areas may appear anywhere.
var nestingRank = map[LocationType]int{
	LocationBuilding: 1,
	LocationFloor:    2,
	LocationRoom:     3,
}

// LocationArgs holds the construction arguments of a location.
type LocationArgs struct {
	Name       string
	Identifier string
	Subtype    string
	Area       string // optional area tag, composed with the ancestors' tags
}

// Location is a node of the location tree.
type Location struct {
	name       string
	identifier string
	typ        LocationType
	subtype    string
	area       string
	parent     *Location
	children   []*Location
	equipment  []Equipment
}

func newLocation(typ LocationType, args LocationArgs) (*Location, error) {
	if args.Name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	if args.Identifier == "" {
		return nil, fmt.Errorf("%w: identifier", ErrMissingField)
	}

	subtype := args.Subtype
	if subtype == "" {
		subtype = locationSubtypes[typ][0]
	}
	if !slices.Contains(locationSubtypes[typ], subtype) {
		return nil, fmt.Errorf("%w: %q is not a %s subtype", ErrInvalidSubtype, subtype, typ)
	}

	return &Location{
		name:       args.Name,
		identifier: args.Identifier,
		typ:        typ,
		subtype:    subtype,
		area:       args.Area,
	}, nil
}

// Name returns the display name.
func (l *Location) Name() string { return l.name }

// Identifier returns the derived or explicit identifier.
func (l *Location) Identifier() string { return l.identifier }

// Type returns the location variant.
func (l *Location) Type() LocationType { return l.typ }

// Subtype returns the subtype, e.g. "Kitchen".
func (l *Location) Subtype() string { return l.subtype }

// Area returns the location's own area tag, if any.
func (l *Location) Area() string { return l.area }

// Parent returns the parent location, or nil for a root.
func (l *Location) Parent() *Location { return l.parent }

// Children returns the child locations in declaration order.
func (l *Location) Children() []*Location { return slices.Clone(l.children) }

// Equipment returns the top-level equipment owned by this location.
func (l *Location) Equipment() []Equipment { return slices.Clone(l.equipment) }

// Categories returns the semantic tags of the location.
func (l *Location) Categories() []string { return []string{l.subtype} }

// AreaTags returns the area tags of all ancestors and this location,
// root first, without duplicates.
func (l *Location) AreaTags() []string {
	var chain []*Location
	for n := l; n != nil; n = n.parent {
		chain = append(chain, n)
	}

	var tags []string
	for i := len(chain) - 1; i >= 0; i-- {
		if a := chain[i].area; a != "" && !slices.Contains(tags, a) {
			tags = append(tags, a)
		}
	}
	return tags
}

// Path returns the names from the root down to this location.
func (l *Location) Path() []string {
	var path []string
	for n := l; n != nil; n = n.parent {
		path = append(path, n.name)
	}
	slices.Reverse(path)
	return path
}

// AddChild appends a child location.
//
// Returns:
//   - error: ErrInvalidNesting if child cannot sit under l, ErrDuplicateIdentifier
//     if a sibling already uses the child's identifier
func (l *Location) AddChild(child *Location) error {
	if pr, ok := nestingRank[l.typ]; ok {
		if cr, ok := nestingRank[child.typ]; ok && cr <= pr {
			return fmt.Errorf("%w: %s %q cannot contain %s %q",
				ErrInvalidNesting, l.typ, l.name, child.typ, child.name)
		}
	}
	for _, c := range l.children {
		if c.identifier == child.identifier {
			return fmt.Errorf("%w: location %q under %q", ErrDuplicateIdentifier, child.identifier, l.name)
		}
	}
	child.parent = l
	l.children = append(l.children, child)
	return nil
}

// AddEquipment appends a top-level equipment node.
func (l *Location) AddEquipment(eq Equipment) error {
	for _, e := range l.equipment {
		if e.Identifier() == eq.Identifier() {
			return fmt.Errorf("%w: equipment %q in %q", ErrDuplicateIdentifier, eq.Identifier(), l.name)
		}
	}
	l.equipment = append(l.equipment, eq)
	return nil
}

// Walk visits l and its descendants in pre-order. Returning an error stops the walk.
func (l *Location) Walk(fn func(*Location) error) error {
	if err := fn(l); err != nil {
		return err
	}
	for _, c := range l.children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}
