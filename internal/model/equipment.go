package model

import (
	"fmt"
	"maps"
	"slices"
	"sort"
)

// Point keys with a fixed meaning across variants.
const (
	PointOnOff            = "onoff"
	PointBrightness       = "brightness"
	PointColor            = "color"
	PointColorTemperature = "colortemperature"
	PointTemperature      = "temperature"
	PointHumidity         = "humidity"
	PointIlluminance      = "illuminance"
	PointMotion           = "motion"
	PointContact          = "contact"
	PointBattery          = "battery"
	PointSetpoint         = "setpoint"
	PointValve            = "valve"
	PointMode             = "mode"
	PointPosition         = "position"
	PointPower            = "power"
	PointEnergy           = "energy"
	PointPresence         = "presence"
	PointLock             = "lock"
	PointState            = "state"
)

// Equipment is a node of the equipment forest. Terminal nodes (no children)
// are things; others are groups.
type Equipment interface {
	Name() string
	BlankName() string
	Identifier() string
	Type() string
	Categories() []string
	Location() *Location
	Person() *Person
	Parent() Equipment
	Children() []Equipment
	IsThing() bool
	Thing() *Thing
	Points() map[string]string
	PointKeys() []string
	HasPoint(point string) bool
	ChannelAddress(point string) (string, error)
	Properties() map[string]string

	equipmentBase() *BaseEquipment
}

// EquipmentArgs holds the construction arguments of an equipment node.
type EquipmentArgs struct {
	Name       string // full name, owner name included
	BlankName  string // own name as declared
	Identifier string
	Location   *Location // owning location, nil for personal equipment
	Person     *Person   // owning person, nil for location equipment
	Parent     Equipment // parent group, nil for a top-level node
	Points     map[string]string
	Properties map[string]string
	Thing      *Thing
}

// BaseEquipment carries the state shared by all equipment variants.
// Variants embed *BaseEquipment.
type BaseEquipment struct {
	name       string
	blankName  string
	identifier string
	typ        string
	categories []string
	location   *Location
	person     *Person
	parent     Equipment
	children   []Equipment
	points     map[string]string
	properties map[string]string
	thing      *Thing
}

func newBaseEquipment(typ string, args EquipmentArgs) (*BaseEquipment, error) {
	switch {
	case args.BlankName == "":
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	case args.Identifier == "":
		return nil, fmt.Errorf("%w: identifier", ErrMissingField)
	}
	name := args.Name
	if name == "" {
		name = args.BlankName
	}
	return &BaseEquipment{
		name:       name,
		blankName:  args.BlankName,
		identifier: args.Identifier,
		typ:        typ,
		location:   args.Location,
		person:     args.Person,
		parent:     args.Parent,
		points:     maps.Clone(args.Points),
		properties: maps.Clone(args.Properties),
		thing:      args.Thing,
	}, nil
}

func (b *BaseEquipment) equipmentBase() *BaseEquipment { return b }

// Name returns the full name, e.g. "Kitchen Lamp".
func (b *BaseEquipment) Name() string { return b.name }

// BlankName returns the declared name without the owner prefix.
func (b *BaseEquipment) BlankName() string { return b.blankName }

// Identifier returns the node identifier, e.g. "KitchenLamp".
func (b *BaseEquipment) Identifier() string { return b.identifier }

// Type returns the variant tag.
func (b *BaseEquipment) Type() string { return b.typ }

// Categories returns the semantic tags of the variant.
func (b *BaseEquipment) Categories() []string { return slices.Clone(b.categories) }

// Location returns the owning location, or nil for personal equipment.
func (b *BaseEquipment) Location() *Location { return b.location }

// Person returns the owning person, or nil.
func (b *BaseEquipment) Person() *Person { return b.person }

// Parent returns the parent group, or nil. The reference is non-owning.
func (b *BaseEquipment) Parent() Equipment { return b.parent }

// Children returns the child nodes in declaration order.
func (b *BaseEquipment) Children() []Equipment { return slices.Clone(b.children) }

// IsThing reports whether the node is terminal.
func (b *BaseEquipment) IsThing() bool { return len(b.children) == 0 }

// Thing returns the binding data of a terminal node, or nil if unbound.
func (b *BaseEquipment) Thing() *Thing { return b.thing }

// Points returns a copy of the point key → channel suffix map.
func (b *BaseEquipment) Points() map[string]string { return maps.Clone(b.points) }

// PointKeys returns the declared point keys, sorted.
func (b *BaseEquipment) PointKeys() []string {
	keys := make([]string, 0, len(b.points))
	for k := range b.points {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Properties returns a copy of the free-form properties.
func (b *BaseEquipment) Properties() map[string]string { return maps.Clone(b.properties) }

// HasPoint reports whether the node or any descendant declares point.
func (b *BaseEquipment) HasPoint(point string) bool {
	if _, ok := b.points[point]; ok {
		return true
	}
	for _, c := range b.children {
		if c.HasPoint(point) {
			return true
		}
	}
	return false
}

// ChannelAddress returns the channel address of a declared point.
//
// Returns:
//   - string: e.g. "zigbee:lamp:KitchenLamp:state"
//   - error: *BuildError if the node is a group, the point is not declared,
//     or the node has no binding data
func (b *BaseEquipment) ChannelAddress(point string) (string, error) {
	if !b.IsThing() {
		return "", &BuildError{Entity: b.identifier, Point: point, Err: ErrNotThing}
	}
	suffix, ok := b.points[point]
	if !ok {
		return "", &BuildError{Entity: b.identifier, Point: point, Err: ErrUndeclaredPoint}
	}
	if b.thing == nil {
		return "", &BuildError{Entity: b.identifier, Point: point, Err: ErrUnboundThing}
	}
	return b.thing.ChannelUID(suffix), nil
}

// AddChild appends child to the group parent.
//
// Returns:
//   - error: ErrInvalidField if parent is bound to a thing,
//     ErrDuplicateIdentifier if a sibling uses the same identifier
func AddChild(parent, child Equipment) error {
	p := parent.equipmentBase()
	if p.thing != nil || len(p.points) > 0 {
		return fmt.Errorf("%w: %q declares a thing or points and cannot have children", ErrInvalidField, p.name)
	}
	for _, c := range p.children {
		if c.Identifier() == child.Identifier() {
			return fmt.Errorf("%w: equipment %q under %q", ErrDuplicateIdentifier, child.Identifier(), p.name)
		}
	}
	child.equipmentBase().parent = parent
	p.children = append(p.children, child)
	return nil
}

// WalkEquipment visits eq and its descendants in pre-order.
func WalkEquipment(eq Equipment, fn func(Equipment) error) error {
	if err := fn(eq); err != nil {
		return err
	}
	for _, c := range eq.equipmentBase().children {
		if err := WalkEquipment(c, fn); err != nil {
			return err
		}
	}
	return nil
}
