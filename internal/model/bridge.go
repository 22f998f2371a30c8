package model

import (
	"fmt"
	"maps"
	"slices"
)

// Binding families with a bridge variant.
const (
	BindingZigbee    = "zigbee"
	BindingKNX       = "knx"
	BindingMQTT      = "mqtt"
	BindingHue       = "hue"
	BindingDeconz    = "deconz"
	BindingHomematic = "homematic"
	BindingModbus    = "modbus"
	BindingTradfri   = "tradfri"
)

// bridgeFamily describes a bridge variant.
type bridgeFamily struct {
	binding     string
	defaultType string // thing type used when a bridge thing omits one
}

var bridgeFamilies = []bridgeFamily{
	{BindingZigbee, "coordinator_ember"},
	{BindingKNX, "ip"},
	{BindingMQTT, "broker"},
	{BindingHue, "bridge"},
	{BindingDeconz, "deconz"},
	{BindingHomematic, "bridge"},
	{BindingModbus, "tcp"},
	{BindingTradfri, "gateway"},
}

// BridgeArgs holds the construction arguments of a bridge.
type BridgeArgs struct {
	Key        string // declaration key, referenced by things
	Name       string
	Identifier string
	Parent     *Bridge
	Properties map[string]string
}

// Bridge is a gateway to devices of one binding family.
type Bridge struct {
	key         string
	name        string
	identifier  string
	binding     string
	defaultType string
	parent      *Bridge
	properties  map[string]string

	thing  *Thing   // representation as a thing, optional
	things []*Thing // linked things in registration order
}

func newBridge(family bridgeFamily, args BridgeArgs) (*Bridge, error) {
	switch {
	case args.Key == "":
		return nil, fmt.Errorf("%w: key", ErrMissingField)
	case args.Name == "":
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	case args.Identifier == "":
		return nil, fmt.Errorf("%w: identifier", ErrMissingField)
	}
	for p := args.Parent; p != nil; p = p.parent {
		if p.key == args.Key {
			return nil, fmt.Errorf("%w: %q", ErrBridgeCycle, args.Key)
		}
	}

	return &Bridge{
		key:         args.Key,
		name:        args.Name,
		identifier:  args.Identifier,
		binding:     family.binding,
		defaultType: family.defaultType,
		parent:      args.Parent,
		properties:  maps.Clone(args.Properties),
	}, nil
}

// Key returns the declaration key.
func (b *Bridge) Key() string { return b.key }

// Name returns the display name.
func (b *Bridge) Name() string { return b.name }

// Identifier returns the bridge identifier.
func (b *Bridge) Identifier() string { return b.identifier }

// Binding returns the binding family.
func (b *Bridge) Binding() string { return b.binding }

// DefaultThingType returns the thing type a bridge thing uses when none is declared.
func (b *Bridge) DefaultThingType() string { return b.defaultType }

// Parent returns the parent bridge of a sub-bridge, or nil.
func (b *Bridge) Parent() *Bridge { return b.parent }

// Properties returns a copy of the bridge properties.
func (b *Bridge) Properties() map[string]string { return maps.Clone(b.properties) }

// Thing returns the bridge's representation as a thing, or nil.
func (b *Bridge) Thing() *Thing { return b.thing }

// IsThing reports whether the bridge is itself a thing.
func (b *Bridge) IsThing() bool { return b.thing != nil }

// UID returns the bridge thing's uid, or "" when the bridge is not a thing.
func (b *Bridge) UID() string {
	if b.thing == nil {
		return ""
	}
	return b.thing.uid
}

// Things returns the linked things in registration order.
func (b *Bridge) Things() []*Thing { return slices.Clone(b.things) }

// SetThing makes t the bridge's representation as a thing.
func (b *Bridge) SetThing(t *Thing) error {
	if b.thing != nil {
		return fmt.Errorf("%w: bridge %q already has a thing", ErrInvalidField, b.key)
	}
	if t.binding != b.binding {
		return fmt.Errorf("%w: thing binding %q differs from bridge binding %q", ErrInvalidField, t.binding, b.binding)
	}
	t.subBridge = b
	b.thing = t
	return nil
}

// Link registers t on the bridge. Linking the same thing twice is a no-op;
// linking a different thing with an already used uid fails.
//
// Returns:
//   - bool: true if t was added, false if it was already linked
//   - error: ErrDuplicateIdentifier or ErrInvalidField
func (b *Bridge) Link(t *Thing) (bool, error) {
	for _, existing := range b.things {
		if existing == t {
			return false, nil
		}
		if existing.uid == t.uid {
			return false, fmt.Errorf("%w: thing uid %q on bridge %q", ErrDuplicateIdentifier, t.uid, b.key)
		}
	}
	if t.bridge != nil && t.bridge != b {
		return false, fmt.Errorf("%w: thing %q is already linked on bridge %q", ErrInvalidField, t.uid, t.bridge.key)
	}
	if t.binding != b.binding {
		return false, fmt.Errorf("%w: thing binding %q differs from bridge binding %q", ErrInvalidField, t.binding, b.binding)
	}
	t.bridge = b
	b.things = append(b.things, t)
	return true, nil
}

// DefaultBridgeThingType returns the thing type a bridge of the given binding
// family uses when its thing omits one, or "" for an unknown family.
func DefaultBridgeThingType(binding string) string {
	for _, f := range bridgeFamilies {
		if f.binding == binding {
			return f.defaultType
		}
	}
	return ""
}
