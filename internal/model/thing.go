package model

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ThingArgs holds the construction arguments of a thing.
type ThingArgs struct {
	Binding      string
	ThingType    string
	UID          string
	Label        string
	Properties   map[string]string
	Secrets      []string // declared secret names, resolved into Replacements.Secrets
	Replacements Replacements
}

// Thing is the binding data of a terminal equipment node or of a bridge.
type Thing struct {
	binding      string
	thingType    string
	uid          string
	label        string
	properties   map[string]string
	secrets      []string
	replacements Replacements

	bridge    *Bridge   // bridge this thing is linked on; nil for a root bridge
	equipment Equipment // owning terminal node, nil for a bridge thing
	subBridge *Bridge   // bridge this thing represents, nil for equipment
}

// NewThing validates args and builds a Thing.
func NewThing(args ThingArgs) (*Thing, error) {
	switch {
	case args.Binding == "":
		return nil, fmt.Errorf("%w: binding", ErrMissingField)
	case args.ThingType == "":
		return nil, fmt.Errorf("%w: thingtype", ErrMissingField)
	case args.UID == "":
		return nil, fmt.Errorf("%w: thinguid", ErrMissingField)
	case strings.Contains(args.UID, ":"):
		return nil, fmt.Errorf("%w: thinguid %q contains ':'", ErrInvalidField, args.UID)
	}

	return &Thing{
		binding:      args.Binding,
		thingType:    args.ThingType,
		uid:          args.UID,
		label:        args.Label,
		properties:   maps.Clone(args.Properties),
		secrets:      slices.Clone(args.Secrets),
		replacements: args.Replacements,
	}, nil
}

// Binding returns the binding family, e.g. "zigbee".
func (t *Thing) Binding() string { return t.binding }

// ThingType returns the binding-specific thing type.
func (t *Thing) ThingType() string { return t.thingType }

// UID returns the thing's own uid segment.
func (t *Thing) UID() string { return t.uid }

// Label returns the display label.
func (t *Thing) Label() string { return t.label }

// Properties returns a copy of the rendered binding properties.
func (t *Thing) Properties() map[string]string { return maps.Clone(t.properties) }

// SecretNames returns the declared secret names.
func (t *Thing) SecretNames() []string { return slices.Clone(t.secrets) }

// Replacements returns the placeholder context the thing was rendered with.
func (t *Thing) Replacements() Replacements { return t.replacements }

// Bridge returns the bridge this thing is linked on, or nil.
func (t *Thing) Bridge() *Bridge { return t.bridge }

// Equipment returns the owning terminal equipment node, or nil for a bridge thing.
func (t *Thing) Equipment() Equipment { return t.equipment }

// SubBridge returns the bridge this thing represents, or nil.
func (t *Thing) SubBridge() *Bridge { return t.subBridge }

// ancestorUIDs returns the uids of the bridges above t that are things
// themselves and whose uid differs from t's, outermost first.
func (t *Thing) ancestorUIDs() []string {
	var uids []string
	for b := t.bridge; b != nil; b = b.parent {
		if b.thing != nil && b.thing.uid != t.uid {
			uids = append(uids, b.thing.uid)
		}
	}
	slices.Reverse(uids)
	return uids
}

// FullUID returns binding:thingtype[:bridge uids...]:uid.
func (t *Thing) FullUID() string {
	parts := make([]string, 0, 4)
	parts = append(parts, t.binding, t.thingType)
	parts = append(parts, t.ancestorUIDs()...)
	parts = append(parts, t.uid)
	return strings.Join(parts, ":")
}

// ChannelUID returns the channel address for a binding-specific suffix.
func (t *Thing) ChannelUID(suffix string) string {
	return t.FullUID() + ":" + suffix
}
