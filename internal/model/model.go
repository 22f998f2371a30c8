package model

import (
	"slices"
)

// Model is the resolved configuration graph. It is read-only.
type Model struct {
	bridges   []*Bridge
	byKey     map[string]*Bridge
	locations []*Location
	persons   []*Person
}

// Channel is one point of a terminal equipment node and its address.
type Channel struct {
	Equipment Equipment
	Point     string
	Address   string
}

// NewModel assembles a model from resolved roots.
func NewModel(bridges []*Bridge, locations []*Location, persons []*Person) *Model {
	m := &Model{
		bridges:   slices.Clone(bridges),
		byKey:     make(map[string]*Bridge, len(bridges)),
		locations: slices.Clone(locations),
		persons:   slices.Clone(persons),
	}
	for _, b := range bridges {
		m.byKey[b.key] = b
	}
	return m
}

// Bridges returns the bridges in declaration order.
func (m *Model) Bridges() []*Bridge { return slices.Clone(m.bridges) }

// Bridge returns the bridge declared under key.
func (m *Model) Bridge(key string) (*Bridge, bool) {
	b, ok := m.byKey[key]
	return b, ok
}

// RootBridges returns the bridges without a parent.
func (m *Model) RootBridges() []*Bridge {
	var roots []*Bridge
	for _, b := range m.bridges {
		if b.parent == nil {
			roots = append(roots, b)
		}
	}
	return roots
}

// SubBridges returns the bridges whose parent is b.
func (m *Model) SubBridges(b *Bridge) []*Bridge {
	var subs []*Bridge
	for _, c := range m.bridges {
		if c.parent == b {
			subs = append(subs, c)
		}
	}
	return subs
}

// Locations returns the root locations in declaration order.
func (m *Model) Locations() []*Location { return slices.Clone(m.locations) }

// AllLocations returns every location in pre-order.
func (m *Model) AllLocations() []*Location {
	var all []*Location
	for _, root := range m.locations {
		_ = root.Walk(func(l *Location) error {
			all = append(all, l)
			return nil
		})
	}
	return all
}

// Persons returns the persons in declaration order.
func (m *Model) Persons() []*Person { return slices.Clone(m.persons) }

// Equipment returns every equipment node in pre-order: location equipment
// first, then personal equipment.
func (m *Model) Equipment() []Equipment {
	var all []Equipment
	collect := func(eq Equipment) error {
		all = append(all, eq)
		return nil
	}
	for _, l := range m.AllLocations() {
		for _, eq := range l.equipment {
			_ = WalkEquipment(eq, collect)
		}
	}
	for _, p := range m.persons {
		for _, eq := range p.equipment {
			_ = WalkEquipment(eq, collect)
		}
	}
	return all
}

// Things returns all bridge things followed by all equipment things.
func (m *Model) Things() []*Thing {
	var things []*Thing
	for _, b := range m.bridges {
		if b.thing != nil {
			things = append(things, b.thing)
		}
	}
	for _, eq := range m.Equipment() {
		if eq.IsThing() && eq.Thing() != nil {
			things = append(things, eq.Thing())
		}
	}
	return things
}

// Channels returns the addresses of every declared point of every bound
// terminal node, in equipment pre-order and sorted point order.
func (m *Model) Channels() ([]Channel, error) {
	var channels []Channel
	for _, eq := range m.Equipment() {
		if !eq.IsThing() || eq.Thing() == nil {
			continue
		}
		for _, point := range eq.PointKeys() {
			addr, err := eq.ChannelAddress(point)
			if err != nil {
				return nil, err
			}
			channels = append(channels, Channel{Equipment: eq, Point: point, Address: addr})
		}
	}
	return channels, nil
}
