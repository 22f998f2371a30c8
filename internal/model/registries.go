package model

import (
	"sync"

	"github.com/nerrad567/gray-logic-confgen/internal/registry"
)

// Registries holds the type-tag registries of every polymorphic entity kind.
type Registries struct {
	Locations *registry.Registry[LocationArgs, *Location]
	Bridges   *registry.Registry[BridgeArgs, *Bridge]
	Equipment *registry.Registry[EquipmentArgs, Equipment]
}

var (
	defaultRegistries     *Registries
	defaultRegistriesOnce sync.Once
)

// DefaultRegistries returns the process-wide registries with all built-in
// variants. They are populated once, on first use.
func DefaultRegistries() *Registries {
	defaultRegistriesOnce.Do(func() {
		defaultRegistries = NewRegistries()
	})
	return defaultRegistries
}

// NewRegistries builds a fresh set of registries with the built-in variants.
func NewRegistries() *Registries {
	r := &Registries{
		Locations: registry.New[LocationArgs, *Location](KindLocation),
		Bridges:   registry.New[BridgeArgs, *Bridge](KindBridge),
		Equipment: registry.New[EquipmentArgs, Equipment](KindEquipment),
	}

	for _, t := range AllLocationTypes() {
		t := t
		r.Locations.MustRegister(string(t), func(args LocationArgs) (*Location, error) {
			return newLocation(t, args)
		})
	}
	for _, f := range bridgeFamilies {
		f := f
		r.Bridges.MustRegister(f.binding, func(args BridgeArgs) (*Bridge, error) {
			return newBridge(f, args)
		})
	}
	for _, v := range equipmentVariants {
		RegisterEquipment(r, v.tag, v.categories, v.wrap)
	}
	return r
}

// RegisterEquipment adds an equipment variant. wrap receives the populated
// base and returns the variant embedding it.
func RegisterEquipment(r *Registries, tag string, categories []string, wrap func(*BaseEquipment) Equipment) {
	r.Equipment.MustRegister(tag, func(args EquipmentArgs) (Equipment, error) {
		base, err := newBaseEquipment(tag, args)
		if err != nil {
			return nil, err
		}
		base.categories = append([]string(nil), categories...)
		eq := wrap(base)
		if base.thing != nil {
			base.thing.equipment = eq
		}
		return eq, nil
	})
}

// NewLocation constructs a location of the given type tag.
func (r *Registries) NewLocation(tag string, args LocationArgs) (*Location, error) {
	return r.Locations.New(tag, args)
}

// NewBridge constructs a bridge of the given binding family.
func (r *Registries) NewBridge(tag string, args BridgeArgs) (*Bridge, error) {
	return r.Bridges.New(tag, args)
}

// NewEquipment constructs an equipment node of the given variant tag.
func (r *Registries) NewEquipment(tag string, args EquipmentArgs) (Equipment, error) {
	return r.Equipment.New(tag, args)
}
