package resolver

import (
	"fmt"
	"strings"

	"github.com/nerrad567/gray-logic-confgen/internal/identifier"
	"github.com/nerrad567/gray-logic-confgen/internal/inventory"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
	"github.com/nerrad567/gray-logic-confgen/internal/registry"
)

// owner is the context an equipment node is built in.
type owner struct {
	location *model.Location
	person   *model.Person
	parent   model.Equipment
	prefix   string // identifier prefix
	name     string // name prefix
}

func (o owner) child(eq model.Equipment) owner {
	return owner{
		location: o.location,
		person:   o.person,
		parent:   eq,
		prefix:   eq.Identifier(),
		name:     eq.Name(),
	}
}

// mergeAndBuild applies templates to a raw top-level document and builds the
// resulting subtree.
func (r *Resolver) mergeAndBuild(raw map[string]any, own owner) (model.Equipment, error) {
	merged, err := r.library.Merge(raw)
	if err != nil {
		return nil, err
	}
	return r.buildEquipment(merged, own)
}

// buildEquipment builds a node and its children from a merged document.
func (r *Resolver) buildEquipment(doc map[string]any, own owner) (model.Equipment, error) {
	var spec equipmentSpec
	name, _ := doc["name"].(string)
	if err := inventory.Decode(doc, &spec); err != nil {
		return nil, model.NewConfigurationError(model.KindEquipment, name, "", err)
	}
	cfgErr := func(field string, err error) error {
		return model.NewConfigurationError(model.KindEquipment, spec.Name, field, err)
	}

	if spec.Name == "" {
		return nil, cfgErr("name", model.ErrMissingField)
	}
	typed := orDefault(spec.Typed, model.TypeEquipment)
	if !r.regs.Equipment.Has(typed) {
		return nil, &registry.Error{Kind: model.KindEquipment, Tag: typed}
	}
	if len(spec.Equipment) > 0 && (spec.Thing != nil || len(spec.Points) > 0 || spec.Binding != "") {
		return nil, cfgErr("equipment", fmt.Errorf("%w: only terminal nodes may declare a thing, points or binding", model.ErrInvalidField))
	}

	id := spec.Identifier
	if id == "" {
		id = identifier.Join(own.prefix, spec.Name)
	}
	fullName := strings.TrimSpace(own.name + " " + spec.Name)

	var (
		thing  *model.Thing
		bridge *model.Bridge
	)
	if spec.Thing != nil {
		var err error
		thing, bridge, err = r.buildThing(spec, typed, id, fullName)
		if err != nil {
			return nil, err
		}
	}

	eq, err := r.regs.NewEquipment(typed, model.EquipmentArgs{
		Name:       fullName,
		BlankName:  spec.Name,
		Identifier: id,
		Location:   own.location,
		Person:     own.person,
		Parent:     own.parent,
		Points:     spec.Points,
		Properties: spec.Properties,
		Thing:      thing,
	})
	if err != nil {
		return nil, cfgErr("", err)
	}

	if bridge != nil {
		if _, err := bridge.Link(thing); err != nil {
			return nil, cfgErr("thing.thinguid", err)
		}
	}

	if thing != nil {
		for _, point := range eq.PointKeys() {
			if _, err := eq.ChannelAddress(point); err != nil {
				return nil, err
			}
		}
	}

	for _, childDoc := range spec.Equipment {
		child, err := r.buildEquipment(childDoc, own.child(eq))
		if err != nil {
			return nil, err
		}
		if err := model.AddChild(eq, child); err != nil {
			return nil, cfgErr("equipment", err)
		}
	}
	return eq, nil
}

// buildThing resolves the bridge, secrets and uid of a terminal node.
func (r *Resolver) buildThing(spec equipmentSpec, typed, id, fullName string) (*model.Thing, *model.Bridge, error) {
	t := spec.Thing
	cfgErr := func(field string, err error) error {
		return model.NewConfigurationError(model.KindEquipment, spec.Name, field, err)
	}

	if t.Bridge == "" {
		return nil, nil, cfgErr("thing.bridge", model.ErrMissingField)
	}
	bridge, ok := r.bridges[t.Bridge]
	if !ok {
		return nil, nil, cfgErr("thing.bridge", fmt.Errorf("%w: %q", model.ErrUnknownBridge, t.Bridge))
	}

	binding := bridge.Binding()
	for _, declared := range []string{spec.Binding, t.Binding} {
		if declared != "" && declared != binding {
			return nil, nil, cfgErr("binding",
				fmt.Errorf("%w: %q differs from bridge binding %q", model.ErrInvalidField, declared, binding))
		}
	}
	if t.ThingType == "" {
		return nil, nil, cfgErr("thing.thingtype", model.ErrMissingField)
	}

	secretValues, err := r.lookupSecrets(model.KindEquipment, spec.Name, t.Secrets, binding, typed, id)
	if err != nil {
		return nil, nil, err
	}

	repl := model.Replacements{
		Name:       fullName,
		Type:       typed,
		Identifier: id,
		Binding:    binding,
		BridgeUID:  bridge.UID(),
		ThingType:  t.ThingType,
		Secrets:    secretValues,
	}
	uid, err := renderUID(repl, t.ThingUID)
	if err != nil {
		return nil, nil, cfgErr("thing.thinguid", err)
	}
	repl.ThingUID = uid

	props, err := renderAll(repl, t.Properties)
	if err != nil {
		return nil, nil, cfgErr("thing.properties", err)
	}
	label, err := repl.Render(orDefault(t.Label, fullName))
	if err != nil {
		return nil, nil, cfgErr("thing.label", err)
	}

	thing, err := model.NewThing(model.ThingArgs{
		Binding:      binding,
		ThingType:    t.ThingType,
		UID:          uid,
		Label:        label,
		Properties:   props,
		Secrets:      t.Secrets,
		Replacements: repl,
	})
	if err != nil {
		return nil, nil, cfgErr("thing", err)
	}
	return thing, bridge, nil
}
