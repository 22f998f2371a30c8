package resolver

import (
	"fmt"

	"github.com/nerrad567/gray-logic-confgen/internal/identifier"
	"github.com/nerrad567/gray-logic-confgen/internal/inventory"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
	"github.com/nerrad567/gray-logic-confgen/internal/registry"
)

type bridgeEntry struct {
	key  string
	spec bridgeSpec
}

// resolveBridges builds every bridge, parents before sub-bridges, and keeps
// declaration order in the model.
func (r *Resolver) resolveBridges(docs *inventory.Documents) (int, error) {
	entries := make(map[string]*bridgeEntry, len(docs.Bridges))
	order := make([]string, 0, len(docs.Bridges))
	for _, e := range docs.Bridges {
		be := &bridgeEntry{key: e.Key}
		if err := inventory.Decode(e.Doc, &be.spec); err != nil {
			return 0, model.NewConfigurationError(model.KindBridge, e.Key, "", err)
		}
		entries[e.Key] = be
		order = append(order, e.Key)
	}

	building := make(map[string]bool)
	var build func(key string) (*model.Bridge, error)
	build = func(key string) (*model.Bridge, error) {
		if b, ok := r.bridges[key]; ok {
			return b, nil
		}
		if building[key] {
			return nil, model.NewConfigurationError(model.KindBridge, key, "parent",
				fmt.Errorf("%w: %q", model.ErrBridgeCycle, key))
		}
		building[key] = true
		defer delete(building, key)

		be := entries[key]
		var parent *model.Bridge
		if p := be.spec.Parent; p != "" {
			if _, ok := entries[p]; !ok {
				return nil, model.NewConfigurationError(model.KindBridge, key, "parent",
					fmt.Errorf("%w: %q", model.ErrUnknownBridge, p))
			}
			var err error
			if parent, err = build(p); err != nil {
				return nil, err
			}
		}

		b, err := r.buildBridge(be, parent)
		if err != nil {
			return nil, err
		}
		r.bridges[key] = b
		return b, nil
	}

	for _, key := range order {
		b, err := build(key)
		if err != nil {
			return 0, err
		}
		r.bridgeOrder = append(r.bridgeOrder, b)
	}
	return len(r.bridgeOrder), nil
}

func (r *Resolver) buildBridge(be *bridgeEntry, parent *model.Bridge) (*model.Bridge, error) {
	spec := be.spec
	cfgErr := func(field string, err error) error {
		return model.NewConfigurationError(model.KindBridge, be.key, field, err)
	}

	if spec.Name == "" {
		return nil, cfgErr("name", model.ErrMissingField)
	}
	if spec.Typed == "" {
		return nil, cfgErr("typed", model.ErrMissingField)
	}
	if !r.regs.Bridges.Has(spec.Typed) {
		return nil, &registry.Error{Kind: model.KindBridge, Tag: spec.Typed}
	}

	id := spec.Identifier
	if id == "" {
		id = identifier.Derive(spec.Name)
	}
	binding := spec.Typed

	names := append([]string(nil), spec.Secrets...)
	if spec.Thing != nil {
		names = append(names, spec.Thing.Secrets...)
	}
	secretValues, err := r.lookupSecrets(model.KindBridge, be.key, names, binding, model.KindBridge, id)
	if err != nil {
		return nil, err
	}

	repl := model.Replacements{
		Name:       spec.Name,
		Type:       model.KindBridge,
		Identifier: id,
		Binding:    binding,
		Secrets:    secretValues,
	}
	if parent != nil {
		repl.BridgeUID = parent.UID()
	}

	var thingArgs *model.ThingArgs
	if t := spec.Thing; t != nil {
		if t.Bridge != "" {
			return nil, cfgErr("thing.bridge", fmt.Errorf("%w: use parent to nest bridges", model.ErrInvalidField))
		}
		if t.Binding != "" && t.Binding != binding {
			return nil, cfgErr("thing.binding", fmt.Errorf("%w: %q differs from bridge binding %q", model.ErrInvalidField, t.Binding, binding))
		}
		repl.ThingType = t.ThingType
		if repl.ThingType == "" {
			repl.ThingType = model.DefaultBridgeThingType(binding)
		}
		uid, err := renderUID(repl, t.ThingUID)
		if err != nil {
			return nil, cfgErr("thing.thinguid", err)
		}
		repl.ThingUID = uid

		props, err := renderAll(repl, t.Properties)
		if err != nil {
			return nil, cfgErr("thing.properties", err)
		}
		label, err := repl.Render(orDefault(t.Label, spec.Name))
		if err != nil {
			return nil, cfgErr("thing.label", err)
		}
		thingArgs = &model.ThingArgs{
			Binding:      binding,
			ThingType:    repl.ThingType,
			UID:          uid,
			Label:        label,
			Properties:   props,
			Secrets:      names,
			Replacements: repl,
		}
	}

	props, err := renderAll(repl, spec.Properties)
	if err != nil {
		return nil, cfgErr("properties", err)
	}

	b, err := r.regs.NewBridge(spec.Typed, model.BridgeArgs{
		Key:        be.key,
		Name:       spec.Name,
		Identifier: id,
		Parent:     parent,
		Properties: props,
	})
	if err != nil {
		return nil, cfgErr("", err)
	}

	if thingArgs != nil {
		thing, err := model.NewThing(*thingArgs)
		if err != nil {
			return nil, cfgErr("thing", err)
		}
		if err := b.SetThing(thing); err != nil {
			return nil, cfgErr("thing", err)
		}
		if parent != nil {
			if _, err := parent.Link(thing); err != nil {
				return nil, cfgErr("thing.thinguid", err)
			}
		}
	}

	r.logger.Debug("bridge resolved", "key", be.key, "binding", binding, "uid", b.UID())
	return b, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
