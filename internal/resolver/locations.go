package resolver

import (
	"fmt"

	"github.com/nerrad567/gray-logic-confgen/internal/identifier"
	"github.com/nerrad567/gray-logic-confgen/internal/inventory"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

func (r *Resolver) resolveLocations(docs *inventory.Documents) (int, error) {
	seen := make(map[string]bool, len(docs.Locations))
	count := 0
	for _, e := range docs.Locations {
		loc, n, err := r.buildLocation(e.Doc, nil)
		if err != nil {
			return 0, err
		}
		if seen[loc.Identifier()] {
			return 0, model.NewConfigurationError(model.KindLocation, loc.Name(), "",
				fmt.Errorf("%w: location %q", model.ErrDuplicateIdentifier, loc.Identifier()))
		}
		seen[loc.Identifier()] = true
		r.locations = append(r.locations, loc)
		count += n
	}
	return count, nil
}

// buildLocation builds a location subtree and returns it with its node count.
func (r *Resolver) buildLocation(doc map[string]any, parent *model.Location) (*model.Location, int, error) {
	var spec locationSpec
	name, _ := doc["name"].(string)
	if err := inventory.Decode(doc, &spec); err != nil {
		return nil, 0, model.NewConfigurationError(model.KindLocation, name, "", err)
	}
	cfgErr := func(field string, err error) error {
		return model.NewConfigurationError(model.KindLocation, spec.Name, field, err)
	}

	if spec.Name == "" {
		return nil, 0, cfgErr("name", model.ErrMissingField)
	}
	if spec.Typed == "" {
		return nil, 0, cfgErr("typed", model.ErrMissingField)
	}

	id := spec.Identifier
	if id == "" {
		id = identifier.Derive(spec.Name)
	}
	loc, err := r.regs.NewLocation(spec.Typed, model.LocationArgs{
		Name:       spec.Name,
		Identifier: id,
		Subtype:    spec.Subtype,
		Area:       spec.Area,
	})
	if err != nil {
		return nil, 0, wrapConstruction(model.KindLocation, spec.Name, err)
	}
	if parent != nil {
		if err := parent.AddChild(loc); err != nil {
			return nil, 0, cfgErr("locations", err)
		}
	}

	own := owner{location: loc, prefix: loc.Identifier(), name: loc.Name()}
	for _, raw := range spec.Equipment {
		eq, err := r.mergeAndBuild(raw, own)
		if err != nil {
			return nil, 0, err
		}
		if err := loc.AddEquipment(eq); err != nil {
			return nil, 0, cfgErr("equipment", err)
		}
	}

	count := 1
	for _, raw := range spec.Locations {
		_, n, err := r.buildLocation(raw, loc)
		if err != nil {
			return nil, 0, err
		}
		count += n
	}
	return loc, count, nil
}
