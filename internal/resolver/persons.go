package resolver

import (
	"fmt"

	"github.com/nerrad567/gray-logic-confgen/internal/inventory"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

func (r *Resolver) resolvePersons(docs *inventory.Documents) (int, error) {
	seen := make(map[string]bool, len(docs.Persons))
	for _, e := range docs.Persons {
		p, err := r.buildPerson(e.Doc)
		if err != nil {
			return 0, err
		}
		if seen[p.Identifier()] {
			return 0, model.NewConfigurationError(model.KindPerson, p.Name(), "",
				fmt.Errorf("%w: person %q", model.ErrDuplicateIdentifier, p.Identifier()))
		}
		seen[p.Identifier()] = true
		r.persons = append(r.persons, p)
	}
	return len(r.persons), nil
}

func (r *Resolver) buildPerson(doc map[string]any) (*model.Person, error) {
	var spec personSpec
	name, _ := doc["name"].(string)
	if err := inventory.Decode(doc, &spec); err != nil {
		return nil, model.NewConfigurationError(model.KindPerson, name, "", err)
	}
	cfgErr := func(field string, err error) error {
		return model.NewConfigurationError(model.KindPerson, spec.Name, field, err)
	}

	p, err := model.NewPerson(spec.Name, spec.Identifier)
	if err != nil {
		return nil, cfgErr("name", err)
	}
	for _, s := range spec.States {
		if _, err := p.AddState(model.PersonStateKind(s)); err != nil {
			return nil, cfgErr("states", err)
		}
	}

	own := owner{person: p, prefix: p.Identifier(), name: p.Name()}
	for _, raw := range spec.Equipment {
		eq, err := r.mergeAndBuild(raw, own)
		if err != nil {
			return nil, err
		}
		if err := p.AddEquipment(eq); err != nil {
			return nil, cfgErr("equipment", err)
		}
	}
	return p, nil
}
