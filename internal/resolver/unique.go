package resolver

import (
	"fmt"

	"github.com/nerrad567/gray-logic-confgen/internal/inventory"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

type claim struct {
	kind string
	name string
}

// namespace records which entity first claimed an identifier.
type namespace struct {
	what   string
	owners map[string]claim
}

func newNamespace(what string) *namespace {
	return &namespace{what: what, owners: make(map[string]claim)}
}

func (n *namespace) claim(id, kind, name string) error {
	if prev, ok := n.owners[id]; ok {
		return model.NewConfigurationError(kind, name, "identifier",
			fmt.Errorf("%w: %s %q is already used by %s %q", model.ErrDuplicateIdentifier, n.what, id, prev.kind, prev.name))
	}
	n.owners[id] = claim{kind: kind, name: name}
	return nil
}

// checkUnique assembles the model and rejects clashes that sibling checks
// cannot see. Location, person, person state and equipment identifiers all
// become item names, so they share one namespace. Full thing uids share
// another across every bridge.
func (r *Resolver) checkUnique(*inventory.Documents) (int, error) {
	m := model.NewModel(r.bridgeOrder, r.locations, r.persons)

	items := newNamespace("item")
	for _, l := range m.AllLocations() {
		if err := items.claim(l.Identifier(), model.KindLocation, l.Name()); err != nil {
			return 0, err
		}
	}
	for _, p := range m.Persons() {
		if err := items.claim(p.Identifier(), model.KindPerson, p.Name()); err != nil {
			return 0, err
		}
		for _, s := range p.States() {
			if err := items.claim(s.Identifier(), model.KindPerson, s.Name()); err != nil {
				return 0, err
			}
		}
	}
	for _, eq := range m.Equipment() {
		if err := items.claim(eq.Identifier(), model.KindEquipment, eq.Name()); err != nil {
			return 0, err
		}
	}

	things := newNamespace("thing")
	for _, t := range m.Things() {
		kind, name := model.KindEquipment, t.Label()
		if b := t.SubBridge(); b != nil {
			kind, name = model.KindBridge, b.Name()
		} else if eq := t.Equipment(); eq != nil {
			name = eq.Name()
		}
		if err := things.claim(t.FullUID(), kind, name); err != nil {
			return 0, err
		}
	}

	r.model = m
	return len(items.owners) + len(things.owners), nil
}
