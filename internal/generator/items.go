package generator

import (
	"context"
	"path"

	"github.com/nerrad567/gray-logic-confgen/internal/identifier"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

// Group names shared by the items and sitemap units.
const (
	personsGroup = "Persons"
	areaPrefix   = "Area"
)

// ItemsUnit emits groups for locations, equipment and persons, and one item
// per declared point.
type ItemsUnit struct{}

// Name implements Unit.
func (ItemsUnit) Name() string { return "items" }

// Generate implements Unit.
func (ItemsUnit) Generate(ctx context.Context, in *Input) ([]Artifact, error) {
	var d doc
	m := in.Model

	areas := areaGroups(m)
	if len(areas) > 0 {
		d.line(0, "// Areas")
		for _, a := range areas {
			d.line(0, "Group %s %s", areaGroupName(a), quote(a))
		}
		d.blank()
	}

	d.line(0, "// Locations")
	for _, l := range m.AllLocations() {
		var groups []string
		if p := l.Parent(); p != nil {
			groups = append(groups, p.Identifier())
		}
		if l.Area() != "" {
			groups = append(groups, areaGroupName(l.Area()))
		}
		d.line(0, "Group %s %s%s%s", l.Identifier(), quote(l.Name()), groupList(groups), tagList(l.Categories()))
	}
	d.blank()

	d.line(0, "// Equipment")
	for _, eq := range m.Equipment() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := writeEquipmentItems(&d, eq); err != nil {
			return nil, err
		}
	}

	if persons := m.Persons(); len(persons) > 0 {
		d.blank()
		d.line(0, "// Persons")
		d.line(0, "Group %s %s", personsGroup, quote("Persons"))
		for _, p := range persons {
			d.line(0, "Group %s %s%s", p.Identifier(), quote(p.Name()), groupList([]string{personsGroup}))
			for _, s := range p.States() {
				d.line(0, "Switch %s %s%s", s.Identifier(), quote(s.Name()), groupList([]string{p.Identifier()}))
			}
		}
	}

	return []Artifact{{
		Path:    path.Join("items", in.BaseName()+".items"),
		Content: d.bytes(),
	}}, nil
}

func writeEquipmentItems(d *doc, eq model.Equipment) error {
	d.line(0, "Group %s %s%s%s", eq.Identifier(), quote(eq.Name()), groupList([]string{ownerGroup(eq)}), tagList(eq.Categories()))

	for _, point := range eq.PointKeys() {
		kind := kindOf(point)
		link := ""
		if eq.Thing() != nil {
			addr, err := eq.ChannelAddress(point)
			if err != nil {
				return err
			}
			link = " { channel=" + quote(addr) + " }"
		}
		d.line(0, "%s %s %s%s%s%s",
			kind.itemType, pointItemName(eq, point), quote(eq.Name()+" "+identifier.Derive(point)),
			groupList([]string{eq.Identifier()}), tagList(kind.tags), link)
	}
	return nil
}

// ownerGroup returns the group an equipment node belongs to.
func ownerGroup(eq model.Equipment) string {
	switch {
	case eq.Parent() != nil:
		return eq.Parent().Identifier()
	case eq.Location() != nil:
		return eq.Location().Identifier()
	case eq.Person() != nil:
		return eq.Person().Identifier()
	}
	return ""
}

func pointItemName(eq model.Equipment, point string) string {
	return eq.Identifier() + "_" + identifier.Derive(point)
}

func areaGroupName(area string) string {
	return areaPrefix + identifier.Derive(area)
}

// areaGroups returns the distinct area tags in first-use order.
func areaGroups(m *model.Model) []string {
	seen := make(map[string]bool)
	var areas []string
	for _, l := range m.AllLocations() {
		if a := l.Area(); a != "" && !seen[a] {
			seen[a] = true
			areas = append(areas, a)
		}
	}
	return areas
}
