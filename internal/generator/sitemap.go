package generator

import (
	"context"
	"path"

	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

// SitemapUnit emits a navigation sitemap mirroring the location tree.
type SitemapUnit struct{}

// Name implements Unit.
func (SitemapUnit) Name() string { return "sitemap" }

// Generate implements Unit.
func (SitemapUnit) Generate(ctx context.Context, in *Input) ([]Artifact, error) {
	var d doc
	d.line(0, "sitemap %s label=%s {", in.BaseName(), quote(in.Name))

	for _, root := range in.Model.Locations() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d.line(1, "Frame label=%s {", quote(root.Name()))
		writeLocationPage(&d, root, 2)
		d.line(1, "}")
	}

	if persons := in.Model.Persons(); len(persons) > 0 {
		d.line(1, "Frame label=%s {", quote("Persons"))
		for _, p := range persons {
			d.line(2, "Text label=%s {", quote(p.Name()))
			for _, s := range p.States() {
				d.line(3, "Switch item=%s", s.Identifier())
			}
			for _, eq := range p.Equipment() {
				writeEquipmentWidgets(&d, eq, 3)
			}
			d.line(2, "}")
		}
		d.line(1, "}")
	}

	d.line(0, "}")
	return []Artifact{{
		Path:    path.Join("sitemaps", in.BaseName()+".sitemap"),
		Content: d.bytes(),
	}}, nil
}

func writeLocationPage(d *doc, l *model.Location, depth int) {
	for _, eq := range l.Equipment() {
		writeEquipmentWidgets(d, eq, depth)
	}
	for _, c := range l.Children() {
		d.line(depth, "Text label=%s {", quote(c.Name()))
		writeLocationPage(d, c, depth+1)
		d.line(depth, "}")
	}
}

func writeEquipmentWidgets(d *doc, eq model.Equipment, depth int) {
	if !eq.IsThing() {
		d.line(depth, "Frame label=%s {", quote(eq.Name()))
		for _, c := range eq.Children() {
			writeEquipmentWidgets(d, c, depth+1)
		}
		d.line(depth, "}")
		return
	}
	for _, point := range eq.PointKeys() {
		d.line(depth, "%s item=%s label=%s", kindOf(point).widget, pointItemName(eq, point), quote(eq.Name()))
	}
}
