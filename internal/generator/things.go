package generator

import (
	"context"
	"path"

	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

// ThingsUnit emits the bridge and thing definitions.
type ThingsUnit struct{}

// Name implements Unit.
func (ThingsUnit) Name() string { return "things" }

// Generate implements Unit.
func (ThingsUnit) Generate(ctx context.Context, in *Input) ([]Artifact, error) {
	var d doc
	for _, b := range in.Model.Bridges() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Sub-bridges that are things are emitted inside their parent.
		if b.Parent() != nil && b.IsThing() {
			continue
		}
		writeBridge(&d, b, 0, false)
	}
	return []Artifact{{
		Path:    path.Join("things", in.BaseName()+".things"),
		Content: d.bytes(),
	}}, nil
}

func writeBridge(d *doc, b *model.Bridge, depth int, nested bool) {
	if !b.IsThing() {
		d.line(depth, "// %s (%s)", b.Name(), b.Binding())
		for _, t := range b.Things() {
			if sub := t.SubBridge(); sub != nil {
				writeBridge(d, sub, depth, false)
				continue
			}
			writeThing(d, t, depth, false)
		}
		d.blank()
		return
	}

	t := b.Thing()
	if nested {
		d.line(depth, "Bridge %s %s %s%s {", t.ThingType(), t.UID(), quote(t.Label()), propertyList(t.Properties()))
	} else {
		d.line(depth, "Bridge %s %s%s {", t.FullUID(), quote(t.Label()), propertyList(t.Properties()))
	}
	for _, child := range b.Things() {
		if sub := child.SubBridge(); sub != nil {
			writeBridge(d, sub, depth+1, true)
			continue
		}
		writeThing(d, child, depth+1, true)
	}
	d.line(depth, "}")
	if depth == 0 {
		d.blank()
	}
}

func writeThing(d *doc, t *model.Thing, depth int, nested bool) {
	if nested {
		d.line(depth, "Thing %s %s %s%s", t.ThingType(), t.UID(), quote(t.Label()), propertyList(t.Properties()))
		return
	}
	d.line(depth, "Thing %s %s%s", t.FullUID(), quote(t.Label()), propertyList(t.Properties()))
}
