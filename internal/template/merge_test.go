package template

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

func newLibrary(t *testing.T, docs map[string]map[string]any) *Library {
	t.Helper()
	l := NewLibrary()
	for name, doc := range docs {
		require.NoError(t, l.Add(name, doc))
	}
	return l
}

func TestMergeTemplateDefaults(t *testing.T) {
	l := newLibrary(t, map[string]map[string]any{
		"eco-sensor": {"typed": "sensor", "points": map[string]any{"temperature": "temp"}},
	})

	got, err := l.Merge(map[string]any{"name": "Climate", "template": "eco-sensor"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"name":   "Climate",
		"typed":  "sensor",
		"points": map[string]any{"temperature": "temp"},
	}, got)
}

func TestMergeInstanceWinsAtEveryLevel(t *testing.T) {
	l := newLibrary(t, map[string]map[string]any{
		"lamp": {
			"typed":  "lightbulb",
			"points": map[string]any{"onoff": "state", "brightness": "level"},
			"thing":  map[string]any{"bridge": "hub1", "thingtype": "lamp"},
		},
	})

	got, err := l.Merge(map[string]any{
		"name":     "Ceiling",
		"template": "lamp",
		"typed":    "switch",
		"points":   map[string]any{"onoff": "switch"},
		"thing":    map[string]any{"bridge": "hub2"},
	})
	require.NoError(t, err)

	assert.Equal(t, "switch", got["typed"])
	assert.Equal(t, map[string]any{"onoff": "switch", "brightness": "level"}, got["points"])
	assert.Equal(t, map[string]any{"bridge": "hub2", "thingtype": "lamp"}, got["thing"])
	assert.NotContains(t, got, "template")
}

func TestMergeRecursesIntoChildren(t *testing.T) {
	l := newLibrary(t, map[string]map[string]any{
		"spot": {"typed": "lightbulb", "points": map[string]any{"onoff": "state"}},
	})

	got, err := l.Merge(map[string]any{
		"name": "Spots",
		"equipment": []any{
			map[string]any{"name": "Left", "template": "spot"},
			map[string]any{"name": "Right", "template": "spot", "typed": "socket"},
		},
	})
	require.NoError(t, err)

	children := got["equipment"].([]any)
	require.Len(t, children, 2)
	assert.Equal(t, "lightbulb", children[0].(map[string]any)["typed"])
	assert.Equal(t, "socket", children[1].(map[string]any)["typed"])
	assert.NotContains(t, children[1].(map[string]any), "template")
}

func TestMergeDoesNotMutateTemplateOrInput(t *testing.T) {
	l := newLibrary(t, map[string]map[string]any{
		"lamp": {"points": map[string]any{"onoff": "state"}},
	})
	in := map[string]any{"name": "A", "template": "lamp"}

	got, err := l.Merge(in)
	require.NoError(t, err)
	got["points"].(map[string]any)["onoff"] = "changed"

	again, err := l.Merge(in)
	require.NoError(t, err)
	assert.Equal(t, "state", again["points"].(map[string]any)["onoff"])
	assert.Equal(t, "lamp", in["template"])
}

func TestMergeUnknownTemplate(t *testing.T) {
	l := NewLibrary()

	_, err := l.Merge(map[string]any{"name": "Lamp", "template": "missing"})

	var cfgErr *model.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Lamp", cfgErr.Name)
	assert.Equal(t, KeyTemplate, cfgErr.Field)
	assert.ErrorIs(t, err, model.ErrUnknownTemplate)
}

func TestMergeInvalidTemplateKey(t *testing.T) {
	_, err := NewLibrary().Merge(map[string]any{"name": "Lamp", "template": 7})
	assert.ErrorIs(t, err, model.ErrInvalidField)
}

func TestTemplateInheritance(t *testing.T) {
	l := newLibrary(t, map[string]map[string]any{
		"base":  {"typed": "lightbulb", "points": map[string]any{"onoff": "state"}},
		"dimm":  {"template": "base", "points": map[string]any{"brightness": "level"}},
		"color": {"template": "dimm", "points": map[string]any{"color": "rgb"}},
	})

	got, err := l.Resolve("color")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"typed":  "lightbulb",
		"points": map[string]any{"onoff": "state", "brightness": "level", "color": "rgb"},
	}, got)
	assert.NoError(t, l.Validate())
}

func TestTemplateCycle(t *testing.T) {
	l := newLibrary(t, map[string]map[string]any{
		"a": {"template": "b"},
		"b": {"template": "a"},
	})

	assert.ErrorIs(t, l.Validate(), model.ErrTemplateCycle)
	_, err := l.Merge(map[string]any{"name": "x", "template": "a"})
	assert.ErrorIs(t, err, model.ErrTemplateCycle)
}

func TestTemplateUnknownParent(t *testing.T) {
	l := newLibrary(t, map[string]map[string]any{"a": {"template": "ghost"}})
	assert.ErrorIs(t, l.Validate(), model.ErrUnknownTemplate)
}

func TestLibraryAdd(t *testing.T) {
	l := NewLibrary()
	require.NoError(t, l.Add("a", nil))
	require.NoError(t, l.Add("b", map[string]any{}))

	assert.ErrorIs(t, l.Add("a", nil), model.ErrDuplicateIdentifier)
	assert.ErrorIs(t, l.Add("", nil), model.ErrMissingField)
	assert.Equal(t, []string{"a", "b"}, l.Names())
	assert.Equal(t, 2, l.Len())
}

func TestMergeCountExpansion(t *testing.T) {
	l := newLibrary(t, map[string]map[string]any{
		"spot": {"typed": "lightbulb", "points": map[string]any{"onoff": "state"}},
	})

	got, err := l.Merge(map[string]any{"name": "Spots", "template": "spot", "count": 3})
	require.NoError(t, err)

	assert.Equal(t, "Spots", got["name"])
	assert.Equal(t, "lightbulb", got["typed"])
	assert.NotContains(t, got, "points")
	assert.NotContains(t, got, "count")

	children := got["equipment"].([]any)
	require.Len(t, children, 3)
	for i, want := range []string{"1", "2", "3"} {
		child := children[i].(map[string]any)
		assert.Equal(t, want, child["name"])
		assert.Equal(t, map[string]any{"onoff": "state"}, child["points"])
		assert.NotContains(t, child, "count")
	}
}

func TestMergeCountAtLimit(t *testing.T) {
	got, err := NewLibrary().Merge(map[string]any{"name": "Spots", "count": MaxCount})
	require.NoError(t, err)
	assert.Len(t, got["equipment"], MaxCount)
}

func TestMergeWithoutTemplateIsNoOp(t *testing.T) {
	l := newLibrary(t, map[string]map[string]any{
		"lamp": {"typed": "lightbulb"},
	})
	doc := map[string]any{
		"name":   "Desk",
		"typed":  "equipment",
		"points": map[string]any{"onoff": "state"},
		"equipment": []any{
			map[string]any{"name": "Left", "properties": map[string]any{"side": "l"}},
			map[string]any{"name": "Right", "equipment": []any{
				map[string]any{"name": "Bulb", "thing": map[string]any{"bridge": "hub1"}},
			}},
		},
	}
	want := deepCopyMap(doc)

	got, err := l.Merge(doc)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, want, doc, "input mutated")

	twice, err := l.Merge(got)
	require.NoError(t, err)
	assert.Equal(t, got, twice)
}

func TestMergeCountErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
	}{
		{"zero", map[string]any{"name": "x", "count": 0}},
		{"string", map[string]any{"name": "x", "count": "two"}},
		{"fraction", map[string]any{"name": "x", "count": 1.5}},
		{"with equipment", map[string]any{"name": "x", "count": 2, "equipment": []any{}}},
		{"negative float", map[string]any{"name": "x", "count": -3.0}},
		{"too large int", map[string]any{"name": "x", "count": 1 << 50}},
		{"too large int64", map[string]any{"name": "x", "count": int64(MaxCount + 1)}},
		{"too large uint64", map[string]any{"name": "x", "count": uint64(1) << 40}},
		{"too large float", map[string]any{"name": "x", "count": 1e12}},
		{"infinite", map[string]any{"name": "x", "count": math.Inf(1)}},
		{"not a number", map[string]any{"name": "x", "count": math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLibrary().Merge(tt.doc)
			assert.ErrorIs(t, err, model.ErrInvalidField)
			var cfgErr *model.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "want ConfigurationError, got %v", err)
		})
	}
}

func TestMergeRejectsMalformedChildren(t *testing.T) {
	_, err := NewLibrary().Merge(map[string]any{"name": "x", "equipment": "lamp"})
	assert.ErrorIs(t, err, model.ErrInvalidField)

	_, err = NewLibrary().Merge(map[string]any{"name": "x", "equipment": []any{"lamp"}})
	assert.ErrorIs(t, err, model.ErrInvalidField)
}
