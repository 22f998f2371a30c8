package template

import (
	"fmt"
	"math"
	"strconv"

	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

// Merge applies the template named by cfg (if any), expands "count" and
// recurses into child "equipment" documents. cfg is not modified.
//
// Returns:
//   - map[string]any: The merged document without a "template" key
//   - error: *model.ConfigurationError for unknown templates, cycles or
//     malformed template, count or equipment keys
func (l *Library) Merge(cfg map[string]any) (map[string]any, error) {
	out := deepCopyMap(cfg)
	node := nodeName(out)

	name, has, err := templateRef(out)
	if err != nil {
		return nil, model.NewConfigurationError(model.KindEquipment, node, KeyTemplate, err)
	}
	if has {
		delete(out, KeyTemplate)
		if !l.Has(name) {
			return nil, model.NewConfigurationError(model.KindEquipment, node, KeyTemplate,
				fmt.Errorf("%w: %q", model.ErrUnknownTemplate, name))
		}
		base, err := l.Resolve(name)
		if err != nil {
			return nil, err
		}
		out = mergeMaps(base, out)
	}

	if _, ok := out[KeyCount]; ok {
		out, err = expandCount(out)
		if err != nil {
			return nil, err
		}
	}

	raw, ok := out[KeyEquipment]
	if !ok || raw == nil {
		return out, nil
	}
	children, ok := raw.([]any)
	if !ok {
		return nil, model.NewConfigurationError(model.KindEquipment, node, KeyEquipment,
			fmt.Errorf("%w: equipment must be a list", model.ErrInvalidField))
	}
	merged := make([]any, 0, len(children))
	for i, c := range children {
		child, ok := c.(map[string]any)
		if !ok {
			return nil, model.NewConfigurationError(model.KindEquipment, node, fmt.Sprintf("%s[%d]", KeyEquipment, i),
				fmt.Errorf("%w: equipment entries must be mappings", model.ErrInvalidField))
		}
		m, err := l.Merge(child)
		if err != nil {
			return nil, err
		}
		merged = append(merged, m)
	}
	out[KeyEquipment] = merged
	return out, nil
}

// expandCount turns a document with "count: N" into a group of N copies.
func expandCount(doc map[string]any) (map[string]any, error) {
	node := nodeName(doc)
	n, err := toCount(doc[KeyCount])
	if err != nil {
		return nil, model.NewConfigurationError(model.KindEquipment, node, KeyCount, err)
	}
	if _, has := doc[KeyEquipment]; has {
		return nil, model.NewConfigurationError(model.KindEquipment, node, KeyCount,
			fmt.Errorf("%w: count cannot be combined with an equipment list", model.ErrInvalidField))
	}

	group := make(map[string]any, 4)
	for _, k := range []string{KeyName, KeyIdentifier, KeyTyped} {
		if v, ok := doc[k]; ok {
			group[k] = v
		}
	}

	proto := deepCopyMap(doc)
	delete(proto, KeyName)
	delete(proto, KeyIdentifier)
	delete(proto, KeyCount)

	children := make([]any, n)
	for i := 0; i < n; i++ {
		child := deepCopyMap(proto)
		child[KeyName] = strconv.Itoa(i + 1)
		children[i] = child
	}
	group[KeyEquipment] = children
	return group, nil
}

// MaxCount is the largest number of copies a "count" key may expand into.
const MaxCount = 1000

func toCount(v any) (int, error) {
	var n int64
	switch c := v.(type) {
	case int:
		n = int64(c)
	case int64:
		n = c
	case uint64:
		if c > MaxCount {
			return 0, fmt.Errorf("%w: count %d exceeds %d", model.ErrInvalidField, c, MaxCount)
		}
		n = int64(c)
	case float64:
		if c != math.Trunc(c) {
			return 0, fmt.Errorf("%w: count must be an integer", model.ErrInvalidField)
		}
		if c > MaxCount {
			return 0, fmt.Errorf("%w: count %g exceeds %d", model.ErrInvalidField, c, MaxCount)
		}
		if c < 1 {
			return 0, fmt.Errorf("%w: count must be at least 1", model.ErrInvalidField)
		}
		n = int64(c)
	default:
		return 0, fmt.Errorf("%w: count must be an integer", model.ErrInvalidField)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: count must be at least 1", model.ErrInvalidField)
	}
	if n > MaxCount {
		return 0, fmt.Errorf("%w: count %d exceeds %d", model.ErrInvalidField, n, MaxCount)
	}
	return int(n), nil
}

func nodeName(doc map[string]any) string {
	if s, ok := doc[KeyName].(string); ok {
		return s
	}
	return ""
}

// mergeMaps returns base overlaid with over. Nested mappings are merged key
// by key; every other value from over replaces the base value.
func mergeMaps(base, over map[string]any) map[string]any {
	out := deepCopyMap(base)
	if out == nil {
		out = make(map[string]any, len(over))
	}
	for k, v := range over {
		bm, baseIsMap := out[k].(map[string]any)
		om, overIsMap := v.(map[string]any)
		if baseIsMap && overIsMap {
			out[k] = mergeMaps(bm, om)
			continue
		}
		out[k] = deepCopyValue(v)
	}
	return out
}

// deepCopyMap creates a deep copy of a map[string]any.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cpy := make(map[string]any, len(m))
	for k, v := range m {
		cpy[k] = deepCopyValue(v)
	}
	return cpy
}

// deepCopyValue recursively copies nested maps and slices.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		cpy := make([]any, len(val))
		for i, elem := range val {
			cpy[i] = deepCopyValue(elem)
		}
		return cpy
	default:
		return v
	}
}
