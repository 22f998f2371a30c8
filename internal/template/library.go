package template

import (
	"fmt"

	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

// Reserved document keys.
const (
	KeyTemplate   = "template"
	KeyEquipment  = "equipment"
	KeyCount      = "count"
	KeyName       = "name"
	KeyIdentifier = "identifier"
	KeyTyped      = "typed"
)

// Library is a name → template registry.
type Library struct {
	docs  map[string]map[string]any
	order []string
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{docs: make(map[string]map[string]any)}
}

// Add registers a template under name. The document is copied.
//
// Returns:
//   - error: *model.ConfigurationError for an empty or duplicate name
func (l *Library) Add(name string, doc map[string]any) error {
	if name == "" {
		return model.NewConfigurationError(model.KindTemplate, name, KeyName, model.ErrMissingField)
	}
	if _, exists := l.docs[name]; exists {
		return model.NewConfigurationError(model.KindTemplate, name, "",
			fmt.Errorf("%w: template declared twice", model.ErrDuplicateIdentifier))
	}
	l.docs[name] = deepCopyMap(doc)
	l.order = append(l.order, name)
	return nil
}

// Has reports whether a template is registered under name.
func (l *Library) Has(name string) bool {
	_, ok := l.docs[name]
	return ok
}

// Names returns the template names in registration order.
func (l *Library) Names() []string {
	return append([]string(nil), l.order...)
}

// Len returns the number of templates.
func (l *Library) Len() int {
	return len(l.docs)
}

// Resolve returns a deep copy of the named template with its inheritance
// chain applied.
func (l *Library) Resolve(name string) (map[string]any, error) {
	return l.resolve(name, make(map[string]bool))
}

// Validate resolves every template, reporting the first unknown parent or cycle.
func (l *Library) Validate() error {
	for _, name := range l.order {
		if _, err := l.Resolve(name); err != nil {
			return err
		}
	}
	return nil
}

func (l *Library) resolve(name string, visiting map[string]bool) (map[string]any, error) {
	doc, ok := l.docs[name]
	if !ok {
		return nil, model.NewConfigurationError(model.KindTemplate, name, "",
			fmt.Errorf("%w: %q", model.ErrUnknownTemplate, name))
	}
	if visiting[name] {
		return nil, model.NewConfigurationError(model.KindTemplate, name, KeyTemplate,
			fmt.Errorf("%w: %q", model.ErrTemplateCycle, name))
	}
	visiting[name] = true
	defer delete(visiting, name)

	out := deepCopyMap(doc)
	parentName, has, err := templateRef(out)
	if err != nil {
		return nil, model.NewConfigurationError(model.KindTemplate, name, KeyTemplate, err)
	}
	if !has {
		return out, nil
	}
	delete(out, KeyTemplate)

	parent, err := l.resolve(parentName, visiting)
	if err != nil {
		return nil, err
	}
	return mergeMaps(parent, out), nil
}

// templateRef extracts the "template" key of a document.
func templateRef(doc map[string]any) (string, bool, error) {
	raw, ok := doc[KeyTemplate]
	if !ok || raw == nil {
		return "", false, nil
	}
	name, ok := raw.(string)
	if !ok || name == "" {
		return "", false, fmt.Errorf("%w: template must be a non-empty string", model.ErrInvalidField)
	}
	return name, true, nil
}
