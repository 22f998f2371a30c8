package inventory

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

// Decode strictly decodes a (merged) raw document into out. Keys that do
// not correspond to a field of out are rejected.
func Decode(doc map[string]any, out any) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidDocument, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidDocument, err)
	}
	return nil
}
