package model

import (
	"fmt"
	"sort"
	"strings"
)

// Fixed placeholder keys. Secret names declared by a node are added on top.
const (
	PlaceholderName       = "name"
	PlaceholderType       = "type"
	PlaceholderIdentifier = "identifier"
	PlaceholderBinding    = "binding"
	PlaceholderBridgeUID  = "bridgeuid"
	PlaceholderThingType  = "thingtype"
	PlaceholderThingUID   = "thinguid"
)

// DefaultThingUIDPattern is used when a thing declares no thinguid.
const DefaultThingUIDPattern = "{" + PlaceholderIdentifier + "}"

var fixedPlaceholders = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, k := range []string{
		PlaceholderName, PlaceholderType, PlaceholderIdentifier, PlaceholderBinding,
		PlaceholderBridgeUID, PlaceholderThingType, PlaceholderThingUID,
	} {
		m[k] = struct{}{}
	}
	return m
}()

// IsReservedPlaceholder reports whether key is one of the fixed placeholder keys.
func IsReservedPlaceholder(key string) bool {
	_, ok := fixedPlaceholders[key]
	return ok
}

// Replacements is the placeholder context of a node.
type Replacements struct {
	Name       string
	Type       string
	Identifier string
	Binding    string
	BridgeUID  string
	ThingType  string
	ThingUID   string
	Secrets    map[string]string // secret name → resolved value or sentinel
}

// Lookup returns the value for a placeholder key.
func (r Replacements) Lookup(key string) (string, bool) {
	switch key {
	case PlaceholderName:
		return r.Name, true
	case PlaceholderType:
		return r.Type, true
	case PlaceholderIdentifier:
		return r.Identifier, true
	case PlaceholderBinding:
		return r.Binding, true
	case PlaceholderBridgeUID:
		return r.BridgeUID, true
	case PlaceholderThingType:
		return r.ThingType, true
	case PlaceholderThingUID:
		return r.ThingUID, true
	}
	v, ok := r.Secrets[key]
	return v, ok
}

// Map flattens the context into key → value.
func (r Replacements) Map() map[string]string {
	m := map[string]string{
		PlaceholderName:       r.Name,
		PlaceholderType:       r.Type,
		PlaceholderIdentifier: r.Identifier,
		PlaceholderBinding:    r.Binding,
		PlaceholderBridgeUID:  r.BridgeUID,
		PlaceholderThingType:  r.ThingType,
		PlaceholderThingUID:   r.ThingUID,
	}
	for k, v := range r.Secrets {
		m[k] = v
	}
	return m
}

// Keys returns every key Lookup accepts, sorted.
func (r Replacements) Keys() []string {
	keys := make([]string, 0, len(fixedPlaceholders)+len(r.Secrets))
	for k := range fixedPlaceholders {
		keys = append(keys, k)
	}
	for k := range r.Secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Render substitutes every {key} in pattern.
//
// Returns:
//   - string: The rendered pattern
//   - error: ErrUnknownPlaceholder or ErrMalformedPattern
func (r Replacements) Render(pattern string) (string, error) {
	var b strings.Builder
	rest := pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated placeholder in %q", ErrMalformedPattern, pattern)
		}
		key := rest[open+1 : open+end]
		if key == "" {
			return "", fmt.Errorf("%w: empty placeholder in %q", ErrMalformedPattern, pattern)
		}
		v, ok := r.Lookup(key)
		if !ok {
			return "", fmt.Errorf("%w: {%s}", ErrUnknownPlaceholder, key)
		}
		b.WriteString(rest[:open])
		b.WriteString(v)
		rest = rest[open+end+1:]
	}
}

// References reports whether pattern contains the placeholder {key}.
func References(pattern, key string) bool {
	return strings.Contains(pattern, "{"+key+"}")
}
