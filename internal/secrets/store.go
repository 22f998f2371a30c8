package secrets

import (
	"strings"
	"sync"
)

// Store resolves secrets for configuration entities and records the keys it
// could not resolve.
//
// Thread Safety: all methods are safe for concurrent use.
type Store struct {
	mu            sync.Mutex
	values        map[string]string
	missing       []string
	seen          map[string]struct{}
	structureOnly bool
}

// NewStore creates a store over the given key → value table.
// Keys are normalised to lower case; the map is copied.
func NewStore(values map[string]string) *Store {
	s := &Store{
		values: make(map[string]string, len(values)),
		seen:   make(map[string]struct{}),
	}
	for k, v := range values {
		s.values[normaliseKey(k)] = v
	}
	return s
}

// NewStructureOnlyStore creates a store for check-only runs. Every lookup
// returns a sentinel and nothing is recorded as missing.
func NewStructureOnlyStore() *Store {
	s := NewStore(nil)
	s.structureOnly = true
	return s
}

// Key builds the lookup key for a context, e.g.
// Key("zigbee", "lightbulb", "KitchenLamp", "apikey") == "zigbee_lightbulb_kitchenlamp_apikey".
func Key(segments ...string) string {
	return normaliseKey(strings.Join(segments, "_"))
}

// Sentinel returns the placeholder emitted for an unresolved key.
func Sentinel(key string) string {
	return "__" + strings.ToUpper(key) + "__"
}

// IsSentinel reports whether value looks like an unresolved-secret sentinel.
func IsSentinel(value string) bool {
	return len(value) > 4 && strings.HasPrefix(value, "__") && strings.HasSuffix(value, "__")
}

// Get resolves the secret for the given context segments.
//
// Parameters:
//   - segments: Context parts, typically binding, type, identifier and secret name
//
// Returns:
//   - string: The stored value, or Sentinel(key) when the key is absent or blank.
//     A missing key is recorded once; Get never fails.
func (s *Store) Get(segments ...string) string {
	key := Key(segments...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.values[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	if !s.structureOnly {
		if _, dup := s.seen[key]; !dup {
			s.seen[key] = struct{}{}
			s.missing = append(s.missing, key)
		}
	}
	return Sentinel(key)
}

// Missing returns the unresolved keys in first-request order.
func (s *Store) Missing() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.missing))
	copy(out, s.missing)
	return out
}

// Err returns a *MissingError if any lookup was unresolved, nil otherwise.
func (s *Store) Err() error {
	missing := s.Missing()
	if len(missing) == 0 {
		return nil
	}
	return &MissingError{Keys: missing}
}

// StructureOnly reports whether the store was created for a check-only run.
func (s *Store) StructureOnly() bool {
	return s.structureOnly
}

// Len returns the number of keys in the table, including blank ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

func normaliseKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
