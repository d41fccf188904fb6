package answers

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Store maps question keys to the values submitted for them.
type Store struct {
	values map[string]any
}

// New builds a store from the supplied values. The map is copied.
func New(values map[string]any) Store {
	if len(values) == 0 {
		return Store{}
	}
	out := make(map[string]any, len(values))
	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = value
	}
	return Store{values: out}
}

// Len reports the number of present keys.
func (s Store) Len() int {
	return len(s.values)
}

// Lookup returns the raw value stored under key.
func (s Store) Lookup(key string) (any, bool) {
	if s.values == nil {
		return nil, false
	}
	value, ok := s.values[key]
	return value, ok
}

// Present reports whether key exists, even when its value is empty.
func (s Store) Present(key string) bool {
	_, ok := s.Lookup(key)
	return ok
}

// Has reports whether key exists and holds a non-empty value.
func (s Store) Has(key string) bool {
	value, ok := s.Lookup(key)
	if !ok {
		return false
	}
	return filled(value)
}

// HasAny reports whether any of the keys holds a non-empty value.
func (s Store) HasAny(keys ...string) bool {
	for _, key := range keys {
		if s.Has(key) {
			return true
		}
	}
	return false
}

// Keys returns the present keys in lexical order.
func (s Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the underlying values.
func (s Store) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out
}

// With returns a copy of the store with key set to value.
func (s Store) With(key string, value any) Store {
	out := s.Map()
	out[key] = value
	return Store{values: out}
}

// Without returns a copy of the store with the keys removed.
func (s Store) Without(keys ...string) Store {
	if len(keys) == 0 || len(s.values) == 0 {
		return s
	}
	out := s.Map()
	for _, key := range keys {
		delete(out, key)
	}
	return Store{values: out}
}

// WithoutPrefix returns a copy of the store without any key that starts with
// one of the prefixes.
func (s Store) WithoutPrefix(prefixes ...string) Store {
	if len(prefixes) == 0 || len(s.values) == 0 {
		return s
	}
	out := make(map[string]any, len(s.values))
	for key, value := range s.values {
		if hasAnyPrefix(key, prefixes) {
			continue
		}
		out[key] = value
	}
	return Store{values: out}
}

// Only returns a copy holding just the keys that match one of the prefixes.
func (s Store) Only(prefixes ...string) Store {
	out := make(map[string]any)
	for key, value := range s.values {
		if hasAnyPrefix(key, prefixes) {
			out[key] = value
		}
	}
	return Store{values: out}
}

// Merge returns a copy of s overlaid with other. Keys in other win.
func (s Store) Merge(other Store) Store {
	out := s.Map()
	for key, value := range other.values {
		out[key] = value
	}
	return Store{values: out}
}

// Equal reports whether both stores hold the same keys with equal printed
// values.
func (s Store) Equal(other Store) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for key, value := range s.values {
		otherValue, ok := other.values[key]
		if !ok {
			return false
		}
		if fmt.Sprint(value) != fmt.Sprint(otherValue) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the store as a flat JSON object.
func (s Store) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.values)
}

// UnmarshalJSON decodes a flat JSON object into the store.
func (s *Store) UnmarshalJSON(data []byte) error {
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("answers: decode json: %w", err)
	}
	*s = New(values)
	return nil
}

func hasAnyPrefix(key string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func filled(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
