// Package settings provides the flat key->value settings map filters are configured with, the property
// descriptors that describe and constrain those settings, and YAML persistence.
package settings

import (
	"maps"
	"slices"
	"sync"
)

// Settings is a flat key->value mapping with a separate layer of defaults. A key that was never set
// reads its default; a key with no default reads the zero value.
type Settings struct {
	mu       *sync.RWMutex
	values   map[string]any
	defaults map[string]any
}

// New creates an empty Settings.
//
// Returns:
//   - *Settings: the empty settings
func New() *Settings {
	return &Settings{
		mu:       &sync.RWMutex{},
		values:   make(map[string]any),
		defaults: make(map[string]any),
	}
}

// FromMap creates Settings whose values are copied from m.
//
// Parameters:
//   - m: the initial values
//
// Returns:
//   - *Settings: the populated settings
func FromMap(m map[string]any) *Settings {
	s := New()
	for k, v := range m {
		s.values[k] = normalize(v)
	}
	return s
}

func (s *Settings) lookup(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[name]; ok {
		return v, true
	}
	v, ok := s.defaults[name]
	return v, ok
}

// Int returns the named value as an integer. Floats are truncated.
func (s *Settings) Int(name string) int64 {
	v, _ := s.lookup(name)
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

// Double returns the named value as a float.
func (s *Settings) Double(name string) float64 {
	v, _ := s.lookup(name)
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

// Bool returns the named value as a bool.
func (s *Settings) Bool(name string) bool {
	v, _ := s.lookup(name)
	switch n := v.(type) {
	case bool:
		return n
	case int64:
		return n != 0
	}
	return false
}

// String returns the named value as a string.
func (s *Settings) String(name string) string {
	v, _ := s.lookup(name)
	str, _ := v.(string)
	return str
}

// Has reports whether the key has an explicit value (defaults are not counted).
func (s *Settings) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[name]
	return ok
}

func (s *Settings) set(layer map[string]any, name string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	layer[name] = v
}

func (s *Settings) SetInt(name string, v int64)      { s.set(s.values, name, v) }
func (s *Settings) SetDouble(name string, v float64) { s.set(s.values, name, v) }
func (s *Settings) SetBool(name string, v bool)      { s.set(s.values, name, v) }
func (s *Settings) SetString(name string, v string)  { s.set(s.values, name, v) }

func (s *Settings) SetDefaultInt(name string, v int64)      { s.set(s.defaults, name, v) }
func (s *Settings) SetDefaultDouble(name string, v float64) { s.set(s.defaults, name, v) }
func (s *Settings) SetDefaultBool(name string, v bool)      { s.set(s.defaults, name, v) }

// Erase removes an explicit value so the key reads its default again.
func (s *Settings) Erase(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, name)
}

// Keys returns the sorted explicit keys.
func (s *Settings) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values))
}

// Values returns a copy of the explicit values.
func (s *Settings) Values() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Clone returns a deep copy of both layers.
func (s *Settings) Clone() *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Settings{
		mu:       &sync.RWMutex{},
		values:   maps.Clone(s.values),
		defaults: maps.Clone(s.defaults),
	}
}

// Apply copies every explicit value of other over s.
//
// Parameters:
//   - other: the settings to copy from
func (s *Settings) Apply(other *Settings) {
	vals := other.Values()
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.values, vals)
}

// normalize folds the numeric types produced by decoders and callers into int64 and float64.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return float64(n)
	}
	return v
}
