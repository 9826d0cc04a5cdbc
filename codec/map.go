package codec

import (
	"reflect"

	"github.com/kootenpv/dumps"
)

var _ dumps.OrderedMapping = (*Map)(nil)

// Map is a decoded mapping that keeps document order. Keys are whatever the
// source format allows (text, numbers, bools, nil, sequences). Setting an
// existing key replaces its value in place.
type Map struct {
	keys  []any
	vals  []any
	index map[any]int
}

// Set adds or replaces k.
func (m *Map) Set(k, v any) {
	if hashable(k) {
		if i, ok := m.index[k]; ok {
			m.vals[i] = v
			return
		}
		if m.index == nil {
			m.index = make(map[any]int)
		}
		m.index[k] = len(m.keys)
	}
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
}

// Get returns the value stored under k.
func (m *Map) Get(k any) (any, bool) {
	if !hashable(k) {
		return nil, false
	}
	i, ok := m.index[k]
	if !ok {
		return nil, false
	}
	return m.vals[i], true
}

func (m *Map) Len() int          { return len(m.keys) }
func (m *Map) KeyAt(i int) any   { return m.keys[i] }
func (m *Map) ValueAt(i int) any { return m.vals[i] }

func hashable(k any) bool {
	if k == nil {
		return true
	}
	t := reflect.TypeOf(k)
	switch t.Kind() {
	case reflect.Array, reflect.Struct, reflect.Interface:
		return false
	}
	return t.Comparable()
}
