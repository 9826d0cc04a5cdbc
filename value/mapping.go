package value

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Value
}

// Mapping is an ordered set of text keys to values. Keys keep the position
// of their first insertion; setting an existing key replaces its value only.
// The zero Mapping is empty and ready to use.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

// NewMapping returns a Mapping holding the given entries in order.
func NewMapping(entries ...Entry) *Mapping {
	m := &Mapping{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Set stores v under key.
func (m *Mapping) Set(key string, v Value) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = v
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: v})
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the keys in order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// At returns the i-th entry.
func (m *Mapping) At(i int) Entry { return m.entries[i] }

// Range calls fn for each entry in order until fn returns false.
func (m *Mapping) Range(fn func(key string, v Value) bool) {
	if m == nil {
		return
	}
	for _, e := range m.entries {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// Equal reports whether m and o hold equal entries in the same order.
func (m *Mapping) Equal(o *Mapping) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i := 0; i < m.Len(); i++ {
		a, b := m.entries[i], o.entries[i]
		if a.Key != b.Key || !Equal(a.Value, b.Value) {
			return false
		}
	}
	return true
}
