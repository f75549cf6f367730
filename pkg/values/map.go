package values

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Map associates field names with their current value. Callers treat it as
// immutable: With and Without return modified copies.
type Map map[string]Value

// Clone returns a shallow copy; Selection entries are copied as well.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		if sel, ok := v.(Selection); ok {
			cp := make(Selection, len(sel))
			copy(cp, sel)
			v = cp
		}
		out[k] = v
	}
	return out
}

// With returns a copy of m with name set to v.
func (m Map) With(name string, v Value) Map {
	out := m.Clone()
	out[name] = v
	return out
}

// Get returns the value stored under name, or nil.
func (m Map) Get(name string) Value {
	if m == nil {
		return nil
	}
	return m[name]
}

// Keys returns the stored names sorted.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Plain converts the map into JSON-friendly Go values.
func (m Map) Plain() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case Text:
			out[k] = string(val)
		case Number:
			out[k] = float64(val)
		case Selection:
			out[k] = append([]string{}, val...)
		}
	}
	return out
}

// MarshalJSON encodes Text as strings, Number as numbers and Selection as
// string arrays.
func (m Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Plain())
}

// UnmarshalJSON decodes a stored map. Entries whose JSON shape has no
// matching Value (booleans, objects, null, mixed arrays) are skipped.
func (m *Map) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Map, len(raw))
	for k, msg := range raw {
		if v, ok := decodeValue(msg); ok {
			out[k] = v
		}
	}
	*m = out
	return nil
}

func decodeValue(msg json.RawMessage) (Value, bool) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 {
		return nil, false
	}
	switch msg[0] {
	case '"':
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, false
		}
		return Text(s), true
	case '[':
		var items []string
		if err := json.Unmarshal(msg, &items); err != nil {
			return nil, false
		}
		return Selection(items), true
	case 'n', 't', 'f', '{':
		return nil, false
	default:
		var n float64
		if err := json.Unmarshal(msg, &n); err != nil {
			return nil, false
		}
		return Number(n), true
	}
}

// Parse decodes a JSON-serialised map.
func Parse(data []byte) (Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("values: parse map: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("values: parse map: not an object")
	}
	return m, nil
}
