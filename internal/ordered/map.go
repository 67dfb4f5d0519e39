// Package ordered provides a string-keyed map that remembers insertion
// order and round-trips through JSON without reordering keys.
package ordered

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Map is an insertion-ordered string-keyed map.
//
// The zero value is not usable; create instances with New.
type Map struct {
	keys   []string
	values map[string]any
}

// New creates an empty Map.
func New() *Map {
	return &Map{values: make(map[string]any)}
}

// Set stores value under key. Setting an existing key replaces its
// value but keeps its original position.
func (m *Map) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// GetString returns the value for key as a string, or "" if the key is
// absent or not a string.
func (m *Map) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

// Len returns the number of keys.
func (m *Map) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Sorted returns a deep copy of the map with keys in lexicographic
// order, recursing into nested maps. Sorted output is a caller option;
// insertion order is the default.
func (m *Map) Sorted() *Map {
	out := New()
	keys := m.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		out.Set(k, sortValue(m.values[k]))
	}
	return out
}

func sortValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Sorted()
	case []any:
		arr := make([]any, len(t))
		for i, e := range t {
			arr[i] = sortValue(e)
		}
		return arr
	default:
		return v
	}
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshaling key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving the key order found
// in the input. Nested objects decode to *Map, arrays to []any, and
// numbers to json.Number so no precision is lost.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	m.keys = nil
	m.values = make(map[string]any)
	return m.decodeObject(dec)
}

func (m *Map) decodeObject(dec *json.Decoder) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return fmt.Errorf("decoding key %q: %w", key, err)
		}
		m.Set(key, val)
	}
	// Consume the closing '}'.
	_, err := dec.Token()
	return err
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			child := New()
			if err := child.decodeObject(dec); err != nil {
				return nil, err
			}
			return child, nil
		case '[':
			var arr []any
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	default:
		return tok, nil
	}
}
