package frontmatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Map is an ordered string-keyed mapping of frontmatter values. Keys are case-sensitive;
// lookup ignores order but Keys and JSON encoding list entries in insertion order.
// Values are string, int64, float64, bool, nil, or []any of those.
//
// A nil *Map is valid and empty.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Set stores value under key. Re-setting an existing key keeps its original position.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// String returns the value for key if it is a string.
func (m *Map) String(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// MarshalJSON encodes the map as a JSON object preserving key order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("frontmatter key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Tags returns the "tags" entry normalized to a list. Arrays are taken element-wise; a scalar
// string such as "[go, mcp]" or "go, mcp" is unbracketed and split on commas; other scalars are
// formatted with %v. Empty entries are dropped.
func (m *Map) Tags() []string {
	v, ok := m.Get("tags")
	if !ok || v == nil {
		return nil
	}
	var raw []string
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			if e != nil {
				raw = append(raw, fmt.Sprint(e))
			}
		}
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		raw = strings.Split(s, ",")
	default:
		raw = []string{fmt.Sprint(t)}
	}
	tags := make([]string, 0, len(raw))
	for _, r := range raw {
		r = unquote(strings.TrimSpace(r))
		if r != "" {
			tags = append(tags, r)
		}
	}
	return tags
}

// UnmarshalJSON decodes a JSON object, keeping key order. Integral numbers become int64.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("frontmatter: expected JSON object, got %v", tok)
	}
	*m = Map{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("frontmatter key %q: %w", key, err)
		}
		m.Set(key, fromJSON(v))
	}
	_, err = dec.Token()
	return err
}

func fromJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = fromJSON(t[i])
		}
		return t
	}
	return v
}
