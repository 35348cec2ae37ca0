package core

// surveydata.go provides SurveyData, the sparse property bag holding one
// snapshot's answers.
//
// Keys vary per survey definition, so answers cannot live in fixed struct
// fields. SurveyData keeps keys in first-insertion order, which the report
// header builder relies on when it discovers ad-hoc columns.

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SurveyData is an insertion-ordered mapping of field key to a string value
// or null. The zero value is ready to use.
type SurveyData struct {
	keys   []string
	values map[string]*string
}

// NewSurveyData returns an empty SurveyData.
func NewSurveyData() *SurveyData {
	return &SurveyData{values: make(map[string]*string)}
}

// SurveyDataOf builds a SurveyData from alternating key, value pairs.
// A trailing key without a value is stored as null.
func SurveyDataOf(pairs ...string) *SurveyData {
	d := NewSurveyData()
	for i := 0; i < len(pairs); i += 2 {
		if i+1 < len(pairs) {
			d.Put(pairs[i], pairs[i+1])
		} else {
			d.PutNull(pairs[i])
		}
	}
	return d
}

// Put sets key to value. A new key is appended; an existing key keeps its position.
func (d *SurveyData) Put(key, value string) {
	v := value
	d.set(key, &v)
}

// PutNull sets key to null. A null key is present but has no value.
func (d *SurveyData) PutNull(key string) {
	d.set(key, nil)
}

func (d *SurveyData) set(key string, value *string) {
	if d.values == nil {
		d.values = make(map[string]*string)
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value for key and whether the key is present.
// A present key with a null value returns (nil, true).
func (d *SurveyData) Get(key string) (*string, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// GetString returns the value for key, or "" when absent or null.
func (d *SurveyData) GetString(key string) string {
	if v, ok := d.Get(key); ok && v != nil {
		return *v
	}
	return ""
}

// Has reports whether key is present, null or not.
func (d *SurveyData) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Keys returns the keys in first-insertion order.
func (d *SurveyData) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of keys.
func (d *SurveyData) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Clone returns an independent copy.
func (d *SurveyData) Clone() *SurveyData {
	c := NewSurveyData()
	if d == nil {
		return c
	}
	for _, k := range d.keys {
		c.set(k, d.values[k])
	}
	return c
}

// MarshalJSON encodes the bag as a JSON object preserving key order.
func (d *SurveyData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if d != nil {
		for i, k := range d.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if v := d.values[k]; v != nil {
				vb, err := json.Marshal(*v)
				if err != nil {
					return nil, err
				}
				buf.Write(vb)
			} else {
				buf.WriteString("null")
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order.
// Strings are stored as-is, null as a null value, and any other JSON value
// (numbers, booleans, arrays, objects) as its compact JSON text.
func (d *SurveyData) UnmarshalJSON(data []byte) error {
	d.keys = nil
	d.values = make(map[string]*string)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("survey data: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("survey data: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("survey data: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("survey data: expected key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("survey data %q: %w", key, err)
		}

		switch {
		case bytes.Equal(raw, []byte("null")):
			d.PutNull(key)
		case len(raw) > 0 && raw[0] == '"':
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("survey data %q: %w", key, err)
			}
			d.Put(key, s)
		default:
			var compact bytes.Buffer
			if err := json.Compact(&compact, raw); err != nil {
				return fmt.Errorf("survey data %q: %w", key, err)
			}
			d.Put(key, compact.String())
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("survey data: %w", err)
	}
	return nil
}
