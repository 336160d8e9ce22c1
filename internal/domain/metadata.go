package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MetadataKind enumerates the scalar kinds a metadata value may hold
type MetadataKind int

const (
	MetadataNull MetadataKind = iota
	MetadataString
	MetadataNumber
	MetadataBool
)

func (k MetadataKind) String() string {
	switch k {
	case MetadataString:
		return "string"
	case MetadataNumber:
		return "number"
	case MetadataBool:
		return "bool"
	default:
		return "null"
	}
}

// MetadataValue is a closed union of string, number, bool and null.
// The zero value is null.
type MetadataValue struct {
	kind MetadataKind
	str  string
	num  float64
	b    bool
}

// StringValue returns a string metadata value
func StringValue(s string) MetadataValue {
	return MetadataValue{kind: MetadataString, str: s}
}

// OptionalString returns a string value, or null when s is empty
func OptionalString(s string) MetadataValue {
	if s == "" {
		return NullValue()
	}
	return StringValue(s)
}

// NumberValue returns a numeric metadata value
func NumberValue(n float64) MetadataValue {
	return MetadataValue{kind: MetadataNumber, num: n}
}

// BoolValue returns a boolean metadata value
func BoolValue(b bool) MetadataValue {
	return MetadataValue{kind: MetadataBool, b: b}
}

// NullValue returns the null metadata value
func NullValue() MetadataValue {
	return MetadataValue{}
}

// MetadataValueOf converts a decoded scalar into a MetadataValue.
// Composite values (maps, slices) are rejected.
func MetadataValueOf(v interface{}) (MetadataValue, error) {
	switch t := v.(type) {
	case nil:
		return NullValue(), nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case float64:
		return NumberValue(t), nil
	case float32:
		return NumberValue(float64(t)), nil
	case int:
		return NumberValue(float64(t)), nil
	case int32:
		return NumberValue(float64(t)), nil
	case int64:
		return NumberValue(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return NullValue(), fmt.Errorf("invalid metadata number %q: %w", t, err)
		}
		return NumberValue(f), nil
	default:
		return NullValue(), fmt.Errorf("unsupported metadata value of type %T", v)
	}
}

func (v MetadataValue) Kind() MetadataKind { return v.kind }

func (v MetadataValue) IsNull() bool { return v.kind == MetadataNull }

// Str returns the string payload and whether the value is a string
func (v MetadataValue) Str() (string, bool) { return v.str, v.kind == MetadataString }

// Number returns the numeric payload and whether the value is a number
func (v MetadataValue) Number() (float64, bool) { return v.num, v.kind == MetadataNumber }

// Bool returns the boolean payload and whether the value is a bool
func (v MetadataValue) Bool() (bool, bool) { return v.b, v.kind == MetadataBool }

// Interface returns the value as a plain Go scalar (string, float64, bool or nil)
func (v MetadataValue) Interface() interface{} {
	switch v.kind {
	case MetadataString:
		return v.str
	case MetadataNumber:
		return v.num
	case MetadataBool:
		return v.b
	default:
		return nil
	}
}

// Equal reports whether both values hold the same kind and payload
func (v MetadataValue) Equal(o MetadataValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case MetadataString:
		return v.str == o.str
	case MetadataNumber:
		return v.num == o.num
	case MetadataBool:
		return v.b == o.b
	default:
		return true
	}
}

func (v MetadataValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *MetadataValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	parsed, err := MetadataValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Metadata holds platform specific account attributes
type Metadata map[string]MetadataValue

// Clone returns a copy of the mapping; nil stays nil
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	c := make(Metadata, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// ToMap converts the metadata to plain scalars for storage drivers
func (m Metadata) ToMap() map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v.Interface()
	}
	return out
}

// MetadataFromMap builds metadata from plain scalars
func MetadataFromMap(raw map[string]interface{}) (Metadata, error) {
	if raw == nil {
		return nil, nil
	}
	m := make(Metadata, len(raw))
	for k, v := range raw {
		mv, err := MetadataValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("metadata key %q: %w", k, err)
		}
		m[k] = mv
	}
	return m, nil
}
