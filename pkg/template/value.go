package template

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Value is the context model: a recursive variant of scalars, mappings and
// sequences. It defines string conversion and truthiness semantics.
type Value interface {
	String() string
	Truth() bool
}

// MissingValue is the sentinel returned when path resolution fails. It is
// distinct from NullValue so the renderer can tell "key absent" apart from
// "key present with null". Both are falsy and render as empty text.
type MissingValue struct{}

func (MissingValue) String() string { return "" }
func (MissingValue) Truth() bool    { return false }

// IsMissing reports whether v is the resolution-failure sentinel.
func IsMissing(v Value) bool {
	_, ok := v.(MissingValue)
	return v == nil || ok
}

// NullValue represents an explicit null in the context.
type NullValue struct{}

func (NullValue) String() string { return "" }
func (NullValue) Truth() bool    { return false }

// StringValue wraps a string scalar.
type StringValue string

func (s StringValue) String() string { return string(s) }
func (s StringValue) Truth() bool    { return len(s) > 0 }

// IntValue wraps an integer scalar (64-bit).
type IntValue int64

func (i IntValue) String() string { return fmt.Sprintf("%d", int64(i)) }
func (i IntValue) Truth() bool    { return int64(i) != 0 }

// FloatValue wraps a float scalar (64-bit).
type FloatValue float64

func (f FloatValue) String() string { return fmt.Sprintf("%v", float64(f)) }
func (f FloatValue) Truth() bool    { return float64(f) != 0 }

// BoolValue wraps a boolean scalar.
type BoolValue bool

func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b BoolValue) Truth() bool { return bool(b) }

// SequenceValue wraps an ordered list of values.
type SequenceValue []Value

func (l SequenceValue) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
func (l SequenceValue) Truth() bool { return len(l) > 0 }

// MappingValue wraps a string-keyed mapping of values. Insertion order is
// not preserved and is never observable through the engine.
type MappingValue map[string]Value

func (d MappingValue) String() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "{" + strings.Join(keys, " ") + "}"
}
func (d MappingValue) Truth() bool { return len(d) > 0 }

// FromGo converts a Go value into the engine's Value model. It handles the
// shapes produced by YAML decoding (map[string]any, []any, scalars) directly
// and falls back to reflection for other slices, maps, and pointers.
func FromGo(v any) Value {
	if v == nil {
		return NullValue{}
	}
	switch t := v.(type) {
	case Value:
		return t
	case string:
		return StringValue(t)
	case bool:
		return BoolValue(t)
	case int:
		return IntValue(int64(t))
	case int32:
		return IntValue(int64(t))
	case int64:
		return IntValue(t)
	case uint64:
		return IntValue(int64(t))
	case float32:
		return FloatValue(float64(t))
	case float64:
		return FloatValue(t)
	case []byte:
		return StringValue(string(t))
	case []any:
		out := make(SequenceValue, 0, len(t))
		for _, item := range t {
			out = append(out, FromGo(item))
		}
		return out
	case map[string]any:
		out := make(MappingValue, len(t))
		for k, item := range t {
			out[k] = FromGo(item)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		out := make(SequenceValue, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, FromGo(rv.Index(i).Interface()))
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			out := MappingValue{}
			it := rv.MapRange()
			for it.Next() {
				out[it.Key().String()] = FromGo(it.Value().Interface())
			}
			return out
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NullValue{}
		}
		return FromGo(rv.Elem().Interface())
	}
	return StringValue(fmt.Sprintf("%v", v))
}
