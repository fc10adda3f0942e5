package template

import (
	"strconv"
	"strings"
)

// Resolve walks a dotted path against a context value. Each segment indexes
// the current value: mapping by key, sequence by non-negative integer.
// Resolution failure is a value, not an error, so defaults and truthiness
// compose without exception handling: a missing key, a bad or out-of-range
// index, or a scalar with segments left all yield MissingValue.
func Resolve(v Value, path string) Value {
	if v == nil || path == "" {
		return MissingValue{}
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch t := cur.(type) {
		case MappingValue:
			next, ok := t[seg]
			if !ok {
				return MissingValue{}
			}
			cur = next
		case SequenceValue:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(t) {
				return MissingValue{}
			}
			cur = t[idx]
		default:
			return MissingValue{}
		}
	}
	return cur
}

// Truthy reports the truthiness of v under the engine's rules: missing,
// null, empty string, numeric zero, and empty mapping/sequence are falsy.
func Truthy(v Value) bool {
	if v == nil {
		return false
	}
	return v.Truth()
}
