package ctxlogger

import (
	"maps"
	"slices"
)

// Fields maps a field name to its value. Values may be strings, numbers,
// booleans, times, durations, errors, byte slices, nested Fields (or
// map[string]any) and anything else JSON can encode.
type Fields map[string]any

// Clone returns a shallow copy, or nil when f is empty.
func (f Fields) Clone() Fields {
	if len(f) == 0 {
		return nil
	}
	return maps.Clone(f)
}

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	return slices.Sorted(maps.Keys(f))
}

// mergeFields allocates a fresh map holding base overlaid by top, so a key
// present in both takes the value from top. Neither input is modified.
// Returns nil when both are empty.
func mergeFields(base, top Fields) Fields {
	if len(base) == 0 && len(top) == 0 {
		return nil
	}
	merged := make(Fields, len(base)+len(top))
	maps.Copy(merged, base)
	maps.Copy(merged, top)
	return merged
}

// StackRequested reports whether a StackInfoKey value asks for the current
// stack: true, a non-empty string or a non-zero integer. Backends share this
// rule.
func StackRequested(val any) bool {
	switch v := val.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != emptyString
	case int:
		return v != 0
	case int64:
		return v != 0
	default:
		return true
	}
}
