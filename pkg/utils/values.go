package utils

import (
	"math"
	"reflect"
)

// nanKey groups every NaN primary key together.
type nanKey struct{}

// identityKey groups non-comparable values (maps, slices) by reference.
type identityKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// IsFalsy reports whether a value counts as "nothing to contribute":
// nil, a typed nil, false, numeric zero, NaN or the empty string.
func IsFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	}

	if f, ok := toFloat(v); ok {
		return f == 0 || math.IsNaN(f)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}

	return false
}

// IsObject reports whether a value is a composite (map, slice, array or struct)
// rather than a scalar.
func IsObject(v any) bool {
	if v == nil {
		return false
	}

	switch reflect.Indirect(reflect.ValueOf(v)).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	default:
		return false
	}
}

// StrictEqual compares two values the way a dedupe key is compared: numbers by
// value regardless of Go numeric type, other scalars by value, maps and slices
// by identity.
func StrictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if isNumber(a) || isNumber(b) {
		return numbersEqual(a, b)
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}

	switch ra.Kind() {
	case reflect.Map, reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}

	if !ra.Comparable() || !rb.Comparable() {
		return false
	}

	return a == b
}

// NormalizeKey converts a primary key value into a comparable map key so that
// equal keys coming from different sources (int64 from SQL, float64 from JSON)
// land in the same group.
func NormalizeKey(v any) any {
	if v == nil {
		return nil
	}

	if isNumber(v) {
		if i, ok := toInt64(v); ok {
			return i
		}
		if u, ok := v.(uint64); ok {
			return u
		}
		if u, ok := v.(uint); ok {
			return uint64(u)
		}
		f, _ := toFloat(v)
		if math.IsNaN(f) {
			return nanKey{}
		}
		return f
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		return identityKey{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}
	}

	if !rv.Comparable() {
		return identityKey{typ: rv.Type()}
	}

	return v
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

func numbersEqual(a, b any) bool {
	if !isNumber(a) || !isNumber(b) {
		return false
	}

	ai, aInt := toInt64(a)
	bi, bInt := toInt64(b)
	if aInt && bInt {
		return ai == bi
	}

	au, aUint := a.(uint64)
	bu, bUint := b.(uint64)
	if aUint && bUint {
		return au == bu
	}

	af, _ := toFloat(a)
	bf, _ := toFloat(b)
	return af == bf
}

// toInt64 converts integers, and floats holding an exact integer, to int64.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	default:
		return 0, false
	}
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
