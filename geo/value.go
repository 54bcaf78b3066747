package geo

import (
	"math"
	"reflect"
	"strconv"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

const (
	KindNull   ValueKind = iota // KindNull is an absent or JSON null value.
	KindString                  // KindString is a UTF-8 string.
	KindBool                    // KindBool is a boolean.
	KindDouble                  // KindDouble is a non-integral number.
	KindInt                     // KindInt is a negative integer.
	KindUint                    // KindUint is a non-negative integer.
	KindJSON                    // KindJSON is a structured value (object or array).
)

// maxExactInt is the largest magnitude a float64 holds without losing integer precision.
const maxExactInt = 1 << 53

// Value is a property value. The zero Value is null.
//
// Numbers are normalized on construction: integral numbers become KindInt or
// KindUint depending on sign, everything else is KindDouble. This mirrors
// how the wire format stores them, so a decoded Value equals the one that
// was encoded.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	i    int64
	u    uint64
	b    bool
	json any
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value, split by sign into KindInt or KindUint.
func Int(n int64) Value {
	if n < 0 {
		return Value{kind: KindInt, i: n}
	}

	return Value{kind: KindUint, u: uint64(n)}
}

// Uint returns a non-negative integer value.
func Uint(n uint64) Value { return Value{kind: KindUint, u: n} }

// Float returns a numeric value. Integral values within the exact float64
// integer range are stored as integers.
func Float(f float64) Value {
	if f == math.Trunc(f) && math.Abs(f) <= maxExactInt && !(f == 0 && math.Signbit(f)) {
		return Int(int64(f))
	}

	return Value{kind: KindDouble, num: f}
}

// Double returns a KindDouble value without integer normalization. Decoders
// use it to reproduce exactly what was written to the double field.
func Double(f float64) Value { return Value{kind: KindDouble, num: f} }

// JSON returns a structured value. v should be a tree of map[string]any,
// []any, string, float64, bool and nil, as produced by a JSON decoder.
func JSON(v any) Value { return Value{kind: KindJSON, json: v} }

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Boolean returns the boolean payload and whether v is a boolean.
func (v Value) Boolean() (bool, bool) { return v.b, v.kind == KindBool }

// Int64 returns v as an int64 when it is an integer that fits.
func (v Value) Int64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindUint:
		if v.u > math.MaxInt64 {
			return 0, false
		}

		return int64(v.u), true
	default:
		return 0, false
	}
}

// Uint64 returns v as a uint64 when it is a non-negative integer.
func (v Value) Uint64() (uint64, bool) { return v.u, v.kind == KindUint }

// Float64 returns v as a float64 when it is any numeric kind.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindDouble:
		return v.num, true
	case KindInt:
		return float64(v.i), true
	case KindUint:
		return float64(v.u), true
	default:
		return 0, false
	}
}

// Structured returns the structured payload and whether v is KindJSON.
func (v Value) Structured() (any, bool) { return v.json, v.kind == KindJSON }

// Interface returns v as a plain Go value suitable for JSON encoding.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindDouble:
		return v.num
	case KindInt:
		return v.i
	case KindUint:
		return v.u
	case KindJSON:
		return v.json
	default:
		return nil
	}
}

// Equal reports whether v and o hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindDouble:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindInt:
		return v.i == o.i
	case KindUint:
		return v.u == o.u
	case KindJSON:
		return reflect.DeepEqual(v.json, o.json)
	default:
		return false
	}
}

// String formats v for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDouble:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindJSON:
		return "<json>"
	default:
		return "null"
	}
}
