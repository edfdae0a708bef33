package row

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Value is a sealed interface over the scalar types a Row field can hold.
type Value interface {
	rowValue() // Sealed - only the types in this file implement it
}

// Null is an absent or SQL NULL value.
type Null struct{}

func (Null) rowValue() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String is a text value.
type String string

func (String) rowValue() {}

// Int is an integer value.
type Int int64

func (Int) rowValue() {}

// Float is a floating point value.
type Float float64

func (Float) rowValue() {}

// MarshalJSON implements json.Marshaler for Float, writing non-finite
// values as strings.
func (f Float) MarshalJSON() ([]byte, error) {
	return []byte(formatFloatJSON(float64(f))), nil
}

// Bool is a boolean value.
type Bool bool

func (Bool) rowValue() {}

// FromAny converts a decoded scalar into a Value.
//
// Accepted inputs are nil, Value, string, []byte, bool, every Go integer and
// float type, json.Number (integers stay Int) and time.Time (RFC 3339 text).
// Composite values are rejected; FromMap flattens them instead.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case []byte:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return fromUint(uint64(val)), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		return fromUint(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val, err)
		}
		return Float(f), nil
	case time.Time:
		return String(val.UTC().Format(time.RFC3339Nano)), nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

// AsFloat returns the numeric value of v. ok is false for non-numeric
// values, including Null.
func AsFloat(v Value) (f float64, ok bool) {
	switch val := v.(type) {
	case Int:
		return float64(val), true
	case Float:
		return float64(val), true
	default:
		return 0, false
	}
}

// Normalize returns the canonical representative of v for == comparisons:
// a Float holding an exact int64 becomes Int, so 3 and 3.0 land in the
// same group.
func Normalize(v Value) Value {
	switch val := v.(type) {
	case nil:
		return Null{}
	case Float:
		f := float64(val)
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return Int(int64(f))
		}
	}
	return v
}

// Format renders v as display text. Null renders as the empty string.
func Format(v Value) string {
	switch val := v.(type) {
	case nil, Null:
		return ""
	case String:
		return string(val)
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(val))
	default:
		return fmt.Sprint(v)
	}
}

// TypeName returns a short lowercase name for v's type, for error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case nil, Null:
		return "null"
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", v)
	}
}
