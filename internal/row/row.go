package row

import (
	"fmt"
	"maps"
	"slices"
	"unicode/utf16"
)

// Row is one record: a flat map from field name to Value.
// A missing field reads as Null.
type Row map[string]Value

// Get returns the value of field, or Null when the field is missing.
func (r Row) Get(field string) Value {
	if v, ok := r[field]; ok && v != nil {
		return v
	}
	return Null{}
}

// Has reports whether field is present.
func (r Row) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Clone returns a shallow copy of r.
func (r Row) Clone() Row {
	return maps.Clone(r)
}

// Project returns a new row holding only fields. Missing fields are
// included as Null so every projected row has the same shape.
func (r Row) Project(fields ...string) Row {
	out := make(Row, len(fields))
	for _, f := range fields {
		out[f] = r.Get(f)
	}
	return out
}

// SortedKeys returns field names in RFC 8785 canonical order (UTF-16 code
// units).
func (r Row) SortedKeys() []string {
	return sortedKeys(r)
}

// MarshalJSON implements json.Marshaler using canonical JSON.
func (r Row) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(r)
}

// RowsEqual reports whether a and b have the same fields with Equal values.
func RowsEqual(a, b Row) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

// FromMap converts a decoded document object into a Row.
//
// Nested objects are flattened into dotted field names and arrays are
// stored as their canonical JSON text:
//
//	{"id": 1, "address": {"city": "Oslo"}, "tags": ["a", "b"]}
//
// becomes
//
//	{"id": Int(1), "address.city": String("Oslo"), "tags": String(`["a","b"]`)}
func FromMap(m map[string]any) (Row, error) {
	r := make(Row, len(m))
	if err := flatten(r, "", m); err != nil {
		return nil, err
	}
	return r, nil
}

func flatten(dst Row, prefix string, m map[string]any) error {
	for k, v := range m {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}

		switch val := v.(type) {
		case map[string]any:
			if err := flatten(dst, name, val); err != nil {
				return err
			}
		case []any:
			text, err := MarshalCanonical(val)
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			dst[name] = String(text)
		default:
			value, err := FromAny(val)
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			dst[name] = value
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units as RFC 8785
// requires. Go's native string order is by UTF-8 bytes, which differs for
// characters outside the BMP.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	for i := 0; i < min(len(a16), len(b16)); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}
