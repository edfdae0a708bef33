package row

import (
	"cmp"
	"math"
	"strings"
)

// rank orders the value kinds: Null < Bool < number < String.
func rank(v Value) int {
	switch v.(type) {
	case nil, Null:
		return 0
	case Bool:
		return 1
	case Int, Float:
		return 2
	case String:
		return 3
	default:
		return 4
	}
}

// Compare returns -1, 0 or +1 ordering a before, equal to, or after b.
//
// Values of different kinds order by kind. Int and Float compare
// numerically and exactly, so Int(2) equals Float(2) but Int(1<<53+1) is
// greater than Float(1<<53). NaN sorts before every other number, as in
// cmp.Compare.
func Compare(a, b Value) int {
	if c := cmp.Compare(rank(a), rank(b)); c != 0 {
		return c
	}

	switch av := a.(type) {
	case Bool:
		bv := b.(Bool)
		switch {
		case av == bv:
			return 0
		case !bool(av):
			return -1
		default:
			return 1
		}
	case Int:
		switch bv := b.(type) {
		case Int:
			return cmp.Compare(av, bv)
		case Float:
			return compareIntFloat(int64(av), float64(bv))
		}
	case Float:
		if bv, ok := b.(Int); ok {
			return -compareIntFloat(int64(bv), float64(av))
		}
	case String:
		return strings.Compare(string(av), string(b.(String)))
	}

	if rank(a) == 2 {
		af, _ := AsFloat(a)
		bf, _ := AsFloat(b)
		return cmp.Compare(af, bf)
	}
	return 0
}

// compareIntFloat orders i against f without rounding i to float64.
func compareIntFloat(i int64, f float64) int {
	switch {
	case math.IsNaN(f):
		return 1
	case f >= math.MaxInt64: // 2^63 after rounding
		return -1
	case f < math.MinInt64:
		return 1
	}
	whole := math.Trunc(f)
	if c := cmp.Compare(i, int64(whole)); c != 0 {
		return c
	}
	return cmp.Compare(whole, f)
}

// Equal reports whether a and b compare equal under Compare.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// Comparable reports whether a and b are of the same kind, so that an
// ordering between them is meaningful rather than decided by kind alone.
// Int and Float are the same kind. Null is never comparable.
func Comparable(a, b Value) bool {
	ra := rank(a)
	return ra != 0 && ra == rank(b)
}
