package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Order is a sort direction. Its value is the multiplier applied to key
// comparisons.
type Order int

const (
	// Ascending sorts smallest key first.
	Ascending Order = 1

	// Descending sorts largest key first.
	Descending Order = -1
)

func (o Order) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseOrder accepts "ascending"/"asc" and "descending"/"desc", ignoring
// case. The empty string means Ascending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown order %q: must be ascending or descending", s)
	}
}

// OrderBy returns a copy of src stably sorted by key. src is not modified.
func OrderBy[T any, K cmp.Ordered](src *Queryable[T], order Order, key func(T) K) *Queryable[T] {
	return OrderByFunc(src, order, key, cmp.Compare[K])
}

// OrderByFunc is OrderBy for keys that need an explicit comparison.
// compare returns a negative number, zero or a positive number like
// cmp.Compare.
func OrderByFunc[T, K any](src *Queryable[T], order Order, key func(T) K, compare func(a, b K) int) *Queryable[T] {
	out := From(src.slice())
	sortKeyed(out.items, order, key, compare)
	return out
}

// SortInPlace stably sorts s by key and returns it.
// The caller's slice is reordered; treat it as consumed.
func SortInPlace[T any, K cmp.Ordered](s []T, order Order, key func(T) K) []T {
	return SortInPlaceFunc(s, order, key, cmp.Compare[K])
}

// SortInPlaceFunc is SortInPlace with an explicit key comparison.
func SortInPlaceFunc[T, K any](s []T, order Order, key func(T) K, compare func(a, b K) int) []T {
	sortKeyed(s, order, key, compare)
	return s
}

type keyed[T, K any] struct {
	key  K
	item T
}

// sortKeyed computes every key once, then stable-sorts on the cached keys.
func sortKeyed[T, K any](s []T, order Order, key func(T) K, compare func(a, b K) int) {
	pairs := make([]keyed[T, K], len(s))
	for i, v := range s {
		pairs[i] = keyed[T, K]{key: key(v), item: v}
	}
	slices.SortStableFunc(pairs, func(a, b keyed[T, K]) int {
		return compare(a.key, b.key) * int(order)
	})
	for i := range pairs {
		s[i] = pairs[i].item
	}
}
