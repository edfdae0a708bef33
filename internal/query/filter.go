package query

// Where returns the elements satisfying pred, in source order.
// The result is empty, never nil, when nothing matches.
func Where[T any](src *Queryable[T], pred func(T) bool) *Queryable[T] {
	out := New[T]()
	for _, v := range src.slice() {
		if pred(v) {
			out.Add(v)
		}
	}
	return out
}

// TryWhere is Where with a fallible predicate. The first error aborts the
// pass and is returned unwrapped together with a nil result.
func TryWhere[T any](src *Queryable[T], pred func(T) (bool, error)) (*Queryable[T], error) {
	out := New[T]()
	for _, v := range src.slice() {
		ok, err := pred(v)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Add(v)
		}
	}
	return out, nil
}

// First returns the first element satisfying pred. Elements after the
// match are not evaluated.
func First[T any](src *Queryable[T], pred func(T) bool) Optional[T] {
	for _, v := range src.slice() {
		if pred(v) {
			return Some(v)
		}
	}
	return None[T]()
}

// Last returns the final element of src.
func Last[T any](src *Queryable[T]) Optional[T] {
	items := src.slice()
	if len(items) == 0 {
		return None[T]()
	}
	return Some(items[len(items)-1])
}

// LastWhere returns the last element satisfying pred. pred is evaluated on
// every element, in source order.
func LastWhere[T any](src *Queryable[T], pred func(T) bool) Optional[T] {
	found := None[T]()
	for _, v := range src.slice() {
		if pred(v) {
			found = Some(v)
		}
	}
	return found
}

// Any reports whether some element satisfies pred.
// It stops at the first match, exactly like First.
func Any[T any](src *Queryable[T], pred func(T) bool) bool {
	return First(src, pred).IsPresent()
}

// All reports whether every element satisfies pred.
// It is true for an empty sequence. pred is evaluated on every element.
func All[T any](src *Queryable[T], pred func(T) bool) bool {
	return Count(src) == Count(Where(src, pred))
}

// Contains reports whether v is an element of src.
func Contains[T comparable](src *Queryable[T], v T) bool {
	for _, item := range src.slice() {
		if item == v {
			return true
		}
	}
	return false
}

// Distinct returns the elements of src with duplicates removed, keeping the
// first occurrence of each value.
func Distinct[T comparable](src *Queryable[T]) *Queryable[T] {
	out := New[T]()
	seen := make(map[T]struct{}, src.Len())
	for _, v := range src.slice() {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out.Add(v)
	}
	return out
}

// DistinctFunc is Distinct for element types without Go equality.
//
// Each element is checked against the accumulated result with eq, so the
// cost is O(n²). That is fine for the small and medium collections this
// package targets; use Distinct when T is comparable.
func DistinctFunc[T any](src *Queryable[T], eq func(a, b T) bool) *Queryable[T] {
	out := New[T]()
	for _, v := range src.slice() {
		if !out.ContainsFunc(func(seen T) bool { return eq(seen, v) }) {
			out.Add(v)
		}
	}
	return out
}
