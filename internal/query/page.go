package query

// Skip drops exactly the first n elements and returns the rest in order.
// n at or beyond the length yields an empty result; negative n skips
// nothing.
func Skip[T any](src *Queryable[T], n int) *Queryable[T] {
	items := src.slice()
	return From(items[clamp(n, len(items)):])
}

// Take returns at most the first n elements in order.
// n beyond the length yields every element; negative n yields none.
func Take[T any](src *Queryable[T], n int) *Queryable[T] {
	items := src.slice()
	return From(items[:clamp(n, len(items))])
}

func clamp(n, length int) int {
	return max(0, min(n, length))
}
