// Package query implements lq's in-memory collection query engine.
//
// The engine is a set of small, stateless generic functions (Select, Where,
// First, GroupBy, OrderBy, Distinct, Skip, Take, SelectMany, Max, Min, Sum,
// Average, All, Any) operating over Queryable, an ordered slice-backed
// sequence. Callers supply selectors and predicates as plain Go funcs.
//
// ARCHITECTURE:
//
// Queryable is the only container. Arrays, slices and iterators are adapted
// at the boundary (From, Of, FromSeq), so every operation has exactly one
// implementation and one set of edge-case rules:
//
//	[]T / iter.Seq[T] → Queryable[T] → operation → Queryable[Out] | Optional[T] | scalar
//
// Go methods cannot declare type parameters, so operations that change the
// element type are free functions only. Operations that keep the element
// type are also available as chainable methods:
//
//	top := query.Of(orders...).
//		Where(func(o Order) bool { return o.Paid }).
//		OrderByCompare(query.Descending, byTotal).
//		Take(3)
//
// SEMANTICS:
//
// Ordering: every result keeps source order unless an ordering operation
// reorders it. Sorting is stable in both directions.
//
// Call contract: selectors and predicates run in source order, once per
// element per pass. First and Any stop at the first match.
//
// Aliasing: every operation returns a freshly allocated Queryable. The only
// in-place operations are SortInPlace, SortInPlaceFunc and Queryable.Sort.
//
// Absent results: First, Last, Max and Min return Optional rather than a
// zero value, so "empty" and "found the zero value" stay distinguishable.
//
// Arithmetic: Sum and Average always accumulate in float64, whatever the
// numeric element type. Average of an empty sequence is NaN (0/0), never a
// panic.
//
// Pagination: Skip and Take saturate. Counts beyond the sequence length are
// clamped and negative counts are treated as zero.
//
// Failures: a panic inside a selector unwinds through the operation
// unmodified. TrySelect, TryWhere, TrySum and TryAverage accept selectors
// that return an error; the first error aborts the pass and is returned as
// is, with no partial result.
//
// CONCURRENCY:
//
// Everything runs synchronously on the caller's goroutine. Queryable is not
// safe for concurrent mutation.
package query
