package query

import (
	"encoding/json"
	"iter"
	"slices"
)

// Queryable is an ordered, duplicate-permitting sequence of elements.
//
// Iteration order is insertion order unless the sequence is explicitly
// sorted. The zero value is an empty, ready-to-use sequence. A nil
// *Queryable reads as empty everywhere in this package; Add and AddAll
// need a non-nil receiver.
//
// Queryable is not safe for concurrent mutation.
type Queryable[T any] struct {
	items []T
}

// New returns an empty Queryable.
func New[T any]() *Queryable[T] {
	return &Queryable[T]{}
}

// Of returns a Queryable holding the given values in order.
func Of[T any](items ...T) *Queryable[T] {
	return From(items)
}

// From returns a Queryable over a copy of items.
// Later changes to items are not visible through the Queryable.
func From[T any](items []T) *Queryable[T] {
	return &Queryable[T]{items: slices.Clone(items)}
}

// FromSeq drains seq into a new Queryable.
// seq must be finite.
func FromSeq[T any](seq iter.Seq[T]) *Queryable[T] {
	q := New[T]()
	for v := range seq {
		q.items = append(q.items, v)
	}
	return q
}

// slice returns the backing slice, treating a nil receiver as empty.
func (q *Queryable[T]) slice() []T {
	if q == nil {
		return nil
	}
	return q.items
}

// Add appends v to the end of the sequence.
func (q *Queryable[T]) Add(v T) {
	q.items = append(q.items, v)
}

// AddAll appends vs to the end of the sequence, in order.
func (q *Queryable[T]) AddAll(vs ...T) {
	q.items = append(q.items, vs...)
}

// Len returns the number of elements.
func (q *Queryable[T]) Len() int {
	return len(q.slice())
}

// IsEmpty reports whether the sequence has no elements.
func (q *Queryable[T]) IsEmpty() bool {
	return q.Len() == 0
}

// At returns the element at index i. It panics if i is out of range.
func (q *Queryable[T]) At(i int) T {
	return q.slice()[i]
}

// Slice returns a copy of the elements as a plain slice.
func (q *Queryable[T]) Slice() []T {
	return slices.Clone(q.slice())
}

// Values returns an iterator over the elements in order.
func (q *Queryable[T]) Values() iter.Seq[T] {
	return slices.Values(q.slice())
}

// ContainsFunc reports whether any element satisfies pred.
func (q *Queryable[T]) ContainsFunc(pred func(T) bool) bool {
	return slices.ContainsFunc(q.slice(), pred)
}

// Where is the method form of Where.
func (q *Queryable[T]) Where(pred func(T) bool) *Queryable[T] {
	return Where(q, pred)
}

// First is the method form of First.
func (q *Queryable[T]) First(pred func(T) bool) Optional[T] {
	return First(q, pred)
}

// Last is the method form of Last.
func (q *Queryable[T]) Last() Optional[T] {
	return Last(q)
}

// Any is the method form of Any.
func (q *Queryable[T]) Any(pred func(T) bool) bool {
	return Any(q, pred)
}

// All is the method form of All.
func (q *Queryable[T]) All(pred func(T) bool) bool {
	return All(q, pred)
}

// DistinctFunc is the method form of DistinctFunc.
func (q *Queryable[T]) DistinctFunc(eq func(a, b T) bool) *Queryable[T] {
	return DistinctFunc(q, eq)
}

// Skip is the method form of Skip.
func (q *Queryable[T]) Skip(n int) *Queryable[T] {
	return Skip(q, n)
}

// Take is the method form of Take.
func (q *Queryable[T]) Take(n int) *Queryable[T] {
	return Take(q, n)
}

// Sort stably sorts the sequence in place using compare, reversed for
// Descending, and returns q for chaining.
func (q *Queryable[T]) Sort(order Order, compare func(a, b T) int) *Queryable[T] {
	if q == nil {
		return q
	}
	slices.SortStableFunc(q.items, func(a, b T) int {
		return compare(a, b) * int(order)
	})
	return q
}

// OrderByCompare returns a stably sorted copy of the sequence.
// The receiver is left untouched.
func (q *Queryable[T]) OrderByCompare(order Order, compare func(a, b T) int) *Queryable[T] {
	return From(q.slice()).Sort(order, compare)
}

// MarshalJSON encodes the sequence as a JSON array. An empty sequence
// encodes as [] rather than null.
func (q *Queryable[T]) MarshalJSON() ([]byte, error) {
	items := q.slice()
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
