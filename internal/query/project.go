package query

import "iter"

// Select applies sel to every element, in order.
// The result has the same length as src.
func Select[T, Out any](src *Queryable[T], sel func(T) Out) *Queryable[Out] {
	items := src.slice()
	out := &Queryable[Out]{items: make([]Out, 0, len(items))}
	for _, v := range items {
		out.Add(sel(v))
	}
	return out
}

// TrySelect is Select with a fallible selector. The first error aborts the
// pass and is returned unwrapped together with a nil result.
func TrySelect[T, Out any](src *Queryable[T], sel func(T) (Out, error)) (*Queryable[Out], error) {
	items := src.slice()
	out := &Queryable[Out]{items: make([]Out, 0, len(items))}
	for _, v := range items {
		r, err := sel(v)
		if err != nil {
			return nil, err
		}
		out.Add(r)
	}
	return out, nil
}

// SelectMany flattens the slices produced by sel, in source order.
func SelectMany[T, Out any](src *Queryable[T], sel func(T) []Out) *Queryable[Out] {
	out := New[Out]()
	for _, v := range src.slice() {
		out.AddAll(sel(v)...)
	}
	return out
}

// SelectManySeq flattens the finite iterators produced by sel, in source
// order.
func SelectManySeq[T, Out any](src *Queryable[T], sel func(T) iter.Seq[Out]) *Queryable[Out] {
	out := New[Out]()
	for _, v := range src.slice() {
		for r := range sel(v) {
			out.Add(r)
		}
	}
	return out
}
