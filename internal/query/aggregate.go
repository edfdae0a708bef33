package query

import "cmp"

// Number is the set of numeric element types accepted by Sum and Average.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Count returns the number of elements in src.
func Count[T any](src *Queryable[T]) int {
	return src.Len()
}

// CountWhere returns the number of elements satisfying pred.
func CountWhere[T any](src *Queryable[T], pred func(T) bool) int {
	n := 0
	for _, v := range src.slice() {
		if pred(v) {
			n++
		}
	}
	return n
}

// Sum adds sel(e) for every element as float64.
//
// The result is float64 whatever N is, so narrow types cannot overflow:
// summing three int8 values of 100 gives 300, not a wrapped value. Convert
// the result yourself if you need another type, accepting truncation.
func Sum[T any, N Number](src *Queryable[T], sel func(T) N) float64 {
	var total float64
	for _, v := range src.slice() {
		total += float64(sel(v))
	}
	return total
}

// SumOf is Sum over the elements themselves.
func SumOf[N Number](src *Queryable[N]) float64 {
	return Sum(src, identity[N])
}

// TrySum is Sum with a fallible selector.
func TrySum[T any](src *Queryable[T], sel func(T) (float64, error)) (float64, error) {
	var total float64
	for _, v := range src.slice() {
		f, err := sel(v)
		if err != nil {
			return 0, err
		}
		total += f
	}
	return total, nil
}

// Average returns Sum(src, sel) divided by the element count.
//
// An empty src yields NaN (0/0 in IEEE-754 arithmetic). That is the
// defined result, not an error; check with math.IsNaN.
func Average[T any, N Number](src *Queryable[T], sel func(T) N) float64 {
	return Sum(src, sel) / float64(src.Len())
}

// AverageOf is Average over the elements themselves.
func AverageOf[N Number](src *Queryable[N]) float64 {
	return Average(src, identity[N])
}

// TryAverage is Average with a fallible selector. An empty src yields NaN.
func TryAverage[T any](src *Queryable[T], sel func(T) (float64, error)) (float64, error) {
	total, err := TrySum(src, sel)
	if err != nil {
		return 0, err
	}
	return total / float64(src.Len()), nil
}

// Max returns the element with the largest key.
// Ties keep the earliest element. An empty src yields None.
func Max[T any, K cmp.Ordered](src *Queryable[T], key func(T) K) Optional[T] {
	return top(src, key, cmp.Compare[K], Ascending)
}

// Min returns the element with the smallest key.
// Ties keep the earliest element. An empty src yields None.
func Min[T any, K cmp.Ordered](src *Queryable[T], key func(T) K) Optional[T] {
	return top(src, key, cmp.Compare[K], Descending)
}

// MaxFunc is Max with an explicit key comparison.
func MaxFunc[T, K any](src *Queryable[T], key func(T) K, compare func(a, b K) int) Optional[T] {
	return top(src, key, compare, Ascending)
}

// MinFunc is Min with an explicit key comparison.
func MinFunc[T, K any](src *Queryable[T], key func(T) K, compare func(a, b K) int) Optional[T] {
	return top(src, key, compare, Descending)
}

// MaxOf returns the largest element of src.
func MaxOf[N cmp.Ordered](src *Queryable[N]) Optional[N] {
	return Max(src, identity[N])
}

// MinOf returns the smallest element of src.
func MinOf[N cmp.Ordered](src *Queryable[N]) Optional[N] {
	return Min(src, identity[N])
}

// top scans src once. The running best only changes on a strict
// improvement in the direction given by order, so the first of equal keys
// wins.
func top[T, K any](src *Queryable[T], key func(T) K, compare func(a, b K) int, order Order) Optional[T] {
	items := src.slice()
	if len(items) == 0 {
		return None[T]()
	}
	found := items[0]
	best := key(found)
	for _, v := range items[1:] {
		k := key(v)
		if compare(best, k)*int(order) < 0 {
			best = k
			found = v
		}
	}
	return Some(found)
}

func identity[T any](v T) T {
	return v
}
