package query

// Entry is one key/value pair of a grouping result.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// GroupBy partitions src by key.
//
// Groups appear in the order their key was first seen, and each group keeps
// its elements in source order:
//
//	GroupBy(Of(("a",1), ("b",2), ("a",3)), first) → a: [1 3], b: [2]
func GroupBy[T any, K comparable](src *Queryable[T], key func(T) K) *Queryable[Entry[K, *Queryable[T]]] {
	return GroupByResult(src, key, identity[T], identity[*Queryable[T]])
}

// GroupByResult partitions src by key, collecting value(e) for each element
// and reducing every finished group with result.
//
// key and value run once per element in source order; result runs once per
// group after the pass, in group order. Keys are matched with ==, through a
// hash index, so lookup stays constant time without changing the
// first-seen group order. A NaN float key never equals itself and so
// starts a new group each time it occurs.
func GroupByResult[T any, K comparable, V, R any](
	src *Queryable[T],
	key func(T) K,
	value func(T) V,
	result func(*Queryable[V]) R,
) *Queryable[Entry[K, R]] {
	groups := New[Entry[K, *Queryable[V]]]()
	index := make(map[K]int)

	for _, item := range src.slice() {
		k, v := key(item), value(item)
		if i, ok := index[k]; ok {
			groups.items[i].Value.Add(v)
			continue
		}
		index[k] = groups.Len()
		groups.Add(Entry[K, *Queryable[V]]{Key: k, Value: Of(v)})
	}

	return Select(groups, func(g Entry[K, *Queryable[V]]) Entry[K, R] {
		return Entry[K, R]{Key: g.Key, Value: result(g.Value)}
	})
}
