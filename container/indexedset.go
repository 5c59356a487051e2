// Package container provides small generic collections used to
// deduplicate and canonicalize case-variant spellings across the
// processor description and program loaders.
package container

// IndexedSet stores elements of type T, keyed by a value of type K
// derived from each element through an indexing function. It is the
// single mechanism procsim uses for "store the first spelling seen,
// and hand back that canonical instance on every later lookup."
type IndexedSet[T any, K comparable] struct {
	key   func(T) K
	items map[K]T
	order []K
}

// New creates an IndexedSet indexed by key.
func New[T any, K comparable](key func(T) K) *IndexedSet[T, K] {
	return &IndexedSet[T, K]{
		key:   key,
		items: make(map[K]T),
	}
}

// Add inserts e, or overwrites the element previously stored under
// key(e).
func (s *IndexedSet[T, K]) Add(e T) {
	k := s.key(e)
	if _, ok := s.items[k]; !ok {
		s.order = append(s.order, k)
	}
	s.items[k] = e
}

// Get returns the element stored under key(e), if any.
func (s *IndexedSet[T, K]) Get(e T) (T, bool) {
	v, ok := s.items[s.key(e)]
	return v, ok
}

// GetByKey returns the element stored under k directly.
func (s *IndexedSet[T, K]) GetByKey(k K) (T, bool) {
	v, ok := s.items[k]
	return v, ok
}

// GetOrInsert returns the canonical element already stored under
// key(e); if none exists, e is inserted and becomes canonical.
func (s *IndexedSet[T, K]) GetOrInsert(e T) T {
	if v, ok := s.Get(e); ok {
		return v
	}
	s.Add(e)
	return e
}

// Len returns the number of distinct keys stored.
func (s *IndexedSet[T, K]) Len() int {
	return len(s.items)
}

// Values returns the stored elements in insertion order (first
// occurrence of each key).
func (s *IndexedSet[T, K]) Values() []T {
	out := make([]T, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.items[k])
	}
	return out
}
