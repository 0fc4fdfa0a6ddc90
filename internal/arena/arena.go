// Package arena implements the generational-free, index-keyed storage used
// throughout the engine: a push-only arena, a dedup-aware variant, a sparse
// auxiliary map keyed by arena index, and a length-first string interner.
package arena

// Key is any type usable as a dense arena index. Concrete key types (e.g. a
// FuncIdx or TypeIdx newtype over uint32) implement this by converting to and
// from a plain int.
type Key interface {
	comparable
}

// Indexer converts a Key to and from its dense int position. Concrete key
// newtypes implement this so Arena can stay index-type agnostic.
type Indexer[K Key] interface {
	FromIndex(i int) K
	ToIndex(k K) int
}

// Arena is a push-only dense store keyed by a typed index. It never deletes;
// Push always returns a fresh key.
type Arena[K Key, T any] struct {
	idx     Indexer[K]
	entries []T
}

// NewArena constructs an empty arena using idx to mint and resolve keys.
func NewArena[K Key, T any](idx Indexer[K]) *Arena[K, T] {
	return &Arena[K, T]{idx: idx}
}

// Push appends v and returns its newly minted key.
func (a *Arena[K, T]) Push(v T) K {
	k := a.idx.FromIndex(len(a.entries))
	a.entries = append(a.entries, v)
	return k
}

// Get returns the entry for k. It panics if k is out of range, matching the
// "indexing panics on absent keys" invariant shared with ComponentVec.
func (a *Arena[K, T]) Get(k K) T {
	return a.entries[a.idx.ToIndex(k)]
}

// Set overwrites the entry for an existing key k.
func (a *Arena[K, T]) Set(k K, v T) {
	a.entries[a.idx.ToIndex(k)] = v
}

// Len returns the number of entries pushed so far.
func (a *Arena[K, T]) Len() int { return len(a.entries) }

// All iterates every (key, value) pair in push order.
func (a *Arena[K, T]) All(yield func(K, T) bool) {
	for i, v := range a.entries {
		if !yield(a.idx.FromIndex(i), v) {
			return
		}
	}
}

// DedupArena wraps an Arena so that pushing an entity equal to one already
// present returns the existing key instead of allocating a new one. Used so
// that identical FuncTypes share one canonical key.
type DedupArena[K Key, T comparable] struct {
	arena  *Arena[K, T]
	lookup map[T]K
}

// NewDedupArena constructs an empty dedup-aware arena.
func NewDedupArena[K Key, T comparable](idx Indexer[K]) *DedupArena[K, T] {
	return &DedupArena[K, T]{arena: NewArena[K, T](idx), lookup: make(map[T]K)}
}

// Push returns the key for an entity equal to v, pushing a new entry only if
// none exists yet.
func (d *DedupArena[K, T]) Push(v T) K {
	if k, ok := d.lookup[v]; ok {
		return k
	}
	k := d.arena.Push(v)
	d.lookup[v] = k
	return k
}

// Get returns the entry for k.
func (d *DedupArena[K, T]) Get(k K) T { return d.arena.Get(k) }

// Len returns the number of distinct entries.
func (d *DedupArena[K, T]) Len() int { return d.arena.Len() }

// ComponentVec maps arena indices to auxiliary, possibly-absent per-entity
// state. Holes are permitted; the vector grows on Set.
type ComponentVec[K Key, T any] struct {
	idx     Indexer[K]
	entries []*T
}

// NewComponentVec constructs an empty component vector.
func NewComponentVec[K Key, T any](idx Indexer[K]) *ComponentVec[K, T] {
	return &ComponentVec[K, T]{idx: idx}
}

// Set stores v for k, growing the backing slice if needed.
func (c *ComponentVec[K, T]) Set(k K, v T) {
	i := c.idx.ToIndex(k)
	for i >= len(c.entries) {
		c.entries = append(c.entries, nil)
	}
	vv := v
	c.entries[i] = &vv
}

// Unset clears the entry for k, leaving a hole.
func (c *ComponentVec[K, T]) Unset(k K) {
	i := c.idx.ToIndex(k)
	if i < len(c.entries) {
		c.entries[i] = nil
	}
}

// Get returns the value for k and whether it was present (false for holes or
// out-of-range indices).
func (c *ComponentVec[K, T]) Get(k K) (T, bool) {
	i := c.idx.ToIndex(k)
	if i < 0 || i >= len(c.entries) || c.entries[i] == nil {
		var zero T
		return zero, false
	}
	return *c.entries[i], true
}
