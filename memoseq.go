// Package memoseq implements a memoizing sequence adapter. A MemoSeq pairs
// a lazily evaluated, possibly infinite sequence of values with an ordered,
// append-only cache of the elements produced so far: any element that has
// been produced once can be retrieved again by index in constant time, and
// requesting an element beyond the cached prefix drives the underlying
// producer exactly as far as needed, retaining every intermediate element
// as a byproduct.
//
// This is useful for sequences where each value depends on the values
// before it, such as the factorial or Fibonacci sequences. Producing
// element 1000 of such a sequence necessarily produces elements 0 through
// 999 along the way, and keeping them makes every later retrieval free.
package memoseq

import (
	"iter"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// MemoSeq wraps a Producer together with a cache of every element the
// producer has yielded, in production order. The cache is always an exact
// prefix of the logical sequence: no gaps, no reordering, no duplicates,
// and it only ever grows while the adapter is alive.
//
// A MemoSeq owns its producer and cache exclusively. It is not safe for
// concurrent use; a caller that wants to share one across goroutines must
// serialize all access to it externally.
type MemoSeq[T any] struct {
	// exhausted is set once the producer has signaled the end of the
	// sequence, or once the adapter has been decomposed by Take. No
	// producer interaction happens after it is set.
	exhausted bool

	// producer is the underlying element source. It is nil after Take.
	producer Producer[T]

	// cache holds every element yielded by the producer so far.
	cache []T
}

// NewMemoSeq wraps producer in a MemoSeq with an empty cache. No elements
// are produced until they are first requested.
func NewMemoSeq[T any](producer Producer[T]) *MemoSeq[T] {
	return &MemoSeq[T]{
		producer: producer,
	}
}

// NewMemoSeqWithCapacity is like NewMemoSeq, but pre-allocates room for
// capacity elements in the cache. This only affects the initial allocation
// and does not bound how far the cache can grow.
func NewMemoSeqWithCapacity[T any](capacity int,
	producer Producer[T]) *MemoSeq[T] {

	return &MemoSeq[T]{
		producer: producer,
		cache:    make([]T, 0, capacity),
	}
}

// expandToContain drives the producer until the cache covers idx or the
// producer is exhausted. Every yielded element is appended to the cache,
// whether or not it is the one that was asked for, so partial progress is
// never discarded.
func (m *MemoSeq[T]) expandToContain(idx int) {
	if m.exhausted || idx < len(m.cache) {
		return
	}

	log.Tracef("Expanding cache of %d element(s) to cover index %d",
		len(m.cache), idx)

	for idx >= len(m.cache) {
		elem := m.producer.Next()
		if elem.IsNone() {
			m.exhausted = true

			log.Tracef("Producer exhausted after %d element(s)",
				len(m.cache))

			return
		}

		elem.WhenSome(func(t T) {
			m.cache = append(m.cache, t)
		})
	}
}

// Get returns the element at index idx of the sequence. If the element is
// already cached it is returned immediately, without any producer
// interaction. Otherwise the producer is driven forward, caching every
// element it yields, until the requested element has been produced or the
// producer is exhausted. Exhaustion before reaching idx yields None; the
// elements produced on the way remain cached regardless.
//
// Although Get looks like a read, a call with an index beyond the cached
// prefix mutates the adapter by growing the cache. Calling Get again with
// the same or a smaller index is then guaranteed to be O(1), free of side
// effects, and to return an equal value.
//
// A negative index yields None without touching the producer.
func (m *MemoSeq[T]) Get(idx int) fn.Option[T] {
	if idx < 0 {
		return fn.None[T]()
	}

	m.expandToContain(idx)

	if idx >= len(m.cache) {
		return fn.None[T]()
	}

	return fn.Some(m.cache[idx])
}

// Next produces the next not-yet-produced element of the sequence, which
// is the element at index NumCached, appends it to the cache and returns
// it. It never re-yields an element that is already cached. Once the
// producer is exhausted, Next returns None.
func (m *MemoSeq[T]) Next() fn.Option[T] {
	return m.Get(len(m.cache))
}

// Values returns an iterator over the sequence, starting from element 0.
// Ranging over it replays the cached prefix first and then drives the
// producer for elements that have not been produced yet, so ranging a
// second time repeats the same elements without recomputing them. The
// iteration ends at exhaustion or when the consumer breaks; for an
// infinite sequence the consumer must break.
func (m *MemoSeq[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for idx := 0; ; idx++ {
			elem := m.Get(idx)
			if elem.IsNone() {
				return
			}

			var zero T
			if !yield(elem.UnwrapOr(zero)) {
				return
			}
		}
	}
}

// NumCached returns the number of elements produced and cached so far. It
// never decreases while the adapter is alive.
func (m *MemoSeq[T]) NumCached() int {
	return len(m.cache)
}

// Cached returns a copy of the cached prefix of the sequence, ordered from
// the first element produced to the most recent. The adapter keeps the
// original, so later growth does not affect the returned slice. An empty
// cache yields nil.
func (m *MemoSeq[T]) Cached() []T {
	if len(m.cache) == 0 {
		return nil
	}

	cached := make([]T, len(m.cache))
	copy(cached, m.cache)

	return cached
}

// Len returns the total length of the sequence in the cases where it can
// be known without producing anything further: Some(NumCached()) once the
// producer is exhausted, the cached count plus the producer's remaining
// count when the producer implements SizedProducer, and None otherwise.
func (m *MemoSeq[T]) Len() fn.Option[int] {
	if m.exhausted {
		return fn.Some(len(m.cache))
	}

	if sized, ok := m.producer.(SizedProducer); ok {
		return fn.Some(len(m.cache) + sized.Remaining())
	}

	return fn.None[int]()
}

// Take decomposes the adapter, transferring ownership of the accumulated
// cache and of the residual producer to the caller. The returned slice is
// exactly the produced prefix at the moment of the call, in production
// order, with nothing added, removed or reordered; no computation is
// performed and no copy is made. The producer may still be productive or
// may be exhausted, depending on how far the adapter drove it.
//
// Take is terminal: the adapter is left permanently empty and exhausted.
// A second Take returns (nil, nil), and Get returns None for every index.
func (m *MemoSeq[T]) Take() ([]T, Producer[T]) {
	cache, producer := m.cache, m.producer

	m.cache = nil
	m.producer = nil
	m.exhausted = true

	return cache, producer
}
