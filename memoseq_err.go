package memoseq

import (
	"iter"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// ProducerErr is the fallible counterpart of Producer. This is identical
// to Producer, but should be used for sequences whose production can fail,
// for example because elements are fetched from an external source.
type ProducerErr[T any] interface {
	// Next returns the next element of the sequence, None once the
	// sequence is exhausted, or an error if producing the element
	// failed. An error does not imply exhaustion: whether the producer
	// can yield further elements after a failure is up to the
	// implementation.
	Next() (fn.Option[T], error)
}

// ProducerErrFunc is an adapter that allows an ordinary function to be
// used as a ProducerErr.
type ProducerErrFunc[T any] func() (fn.Option[T], error)

// Next implements ProducerErr by invoking the function itself.
func (f ProducerErrFunc[T]) Next() (fn.Option[T], error) {
	return f()
}

// MemoSeqErr is the fallible counterpart of MemoSeq, wrapping a
// ProducerErr instead of a Producer. Caching behaves exactly as in
// MemoSeq, with one addition: a producer error aborts the current
// advancement and is returned to the caller unchanged, without being
// wrapped, retried or suppressed. No cache entry is recorded for a failed
// production, the elements produced before the failure stay cached, and
// the sequence is not marked exhausted, so a later call may resume
// advancement if the producer can recover.
type MemoSeqErr[T any] struct {
	// exhausted is set once the producer has signaled the end of the
	// sequence, or once the adapter has been decomposed by Take. A
	// producer error never sets it.
	exhausted bool

	// producer is the underlying element source. It is nil after Take.
	producer ProducerErr[T]

	// cache holds every element yielded by the producer so far.
	cache []T
}

// NewMemoSeqErr wraps producer in a MemoSeqErr with an empty cache.
func NewMemoSeqErr[T any](producer ProducerErr[T]) *MemoSeqErr[T] {
	return &MemoSeqErr[T]{
		producer: producer,
	}
}

// NewMemoSeqErrWithCapacity is like NewMemoSeqErr, but pre-allocates room
// for capacity elements in the cache. This only affects the initial
// allocation and does not bound how far the cache can grow.
func NewMemoSeqErrWithCapacity[T any](capacity int,
	producer ProducerErr[T]) *MemoSeqErr[T] {

	return &MemoSeqErr[T]{
		producer: producer,
		cache:    make([]T, 0, capacity),
	}
}

// expandToContain drives the producer until the cache covers idx, the
// producer is exhausted, or production fails. Every yielded element is
// appended to the cache; a failed production appends nothing.
func (m *MemoSeqErr[T]) expandToContain(idx int) error {
	if m.exhausted || idx < len(m.cache) {
		return nil
	}

	log.Tracef("Expanding cache of %d element(s) to cover index %d",
		len(m.cache), idx)

	for idx >= len(m.cache) {
		elem, err := m.producer.Next()
		if err != nil {
			log.Tracef("Producer failed at element %d: %v",
				len(m.cache), err)

			return err
		}

		if elem.IsNone() {
			m.exhausted = true

			log.Tracef("Producer exhausted after %d element(s)",
				len(m.cache))

			return nil
		}

		elem.WhenSome(func(t T) {
			m.cache = append(m.cache, t)
		})
	}

	return nil
}

// Get returns the element at index idx of the sequence, behaving like
// MemoSeq.Get with the fault contract of MemoSeqErr: a producer error is
// returned unchanged, and the partial progress made before the error
// stays cached.
func (m *MemoSeqErr[T]) Get(idx int) (fn.Option[T], error) {
	if idx < 0 {
		return fn.None[T](), nil
	}

	if err := m.expandToContain(idx); err != nil {
		return fn.None[T](), err
	}

	if idx >= len(m.cache) {
		return fn.None[T](), nil
	}

	return fn.Some(m.cache[idx]), nil
}

// Next produces the next not-yet-produced element of the sequence,
// appends it to the cache and returns it, with the same fault contract as
// Get. Once the producer is exhausted, Next returns None.
func (m *MemoSeqErr[T]) Next() (fn.Option[T], error) {
	return m.Get(len(m.cache))
}

// Values returns an iterator over the sequence, starting from element 0.
// Cached elements are replayed without recomputation and further elements
// are produced on demand, each yielded with a nil error. If production
// fails, the iterator yields the zero value paired with the producer's
// error once and then stops; exhaustion simply ends the iteration. For an
// infinite sequence the consumer must break.
func (m *MemoSeqErr[T]) Values() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for idx := 0; ; idx++ {
			var zero T

			elem, err := m.Get(idx)
			if err != nil {
				yield(zero, err)
				return
			}

			if elem.IsNone() {
				return
			}

			if !yield(elem.UnwrapOr(zero), nil) {
				return
			}
		}
	}
}

// NumCached returns the number of elements produced and cached so far. It
// never decreases while the adapter is alive.
func (m *MemoSeqErr[T]) NumCached() int {
	return len(m.cache)
}

// Cached returns a copy of the cached prefix of the sequence, ordered
// from the first element produced to the most recent. An empty cache
// yields nil.
func (m *MemoSeqErr[T]) Cached() []T {
	if len(m.cache) == 0 {
		return nil
	}

	cached := make([]T, len(m.cache))
	copy(cached, m.cache)

	return cached
}

// Len returns the total length of the sequence in the cases where it can
// be known without producing anything further, exactly like MemoSeq.Len.
func (m *MemoSeqErr[T]) Len() fn.Option[int] {
	if m.exhausted {
		return fn.Some(len(m.cache))
	}

	if sized, ok := m.producer.(SizedProducer); ok {
		return fn.Some(len(m.cache) + sized.Remaining())
	}

	return fn.None[int]()
}

// Take decomposes the adapter, transferring ownership of the accumulated
// cache and of the residual producer to the caller, exactly like
// MemoSeq.Take. Take is terminal: the adapter is left permanently empty
// and exhausted, and a second Take returns (nil, nil).
func (m *MemoSeqErr[T]) Take() ([]T, ProducerErr[T]) {
	cache, producer := m.cache, m.producer

	m.cache = nil
	m.producer = nil
	m.exhausted = true

	return cache, producer
}
