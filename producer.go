package memoseq

import (
	"iter"

	"github.com/lightningnetwork/lnd/fn/v2"
	"golang.org/x/exp/constraints"
)

// Producer is the element source wrapped by a MemoSeq. Each call to Next
// either yields the next element of the sequence or reports that the
// sequence has ended.
//
// A Producer is single-pass: once an element has been yielded it is gone
// from the producer's own state, and there is no rewinding or seeking.
// Implementations are expected to be order-stable, meaning the values
// yielded do not depend on when or how often the producer is driven. This
// is a documented precondition rather than an enforced one, as it cannot
// be checked generically from the outside.
type Producer[T any] interface {
	// Next returns the next element of the sequence, or None once the
	// sequence is exhausted. After the first None, every subsequent call
	// must also return None.
	Next() fn.Option[T]
}

// ProducerFunc is an adapter that allows an ordinary function to be used
// as a Producer.
type ProducerFunc[T any] func() fn.Option[T]

// Next implements Producer by invoking the function itself.
func (f ProducerFunc[T]) Next() fn.Option[T] {
	return f()
}

// SizedProducer is implemented by producers that know exactly how many
// elements they have left to yield. MemoSeq.Len uses this, via a type
// assertion, to report the total length of a sequence before it has been
// fully produced. Implementing it is always optional.
type SizedProducer interface {
	// Remaining returns the number of elements the producer will still
	// yield before it is exhausted.
	Remaining() int
}

// seqProducer adapts a range-over-func sequence to the Producer interface
// using a pull based iterator.
type seqProducer[T any] struct {
	next func() (T, bool)
	stop func()
}

// FromSeq converts a range-over-func sequence into a Producer. Elements
// are pulled lazily, one per Next call. Once the sequence reports
// exhaustion the underlying pull iterator is stopped.
func FromSeq[T any](seq iter.Seq[T]) Producer[T] {
	next, stop := iter.Pull(seq)

	return &seqProducer[T]{
		next: next,
		stop: stop,
	}
}

// Next implements Producer.
func (s *seqProducer[T]) Next() fn.Option[T] {
	elem, ok := s.next()
	if !ok {
		s.stop()
		return fn.None[T]()
	}

	return fn.Some(elem)
}

// sliceProducer yields the elements of a slice in order.
type sliceProducer[T any] struct {
	elems []T
	pos   int
}

// FromSlice returns a finite Producer that yields the elements of elems in
// order. The producer takes ownership of the slice, so the caller must not
// modify it afterwards. The returned producer implements SizedProducer.
func FromSlice[T any](elems []T) Producer[T] {
	return &sliceProducer[T]{elems: elems}
}

// Next implements Producer.
func (s *sliceProducer[T]) Next() fn.Option[T] {
	if s.pos >= len(s.elems) {
		return fn.None[T]()
	}

	elem := s.elems[s.pos]
	s.pos++

	return fn.Some(elem)
}

// Remaining implements SizedProducer.
func (s *sliceProducer[T]) Remaining() int {
	return len(s.elems) - s.pos
}

// rangeProducer counts through a half-open integer interval.
type rangeProducer[N constraints.Integer] struct {
	next N
	end  N
}

// Range returns a Producer that yields every integer in the half-open
// interval [start, end) in increasing order. If end <= start the producer
// is exhausted from the outset. The returned producer implements
// SizedProducer.
func Range[N constraints.Integer](start, end N) Producer[N] {
	if end < start {
		end = start
	}

	return &rangeProducer[N]{
		next: start,
		end:  end,
	}
}

// Next implements Producer.
func (r *rangeProducer[N]) Next() fn.Option[N] {
	if r.next >= r.end {
		return fn.None[N]()
	}

	n := r.next
	r.next++

	return fn.Some(n)
}

// Remaining implements SizedProducer.
func (r *rangeProducer[N]) Remaining() int {
	return int(r.end - r.next)
}

// successorsProducer generates a sequence in which every element is
// derived from its predecessor.
type successorsProducer[T any] struct {
	next fn.Option[T]
	succ func(T) fn.Option[T]
}

// Successors returns a Producer that yields first and then, for each
// element yielded, applies succ to it to derive the element after it. The
// sequence ends when succ returns None, or immediately if first is None.
// This is the natural way to express recurrences where each value depends
// on the one before it, such as the Fibonacci sequence.
func Successors[T any](first fn.Option[T],
	succ func(T) fn.Option[T]) Producer[T] {

	return &successorsProducer[T]{
		next: first,
		succ: succ,
	}
}

// Next implements Producer.
func (s *successorsProducer[T]) Next() fn.Option[T] {
	elem := s.next
	elem.WhenSome(func(t T) {
		s.next = s.succ(t)
	})

	return elem
}

// mappedProducer applies a transformation to every element of a source
// producer.
type mappedProducer[A, B any] struct {
	src Producer[A]
	f   func(A) B
}

// Map returns a Producer that yields f applied to each element of src, in
// order. Driving the returned producer drives src. If src implements
// SizedProducer, so does the returned producer.
func Map[A, B any](src Producer[A], f func(A) B) Producer[B] {
	mapped := &mappedProducer[A, B]{
		src: src,
		f:   f,
	}

	// Preserve the remaining element count of sized sources, since
	// mapping changes the elements but never their number.
	if sized, ok := src.(SizedProducer); ok {
		return &sizedMappedProducer[A, B]{
			mappedProducer: mapped,
			sized:          sized,
		}
	}

	return mapped
}

// Next implements Producer.
func (m *mappedProducer[A, B]) Next() fn.Option[B] {
	return fn.MapOption(m.f)(m.src.Next())
}

// sizedMappedProducer is a mappedProducer whose source knows how many
// elements it has left.
type sizedMappedProducer[A, B any] struct {
	*mappedProducer[A, B]

	sized SizedProducer
}

// Remaining implements SizedProducer.
func (m *sizedMappedProducer[A, B]) Remaining() int {
	return m.sized.Remaining()
}
