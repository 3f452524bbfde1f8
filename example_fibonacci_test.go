package memoseq_test

import (
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/memoseq"
)

// ExampleMemoSeq memoizes the Fibonacci sequence. Jumping straight to
// index 9 produces indexes 0 through 9 in a single pass, after which
// earlier indexes are answered from the cache and Take hands the whole
// produced prefix back.
func ExampleMemoSeq() {
	// Each Fibonacci number is derived from the two before it, so the
	// producer slides a window of two values along the sequence and
	// yields the older one.
	type window struct {
		a, b int
	}

	fib := memoseq.NewMemoSeq(memoseq.Map(
		memoseq.Successors(
			fn.Some(window{a: 0, b: 1}),
			func(w window) fn.Option[window] {
				return fn.Some(window{
					a: w.b,
					b: w.a + w.b,
				})
			},
		),
		func(w window) int {
			return w.a
		},
	))

	fmt.Println(fib.Get(0).UnwrapOr(-1))
	fmt.Println(fib.Get(1).UnwrapOr(-1))
	fmt.Println(fib.Get(4).UnwrapOr(-1))
	fmt.Println(fib.Get(9).UnwrapOr(-1))

	// Index 3 was produced as a byproduct of index 4, so this is a
	// plain cache hit.
	fmt.Println(fib.Get(3).UnwrapOr(-1))

	seq, _ := fib.Take()
	fmt.Println(seq)

	// Output:
	// 0
	// 1
	// 3
	// 34
	// 2
	// [0 1 1 2 3 5 8 13 21 34]
}
