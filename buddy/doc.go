// Package buddy implements a fixed-arena binary buddy allocator.
//
// # Overview
//
// An Allocator owns a single contiguous arena of 2^MaxOrder bytes and hands
// out power-of-two-sized blocks from it. The arena is divided into units of
// 2^MinOrder bytes (the allocation granularity), with one block descriptor
// per unit and one free list per order. Allocation splits larger blocks down
// to the requested order; freeing recombines a block with its buddy whenever
// the buddy is also free, halving external fragmentation over time.
//
// # Usage Example
//
//	a, err := buddy.New(nil) // DefaultConfig: 4KB units, 1MB arena
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	ref, buf, err := a.Alloc(4096)
//	if err != nil {
//	    return err
//	}
//
//	// Write into buf...
//
//	// Later, return the block
//	err = a.Free(ref)
//
// # Orders and Buddies
//
// A block of order o is 2^o bytes long and starts at an offset aligned to its
// own size. Its buddy is the block whose offset differs in exactly one bit
// (offset XOR 2^o); the two together form the block of order o+1. Offsets are
// returned as Ref values relative to the arena base.
//
// # Free Lists
//
// The allocator maintains one doubly-linked free list per order, threaded
// through the descriptor table by unit index. A descriptor's free flag is
// mutated only by the list operations themselves, so flag and membership
// cannot diverge. Allocation and freeing are O(MaxOrder - MinOrder) in the
// worst case (one split or merge per order).
//
// # Failure Modes
//
// Alloc returns ErrNoSpace when no free block of sufficient order exists;
// it never panics on exhaustion. Free returns ErrBadRef for offsets that do
// not name a currently allocated block (including double frees) rather than
// corrupting allocator state.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers with concurrent
// allocations must serialize access externally, e.g. with a single mutex
// around Alloc/Free.
package buddy
