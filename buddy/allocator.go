package buddy

import (
	"fmt"
	"os"

	"github.com/joshuapare/buddykit/internal/arena"
)

// Debug flag - set to true to enable verbose logging (compile-time toggle).
const debugBuddy = false

// Ref is a block offset in bytes relative to the arena base.
type Ref = uint32

// Allocator is a binary buddy allocator over a single fixed arena.
//
// The arena holds 2^MaxOrder bytes split into 2^(MaxOrder-MinOrder) units;
// every live block starts on a unit boundary aligned to its own size. At any
// time the live blocks (free plus allocated) partition the arena exactly.
type Allocator struct {
	cfg Config

	// mem is the backing arena; len(mem) == 2^MaxOrder.
	mem     []byte
	release func() error

	// blocks holds one descriptor per 2^MinOrder-byte unit.
	blocks []blockDesc

	// heads and counts index the free lists by order - MinOrder.
	heads  []int
	counts []int

	stats Stats
}

// New constructs an allocator owning a fresh arena of 2^cfg.MaxOrder bytes.
// A nil cfg selects DefaultConfig. Errors wrap ErrBadConfig for invalid
// geometry; mapping failures are reported as-is.
func New(cfg *Config) (*Allocator, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mem, release, err := arena.Map(blockBytes(cfg.MaxOrder))
	if err != nil {
		return nil, fmt.Errorf("buddy: map arena: %w", err)
	}

	a := &Allocator{
		cfg:     *cfg,
		mem:     mem,
		release: release,
		blocks:  make([]blockDesc, cfg.units()),
		heads:   make([]int, cfg.orders()),
		counts:  make([]int, cfg.orders()),
	}
	a.Reset()
	return a, nil
}

// Reset restores the post-New state: all descriptors cleared, all lists
// emptied, and the whole arena listed as a single free block of MaxOrder.
// Any outstanding Refs become invalid. Not safe to call while allocated
// blocks are still in use.
func (a *Allocator) Reset() {
	for i := range a.blocks {
		a.blocks[i] = blockDesc{next: noIdx, prev: noIdx}
	}
	for i := range a.heads {
		a.heads[i] = noIdx
		a.counts[i] = 0
	}
	a.stats = Stats{}
	a.pushFree(0, a.cfg.MaxOrder)
}

// Close releases the backing arena. The allocator must not be used after
// Close returns.
func (a *Allocator) Close() error {
	if a.release == nil {
		return nil
	}
	rel := a.release
	a.release = nil
	a.mem = nil
	return rel()
}

// Alloc returns a block of capacity >= size bytes: its arena offset plus the
// block's payload slice. Sizes of zero or below are clamped to one unit
// rather than rejected. Returns ErrNoSpace, with no state modified, when no
// free block of sufficient order exists.
func (a *Allocator) Alloc(size int) (Ref, []byte, error) {
	a.stats.AllocCalls++

	k := orderFor(size, a.cfg.MinOrder)
	if k > a.cfg.MaxOrder {
		// Larger than the whole arena; same failure as exhaustion.
		a.stats.FailedAllocs++
		return 0, nil, ErrNoSpace
	}

	// Fast path is an exact-fit pop from list k; otherwise scan upward for
	// the first order with a free block.
	m := k
	for m <= a.cfg.MaxOrder && a.heads[m-a.cfg.MinOrder] == noIdx {
		m++
	}
	if m > a.cfg.MaxOrder {
		a.stats.FailedAllocs++
		debugLogf("Alloc(%d): no free block at orders %d..%d", size, k, a.cfg.MaxOrder)
		return 0, nil, ErrNoSpace
	}

	idx := a.popFree(m)

	// Split down to the requested order. Each step parks the upper half
	// (offset XOR 2^(o-1)) on the free list one order below; the lower half
	// keeps the block's offset and is split further.
	for o := m; o > k; o-- {
		upper := buddyOf(idx, o-1, a.cfg.MinOrder)
		a.pushFree(upper, o-1)
		a.stats.SplitCount++
	}

	d := &a.blocks[idx]
	d.order = k
	d.allocated = true

	n := blockBytes(k)
	off := idx << a.cfg.MinOrder
	a.stats.BytesAllocated += int64(n)
	return Ref(off), a.mem[off : off+n : off+n], nil
}

// Free returns the block at ref to the allocator, merging it with its buddy
// while the buddy is a free block of the same order. The merged block keeps
// the lower of the two offsets at every step. ref must come from a prior
// successful Alloc and not have been freed since; anything else (interior
// unit, misaligned or out-of-range offset, double free) returns ErrBadRef
// with the allocator untouched.
func (a *Allocator) Free(ref Ref) error {
	a.stats.FreeCalls++

	idx, err := a.unitIndex(ref)
	if err != nil {
		return err
	}
	d := &a.blocks[idx]
	if !d.allocated {
		return ErrBadRef
	}

	order := d.order
	d.allocated = false
	a.stats.BytesFreed += int64(blockBytes(order))

	for order < a.cfg.MaxOrder {
		bud := buddyOf(idx, order, a.cfg.MinOrder)
		bd := &a.blocks[bud]
		if !bd.free || bd.order != order {
			// Buddy is allocated, an interior unit, or free at a different
			// order (partially split); stop merging here.
			break
		}
		a.unlinkFree(bud, order)
		if bud < idx {
			idx = bud // lower address wins as the merged block's start
		}
		order++
		a.stats.MergeCount++
	}

	a.pushFree(idx, order)
	return nil
}

// Size returns the arena capacity in bytes.
func (a *Allocator) Size() int { return blockBytes(a.cfg.MaxOrder) }

// UnitSize returns the allocation granularity in bytes.
func (a *Allocator) UnitSize() int { return blockBytes(a.cfg.MinOrder) }

// FreeBytes returns the total bytes currently sitting on the free lists.
func (a *Allocator) FreeBytes() int {
	total := 0
	for i, n := range a.counts {
		total += n * blockBytes(a.cfg.MinOrder+i)
	}
	return total
}

// unitIndex resolves ref to a unit index, rejecting offsets outside the
// arena or not aligned to the unit size.
func (a *Allocator) unitIndex(ref Ref) (int, error) {
	off := int(ref)
	if off < 0 || off >= len(a.mem) || off&(a.UnitSize()-1) != 0 {
		return 0, ErrBadRef
	}
	return off >> a.cfg.MinOrder, nil
}

// debugLogf prints debug messages if debugBuddy is enabled.
func debugLogf(format string, args ...any) {
	if debugBuddy {
		fmt.Fprintf(os.Stderr, "[BUDDY] "+format+"\n", args...)
	}
}
