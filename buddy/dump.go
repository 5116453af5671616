package buddy

import (
	"fmt"
	"strings"
)

// OrderStat summarizes the free blocks of one order.
type OrderStat struct {
	Order      int // block size exponent
	FreeBlocks int // blocks currently on this order's free list
	BlockSize  int // 2^Order bytes
}

// Stats holds lifetime operation counters since New or the last Reset.
type Stats struct {
	AllocCalls     int   // total Alloc() calls
	FailedAllocs   int   // Alloc() calls that returned ErrNoSpace
	FreeCalls      int   // total Free() calls
	SplitCount     int   // blocks split during allocation
	MergeCount     int   // buddy merges during freeing
	BytesAllocated int64 // total bytes handed out (block sizes, not requests)
	BytesFreed     int64 // total bytes returned
}

// Dump reports the free-list state per order, MinOrder first. Read-only;
// safe to call at any time.
func (a *Allocator) Dump() []OrderStat {
	out := make([]OrderStat, a.cfg.orders())
	for i := range out {
		o := a.cfg.MinOrder + i
		out[i] = OrderStat{
			Order:      o,
			FreeBlocks: a.counts[i],
			BlockSize:  blockBytes(o),
		}
	}
	return out
}

// Stats returns the operation counters.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// FormatDump renders per-order free counts on one line, smallest order
// first, e.g. "1:4K 0:8K 1:16K". The layout is for human inspection only.
func FormatDump(stats []OrderStat) string {
	var b strings.Builder
	for i, s := range stats {
		if i > 0 {
			b.WriteByte(' ')
		}
		if s.BlockSize >= 1<<10 {
			fmt.Fprintf(&b, "%d:%dK", s.FreeBlocks, s.BlockSize>>10)
		} else {
			fmt.Fprintf(&b, "%d:%dB", s.FreeBlocks, s.BlockSize)
		}
	}
	return b.String()
}
