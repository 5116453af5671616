package buddy

import "math/bits"

// orderFor returns the smallest order whose block holds size bytes, clamped
// upward to min. Sizes of zero or below are treated as a minimum-order
// request, not an error.
//
// Example (min = 12):
//
//	orderFor(1)    = 12
//	orderFor(4096) = 12
//	orderFor(4097) = 13
func orderFor(size, min int) int {
	if size <= 1 {
		return min
	}
	o := bits.Len(uint(size - 1)) // ceil(log2(size))
	if o < min {
		return min
	}
	return o
}

// blockBytes returns the size in bytes of a block of the given order.
func blockBytes(order int) int {
	return 1 << order
}

// buddyOf returns the unit index of the buddy of the block starting at unit
// idx at the given order. The two offsets differ in exactly one bit
// (offset XOR 2^order), so the operation is its own inverse.
func buddyOf(idx, order, min int) int {
	return idx ^ (1 << (order - min))
}
