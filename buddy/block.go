package buddy

// noIdx marks an unlinked descriptor slot or an empty list head.
const noIdx = -1

// blockDesc is the per-unit block descriptor. The order and flags are only
// meaningful on the unit that starts a live block; interior units of a live
// block carry neither flag.
//
// The free flag is written exclusively by pushFree/popFree/unlinkFree, so it
// is always consistent with list membership: free == true if and only if the
// unit is linked into the free list for its order.
type blockDesc struct {
	next      int  // free-list forward link by unit index; noIdx when unlisted
	prev      int  // free-list backward link; noIdx when unlisted or at head
	order     int  // order of the block starting at this unit
	free      bool // on a free list
	allocated bool // starts an allocated block
}

// pushFree links the block starting at idx onto the head of the free list
// for order, recording the order and marking the block free.
func (a *Allocator) pushFree(idx, order int) {
	li := order - a.cfg.MinOrder
	d := &a.blocks[idx]
	d.order = order
	d.free = true
	d.prev = noIdx
	d.next = a.heads[li]
	if d.next != noIdx {
		a.blocks[d.next].prev = idx
	}
	a.heads[li] = idx
	a.counts[li]++
}

// popFree unlinks and returns the head block of the free list for order,
// which must be non-empty.
func (a *Allocator) popFree(order int) int {
	li := order - a.cfg.MinOrder
	idx := a.heads[li]
	d := &a.blocks[idx]
	a.heads[li] = d.next
	if d.next != noIdx {
		a.blocks[d.next].prev = noIdx
	}
	d.next, d.prev = noIdx, noIdx
	d.free = false
	a.counts[li]--
	return idx
}

// unlinkFree removes the block starting at idx from the free list for order.
// Used during coalescing, where the buddy sits at an arbitrary list position.
func (a *Allocator) unlinkFree(idx, order int) {
	li := order - a.cfg.MinOrder
	d := &a.blocks[idx]
	if d.prev == noIdx {
		a.heads[li] = d.next
	} else {
		a.blocks[d.prev].next = d.next
	}
	if d.next != noIdx {
		a.blocks[d.next].prev = d.prev
	}
	d.next, d.prev = noIdx, noIdx
	d.free = false
	a.counts[li]--
}
