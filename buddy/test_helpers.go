package buddy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// onList reports whether the block starting at idx is linked into the free
// list for order.
func onList(a *Allocator, idx, order int) bool {
	for cur := a.heads[order-a.cfg.MinOrder]; cur != noIdx; cur = a.blocks[cur].next {
		if cur == idx {
			return true
		}
	}
	return false
}

// requirePartition walks the descriptor table and asserts the buddy-system
// invariant: the live block starts partition the arena into non-overlapping
// power-of-two blocks aligned to their own size, interior units carry no
// state, and the free flag agrees with free-list membership everywhere.
func requirePartition(t *testing.T, a *Allocator) {
	t.Helper()

	idx := 0
	for idx < len(a.blocks) {
		d := a.blocks[idx]
		require.False(t, d.free && d.allocated, "unit %d both free and allocated", idx)
		require.True(t, d.free || d.allocated, "unit %d starts no live block (gap)", idx)
		require.GreaterOrEqual(t, d.order, a.cfg.MinOrder, "unit %d order below MinOrder", idx)
		require.LessOrEqual(t, d.order, a.cfg.MaxOrder, "unit %d order above MaxOrder", idx)

		span := 1 << (d.order - a.cfg.MinOrder)
		require.Zero(t, idx%span, "unit %d not aligned to its order %d block size", idx, d.order)

		for i := idx + 1; i < idx+span; i++ {
			require.False(t, a.blocks[i].free, "interior unit %d marked free", i)
			require.False(t, a.blocks[i].allocated, "interior unit %d marked allocated", i)
		}

		if d.free {
			require.True(t, onList(a, idx, d.order),
				"unit %d flagged free but missing from list %d", idx, d.order)
		} else {
			require.Equal(t, noIdx, d.next, "allocated unit %d still linked", idx)
			require.Equal(t, noIdx, d.prev, "allocated unit %d still linked", idx)
		}

		idx += span
	}

	// Every listed entry must be a free block of the list's order, and the
	// per-order counters must match the actual list lengths.
	for li := range a.heads {
		n := 0
		for cur := a.heads[li]; cur != noIdx; cur = a.blocks[cur].next {
			require.True(t, a.blocks[cur].free, "listed unit %d not flagged free", cur)
			require.Equal(t, a.cfg.MinOrder+li, a.blocks[cur].order,
				"unit %d on wrong order list", cur)
			n++
			require.LessOrEqual(t, n, len(a.blocks), "cycle in free list for order %d",
				a.cfg.MinOrder+li)
		}
		require.Equal(t, a.counts[li], n, "count mismatch for order %d", a.cfg.MinOrder+li)
	}
}

// requirePristine asserts the post-init state: the entire arena as one free
// block of MaxOrder and nothing else.
func requirePristine(t *testing.T, a *Allocator) {
	t.Helper()

	for _, s := range a.Dump() {
		want := 0
		if s.Order == a.cfg.MaxOrder {
			want = 1
		}
		require.Equal(t, want, s.FreeBlocks, "order %d free count", s.Order)
	}
	require.Equal(t, a.Size(), a.FreeBytes())
	requirePartition(t, a)
}

// mustNew builds an allocator for a test and closes it on cleanup.
func mustNew(t *testing.T, cfg Config) *Allocator {
	t.Helper()
	a, err := New(&cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
	})
	return a
}
