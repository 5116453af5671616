package buddy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Free_DoubleFree(t *testing.T) {
	a := mustNew(t, Config{MinOrder: 12, MaxOrder: 14})

	ref, _, err := a.Alloc(4096)
	require.NoError(t, err)
	require.NoError(t, a.Free(ref))
	require.ErrorIs(t, a.Free(ref), ErrBadRef)
	requirePartition(t, a)
}

func Test_Free_BadOffsets(t *testing.T) {
	a := mustNew(t, Config{MinOrder: 12, MaxOrder: 14})

	_, _, err := a.Alloc(8192)
	require.NoError(t, err)

	// Misaligned offset.
	require.ErrorIs(t, a.Free(Ref(1)), ErrBadRef)
	// Interior unit of the allocated order-13 block.
	require.ErrorIs(t, a.Free(Ref(4096)), ErrBadRef)
	// Past the end of the arena.
	require.ErrorIs(t, a.Free(Ref(1<<14)), ErrBadRef)
	// Unit-aligned but never allocated (free block start).
	require.ErrorIs(t, a.Free(Ref(8192)), ErrBadRef)

	requirePartition(t, a)
}

// Test_SplitMergeSymmetry allocates a block that forces n splits and checks
// that freeing it performs exactly n merges and restores the pristine state.
func Test_SplitMergeSymmetry(t *testing.T) {
	a := mustNew(t, Config{MinOrder: 12, MaxOrder: 18})

	// One unit out of an order-18 arena: 6 splits down to order 12.
	ref, _, err := a.Alloc(1)
	require.NoError(t, err)
	require.Equal(t, 6, a.Stats().SplitCount)

	require.NoError(t, a.Free(ref))
	require.Equal(t, 6, a.Stats().MergeCount)
	requirePristine(t, a)
}

func Test_Free_PartialMerge(t *testing.T) {
	a := mustNew(t, Config{MinOrder: 12, MaxOrder: 14})

	ref1, _, err := a.Alloc(4096) // unit 0
	require.NoError(t, err)
	ref2, _, err := a.Alloc(4096) // unit 1
	require.NoError(t, err)

	// Freeing unit 0 cannot merge: its buddy (unit 1) is still allocated.
	require.NoError(t, a.Free(ref1))
	require.Zero(t, a.Stats().MergeCount)

	free := func(order int) int {
		for _, s := range a.Dump() {
			if s.Order == order {
				return s.FreeBlocks
			}
		}
		return 0
	}
	require.Equal(t, 1, free(12))
	require.Equal(t, 1, free(13))
	requirePartition(t, a)

	// Freeing unit 1 cascades: 12+12 -> 13, 13+13 -> 14.
	require.NoError(t, a.Free(ref2))
	require.Equal(t, 2, a.Stats().MergeCount)
	requirePristine(t, a)
}

func Test_Free_EitherOrder(t *testing.T) {
	for _, firstLow := range []bool{true, false} {
		a := mustNew(t, Config{MinOrder: 12, MaxOrder: 14})

		refLow, _, err := a.Alloc(4096)
		require.NoError(t, err)
		refHigh, _, err := a.Alloc(4096)
		require.NoError(t, err)

		if firstLow {
			require.NoError(t, a.Free(refLow))
			require.NoError(t, a.Free(refHigh))
		} else {
			require.NoError(t, a.Free(refHigh))
			require.NoError(t, a.Free(refLow))
		}
		requirePristine(t, a)
	}
}

// Test_Free_LowerAddressWins frees the higher-addressed buddy last and checks
// the merged block is anchored at the lower offset.
func Test_Free_LowerAddressWins(t *testing.T) {
	a := mustNew(t, Config{MinOrder: 12, MaxOrder: 13})

	refLow, _, err := a.Alloc(4096)
	require.NoError(t, err)
	refHigh, _, err := a.Alloc(4096)
	require.NoError(t, err)
	require.Less(t, refLow, refHigh)

	require.NoError(t, a.Free(refLow))
	require.NoError(t, a.Free(refHigh))

	d := a.blocks[0]
	require.True(t, d.free)
	require.Equal(t, 13, d.order)
	require.False(t, a.blocks[1].free, "upper buddy must not survive as a block start")
	requirePristine(t, a)
}

// Test_Free_MergeStopsAtSplitBuddy pins down the "same order" guard: a buddy
// region that is free but currently split into smaller blocks must not merge.
func Test_Free_MergeStopsAtSplitBuddy(t *testing.T) {
	a := mustNew(t, Config{MinOrder: 12, MaxOrder: 14})

	ref1, _, err := a.Alloc(8192) // units 0-1, order 13
	require.NoError(t, err)
	ref2, _, err := a.Alloc(4096) // unit 2
	require.NoError(t, err)

	// Units 0-1 become a free order-13 block. Its buddy region (units 2-3)
	// holds an allocated unit and a free unit, so no merge may happen.
	require.NoError(t, a.Free(ref1))
	require.Zero(t, a.Stats().MergeCount)
	requirePartition(t, a)

	require.NoError(t, a.Free(ref2))
	requirePristine(t, a)
}
