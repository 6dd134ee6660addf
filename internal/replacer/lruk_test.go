package replacer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskdb/duskdb/internal/storage"
)

func TestLRUK_YoungBeforeMature(t *testing.T) {
	r := New(8, 2)

	// Frames 0,1,2 get two accesses each (mature); frame 3 gets one (young).
	for _, f := range []storage.FrameID{0, 1, 2} {
		require.NoError(t, r.RecordAccess(f))
		require.NoError(t, r.RecordAccess(f))
	}
	require.NoError(t, r.RecordAccess(3))

	for _, f := range []storage.FrameID{0, 1, 2, 3} {
		require.NoError(t, r.SetEvictable(f, true))
	}
	require.Equal(t, 4, r.Size())

	victim, ok := r.Evict()
	require.True(t, ok)
	require.Equal(t, storage.FrameID(3), victim, "the only frame with < k accesses is evicted first")
	require.Equal(t, 3, r.Size())
}

func TestLRUK_MatureEvictsSmallestKthMostRecent(t *testing.T) {
	r := New(8, 2)

	// Frame 0: accesses at t=1,2 -> k-th-most-recent (front) = 1
	require.NoError(t, r.RecordAccess(0))
	require.NoError(t, r.RecordAccess(0))
	// Frame 1: accesses at t=3,4 -> front = 3
	require.NoError(t, r.RecordAccess(1))
	require.NoError(t, r.RecordAccess(1))
	// Frame 2: accesses at t=5,6 -> front = 5
	require.NoError(t, r.RecordAccess(2))
	require.NoError(t, r.RecordAccess(2))

	for _, f := range []storage.FrameID{0, 1, 2} {
		require.NoError(t, r.SetEvictable(f, true))
	}

	victim, ok := r.Evict()
	require.True(t, ok)
	require.Equal(t, storage.FrameID(0), victim, "frame 0 has the smallest k-th-most-recent timestamp")
}

func TestLRUK_YoungTiesBrokenByOldestFirstAccess(t *testing.T) {
	r := New(8, 3)

	require.NoError(t, r.RecordAccess(0)) // t=1
	require.NoError(t, r.RecordAccess(1)) // t=2

	require.NoError(t, r.SetEvictable(0, true))
	require.NoError(t, r.SetEvictable(1, true))

	victim, ok := r.Evict()
	require.True(t, ok)
	require.Equal(t, storage.FrameID(0), victim)
}

func TestLRUK_SetEvictableIsIdempotent(t *testing.T) {
	r := New(4, 2)
	require.NoError(t, r.RecordAccess(0))
	require.NoError(t, r.SetEvictable(0, true))
	require.Equal(t, 1, r.Size())
	require.NoError(t, r.SetEvictable(0, true))
	require.Equal(t, 1, r.Size(), "setting the same flag twice must not double count")
}

func TestLRUK_SetEvictableUnknownFrame(t *testing.T) {
	r := New(4, 2)
	require.ErrorIs(t, r.SetEvictable(0, true), ErrFrameNotFound)
}

func TestLRUK_RecordAccessInvalidFrame(t *testing.T) {
	r := New(4, 2)
	require.ErrorIs(t, r.RecordAccess(4), ErrInvalidFrame)
	require.ErrorIs(t, r.RecordAccess(-1), ErrInvalidFrame)
}

func TestLRUK_RemoveUntrackedIsNoop(t *testing.T) {
	r := New(4, 2)
	require.NoError(t, r.Remove(0))
}

func TestLRUK_RemovePinnedFrameIsContractViolation(t *testing.T) {
	r := New(4, 2)
	require.NoError(t, r.RecordAccess(0))
	require.ErrorIs(t, r.Remove(0), ErrNotEvictable)
}

func TestLRUK_RemoveOutOfRange(t *testing.T) {
	r := New(4, 2)
	require.ErrorIs(t, r.Remove(10), ErrInvalidFrame)
}

func TestLRUK_EvictEmptyReturnsFalse(t *testing.T) {
	r := New(4, 2)
	_, ok := r.Evict()
	require.False(t, ok)
}

func TestLRUK_HistoryBoundedToK(t *testing.T) {
	r := New(2, 2)
	for i := 0; i < 5; i++ {
		require.NoError(t, r.RecordAccess(0))
	}
	require.NoError(t, r.SetEvictable(0, true))
	require.NoError(t, r.RecordAccess(1))
	require.NoError(t, r.SetEvictable(1, true))

	// Frame 1 is young (1 access), so it is evicted before mature frame 0
	// no matter how large frame 0's history grew before being truncated.
	victim, ok := r.Evict()
	require.True(t, ok)
	require.Equal(t, storage.FrameID(1), victim)
}
