package ordered

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttachToPrevious(t *testing.T) {
	idx := &Index{}
	idx.Insert(10)
	idx.Insert(20)

	idx.AttachToPrevious(20)
	require.True(t, idx.Get(20).HavePrevious)
	require.True(t, idx.Get(10).HaveNext)
	require.False(t, idx.Get(20).HaveNext)
}

func TestAttachToPreviousCopiesKnownNext(t *testing.T) {
	idx := &Index{}
	idx.Insert(10)
	idx.Insert(20)
	idx.Get(10).HaveNext = true

	idx.AttachToPrevious(20)
	require.True(t, idx.Get(20).HavePrevious)
	// The predecessor already knew its next message, so the knowledge
	// transfers to the newly attached entry instead.
	require.True(t, idx.Get(20).HaveNext)
}

func TestAttachToNext(t *testing.T) {
	idx := &Index{}
	idx.Insert(10)
	idx.Insert(20)

	idx.AttachToNext(10)
	require.True(t, idx.Get(10).HaveNext)
	require.True(t, idx.Get(20).HavePrevious)
}

func TestAttachIdempotent(t *testing.T) {
	idx := &Index{}
	idx.Insert(10)
	idx.Insert(20)
	idx.Insert(30)

	idx.AttachToPrevious(20)
	prev20, next20 := idx.Get(20).HavePrevious, idx.Get(20).HaveNext
	idx.AttachToPrevious(20)
	require.Equal(t, prev20, idx.Get(20).HavePrevious)
	require.Equal(t, next20, idx.Get(20).HaveNext)

	idx.AttachToNext(20)
	prev20, next20 = idx.Get(20).HavePrevious, idx.Get(20).HaveNext
	idx.AttachToNext(20)
	require.Equal(t, prev20, idx.Get(20).HavePrevious)
	require.Equal(t, next20, idx.Get(20).HaveNext)
}

func TestAttachMissingNeighborPanics(t *testing.T) {
	idx := &Index{}
	idx.Insert(10)
	require.Panics(t, func() { idx.AttachToPrevious(10) })
	require.Panics(t, func() { idx.AttachToNext(10) })
	require.Panics(t, func() { idx.AttachToPrevious(99) })
}

func TestAutoAttachScenario(t *testing.T) {
	idx := &Index{}
	for _, id := range []MessageID{10, 20, 30} {
		idx.Insert(id)
	}

	info := idx.AutoAttach(25, 30, false)
	require.True(t, info.HavePrevious)
	require.False(t, info.HaveNext)
	require.True(t, idx.Get(20).HaveNext)

	msg := idx.Insert(25)
	msg.HavePrevious = info.HavePrevious
	msg.HaveNext = info.HaveNext

	require.Equal(t, []MessageID{10, 20, 25}, idx.FindOlder(25))
	require.Equal(t, []MessageID{30}, idx.FindNewer(25))
}

func TestAutoAttachToNext(t *testing.T) {
	idx := &Index{}
	idx.Insert(20)
	idx.Insert(30)

	// No last message hint and the predecessor knows nothing about its
	// next message, so the new entry attaches forward instead.
	info := idx.AutoAttach(25, 0, false)
	require.False(t, info.HavePrevious)
	require.True(t, info.HaveNext)
}

func TestAutoAttachUnsentNeverAttachesForward(t *testing.T) {
	idx := &Index{}
	idx.Insert(30)

	info := idx.AutoAttach(25, 0, true)
	require.Equal(t, AttachInfo{}, info)
}

func TestAutoAttachDisconnected(t *testing.T) {
	idx := &Index{}
	info := idx.AutoAttach(25, 0, false)
	require.Equal(t, AttachInfo{}, info)

	// A successor that already has a known predecessor is not a valid
	// forward attachment point either.
	idx.Insert(30)
	idx.Get(30).HavePrevious = true
	info = idx.AutoAttach(25, 0, false)
	require.Equal(t, AttachInfo{}, info)
}

func TestAutoAttachBeyondLastMessage(t *testing.T) {
	idx := &Index{}
	idx.Insert(30)

	// 35 is newer than the newest known message, so nothing guarantees the
	// history between 30 and 35 is contiguous.
	info := idx.AutoAttach(35, 30, false)
	require.Equal(t, AttachInfo{}, info)
}

func TestAutoAttachAlreadyIndexedPanics(t *testing.T) {
	idx := &Index{}
	idx.Insert(25)
	require.Panics(t, func() { idx.AutoAttach(25, 0, false) })
}
