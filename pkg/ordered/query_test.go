package ordered

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func dateByTen(id MessageID) int64 { return int64(id) * 10 }

func TestFindOlderAndNewer(t *testing.T) {
	idx := &Index{}
	for _, id := range []MessageID{50, 10, 30, 20, 40} {
		idx.Insert(id)
	}

	require.Equal(t, []MessageID{10, 20, 30}, idx.FindOlder(30))
	require.Equal(t, []MessageID{10, 20, 30, 40, 50}, idx.FindOlder(99))
	require.Empty(t, idx.FindOlder(5))

	require.Equal(t, []MessageID{40, 50}, idx.FindNewer(30))
	require.Empty(t, idx.FindNewer(50))
	require.Equal(t, []MessageID{10, 20, 30, 40, 50}, idx.FindNewer(0))
}

func TestFindByDate(t *testing.T) {
	idx := &Index{}
	for _, id := range []MessageID{10, 20, 30} {
		idx.Insert(id)
	}

	// Exact hit.
	require.Equal(t, MessageID(20), idx.FindByDate(200, dateByTen))
	// Between two messages: the newest not exceeding the target wins.
	require.Equal(t, MessageID(20), idx.FindByDate(250, dateByTen))
	// Before everything.
	require.Equal(t, MessageID(0), idx.FindByDate(50, dateByTen))
	// After everything.
	require.Equal(t, MessageID(30), idx.FindByDate(9999, dateByTen))
}

func TestFindRangeByDate(t *testing.T) {
	idx := &Index{}
	for _, id := range []MessageID{10, 20, 30, 40} {
		idx.Insert(id)
	}

	require.Equal(t, []MessageID{20, 30}, idx.FindRangeByDate(150, 350, dateByTen))
	require.Equal(t, []MessageID{10, 20, 30, 40}, idx.FindRangeByDate(0, 9999, dateByTen))
	require.Empty(t, idx.FindRangeByDate(450, 500, dateByTen))
}

func TestTraversePrunes(t *testing.T) {
	idx := &Index{}
	for _, id := range []MessageID{10, 20, 30, 40, 50} {
		idx.Insert(id)
	}

	var visited []MessageID
	idx.Traverse(
		func(id MessageID) bool {
			visited = append(visited, id)
			return true
		},
		func(MessageID) bool { return true },
	)
	require.ElementsMatch(t, []MessageID{10, 20, 30, 40, 50}, visited)

	visited = nil
	idx.Traverse(
		func(id MessageID) bool {
			visited = append(visited, id)
			return false
		},
		func(MessageID) bool { return false },
	)
	// Both directions pruned at the root: nothing below it is reached.
	require.Len(t, visited, 1)
}
