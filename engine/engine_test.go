package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/biscuit/core"
)

func tid(n int) core.TID {
	return core.TID{Block: uint32(n), Offset: 1}
}

func insertAll(t *testing.T, e *Engine, records map[int]string) {
	t.Helper()
	for n, s := range records {
		require.NoError(t, e.Insert(tid(n), []byte(s)))
	}
}

func queryBlocks(e *Engine, pat string) []int {
	tids := e.Query([]byte(pat))
	out := make([]int, len(tids))
	for i, tt := range tids {
		out[i] = int(tt.Block)
	}
	return out
}

func TestQueryAnchors(t *testing.T) {
	e := New()
	insertAll(t, e, map[int]string{
		1: "admin",
		2: "administrator",
		3: "user_admin",
		4: "john",
	})

	assert.ElementsMatch(t, []int{1, 2}, queryBlocks(e, "admin%"))
	assert.ElementsMatch(t, []int{1, 3}, queryBlocks(e, "%admin"))
	assert.ElementsMatch(t, []int{1, 2, 3}, queryBlocks(e, "%admin%"))
	assert.ElementsMatch(t, []int{1}, queryBlocks(e, "admin"))
	assert.Empty(t, queryBlocks(e, "nothing"))
}

func TestQuerySingleCharWildcard(t *testing.T) {
	e := New()
	insertAll(t, e, map[int]string{
		1: "user_123",
		2: "user_456",
		3: "user_789",
	})

	// '_' matches any single byte, including a literal underscore.
	assert.ElementsMatch(t, []int{1}, queryBlocks(e, "user_1%3"))
	assert.ElementsMatch(t, []int{1, 2, 3}, queryBlocks(e, "user____"))
	assert.ElementsMatch(t, []int{1, 2, 3}, queryBlocks(e, "_ser%"))
	assert.Empty(t, queryBlocks(e, "user___"))
}

func TestQueryEmptyStringAndPattern(t *testing.T) {
	e := New()
	insertAll(t, e, map[int]string{1: ""})

	assert.ElementsMatch(t, []int{1}, queryBlocks(e, ""))
	assert.ElementsMatch(t, []int{1}, queryBlocks(e, "%"))
	assert.Empty(t, queryBlocks(e, "_"))
}

func TestQueryCaseSensitive(t *testing.T) {
	e := New()
	insertAll(t, e, map[int]string{1: "Admin"})

	assert.Empty(t, queryBlocks(e, "admin"))
	assert.ElementsMatch(t, []int{1}, queryBlocks(e, "Admin"))
}

func TestInsertNullIsNoop(t *testing.T) {
	e := New()

	require.NoError(t, e.Insert(tid(1), nil))
	require.NoError(t, e.Insert(tid(2), []byte("a")))

	assert.ElementsMatch(t, []int{2}, queryBlocks(e, "%"))
	assert.Equal(t, 1, e.Stats().ActiveRecords)
	assert.Equal(t, uint64(1), e.Stats().Inserts)
}

func TestInsertTruncation(t *testing.T) {
	e := New()

	long := strings.Repeat("x", 300) + "y"
	require.NoError(t, e.Insert(tid(1), []byte(long)))

	// The record is cut at 256 bytes, so the trailing 'y' is invisible
	// and the effective length is exactly 256.
	assert.Empty(t, queryBlocks(e, "%y"))
	assert.ElementsMatch(t, []int{1}, queryBlocks(e, "%x"))
	assert.ElementsMatch(t, []int{1}, queryBlocks(e, strings.Repeat("x", 256)))
	assert.Empty(t, queryBlocks(e, strings.Repeat("x", 257)))
	assert.Equal(t, MaxPositions, e.Stats().MaxLength)
}

func TestQueryResultOrdering(t *testing.T) {
	e := New()

	// Insert in descending TID order; results must come back ascending.
	require.NoError(t, e.Insert(core.TID{Block: 9, Offset: 2}, []byte("abc")))
	require.NoError(t, e.Insert(core.TID{Block: 9, Offset: 1}, []byte("abd")))
	require.NoError(t, e.Insert(core.TID{Block: 2, Offset: 5}, []byte("abe")))

	got := e.Query([]byte("ab%"))
	require.Len(t, got, 3)
	assert.Equal(t, core.TID{Block: 2, Offset: 5}, got[0])
	assert.Equal(t, core.TID{Block: 9, Offset: 1}, got[1])
	assert.Equal(t, core.TID{Block: 9, Offset: 2}, got[2])
}

func TestBuildTwoPass(t *testing.T) {
	e := New()

	records := func(yield func(core.TID, []byte) bool) {
		rows := []struct {
			n   int
			val []byte
		}{
			{1, []byte("alpha")},
			{2, nil}, // null column value
			{3, []byte("beta")},
			{4, []byte("")},
		}
		for _, r := range rows {
			if !yield(tid(r.n), r.val) {
				return
			}
		}
	}

	count, err := e.Build(records)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.ElementsMatch(t, []int{1, 3, 4}, queryBlocks(e, "%"))
	assert.ElementsMatch(t, []int{1}, queryBlocks(e, "alpha"))
	assert.ElementsMatch(t, []int{3}, queryBlocks(e, "%eta"))
	assert.ElementsMatch(t, []int{4}, queryBlocks(e, ""))

	// Build does not count as CRUD activity.
	assert.Zero(t, e.Stats().Inserts)
}

func TestStatsText(t *testing.T) {
	e := New()
	insertAll(t, e, map[int]string{1: "abc", 2: "defgh"})

	stats := e.Stats()
	assert.Equal(t, 2, stats.ActiveRecords)
	assert.Equal(t, 2, stats.TotalSlots)
	assert.Equal(t, 5, stats.MaxLength)

	text := stats.String()
	assert.Contains(t, text, "Active records: 2")
	assert.Contains(t, text, "Max length: 5")
}
