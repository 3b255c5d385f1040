package engine

import (
	"cmp"
	"slices"

	"github.com/hupe1980/biscuit/bitmap"
	"github.com/hupe1980/biscuit/core"
)

// posEntry pairs a position with the bitmap of slots carrying the entry's
// byte value there. Forward entries use positions from the start of the
// record; reverse entries use negative offsets from the end.
type posEntry struct {
	pos int
	bm  *bitmap.Bitmap
}

// charIndex keeps one byte value's position bitmaps as a slice sorted by
// position. Per-character lists are small and mostly contiguous, so sorted
// slices with binary search beat a map on both lookup cost and cache
// behavior during the windowed recursion.
type charIndex struct {
	entries []posEntry
}

func comparePosEntry(e posEntry, pos int) int {
	return cmp.Compare(e.pos, pos)
}

// get returns the bitmap at pos, or nil if no record carries this byte
// there.
func (ci *charIndex) get(pos int) *bitmap.Bitmap {
	i, ok := slices.BinarySearchFunc(ci.entries, pos, comparePosEntry)
	if !ok {
		return nil
	}
	return ci.entries[i].bm
}

// getOrCreate returns the bitmap at pos, inserting an empty one in sorted
// position if absent.
func (ci *charIndex) getOrCreate(pos int) *bitmap.Bitmap {
	i, ok := slices.BinarySearchFunc(ci.entries, pos, comparePosEntry)
	if ok {
		return ci.entries[i].bm
	}
	bm := bitmap.New()
	ci.entries = slices.Insert(ci.entries, i, posEntry{pos: pos, bm: bm})
	return bm
}

// remove drops slot s from the bitmap at pos, if present.
func (ci *charIndex) remove(pos int, s core.SlotID) {
	if bm := ci.get(pos); bm != nil {
		bm.Remove(s)
	}
}
