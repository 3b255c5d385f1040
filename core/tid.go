package core

import (
	"cmp"
	"fmt"
	"slices"
)

// TID is the opaque tuple identifier supplied by the host for each record.
// The index never interprets it beyond ordering; results are emitted in
// ascending (Block, Offset) order so the host can perform sequential heap
// access over a match batch.
type TID struct {
	Block  uint32
	Offset uint16
}

// Compare orders TIDs by (Block, Offset).
func (t TID) Compare(other TID) int {
	if c := cmp.Compare(t.Block, other.Block); c != 0 {
		return c
	}
	return cmp.Compare(t.Offset, other.Offset)
}

// Less reports whether t sorts before other.
func (t TID) Less(other TID) bool {
	return t.Compare(other) < 0
}

// String returns a string representation of the TID.
func (t TID) String() string {
	return fmt.Sprintf("(%d,%d)", t.Block, t.Offset)
}

// SortTIDs sorts tids in ascending (Block, Offset) order in place.
func SortTIDs(tids []TID) {
	slices.SortFunc(tids, TID.Compare)
}
