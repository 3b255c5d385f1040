package core

// SlotID is a dense, internal identifier for a record within the index.
// It is strictly 32-bit, allowing for max 4 Billion records per index.
// Used for all hot-path structures (positional bitmaps, length bitmaps,
// tombstones, free list).
type SlotID uint32

// MaxSlotID is the maximum possible value for a SlotID.
const MaxSlotID = ^SlotID(0)
