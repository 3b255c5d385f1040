// Package snapshot serializes an index to a compact binary form and back.
//
// The index itself is memory-resident; a snapshot is an optional
// convenience so a host can restore an index without rescanning its heap.
// Only the slot table (TIDs, cached record bytes), tombstones, free list
// and counters are stored. The positional and length bitmap structures are
// rebuilt from the cached records on load, so a snapshot can never
// reintroduce drift between the slot table and the bitmaps.
//
// Layout: a fixed header (magic, version, compression type, CRC32 of the
// payload) followed by one compressed payload. Payload compression is
// selectable between none, LZ4 blocks and zstd.
package snapshot
