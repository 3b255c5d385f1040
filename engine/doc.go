// Package engine implements the position-indexed bitmap core of the
// biscuit index.
//
// For every live record the engine maintains, per byte value, a bitmap of
// slots having that byte at each position from the start (forward index)
// and at each offset from the end (reverse index), plus bitmaps keyed by
// exact record length and by minimum record length. A wildcard pattern is
// answered by composing these bitmaps: literal bytes intersect positional
// bitmaps, '_' wildcards are consumed by position arithmetic alone, and
// '%' boundaries drive a windowed recursion over candidate start
// positions.
//
// Deletes are lazy: a deleted slot is tombstoned and pushed onto a free
// list, and its bitmap imprint stays until the tombstone count crosses a
// threshold, Compact is called, or the slot is reused. Queries subtract tombstones from every result, so
// lazy deletion is never observable.
//
// The engine is single-writer, multi-reader: mutating operations take the
// write lock, queries share the read lock and see a consistent snapshot
// for their whole duration.
package engine
