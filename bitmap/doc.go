// Package bitmap provides the compressed slot-set primitive of the index.
//
// Every structure in the engine — positional character bitmaps, length
// bitmaps, tombstones, query intermediates — is a set of 32-bit slot
// numbers. Bitmap wraps a Roaring bitmap, which picks an array, bitset or
// run-length container per 64K chunk depending on density, so point
// mutations are cheap on sparse sets and set algebra is cheap on dense
// ones.
package bitmap
