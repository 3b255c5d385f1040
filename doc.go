// Package biscuit provides an embedded secondary index that accelerates
// LIKE-style wildcard matching ('%' and '_') over short text records.
//
// The index maps (byte value, position) pairs to compressed bitmaps of
// record slots and answers a pattern by composing those bitmaps, so a
// query like "_a_b_c%" costs a handful of bitmap intersections instead of
// a scan. The host supplies a tuple identifier (TID) per record and gets
// back the sorted TIDs of all matches.
//
// Basic usage:
//
//	ix := biscuit.Open()
//	_ = ix.Insert(core.TID{Block: 1, Offset: 1}, []byte("admin"))
//	_ = ix.Insert(core.TID{Block: 1, Offset: 2}, []byte("administrator"))
//
//	scan, _ := ix.BeginScan([]byte("admin%"))
//	defer scan.Close()
//	for tid, ok := scan.Next(); ok; tid, ok = scan.Next() {
//	    // sequential heap access in TID order
//	    _ = tid
//	}
//
// Mutations are serialized internally; queries run concurrently with each
// other and see a consistent snapshot for their whole duration.
package biscuit
