package engine

import "github.com/hupe1980/biscuit/bitmap"

// growLengths ensures the length structures cover records of length ell.
// lenEq entries are created lazily on first use; lenGE entries are always
// materialized so minimum-length filters are a single lookup.
func (e *Engine) growLengths(ell int) {
	for len(e.lenEq) <= ell {
		e.lenEq = append(e.lenEq, nil)
	}
	for len(e.lenGE) <= ell {
		e.lenGE = append(e.lenGE, bitmap.New())
	}
}

// lengthEq returns the bitmap of records with length exactly ell, or nil.
func (e *Engine) lengthEq(ell int) *bitmap.Bitmap {
	if ell < 0 || ell >= len(e.lenEq) {
		return nil
	}
	return e.lenEq[ell]
}

// lengthEqClone returns a mutable copy of lengthEq(ell).
func (e *Engine) lengthEqClone(ell int) *bitmap.Bitmap {
	bm := e.lengthEq(ell)
	if bm == nil {
		return bitmap.New()
	}
	return bm.Clone()
}

// lengthGE returns the bitmap of records with length >= k, or nil if k
// exceeds every length the structures have grown to. The bitmap may be
// empty once such records are deleted. The returned bitmap is shared and
// must not be mutated.
func (e *Engine) lengthGE(k int) *bitmap.Bitmap {
	if k < 0 || k >= len(e.lenGE) {
		return nil
	}
	return e.lenGE[k]
}

// lengthGEClone returns a mutable copy of lengthGE(k).
func (e *Engine) lengthGEClone(k int) *bitmap.Bitmap {
	bm := e.lengthGE(k)
	if bm == nil {
		return bitmap.New()
	}
	return bm.Clone()
}
