package bitmap

import (
	"io"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/biscuit/core"
)

// Bitmap implements a 32-bit compressed bitmap of slot numbers.
// It wraps the official roaring implementation.
type Bitmap struct {
	rb *roaring.Bitmap
}

// New creates a new empty bitmap.
func New() *Bitmap {
	return &Bitmap{
		rb: roaring.New(),
	}
}

// Add adds a SlotID to the bitmap.
func (b *Bitmap) Add(s core.SlotID) {
	b.rb.Add(uint32(s))
}

// Remove removes a SlotID from the bitmap.
func (b *Bitmap) Remove(s core.SlotID) {
	b.rb.Remove(uint32(s))
}

// CheckedRemove removes a SlotID and reports whether it was present.
func (b *Bitmap) CheckedRemove(s core.SlotID) bool {
	return b.rb.CheckedRemove(uint32(s))
}

// Contains checks if a SlotID is in the bitmap.
func (b *Bitmap) Contains(s core.SlotID) bool {
	return b.rb.Contains(uint32(s))
}

// IsEmpty returns true if the bitmap is empty.
func (b *Bitmap) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// Cardinality returns the number of elements in the bitmap.
func (b *Bitmap) Cardinality() uint64 {
	return b.rb.GetCardinality()
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{
		rb: b.rb.Clone(),
	}
}

// And computes the intersection with other in place.
func (b *Bitmap) And(other *Bitmap) {
	b.rb.And(other.rb)
}

// Or computes the union with other in place.
func (b *Bitmap) Or(other *Bitmap) {
	b.rb.Or(other.rb)
}

// AndNot removes all elements of other from b in place.
func (b *Bitmap) AndNot(other *Bitmap) {
	b.rb.AndNot(other.rb)
}

// Clear removes all elements from the bitmap.
func (b *Bitmap) Clear() {
	b.rb.Clear()
}

// Iterator returns an iterator over the bitmap in ascending order.
func (b *Bitmap) Iterator() iter.Seq[core.SlotID] {
	return func(yield func(core.SlotID) bool) {
		it := b.rb.Iterator()
		for it.HasNext() {
			if !yield(core.SlotID(it.Next())) {
				return
			}
		}
	}
}

// ToArray returns the elements in ascending order.
func (b *Bitmap) ToArray() []core.SlotID {
	raw := b.rb.ToArray()
	out := make([]core.SlotID, len(raw))
	for i, v := range raw {
		out[i] = core.SlotID(v)
	}
	return out
}

// RunOptimize converts the bitmap to its most compact canonical form.
// Equal sets have equal serializations afterwards.
func (b *Bitmap) RunOptimize() {
	b.rb.RunOptimize()
}

// GetSizeInBytes returns the size of the bitmap in bytes.
func (b *Bitmap) GetSizeInBytes() uint64 {
	return b.rb.GetSizeInBytes()
}

// WriteTo serializes the bitmap to w in the standard roaring format.
func (b *Bitmap) WriteTo(w io.Writer) (int64, error) {
	return b.rb.WriteTo(w)
}

// ReadFrom deserializes a bitmap from r, replacing the receiver's contents.
func (b *Bitmap) ReadFrom(r io.Reader) (int64, error) {
	return b.rb.ReadFrom(r)
}
