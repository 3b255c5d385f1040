package engine

import "github.com/hupe1980/biscuit/core"

// allocSlot returns the slot number for a new record, preferring the free
// list over extending the slot table.
func (e *Engine) allocSlot() (core.SlotID, error) {
	if n := len(e.freeList); n > 0 {
		s := e.freeList[n-1]
		e.freeList = e.freeList[:n-1]
		e.reincarnate(s)
		return s, nil
	}

	if uint64(len(e.tids)) > uint64(core.MaxSlotID) {
		return 0, ErrSlotsExhausted
	}

	s := core.SlotID(len(e.tids))
	e.tids = append(e.tids, core.TID{})
	e.data = append(e.data, nil)
	return s, nil
}

// reincarnate prepares a popped free slot for reuse. A slot popped before
// compaction still carries its previous occupant's bitmap imprint and
// tombstone bit; both are removed so the invariants hold for the slot
// before the new record is written.
func (e *Engine) reincarnate(s core.SlotID) {
	if e.tombstones.CheckedRemove(s) {
		e.tombstoneCount--
	}
	if e.data[s] != nil {
		e.removeImprint(s, e.data[s])
		e.data[s] = nil
	}
}

// markDeleted tombstones a live slot and makes it reusable. The bitmap
// imprint stays until compaction; queries hide it via tombstone
// subtraction. Already-tombstoned slots are left untouched.
func (e *Engine) markDeleted(s core.SlotID) {
	if e.tombstones.Contains(s) {
		return
	}
	e.tombstones.Add(s)
	e.tombstoneCount++
	e.freeList = append(e.freeList, s)
	e.deletes++
}
