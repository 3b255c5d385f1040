package engine

import "time"

// compact removes every tombstoned slot from every bitmap, releases the
// cached record bytes of those slots and clears the tombstone set. Slot
// numbers are not renumbered, so free list entries stay valid. Running
// compact on an empty tombstone set is a no-op, which makes the operation
// idempotent.
//
// Callers must hold the write lock.
func (e *Engine) compact() {
	if e.tombstones.IsEmpty() {
		e.tombstoneCount = 0
		return
	}

	start := time.Now()
	removed := e.tombstoneCount

	for c := 0; c < charRange; c++ {
		for i := range e.fwd[c].entries {
			e.fwd[c].entries[i].bm.AndNot(e.tombstones)
		}
		for i := range e.rev[c].entries {
			e.rev[c].entries[i].bm.AndNot(e.tombstones)
		}
		if e.charAny[c] != nil {
			e.charAny[c].AndNot(e.tombstones)
		}
	}

	for _, bm := range e.lenEq {
		if bm != nil {
			bm.AndNot(e.tombstones)
		}
	}
	for _, bm := range e.lenGE {
		bm.AndNot(e.tombstones)
	}

	for s := range e.tombstones.Iterator() {
		e.data[s] = nil
	}

	e.tombstones.Clear()
	e.tombstoneCount = 0

	e.logger.Info("compaction complete", "removed", removed)
	e.metrics.OnCompaction(time.Since(start), removed)
}
