package engine

import (
	"fmt"
	"slices"

	"github.com/hupe1980/biscuit/core"
	"github.com/hupe1980/biscuit/snapshot"
)

// ExportState copies the engine's slot table and deletion bookkeeping into
// a snapshot state. The positional and length structures are not exported;
// NewFromState re-derives them from the cached record bytes.
func (e *Engine) ExportState() *snapshot.State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	records := make([][]byte, len(e.data))
	for s, rec := range e.data {
		if rec != nil {
			records[s] = slices.Clone(rec)
		}
	}

	return &snapshot.State{
		TIDs:       slices.Clone(e.tids),
		Records:    records,
		Tombstones: e.tombstones.Clone(),
		FreeList:   slices.Clone(e.freeList),
		Inserts:    e.inserts,
		Updates:    e.updates,
		Deletes:    e.deletes,
	}
}

// NewFromState rebuilds an engine from a snapshot state. Every slot with
// cached record bytes — tombstoned ones included — gets its bitmap imprint
// re-derived, which reproduces the pre-snapshot structures exactly and
// re-establishes all invariants by construction.
func NewFromState(st *snapshot.State, opts ...Option) (*Engine, error) {
	if len(st.TIDs) != len(st.Records) {
		return nil, fmt.Errorf("state has %d tids for %d records", len(st.TIDs), len(st.Records))
	}

	e := New(opts...)

	e.tids = slices.Clone(st.TIDs)
	e.data = make([][]byte, len(st.Records))
	for s, rec := range st.Records {
		if rec == nil {
			continue
		}
		if len(rec) > MaxPositions {
			rec = rec[:MaxPositions]
		}
		e.data[s] = slices.Clone(rec)
		if len(rec) > e.maxLen {
			e.maxLen = len(rec)
		}
	}

	e.growLengths(e.maxLen)
	for s, rec := range e.data {
		if rec == nil {
			continue
		}
		slot := core.SlotID(s)
		e.addPositional(slot, rec)
		e.addLengths(slot, len(rec))
	}

	if st.Tombstones != nil {
		e.tombstones = st.Tombstones.Clone()
	}
	e.tombstoneCount = int(e.tombstones.Cardinality())
	e.freeList = slices.Clone(st.FreeList)
	e.inserts = st.Inserts
	e.updates = st.Updates
	e.deletes = st.Deletes

	e.logger.Info("index restored from snapshot",
		"slots", len(e.tids), "tombstones", e.tombstoneCount, "max_len", e.maxLen)

	return e, nil
}
