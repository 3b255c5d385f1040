package engine

import (
	"fmt"
	"strings"

	"github.com/hupe1980/biscuit/core"
)

// Stats is a point-in-time summary of the engine's slot and CRUD state.
type Stats struct {
	ActiveRecords int
	TotalSlots    int
	FreeSlots     int
	Tombstones    int
	MaxLength     int

	Inserts uint64
	Updates uint64
	Deletes uint64
}

// Stats returns a consistent snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	active := 0
	for s := range e.data {
		if e.data[s] != nil && !e.tombstones.Contains(core.SlotID(s)) {
			active++
		}
	}

	return Stats{
		ActiveRecords: active,
		TotalSlots:    len(e.tids),
		FreeSlots:     len(e.freeList),
		Tombstones:    e.tombstoneCount,
		MaxLength:     e.maxLen,
		Inserts:       e.inserts,
		Updates:       e.updates,
		Deletes:       e.deletes,
	}
}

// String renders the stats as a free-form diagnostic text. The format is
// not a stable wire contract.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Biscuit Index Statistics\n")
	fmt.Fprintf(&b, "========================\n")
	fmt.Fprintf(&b, "Active records: %d\n", s.ActiveRecords)
	fmt.Fprintf(&b, "Total slots: %d\n", s.TotalSlots)
	fmt.Fprintf(&b, "Free slots: %d\n", s.FreeSlots)
	fmt.Fprintf(&b, "Tombstones: %d\n", s.Tombstones)
	fmt.Fprintf(&b, "Max length: %d\n", s.MaxLength)
	fmt.Fprintf(&b, "------------------------\n")
	fmt.Fprintf(&b, "Inserts: %d\n", s.Inserts)
	fmt.Fprintf(&b, "Updates: %d\n", s.Updates)
	fmt.Fprintf(&b, "Deletes: %d\n", s.Deletes)
	return b.String()
}
