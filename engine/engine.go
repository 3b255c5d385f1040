package engine

import (
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/hupe1980/biscuit/bitmap"
	"github.com/hupe1980/biscuit/core"
)

// MaxPositions is the number of byte positions the index tracks per
// record. Longer records are truncated on ingest, so patterns addressing
// positions at or beyond MaxPositions cannot match anything there.
const MaxPositions = 256

// charRange is the number of distinct byte values.
const charRange = 256

// Engine is the position-indexed bitmap core. One Engine serves one
// indexed column of one relation; the host supplies a TID per record and
// gets TIDs back from queries.
type Engine struct {
	mu sync.RWMutex

	// fwd maps (byte, position from start) to the slots carrying that
	// byte there; rev does the same keyed by negative offset from the
	// end. charAny[c] holds the slots whose record contains c anywhere.
	fwd     [charRange]charIndex
	rev     [charRange]charIndex
	charAny [charRange]*bitmap.Bitmap

	// lenEq[l] holds slots of length exactly l (nil until first use);
	// lenGE[k] holds slots of length >= k.
	lenEq  []*bitmap.Bitmap
	lenGE  []*bitmap.Bitmap
	maxLen int

	// Slot table: TID and cached record bytes per slot. A nil record
	// marks a freed slot. len(tids) is the slot high-water mark.
	tids []core.TID
	data [][]byte

	tombstones     *bitmap.Bitmap
	freeList       []core.SlotID
	tombstoneCount int
	threshold      int

	inserts uint64
	updates uint64
	deletes uint64

	logger  *slog.Logger
	metrics MetricsObserver
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	cfg := config{
		tombstoneThreshold: DefaultTombstoneThreshold,
		initialCapacity:    1024,
		logger:             slog.New(slog.DiscardHandler),
		metrics:            &NoopMetricsObserver{},
	}
	for _, fn := range opts {
		fn(&cfg)
	}

	return &Engine{
		tids:       make([]core.TID, 0, cfg.initialCapacity),
		data:       make([][]byte, 0, cfg.initialCapacity),
		freeList:   make([]core.SlotID, 0, 64),
		tombstones: bitmap.New(),
		threshold:  cfg.tombstoneThreshold,
		logger:     cfg.logger,
		metrics:    cfg.metrics,
	}
}

// Build populates the engine from a record source. Records with nil value
// bytes are skipped (the column was null). It returns the number of
// records indexed.
//
// The build runs in two passes over the slot table: the first assigns
// slots and fills the positional structures while observing the maximum
// record length, the second sizes the length structures exactly and fills
// them. Build may be called on a non-empty engine; new records append.
func (e *Engine) Build(records iter.Seq2[core.TID, []byte]) (int, error) {
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	var assigned []core.SlotID

	for tid, value := range records {
		if value == nil {
			continue
		}
		if len(value) > MaxPositions {
			value = value[:MaxPositions]
		}

		s, err := e.allocSlot()
		if err != nil {
			return len(assigned), err
		}

		buf := make([]byte, len(value))
		copy(buf, value)
		e.tids[s] = tid
		e.data[s] = buf
		e.addPositional(s, buf)
		assigned = append(assigned, s)

		if len(buf) > e.maxLen {
			e.maxLen = len(buf)
		}
	}

	e.growLengths(e.maxLen)
	for _, s := range assigned {
		e.addLengths(s, len(e.data[s]))
	}

	e.logger.Info("index build complete", "records", len(assigned), "max_len", e.maxLen)
	e.metrics.OnBuild(time.Since(start), len(assigned))

	return len(assigned), nil
}

// Insert adds one record. A nil value is a no-op that succeeds (null
// column values are not indexed). Values longer than MaxPositions bytes
// are truncated.
func (e *Engine) Insert(tid core.TID, value []byte) error {
	if value == nil {
		return nil
	}

	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(value) > MaxPositions {
		value = value[:MaxPositions]
	}

	s, err := e.allocSlot()
	if err != nil {
		return err
	}

	buf := make([]byte, len(value))
	copy(buf, value)
	e.tids[s] = tid
	e.data[s] = buf

	e.addPositional(s, buf)
	e.growLengths(len(buf))
	e.addLengths(s, len(buf))
	if len(buf) > e.maxLen {
		e.maxLen = len(buf)
	}

	e.inserts++
	e.metrics.OnInsert(time.Since(start))

	return nil
}

// DeleteStats reports the outcome of a bulk delete.
type DeleteStats struct {
	// TuplesRemoved is the number of slots newly tombstoned.
	TuplesRemoved int
}

// BulkDelete invokes shouldDelete for every live slot's TID and tombstones
// the slots it acknowledges. Crossing the tombstone threshold triggers
// compaction before the call returns.
func (e *Engine) BulkDelete(shouldDelete func(core.TID) bool) DeleteStats {
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	var stats DeleteStats
	for s := range e.data {
		slot := core.SlotID(s)
		if e.data[s] == nil || e.tombstones.Contains(slot) {
			continue
		}
		if shouldDelete(e.tids[s]) {
			e.markDeleted(slot)
			stats.TuplesRemoved++
		}
	}

	if e.tombstoneCount >= e.threshold {
		e.compact()
	}

	e.metrics.OnDelete(time.Since(start), stats.TuplesRemoved)

	return stats
}

// Compact sweeps tombstoned slots out of every bitmap and releases their
// cached record bytes, regardless of the threshold.
func (e *Engine) Compact() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compact()
}

// addPositional writes slot s's forward, reverse and any-position imprint
// for the record bytes buf.
func (e *Engine) addPositional(s core.SlotID, buf []byte) {
	ell := len(buf)
	for p := 0; p < ell; p++ {
		c := buf[p]
		e.fwd[c].getOrCreate(p).Add(s)
		e.rev[c].getOrCreate(p - ell).Add(s)
		if e.charAny[c] == nil {
			e.charAny[c] = bitmap.New()
		}
		e.charAny[c].Add(s)
	}
}

// addLengths writes slot s's length imprint. growLengths(ell) must have
// run.
func (e *Engine) addLengths(s core.SlotID, ell int) {
	if e.lenEq[ell] == nil {
		e.lenEq[ell] = bitmap.New()
	}
	e.lenEq[ell].Add(s)
	for k := 0; k <= ell; k++ {
		e.lenGE[k].Add(s)
	}
}

// removeImprint strips slot s from every bitmap its record bytes put it
// in. The exact inverse of addPositional + addLengths.
func (e *Engine) removeImprint(s core.SlotID, buf []byte) {
	ell := len(buf)
	for p := 0; p < ell; p++ {
		c := buf[p]
		e.fwd[c].remove(p, s)
		e.rev[c].remove(p-ell, s)
		if e.charAny[c] != nil {
			e.charAny[c].Remove(s)
		}
	}
	if bm := e.lengthEq(ell); bm != nil {
		bm.Remove(s)
	}
	for k := 0; k <= ell && k < len(e.lenGE); k++ {
		e.lenGE[k].Remove(s)
	}
}
