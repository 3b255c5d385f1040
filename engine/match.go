package engine

import (
	"time"

	"github.com/hupe1980/biscuit/bitmap"
	"github.com/hupe1980/biscuit/core"
	"github.com/hupe1980/biscuit/pattern"
)

// Query returns the TIDs of all live records matching the wildcard
// pattern, sorted ascending by (block, offset).
func (e *Engine) Query(pat []byte) []core.TID {
	start := time.Now()

	e.mu.RLock()
	defer e.mu.RUnlock()

	p := pattern.Parse(pat)
	result := e.match(&p)

	if e.tombstoneCount > 0 {
		result.AndNot(e.tombstones)
	}

	tids := e.collect(result)
	core.SortTIDs(tids)

	e.logger.Debug("pattern query", "pattern", string(pat), "matches", len(tids))
	e.metrics.OnQuery(time.Since(start), len(tids))

	return tids
}

// match dispatches on the structural case of the parsed pattern. The
// returned bitmap is owned by the caller.
func (e *Engine) match(p *pattern.Pattern) *bitmap.Bitmap {
	switch p.Kind() {
	case pattern.KindEmpty:
		// An empty pattern matches only the empty string.
		return e.lengthEqClone(0)

	case pattern.KindAll:
		// lenGE[0] holds every live slot.
		return e.lengthGEClone(0)

	case pattern.KindExact:
		seg := p.Segments[0]
		eq := e.lengthEq(seg.Len())
		if eq == nil {
			return bitmap.New()
		}
		m := e.matchSegmentAt(seg, 0)
		m.And(eq)
		return m

	case pattern.KindPrefix:
		// matchSegmentAt already enforces length >= |seg|.
		return e.matchSegmentAt(p.Segments[0], 0)

	case pattern.KindSuffix:
		return e.matchSegmentAtEnd(p.Segments[0])

	case pattern.KindContains:
		return e.matchContains(p.Segments[0])

	default:
		return e.matchMulti(p)
	}
}

// matchSegmentAt returns the slots whose record carries the segment
// starting at position start. '_' wildcards contribute no intersection;
// they are consumed by the position arithmetic. A trailing wildcard run
// still requires the record to extend past it, which the length filter
// supplies.
func (e *Engine) matchSegmentAt(seg pattern.Segment, start int) *bitmap.Bitmap {
	if seg.AllWildcards() {
		return e.lengthGEClone(start + seg.Len())
	}

	var result *bitmap.Bitmap
	for i, c := range seg.Text {
		if c == pattern.One {
			continue
		}
		bm := e.fwd[c].get(start + i)
		if bm == nil {
			if result != nil {
				result.Clear()
				return result
			}
			return bitmap.New()
		}
		if result == nil {
			result = bm.Clone()
		} else {
			result.And(bm)
			if result.IsEmpty() {
				return result
			}
		}
	}

	if seg.Text[seg.Len()-1] == pattern.One {
		ge := e.lengthGE(start + seg.Len())
		if ge == nil {
			result.Clear()
			return result
		}
		result.And(ge)
	}

	return result
}

// matchSegmentAtEnd is the reverse-index counterpart of matchSegmentAt:
// the segment is anchored so that its last byte falls on the last byte of
// the record. A leading wildcard run requires the record to extend before
// it, supplied by the length filter.
func (e *Engine) matchSegmentAtEnd(seg pattern.Segment) *bitmap.Bitmap {
	if seg.AllWildcards() {
		return e.lengthGEClone(seg.Len())
	}

	var result *bitmap.Bitmap
	for i, c := range seg.Text {
		if c == pattern.One {
			continue
		}
		bm := e.rev[c].get(i - seg.Len())
		if bm == nil {
			if result != nil {
				result.Clear()
				return result
			}
			return bitmap.New()
		}
		if result == nil {
			result = bm.Clone()
		} else {
			result.And(bm)
			if result.IsEmpty() {
				return result
			}
		}
	}

	if seg.Text[0] == pattern.One {
		ge := e.lengthGE(seg.Len())
		if ge == nil {
			result.Clear()
			return result
		}
		result.And(ge)
	}

	return result
}

// matchContains unions the segment match over every viable start
// position. The per-character cache provides a cheap necessary-condition
// prefilter: a record can only match if it contains every concrete byte of
// the segment somewhere.
func (e *Engine) matchContains(seg pattern.Segment) *bitmap.Bitmap {
	result := bitmap.New()

	pre := e.charPrefilter(seg.Text)
	if pre != nil && pre.IsEmpty() {
		return result
	}

	for p := 0; p+seg.Len() <= e.maxLen; p++ {
		m := e.matchSegmentAt(seg, p)
		if pre != nil {
			m.And(pre)
		}
		result.Or(m)
	}

	return result
}

// matchMulti runs the recursive windowed matcher over a multi-segment
// pattern. The initial candidate set is every record long enough to hold
// all segments, narrowed by the per-character prefilter.
func (e *Engine) matchMulti(p *pattern.Pattern) *bitmap.Bitmap {
	result := bitmap.New()

	candidates := e.lengthGEClone(p.MinLen)
	if candidates.IsEmpty() {
		return result
	}
	for _, seg := range p.Segments {
		if pre := e.charPrefilter(seg.Text); pre != nil {
			candidates.And(pre)
			if candidates.IsEmpty() {
				return result
			}
		}
	}

	e.matchWindowed(result, p, 0, 0, candidates)

	return result
}

// matchWindowed places segment segIdx at every start position in
// [minStart, maxStart], narrowing candidates down each path and recursing
// into the next segment. Candidates shrink monotonically, so an empty
// intersection prunes the whole subtree. Leaf contributions accumulate
// into result.
func (e *Engine) matchWindowed(result *bitmap.Bitmap, p *pattern.Pattern, segIdx, minStart int, candidates *bitmap.Bitmap) {
	seg := p.Segments[segIdx]
	last := segIdx == len(p.Segments)-1

	if last && !p.EndsAny {
		// The final segment is anchored at the end of the record. It must
		// also start at or after minStart, which for an end-anchored
		// segment is exactly a minimum-length constraint.
		m := e.matchSegmentAtEnd(seg)
		m.And(candidates)
		if m.IsEmpty() {
			return
		}
		ge := e.lengthGE(minStart + seg.Len())
		if ge == nil {
			return
		}
		m.And(ge)
		result.Or(m)
		return
	}

	remaining := 0
	for _, s := range p.Segments[segIdx+1:] {
		remaining += s.Len()
	}

	maxStart := e.maxLen - seg.Len() - remaining
	if segIdx == 0 && !p.StartsAny {
		// No leading '%': the first segment is anchored at position 0.
		maxStart = 0
	}

	for pos := minStart; pos <= maxStart; pos++ {
		m := e.matchSegmentAt(seg, pos)
		m.And(candidates)
		if m.IsEmpty() {
			continue
		}
		if last {
			result.Or(m)
		} else {
			e.matchWindowed(result, p, segIdx+1, pos+seg.Len(), m)
		}
	}
}

// charPrefilter intersects the any-position bitmaps of the distinct
// concrete bytes in text. It returns nil when text has no concrete bytes
// (no constraint) and an empty bitmap when some byte occurs in no record.
func (e *Engine) charPrefilter(text []byte) *bitmap.Bitmap {
	var result *bitmap.Bitmap
	var seen [charRange]bool

	for _, c := range text {
		if c == pattern.One || seen[c] {
			continue
		}
		seen[c] = true

		bm := e.charAny[c]
		if bm == nil {
			if result == nil {
				result = bitmap.New()
			} else {
				result.Clear()
			}
			return result
		}
		if result == nil {
			result = bm.Clone()
		} else {
			result.And(bm)
			if result.IsEmpty() {
				return result
			}
		}
	}

	return result
}

// collect materializes a result bitmap into the TID array. Slot numbers at
// or beyond the slot table bound are skipped; the table is the
// authoritative bound against bitmap drift.
func (e *Engine) collect(result *bitmap.Bitmap) []core.TID {
	if result.IsEmpty() {
		return nil
	}

	tids := make([]core.TID, 0, result.Cardinality())
	for s := range result.Iterator() {
		if int(s) >= len(e.tids) {
			continue
		}
		tids = append(tids, e.tids[s])
	}

	return tids
}
