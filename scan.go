package biscuit

import "github.com/hupe1980/biscuit/core"

// Scan is a cursor over one query's result TIDs, in ascending (block,
// offset) order. A Scan is owned by a single caller and is not safe for
// concurrent use.
type Scan struct {
	tids   []core.TID
	cur    int
	closed bool
}

// Next returns the next TID, or false when the scan is exhausted or
// closed.
func (s *Scan) Next() (core.TID, bool) {
	if s.closed || s.cur >= len(s.tids) {
		return core.TID{}, false
	}
	tid := s.tids[s.cur]
	s.cur++
	return tid, true
}

// All returns the remaining TIDs in one batch and exhausts the scan. The
// returned slice is owned by the caller.
func (s *Scan) All() []core.TID {
	if s.closed {
		return nil
	}
	rest := s.tids[s.cur:]
	out := make([]core.TID, len(rest))
	copy(out, rest)
	s.cur = len(s.tids)
	return out
}

// Len returns the total number of TIDs in the result.
func (s *Scan) Len() int {
	return len(s.tids)
}

// Close releases the result buffer. Further calls return nothing.
func (s *Scan) Close() {
	s.closed = true
	s.tids = nil
}
