package biscuit

import "github.com/hupe1980/biscuit/engine"

// ErrSlotsExhausted is returned when the index cannot allocate another
// record slot. Records inserted before the failure remain consistent.
var ErrSlotsExhausted = engine.ErrSlotsExhausted
